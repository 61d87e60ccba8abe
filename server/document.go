package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shabarini/focus-app/internal/logger"
)

type docResponse struct {
	Changed   bool                       `json:"changed"`
	Fields    map[string]json.RawMessage `json:"fields,omitempty"`
	Version   int64                      `json:"version"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

type mergeRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

type mergeResponse struct {
	Version int64 `json:"version"`
}

// handleDocFetch returns the user's document. With ?since=N it short-circuits
// to changed=false when nothing moved past that version, so polling clients
// skip the payload.
func (s *Server) handleDocFetch(c echo.Context) error {
	userID := c.Get("user_id").(string)

	since := int64(-1)
	if v := c.QueryParam("since"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid since"})
		}
		since = parsed
	}

	// MAX over zero rows yields NULL, which is how a brand new user looks.
	var version sql.NullInt64
	var updatedAt sql.NullTime
	err := s.db.QueryRow(`
		SELECT MAX(version), MAX(updated_at) FROM documents WHERE user_id = $1`,
		userID,
	).Scan(&version, &updatedAt)

	if err != nil {
		logger.Error("doc version lookup failed", logger.F("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if !version.Valid {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no document"})
	}

	if since >= 0 && version.Int64 <= since {
		return c.JSON(http.StatusOK, docResponse{
			Changed:   false,
			Version:   version.Int64,
			UpdatedAt: updatedAt.Time,
		})
	}

	rows, err := s.db.Query(`
		SELECT field, value FROM documents WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		logger.Error("doc fetch failed", logger.F("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	fields := map[string]json.RawMessage{}
	for rows.Next() {
		var field string
		var value []byte
		if err := rows.Scan(&field, &value); err != nil {
			logger.Error("doc scan failed", logger.F("error", err.Error()))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		fields[field] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		logger.Error("doc rows failed", logger.F("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, docResponse{
		Changed:   true,
		Fields:    fields,
		Version:   version.Int64,
		UpdatedAt: updatedAt.Time,
	})
}

// handleDocMerge upserts one named field of the user's document. Sibling
// fields are untouched; the per-user version counter is bumped.
func (s *Server) handleDocMerge(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req mergeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.Field == "" || len(req.Value) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "field and value required"})
	}
	if !json.Valid(req.Value) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "value must be valid JSON"})
	}

	var version int64
	err := s.db.QueryRow(`
		INSERT INTO documents (user_id, field, value, version, updated_at)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM documents WHERE user_id = $1), NOW())
		ON CONFLICT (user_id, field) DO UPDATE SET
			value = $3,
			version = (SELECT COALESCE(MAX(version), 0) + 1 FROM documents WHERE user_id = $1),
			updated_at = NOW()
		RETURNING version`,
		userID, req.Field, []byte(req.Value),
	).Scan(&version)

	if err != nil {
		logger.Error("doc merge failed",
			logger.F("field", req.Field),
			logger.F("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	logger.Info("doc merged",
		logger.F("user", userID),
		logger.F("client", c.Request().Header.Get("X-Client-ID")),
		logger.F("field", req.Field),
		logger.F("version", version))

	return c.JSON(http.StatusOK, mergeResponse{Version: version})
}

// handleClear deletes the user's entire remote document.
func (s *Server) handleClear(c echo.Context) error {
	userID := c.Get("user_id").(string)

	res, err := s.db.Exec(`DELETE FROM documents WHERE user_id = $1`, userID)
	if err != nil {
		logger.Error("doc clear failed", logger.F("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	deleted, _ := res.RowsAffected()
	logger.Info("doc cleared", logger.F("user", userID), logger.F("fields", deleted))

	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}

package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/shabarini/focus-app/internal/logger"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
}

// handleRegister creates a user and returns a fresh session token.
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "username, email, and password required"})
	}

	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("bcrypt failed", logger.F("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	var userID string
	err = s.db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id`,
		req.Username, req.Email, string(hash),
	).Scan(&userID)

	if err != nil {
		if strings.Contains(err.Error(), "unique") {
			return c.JSON(http.StatusConflict, map[string]string{"error": "username or email already exists"})
		}
		logger.Error("register insert failed", logger.F("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	token, expiresAt, err := s.createSession(userID)
	if err != nil {
		logger.Error("session create failed", logger.F("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	logger.Info("user registered", logger.F("username", req.Username))

	return c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		UserID:    userID,
	})
}

// handleLogin verifies credentials and returns a fresh session token.
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	var userID, passwordHash string
	err := s.db.QueryRow(`
		SELECT id, password_hash FROM users WHERE username = $1`,
		req.Username,
	).Scan(&userID, &passwordHash)

	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	token, expiresAt, err := s.createSession(userID)
	if err != nil {
		logger.Error("session create failed", logger.F("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	logger.Info("user logged in", logger.F("username", req.Username))

	return c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		UserID:    userID,
	})
}

// handleLogout revokes the session used on this request.
func (s *Server) handleLogout(c echo.Context) error {
	token := c.Get("session_token").(string)

	_, err := s.db.Exec(`DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		logger.Error("logout failed", logger.F("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleMe returns current user info.
func (s *Server) handleMe(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var username, email string
	err := s.db.QueryRow(`
		SELECT username, email FROM users WHERE id = $1`,
		userID,
	).Scan(&username, &email)

	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id":       userID,
		"username": username,
		"email":    email,
	})
}

func (s *Server) createSession(userID string) (string, time.Time, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", time.Time{}, err
	}
	token := hex.EncodeToString(tokenBytes)

	// Sessions expire in 30 days.
	expiresAt := time.Now().Add(30 * 24 * time.Hour)

	_, err := s.db.Exec(`
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)`,
		userID, token, expiresAt,
	)

	return token, expiresAt, err
}

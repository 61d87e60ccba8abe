// Package remote implements the per-user document store client against the
// focus-server HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/shabarini/focus-app/internal/store"
)

// Session holds the persisted auth state for the sync server. ClientID is a
// stable per-install identifier so the server can tell devices apart in logs.
type Session struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	ClientID  string `json:"client_id"`
}

// Client talks to the focus-server document API.
type Client struct {
	session     Session
	sessionPath string
	httpClient  *http.Client
}

// NewClient loads the session from ~/.focus/sync.json and returns a client.
// A missing session file yields a logged-out client with defaults.
func NewClient() (*Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewClientAt(filepath.Join(home, ".focus", "sync.json")), nil
}

// NewClientAt loads the session from an explicit path.
func NewClientAt(sessionPath string) *Client {
	c := &Client{
		sessionPath: sessionPath,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	c.loadSession()
	return c
}

func (c *Client) loadSession() {
	c.session = Session{ServerURL: "http://localhost:8080"}
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, &c.session)
	if c.session.ServerURL == "" {
		c.session.ServerURL = "http://localhost:8080"
	}
}

func (c *Client) clientID() string {
	if c.session.ClientID == "" {
		c.session.ClientID = uuid.NewString()
		_ = c.saveSession()
	}
	return c.session.ClientID
}

func (c *Client) saveSession() error {
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0600)
}

// SetServer changes the sync server URL.
func (c *Client) SetServer(url string) error {
	c.session.ServerURL = url
	return c.saveSession()
}

// IsLoggedIn reports whether a session token is present.
func (c *Client) IsLoggedIn() bool {
	return c.session.Token != ""
}

// UserID returns the authenticated user id, or "" when logged out.
func (c *Client) UserID() string {
	return c.session.UserID
}

// ServerURL returns the configured sync server URL.
func (c *Client) ServerURL() string {
	return c.session.ServerURL
}

type authResult struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (c *Client) auth(path string, body map[string]string) error {
	payload, _ := json.Marshal(body)
	resp, err := c.httpClient.Post(
		c.session.ServerURL+path,
		"application/json",
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed: %s", string(respBody))
	}

	var result authResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	c.session.Token = result.Token
	c.session.UserID = result.UserID
	return c.saveSession()
}

// Register creates a new account and stores the session.
func (c *Client) Register(username, email, password string) error {
	return c.auth("/api/v1/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

// Login authenticates and stores the session.
func (c *Client) Login(username, password string) error {
	return c.auth("/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	})
}

// Logout clears the stored session. Local data is untouched.
func (c *Client) Logout() error {
	c.session.Token = ""
	c.session.UserID = ""
	return c.saveSession()
}

// Clear deletes the entire remote document for this user.
func (c *Client) Clear(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.session.ServerURL+"/api/v1/clear", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error: %s", string(respBody))
	}
	return nil
}

type docResponse struct {
	Changed   bool                       `json:"changed"`
	Fields    map[string]json.RawMessage `json:"fields"`
	Version   int64                      `json:"version"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// Fetch returns the user's full remote document.
func (c *Client) Fetch(ctx context.Context) (store.Document, error) {
	doc, _, err := c.fetch(ctx, -1)
	return doc, err
}

// fetch retrieves the document, or reports changed=false when since >= the
// server version.
func (c *Client) fetch(ctx context.Context, since int64) (store.Document, bool, error) {
	url := c.session.ServerURL + "/api/v1/doc"
	if since >= 0 {
		url = fmt.Sprintf("%s?since=%d", url, since)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return store.Document{}, false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token)
	req.Header.Set("X-Client-ID", c.clientID())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return store.Document{}, false, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return store.Document{}, false, fmt.Errorf("fetch document: %w", store.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return store.Document{}, false, fmt.Errorf("server error: %s", string(respBody))
	}

	var result docResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return store.Document{}, false, err
	}
	doc := store.Document{
		Fields:    result.Fields,
		Version:   result.Version,
		UpdatedAt: result.UpdatedAt,
	}
	return doc, result.Changed || since < 0, nil
}

// MergeField replaces one named field of the remote document, leaving
// sibling fields untouched.
func (c *Client) MergeField(ctx context.Context, field string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	body, _ := json.Marshal(map[string]json.RawMessage{
		"field": json.RawMessage(fmt.Sprintf("%q", field)),
		"value": raw,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.session.ServerURL+"/api/v1/doc", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.session.Token)
	req.Header.Set("X-Client-ID", c.clientID())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error: %s", string(respBody))
	}
	return nil
}

package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shabarini/focus-app/internal/store"
)

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c := NewClientAt(filepath.Join(t.TempDir(), "sync.json"))
	require.NoError(t, c.SetServer(serverURL))
	c.session.Token = "test-token"
	c.session.UserID = "user-1"
	return c
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/doc", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"changed":   true,
			"fields":    map[string]json.RawMessage{"tags": json.RawMessage(`["a"]`)},
			"version":   int64(7),
			"updatedAt": time.Now(),
		})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	doc, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), doc.Version)
	assert.JSONEq(t, `["a"]`, string(doc.Fields["tags"]))
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.Fetch(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMergeField(t *testing.T) {
	var got struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/doc", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]int64{"version": 1})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	require.NoError(t, c.MergeField(context.Background(), "tags", []string{"x", "y"}))

	assert.Equal(t, "tags", got.Field)
	assert.JSONEq(t, `["x","y"]`, string(got.Value))
}

func TestMergeField_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	err := c.MergeField(context.Background(), "tags", []string{})
	assert.Error(t, err)
}

func TestSubscribe_DeliversOnVersionAdvance(t *testing.T) {
	version := int64(1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		since := r.URL.Query().Get("since")
		if since == "1" {
			// Nothing new past version 1.
			_ = json.NewEncoder(w).Encode(map[string]any{
				"changed": false,
				"version": version,
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"changed": true,
			"fields":  map[string]json.RawMessage{"tags": json.RawMessage(`[]`)},
			"version": version,
		})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	docs := make(chan store.Document, 4)
	sub := &subscription{
		client:   c,
		interval: 10 * time.Millisecond,
		onChange: func(d store.Document) { docs <- d },
		stopCh:   make(chan struct{}),
	}
	go sub.loop()
	defer sub.Stop()

	select {
	case doc := <-docs:
		assert.Equal(t, int64(1), doc.Version)
	case <-time.After(2 * time.Second):
		t.Fatal("no document delivered")
	}

	// Same version again must not re-deliver.
	select {
	case <-docs:
		t.Fatal("unexpected re-delivery for unchanged version")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.json")

	c := NewClientAt(path)
	require.NoError(t, c.SetServer("http://example.test:9000"))
	c.session.Token = "tok"
	c.session.UserID = "u1"
	require.NoError(t, c.saveSession())

	c2 := NewClientAt(path)
	assert.Equal(t, "http://example.test:9000", c2.ServerURL())
	assert.True(t, c2.IsLoggedIn())
	assert.Equal(t, "u1", c2.UserID())
}

func TestLogout_ClearsSessionOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.json")

	c := NewClientAt(path)
	c.session.Token = "tok"
	c.session.UserID = "u1"
	require.NoError(t, c.saveSession())

	require.NoError(t, c.Logout())

	c2 := NewClientAt(path)
	assert.False(t, c2.IsLoggedIn())
	assert.Equal(t, "", c2.UserID())
}

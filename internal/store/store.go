// Package store defines the persistence capabilities the sync engine is
// built on. Both stores are injected into the engine so tests can
// substitute in-memory fakes; nothing reaches for ambient globals.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by remote fetches when the user has no document
// yet.
var ErrNotFound = errors.New("not found")

// Local is a durable on-device key-value store for JSON-serializable
// documents. Writes are synchronous; a Local failure must never block the
// caller's in-memory state.
type Local interface {
	// Get unmarshals the value for key into out. It reports false when
	// the key has never been written.
	Get(key string, out any) (bool, error)
	Set(key string, value any) error
	Delete(key string) error
}

// Document is one user's remote document: named collection fields plus the
// store-managed version counter and modification time.
type Document struct {
	Fields    map[string]json.RawMessage `json:"fields"`
	Version   int64                      `json:"version"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// Subscription is a cancellable handle on a remote change feed.
type Subscription interface {
	Stop()
}

// Remote is the per-user document abstraction. MergeField replaces only the
// named field and leaves siblings untouched. Subscribe delivers the latest
// document whenever any writer changes it, until Stop is called on the
// returned handle.
type Remote interface {
	Fetch(ctx context.Context) (Document, error)
	MergeField(ctx context.Context, field string, value any) error
	Subscribe(onChange func(Document)) Subscription
}

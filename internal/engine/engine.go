// Package engine owns the canonical in-memory task state and keeps it in
// step with the local store and, when a session exists, the remote document
// store. All mutations go through the engine; no other component holds a
// mutable copy.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/shabarini/focus-app/internal/logger"
	"github.com/shabarini/focus-app/internal/model"
	"github.com/shabarini/focus-app/internal/ordering"
	"github.com/shabarini/focus-app/internal/store"
)

// Status is the sync state machine value.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusError   Status = "error"
)

const remoteWriteTimeout = 30 * time.Second

// Engine arbitrates between local-only mode (no session) and synchronized
// mode. In-memory state is authoritative for the running session: local
// writes are synchronous, remote writes are async best-effort, and remote
// pushes replace whole collections (last writer wins per field).
type Engine struct {
	mu     sync.Mutex
	local  store.Local
	remote store.Remote // nil in local-only mode

	root   model.CollectionRoot
	status Status

	lastSyncTime time.Time
	onStatus     func(Status)
	sub          store.Subscription

	// Queued remote snapshots, newest per field, drained by one writer
	// goroutine so merges reach the server in mutation order.
	pending    map[string]json.RawMessage
	writerBusy bool

	lastTaskID int64
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given stores. A nil remote means
// local-only mode; the status then stays idle.
func New(local store.Local, remote store.Remote, opts ...Option) *Engine {
	e := &Engine{
		local:  local,
		remote: remote,
		status: StatusIdle,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnStatusChange registers a callback invoked on every status transition.
// The callback runs without the engine lock held.
func (e *Engine) OnStatusChange(fn func(Status)) {
	e.mu.Lock()
	e.onStatus = fn
	e.mu.Unlock()
}

// Status returns the current sync status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// LastSyncTime returns when the engine last confirmed a remote round trip.
func (e *Engine) LastSyncTime() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSyncTime
}

// setStatus must be called with the lock held; it defers the callback to
// after unlock via the returned func.
func (e *Engine) setStatus(s Status) func() {
	if e.status == s {
		return func() {}
	}
	e.status = s
	fn := e.onStatus
	if fn == nil {
		return func() {}
	}
	return func() { fn(s) }
}

// Load populates the in-memory collections. With a session it reads the
// remote document, mirrors it into the local cache, and falls back to the
// cache on remote failure; without one it reads local only. It never fails
// outright: missing data yields seeded defaults.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()

	var fields map[string]json.RawMessage
	remoteOK := false
	notifySyncing := func() {}
	notify := func() {}

	if e.remote != nil {
		notifySyncing = e.setStatus(StatusSyncing)
		doc, err := e.remote.Fetch(ctx)
		switch {
		case err == nil:
			fields = doc.Fields
			remoteOK = true
		case errors.Is(err, store.ErrNotFound):
			// First run for this user; nothing remote yet.
			remoteOK = true
		default:
			logger.Error("Remote load failed, using local cache", logger.F("error", err))
		}
	}

	e.loadCollection(model.FieldTasks, fields, &e.root.Tasks, model.TaskSections{})
	e.loadCollection(model.FieldProjects, fields, &e.root.Projects, model.DefaultProjects())
	e.loadCollection(model.FieldTags, fields, &e.root.Tags, model.DefaultTags())
	e.loadCollection(model.FieldArchive, fields, &e.root.Archive, []model.ArchiveItem{})

	e.normalizeOrders()
	e.trackTaskIDs()

	if e.remote != nil {
		if remoteOK {
			e.lastSyncTime = e.now()
			notify = e.setStatus(StatusSynced)
		} else {
			notify = e.setStatus(StatusError)
		}
	}

	e.mu.Unlock()
	notifySyncing()
	notify()
	return nil
}

// loadCollection resolves one collection: remote value when present (cached
// locally), else the local cache, else the default. Malformed data degrades
// to the next source rather than failing the load.
func (e *Engine) loadCollection(name string, fields map[string]json.RawMessage, out any, def any) {
	if raw, ok := fields[name]; ok {
		if err := json.Unmarshal(raw, out); err == nil {
			if err := e.local.Set(name, out); err != nil {
				logger.Warn("Failed to cache collection locally",
					logger.F("collection", name), logger.F("error", err))
			}
			return
		}
		logger.Warn("Malformed remote collection, falling back to local cache",
			logger.F("collection", name))
	}

	found, err := e.local.Get(name, out)
	if err != nil {
		logger.Warn("Failed to read local collection",
			logger.F("collection", name), logger.F("error", err))
	}
	if found && err == nil {
		return
	}

	// First run: seed the default through the generic out pointer.
	raw, _ := json.Marshal(def)
	_ = json.Unmarshal(raw, out)
}

// normalizeOrders backfills order values for legacy data where every task
// in a section still carries order zero. Mere duplicates from imports are
// left alone; stable sorting tolerates them.
func (e *Engine) normalizeOrders() {
	for _, sec := range model.Sections() {
		tasks := e.root.Tasks.Get(sec)
		if len(tasks) < 2 {
			continue
		}
		allZero := true
		for _, t := range tasks {
			if t.Order != 0 {
				allZero = false
				break
			}
		}
		if allZero {
			for i := range tasks {
				tasks[i].Order = i
			}
		}
	}
}

// trackTaskIDs seeds the monotonic id generator past every loaded task id.
func (e *Engine) trackTaskIDs() {
	consider := func(tasks []model.Task) {
		for _, t := range tasks {
			if t.ID > e.lastTaskID {
				e.lastTaskID = t.ID
			}
		}
	}
	for _, sec := range model.Sections() {
		consider(e.root.Tasks.Get(sec))
	}
	for _, item := range e.root.Archive {
		consider(item.Tasks)
	}
}

// nextTaskID returns a millisecond-timestamp id, bumped when the clock has
// not advanced since the previous id.
func (e *Engine) nextTaskID() int64 {
	id := e.now().UnixMilli()
	if id <= e.lastTaskID {
		id = e.lastTaskID + 1
	}
	e.lastTaskID = id
	return id
}

// StartSync subscribes to remote document changes. A no-op in local-only
// mode or when already subscribed.
func (e *Engine) StartSync() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.remote == nil || e.sub != nil {
		return
	}
	e.sub = e.remote.Subscribe(e.applyRemote)
}

// StopSync cancels the remote subscription.
func (e *Engine) StopSync() {
	e.mu.Lock()
	sub := e.sub
	e.sub = nil
	e.mu.Unlock()
	if sub != nil {
		sub.Stop()
	}
}

// applyRemote merges a pushed remote document into memory: any field whose
// JSON differs from the in-memory copy is replaced wholesale and mirrored
// into the local cache. Last subscription event wins; no per-task merge is
// attempted. The status passes through syncing even from the synced steady
// state so subscribers always see a transition and can refresh.
func (e *Engine) applyRemote(doc store.Document) {
	e.mu.Lock()

	notifySyncing := e.setStatus(StatusSyncing)

	e.mergeRemote(model.FieldTasks, doc.Fields, &e.root.Tasks)
	e.mergeRemote(model.FieldProjects, doc.Fields, &e.root.Projects)
	e.mergeRemote(model.FieldTags, doc.Fields, &e.root.Tags)
	e.mergeRemote(model.FieldArchive, doc.Fields, &e.root.Archive)

	e.normalizeOrders()
	e.trackTaskIDs()
	e.lastSyncTime = e.now()
	notifySynced := e.setStatus(StatusSynced)

	e.mu.Unlock()
	notifySyncing()
	notifySynced()
}

// mergeRemote is the single merge point for remote data. Replacing the
// whole collection keeps conflict handling trivial at the documented cost
// of dropping concurrent edits from another session between two writes.
func (e *Engine) mergeRemote(name string, fields map[string]json.RawMessage, current any) {
	incoming, ok := fields[name]
	if !ok {
		return
	}
	have, err := json.Marshal(current)
	if err == nil && jsonEqual(have, incoming) {
		return
	}
	if err := json.Unmarshal(incoming, current); err != nil {
		logger.Warn("Ignoring malformed remote collection",
			logger.F("collection", name), logger.F("error", err))
		return
	}
	if err := e.local.Set(name, current); err != nil {
		logger.Warn("Failed to mirror remote collection locally",
			logger.F("collection", name), logger.F("error", err))
	}
	logger.Debug("Applied remote collection", logger.F("collection", name))
}

func jsonEqual(a, b []byte) bool {
	var av, bv any
	if err := json.Unmarshal(a, &av); err != nil {
		return bytes.Equal(a, b)
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}
	ar, _ := json.Marshal(av)
	br, _ := json.Marshal(bv)
	return bytes.Equal(ar, br)
}

// saveCollection persists one collection: a synchronous local write whose
// failure is logged but never surfaced, then an async best-effort remote
// merge via the writer queue. Must be called with the lock held; the
// returned func fires status callbacks and must be called after unlock.
func (e *Engine) saveCollection(name string, value any) func() {
	if err := e.local.Set(name, value); err != nil {
		logger.Error("Local write failed; in-memory state remains authoritative",
			logger.F("collection", name), logger.F("error", err))
	}

	if e.remote == nil {
		return func() {}
	}

	notify := e.setStatus(StatusSyncing)

	// Marshal under the lock so the remote write captures this mutation,
	// not a later one.
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Error("Failed to encode collection for remote write",
			logger.F("collection", name), logger.F("error", err))
		failed := e.setStatus(StatusError)
		return func() { notify(); failed() }
	}

	// Enqueue for the single writer. A snapshot already queued for this
	// field is superseded; it never reaches the server, so a newer write
	// cannot be overtaken by a staler one.
	if e.pending == nil {
		e.pending = make(map[string]json.RawMessage)
	}
	e.pending[name] = raw
	if !e.writerBusy {
		e.writerBusy = true
		go e.drainRemote()
	}

	return notify
}

// drainRemote sends queued snapshots to the remote store one at a time.
// Exactly one drain goroutine runs while the queue is non-empty; it exits
// when the queue empties and a later enqueue starts a fresh one.
func (e *Engine) drainRemote() {
	for {
		e.mu.Lock()
		var name string
		var raw json.RawMessage
		for n, r := range e.pending {
			name, raw = n, r
			break
		}
		if name == "" {
			e.writerBusy = false
			e.mu.Unlock()
			return
		}
		delete(e.pending, name)
		remote := e.remote
		e.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		err := remote.MergeField(ctx, name, raw)
		cancel()

		e.mu.Lock()
		after := func() {}
		if err != nil {
			// No retry and no rollback: the next user mutation is the
			// implicit retry.
			logger.Error("Remote write failed", logger.F("collection", name),
				logger.F("error", err))
			after = e.setStatus(StatusError)
		} else {
			e.lastSyncTime = e.now()
			if len(e.pending) == 0 {
				after = e.setStatus(StatusSynced)
			}
		}
		e.mu.Unlock()
		after()
	}
}

// Snapshot returns a deep copy of the full collection root.
func (e *Engine) Snapshot() model.CollectionRoot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root.Clone()
}

// ListSection returns a section's tasks filtered and sorted by order.
func (e *Engine) ListSection(sec model.Section, query, project, tag string) []model.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ordering.Filter(e.root.Tasks.Get(sec), query, project, tag)
}

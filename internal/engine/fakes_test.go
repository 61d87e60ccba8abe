package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shabarini/focus-app/internal/store"
)

// fakeLocal is an in-memory store.Local with failure injection.
type fakeLocal struct {
	mu       sync.Mutex
	data     map[string]json.RawMessage
	failSet  bool
	setCalls []string
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{data: map[string]json.RawMessage{}}
}

func (f *fakeLocal) Get(key string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (f *fakeLocal) Set(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls = append(f.setCalls, key)
	if f.failSet {
		return errors.New("disk full")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeLocal) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeLocal) raw(key string) json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key]
}

// fakeRemote is an in-memory store.Remote. Merges are recorded on a channel
// so tests can wait for the engine's async remote writes.
type fakeRemote struct {
	mu        sync.Mutex
	fields    map[string]json.RawMessage
	version   int64
	failFetch bool
	failMerge bool
	gate      chan struct{} // when non-nil, MergeField waits on it first
	merged    chan string
	onChange  func(store.Document)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		fields: map[string]json.RawMessage{},
		merged: make(chan string, 64),
	}
}

func (f *fakeRemote) Fetch(ctx context.Context) (store.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFetch {
		return store.Document{}, errors.New("network down")
	}
	if len(f.fields) == 0 {
		// Wrapped like the HTTP client wraps it; callers must errors.Is.
		return store.Document{}, fmt.Errorf("remote document: %w", store.ErrNotFound)
	}
	fields := map[string]json.RawMessage{}
	for k, v := range f.fields {
		fields[k] = v
	}
	return store.Document{Fields: fields, Version: f.version}, nil
}

func (f *fakeRemote) MergeField(ctx context.Context, field string, value any) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMerge {
		f.merged <- field
		return errors.New("permission denied")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.fields[field] = raw
	f.version++
	f.merged <- field
	return nil
}

func (f *fakeRemote) Subscribe(onChange func(store.Document)) store.Subscription {
	f.mu.Lock()
	f.onChange = onChange
	f.mu.Unlock()
	return fakeSub{}
}

// push simulates another session writing the document.
func (f *fakeRemote) push(fields map[string]json.RawMessage) {
	f.mu.Lock()
	f.version++
	doc := store.Document{Fields: fields, Version: f.version}
	onChange := f.onChange
	f.mu.Unlock()
	if onChange != nil {
		onChange(doc)
	}
}

type fakeSub struct{}

func (fakeSub) Stop() {}

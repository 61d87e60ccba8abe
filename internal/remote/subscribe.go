package remote

import (
	"context"
	"sync"
	"time"

	"github.com/shabarini/focus-app/internal/logger"
	"github.com/shabarini/focus-app/internal/store"
)

// DefaultPollInterval is how often the subscription checks the server for a
// newer document version.
const DefaultPollInterval = 10 * time.Second

// subscription polls the server and delivers the document whenever its
// version advances. Stop is idempotent.
type subscription struct {
	client   *Client
	interval time.Duration
	onChange func(store.Document)
	since    int64
	stopCh   chan struct{}
	stopOnce sync.Once
}

// Subscribe starts delivering remote document changes until the returned
// handle is stopped. Poll failures are logged and retried on the next tick;
// the engine surfaces them through its own status handling.
func (c *Client) Subscribe(onChange func(store.Document)) store.Subscription {
	s := &subscription{
		client:   c,
		interval: DefaultPollInterval,
		onChange: onChange,
		since:    0,
		stopCh:   make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *subscription) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.poll()
		case <-s.stopCh:
			return
		}
	}
}

func (s *subscription) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	doc, changed, err := s.client.fetch(ctx, s.since)
	if err != nil {
		logger.Debug("Subscription poll failed", logger.F("error", err))
		return
	}
	if !changed || doc.Version <= s.since {
		return
	}
	s.since = doc.Version
	s.onChange(doc)
}

// Stop cancels the subscription.
func (s *subscription) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

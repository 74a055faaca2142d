// Package store is the persistence layer over the document store: it loads
// the versioned state snapshot at startup, coalesces snapshot writes behind
// a debounce window, and manages the smaller per-user documents (check-ins,
// availability, blocks, reports, referral markers).
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"log/slog"

	"github.com/garnizeh/neighborly/pkg/models"
	"github.com/garnizeh/neighborly/pkg/repository"
)

const (
	stateKey = "state"

	// DefaultDebounce is the idle window snapshot writes coalesce behind.
	DefaultDebounce = 1200 * time.Millisecond
)

type Store struct {
	docs     repository.DocumentStore
	snapshot func() models.Snapshot
	logger   *slog.Logger
	debounce time.Duration
	clock    func() time.Time

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

type Option func(*Store)

func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// New builds a Store. snapshot is called at flush time to read the current
// state; it must be safe to call from any goroutine.
func New(docs repository.DocumentStore, snapshot func() models.Snapshot, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		docs:     docs,
		snapshot: snapshot,
		logger:   logger,
		debounce: DefaultDebounce,
		clock:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// MarkDirty schedules a snapshot write after the debounce window; repeated
// calls push the window out.
func (s *Store) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.flushTimer)
		return
	}
	s.timer.Reset(s.debounce)
}

func (s *Store) flushTimer() {
	s.mu.Lock()
	s.timer = nil
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	s.Flush(context.Background())
}

// Flush writes the snapshot now. Persistence failures are logged and
// swallowed: the in-memory state stays the source of truth and the next
// debounced write naturally retries.
func (s *Store) Flush(ctx context.Context) {
	if s.snapshot == nil {
		return
	}
	snap := s.snapshot()
	stripPhotos(&snap)

	raw, err := json.Marshal(snap)
	if err != nil {
		s.logger.Warn("marshal snapshot", "err", err)
		return
	}
	if err := s.docs.Put(ctx, stateKey, raw); err != nil {
		s.logger.Warn("persist snapshot", "err", err)
	}
}

// Close flushes any pending write and stops the debouncer. Call on clean
// shutdown so the last debounce window isn't lost.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.Flush(context.Background())
}

// stripPhotos drops photo payloads before persisting to bound storage size;
// they live in memory only.
func stripPhotos(s *models.Snapshot) {
	for i := range s.Posts {
		if s.Posts[i].Help != nil && s.Posts[i].Help.CompletionPhoto != "" {
			h := *s.Posts[i].Help
			h.CompletionPhoto = ""
			s.Posts[i].Help = &h
		}
	}
}

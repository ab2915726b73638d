package favorites

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// writer persists full-list snapshots on a single goroutine.
//
// The mailbox holds at most one pending snapshot. Scheduling replaces
// whatever is still waiting, so writes never overlap and the last write
// to complete is always the last snapshot scheduled.
type writer struct {
	kv     domain.KeyValueStore
	key    string
	logger *slog.Logger

	mailbox chan []domain.Movie
	done    chan struct{}

	mu     sync.Mutex // Serializes schedule/close against each other
	closed bool
}

func newWriter(kv domain.KeyValueStore, key string, logger *slog.Logger) *writer {
	w := &writer{
		kv:      kv,
		key:     key,
		logger:  logger,
		mailbox: make(chan []domain.Movie, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// schedule queues snapshot for writing without blocking.
// Returns false once the writer is closed.
func (w *writer) schedule(snapshot []domain.Movie) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}

	// Drop a stale pending snapshot; the new one supersedes it
	select {
	case <-w.mailbox:
	default:
	}
	// Only schedulers send and they hold w.mu, so the slot is free
	w.mailbox <- snapshot
	return true
}

func (w *writer) run() {
	defer close(w.done)
	for snapshot := range w.mailbox {
		if err := w.write(snapshot); err != nil {
			w.logger.Error("failed to save favorites", "error", err, "count", len(snapshot))
			continue
		}
		w.logger.Debug("saved favorites", "count", len(snapshot))
	}
}

func (w *writer) write(snapshot []domain.Movie) error {
	data, err := Encode(snapshot)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistFailure, err)
	}
	if err := w.kv.SetItem(w.key, data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistFailure, err)
	}
	return nil
}

// close stops accepting snapshots and waits for the pending one to land.
func (w *writer) close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.mailbox)
	}
	w.mu.Unlock()
	<-w.done
}

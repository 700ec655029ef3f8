package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reaper drops expired state and returns how many entries it removed
type Reaper interface {
	Reap(ctx context.Context) int
}

// SessionReaper periodically evicts idle editing sessions
type SessionReaper struct {
	target   Reaper
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSessionReaper creates a reaper that runs every interval
func NewSessionReaper(target Reaper, interval time.Duration, logger *zap.Logger) *SessionReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionReaper{target: target, interval: interval, logger: logger}
}

// Name returns the worker name
func (r *SessionReaper) Name() string { return "session-reaper" }

// Start begins the reaping loop
func (r *SessionReaper) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("worker already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true
	go r.loop(runCtx, r.done)
	return nil
}

// Stop ends the loop and waits for it
func (r *SessionReaper) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	r.cancel()
	done := r.done
	r.mu.Unlock()
	<-done
	return nil
}

func (r *SessionReaper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.target.Reap(ctx); n > 0 {
				r.logger.Info("Expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

var _ Worker = (*SessionReaper)(nil)

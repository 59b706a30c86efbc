package media

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// Deleter removes hosted media by URL. *Adapter implements it.
type Deleter interface {
	DeleteByURL(ctx context.Context, rawURL string) error
}

// Cleaner runs best-effort media deletions in the background. Outcomes are
// logged and never reported to the code that scheduled them.
type Cleaner struct {
	deleter Deleter
	pool    *pool.Pool
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

func NewCleaner(deleter Deleter, workers int, timeout time.Duration, logger *slog.Logger) *Cleaner {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		deleter: deleter,
		pool:    pool.New().WithMaxGoroutines(workers),
		timeout: timeout,
		logger:  logger,
	}
}

// Schedule queues deletion of each non-empty URL and returns immediately.
func (c *Cleaner) Schedule(reason string, urls ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.logger.Warn("media cleanup skipped, cleaner stopped", "reason", reason, "urls", urls)
		return
	}
	for _, u := range urls {
		if u == "" {
			continue
		}
		u := u
		c.pending.Add(1)
		go func() {
			defer c.pending.Done()
			c.pool.Go(func() { c.delete(reason, u) })
		}()
	}
}

func (c *Cleaner) delete(reason, url string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	err := c.deleter.DeleteByURL(ctx, url)
	switch {
	case errors.Is(err, ErrNotHosted):
		c.logger.Debug("media cleanup skipped, external url", "reason", reason, "url", url)
	case err != nil:
		c.logger.Warn("media cleanup failed", "reason", reason, "url", url, "error", err)
	default:
		c.logger.Info("media cleaned up", "reason", reason, "url", url)
	}
}

// Wait stops accepting work and blocks until scheduled deletions finish.
func (c *Cleaner) Wait() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.pending.Wait()
	c.pool.Wait()
}

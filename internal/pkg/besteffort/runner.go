// Package besteffort runs side tasks whose outcome must never reach the caller.
// A task gets its own timeout, detached from the triggering request, and any
// error or panic it produces ends up as a log line.
package besteffort

import (
	"context"
	"fmt"
	"sync"
	"time"

	"captioncraft/internal/pkg/logger"

	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

type Runner struct {
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func NewRunner(timeout time.Duration, log *zap.Logger) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Runner{timeout: timeout, logger: logger.OrNop(log)}
}

// Go starts task in the background and returns immediately. Cancellation of
// parent does not stop the task; values carried by parent are kept.
func (r *Runner) Go(parent context.Context, name string, task Task) {
	if r == nil || task == nil {
		return
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx := context.WithoutCancel(parent)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.run(ctx, task); err != nil {
			r.logger.Warn("best-effort task failed", zap.String("task", name), zap.Error(err))
			return
		}
		r.logger.Debug("best-effort task done", zap.String("task", name))
	}()
}

// Wait blocks until in-flight tasks finish or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) run(parent context.Context, task Task) (err error) {
	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return task(ctx)
}

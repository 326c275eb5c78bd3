// internal/taskpool/pool.go
package taskpool

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("taskpool: pool closed")

// Pool bounds the number of blocking collaborator calls (repository lookups,
// persistence, LLM requests) running at once. Callers submit a task and wait
// for its result; at most width tasks execute concurrently across all callers.
type Pool struct {
	sem    *semaphore.Weighted
	closed chan struct{}
}

// New creates a pool with the given width. Width must be >= 1.
func New(width int64) *Pool {
	if width < 1 {
		width = 1
	}
	return &Pool{
		sem:    semaphore.NewWeighted(width),
		closed: make(chan struct{}),
	}
}

// Submit runs fn once a pool slot is available and returns its error.
// The calling goroutine blocks until fn completes, the context is
// cancelled, or the pool is closed.
func (p *Pool) Submit(ctx context.Context, fn func(context.Context) error) error {
	select {
	case <-p.closed:
		return ErrPoolClosed
	default:
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer p.sem.Release(1)
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The task keeps its slot until fn returns; we only stop waiting.
		return ctx.Err()
	}
}

// Close marks the pool closed. Tasks already running are unaffected.
func (p *Pool) Close() {
	select {
	case <-p.closed:
	default:
		close(p.closed)
	}
}

// Run submits a result-returning task to the pool.
func Run[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := p.Submit(ctx, func(ctx context.Context) error {
		var innerErr error
		result, innerErr = fn(ctx)
		return innerErr
	})
	return result, err
}

package taskpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Submit(t *testing.T) {
	p := New(2)
	defer p.Close()

	var ran bool
	err := p.Submit(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestPool_Submit_PropagatesError(t *testing.T) {
	p := New(1)
	defer p.Close()

	want := errors.New("task failed")
	err := p.Submit(context.Background(), func(context.Context) error {
		return want
	})
	assert.ErrorIs(t, err, want)
}

func TestPool_Submit_BoundsConcurrency(t *testing.T) {
	const width = 2
	p := New(width)
	defer p.Close()

	var running, peak int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Submit(context.Background(), func(context.Context) error {
				n := atomic.AddInt64(&running, 1)
				for {
					old := atomic.LoadInt64(&peak)
					if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&running, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(width))
}

func TestPool_Submit_ContextCancellation(t *testing.T) {
	p := New(1)
	defer p.Close()

	// Occupy the only slot.
	release := make(chan struct{})
	go func() {
		_ = p.Submit(context.Background(), func(context.Context) error {
			<-release
			return nil
		})
	}()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := p.Submit(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}

func TestPool_Close(t *testing.T) {
	p := New(1)
	p.Close()

	err := p.Submit(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPoolClosed)

	// Close is idempotent.
	p.Close()
}

func TestRun_ReturnsValue(t *testing.T) {
	p := New(1)
	defer p.Close()

	got, err := Run(context.Background(), p, func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestRun_ReturnsError(t *testing.T) {
	p := New(1)
	defer p.Close()

	want := errors.New("lookup failed")
	_, err := Run(context.Background(), p, func(context.Context) (string, error) {
		return "", want
	})
	assert.ErrorIs(t, err, want)
}

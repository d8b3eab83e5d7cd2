package deferral

import (
	"context"
	stderrors "errors"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = stderrors.New("deferral: loop closed")

// Loop is a Queue backed by goroutines. At most the configured number of
// workers run at once; Submit never waits for a slot. Completions are
// queued and only run inside Run or Drain, on the calling goroutine.
type Loop struct {
	sem         *semaphore.Weighted
	wake        chan struct{}
	completions []func()
	outstanding int
	closed      bool
	mu          sync.Mutex
}

var _ Queue = (*Loop)(nil)

// NewLoop creates a Loop running at most workers tasks concurrently.
// workers <= 0 means one.
func NewLoop(workers int64) *Loop {
	if workers <= 0 {
		workers = 1
	}
	return &Loop{
		sem:  semaphore.NewWeighted(workers),
		wake: make(chan struct{}, 1),
	}
}

// Submit queues work. done is queued for the completion goroutine once
// work returns.
func (l *Loop) Submit(work, done func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.outstanding++
	l.mu.Unlock()

	go func() {
		// Background never cancels, so Acquire only returns once a slot is free.
		_ = l.sem.Acquire(context.Background(), 1)
		work()
		l.sem.Release(1)

		l.mu.Lock()
		l.completions = append(l.completions, done)
		l.mu.Unlock()
		l.signal()
	}()
	return nil
}

// Drain runs every completion queued so far and returns how many ran.
func (l *Loop) Drain() int {
	l.mu.Lock()
	batch := l.completions
	l.completions = nil
	l.mu.Unlock()

	for _, done := range batch {
		done()
	}

	if len(batch) > 0 {
		l.mu.Lock()
		l.outstanding -= len(batch)
		l.mu.Unlock()
	}
	return len(batch)
}

// Run runs completions as they arrive until ctx is done, or until the loop
// is closed and every submitted task has completed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()

		l.mu.Lock()
		finished := l.closed && l.outstanding == 0
		l.mu.Unlock()
		if finished {
			return nil
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Outstanding returns the number of submitted tasks whose completion has
// not run yet.
func (l *Loop) Outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outstanding
}

// Close stops accepting work. Already submitted tasks still complete.
func (l *Loop) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.signal()
	return nil
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

package host

import (
	"context"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"golang.org/x/sync/semaphore"

	"github.com/wippyai/jsaddon/deferral"
)

// keepAlivePeriod is the tick of the interval that keeps the event loop
// running while tasks are in flight.
const keepAlivePeriod = time.Hour

// LoopQueue is a deferral.Queue whose completions run on a goja_nodejs
// event loop. Workers run on their own goroutines, at most workers at a
// time. While any task is outstanding the loop is kept from exiting.
type LoopQueue struct {
	loop        *eventloop.EventLoop
	sem         *semaphore.Weighted
	keepAlive   *eventloop.Interval
	outstanding int
	closed      bool
	mu          sync.Mutex
}

var _ deferral.Queue = (*LoopQueue)(nil)

// NewLoopQueue creates a queue delivering completions on loop. workers <= 0
// means one.
func NewLoopQueue(loop *eventloop.EventLoop, workers int64) *LoopQueue {
	if workers <= 0 {
		workers = 1
	}
	return &LoopQueue{
		loop: loop,
		sem:  semaphore.NewWeighted(workers),
	}
}

// Submit runs work on a worker goroutine and posts done to the loop. It
// must be called from the loop goroutine, which is where native methods
// run.
func (q *LoopQueue) Submit(work, done func()) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return deferral.ErrClosed
	}
	if q.outstanding == 0 {
		q.keepAlive = q.loop.SetInterval(func(*goja.Runtime) {}, keepAlivePeriod)
	}
	q.outstanding++
	q.mu.Unlock()

	go func() {
		_ = q.sem.Acquire(context.Background(), 1)
		work()
		q.sem.Release(1)

		q.loop.RunOnLoop(func(*goja.Runtime) {
			done()
			q.finish()
		})
	}()
	return nil
}

// Outstanding returns the number of tasks whose completion has not run.
func (q *LoopQueue) Outstanding() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.outstanding
}

// Close refuses further submissions.
func (q *LoopQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	return nil
}

func (q *LoopQueue) finish() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.outstanding--
	if q.outstanding == 0 && q.keepAlive != nil {
		q.loop.ClearInterval(q.keepAlive)
		q.keepAlive = nil
	}
}

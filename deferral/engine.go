package deferral

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/jsaddon"
	"github.com/wippyai/jsaddon/errctx"
	"github.com/wippyai/jsaddon/errors"
)

// Queue is the concurrent work facility. Submit must not block. It runs work
// off the calling goroutine and afterwards runs done exactly once on the
// goroutine it designates for completions. Tasks are not ordered relative
// to each other.
type Queue interface {
	Submit(work, done func()) error
}

// Engine schedules deferred tasks on a Queue.
type Engine struct {
	queue   Queue
	idle    chan struct{}
	nextID  atomic.Uint64
	pending int
	mu      sync.Mutex
}

// New creates an Engine submitting to q.
func New(q Queue) *Engine {
	return &Engine{queue: q}
}

// Defer takes a hold on obj and schedules worker(obj, data) off the calling
// goroutine. Once the worker returns, completion receives its result on the
// queue's completion goroutine, then the hold is released. A task is never
// cancelled; completion runs exactly once.
//
// If the queue refuses the task the hold is released immediately and the
// refusal is recorded in the error context attached to ctx.
func (e *Engine) Defer(ctx context.Context, obj jsaddon.Object, data any, worker WorkerFunc, completion CompletionFunc) (*Task, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ec := errctx.From(ctx)
	if obj == nil || worker == nil || completion == nil {
		return nil, ec.Record(errors.KindYouSuck, "deferral requires an object, a worker and a completion")
	}

	obj.Hold()
	t := &Task{
		ctx:        ctx,
		obj:        obj,
		data:       data,
		worker:     worker,
		completion: completion,
		engine:     e,
		id:         e.nextID.Add(1),
	}
	e.begin()

	if err := e.queue.Submit(t.run, t.complete); err != nil {
		obj.Release()
		e.end()
		return nil, ec.RecordError(errors.New(errors.PhaseDefer, errors.KindYouSuck).
			Cause(err).
			Detail("work queue refused task %d: %v", t.id, err).
			Build())
	}

	Logger().Debug("task scheduled", zap.Uint64("task", t.id))
	return t, nil
}

// Pending returns the number of tasks whose completion has not yet run.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Wait blocks until no task is pending or ctx is done. Completions must be
// able to run while Wait blocks, so Wait must not be called from the
// queue's completion goroutine.
func (e *Engine) Wait(ctx context.Context) error {
	e.mu.Lock()
	idle := e.idle
	e.mu.Unlock()
	if idle == nil {
		return nil
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) begin() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == 0 {
		e.idle = make(chan struct{})
	}
	e.pending++
}

func (e *Engine) end() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending--
	if e.pending == 0 {
		close(e.idle)
		e.idle = nil
	}
}

func (t *Task) run() {
	if !t.transition(StateScheduled, StateRunning) {
		errctx.Fatal("task %d started in state %s", t.id, t.State())
	}
	wctx := errctx.With(context.WithoutCancel(t.ctx), errctx.New())
	t.result = t.worker(wctx, t.obj, t.data)
}

func (t *Task) complete() {
	if !t.transition(StateRunning, StateCompleting) {
		errctx.Fatal("task %d completing in state %s", t.id, t.State())
	}
	t.completion(t.ctx, t.obj, t.data, t.result)
	t.obj.Release()
	t.state.Store(int32(StateDone))
	t.engine.end()

	Logger().Debug("task done", zap.Uint64("task", t.id))
}

package deferral

import (
	"context"
	"sync/atomic"

	"github.com/wippyai/jsaddon"
)

// State is a deferred task's position in its lifecycle.
type State int32

const (
	StateScheduled State = iota
	StateRunning
	StateCompleting
	StateDone
)

var stateNames = [...]string{
	StateScheduled:  "scheduled",
	StateRunning:    "running",
	StateCompleting: "completing",
	StateDone:       "done",
}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// WorkerFunc runs off the scheduling goroutine. ctx carries a fresh error
// context private to the worker. The worker has no error channel: failures
// belong in the returned result.
type WorkerFunc func(ctx context.Context, obj jsaddon.Object, data any) any

// CompletionFunc runs on the goroutine the queue designates for
// completions, with the scheduling context and the worker's result.
type CompletionFunc func(ctx context.Context, obj jsaddon.Object, data any, result any)

// Task is one unit of deferred work.
type Task struct {
	ctx        context.Context
	obj        jsaddon.Object
	data       any
	result     any
	worker     WorkerFunc
	completion CompletionFunc
	engine     *Engine
	id         uint64
	state      atomic.Int32
}

// ID returns the task's engine-unique id.
func (t *Task) ID() uint64 { return t.id }

// State returns the current lifecycle state.
func (t *Task) State() State { return State(t.state.Load()) }

func (t *Task) transition(from, to State) bool {
	return t.state.CompareAndSwap(int32(from), int32(to))
}

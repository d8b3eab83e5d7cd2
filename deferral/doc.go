// Package deferral runs blocking native work off the scheduling goroutine.
//
// Engine.Defer holds the owning object, hands the worker to a Queue and,
// once the worker returns, runs the completion and releases the hold:
//
//	scheduled -> running -> completing -> done
//
// Workers get their own error context and report failure only through
// their result. Loop is the in-process Queue: a bounded pool of worker
// goroutines whose completions are delivered on whichever goroutine calls
// Run or Drain. The host package provides a Queue that delivers
// completions on a JavaScript event loop instead.
package deferral

// Package errctx holds the per-execution error context of the marshaling
// core.
//
// Every fallible operation overwrites the Context of the execution it runs
// in with a (kind, message) pair and also returns the error, so the host
// binding can read the last failure after a call returns:
//
//	ctx, ec := errctx.Ensure(ctx)
//	if err := args.Decode(ctx, list, args.NoExtra, args.Number(&n)); err != nil {
//	    return nil, err
//	}
//	...
//	kind, msg, _ := ec.Last()
//
// There is exactly one live Context per execution: the scheduling goroutine
// has one and every deferred worker is handed a fresh one. Contexts are
// never read by another execution, so they need no locking.
//
// A recorded KindNoError with an empty message is the explicit "void"
// outcome and differs from a Context that has recorded nothing.
//
// # Fatal
//
// Fatal is a separate failure class for internal invariant violations. It
// writes the diagnostic, syncs, and exits the process. It is never used for
// conditions a caller can trigger with bad input.
package errctx

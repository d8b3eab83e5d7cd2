// Package jsaddon is the marshaling and deferred-dispatch core for native
// JavaScript addons written in Go.
//
// Values cross the boundary as nvlist containers of tagged values. Native
// methods decode their positional arguments, do their work, possibly off
// the event loop, and build a result or record an error.
//
// # Architecture Overview
//
//	jsaddon/          Root package with Func and Object
//	├── nvlist/       Ordered, unique-key container of typed pairs
//	├── value/        Tagged value kinds: classify, extract, encode
//	├── errors/       Error taxonomy and structured error type
//	├── errctx/       Per-execution error context and the fatal path
//	├── args/         Two-pass positional argument decoder
//	├── object/       Recursive object builder with function handle holds
//	├── resource/     Refcounted handle table
//	├── deferral/     Deferred work with object holds across the worker boundary
//	├── host/         goja binding: JS values, callbacks, exceptions, event loop
//	└── demo/         Example addon used by the CLI and integration tests
//
// # Quick Start
//
// A native method decodes its arguments and builds a result:
//
//	func add(ctx context.Context, in *nvlist.List) (*nvlist.List, error) {
//	    var a, b float64
//	    if err := args.Decode(ctx, in, args.NoExtra, args.Number(&a), args.Number(&b)); err != nil {
//	        return nil, err
//	    }
//	    return builder.New(ctx, object.Number(jsaddon.ResultKey, a+b))
//	}
//
// Install it on a runtime:
//
//	addon := host.New()
//	addon.Method("add", add)
//	addon.Install(vm, "native")
//
// # Errors
//
// Recoverable failures (missing, mistyped or extra arguments, API misuse,
// container failures) are recorded in the errctx.Context attached to the
// call's context and returned. The host turns them into exceptions with a
// code property naming the kind. Internal invariant violations go through
// errctx.Fatal and end the process.
//
// # Thread Safety
//
// Containers and error contexts belong to one goroutine at a time. Hold
// counts are the only state shared between the event loop and workers and
// are updated atomically.
package jsaddon

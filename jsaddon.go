package jsaddon

import (
	"context"

	"github.com/wippyai/jsaddon/nvlist"
)

// Func is a native method callable from JavaScript. args holds the call's
// positional arguments under "0".."N-1" and is freed when the call
// returns. A non-nil result is converted back and freed; if it has a "res"
// member, that member alone is the return value. A nil result with a nil
// error returns undefined.
//
// Failures are reported by returning the error recorded in the call's
// error context; the host throws it as a JavaScript exception.
type Func func(ctx context.Context, args *nvlist.List) (*nvlist.List, error)

// Object is a native object whose lifetime is tracked by holds. Hold and
// Release must be safe for concurrent use.
type Object interface {
	Hold()
	Release()
}

// ResultKey is the member that carries a scalar return value.
const ResultKey = "res"

// Package args decodes positional argument lists.
//
// Arguments arrive as an nvlist.List keyed "0", "1", ... with no gaps. The
// caller declares the expected shape as a list of Slots:
//
//	var (
//		n    float64
//		name string
//	)
//	if err := args.Decode(ctx, in, args.NoExtra, args.Number(&n), args.String(&name)); err != nil {
//		return nil, err
//	}
//
// Decoding is all-or-nothing. Every position is validated before any
// destination is written. Missing positions fail with missingarg, a wrong
// kind with badarg, and surplus positions under NoExtra with extraarg.
package args

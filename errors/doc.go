// Package errors provides structured error types for the jsaddon module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (one of
// the fixed errno-style kinds reported to the host). The Error type carries
// the argument or property path, expected and actual value kinds, and a
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindBadArg).
//		Path("1").
//		Expected("number").
//		Actual("string").
//		Detail("argument 1 is of incorrect type").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MissingArg(1)
//	err := errors.InvalidInput(errors.PhaseEncode, "invalid property type 9")
//
// Kinds:
//
//	noerror     explicit success or void result
//	nomem       allocation failure in the container layer or a system call
//	badf        bad underlying descriptor
//	yousuck     caller violated the API contract
//	unknown     unmapped system or container error
//	missingarg  required positional argument absent
//	badarg      positional argument present but of the wrong kind
//	extraarg    more positional arguments supplied than declared
//
// All errors implement the standard error interface and support errors.Is/As.
// A target with an empty Phase matches on Kind alone.
package errors

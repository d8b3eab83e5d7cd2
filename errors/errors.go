package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode    Phase = "decode"    // container to native arguments
	PhaseEncode    Phase = "encode"    // native values to container
	PhaseDefer     Phase = "defer"     // deferred work scheduling
	PhaseHost      Phase = "host"      // host runtime binding
	PhaseSystem    Phase = "system"    // underlying system calls
	PhaseContainer Phase = "container" // container manipulation
	PhaseNative    Phase = "native"    // addon logic reporting its own failure
)

// Kind categorizes the error. The set is closed: every failure surfaced to
// the host maps onto exactly one of these.
type Kind string

const (
	KindNoError    Kind = "noerror"
	KindNoMem      Kind = "nomem"
	KindBadF       Kind = "badf"
	KindYouSuck    Kind = "yousuck"
	KindUnknown    Kind = "unknown"
	KindMissingArg Kind = "missingarg"
	KindBadArg     Kind = "badarg"
	KindExtraArg   Kind = "extraarg"
)

var descriptions = map[Kind]string{
	KindNoError:    "no error",
	KindNoMem:      "out of memory",
	KindBadF:       "bad file descriptor",
	KindYouSuck:    "programmer error",
	KindUnknown:    "unknown error",
	KindMissingArg: "missing argument",
	KindBadArg:     "bad argument",
	KindExtraArg:   "extra argument",
}

// Description returns the canonical human-readable text for k.
func (k Kind) Description() string {
	if d, ok := descriptions[k]; ok {
		return d
	}
	return descriptions[KindUnknown]
}

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Expected string
	Actual   string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Expected != "" || e.Actual != "" {
		b.WriteString(": ")
		if e.Expected != "" && e.Actual != "" {
			b.WriteString("expected ")
			b.WriteString(e.Expected)
			b.WriteString(", got ")
			b.WriteString(e.Actual)
		} else if e.Expected != "" {
			b.WriteString("expected ")
			b.WriteString(e.Expected)
		} else {
			b.WriteString("got ")
			b.WriteString(e.Actual)
		}
	}

	if e.Detail != "" {
		if e.Expected != "" || e.Actual != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Message returns the text recorded in an error context: the detail when
// present, otherwise the kind's canonical description.
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Kind.Description()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase == "" {
			return e.Kind == t.Kind
		}
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the argument or property path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Expected sets the expected kind name
func (b *Builder) Expected(k string) *Builder {
	b.err.Expected = k
	return b
}

// Actual sets the observed kind name
func (b *Builder) Actual(k string) *Builder {
	b.err.Actual = k
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error for a stored value
func TypeMismatch(phase Phase, path []string, expected, actual string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindBadArg,
		Path:     path,
		Expected: expected,
		Actual:   actual,
	}
}

// MissingArg creates a missing positional argument error
func MissingArg(index int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMissingArg,
		Path:   []string{fmt.Sprint(index)},
		Detail: fmt.Sprintf("argument %d is required", index),
	}
}

// BadArg creates an incorrectly typed positional argument error
func BadArg(index int, expected, actual string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindBadArg,
		Path:     []string{fmt.Sprint(index)},
		Expected: expected,
		Actual:   actual,
		Detail:   fmt.Sprintf("argument %d is of incorrect type", index),
	}
}

// ExtraArg creates a superfluous arguments error
func ExtraArg(index int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindExtraArg,
		Path:   []string{fmt.Sprint(index)},
		Detail: "superfluous extra argument(s) detected",
	}
}

// InvalidInput creates an API contract violation error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindYouSuck,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

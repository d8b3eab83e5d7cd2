package errctx

import (
	"context"
	stderrors "errors"
	"fmt"
	"syscall"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/jsaddon/errors"
)

// MaxMessageLen bounds recorded messages, in bytes.
const MaxMessageLen = 512

// Context holds the last error recorded by one execution context. A
// Context belongs to exactly one goroutine of execution at a time and is
// not safe for concurrent use; workers get their own.
//
// All methods accept a nil receiver, in which case the error is still
// built and returned but nothing is stored.
type Context struct {
	err  *errors.Error
	kind errors.Kind
	msg  string
	set  bool
}

// New returns a Context in the "nothing attempted yet" state.
func New() *Context {
	return &Context{}
}

// Record overwrites the context with kind and a formatted message. An empty
// format clears the message for KindNoError and installs the kind's
// canonical description otherwise. The recorded error is returned, nil for
// KindNoError, so call sites can write
//
//	return nil, ec.Record(errors.KindYouSuck, "bad flags %x", flags)
func (c *Context) Record(kind errors.Kind, format string, args ...any) error {
	var msg string
	switch {
	case format != "":
		msg = fmt.Sprintf(format, args...)
	case kind != errors.KindNoError:
		msg = kind.Description()
	}

	if kind == errors.KindNoError {
		c.store(nil, kind, msg)
		return nil
	}

	err := &errors.Error{
		Phase:  errors.PhaseNative,
		Kind:   kind,
		Detail: msg,
	}
	c.store(err, kind, msg)
	return err
}

// RecordError records a structured error as-is. Foreign errors are wrapped
// as KindUnknown. A nil err is Void.
func (c *Context) RecordError(err error) error {
	if err == nil {
		return c.Void()
	}

	var e *errors.Error
	if !stderrors.As(err, &e) {
		e = errors.Wrap(errors.PhaseNative, errors.KindUnknown, err, err.Error())
	}
	if e.Kind == errors.KindNoError {
		c.store(nil, e.Kind, "")
		return nil
	}
	c.store(e, e.Kind, e.Message())
	return e
}

// RecordSys maps a system errno onto a kind and records it with the
// formatted message: ENOMEM is nomem, EBADF is badf, anything else unknown.
func (c *Context) RecordSys(errno error, format string, args ...any) error {
	kind := errors.KindUnknown
	switch {
	case stderrors.Is(errno, syscall.ENOMEM):
		kind = errors.KindNoMem
	case stderrors.Is(errno, syscall.EBADF):
		kind = errors.KindBadF
	}

	msg := kind.Description()
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}

	err := &errors.Error{
		Phase:  errors.PhaseSystem,
		Kind:   kind,
		Detail: msg,
		Cause:  errno,
	}
	c.store(err, kind, msg)
	return err
}

// RecordContainerOp records a failed container manipulation on member.
// ENOMEM is nomem, EINVAL is yousuck, anything else unknown.
func (c *Context) RecordContainerOp(opErr error, member string) error {
	kind := errors.KindUnknown
	switch {
	case stderrors.Is(opErr, syscall.ENOMEM):
		kind = errors.KindNoMem
	case stderrors.Is(opErr, syscall.EINVAL):
		kind = errors.KindYouSuck
	}

	if member == "" {
		member = "<none>"
	}
	reason := "unknown error"
	if opErr != nil {
		reason = opErr.Error()
	}

	err := &errors.Error{
		Phase:  errors.PhaseContainer,
		Kind:   kind,
		Path:   []string{member},
		Detail: fmt.Sprintf("container manipulation error on member %s: %s", member, reason),
		Cause:  opErr,
	}
	c.store(err, kind, err.Detail)
	return err
}

// Void records the explicit "no error, no result" outcome.
func (c *Context) Void() error {
	return c.Record(errors.KindNoError, "")
}

// Last returns the most recent kind and message. ok is false when nothing
// has been recorded, which is distinct from a recorded KindNoError.
func (c *Context) Last() (kind errors.Kind, msg string, ok bool) {
	if c == nil || !c.set {
		return "", "", false
	}
	return c.kind, c.msg, true
}

// Kind returns the last recorded kind, or "" if nothing was recorded.
func (c *Context) Kind() errors.Kind {
	k, _, _ := c.Last()
	return k
}

// Message returns the last recorded message.
func (c *Context) Message() string {
	_, m, _ := c.Last()
	return m
}

// Err returns the last recorded error, nil after KindNoError or before any
// record.
func (c *Context) Err() error {
	if c == nil || c.err == nil {
		return nil
	}
	return c.err
}

// Reset returns the context to the "nothing attempted yet" state.
func (c *Context) Reset() {
	if c == nil {
		return
	}
	*c = Context{}
}

func (c *Context) store(err *errors.Error, kind errors.Kind, msg string) {
	msg = truncate(msg)
	if c != nil {
		c.err = err
		c.kind = kind
		c.msg = msg
		c.set = true
	}
	if kind != errors.KindNoError {
		Logger().Debug("error recorded",
			zap.String("kind", string(kind)),
			zap.String("message", msg))
	}
}

func truncate(msg string) string {
	if len(msg) < MaxMessageLen {
		return msg
	}
	cut := MaxMessageLen - 1
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}

type ctxKey struct{}

// With attaches ec to ctx.
func With(ctx context.Context, ec *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, ec)
}

// From returns the Context attached to ctx, or nil.
func From(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	ec, _ := ctx.Value(ctxKey{}).(*Context)
	return ec
}

// Ensure returns ctx and its attached Context, attaching a fresh one if
// none is present.
func Ensure(ctx context.Context) (context.Context, *Context) {
	if ec := From(ctx); ec != nil {
		return ctx, ec
	}
	ec := New()
	return With(ctx, ec), ec
}

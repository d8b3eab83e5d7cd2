package args

import (
	"context"
	"strconv"

	"github.com/wippyai/jsaddon/errctx"
	"github.com/wippyai/jsaddon/errors"
	"github.com/wippyai/jsaddon/nvlist"
	"github.com/wippyai/jsaddon/value"
)

// Flags modify decoding.
type Flags uint

const (
	// NoExtra rejects an argument list with more positions than declared.
	NoExtra Flags = 1 << iota
)

// Decode validates l against slots and, only if every position matches,
// writes the decoded payloads into the slots' destinations. Position i is
// looked up under the key strconv.Itoa(i).
//
// On failure nothing has been written, the error is recorded in the
// errctx.Context attached to ctx, and the same error is returned.
func Decode(ctx context.Context, l *nvlist.List, flags Flags, slots ...Slot) error {
	ec := errctx.From(ctx)

	if err := validate(l, flags, slots); err != nil {
		return ec.RecordError(err)
	}

	for i, s := range slots {
		p, err := l.Lookup(strconv.Itoa(i))
		if err != nil {
			errctx.Fatal("argument %d vanished after validation: %v", i, err)
		}
		v, err := value.Extract(s.kind, p)
		if err != nil {
			errctx.Fatal("argument %d changed kind after validation: %v", i, err)
		}
		if !s.kind.HasPayload() {
			continue
		}
		if !s.assign(v) {
			errctx.Fatal("argument %d: %T payload does not fit %s slot", i, v, s.kind)
		}
	}

	return nil
}

// Validate runs the checks of Decode without writing anything.
func Validate(ctx context.Context, l *nvlist.List, flags Flags, slots ...Slot) error {
	if err := validate(l, flags, slots); err != nil {
		return errctx.From(ctx).RecordError(err)
	}
	return nil
}

func validate(l *nvlist.List, flags Flags, slots []Slot) error {
	if l == nil {
		return errors.InvalidInput(errors.PhaseDecode, "nil argument list")
	}

	for i, s := range slots {
		if s.kind == value.KindNone || s.kind > value.KindInvalid {
			return errors.New(errors.PhaseDecode, errors.KindYouSuck).
				Path(strconv.Itoa(i)).
				Detail("invalid argument type %d at position %d", s.kind, i).
				Build()
		}

		p, err := l.Lookup(strconv.Itoa(i))
		if err != nil {
			return errors.MissingArg(i)
		}
		if _, err := value.Extract(s.kind, p); err != nil {
			return errors.BadArg(i, s.kind.String(), value.Classify(p).String())
		}
	}

	if flags&NoExtra != 0 && l.Exists(strconv.Itoa(len(slots))) {
		return errors.ExtraArg(len(slots))
	}

	return nil
}

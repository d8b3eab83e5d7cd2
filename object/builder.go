package object

import (
	"context"
	stderrors "errors"

	"github.com/wippyai/jsaddon/errctx"
	"github.com/wippyai/jsaddon/errors"
	"github.com/wippyai/jsaddon/nvlist"
	"github.com/wippyai/jsaddon/resource"
	"github.com/wippyai/jsaddon/value"
)

// Builder constructs lists from property descriptors.
//
// Every function handle written by a Builder takes one hold through the
// Builder's Holder. The list that stores the handle owns that hold from
// then on; whoever frees the list must release it, which nvlist does
// through the releaser passed to NewBuilder with nvlist.WithReleaser.
type Builder struct {
	holder resource.Holder
	opts   []nvlist.Option
}

// NewBuilder creates a Builder. opts are applied to every list allocated
// by New and inherited by nested lists.
func NewBuilder(h resource.Holder, opts ...nvlist.Option) *Builder {
	return &Builder{holder: h, opts: opts}
}

// New builds a fresh list from props. On failure the partial list is freed,
// the error is recorded in the errctx.Context attached to ctx, and nil is
// returned.
func (b *Builder) New(ctx context.Context, props ...Prop) (*nvlist.List, error) {
	l := nvlist.Alloc(b.opts...)
	if err := b.SetProps(ctx, l, props...); err != nil {
		l.Free()
		return nil, err
	}
	return l, nil
}

// SetProps appends props to an existing list. Properties set before a
// failure stay in l.
func (b *Builder) SetProps(ctx context.Context, l *nvlist.List, props ...Prop) error {
	ec := errctx.From(ctx)
	if l == nil {
		return ec.Record(errors.KindYouSuck, "nil target object")
	}
	c := &cursor{props: props}
	return b.build(ec, l, c)
}

// cursor walks one nesting level of descriptors.
type cursor struct {
	props []Prop
	pos   int
}

func (c *cursor) next() (Prop, bool) {
	if c.pos >= len(c.props) {
		return Prop{}, false
	}
	p := c.props[c.pos]
	c.pos++
	return p, true
}

func (b *Builder) build(ec *errctx.Context, l *nvlist.List, c *cursor) error {
	for {
		p, ok := c.next()
		if !ok {
			return nil
		}

		var err error
		switch p.kind {
		case value.KindObject:
			err = b.nested(ec, l, p)
		case value.KindFunc:
			h, ok := p.payload.(resource.Handle)
			if !ok {
				return ec.Record(errors.KindYouSuck, "property %s: %T is not a function handle", p.name, p.payload)
			}
			err = b.handle(ec, l, p.name, h)
		case value.KindAny:
			err = b.copyPair(ec, l, p)
		case value.KindString, value.KindNumber, value.KindBoolean,
			value.KindNull, value.KindUndefined, value.KindStringUint64:
			err = encode(ec, l, p)
		default:
			return ec.Record(errors.KindYouSuck, "invalid property type %d", p.kind)
		}
		if err != nil {
			return err
		}
	}
}

func (b *Builder) nested(ec *errctx.Context, l *nvlist.List, p Prop) error {
	child := l.Child()
	if err := b.build(ec, child, &cursor{props: p.props}); err != nil {
		child.Free()
		return err
	}
	if err := l.AddList(p.name, child); err != nil {
		child.Free()
		return ec.RecordContainerOp(err, p.name)
	}
	return nil
}

// handle stores h under name, marks l as carrying a function handle and
// takes the hold the stored pair owns.
func (b *Builder) handle(ec *errctx.Context, l *nvlist.List, name string, h resource.Handle) error {
	if b.holder == nil {
		return ec.Record(errors.KindYouSuck, "property %s: no holder for function handles", name)
	}
	if !b.holder.Hold(h) {
		return ec.Record(errors.KindYouSuck, "property %s: function handle %d is not live", name, h)
	}
	if err := value.Encode(l, name, value.KindFunc, h); err != nil {
		b.holder.Release(h)
		return ec.RecordContainerOp(err, name)
	}
	if err := l.AddStringArray(nvlist.FuncMarker, nil); err != nil {
		return ec.RecordContainerOp(err, nvlist.FuncMarker)
	}
	return nil
}

// copyPair adds a deep copy of an existing pair. Nested lists are copied
// member by member and every copied function handle takes its own hold.
func (b *Builder) copyPair(ec *errctx.Context, l *nvlist.List, p Prop) error {
	src, ok := p.payload.(*nvlist.Pair)
	if !ok || src == nil {
		return ec.Record(errors.KindYouSuck, "property %s: %T is not a pair", p.name, p.payload)
	}
	switch src.Type() {
	case nvlist.TypeHandle:
		id, _ := src.Handle()
		return b.handle(ec, l, p.name, resource.Handle(id))
	case nvlist.TypeList:
		return b.copyList(ec, l, p.name, src)
	}
	if err := l.AddPair(p.name, src); err != nil {
		return ec.RecordContainerOp(err, p.name)
	}
	return nil
}

func (b *Builder) copyList(ec *errctx.Context, l *nvlist.List, name string, src *nvlist.Pair) error {
	members, _ := src.List()
	child := l.Child()
	var err error
	members.Each(func(m *nvlist.Pair) bool {
		if m.Name() == nvlist.FuncMarker {
			return true
		}
		err = b.copyPair(ec, child, Any(m.Name(), m))
		return err == nil
	})
	if err != nil {
		child.Free()
		return err
	}
	if err := l.AddList(name, child); err != nil {
		child.Free()
		return ec.RecordContainerOp(err, name)
	}
	return nil
}

func encode(ec *errctx.Context, l *nvlist.List, p Prop) error {
	err := value.Encode(l, p.name, p.kind, p.payload)
	if err == nil {
		return nil
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		return ec.RecordError(e)
	}
	return ec.RecordContainerOp(err, p.name)
}

package object

import (
	"github.com/wippyai/jsaddon/nvlist"
	"github.com/wippyai/jsaddon/resource"
	"github.com/wippyai/jsaddon/value"
)

// Prop describes one property to set: a name, a kind and the kind's
// payload. Object props carry their nested props instead of a payload.
type Prop struct {
	payload any
	name    string
	props   []Prop
	kind    value.Kind
}

// Name returns the property name.
func (p Prop) Name() string { return p.name }

// Kind returns the property kind.
func (p Prop) Kind() value.Kind { return p.kind }

func String(name, v string) Prop {
	return Prop{name: name, kind: value.KindString, payload: v}
}

func Number(name string, v float64) Prop {
	return Prop{name: name, kind: value.KindNumber, payload: v}
}

func Boolean(name string, v bool) Prop {
	return Prop{name: name, kind: value.KindBoolean, payload: v}
}

func Null(name string) Prop {
	return Prop{name: name, kind: value.KindNull}
}

func Undefined(name string) Prop {
	return Prop{name: name, kind: value.KindUndefined}
}

// Func encodes a function handle. Building it takes one hold on h.
func Func(name string, h resource.Handle) Prop {
	return Prop{name: name, kind: value.KindFunc, payload: h}
}

// Uint64 encodes v as decimal text.
func Uint64(name string, v uint64) Prop {
	return Prop{name: name, kind: value.KindStringUint64, payload: v}
}

// Any copies an existing pair under name.
func Any(name string, p *nvlist.Pair) Prop {
	return Prop{name: name, kind: value.KindAny, payload: p}
}

// Object builds a nested list from props.
func Object(name string, props ...Prop) Prop {
	return Prop{name: name, kind: value.KindObject, props: props}
}

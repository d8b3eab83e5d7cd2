package args

import (
	"github.com/wippyai/jsaddon/nvlist"
	"github.com/wippyai/jsaddon/resource"
	"github.com/wippyai/jsaddon/value"
)

// Slot declares the expected kind of one positional argument and where its
// decoded payload goes. A nil destination validates without storing.
type Slot struct {
	dst  any
	kind value.Kind
}

// Kind returns the declared kind.
func (s Slot) Kind() value.Kind { return s.kind }

// Slot constructors, one per kind. Null and Undefined carry no payload.

func Number(dst *float64) Slot { return Slot{kind: value.KindNumber, dst: dst} }
func String(dst *string) Slot { return Slot{kind: value.KindString, dst: dst} }
func Boolean(dst *bool) Slot { return Slot{kind: value.KindBoolean, dst: dst} }
func Object(dst **nvlist.List) Slot { return Slot{kind: value.KindObject, dst: dst} }
func Func(dst *resource.Handle) Slot { return Slot{kind: value.KindFunc, dst: dst} }
func Uint64(dst *uint64) Slot { return Slot{kind: value.KindStringUint64, dst: dst} }
func Any(dst **nvlist.Pair) Slot { return Slot{kind: value.KindAny, dst: dst} }
func Invalid(dst *nvlist.DataType) Slot { return Slot{kind: value.KindInvalid, dst: dst} }
func Null() Slot { return Slot{kind: value.KindNull} }
func Undefined() Slot { return Slot{kind: value.KindUndefined} }

// assign stores v into the slot's destination. It reports false when the
// payload type does not match the destination.
func (s Slot) assign(v any) bool {
	if s.dst == nil {
		return true
	}
	switch dst := s.dst.(type) {
	case *float64:
		x, ok := v.(float64)
		if !ok {
			return false
		}
		if dst != nil {
			*dst = x
		}
	case *string:
		x, ok := v.(string)
		if !ok {
			return false
		}
		if dst != nil {
			*dst = x
		}
	case *bool:
		x, ok := v.(bool)
		if !ok {
			return false
		}
		if dst != nil {
			*dst = x
		}
	case **nvlist.List:
		x, ok := v.(*nvlist.List)
		if !ok {
			return false
		}
		if dst != nil {
			*dst = x
		}
	case *resource.Handle:
		x, ok := v.(resource.Handle)
		if !ok {
			return false
		}
		if dst != nil {
			*dst = x
		}
	case *uint64:
		x, ok := v.(uint64)
		if !ok {
			return false
		}
		if dst != nil {
			*dst = x
		}
	case **nvlist.Pair:
		x, ok := v.(*nvlist.Pair)
		if !ok {
			return false
		}
		if dst != nil {
			*dst = x
		}
	case *nvlist.DataType:
		x, ok := v.(nvlist.DataType)
		if !ok {
			return false
		}
		if dst != nil {
			*dst = x
		}
	default:
		return false
	}
	return true
}

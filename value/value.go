package value

import (
	"strconv"

	"github.com/wippyai/jsaddon/errors"
	"github.com/wippyai/jsaddon/nvlist"
	"github.com/wippyai/jsaddon/resource"
)

// Classify maps a stored pair to its tagged kind. Encodings outside the
// mapping classify as KindInvalid. Strings always classify as KindString;
// KindStringUint64 is only recognized by Extract.
func Classify(p *nvlist.Pair) Kind {
	if p == nil {
		return KindInvalid
	}
	switch p.Type() {
	case nvlist.TypeDouble:
		return KindNumber
	case nvlist.TypeString:
		return KindString
	case nvlist.TypeList:
		return KindObject
	case nvlist.TypeBooleanValue:
		return KindBoolean
	case nvlist.TypeBoolean:
		return KindUndefined
	case nvlist.TypeByte:
		if b, err := p.Byte(); err != nil || b != 0 {
			return KindInvalid
		}
		return KindNull
	case nvlist.TypeHandle:
		return KindFunc
	default:
		return KindInvalid
	}
}

// Extract decodes p as kind k. Payload types per kind:
//
//	KindNumber        float64
//	KindString        string
//	KindBoolean       bool
//	KindObject        *nvlist.List
//	KindFunc          resource.Handle
//	KindStringUint64  uint64
//	KindAny           *nvlist.Pair, unmodified
//	KindInvalid       nvlist.DataType of the stored pair
//	KindNull          nil
//	KindUndefined     nil
//
// KindAny and KindInvalid always succeed.
func Extract(k Kind, p *nvlist.Pair) (any, error) {
	if p == nil {
		return nil, errors.InvalidInput(errors.PhaseDecode, "nil pair")
	}

	switch k {
	case KindAny:
		return p, nil
	case KindInvalid:
		return p.Type(), nil
	case KindNumber:
		if v, err := p.Double(); err == nil {
			return v, nil
		}
	case KindString:
		if v, err := p.StringValue(); err == nil {
			return v, nil
		}
	case KindBoolean:
		if v, err := p.BooleanValue(); err == nil {
			return v, nil
		}
	case KindObject:
		if v, err := p.List(); err == nil {
			return v, nil
		}
	case KindFunc:
		if v, err := p.Handle(); err == nil {
			return resource.Handle(v), nil
		}
	case KindNull:
		if Classify(p) == KindNull {
			return nil, nil
		}
	case KindUndefined:
		if p.Type() == nvlist.TypeBoolean {
			return nil, nil
		}
	case KindStringUint64:
		if s, err := p.StringValue(); err == nil {
			if v, err := ParseUint64(s); err == nil {
				return v, nil
			}
		}
	}

	return nil, errors.TypeMismatch(errors.PhaseDecode, []string{p.Name()}, k.String(), Classify(p).String())
}

// Encode stores payload under name using the primitive encoding for k.
// Container failures are returned as the raw errno from nvlist; a payload
// that does not fit k is a *errors.Error of kind yousuck.
//
// KindFunc only stores the handle. Adding the companion marker and taking
// a hold is the caller's responsibility.
func Encode(l *nvlist.List, name string, k Kind, payload any) error {
	switch k {
	case KindNumber:
		if v, ok := payload.(float64); ok {
			return l.AddDouble(name, v)
		}
	case KindString:
		if v, ok := payload.(string); ok {
			return l.AddString(name, v)
		}
	case KindBoolean:
		if v, ok := payload.(bool); ok {
			return l.AddBooleanValue(name, v)
		}
	case KindObject:
		if v, ok := payload.(*nvlist.List); ok {
			return l.AddList(name, v)
		}
	case KindNull:
		return l.AddByte(name, 0)
	case KindUndefined:
		return l.AddBoolean(name)
	case KindFunc:
		if v, ok := payload.(resource.Handle); ok {
			return l.AddHandle(name, uint64(v))
		}
	case KindStringUint64:
		if v, ok := payload.(uint64); ok {
			return l.AddString(name, strconv.FormatUint(v, 10))
		}
	case KindAny:
		if v, ok := payload.(*nvlist.Pair); ok {
			return l.AddPair(name, v)
		}
	default:
		return errors.New(errors.PhaseEncode, errors.KindYouSuck).
			Path(name).
			Detail("invalid property type %d", k).
			Build()
	}

	return errors.New(errors.PhaseEncode, errors.KindYouSuck).
		Path(name).
		Expected(k.String()).
		Value(payload).
		Detail("payload %T does not encode as %s", payload, k).
		Build()
}

// ParseUint64 parses s as an unsigned 64-bit integer literal. A leading
// "0x" or "0X" selects base 16, a leading "0" selects base 8, anything
// else is decimal. Signs, whitespace and trailing garbage are rejected.
func ParseUint64(s string) (uint64, error) {
	base, digits := 10, s
	switch {
	case len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		base, digits = 16, s[2:]
	case len(s) > 1 && s[0] == '0':
		base, digits = 8, s[1:]
	}
	return strconv.ParseUint(digits, base, 64)
}

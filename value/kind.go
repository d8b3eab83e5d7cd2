package value

// Kind is the tagged kind of a value at the marshaling boundary.
type Kind uint8

const (
	KindNone Kind = iota // end-of-signature, never stored
	KindNumber
	KindString
	KindBoolean
	KindObject
	KindNull
	KindUndefined
	KindFunc
	KindStringUint64 // uint64 transported as decimal text
	KindAny          // pass-through, untyped
	KindInvalid      // type-mismatch sentinel
)

var kindNames = [...]string{
	KindNone:         "none",
	KindNumber:       "number",
	KindString:       "string",
	KindBoolean:      "boolean",
	KindObject:       "object",
	KindNull:         "null",
	KindUndefined:    "undefined",
	KindFunc:         "function",
	KindStringUint64: "strnumber64",
	KindAny:          "any",
	KindInvalid:      "invalid",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// HasPayload reports whether decoding k produces a value worth storing.
func (k Kind) HasPayload() bool {
	return k != KindNull && k != KindUndefined && k != KindNone
}

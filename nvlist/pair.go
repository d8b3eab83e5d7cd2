package nvlist

import "syscall"

// DataType is the primitive encoding of a stored pair.
type DataType uint8

const (
	TypeUnknown DataType = iota
	TypeDouble
	TypeString
	TypeBoolean // flag with no value
	TypeBooleanValue
	TypeByte
	TypeList
	TypeUint64Array
	TypeStringArray
	TypeHandle
)

var dataTypeNames = [...]string{
	TypeUnknown:      "unknown",
	TypeDouble:       "double",
	TypeString:       "string",
	TypeBoolean:      "boolean",
	TypeBooleanValue: "boolean_value",
	TypeByte:         "byte",
	TypeList:         "nvlist",
	TypeUint64Array:  "uint64_array",
	TypeStringArray:  "string_array",
	TypeHandle:       "handle",
}

func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return "unknown"
}

// Pair is a single named value in a List.
type Pair struct {
	val  any
	name string
	typ  DataType
}

// Name returns the pair's key.
func (p *Pair) Name() string { return p.name }

// Type returns the pair's primitive encoding.
func (p *Pair) Type() DataType { return p.typ }

// Double returns the value of a TypeDouble pair.
func (p *Pair) Double() (float64, error) {
	if p.typ != TypeDouble {
		return 0, syscall.EINVAL
	}
	return p.val.(float64), nil
}

// StringValue returns the value of a TypeString pair.
func (p *Pair) StringValue() (string, error) {
	if p.typ != TypeString {
		return "", syscall.EINVAL
	}
	return p.val.(string), nil
}

// BooleanValue returns the value of a TypeBooleanValue pair.
func (p *Pair) BooleanValue() (bool, error) {
	if p.typ != TypeBooleanValue {
		return false, syscall.EINVAL
	}
	return p.val.(bool), nil
}

// Byte returns the value of a TypeByte pair.
func (p *Pair) Byte() (byte, error) {
	if p.typ != TypeByte {
		return 0, syscall.EINVAL
	}
	return p.val.(byte), nil
}

// List returns the nested list of a TypeList pair.
func (p *Pair) List() (*List, error) {
	if p.typ != TypeList {
		return nil, syscall.EINVAL
	}
	return p.val.(*List), nil
}

// Uint64Array returns the value of a TypeUint64Array pair.
func (p *Pair) Uint64Array() ([]uint64, error) {
	if p.typ != TypeUint64Array {
		return nil, syscall.EINVAL
	}
	return p.val.([]uint64), nil
}

// StringArray returns the value of a TypeStringArray pair.
func (p *Pair) StringArray() ([]string, error) {
	if p.typ != TypeStringArray {
		return nil, syscall.EINVAL
	}
	return p.val.([]string), nil
}

// Handle returns the id of a TypeHandle pair.
func (p *Pair) Handle() (uint64, error) {
	if p.typ != TypeHandle {
		return 0, syscall.EINVAL
	}
	return p.val.(uint64), nil
}

// hasHandle reports whether p is a handle pair or a list containing one.
func (p *Pair) hasHandle() bool {
	switch p.typ {
	case TypeHandle:
		return true
	case TypeList:
		found := false
		p.val.(*List).Each(func(c *Pair) bool {
			found = c.hasHandle()
			return !found
		})
		return found
	}
	return false
}

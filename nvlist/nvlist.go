package nvlist

import (
	"syscall"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// FuncMarker is the reserved key added next to every encoded function
// handle. It carries an empty string array and is never business data.
const FuncMarker = ".__jsaddon_func"

// List is an insertion-ordered set of uniquely named, typed pairs.
type List struct {
	pairs    *linkedhashmap.Map
	release  func(uint64)
	maxPairs int
	freed    bool
}

// Option configures a List at allocation time.
type Option func(*List)

// WithMaxPairs bounds the number of pairs a list may hold. Adding past the
// bound fails with ENOMEM. Zero means unbounded.
func WithMaxPairs(n int) Option {
	return func(l *List) {
		l.maxPairs = n
	}
}

// WithReleaser installs the function invoked once for every Handle pair
// when the list is freed.
func WithReleaser(fn func(uint64)) Option {
	return func(l *List) {
		l.release = fn
	}
}

// Alloc creates an empty list.
func Alloc(opts ...Option) *List {
	l := &List{pairs: linkedhashmap.New()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Child allocates an empty list with the same capacity and releaser.
func (l *List) Child() *List {
	return &List{
		pairs:    linkedhashmap.New(),
		maxPairs: l.maxPairs,
		release:  l.release,
	}
}

// Len returns the number of pairs.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return l.pairs.Size()
}

// Exists reports whether a pair named name is present.
func (l *List) Exists(name string) bool {
	_, err := l.Lookup(name)
	return err == nil
}

// Lookup returns the pair named name, or ENOENT.
func (l *List) Lookup(name string) (*Pair, error) {
	if l == nil || name == "" {
		return nil, syscall.EINVAL
	}
	v, ok := l.pairs.Get(name)
	if !ok {
		return nil, syscall.ENOENT
	}
	return v.(*Pair), nil
}

// Each visits pairs in insertion order until fn returns false.
func (l *List) Each(fn func(*Pair) bool) {
	if l == nil {
		return
	}
	it := l.pairs.Iterator()
	for it.Next() {
		if !fn(it.Value().(*Pair)) {
			return
		}
	}
}

// Pairs returns the pairs in insertion order.
func (l *List) Pairs() []*Pair {
	out := make([]*Pair, 0, l.Len())
	l.Each(func(p *Pair) bool {
		out = append(out, p)
		return true
	})
	return out
}

// Free releases every function handle held by the list and its nested
// lists. A freed list is empty and may not be reused.
func (l *List) Free() {
	if l == nil || l.freed {
		return
	}
	l.freed = true
	l.Each(func(p *Pair) bool {
		switch p.typ {
		case TypeHandle:
			if l.release != nil {
				l.release(p.val.(uint64))
			}
		case TypeList:
			p.val.(*List).Free()
		}
		return true
	})
	l.pairs.Clear()
}

func (l *List) add(name string, typ DataType, val any) error {
	if l == nil || name == "" {
		return syscall.EINVAL
	}
	if l.freed {
		return syscall.EBADF
	}
	old, exists := l.pairs.Get(name)
	if exists {
		l.pairs.Remove(name)
		l.drop(old.(*Pair), val)
	} else if l.maxPairs > 0 && l.pairs.Size() >= l.maxPairs {
		return syscall.ENOMEM
	}
	l.pairs.Put(name, &Pair{name: name, typ: typ, val: val})
	return nil
}

// drop disposes of a pair displaced by a same-named add.
func (l *List) drop(old *Pair, replacement any) {
	switch old.typ {
	case TypeHandle:
		if l.release != nil {
			l.release(old.val.(uint64))
		}
	case TypeList:
		if child := old.val.(*List); child != replacement {
			child.Free()
		}
	}
}

// AddDouble adds a number.
func (l *List) AddDouble(name string, v float64) error {
	return l.add(name, TypeDouble, v)
}

// AddString adds a string.
func (l *List) AddString(name, v string) error {
	return l.add(name, TypeString, v)
}

// AddBoolean adds a valueless boolean flag.
func (l *List) AddBoolean(name string) error {
	return l.add(name, TypeBoolean, nil)
}

// AddBooleanValue adds a boolean.
func (l *List) AddBooleanValue(name string, v bool) error {
	return l.add(name, TypeBooleanValue, v)
}

// AddByte adds a single byte.
func (l *List) AddByte(name string, v byte) error {
	return l.add(name, TypeByte, v)
}

// AddList adds a nested list. Ownership of v moves to l.
func (l *List) AddList(name string, v *List) error {
	if v == nil || v == l {
		return syscall.EINVAL
	}
	return l.add(name, TypeList, v)
}

// AddUint64Array adds a copy of v.
func (l *List) AddUint64Array(name string, v []uint64) error {
	return l.add(name, TypeUint64Array, append([]uint64(nil), v...))
}

// AddStringArray adds a copy of v.
func (l *List) AddStringArray(name string, v []string) error {
	return l.add(name, TypeStringArray, append([]string(nil), v...))
}

// AddHandle adds a function handle id.
func (l *List) AddHandle(name string, id uint64) error {
	return l.add(name, TypeHandle, id)
}

// AddPair adds a deep copy of p under name. Pairs carrying a function
// handle, directly or in a nested list, fail with EINVAL: every handle
// pair owns a hold and the list has no way to take one.
func (l *List) AddPair(name string, p *Pair) error {
	if p == nil || p.hasHandle() {
		return syscall.EINVAL
	}
	if p.typ != TypeList {
		return l.add(name, p.typ, copyValue(p))
	}
	child, err := l.Child().copyFrom(p.val.(*List))
	if err != nil {
		return err
	}
	if err := l.add(name, TypeList, child); err != nil {
		child.Free()
		return err
	}
	return nil
}

// copyFrom adds deep copies of every pair of src to l.
func (l *List) copyFrom(src *List) (*List, error) {
	var err error
	src.Each(func(p *Pair) bool {
		err = l.AddPair(p.name, p)
		return err == nil
	})
	if err != nil {
		l.Free()
		return nil, err
	}
	return l, nil
}

func copyValue(p *Pair) any {
	switch v := p.val.(type) {
	case []uint64:
		return append([]uint64(nil), v...)
	case []string:
		return append([]string(nil), v...)
	}
	return p.val
}

package resource

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrClosed = errors.New("resource backend closed")
)

var _ Backend = (*LocalBackend)(nil)

// LocalBackend is an in-memory resource backend with atomic hold counts.
// The entry slice is guarded by mu; hold counts change under the read lock
// so concurrent holders never serialize on each other.
type LocalBackend struct {
	entries  []*entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value  any
	holds  atomic.Int64
	typeID uint32
	valid  bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]*entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Create stores a value with one hold and returns its handle.
func (b *LocalBackend) Create(typeID uint32, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	e := &entry{
		typeID: typeID,
		value:  value,
		valid:  true,
	}
	e.holds.Store(1)

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

// lookup returns the live entry for handle. Caller holds mu.
func (b *LocalBackend) lookup(handle Handle) *entry {
	if handle == 0 {
		return nil
	}
	idx := handle - 1
	if idx >= Handle(len(b.entries)) {
		return nil
	}
	e := b.entries[idx]
	if e == nil || !e.valid {
		return nil
	}
	return e
}

// Get retrieves a value by handle.
func (b *LocalBackend) Get(handle Handle) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// Hold increments the hold count for a handle.
func (b *LocalBackend) Hold(handle Handle) (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return 0, false
	}
	return e.holds.Add(1), true
}

// Release decrements the hold count for a handle and removes the entry
// once no holds remain.
func (b *LocalBackend) Release(handle Handle) (int64, any, bool, bool) {
	b.mu.RLock()
	e := b.lookup(handle)
	if e == nil {
		b.mu.RUnlock()
		return 0, nil, false, false
	}
	n := e.holds.Add(-1)
	b.mu.RUnlock()

	if n > 0 {
		return n, nil, false, true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || int(handle-1) >= len(b.entries) {
		return 0, nil, false, true
	}
	// a concurrent Hold may have revived the entry
	if !e.valid || e.holds.Load() > 0 || b.entries[handle-1] != e {
		return e.holds.Load(), nil, false, true
	}

	value := e.value
	e.valid = false
	e.value = nil
	b.entries[handle-1] = nil
	b.freeList = append(b.freeList, handle)

	return 0, value, true, true
}

// Holds returns the current hold count for a handle.
func (b *LocalBackend) Holds(handle Handle) (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return 0, false
	}
	return e.holds.Load(), true
}

// TypeID returns the type ID for a handle.
func (b *LocalBackend) TypeID(handle Handle) (uint32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return 0, false
	}
	return e.typeID, true
}

// Close releases all resources.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, e := range b.entries {
		if e != nil && e.valid {
			if d, ok := e.value.(Dropper); ok {
				d.Drop()
			}
			e.valid = false
			e.value = nil
		}
	}

	b.entries = nil
	b.freeList = nil
	return nil
}

// Len returns the number of active resources.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e != nil && e.valid {
			count++
		}
	}
	return count
}

// Each iterates over all active resources.
func (b *LocalBackend) Each(fn func(Handle, uint32, any) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e != nil && e.valid {
			if !fn(Handle(i+1), e.typeID, e.value) {
				break
			}
		}
	}
}

package resource

import (
	"sync"
)

// Table is a refcounted handle table with observer support.
// It implements Holder and is safe for concurrent use.
type Table struct {
	backend   Backend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

var _ Holder = (*Table)(nil)

// NewTable creates a new table with a LocalBackend.
func NewTable() *Table {
	return NewTableWithBackend(NewLocalBackend())
}

// NewTableWithBackend creates a table over b.
func NewTableWithBackend(b Backend) *Table {
	return &Table{
		backend: b,
	}
}

// Insert adds a value with a single hold and returns its handle.
func (t *Table) Insert(typeID uint32, value any) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(typeID, value)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
		Holds:  1,
	})

	return handle
}

// Get retrieves a value by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// GetTyped retrieves a value only if it matches the expected type.
func (t *Table) GetTyped(handle Handle, typeID uint32) (any, bool) {
	actualTypeID, ok := t.backend.TypeID(handle)
	if !ok || actualTypeID != typeID {
		return nil, false
	}
	return t.backend.Get(handle)
}

// Hold takes one more hold on handle.
func (t *Table) Hold(handle Handle) bool {
	n, ok := t.backend.Hold(handle)
	if !ok {
		return false
	}
	typeID, _ := t.backend.TypeID(handle)
	t.notify(Event{
		Type:   EventHeld,
		Handle: handle,
		TypeID: typeID,
		Holds:  n,
	})
	return true
}

// Release drops one hold on handle. When the last hold goes the value is
// removed, its Drop method runs if it has one, and EventDropped fires.
func (t *Table) Release(handle Handle) bool {
	typeID, _ := t.backend.TypeID(handle)
	n, value, dropped, ok := t.backend.Release(handle)
	if !ok {
		return false
	}

	t.notify(Event{
		Type:   EventReleased,
		Handle: handle,
		TypeID: typeID,
		Holds:  n,
	})

	if !dropped {
		return true
	}

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	return true
}

// Holds returns the current hold count, or 0 for a dead handle.
func (t *Table) Holds(handle Handle) int64 {
	n, _ := t.backend.Holds(handle)
	return n
}

// ReleaseID is Release for raw ids, usable as an nvlist releaser.
func (t *Table) ReleaseID(id uint64) {
	t.Release(Handle(id))
}

// Ref returns an object view of handle whose Hold and Release act on the
// table entry.
func (t *Table) Ref(handle Handle) *Ref {
	return &Ref{table: t, handle: handle}
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live resources.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Each calls fn for every live resource until fn returns false.
func (t *Table) Each(fn func(handle Handle, typeID uint32, value any) bool) {
	t.backend.Each(fn)
}

// Close drops all resources and stops accepting inserts.
func (t *Table) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}

// Ref is a table entry seen as a holdable object.
type Ref struct {
	table  *Table
	handle Handle
}

// Handle returns the referenced handle.
func (r *Ref) Handle() Handle { return r.handle }

// Value returns the referenced value, or nil once dropped.
func (r *Ref) Value() any {
	v, _ := r.table.Get(r.handle)
	return v
}

// Hold takes a hold on the referenced entry.
func (r *Ref) Hold() {
	r.table.Hold(r.handle)
}

// Release drops a hold on the referenced entry.
func (r *Ref) Release() {
	r.table.Release(r.handle)
}

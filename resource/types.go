package resource

// Handle is an opaque 64-bit reference to a value in a table.
// Handle 0 is reserved and always invalid.
type Handle uint64

// Well-known type IDs used by the host binding.
const (
	TypeCallback uint32 = iota + 1 // host-runtime function
	TypeObject                     // native object backing a host object
)

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventHeld
	EventReleased
	EventDropped
)

var eventNames = [...]string{
	EventCreated:  "created",
	EventHeld:     "held",
	EventReleased: "released",
	EventDropped:  "dropped",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a resource lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	Holds  int64
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Holder increments and decrements hold counts on handles. Implementations
// must be safe for concurrent use from the scheduling and worker sides.
type Holder interface {
	// Hold takes one more hold on handle. Returns false if handle is not live.
	Hold(handle Handle) bool

	// Release drops one hold. The value is destroyed when the count reaches zero.
	Release(handle Handle) bool
}

// Backend provides the underlying storage mechanism for resources.
type Backend interface {
	// Create stores a value with a hold count of one and returns a handle.
	Create(typeID uint32, value any) (Handle, error)

	// Get retrieves a value by handle.
	Get(handle Handle) (any, bool)

	// Hold increments the hold count and returns the new count.
	Hold(handle Handle) (int64, bool)

	// Release decrements the hold count. When it reaches zero the entry is
	// removed and returned with dropped set.
	Release(handle Handle) (holds int64, value any, dropped bool, ok bool)

	// Holds returns the current hold count.
	Holds(handle Handle) (int64, bool)

	// TypeID returns the type an entry was created with.
	TypeID(handle Handle) (uint32, bool)

	// Len returns the number of live entries.
	Len() int

	// Each calls fn for every live entry until fn returns false.
	Each(fn func(Handle, uint32, any) bool)

	// Close releases all resources held by the backend.
	Close() error
}

// Dropper is optionally implemented by resource values that need cleanup.
type Dropper interface {
	Drop()
}

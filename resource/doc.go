// Package resource provides refcounted handle tables for values that must
// stay alive while referenced across the marshaling boundary.
//
// Host callbacks and native objects are inserted into a Table and referred
// to by opaque 64-bit handles. Every handle carries an atomic hold count:
//
//	table := resource.NewTable()
//
//	// Insert a value with one hold, get a handle
//	h := table.Insert(resource.TypeCallback, fn)
//
//	// Another container now references it
//	table.Hold(h)
//
//	// Each owner releases its hold; the last release drops the value
//	table.Release(h)
//	table.Release(h)
//
// # Ownership Contract
//
// Encoding a function handle into a container takes exactly one hold at
// encode time. Whoever destroys the container is responsible for the
// matching Release; nvlist.WithReleaser(table.ReleaseID) wires that up.
//
// # Objects
//
// Ref adapts a table entry to the Hold/Release object shape used by the
// deferral engine, so a task can keep its owning object alive while work
// runs on another goroutine.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	table.Subscribe(observer)
//
//	func (o *observer) OnResourceEvent(e resource.Event) {
//	    switch e.Type {
//	    case resource.EventHeld, resource.EventReleased:
//	        log.Printf("handle %d now has %d holds", e.Handle, e.Holds)
//	    case resource.EventDropped:
//	        log.Printf("handle %d dropped", e.Handle)
//	    }
//	}
//
// Values implementing Dropper have Drop called when their last hold goes.
package resource

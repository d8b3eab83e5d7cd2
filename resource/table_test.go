package resource

import (
	"sync"
	"testing"
)

type testObserver struct {
	events []Event
	mu     sync.Mutex
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	h := table.Insert(TypeCallback, "test")
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok || val != "test" {
		t.Fatalf("Get = %v, %v", val, ok)
	}

	if _, ok := table.GetTyped(h, TypeCallback); !ok {
		t.Fatal("GetTyped with correct type failed")
	}
	if _, ok := table.GetTyped(h, TypeObject); ok {
		t.Fatal("GetTyped with wrong type should fail")
	}

	if !table.Release(h) {
		t.Fatal("Release failed")
	}
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after last Release")
	}
	if table.Release(h) {
		t.Fatal("Release of dropped handle should fail")
	}
}

func TestTable_HoldCount(t *testing.T) {
	table := NewTable()
	h := table.Insert(TypeCallback, "cb")
	base := table.Holds(h)

	table.Hold(h)
	table.Hold(h)
	if got := table.Holds(h) - base; got != 2 {
		t.Errorf("holds relative to baseline = %d, want 2", got)
	}

	table.ReleaseID(uint64(h))
	table.ReleaseID(uint64(h))
	if table.Holds(h) != base {
		t.Errorf("holds = %d, want baseline %d", table.Holds(h), base)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h := table.Insert(TypeObject, "test")
	table.Hold(h)
	table.Release(h)
	table.Release(h)

	want := []EventType{EventCreated, EventHeld, EventReleased, EventReleased, EventDropped}
	if len(obs.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(obs.events), len(want))
	}
	for i, typ := range want {
		if obs.events[i].Type != typ {
			t.Errorf("event %d = %v, want %v", i, obs.events[i].Type, typ)
		}
		if obs.events[i].Handle != h {
			t.Errorf("event %d handle = %d, want %d", i, obs.events[i].Handle, h)
		}
	}
	if obs.events[1].Holds != 2 {
		t.Errorf("held event holds = %d, want 2", obs.events[1].Holds)
	}

	table.Unsubscribe(obs)
	table.Insert(TypeObject, "test2")
	if len(obs.events) != len(want) {
		t.Fatal("Should not receive events after Unsubscribe")
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()

	table.Insert(1, "a")
	table.Insert(1, "b")

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if h := table.Insert(1, "c"); h != 0 {
		t.Fatal("Insert after Close should return 0")
	}
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestTable_DropperInterface(t *testing.T) {
	table := NewTable()
	dc := &dropCounter{}

	h := table.Insert(TypeObject, dc)
	table.Hold(h)
	table.Release(h)
	if dc.count != 0 {
		t.Fatal("Drop called while holds remain")
	}

	table.Release(h)
	if dc.count != 1 {
		t.Fatalf("Expected Drop called once, got %d", dc.count)
	}
}

func TestRef(t *testing.T) {
	table := NewTable()
	h := table.Insert(TypeObject, "obj")
	ref := table.Ref(h)

	if ref.Handle() != h || ref.Value() != "obj" {
		t.Fatalf("Ref = %d/%v", ref.Handle(), ref.Value())
	}

	ref.Hold()
	if table.Holds(h) != 2 {
		t.Errorf("Holds after Ref.Hold = %d, want 2", table.Holds(h))
	}
	ref.Release()
	ref.Release()
	if ref.Value() != nil {
		t.Error("Value should be nil after last release")
	}
}

func TestTable_CustomBackendAndEach(t *testing.T) {
	backend := NewLocalBackend()
	table := NewTableWithBackend(backend)

	a := table.Insert(TypeCallback, "a")
	b := table.Insert(TypeObject, "b")
	table.Release(a)

	var live []Handle
	table.Each(func(h Handle, typeID uint32, v any) bool {
		live = append(live, h)
		if typeID != TypeObject || v != "b" {
			t.Errorf("entry %d = %d/%v", h, typeID, v)
		}
		return true
	})
	if len(live) != 1 || live[0] != b {
		t.Errorf("live = %v, want [%d]", live, b)
	}
	if backend.Len() != table.Len() {
		t.Errorf("table and backend disagree: %d vs %d", table.Len(), backend.Len())
	}
}

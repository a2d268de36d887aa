package events

import (
	"testing"

	"github.com/google/uuid"
)

func TestDelayedEventFiresOnce(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.Schedule(NewDelayed(500, func() { fired++ }))

	if n := s.Tick(499); n != 0 {
		t.Errorf("Tick(499) fired %d events, want 0", n)
	}
	if n := s.Tick(500); n != 1 {
		t.Errorf("Tick(500) fired %d events, want 1", n)
	}
	s.Tick(1500)
	if fired != 1 {
		t.Errorf("delayed event fired %d times, want 1", fired)
	}
	if s.Len() != 0 {
		t.Errorf("scheduler holds %d events after firing, want 0", s.Len())
	}
}

func TestRepeatedEventLifecycle(t *testing.T) {
	s := NewScheduler()
	var firedAt []int64
	now := int64(0)
	s.Schedule(NewRepeated(1000, 1000, 3000, func() bool {
		firedAt = append(firedAt, now)
		return true
	}))

	for now = 0; now <= 3001; now++ {
		s.Tick(now)
	}

	want := []int64{1000, 2000, 3000}
	if len(firedAt) != len(want) {
		t.Fatalf("fired at %v, want %v", firedAt, want)
	}
	for i := range want {
		if firedAt[i] != want[i] {
			t.Fatalf("fired at %v, want %v", firedAt, want)
		}
	}
	if s.Len() != 0 {
		t.Errorf("repeated event still registered at t=3001")
	}
}

func TestRepeatedEventCancelsOnFalse(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.Schedule(NewRepeated(1000, 1000, 3000, func() bool {
		fired++
		return false
	}))

	for now := int64(0); now <= 3001; now++ {
		s.Tick(now)
	}

	if fired != 1 {
		t.Errorf("cancelled event fired %d times, want 1", fired)
	}
	if s.Len() != 0 {
		t.Errorf("cancelled event still registered")
	}
}

func TestRepeatHelperUsesTickClock(t *testing.T) {
	s := NewScheduler()
	s.Tick(5000)

	fired := 0
	s.Repeat(100, 250, func() bool {
		fired++
		return true
	})

	for now := int64(5001); now <= 5400; now++ {
		s.Tick(now)
	}
	// Fires at 5100 and 5200; expiry (5250) is only checked after a firing,
	// so the 5300 firing still lands and the event is dropped after it.
	if fired != 3 {
		t.Errorf("fired %d times, want 3", fired)
	}
	if s.Len() != 0 {
		t.Errorf("event survived past its final firing")
	}
}

func TestDeleteByID(t *testing.T) {
	s := NewScheduler()
	fired := false
	ev := NewDelayed(100, func() { fired = true })
	s.Schedule(ev)

	if got := s.Delete(ev.ID()); got == nil {
		t.Fatal("Delete returned nil for a pending event")
	}
	if got := s.Delete(ev.ID()); got != nil {
		t.Error("second Delete returned an event for an absent id")
	}
	s.Tick(200)
	if fired {
		t.Error("deleted event still fired")
	}
}

func TestDeleteWhere(t *testing.T) {
	entity := uuid.New()
	other := uuid.New()

	s := NewScheduler()
	s.Schedule(NewDelayed(100, func() {}).Tag(Tags{AreaKey: "1:4:5", EntityID: entity, Label: "poison"}))
	s.Schedule(NewDelayed(100, func() {}).Tag(Tags{EntityID: entity}))
	s.Schedule(NewDelayed(100, func() {}).Tag(Tags{EntityID: other, Label: "poison"}))
	s.Schedule(NewDelayed(100, func() {}))

	// A supplied filter must match; events without the tag never match it.
	removed := s.DeleteWhere(Tags{EntityID: entity, Label: "poison"})
	if len(removed) != 1 {
		t.Fatalf("DeleteWhere(entity+label) removed %d events, want 1", len(removed))
	}
	if s.Len() != 3 {
		t.Fatalf("%d events left, want 3", s.Len())
	}

	removed = s.DeleteWhere(Tags{EntityID: entity})
	if len(removed) != 1 {
		t.Fatalf("DeleteWhere(entity) removed %d events, want 1", len(removed))
	}

	// An untagged event is only reachable by the unconstrained filter.
	removed = s.DeleteWhere(Tags{})
	if len(removed) != 2 {
		t.Fatalf("DeleteWhere(all) removed %d events, want 2", len(removed))
	}
	if s.Len() != 0 {
		t.Errorf("%d events left after unconstrained delete, want 0", s.Len())
	}
}

func TestDeleteWhereByArea(t *testing.T) {
	s := NewScheduler()
	s.Schedule(NewDelayed(100, func() {}).Tag(Tags{AreaKey: "0:0:5"}))
	s.Schedule(NewDelayed(100, func() {}).Tag(Tags{AreaKey: "0:1:5"}))

	removed := s.DeleteWhere(Tags{AreaKey: "0:0:5"})
	if len(removed) != 1 {
		t.Fatalf("removed %d events, want 1", len(removed))
	}
	if left := s.DeleteWhere(Tags{AreaKey: "0:0:5"}); len(left) != 0 {
		t.Errorf("second delete removed %d events, want 0", len(left))
	}
}

func TestCallbackSchedulesNextTick(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.Schedule(NewDelayed(100, func() {
		order = append(order, "first")
		s.After(0, func() { order = append(order, "second") })
	}))

	s.Tick(100)
	if len(order) != 1 {
		t.Fatalf("after first tick order=%v, want [first]", order)
	}
	s.Tick(101)
	if len(order) != 2 || order[1] != "second" {
		t.Fatalf("after second tick order=%v, want [first second]", order)
	}
}

func TestDelayHandlerChaining(t *testing.T) {
	s := NewScheduler()
	s.Tick(1000)

	var order []string
	h := s.NewDelayHandler(500)
	h.Then(func() { order = append(order, "then") })
	h.ThenAfter(250, func() { order = append(order, "after") })

	s.Tick(1499)
	if len(order) != 0 {
		t.Fatalf("fired before expiry: %v", order)
	}
	s.Tick(1500)
	if len(order) != 1 || order[0] != "then" {
		t.Fatalf("at expiry order=%v, want [then]", order)
	}
	s.Tick(1750)
	if len(order) != 2 || order[1] != "after" {
		t.Fatalf("past expiry order=%v, want [then after]", order)
	}
}

func TestAfterReturnsDeletableID(t *testing.T) {
	s := NewScheduler()
	fired := false
	id := s.After(300, func() { fired = true })

	if s.Delete(id) == nil {
		t.Fatal("Delete by returned id found nothing")
	}
	s.Tick(300)
	if fired {
		t.Error("deleted event fired")
	}
}

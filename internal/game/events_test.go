package game

import "testing"

func TestBusDeliveryOrder(t *testing.T) {
	b := NewBus()
	var got []string

	b.Subscribe(EventMessage, func(Event) { got = append(got, "kind-1") })
	b.SubscribeAll(func(Event) { got = append(got, "all") })
	b.Subscribe(EventMessage, func(Event) { got = append(got, "kind-2") })

	b.Publish(Event{Kind: EventMessage})

	want := []string{"kind-1", "kind-2", "all"}
	if len(got) != len(want) {
		t.Fatalf("delivered to %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivered to %v, want %v", got, want)
		}
	}
}

func TestBusKindFiltering(t *testing.T) {
	b := NewBus()
	count := 0
	b.Subscribe(EventUnitMoved, func(Event) { count++ })

	b.Publish(Event{Kind: EventUnitMoved})
	b.Publish(Event{Kind: EventUnitDamaged})
	b.Publish(Event{Kind: EventUnitMoved})

	if count != 2 {
		t.Errorf("subscriber fired %d times, want 2", count)
	}
}

func TestSubscriptionClose(t *testing.T) {
	b := NewBus()
	count := 0
	sub := b.Subscribe(EventMessage, func(Event) { count++ })

	b.Publish(Event{Kind: EventMessage})
	sub.Close()
	b.Publish(Event{Kind: EventMessage})
	sub.Close() // closing twice is harmless
	b.Publish(Event{Kind: EventMessage})

	if count != 1 {
		t.Errorf("subscriber fired %d times after close, want 1", count)
	}
}

func TestSubscriptionCloseLeavesOthers(t *testing.T) {
	b := NewBus()
	var first, second int
	sub := b.Subscribe(EventMessage, func(Event) { first++ })
	b.Subscribe(EventMessage, func(Event) { second++ })

	sub.Close()
	b.Publish(Event{Kind: EventMessage})

	if first != 0 || second != 1 {
		t.Errorf("after closing the first handle: first=%d second=%d, want 0/1", first, second)
	}
}

func TestEventsAreSynchronous(t *testing.T) {
	tb := NewTestBattle(
		WithPlayerUnit(testTrooper("mover", nil), 0, 0),
	)
	mover := tb.Unit("mover")

	// The handler observes state already mutated when the event fires.
	var seenPos Coord
	tb.Eng.Bus.Subscribe(EventUnitMoved, func(ev Event) { seenPos = ev.Unit.Pos() })

	dest := Coord{2, 0}
	if r := tb.Eng.Move(mover, dest, 1); r != ReasonNone {
		t.Fatalf("move refused: %v", r)
	}
	if seenPos != dest {
		t.Errorf("handler saw position %v, want %v", seenPos, dest)
	}
}

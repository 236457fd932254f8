package events

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus(4, zerolog.Nop())

	bus.Publish(ChildChanged{BootcampID: 1, Kind: AggregateCost})
	bus.Publish(ChildChanged{BootcampID: 2, Kind: AggregateRating})
	bus.Close()

	var got []ChildChanged
	for e := range bus.Events() {
		got = append(got, e)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].BootcampID != 1 || got[0].Kind != AggregateCost {
		t.Errorf("unexpected first event: %+v", got[0])
	}
	if got[1].BootcampID != 2 || got[1].Kind != AggregateRating {
		t.Errorf("unexpected second event: %+v", got[1])
	}
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewBus(1, zerolog.Nop())

	bus.Publish(ChildChanged{BootcampID: 1, Kind: AggregateCost})
	// buffer full; this must not block the caller
	bus.Publish(ChildChanged{BootcampID: 2, Kind: AggregateCost})
	bus.Close()

	var count int
	for range bus.Events() {
		count++
	}
	if count != 1 {
		t.Errorf("expected overflow event dropped, got %d events", count)
	}
}

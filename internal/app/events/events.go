package events

import (
	"github.com/rs/zerolog"
)

// AggregateKind identifies which derived field a child mutation affects
type AggregateKind string

const (
	AggregateCost   AggregateKind = "average_cost"
	AggregateRating AggregateKind = "average_rating"
)

// ChildChanged is emitted from the storage-mutation boundary after a course
// or review create/update/delete has committed. The triggering request has
// already succeeded by the time this is consumed.
type ChildChanged struct {
	BootcampID int64
	Kind       AggregateKind
}

// Bus is a single-consumer channel bus connecting entity mutations to the
// aggregate maintainer. Publishing never blocks the request path: if the
// buffer is full the event is dropped and logged, matching the best-effort
// policy of the derived fields.
type Bus struct {
	ch     chan ChildChanged
	logger zerolog.Logger
}

// NewBus creates a bus with the given buffer size
func NewBus(buffer int, logger zerolog.Logger) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{
		ch:     make(chan ChildChanged, buffer),
		logger: logger,
	}
}

// Publish enqueues a child-changed event without blocking
func (b *Bus) Publish(e ChildChanged) {
	select {
	case b.ch <- e:
	default:
		b.logger.Warn().
			Int64("bootcampID", e.BootcampID).
			Str("kind", string(e.Kind)).
			Msg("Aggregate event buffer full, dropping event")
	}
}

// Events returns the consumer side of the bus
func (b *Bus) Events() <-chan ChildChanged {
	return b.ch
}

// Close closes the bus; the maintainer drains remaining events and stops
func (b *Bus) Close() {
	close(b.ch)
}

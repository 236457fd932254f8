package services

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/oguzk/campdir/internal/app/events"
)

// CostSource supplies the mean tuition of a bootcamp's courses
type CostSource interface {
	AverageTuition(ctx context.Context, bootcampID int64) (*float64, error)
}

// RatingSource supplies the mean rating of a bootcamp's reviews
type RatingSource interface {
	AverageRating(ctx context.Context, bootcampID int64) (*float64, error)
}

// AggregateStore persists derived averages onto the parent bootcamp
type AggregateStore interface {
	SetAverageCost(ctx context.Context, bootcampID int64, avg *int) error
	SetAverageRating(ctx context.Context, bootcampID int64, avg *float64) error
}

// AggregateMaintainer recomputes a bootcamp's derived averages whenever a
// child entity changes. It consumes ChildChanged events from the bus on its
// own goroutine: the mutation that triggered an event has already committed
// and answered its caller, so recomputation failures are logged and dropped
// rather than retried or rolled back. Concurrent child mutations may race;
// last committed write wins, which is acceptable for a best-effort summary.
type AggregateMaintainer struct {
	courses CostSource
	reviews RatingSource
	store   AggregateStore
	bus     *events.Bus
	logger  zerolog.Logger
	done    chan struct{}
}

// NewAggregateMaintainer creates an AggregateMaintainer
func NewAggregateMaintainer(courses CostSource, reviews RatingSource, store AggregateStore, bus *events.Bus, logger zerolog.Logger) *AggregateMaintainer {
	return &AggregateMaintainer{
		courses: courses,
		reviews: reviews,
		store:   store,
		bus:     bus,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start launches the consumer goroutine. It stops when the bus closes.
func (m *AggregateMaintainer) Start() {
	go m.run()
}

// Wait blocks until the consumer has drained the bus and stopped
func (m *AggregateMaintainer) Wait() {
	<-m.done
}

func (m *AggregateMaintainer) run() {
	defer close(m.done)
	for e := range m.bus.Events() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := m.Recompute(ctx, e.BootcampID, e.Kind); err != nil {
			m.logger.Error().Err(err).
				Int64("bootcampID", e.BootcampID).
				Str("kind", string(e.Kind)).
				Msg("Failed to recompute derived aggregate")
		}
		cancel()
	}
}

// Recompute recalculates one derived field for the given bootcamp. When no
// children remain the field is cleared entirely so that "no data" stays
// distinguishable from an average of zero.
func (m *AggregateMaintainer) Recompute(ctx context.Context, bootcampID int64, kind events.AggregateKind) error {
	switch kind {
	case events.AggregateCost:
		avg, err := m.courses.AverageTuition(ctx, bootcampID)
		if err != nil {
			return err
		}
		if avg == nil {
			return m.store.SetAverageCost(ctx, bootcampID, nil)
		}
		rounded := RoundCostUp(*avg)
		return m.store.SetAverageCost(ctx, bootcampID, &rounded)

	case events.AggregateRating:
		avg, err := m.reviews.AverageRating(ctx, bootcampID)
		if err != nil {
			return err
		}
		// rating averages keep full precision
		return m.store.SetAverageRating(ctx, bootcampID, avg)
	}

	return nil
}

// RoundCostUp rounds a mean tuition up to the nearest multiple of ten
func RoundCostUp(avg float64) int {
	return int(math.Ceil(avg/10)) * 10
}

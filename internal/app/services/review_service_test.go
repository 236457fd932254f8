package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/oguzk/campdir/internal/app/auth"
	"github.com/oguzk/campdir/internal/app/events"
	"github.com/oguzk/campdir/internal/app/models"
	"github.com/oguzk/campdir/internal/app/models/dto"
	"github.com/oguzk/campdir/internal/app/query"
	"github.com/oguzk/campdir/internal/pkg/apperrors"
)

// ---- mock stores ----

type mockReviewStore struct {
	listFn   func(ctx context.Context, d *query.Descriptor, bootcampID *int64) ([]*models.Review, int64, error)
	getFn    func(ctx context.Context, id int64) (*models.Review, error)
	createFn func(ctx context.Context, rv *models.Review) (int64, error)
	updateFn func(ctx context.Context, rv *models.Review) error
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockReviewStore) List(ctx context.Context, d *query.Descriptor, bootcampID *int64) ([]*models.Review, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, d, bootcampID)
	}
	return nil, 0, fmt.Errorf("not configured")
}

func (m *mockReviewStore) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockReviewStore) Create(ctx context.Context, rv *models.Review) (int64, error) {
	if m.createFn != nil {
		return m.createFn(ctx, rv)
	}
	return 0, fmt.Errorf("not configured")
}

func (m *mockReviewStore) Update(ctx context.Context, rv *models.Review) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, rv)
	}
	return fmt.Errorf("not configured")
}

func (m *mockReviewStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return fmt.Errorf("not configured")
}

type mockReviewParent struct {
	getFn           func(ctx context.Context, id int64) (*models.Bootcamp, error)
	isParticipantFn func(ctx context.Context, bootcampID, userID int64) (bool, error)
}

func (m *mockReviewParent) GetByID(ctx context.Context, id int64) (*models.Bootcamp, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockReviewParent) IsParticipant(ctx context.Context, bootcampID, userID int64) (bool, error) {
	if m.isParticipantFn != nil {
		return m.isParticipantFn(ctx, bootcampID, userID)
	}
	return false, fmt.Errorf("not configured")
}

func drainEvents(bus *events.Bus) []events.ChildChanged {
	bus.Close()
	var got []events.ChildChanged
	for e := range bus.Events() {
		got = append(got, e)
	}
	return got
}

// ---- tests ----

// A publisher cannot touch reviews at all, not even one they authored:
// the role gate runs before authorship is considered.
func TestReviewMutationsRequireWriteRole(t *testing.T) {
	publisher := auth.Identity{UserID: 7, Role: models.RolePublisher}
	owned := &models.Review{ID: 3, BootcampID: 11, AuthorID: 7, Rating: 8}

	var mutated bool
	store := &mockReviewStore{
		getFn: func(ctx context.Context, id int64) (*models.Review, error) {
			return owned, nil
		},
		updateFn: func(ctx context.Context, rv *models.Review) error {
			mutated = true
			return nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			mutated = true
			return nil
		},
	}
	bus := events.NewBus(4, zerolog.Nop())
	svc := NewReviewService(store, &mockReviewParent{}, bus)

	rating := 9
	if _, err := svc.Update(context.Background(), publisher, 3, &dto.UpdateReviewRequest{Rating: &rating}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected permission denied on update, got %v", err)
	}
	if err := svc.Delete(context.Background(), publisher, 3); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected permission denied on delete, got %v", err)
	}
	if mutated {
		t.Error("store mutation ran despite denied role")
	}
	if got := drainEvents(bus); len(got) != 0 {
		t.Errorf("expected no events, got %v", got)
	}
}

func TestReviewUpdateAuthorship(t *testing.T) {
	review := &models.Review{ID: 3, BootcampID: 11, AuthorID: 7, Rating: 8}
	rating := 9

	tests := []struct {
		name       string
		ident      auth.Identity
		wantErr    error
		wantEvents int
	}{
		{
			name:    "non-author denied",
			ident:   auth.Identity{UserID: 8, Role: models.RoleUser},
			wantErr: apperrors.ErrPermissionDenied,
		},
		{
			name:       "admin bypasses authorship",
			ident:      auth.Identity{UserID: 1, Role: models.RoleAdmin},
			wantEvents: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockReviewStore{
				getFn: func(ctx context.Context, id int64) (*models.Review, error) {
					rv := *review
					return &rv, nil
				},
				updateFn: func(ctx context.Context, rv *models.Review) error {
					return nil
				},
			}
			bus := events.NewBus(4, zerolog.Nop())
			svc := NewReviewService(store, &mockReviewParent{}, bus)

			_, err := svc.Update(context.Background(), tt.ident, 3, &dto.UpdateReviewRequest{Rating: &rating})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := drainEvents(bus)
			if len(got) != tt.wantEvents {
				t.Errorf("expected %d events, got %v", tt.wantEvents, got)
			}
			if tt.wantEvents == 1 {
				want := events.ChildChanged{BootcampID: 11, Kind: events.AggregateRating}
				if got[0] != want {
					t.Errorf("expected %v, got %v", want, got[0])
				}
			}
		})
	}
}

func TestReviewCreateRequiresParticipant(t *testing.T) {
	bootcamp := &models.Bootcamp{ID: 11, Name: "Devworks", OwnerID: 2}
	req := &dto.CreateReviewRequest{Title: "Great", Text: "Learned a lot", Rating: 9}

	tests := []struct {
		name        string
		ident       auth.Identity
		participant bool
		wantErr     error
	}{
		{
			name:    "non-participant denied",
			ident:   auth.Identity{UserID: 7, Role: models.RoleUser},
			wantErr: apperrors.ErrNotBootcampParticipant,
		},
		{
			name:        "participant allowed",
			ident:       auth.Identity{UserID: 7, Role: models.RoleUser},
			participant: true,
		},
		{
			name:  "admin skips the participant check",
			ident: auth.Identity{UserID: 1, Role: models.RoleAdmin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockReviewStore{
				createFn: func(ctx context.Context, rv *models.Review) (int64, error) {
					rv.ID = 5
					return 5, nil
				},
			}
			parent := &mockReviewParent{
				getFn: func(ctx context.Context, id int64) (*models.Bootcamp, error) {
					return bootcamp, nil
				},
				isParticipantFn: func(ctx context.Context, bootcampID, userID int64) (bool, error) {
					return tt.participant, nil
				},
			}
			bus := events.NewBus(4, zerolog.Nop())
			svc := NewReviewService(store, parent, bus)

			rv, err := svc.Create(context.Background(), tt.ident, 11, req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rv.AuthorID != tt.ident.UserID || rv.BootcampID != 11 {
				t.Errorf("unexpected review %+v", rv)
			}

			got := drainEvents(bus)
			if len(got) != 1 || got[0].Kind != events.AggregateRating {
				t.Errorf("expected one rating event, got %v", got)
			}
		})
	}
}

package services

import (
	"context"
	"net/url"

	"github.com/oguzk/campdir/internal/app/auth"
	"github.com/oguzk/campdir/internal/app/events"
	"github.com/oguzk/campdir/internal/app/models"
	"github.com/oguzk/campdir/internal/app/models/dto"
	"github.com/oguzk/campdir/internal/app/query"
	"github.com/oguzk/campdir/internal/app/repositories"
	"github.com/oguzk/campdir/internal/pkg/apperrors"
)

// ReviewService defines the interface for review operations
type ReviewService interface {
	List(ctx context.Context, raw url.Values, bootcampID *int64) ([]*models.Review, int64, *query.Descriptor, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	Create(ctx context.Context, ident auth.Identity, bootcampID int64, req *dto.CreateReviewRequest) (*models.Review, error)
	Update(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, ident auth.Identity, id int64) error
}

// ReviewStore is the review persistence surface the service needs
type ReviewStore interface {
	List(ctx context.Context, d *query.Descriptor, bootcampID *int64) ([]*models.Review, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	Create(ctx context.Context, rv *models.Review) (int64, error)
	Update(ctx context.Context, rv *models.Review) error
	Delete(ctx context.Context, id int64) error
}

// ReviewParentSource resolves the bootcamp a review targets and whether a
// user is registered for it
type ReviewParentSource interface {
	GetByID(ctx context.Context, id int64) (*models.Bootcamp, error)
	IsParticipant(ctx context.Context, bootcampID, userID int64) (bool, error)
}

// reviewServiceImpl implements the ReviewService interface
type reviewServiceImpl struct {
	reviewRepo   ReviewStore
	bootcampRepo ReviewParentSource
	bus          *events.Bus
}

// NewReviewService creates a new review service instance
func NewReviewService(reviewRepo ReviewStore, bootcampRepo ReviewParentSource, bus *events.Bus) ReviewService {
	return &reviewServiceImpl{
		reviewRepo:   reviewRepo,
		bootcampRepo: bootcampRepo,
		bus:          bus,
	}
}

// List returns reviews, optionally scoped to one bootcamp
func (s *reviewServiceImpl) List(ctx context.Context, raw url.Values, bootcampID *int64) ([]*models.Review, int64, *query.Descriptor, error) {
	d, err := query.Translate(raw, repositories.ReviewCollection)
	if err != nil {
		return nil, 0, nil, err
	}

	reviews, total, err := s.reviewRepo.List(ctx, d, bootcampID)
	if err != nil {
		return nil, 0, nil, err
	}
	return reviews, total, d, nil
}

// Get returns one review with its bootcamp summary
func (s *reviewServiceImpl) Get(ctx context.Context, id int64) (*models.Review, error) {
	return s.reviewRepo.GetByID(ctx, id)
}

// Create adds a review for a bootcamp. The author must be registered as a
// participant of the bootcamp unless they are an admin. One review per
// author per bootcamp; the storage constraint backs the rule.
func (s *reviewServiceImpl) Create(ctx context.Context, ident auth.Identity, bootcampID int64, req *dto.CreateReviewRequest) (*models.Review, error) {
	if err := auth.Authorize(ident, auth.ActionReviewWrite); err != nil {
		return nil, err
	}

	if _, err := s.bootcampRepo.GetByID(ctx, bootcampID); err != nil {
		return nil, err
	}

	if ident.Role != models.RoleAdmin {
		participant, err := s.bootcampRepo.IsParticipant(ctx, bootcampID, ident.UserID)
		if err != nil {
			return nil, err
		}
		if !participant {
			return nil, apperrors.NewCustomError(apperrors.ErrNotBootcampParticipant, "only participants of the bootcamp can review it")
		}
	}

	rv := &models.Review{
		Title:      req.Title,
		Text:       req.Text,
		Rating:     req.Rating,
		BootcampID: bootcampID,
		AuthorID:   ident.UserID,
	}

	if _, err := s.reviewRepo.Create(ctx, rv); err != nil {
		return nil, err
	}

	s.bus.Publish(events.ChildChanged{BootcampID: bootcampID, Kind: events.AggregateRating})
	return rv, nil
}

// Update patches a review, role gate first, then authorship
func (s *reviewServiceImpl) Update(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateReviewRequest) (*models.Review, error) {
	if err := auth.Authorize(ident, auth.ActionReviewWrite); err != nil {
		return nil, err
	}

	rv, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwnership(ident, rv.AuthorID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		rv.Title = *req.Title
	}
	if req.Text != nil {
		rv.Text = *req.Text
	}
	if req.Rating != nil {
		rv.Rating = *req.Rating
	}

	if err := s.reviewRepo.Update(ctx, rv); err != nil {
		return nil, err
	}

	s.bus.Publish(events.ChildChanged{BootcampID: rv.BootcampID, Kind: events.AggregateRating})
	return rv, nil
}

// Delete removes a review, role gate first, then authorship
func (s *reviewServiceImpl) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	if err := auth.Authorize(ident, auth.ActionReviewWrite); err != nil {
		return err
	}

	rv, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeOwnership(ident, rv.AuthorID); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(events.ChildChanged{BootcampID: rv.BootcampID, Kind: events.AggregateRating})
	return nil
}

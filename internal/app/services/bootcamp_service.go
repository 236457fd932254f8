package services

import (
	"context"
	"net/url"

	"github.com/oguzk/campdir/internal/app/auth"
	"github.com/oguzk/campdir/internal/app/models"
	"github.com/oguzk/campdir/internal/app/models/dto"
	"github.com/oguzk/campdir/internal/app/query"
	"github.com/oguzk/campdir/internal/app/repositories"
)

// BootcampService defines the interface for bootcamp operations
type BootcampService interface {
	List(ctx context.Context, raw url.Values) ([]*models.Bootcamp, int64, *query.Descriptor, error)
	Get(ctx context.Context, id int64) (*models.Bootcamp, error)
	Create(ctx context.Context, ident auth.Identity, req *dto.CreateBootcampRequest) (*models.Bootcamp, error)
	Update(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateBootcampRequest) (*models.Bootcamp, error)
	Delete(ctx context.Context, ident auth.Identity, id int64) error
	RegisterParticipant(ctx context.Context, ident auth.Identity, bootcampID, userID int64) (*models.Bootcamp, error)
}

// bootcampServiceImpl implements the BootcampService interface
type bootcampServiceImpl struct {
	bootcampRepo *repositories.BootcampRepository
	userRepo     *repositories.UserRepository
}

// NewBootcampService creates a new bootcamp service instance
func NewBootcampService(bootcampRepo *repositories.BootcampRepository, userRepo *repositories.UserRepository) BootcampService {
	return &bootcampServiceImpl{
		bootcampRepo: bootcampRepo,
		userRepo:     userRepo,
	}
}

// List translates the raw request parameters and executes the resulting
// descriptor. Translation never touches storage; the repository runs it.
func (s *bootcampServiceImpl) List(ctx context.Context, raw url.Values) ([]*models.Bootcamp, int64, *query.Descriptor, error) {
	d, err := query.Translate(raw, repositories.BootcampCollection)
	if err != nil {
		return nil, 0, nil, err
	}

	bootcamps, total, err := s.bootcampRepo.List(ctx, d)
	if err != nil {
		return nil, 0, nil, err
	}
	return bootcamps, total, d, nil
}

// Get returns one bootcamp with courses and participants expanded
func (s *bootcampServiceImpl) Get(ctx context.Context, id int64) (*models.Bootcamp, error) {
	b, err := s.bootcampRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.bootcampRepo.Expand(ctx, []*models.Bootcamp{b}, []string{"courses", "participants"}); err != nil {
		return nil, err
	}
	return b, nil
}

// Create publishes a bootcamp owned by the caller. The one-per-owner rule
// for non-admins is enforced by the storage constraint, not an existence
// check here.
func (s *bootcampServiceImpl) Create(ctx context.Context, ident auth.Identity, req *dto.CreateBootcampRequest) (*models.Bootcamp, error) {
	if err := auth.Authorize(ident, auth.ActionBootcampPublish); err != nil {
		return nil, err
	}

	b := &models.Bootcamp{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Phone:       req.Phone,
		Address:     req.Address,
		Careers:     req.Careers,
		OwnerID:     ident.UserID,
	}
	if b.Careers == nil {
		b.Careers = []string{}
	}

	if _, err := s.bootcampRepo.Create(ctx, b, ident.Role); err != nil {
		return nil, err
	}
	return b, nil
}

// Update patches a bootcamp after role and ownership checks
func (s *bootcampServiceImpl) Update(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateBootcampRequest) (*models.Bootcamp, error) {
	if err := auth.Authorize(ident, auth.ActionBootcampManage); err != nil {
		return nil, err
	}

	b, err := s.bootcampRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwnership(ident, b.OwnerID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.Website != nil {
		b.Website = req.Website
	}
	if req.Phone != nil {
		b.Phone = req.Phone
	}
	if req.Address != nil {
		b.Address = req.Address
	}
	if req.Careers != nil {
		b.Careers = req.Careers
	}

	if err := s.bootcampRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a bootcamp after role and ownership checks
func (s *bootcampServiceImpl) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	if err := auth.Authorize(ident, auth.ActionBootcampManage); err != nil {
		return err
	}

	b, err := s.bootcampRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeOwnership(ident, b.OwnerID); err != nil {
		return err
	}

	return s.bootcampRepo.Delete(ctx, id)
}

// RegisterParticipant adds a user to a bootcamp's participant set. The
// unique participant constraint turns duplicate registration into a
// conflict even under concurrent requests.
func (s *bootcampServiceImpl) RegisterParticipant(ctx context.Context, ident auth.Identity, bootcampID, userID int64) (*models.Bootcamp, error) {
	if err := auth.Authorize(ident, auth.ActionParticipantRegister); err != nil {
		return nil, err
	}

	b, err := s.bootcampRepo.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.bootcampRepo.AddParticipant(ctx, bootcampID, userID); err != nil {
		return nil, err
	}

	if err := s.bootcampRepo.Expand(ctx, []*models.Bootcamp{b}, []string{"participants"}); err != nil {
		return nil, err
	}
	return b, nil
}

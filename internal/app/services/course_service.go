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
)

// CourseService defines the interface for course operations
type CourseService interface {
	List(ctx context.Context, raw url.Values, bootcampID *int64) ([]*models.Course, int64, *query.Descriptor, error)
	Get(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, ident auth.Identity, bootcampID int64, req *dto.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, ident auth.Identity, id int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo   *repositories.CourseRepository
	bootcampRepo *repositories.BootcampRepository
	bus          *events.Bus
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo *repositories.CourseRepository, bootcampRepo *repositories.BootcampRepository, bus *events.Bus) CourseService {
	return &courseServiceImpl{
		courseRepo:   courseRepo,
		bootcampRepo: bootcampRepo,
		bus:          bus,
	}
}

// List returns courses, optionally scoped to one bootcamp
func (s *courseServiceImpl) List(ctx context.Context, raw url.Values, bootcampID *int64) ([]*models.Course, int64, *query.Descriptor, error) {
	d, err := query.Translate(raw, repositories.CourseCollection)
	if err != nil {
		return nil, 0, nil, err
	}

	courses, total, err := s.courseRepo.List(ctx, d, bootcampID)
	if err != nil {
		return nil, 0, nil, err
	}
	return courses, total, d, nil
}

// Get returns one course with its bootcamp summary
func (s *courseServiceImpl) Get(ctx context.Context, id int64) (*models.Course, error) {
	c, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.courseRepo.ExpandBootcamp(ctx, []*models.Course{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// Create adds a course under a bootcamp the caller owns
func (s *courseServiceImpl) Create(ctx context.Context, ident auth.Identity, bootcampID int64, req *dto.CreateCourseRequest) (*models.Course, error) {
	if err := auth.Authorize(ident, auth.ActionCourseManage); err != nil {
		return nil, err
	}

	b, err := s.bootcampRepo.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwnership(ident, b.OwnerID); err != nil {
		return nil, err
	}

	c := &models.Course{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         models.MinimumSkill(req.MinimumSkill),
		ScholarshipAvailable: req.ScholarshipAvailable,
		BootcampID:           bootcampID,
		OwnerID:              ident.UserID,
	}

	if _, err := s.courseRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.bus.Publish(events.ChildChanged{BootcampID: bootcampID, Kind: events.AggregateCost})
	return c, nil
}

// Update patches a course after role and ownership checks
func (s *courseServiceImpl) Update(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	if err := auth.Authorize(ident, auth.ActionCourseManage); err != nil {
		return nil, err
	}

	c, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwnership(ident, c.OwnerID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Weeks != nil {
		c.Weeks = *req.Weeks
	}
	if req.Tuition != nil {
		c.Tuition = *req.Tuition
	}
	if req.MinimumSkill != nil {
		c.MinimumSkill = models.MinimumSkill(*req.MinimumSkill)
	}
	if req.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *req.ScholarshipAvailable
	}

	if err := s.courseRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.bus.Publish(events.ChildChanged{BootcampID: c.BootcampID, Kind: events.AggregateCost})
	return c, nil
}

// Delete removes a course after role and ownership checks
func (s *courseServiceImpl) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	if err := auth.Authorize(ident, auth.ActionCourseManage); err != nil {
		return err
	}

	c, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeOwnership(ident, c.OwnerID); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(events.ChildChanged{BootcampID: c.BootcampID, Kind: events.AggregateCost})
	return nil
}

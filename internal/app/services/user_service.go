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
	pkgauth "github.com/oguzk/campdir/internal/pkg/auth"
)

// UserService defines the interface for administrative user operations
type UserService interface {
	List(ctx context.Context, ident auth.Identity, raw url.Values) ([]*models.User, int64, *query.Descriptor, error)
	Get(ctx context.Context, ident auth.Identity, id int64) (*models.User, error)
	Create(ctx context.Context, ident auth.Identity, req *dto.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, ident auth.Identity, id int64) error
}

// UserStore is the user persistence surface the admin service needs
type UserStore interface {
	List(ctx context.Context, d *query.Descriptor) ([]*models.User, int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) (int64, error)
	UpdateDetails(ctx context.Context, id int64, name, email string) error
	UpdateRole(ctx context.Context, id int64, role models.RoleType) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	Delete(ctx context.Context, id int64) error
}

// OwnedCourseSource lists the bootcamps holding courses owned by a user
type OwnedCourseSource interface {
	BootcampIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
}

// AuthoredReviewSource lists the bootcamps reviewed by a user
type AuthoredReviewSource interface {
	BootcampIDsByAuthor(ctx context.Context, authorID int64) ([]int64, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userRepo UserStore
	courses  OwnedCourseSource
	reviews  AuthoredReviewSource
	bus      *events.Bus
}

// NewUserService creates a new user service instance
func NewUserService(userRepo UserStore, courses OwnedCourseSource, reviews AuthoredReviewSource, bus *events.Bus) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		courses:  courses,
		reviews:  reviews,
		bus:      bus,
	}
}

// List returns users matching the query. Admin only.
func (s *userServiceImpl) List(ctx context.Context, ident auth.Identity, raw url.Values) ([]*models.User, int64, *query.Descriptor, error) {
	if err := auth.Authorize(ident, auth.ActionUserAdminister); err != nil {
		return nil, 0, nil, err
	}

	d, err := query.Translate(raw, repositories.UserCollection)
	if err != nil {
		return nil, 0, nil, err
	}

	users, total, err := s.userRepo.List(ctx, d)
	if err != nil {
		return nil, 0, nil, err
	}
	return users, total, d, nil
}

// Get returns one user by ID. Admin only.
func (s *userServiceImpl) Get(ctx context.Context, ident auth.Identity, id int64) (*models.User, error) {
	if err := auth.Authorize(ident, auth.ActionUserAdminister); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

// Create adds a user with any role, including admin. Admin only.
func (s *userServiceImpl) Create(ctx context.Context, ident auth.Identity, req *dto.CreateUserRequest) (*models.User, error) {
	if err := auth.Authorize(ident, auth.ActionUserAdminister); err != nil {
		return nil, err
	}

	hashed, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := models.RoleType(req.Role)
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     role,
		Password: hashed,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update patches a user's name, email or role. Admin only.
func (s *userServiceImpl) Update(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	if err := auth.Authorize(ident, auth.ActionUserAdminister); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if err := s.userRepo.UpdateDetails(ctx, id, user.Name, user.Email); err != nil {
		return nil, err
	}

	if req.Role != nil {
		role := models.RoleType(*req.Role)
		if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
			return nil, err
		}
		user.Role = role
	}

	if req.Password != nil {
		hashed, err := pkgauth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.UpdatePassword(ctx, id, hashed); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// Delete removes a user. Admin only. Owned bootcamps, courses and reviews go
// with the user through storage cascades, so the bootcamps that survive the
// delete but lose children get a recompute event per derived field. Parents
// that died in the same cascade recompute to an empty child set, which is a
// no-op write.
func (s *userServiceImpl) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	if err := auth.Authorize(ident, auth.ActionUserAdminister); err != nil {
		return err
	}

	courseParents, err := s.courses.BootcampIDsByOwner(ctx, id)
	if err != nil {
		return err
	}
	reviewParents, err := s.reviews.BootcampIDsByAuthor(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, bootcampID := range courseParents {
		s.bus.Publish(events.ChildChanged{BootcampID: bootcampID, Kind: events.AggregateCost})
	}
	for _, bootcampID := range reviewParents {
		s.bus.Publish(events.ChildChanged{BootcampID: bootcampID, Kind: events.AggregateRating})
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oguzk/campdir/internal/app/models"
	"github.com/oguzk/campdir/internal/app/repositories"
	pkgauth "github.com/oguzk/campdir/internal/pkg/auth"
	"github.com/oguzk/campdir/internal/pkg/apperrors"
	"github.com/oguzk/campdir/internal/pkg/email"
)

const resetTokenTTL = 10 * time.Minute

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, name, emailAddr, password string, role models.RoleType) (*models.User, string, error)
	Login(ctx context.Context, emailAddr, password string) (*models.User, string, error)
	GetMe(ctx context.Context, userID int64) (*models.User, error)
	UpdateDetails(ctx context.Context, userID int64, name, emailAddr string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, currentPassword, newPassword string) (string, error)
	ForgotPassword(ctx context.Context, emailAddr, resetBaseURL string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) (string, error)
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	userRepo *repositories.UserRepository
	jwt      *pkgauth.JWTService
	mailer   email.EmailService
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(userRepo *repositories.UserRepository, jwt *pkgauth.JWTService, mailer email.EmailService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		jwt:      jwt,
		mailer:   mailer,
		logger:   logger,
	}
}

// Register creates a user account and returns it with a signed token.
// Self-registration accepts the user and publisher roles only; admins are
// provisioned out of band.
func (s *authServiceImpl) Register(ctx context.Context, name, emailAddr, password string, role models.RoleType) (*models.User, string, error) {
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RolePublisher {
		return nil, "", apperrors.NewValidationError("role must be user or publisher")
	}

	hashed, err := pkgauth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    emailAddr,
		Role:     role,
		Password: hashed,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, _, err := s.jwt.SignToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown email and wrong password fail identically.
func (s *authServiceImpl) Login(ctx context.Context, emailAddr, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !pkgauth.CheckPassword(user.Password, password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, _, err := s.jwt.SignToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetMe returns the caller's profile with owned bootcamps expanded
func (s *authServiceImpl) GetMe(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned, err := s.userRepo.BootcampsOwnedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.BootcampsOwned = owned
	return user, nil
}

// UpdateDetails changes the caller's name and email
func (s *authServiceImpl) UpdateDetails(ctx context.Context, userID int64, name, emailAddr string) (*models.User, error) {
	if err := s.userRepo.UpdateDetails(ctx, userID, name, emailAddr); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// UpdatePassword verifies the current password before replacing it, then
// issues a fresh token.
func (s *authServiceImpl) UpdatePassword(ctx context.Context, userID int64, currentPassword, newPassword string) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if !pkgauth.CheckPassword(user.Password, currentPassword) {
		return "", apperrors.ErrInvalidCredentials
	}

	hashed, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return "", err
	}

	token, _, err := s.jwt.SignToken(user.ID, string(user.Role))
	return token, err
}

// ForgotPassword stores a hashed reset token on the user and mails the raw
// token. If the mail cannot be sent the token is cleared again so a dead
// token never lingers on the account.
func (s *authServiceImpl) ForgotPassword(ctx context.Context, emailAddr, resetBaseURL string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	raw, hashed, err := pkgauth.NewResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.userRepo.SetResetToken(ctx, user.ID, hashed, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/%s", resetBaseURL, raw)
	if err := s.mailer.SendPasswordResetEmail(user.Email, user.Name, resetURL); err != nil {
		if clearErr := s.userRepo.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Error().Err(clearErr).Int64("userID", user.ID).Msg("Failed to clear reset token after send failure")
		}
		return apperrors.NewCustomError(apperrors.ErrUpstreamFailure, "email could not be sent")
	}

	return nil
}

// ResetPassword consumes a raw reset token, replaces the password and
// returns a fresh signed token.
func (s *authServiceImpl) ResetPassword(ctx context.Context, rawToken, newPassword string) (string, error) {
	hashedToken := pkgauth.HashResetToken(rawToken)
	user, err := s.userRepo.GetByResetToken(ctx, hashedToken)
	if err != nil {
		return "", err
	}

	hashed, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return "", err
	}
	if err := s.userRepo.ClearResetToken(ctx, user.ID); err != nil {
		return "", err
	}

	token, _, err := s.jwt.SignToken(user.ID, string(user.Role))
	return token, err
}

package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/oguzk/campdir/internal/app/models"
	appRepos "github.com/oguzk/campdir/internal/app/repositories"
	"github.com/oguzk/campdir/internal/pkg/apperrors"
	pkgauth "github.com/oguzk/campdir/internal/pkg/auth"
)

const defaultAdminEmail = "admin@campdir.dev"

// CreateDefaultData provisions the default admin account on first boot.
// Registration can only create user and publisher roles, so without this
// there would be no way to reach the admin-only surface.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	_, err := userRepo.GetByEmail(ctx, defaultAdminEmail)
	if err == nil {
		lgr.Debug().Msg("Admin user already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking for admin user")
		return err
	}

	lgr.Info().Msg("Creating default admin user...")

	hashed, err := pkgauth.HashPassword("Admin123!")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.User{
		Name:     "System Administrator",
		Email:    defaultAdminEmail,
		Role:     appModels.RoleAdmin,
		Password: hashed,
	}

	adminID, err := userRepo.Create(ctx, admin)
	if err != nil {
		// Another instance may have won the race
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Debug().Msg("Admin user created concurrently, skipping")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", adminID).Msg("Default admin user created")
	return nil
}

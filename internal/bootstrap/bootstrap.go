package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/oguzk/campdir/internal/app/controllers"
	appEvents "github.com/oguzk/campdir/internal/app/events"
	appMigrations "github.com/oguzk/campdir/internal/app/migrations"
	appRepos "github.com/oguzk/campdir/internal/app/repositories"
	appRoutes "github.com/oguzk/campdir/internal/app/routes"
	appServices "github.com/oguzk/campdir/internal/app/services"
	"github.com/oguzk/campdir/internal/config"
	"github.com/oguzk/campdir/internal/db"
	appMiddleware "github.com/oguzk/campdir/internal/middleware"
	pkgAuth "github.com/oguzk/campdir/internal/pkg/auth"
	"github.com/oguzk/campdir/internal/pkg/email"
	"github.com/oguzk/campdir/internal/pkg/logger"
	"github.com/oguzk/campdir/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService     appServices.AuthService
	BootcampService appServices.BootcampService
	CourseService   appServices.CourseService
	ReviewService   appServices.ReviewService
	UserService     appServices.UserService

	AuthController     *appControllers.AuthController
	BootcampController *appControllers.BootcampController
	CourseController   *appControllers.CourseController
	ReviewController   *appControllers.ReviewController
	UserController     *appControllers.UserController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	EventBus       *appEvents.Bus
	Maintainer     *appServices.AggregateMaintainer
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers,
// and starts the aggregate maintainer.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	accessExp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		accessExp = time.Hour
	}
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: accessExp,
		TokenIssuer:    cfg.JWT.Issuer,
	})

	smtpPort, err := strconv.Atoi(cfg.SMTP.Port)
	if err != nil {
		smtpPort = 587
	}
	emailService := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      smtpPort,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, lgr)

	deps.EventBus = appEvents.NewBus(cfg.Events.Buffer, lgr)
	deps.Maintainer = appServices.NewAggregateMaintainer(
		deps.Repos.CourseRepository,
		deps.Repos.ReviewRepository,
		deps.Repos.BootcampRepository,
		deps.EventBus,
		lgr,
	)
	deps.Maintainer.Start()

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.JWTService,
		emailService,
		lgr,
	)
	deps.BootcampService = appServices.NewBootcampService(deps.Repos.BootcampRepository, deps.Repos.UserRepository)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, deps.Repos.BootcampRepository, deps.EventBus)
	deps.ReviewService = appServices.NewReviewService(deps.Repos.ReviewRepository, deps.Repos.BootcampRepository, deps.EventBus)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.CourseRepository,
		deps.Repos.ReviewRepository,
		deps.EventBus,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, cfg.Reset.BaseURL, lgr)
	deps.BootcampController = appControllers.NewBootcampController(deps.BootcampService, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, lgr)
	deps.ReviewController = appControllers.NewReviewController(deps.ReviewService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, lgr)

	return deps, nil
}

// Close stops the background maintainer and drains outstanding events.
func (d *Dependencies) Close() {
	if d.EventBus != nil {
		d.EventBus.Close()
	}
	if d.Maintainer != nil {
		d.Maintainer.Wait()
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.BootcampController,
		deps.CourseController,
		deps.ReviewController,
		deps.UserController,
		deps.AuthMiddleware,
	)

	return router
}

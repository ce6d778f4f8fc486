package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tobi/learnhub/docs" // Import generated swagger docs
	appControllers "github.com/tobi/learnhub/internal/app/controllers"
	appMigrations "github.com/tobi/learnhub/internal/app/migrations"
	appRepos "github.com/tobi/learnhub/internal/app/repositories"
	appRoutes "github.com/tobi/learnhub/internal/app/routes"
	appServices "github.com/tobi/learnhub/internal/app/services"
	"github.com/tobi/learnhub/internal/config"
	"github.com/tobi/learnhub/internal/db"
	appMiddleware "github.com/tobi/learnhub/internal/middleware"
	pkgAuth "github.com/tobi/learnhub/internal/pkg/auth"
	"github.com/tobi/learnhub/internal/pkg/cache"
	"github.com/tobi/learnhub/internal/pkg/email"
	"github.com/tobi/learnhub/internal/pkg/filestorage"
	"github.com/tobi/learnhub/internal/pkg/helpers"
	"github.com/tobi/learnhub/internal/pkg/liveroom"
	"github.com/tobi/learnhub/internal/pkg/logger"
	"github.com/tobi/learnhub/internal/pkg/paystack"
	"github.com/tobi/learnhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Hub            *liveroom.Hub
	RoomHandler    *liveroom.Handler
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
// seeds default data.
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
	lgr.Info().Msg("Database connection successfully established.")

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

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// File storage serves uploads at <baseURL>/uploads
	var err error
	fileStorageBaseURL := cfg.Server.BaseURL + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	paystackClient := paystack.NewClient(paystack.Config{
		SecretKey:   cfg.Paystack.SecretKey,
		BaseURL:     cfg.Paystack.BaseURL,
		CallbackURL: cfg.Paystack.CallbackURL,
	}, lgr)

	emailService := email.NewService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	catalogCache := cache.New(helpers.ParseDuration(cfg.Cache.CatalogTTL, 5*time.Minute))

	deps.Hub = liveroom.NewHub(lgr)

	liveClassService := appServices.NewLiveClassService(
		deps.Repos.LiveClass,
		deps.Repos.Course,
		deps.Repos.Registration,
		deps.Repos.User,
		deps.Hub,
	)
	deps.RoomHandler = liveroom.NewHandler(deps.Hub, liveClassService, lgr)

	deps.Services = &appServices.Services{
		Auth:         appServices.NewAuthService(deps.Repos.User, deps.Repos.Token, deps.JWTService),
		User:         appServices.NewUserService(deps.Repos.User, deps.Repos.Token),
		Course:       appServices.NewCourseService(deps.Repos.Course, deps.Repos.User, catalogCache),
		Registration: appServices.NewRegistrationService(deps.Repos.Registration, deps.Repos.Course, deps.Repos.User, emailService),
		Payment: appServices.NewPaymentService(
			deps.Repos.Payment,
			deps.Repos.Registration,
			deps.Repos.Course,
			deps.Repos.User,
			paystackClient,
			emailService,
			cfg.Paystack.SecretKey,
		),
		Assignment: appServices.NewAssignmentService(deps.Repos.Assignment, deps.Repos.Course, deps.Repos.Registration),
		Material:   appServices.NewMaterialService(deps.Repos.Material, deps.Repos.Course, deps.Repos.Registration),
		LiveClass:  liveClassService,
		Story:      appServices.NewStoryService(deps.Repos.Story),
		Dashboard:  appServices.NewDashboardService(deps.Repos.Dashboard, deps.Repos.LiveClass, deps.Repos.Course),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.Services.Auth, lgr),
		User:         appControllers.NewUserController(deps.Services.User, deps.FileStorage, deps.Repos.File, lgr),
		Course:       appControllers.NewCourseController(deps.Services.Course, lgr),
		Registration: appControllers.NewRegistrationController(deps.Services.Registration, lgr),
		Payment:      appControllers.NewPaymentController(deps.Services.Payment, lgr),
		Assignment:   appControllers.NewAssignmentController(deps.Services.Assignment, deps.FileStorage, deps.Repos.File, lgr),
		Material:     appControllers.NewMaterialController(deps.Services.Material, deps.FileStorage, deps.Repos.File, lgr),
		LiveClass:    appControllers.NewLiveClassController(deps.Services.LiveClass, lgr),
		Story:        appControllers.NewStoryController(deps.Services.Story, deps.FileStorage, deps.Repos.File, lgr),
		Dashboard:    appControllers.NewDashboardController(deps.Services.Dashboard, lgr),
	}

	return deps, nil
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

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router, deps.Controllers, deps.RoomHandler, deps.AuthMiddleware)

	return router
}

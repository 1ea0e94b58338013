package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/campuslink/campuslink/internal/app/auth"
	appControllers "github.com/campuslink/campuslink/internal/app/controllers"
	appMigrations "github.com/campuslink/campuslink/internal/app/migrations"
	appRepos "github.com/campuslink/campuslink/internal/app/repositories"
	appRoutes "github.com/campuslink/campuslink/internal/app/routes"
	appServices "github.com/campuslink/campuslink/internal/app/services"
	"github.com/campuslink/campuslink/internal/config"
	"github.com/campuslink/campuslink/internal/db"
	appMiddleware "github.com/campuslink/campuslink/internal/middleware"
	pkgAuth "github.com/campuslink/campuslink/internal/pkg/auth"
	"github.com/campuslink/campuslink/internal/pkg/email"
	"github.com/campuslink/campuslink/internal/pkg/filestorage"
	"github.com/campuslink/campuslink/internal/pkg/logger"
	"github.com/campuslink/campuslink/internal/pkg/realtime"
	"github.com/campuslink/campuslink/internal/tenant"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        appServices.AuthService
	ProfileService     appServices.ProfileService
	ConnectionService  appServices.ConnectionService
	MessageService     appServices.MessageService
	PostService        appServices.PostService
	FeedService        appServices.FeedService
	EventService       appServices.EventService
	ProjectService     appServices.ProjectService
	MarketplaceService appServices.MarketplaceService
	ModerationService  appServices.ModerationService

	Controllers *appRoutes.Controllers

	JWTService  *pkgAuth.JWTService
	Resolver    *appAuth.Resolver
	Guard       *tenant.Guard
	Hub         *realtime.Hub
	Redis       *redis.Client
	FileStorage *filestorage.LocalStorage
	Logger      zerolog.Logger
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

// SetupDatabase establishes the database connection and runs migrations.
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
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// SetupRedis connects to redis if an address is configured. Redis is
// optional: without it the trending cache and tenant alias overrides are
// simply disabled.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured, caching disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, caching disabled")
		_ = rdb.Close()
		return nil
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connected")
	return rdb
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, rdb *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Redis: rdb}

	var err error
	storageBaseURL := strings.TrimRight(cfg.Server.BaseURL, "/") + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, storageBaseURL, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  parseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: parseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		BaseURL:   cfg.Server.BaseURL,
	}, lgr)

	deps.Guard = tenant.NewGuard(rdb, lgr)
	deps.Hub = realtime.NewHub(lgr)
	go deps.Hub.Run()

	// Repositories
	profiles := appRepos.NewProfileRepository(dbPool)
	connections := appRepos.NewConnectionRepository(dbPool)
	messages := appRepos.NewMessageRepository(dbPool)
	posts := appRepos.NewPostRepository(dbPool)
	events := appRepos.NewEventRepository(dbPool)
	projects := appRepos.NewProjectRepository(dbPool)
	items := appRepos.NewMarketplaceRepository(dbPool)
	saves := appRepos.NewSavedItemRepository(dbPool)
	reports := appRepos.NewReportRepository(dbPool)
	tokens := appRepos.NewTokenRepository(dbPool)
	rpc := appRepos.NewRPCClient(dbPool, lgr)

	deps.Resolver = appAuth.NewResolver(profiles, deps.Guard)

	// Services
	deps.AuthService = appServices.NewAuthService(profiles, tokens, deps.JWTService, mailer, lgr)
	deps.ProfileService = appServices.NewProfileService(profiles, rpc, deps.Guard, deps.FileStorage, mailer, lgr)
	deps.ConnectionService = appServices.NewConnectionService(connections, profiles, rpc, deps.Guard, lgr)
	deps.MessageService = appServices.NewMessageService(messages, connections, profiles, deps.Guard, deps.Hub, lgr)
	deps.PostService = appServices.NewPostService(posts, rpc, saves, deps.Guard, deps.Hub, deps.FileStorage, lgr)
	deps.FeedService = appServices.NewFeedService(posts, rpc, rdb, lgr)
	deps.EventService = appServices.NewEventService(events, deps.Guard, deps.Hub, lgr)
	deps.ProjectService = appServices.NewProjectService(projects, deps.Guard, lgr)
	deps.MarketplaceService = appServices.NewMarketplaceService(items, saves, deps.Guard, deps.FileStorage, lgr)
	deps.ModerationService = appServices.NewModerationService(reports, lgr)

	// Controllers
	deps.Controllers = &appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.AuthService, lgr),
		Profile:     appControllers.NewProfileController(deps.ProfileService, lgr),
		Connection:  appControllers.NewConnectionController(deps.ConnectionService, lgr),
		Message:     appControllers.NewMessageController(deps.MessageService, lgr),
		Post:        appControllers.NewPostController(deps.PostService, deps.FeedService, lgr),
		Event:       appControllers.NewEventController(deps.EventService, lgr),
		Project:     appControllers.NewProjectController(deps.ProjectService, lgr),
		Marketplace: appControllers.NewMarketplaceController(deps.MarketplaceService, lgr),
		Moderation:  appControllers.NewModerationController(deps.ModerationService, lgr),
		Realtime:    appControllers.NewRealtimeController(deps.Hub, lgr),
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

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.MetricsMiddleware())
	router.Use(appMiddleware.ErrorHandlerMiddleware())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers,
		appMiddleware.AuthMiddleware(deps.JWTService, deps.Resolver))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

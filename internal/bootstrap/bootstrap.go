package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/memberdir/internal/app/auth"
	appControllers "github.com/yigit/memberdir/internal/app/controllers"
	appMigrations "github.com/yigit/memberdir/internal/app/migrations"
	appRepos "github.com/yigit/memberdir/internal/app/repositories"
	appRoutes "github.com/yigit/memberdir/internal/app/routes"
	"github.com/yigit/memberdir/internal/app/scheduler"
	appServices "github.com/yigit/memberdir/internal/app/services"
	"github.com/yigit/memberdir/internal/config"
	"github.com/yigit/memberdir/internal/db"
	appMiddleware "github.com/yigit/memberdir/internal/middleware"
	pkgAuth "github.com/yigit/memberdir/internal/pkg/auth"
	"github.com/yigit/memberdir/internal/pkg/filestorage"
	"github.com/yigit/memberdir/internal/pkg/logger"
	"github.com/yigit/memberdir/internal/pkg/metrics"
	"github.com/yigit/memberdir/internal/seed"
	schema "github.com/yigit/memberdir/migrations"
)

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store             appRepos.Store
	FileStorage       *filestorage.LocalStorage
	JWTService        *pkgAuth.JWTService
	AuthzService      *appAuth.AuthorizationService
	MembershipService appServices.MembershipService
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Controllers       appRoutes.Controllers
	ExpiryScheduler   *scheduler.ExpiryScheduler
	Health            HealthChecker // nil disables the database probe
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.Logging.Format == "text",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the pool and applies pending migrations.
func ConnectDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrator"))
	applied, err := migrator.Migrate(ctx, schema.Files)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")

	return database, nil
}

// SeedDefaults creates the default categories. Failures are logged, startup continues.
func SeedDefaults(ctx context.Context, store appRepos.Store, lgr zerolog.Logger) {
	if err := seed.CreateDefaultData(ctx, store, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// BuildDependencies initializes services, controllers and the expiry
// scheduler on top of store.
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.Path, cfg.Storage.PublicPrefix)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	rules := appServices.Rules{
		PendingAfterDays:     cfg.Membership.PendingAfterDays,
		ReferralRewardPoints: cfg.Membership.ReferralRewardPoints,
	}
	normalizer := appServices.NewNormalizer()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(store)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.MembershipService = appServices.NewMembershipService(store, nil, logger.Component("membership"))
	memberService := appServices.NewMemberService(store, deps.FileStorage, normalizer, rules, nil, logger.Component("members"))
	profileService := appServices.NewBusinessProfileService(store, deps.FileStorage, normalizer, rules, nil, logger.Component("business_profiles"))
	familyService := appServices.NewFamilyService(store, normalizer, logger.Component("families"))
	categoryService := appServices.NewCategoryService(store, logger.Component("categories"))
	authService := appServices.NewAuthService(store, deps.MembershipService, deps.JWTService, logger.Component("auth"))

	deps.Controllers = appRoutes.Controllers{
		Auth:            appControllers.NewAuthController(authService),
		Member:          appControllers.NewMemberController(memberService, deps.AuthzService, logger.Component("member_controller")),
		BusinessProfile: appControllers.NewBusinessProfileController(profileService, deps.AuthzService),
		Family:          appControllers.NewFamilyController(familyService, deps.AuthzService),
		Category:        appControllers.NewCategoryController(categoryService),
	}

	deps.ExpiryScheduler = scheduler.NewExpiryScheduler(deps.MembershipService, scheduler.ExpiryConfig{
		Interval:   cfg.SweepInterval(),
		RunOnStart: cfg.Membership.SweepOnStart,
	}, logger.Component("expiry_scheduler"))

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	lgr := deps.Logger
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes()
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.MaxMultipartMemory(cfg.MaxUploadBytes()),
	)
	if cfg.Metrics.Enabled {
		router.Use(metrics.Middleware())
		router.GET(cfg.Metrics.Path, metrics.Handler())
	}

	appRoutes.SetupSwagger(router, "")
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	// Stored paths start with the public prefix, so they double as URLs.
	router.Static("/"+deps.FileStorage.PublicPrefix(), deps.FileStorage.BasePath())

	router.GET("/health", healthHandler(deps.Health))

	return router
}

func healthHandler(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/hostelhub/internal/app/controllers"
	appMigrations "github.com/yigit/hostelhub/internal/app/migrations"
	appRepos "github.com/yigit/hostelhub/internal/app/repositories"
	"github.com/yigit/hostelhub/internal/app/repositories/memory"
	appRoutes "github.com/yigit/hostelhub/internal/app/routes"
	appServices "github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/config"
	"github.com/yigit/hostelhub/internal/db"
	appMiddleware "github.com/yigit/hostelhub/internal/middleware"
	pkgAuth "github.com/yigit/hostelhub/internal/pkg/auth"
	"github.com/yigit/hostelhub/internal/pkg/email"
	"github.com/yigit/hostelhub/internal/pkg/logger"
	"github.com/yigit/hostelhub/internal/pkg/metrics"
	"github.com/yigit/hostelhub/internal/pkg/ratelimit"
	"github.com/yigit/hostelhub/internal/pkg/websocket"
	"github.com/yigit/hostelhub/internal/seed"
)

// DefaultConfigPath is used when no config file is given on the command line
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	JWTService   *pkgAuth.JWTService
	EmailService email.EmailService
	Metrics      *metrics.Metrics
	Hub          *websocket.Hub
	Limiter      ratelimit.Limiter

	AuthService        appServices.AuthService
	StudentService     appServices.StudentService
	RoomService        appServices.RoomService
	LeaveService       appServices.LeaveService
	MaintenanceService appServices.MaintenanceService
	NoticeService      appServices.NoticeService
	AttendanceService  appServices.AttendanceService
	AdminService       appServices.AdminService

	Handlers       appRoutes.Handlers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// Infrastructure is what BuildDependencies wires the application onto
type Infrastructure struct {
	Repos *appRepos.Repositories
	// Redis backs the rate limiter when set; nil falls back to the in-process limiter.
	Redis *redis.Client
	// Now defaults to time.Now
	Now appServices.Clock
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.Logging.Format == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured store. For postgres it also applies
// migrations when auto_migrate is on; the returned database must be closed by the caller.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *db.PostgresDB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using the in-memory store, data is lost on restart")
		return memory.New().Repositories(), nil, nil
	}

	lgr.Info().Str("host", cfg.Database.Host).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if cfg.Database.AutoMigrate {
		if err := RunMigrations(ctx, database, cfg.Database.MigrationsDir, lgr); err != nil {
			database.Close()
			return nil, nil, err
		}
	}

	return appRepos.NewPostgresRepositories(database), database, nil
}

// RunMigrations applies every pending migration in dir
func RunMigrations(ctx context.Context, database *db.PostgresDB, dir string, lgr zerolog.Logger) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		lgr.Error().Str("path", dir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}

	lgr.Info().Str("path", dir).Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool, lgr).MigrateFromDirectory(ctx, dir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// SetupRedis connects to Redis when it is enabled. A failed ping is logged and
// yields a nil client so the limiter falls back to process memory.
func SetupRedis(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled || !cfg.RateLimit.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis ping failed, using in-memory rate limiter")
		_ = client.Close()
		return nil
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connected")
	return client
}

// BuildDependencies initializes services, controllers and middleware on top of infra.
func BuildDependencies(cfg *config.Config, infra Infrastructure, lgr zerolog.Logger) (*Dependencies, error) {
	if infra.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	now := infra.Now
	if now == nil {
		now = time.Now
	}

	deps := &Dependencies{
		Repos:   infra.Repos,
		Logger:  lgr,
		Hub:     websocket.NewHub(lgr),
		Limiter: newLimiter(cfg, infra.Redis, now),
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	}).WithClock(now)

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromEmail: cfg.Email.From,
		UseTLS:    cfg.Email.Port == 465,
	}, lgr)

	// Initialize services
	repos := deps.Repos
	deps.AuthService = appServices.NewAuthService(repos, deps.JWTService, deps.EmailService, cfg.Students.IDPrefix, now, lgr)
	deps.StudentService = appServices.NewStudentService(repos, deps.EmailService, cfg.Students.IDPrefix, now, lgr)
	deps.RoomService = appServices.NewRoomService(repos, deps.Metrics, lgr)
	deps.LeaveService = appServices.NewLeaveService(repos, deps.Metrics, lgr)
	deps.MaintenanceService = appServices.NewMaintenanceService(repos, deps.Metrics, lgr)
	deps.NoticeService = appServices.NewNoticeService(repos, deps.Hub, deps.Metrics, lgr)
	deps.AttendanceService = appServices.NewAttendanceService(repos, now, lgr)
	deps.AdminService = appServices.NewAdminService(repos, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	deps.Handlers = appRoutes.Handlers{
		Auth:        appControllers.NewAuthController(deps.AuthService, lgr),
		Students:    appControllers.NewStudentController(deps.StudentService, lgr),
		Rooms:       appControllers.NewRoomController(deps.RoomService, lgr),
		Leave:       appControllers.NewLeaveController(deps.LeaveService, lgr),
		Maintenance: appControllers.NewMaintenanceController(deps.MaintenanceService, lgr),
		Notices:     appControllers.NewNoticeController(deps.NoticeService, lgr),
		Attendance:  appControllers.NewAttendanceController(deps.AttendanceService, lgr),
		Admin:       appControllers.NewAdminController(deps.AdminService, lgr),
		NoticeFeed:  websocket.NewHandler(deps.Hub, cfg.Server.AllowedOrigins, lgr),
	}

	return deps, nil
}

func newLimiter(cfg *config.Config, client *redis.Client, now appServices.Clock) ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	if client != nil {
		return ratelimit.NewRedis(client, cfg.RateLimit.Window)
	}
	return ratelimit.NewInMemory(cfg.RateLimit.Window).WithClock(now)
}

// SeedDefaults creates the configured admin. The in-memory store also gets the sample rooms.
func SeedDefaults(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	account := seed.AdminAccount{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}
	if _, err := seed.EnsureDefaultAdmin(ctx, deps.Repos, deps.AdminService, account, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
	}
	if cfg.Database.Driver == config.DriverMemory {
		if _, err := seed.CreateSampleRooms(ctx, deps.Repos, deps.Logger); err != nil {
			deps.Logger.Error().Err(err).Msg("Failed to create sample rooms")
		}
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.Logger(lgr),
		appMiddleware.Recovery(),
		appMiddleware.Metrics(deps.Metrics),
		appMiddleware.CORS(cfg.Server.AllowedOrigins),
	)

	appRoutes.SetupSwagger(router)
	if deps.Metrics != nil {
		appRoutes.SetupMetrics(router, cfg.Metrics.Path, deps.Metrics)
	}

	appRoutes.SetupRouter(router,
		deps.Handlers,
		deps.AuthMiddleware,
		appRoutes.RateLimitOptions{Limiter: deps.Limiter, Requests: cfg.RateLimit.Requests},
		deps.Metrics,
	)

	return router, nil
}

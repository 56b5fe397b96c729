package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yigit/hostelhub/internal/bootstrap"
	"github.com/yigit/hostelhub/internal/config"
	"github.com/yigit/hostelhub/internal/db"
	"github.com/yigit/hostelhub/internal/jobs"
	"github.com/yigit/hostelhub/internal/pkg/websocket"
)

// Server holds the state for the HTTP server.
type Server struct {
	config    *config.Config
	router    *gin.Engine
	database  *db.PostgresDB
	redis     *redis.Client
	hub       *websocket.Hub
	scheduler *jobs.Scheduler
	logger    zerolog.Logger
	http      *http.Server
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	ctx := context.Background()

	repos, database, err := bootstrap.SetupStore(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	s := &Server{
		config:   cfg,
		database: database,
		redis:    bootstrap.SetupRedis(ctx, cfg, lgr),
		logger:   lgr,
	}

	deps, err := bootstrap.BuildDependencies(cfg, bootstrap.Infrastructure{Repos: repos, Redis: s.redis}, lgr)
	if err != nil {
		s.closeResources()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}
	s.hub = deps.Hub

	bootstrap.SeedDefaults(ctx, cfg, deps)

	if cfg.Jobs.DigestEnabled {
		digest := jobs.NewDigest(repos, deps.EmailService, deps.Metrics, lgr)
		s.scheduler, err = jobs.NewScheduler(cfg.Jobs.DigestSchedule, digest, lgr)
		if err != nil {
			s.closeResources()
			return nil, fmt.Errorf("failed to schedule digest: %w", err)
		}
	}

	s.router, err = bootstrap.SetupRouter(cfg, deps, lgr)
	if err != nil {
		s.closeResources()
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}

	return s, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go s.hub.Run()
	if s.scheduler != nil {
		s.scheduler.Start()
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.closeResources()
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown drains the HTTP server, then stops the scheduler, the websocket hub,
// the redis client and the database pool in that order.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var shutdownErr error

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = errors.Join(shutdownErr, err)
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if s.scheduler != nil {
		s.scheduler.Stop(ctx)
		s.logger.Info().Msg("Job scheduler stopped.")
	}

	shutdownErr = errors.Join(shutdownErr, s.closeResources())

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown completed with errors: %w", shutdownErr)
	}
	return nil
}

func (s *Server) closeResources() error {
	var err error
	if s.hub != nil {
		s.hub.Close()
	}
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			s.logger.Error().Err(cerr).Msg("Failed to close redis client")
			err = errors.Join(err, cerr)
		}
	}
	if s.database != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.database.Close()
	}
	return err
}

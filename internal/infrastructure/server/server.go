package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/termhost/internal/api/http"
	"github.com/GriffinCanCode/termhost/internal/api/middleware"
	"github.com/GriffinCanCode/termhost/internal/api/ws"
	"github.com/GriffinCanCode/termhost/internal/domain/workspace"
	"github.com/GriffinCanCode/termhost/internal/infrastructure/config"
	"github.com/GriffinCanCode/termhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/termhost/internal/providers/settings"
	"github.com/GriffinCanCode/termhost/internal/providers/terminal"
	"github.com/GriffinCanCode/termhost/internal/providers/theme"
	"github.com/GriffinCanCode/termhost/internal/service"
	"github.com/GriffinCanCode/termhost/internal/shared/paths"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	workspaces *workspace.Manager
	registry   *service.Registry
	settings   *settings.Store
	themes     *theme.Provider
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)

	layout := paths.Default()
	themeDir := paths.Or(cfg.Themes.Dir, layout.Themes())
	settingsPath := paths.Or(cfg.Settings.Path, layout.Settings())

	logger.Info("Initializing terminal host",
		zap.String("port", cfg.Server.Port),
		zap.String("themes", themeDir),
		zap.String("settings", settingsPath),
	)

	metrics := monitoring.NewMetrics()

	store := settings.NewStore(settingsPath, logger.Component("settings"))
	if err := store.Load(); err != nil {
		logger.Warn("Failed to load settings, using defaults", zap.Error(err))
	}

	themes, err := loadThemes(cfg, themeDir, store, logger)
	if err != nil {
		return nil, err
	}

	resolver := terminal.NewShellResolver(terminal.PasswdDatabase{}, logger.Component("shell")).
		WithFallback(cfg.Terminal.FallbackShell)

	spawnSettings := resilience.SpawnSettings()
	spawnSettings.OnStateChange = func(name string, from, to resilience.State) {
		logger.Warn("Spawn breaker state changed",
			zap.String("breaker", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
	}
	spawner := terminal.NewBreakerSpawner(terminal.PTYSpawner{}, resilience.New("spawn", spawnSettings))

	workspaces := workspace.NewManager(terminal.Options{
		Spawner:         spawner,
		Resolver:        resolver,
		Preferences:     store,
		Palettes:        themes,
		Observer:        metrics,
		Cols:            cfg.Terminal.Cols,
		Rows:            cfg.Terminal.Rows,
		ScrollbackBytes: cfg.Terminal.ScrollbackBytes,
		Logger:          logger.Component("terminal"),
	}, logger.Component("workspace"))

	serviceRegistry := service.NewRegistry().WithMetrics(metrics)
	logger.Info("Registering service providers...")
	registerProviders(serviceRegistry, logger,
		terminal.NewProvider(workspaces, resolver, store, logger.Component("terminal")),
		themes,
		settings.NewProvider(store, logger.Component("settings")),
	)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(monitoring.Middleware(metrics))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	router.Use(middleware.CORS(corsCfg))

	var spawnLimit []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
			zap.Int("spawn_rps", cfg.RateLimit.SpawnsPerSecond),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
		spawnLimit = append(spawnLimit, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.SpawnsPerSecond,
			Burst:             cfg.RateLimit.SpawnBurst,
		}))
	}

	handlers := apihttp.NewHandlers(workspaces, serviceRegistry, metrics, logger.Component("http"))
	handlers.Register(router, spawnLimit...)

	wsHandler := ws.NewHandler(workspaces, themes, metrics, cfg.Server.AllowedOrigins, logger.Component("ws"))
	router.GET("/workspaces/:id/terminal", append(spawnLimit, wsHandler.HandleTerminal)...)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		workspaces: workspaces,
		registry:   serviceRegistry,
		settings:   store,
		themes:     themes,
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
	}, nil
}

func loadThemes(cfg *config.Config, dir string, prefs theme.PreferenceSource, logger *logging.Logger) (*theme.Provider, error) {
	catalog := theme.NewCatalog(logger.Component("theme"))

	found, err := theme.NewLoader(logger.Component("theme")).LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load themes from %s: %w", dir, err)
	}
	for _, t := range found {
		if err := catalog.Add(t); err != nil {
			logger.Warn("Skipping theme", zap.String("theme", t.ID), zap.Error(err))
		}
	}

	if cfg.Themes.Default != "" {
		if err := catalog.Select(cfg.Themes.Default); err != nil {
			logger.Warn("Default theme unavailable", zap.String("theme", cfg.Themes.Default), zap.Error(err))
		}
	}
	logger.Info("Themes loaded", zap.Int("count", catalog.Len()), zap.String("current", catalog.Current()))

	return theme.NewProvider(catalog, prefs, dir, logger.Component("theme")), nil
}

func registerProviders(registry *service.Registry, logger *logging.Logger, providers ...service.Provider) {
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			logger.Warn("Failed to register provider",
				zap.String("service", p.Definition().ID),
				zap.Error(err),
			)
		}
	}
}

// Router returns the configured router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Workspaces returns the workspace manager
func (s *Server) Workspaces() *workspace.Manager {
	return s.workspaces
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, terminates every shell and persists settings
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if timeout := s.config.Terminal.ShutdownTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	if err := s.workspaces.CloseAll(ctx); err != nil {
		s.logger.Error("Failed to terminate sessions", zap.Error(err))
		errs = append(errs, fmt.Errorf("close workspaces: %w", err))
	}
	s.metrics.SetWorkspacesOpen(0)

	if err := s.settings.Save(); err != nil {
		s.logger.Error("Failed to save settings", zap.Error(err))
		errs = append(errs, fmt.Errorf("save settings: %w", err))
	}

	_ = s.logger.Sync()
	return errors.Join(errs...)
}

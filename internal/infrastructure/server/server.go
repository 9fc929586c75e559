package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/zebras-launcher/backend/internal/api/http"
	"github.com/zebras-launcher/backend/internal/api/middleware"
	"github.com/zebras-launcher/backend/internal/api/ws"
	"github.com/zebras-launcher/backend/internal/domain/port"
	"github.com/zebras-launcher/backend/internal/domain/workspace"
	"github.com/zebras-launcher/backend/internal/infrastructure/config"
	"github.com/zebras-launcher/backend/internal/infrastructure/logging"
	"github.com/zebras-launcher/backend/internal/infrastructure/monitoring"
	"github.com/zebras-launcher/backend/internal/infrastructure/tracing"
	"github.com/zebras-launcher/backend/internal/platform/killer"
	"github.com/zebras-launcher/backend/internal/platform/spawn"
	"github.com/zebras-launcher/backend/internal/platform/userpath"
	"github.com/zebras-launcher/backend/internal/supervision"
)

// How long the child sweep runs before Close logs that it is slow
const supervisorWarnAfter = 5 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	root    *supervision.Root
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	storageDir := cfg.Storage.Dir
	if storageDir == "" {
		dir, err := workspace.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config directory: %w", err)
		}
		storageDir = dir
	}

	logger.Info("Initializing launcher backend",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_dir", storageDir),
		zap.Int("port_range_start", cfg.Ports.RangeStart),
		zap.Int("port_range_end", cfg.Ports.RangeEnd),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New(logger.Component("tracing"))

	// Child processes see the user's login PATH, not the launcher's
	paths := userpath.New(logger.Component("userpath"))
	spawner := spawn.New(paths)
	treeKiller := killer.New(cfg.Supervisor.KillGrace(), logger.Component("killer"))

	root := supervision.New(supervision.Config{
		MaxSessions: cfg.Supervisor.MaxSessions,
		Metrics:     metrics,
	}, spawner, treeKiller, logger.Component("supervision"))

	store := workspace.NewStore(storageDir)
	registry := workspace.NewRegistry(storageDir, store)

	probe := port.LoopbackProbe{}
	allocator := port.NewAllocator(probe, logger.Component("ports")).WithMetrics(metrics)
	collector := port.NewCollector(registry, store, logger.Component("ports"))
	portService := port.NewService(allocator, collector, workspace.PortWriter{})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(apihttp.Deps{
		Processes:      root.Processes,
		Terminals:      root.Terminals,
		Ports:          portService,
		Probe:          probe,
		Workspaces:     store,
		Registry:       registry,
		Metrics:        metrics,
		Logger:         logger.Component("api"),
		PortRangeStart: cfg.Ports.RangeStart,
		PortRangeEnd:   cfg.Ports.RangeEnd,
	})
	handlers.Register(router)

	wsHandler := ws.NewHandler(root.Hub, logger.Component("ws")).WithMetrics(metrics)
	router.GET("/stream", wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		root:    root,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Root exposes the supervision root
func (s *Server) Root() *supervision.Root {
	return s.root
}

// Run starts the HTTP server and blocks until it stops.
// A server closed by Close returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops accepting requests, then kills every supervised child. ctx
// bounds the HTTP drain only; Close returns once every child is gone.
func (s *Server) Close(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	rootCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), supervisorWarnAfter)
	defer cancel()
	if err := s.root.Shutdown(rootCtx); err != nil {
		errs = append(errs, fmt.Errorf("supervisor shutdown: %w", err))
	}
	s.tracer.Close()

	_ = s.logger.Sync()
	return errors.Join(errs...)
}

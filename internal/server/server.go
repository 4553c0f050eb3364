package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/calls"
	"github.com/jackzampolin/maestro/internal/config"
	"github.com/jackzampolin/maestro/internal/home"
	"github.com/jackzampolin/maestro/internal/metrics"
	"github.com/jackzampolin/maestro/internal/prompts"
	"github.com/jackzampolin/maestro/internal/prompts/releasemeta"
	"github.com/jackzampolin/maestro/internal/providers"
	"github.com/jackzampolin/maestro/internal/script"
	"github.com/jackzampolin/maestro/internal/server/endpoints"
	"github.com/jackzampolin/maestro/internal/session"
	"github.com/jackzampolin/maestro/internal/svcctx"
)

// Server is the main Maestro HTTP server. Everything it serves lives in
// memory: review sessions, the model call log, and metrics all reset on
// restart.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	configMgr  *config.Manager
	resolver   *prompts.Resolver
	generator  *script.Generator
	homeDir    *home.Dir
	logger     *slog.Logger

	sessions *session.Manager
	calls    *calls.Log
	metrics  *metrics.Store

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the maestro home directory for saved scripts
	Home *home.Dir
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}

	// Create provider registry
	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)

	// Prompt resolver with the embedded extraction prompts
	resolver := prompts.NewResolver(cfg.Logger)
	releasemeta.RegisterPrompts(resolver)

	generator := script.New()

	s := &Server{
		registry:  registry,
		configMgr: cfg.ConfigManager,
		resolver:  resolver,
		generator: generator,
		homeDir:   cfg.Home,
		logger:    cfg.Logger,
	}

	// Apply config and re-apply on file changes
	s.applyConfig(cfg.ConfigManager.Get())
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		s.applyConfig(c)
		cfg.Logger.Info("configuration reloaded")
	})

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: endpoints.GetSwaggerSpecPath()}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// applyConfig pushes config onto the live pieces that support reload:
// the provider registry, prompt overrides, and the portal URL. Store
// capacities only take effect on restart.
func (s *Server) applyConfig(c *config.Config) {
	s.registry.Reload(c.ToRegistryConfig())
	s.resolver.SetOverrides(c.Prompts)
	if c.Portal.URL != "" {
		s.generator.PortalURL = c.Portal.URL
	}
}

// Start starts the server. It blocks until the context is cancelled or
// an error occurs. At least one usable provider must be configured;
// failing that is caught here rather than on the first extraction.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if s.registry.Len() == 0 {
		s.setNotRunning()
		return errors.New("no usable extraction providers: check provider api_key settings (e.g. GOOGLE_API_KEY) or enable one in config.yaml")
	}

	cfg := s.configMgr.Get()
	s.sessions = session.NewManager(cfg.Defaults.MaxSessions, s.logger)
	s.calls = calls.NewLog(cfg.Defaults.CallLog)
	s.metrics = metrics.NewStore(cfg.Defaults.MetricsLog)

	// Create services struct for context enrichment
	s.services = &svcctx.Services{
		ConfigManager: s.configMgr,
		Registry:      s.registry,
		Sessions:      s.sessions,
		Calls:         s.calls,
		Metrics:       s.metrics,
		Prompts:       s.resolver,
		Generator:     s.generator,
		Home:          s.homeDir,
		Logger:        s.logger,
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr, "providers", s.registry.List())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Sessions returns the session manager.
// Returns nil if the server hasn't started yet.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable until Start has wired the services.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}

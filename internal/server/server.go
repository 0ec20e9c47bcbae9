// Package server implements the tactile HTTP API.
//
// Routes:
//
//	GET  /healthz                 liveness probe
//	POST /v1/jobs                 run a layout job, store its record
//	GET  /v1/jobs/{id}            job record (status, summary, warnings)
//	GET  /v1/jobs/{id}/layout     stored layout JSON
//
// Jobs run synchronously within the request. Layouts and artifacts go
// through the pipeline cache (Redis when configured); records go to the job
// store (MongoDB, a data directory, or memory).
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tactile/pkg/cache"
	"github.com/matzehuels/tactile/pkg/config"
	"github.com/matzehuels/tactile/pkg/pipeline"
	"github.com/matzehuels/tactile/pkg/storage"
)

// Defaults for Config.
const (
	DefaultAddr         = ":8080"
	DefaultMongoDB      = "tactile"
	DefaultMaxBodyBytes = 64 << 20
	DefaultTimeout      = 2 * time.Minute
	DefaultSweep        = time.Hour
)

// Config holds server settings, usually read from the environment.
type Config struct {
	Addr         string // TACTILE_ADDR
	RedisURL     string // TACTILE_REDIS_URL; empty disables the shared cache
	MongoURI     string // TACTILE_MONGO_URI
	MongoDB      string // TACTILE_MONGO_DB
	DataDir      string // TACTILE_DATA_DIR; used when no MongoDB is configured
	PresetsPath  string // TACTILE_PRESETS
	MaxBodyBytes int64
	Timeout      time.Duration
	Sweep        time.Duration // interval between expired-record cleanups
}

// ConfigFromEnv reads the configuration from TACTILE_* environment variables.
func ConfigFromEnv() Config {
	cfg := Config{
		Addr:        os.Getenv("TACTILE_ADDR"),
		RedisURL:    os.Getenv("TACTILE_REDIS_URL"),
		MongoURI:    os.Getenv("TACTILE_MONGO_URI"),
		MongoDB:     os.Getenv("TACTILE_MONGO_DB"),
		DataDir:     os.Getenv("TACTILE_DATA_DIR"),
		PresetsPath: os.Getenv("TACTILE_PRESETS"),
	}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MongoDB == "" {
		c.MongoDB = DefaultMongoDB
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Sweep == 0 {
		c.Sweep = DefaultSweep
	}
}

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   storage.Store
	presets *config.Presets
	logger  *log.Logger
	cfg     Config
}

// New creates a server from its collaborators. A nil store keeps records in
// memory; nil presets use the built-in set.
func New(runner *pipeline.Runner, store storage.Store, presets *config.Presets, logger *log.Logger, cfg Config) *Server {
	cfg.setDefaults()
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if presets == nil {
		presets = config.Builtin()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: store, presets: presets, logger: logger, cfg: cfg}
}

// Open connects the backends named in cfg and returns a ready server.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Server, error) {
	cfg.setDefaults()

	presets, err := config.Load(cfg.PresetsPath)
	if err != nil {
		return nil, err
	}

	var c cache.Cache = cache.NewNullCache()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		c = rc
		logger.Info("using redis cache")
	}

	var store storage.Store
	switch {
	case cfg.MongoURI != "":
		store, err = storage.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
		logger.Info("using mongo job store", "db", cfg.MongoDB)
	case cfg.DataDir != "":
		store, err = storage.NewFileStore(cfg.DataDir)
		logger.Info("using file job store", "dir", cfg.DataDir)
	default:
		store = storage.NewMemoryStore()
		logger.Warn("using in-memory job store; records are lost on restart")
	}
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("open job store: %w", err)
	}

	runner := pipeline.NewRunner(c, cache.NewScopedKeyer(nil, "tactile:"), logger)
	return New(runner, store, presets, logger, cfg), nil
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/jobs", func(r chi.Router) {
		r.Post("/", s.handleCreateJob)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.jobID)
			r.Get("/", s.handleGetJob)
			r.Get("/layout", s.handleGetLayout)
		})
	})
	r.Get("/v1/presets", s.handlePresets)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sweep(sweepCtx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// sweep removes expired job records every cfg.Sweep until ctx is done.
func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Sweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.Cleanup(ctx)
			if err != nil {
				s.logger.Warn("cleanup failed", "err", err)
				continue
			}
			if n > 0 {
				s.logger.Info("removed expired jobs", "count", n)
			}
		}
	}
}

// Close releases the cache and the job store.
func (s *Server) Close() error {
	return stderrors.Join(s.runner.Close(), s.store.Close())
}

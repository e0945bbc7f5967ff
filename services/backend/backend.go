// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package backend provides the core tracking backend service for
// AntigravityCloud.
//
// This package contains the main service type that coordinates all
// components: HTTP routing, the document store, the completion evaluator,
// and observability infrastructure.
//
// # Usage
//
//	cfg := backend.Config{Port: 3000, DBPath: "database.json"}
//	svc, err := backend.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc.Run()
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/AntigravityCloud/services/backend/completion"
	"github.com/AleutianAI/AntigravityCloud/services/backend/middleware"
	"github.com/AleutianAI/AntigravityCloud/services/backend/observability"
	"github.com/AleutianAI/AntigravityCloud/services/backend/projects"
	"github.com/AleutianAI/AntigravityCloud/services/backend/routes"
	"github.com/AleutianAI/AntigravityCloud/services/backend/store"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the tracking backend service.
//
// # Description
//
// Service abstracts the backend lifecycle, enabling testing and alternative
// implementations. Only essential lifecycle methods are exposed.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Store backend selectors for Config.StoreBackend.
const (
	StoreFile   = "file"
	StoreBadger = "badger"
	StoreMemory = "memory"
)

// Config holds backend configuration options.
//
// # Description
//
// Config centralizes all configuration for the backend service. Values can
// be populated from environment variables via ConfigFromEnv, from a config
// file, or programmatically for testing. All fields have defaults applied by
// New().
type Config struct {
	// Port is the HTTP server port. Default: 3000
	Port int `env:"ANTIGRAVITY_PORT" yaml:"port"`

	// StoreBackend selects the document store implementation.
	// Valid values: "file", "badger", "memory". Default: "file"
	StoreBackend string `env:"ANTIGRAVITY_STORE" yaml:"store_backend"`

	// DBPath is the document file location for the file backend.
	// Default: "database.json"
	DBPath string `env:"ANTIGRAVITY_DB_PATH" yaml:"db_path"`

	// BadgerDir is the database directory for the badger backend.
	// Default: "antigravity-badger"
	BadgerDir string `env:"ANTIGRAVITY_BADGER_DIR" yaml:"badger_dir"`

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// If empty, tracing is disabled.
	OTelEndpoint string `env:"ANTIGRAVITY_OTEL_ENDPOINT" yaml:"otel_endpoint"`

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	GinMode string `env:"GIN_MODE" yaml:"gin_mode"`
}

// ConfigFromEnv builds a Config from process environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// # Description
//
// service coordinates:
//   - HTTP routing via Gin
//   - The document store (file, badger, or in-memory)
//   - The completion evaluator behind the projects service
//   - OpenTelemetry tracing
//   - Prometheus metrics
//
// # Thread Safety
//
// Thread-safe after construction. All fields are read-only after New()
// returns.
type service struct {
	config        Config
	router        *gin.Engine
	projects      *projects.Service
	store         store.Store
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new backend Service with the given configuration.
//
// # Description
//
// New initializes all backend components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing when an endpoint is configured
//  3. Initializes Prometheus metrics
//  4. Opens the configured document store
//  5. Sets up HTTP routes
//
// # Inputs
//
//   - cfg: Service configuration. Zero values use defaults.
//
// # Outputs
//
//   - Service: Ready-to-run backend service
//   - error: Non-nil if initialization fails
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	if s.config.OTelEndpoint != "" {
		cleanup, err := s.initTracer()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	observability.InitMetrics()

	if err := s.initStore(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}

	s.projects = projects.NewService(s.store, completion.Evaluator{}, slog.Default())

	s.initRouter()

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error. Cleanup of
// the store and tracer is automatic on return.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting tracking backend", "port", s.config.Port,
		"store", s.config.StoreBackend)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing. Callers must not
// modify routes after construction.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = StoreFile
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "database.json"
	}
	if cfg.BadgerDir == "" {
		cfg.BadgerDir = "antigravity-badger"
	}
	return cfg
}

// initStore opens the configured document store backend.
func (s *service) initStore() error {
	switch s.config.StoreBackend {
	case StoreFile:
		st, err := store.NewFileStore(s.config.DBPath)
		if err != nil {
			return err
		}
		s.store = st
		slog.Info("Using file document store", "path", s.config.DBPath)
	case StoreBadger:
		st, err := store.NewBadgerStore(s.config.BadgerDir)
		if err != nil {
			return err
		}
		s.store = st
		slog.Info("Using badger document store", "dir", s.config.BadgerDir)
	case StoreMemory:
		st, err := store.NewMemoryStore(nil)
		if err != nil {
			return err
		}
		s.store = st
		slog.Warn("Using in-memory document store, data will not survive restarts")
	default:
		return fmt.Errorf("unknown store backend %q", s.config.StoreBackend)
	}
	return nil
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// # Description
//
// Sets up an OTLP trace exporter sending spans to the configured collector
// over an insecure gRPC connection, appropriate for internal networks.
//
// # Outputs
//
//   - func(context.Context): Cleanup function to call on shutdown
//   - error: Non-nil if tracer setup fails
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("antigravity-backend")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initRouter sets up the Gin HTTP router with all middleware and routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Metrics())
	if s.config.OTelEndpoint != "" {
		s.router.Use(otelgin.Middleware("antigravity-backend"))
	}

	routes.SetupRoutes(s.router, s.projects)
}

// cleanup releases all resources held by the service. Called when Run()
// exits or on initialization failure.
func (s *service) cleanup() {
	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("document store close error", "error", err)
		}
	}

	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)

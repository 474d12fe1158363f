// Package http provides HTTP server implementation and request handlers using Gin web framework.
// The server uses Clean Architecture principles with structured logging (slog) and graceful shutdown.
//
// This server uses Gin (github.com/gin-gonic/gin) for HTTP routing while maintaining
// compatibility with the application's existing patterns:
//   - Custom slog-based logging middleware (instead of Gin's default logger)
//   - Gin-compatible error handling utilities (httputil.HandleErrorGin)
//   - Manual http.Server configuration for timeout and graceful shutdown control
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/vaultcore/internal/config"
	"github.com/allisson/vaultcore/internal/httpguard"
	"github.com/allisson/vaultcore/internal/metrics"
	"github.com/allisson/vaultcore/vault"
)

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new HTTP server.
func NewServer(
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter configures the Gin router with all routes and middleware.
// This method is called during server initialization with all required dependencies.
func (s *Server) SetupRouter(
	cfg *config.Config,
	v vault.UseCase,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	// Create Gin engine without default middleware
	router := gin.New()

	// Apply custom middleware
	router.Use(gin.Recovery()) // Gin's panic recovery

	// Add CORS middleware if enabled
	if corsMiddleware := createCORSMiddleware(
		cfg.CORSEnabled,
		cfg.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	}))) // Request ID with UUIDv7
	router.Use(CustomLoggerMiddleware(s.logger)) // Custom slog logger

	// Add HTTP metrics middleware if metrics are enabled
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	// Health and readiness endpoints (outside API versioning)
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	vaultHandler := httpguard.NewHandler(v, s.logger)

	// Vault lifecycle and cryptographic routes
	vaultGroup := router.Group("/v1/vault")
	{
		// Lifecycle routes stay reachable while Sealed so a caller can
		// unseal the vault in the first place.
		vaultGroup.GET("/status", vaultHandler.StatusHandler)
		vaultGroup.POST("/initialize", vaultHandler.InitializeHandler)
		vaultGroup.POST("/unseal", vaultHandler.UnsealHandler)
		vaultGroup.POST("/unseal-with-recovery", vaultHandler.UnsealWithRecoveryHandler)
		vaultGroup.POST("/seal", vaultHandler.SealHandler)
		vaultGroup.POST("/change-password", vaultHandler.ChangePasswordHandler)

		// Cryptographic routes require the DEK to be in memory.
		guarded := vaultGroup.Group("")
		guarded.Use(httpguard.RequireUnsealed(v, s.logger))
		{
			guarded.POST("/encrypt", vaultHandler.EncryptHandler)
			guarded.POST("/decrypt", vaultHandler.DecryptHandler)
		}
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
// Returns nil if SetupRouter has not been called yet.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	// Router must be set up before starting
	if s.router == nil {
		return fmt.Errorf("router not initialized - call SetupRouter first")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler returns a simple liveness response: the process is running
// and able to serve HTTP.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server is ready to take traffic.
// Unlike health, readiness never depends on the vault's Sealed/Unsealed
// state — a sealed vault is a normal, reachable state, not an outage.
func (s *Server) readinessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	authHTTP "github.com/allisson/portal/internal/auth/http"
	"github.com/allisson/portal/internal/config"
	"github.com/allisson/portal/internal/metrics"
	userHTTP "github.com/allisson/portal/internal/user/http"
)

// Handlers bundles the route handlers the API server exposes.
type Handlers struct {
	Auth   *authHTTP.AuthHandler
	APIKey *authHTTP.APIKeyHandler
	User   *userHTTP.UserHandler
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server with its full middleware chain and routes.
//
// Global middleware order: requestid, recovery, logging, CORS, HTTP metrics,
// credential resolver. Guards are attached per route group.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	handlers Handlers,
	credentialSources []authHTTP.CredentialSource,
	meterProvider metric.MeterProvider,
) *Server {
	router := gin.New()

	router.Use(requestid.New())
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	router.Use(authHTTP.ResolverMiddleware(credentialSources, logger))

	registerRoutes(router, cfg, logger, handlers)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// registerRoutes attaches all API routes with their guards.
func registerRoutes(router *gin.Engine, cfg *config.Config, logger *slog.Logger, handlers Handlers) {
	router.GET("/health", HealthHandler)
	router.GET("/ready", ReadinessHandler)

	v1 := router.Group("/v1")

	// Public auth endpoints
	auth := v1.Group("/auth")
	if cfg.RateLimitLoginEnabled {
		auth.POST("/login",
			authHTTP.LoginRateLimitMiddleware(cfg.RateLimitLoginRequestsPerSec, cfg.RateLimitLoginBurst, logger),
			handlers.Auth.LoginHandler)
	} else {
		auth.POST("/login", handlers.Auth.LoginHandler)
	}
	auth.POST("/token/refresh", handlers.Auth.RefreshHandler)
	auth.POST("/email-verification/confirm", handlers.Auth.ConfirmEmailVerificationHandler)

	// Authenticated endpoints
	authenticated := v1.Group("")
	authenticated.Use(authHTTP.RequireAuthenticated())
	if cfg.RateLimitEnabled {
		authenticated.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	authenticated.POST("/auth/logout", handlers.Auth.LogoutHandler)
	authenticated.POST("/auth/email-verification", handlers.Auth.RequestEmailVerificationHandler)
	authenticated.GET("/me", handlers.User.MeHandler)
	authenticated.POST("/api-keys", handlers.APIKey.CreateHandler)
	authenticated.GET("/api-keys", handlers.APIKey.ListHandler)
	authenticated.DELETE("/api-keys/:id", handlers.APIKey.RevokeHandler)

	// Staff and admin endpoints
	admin := authenticated.Group("/admin")
	admin.GET("/users", authHTTP.RequireStaff(), handlers.User.ListHandler)
	admin.PATCH("/users/:id", authHTTP.RequireAdmin(), handlers.User.UpdateHandler)

	// Member endpoints
	members := authenticated.Group("/members")
	members.GET("/profile", authHTTP.RequireMembership(), handlers.User.ProfileHandler)
	members.GET("/voting", authHTTP.RequireHigherMembership(), handlers.User.VotingHandler)
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
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

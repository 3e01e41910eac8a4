// Package devapi assembles the in-memory development backend: the same
// endpoint shape the client speaks, backed by the services package.
package devapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/handler"
	"github.com/aryan0dhankhar/allocdesk/internal/observability/metrics"
	"github.com/aryan0dhankhar/allocdesk/internal/repository"
	"github.com/aryan0dhankhar/allocdesk/internal/security"
	"github.com/aryan0dhankhar/allocdesk/internal/security/audit"
	"github.com/aryan0dhankhar/allocdesk/internal/security/auth"
	"github.com/aryan0dhankhar/allocdesk/internal/security/middleware"
	"github.com/aryan0dhankhar/allocdesk/internal/security/ratelimit"
	"github.com/aryan0dhankhar/allocdesk/internal/service"
	"github.com/aryan0dhankhar/allocdesk/internal/worker"
)

const serviceName = "allocdesk-devapi"

// Options configure a Server. Zero values fall back to development defaults.
type Options struct {
	JWTSecret          string
	CookieName         string
	SessionTTL         time.Duration
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	ExpiryInterval     time.Duration
	// Seed, when set, loads demo records with DemoPassword for every login.
	Seed         bool
	DemoPassword string
	// Ready lists extra dependencies reported by /readyz.
	Ready  map[string]handler.Pinger
	Logger *slog.Logger
}

// Server is the development API.
type Server struct {
	Services *service.Services
	Expiry   *worker.ExpiryWorker

	handler http.Handler
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// publicPaths are served without a session cookie.
var publicPaths = map[string]bool{
	"/login":    true,
	"/logout":   true,
	"/register": true,
	"/healthz":  true,
	"/readyz":   true,
	"/metrics":  true,
}

func isPublic(path string) bool {
	return publicPaths[path]
}

// New builds the repositories, services and routes of the development API.
func New(opts Options) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.CookieName == "" {
		opts.CookieName = "token"
	}

	tokens := auth.NewTokenManager(opts.JWTSecret, serviceName)
	services := service.New(service.Repositories{
		Users:       repository.NewMemoryUserRepository(log),
		Employees:   repository.NewMemoryEmployeeRepository(log),
		Projects:    repository.NewMemoryProjectRepository(log),
		Allocations: repository.NewMemoryAllocationRepository(log),
	}, tokens, opts.SessionTTL, log)

	if opts.Seed {
		if err := Seed(services, opts.DemoPassword); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		log.Info("demo data loaded", slog.String("admin", DemoAdminEmail))
	}

	limiter := ratelimit.NewLimiter(opts.RateLimitPerMinute, time.Minute)
	auditLog := audit.NewLogger(log)
	authz := security.NewAuthorizationService(log)

	wrap := func(kind domain.Kind, action domain.Action, h http.Handler) http.Handler {
		return middleware.Chain(h,
			middleware.RequirePermission(authz, security.PermissionFor(kind, action), auditLog),
			middleware.AuditMiddleware(auditLog, kind.String(), action.String()),
		)
	}

	mux := http.NewServeMux()
	groups := []struct {
		kind   domain.Kind
		routes handler.Routes
	}{
		{domain.KindGeneric, handler.NewAuthHandler(services.Auth, limiter, opts.CookieName, log).Routes()},
		{domain.KindEmployee, handler.NewEmployeeHandler(services.Employees, services.Export, log).Routes()},
		{domain.KindProject, handler.NewProjectHandler(services.Projects, services.Export, log).Routes()},
		{domain.KindAllocation, handler.NewAllocationHandler(services, log).Routes()},
	}
	for _, g := range groups {
		if err := handler.Mount(mux, g.kind, g.routes, wrap); err != nil {
			limiter.Stop()
			return nil, err
		}
	}

	health := handler.NewHealthHandler(opts.Ready, log)
	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("GET /readyz", health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
	}).Handler

	// Metrics sit next to the mux so requests are labelled by route pattern.
	root := middleware.Chain(metrics.HTTPMetricsMiddleware(mux),
		middleware.RequestID,
		func(h http.Handler) http.Handler { return otelhttp.NewHandler(h, serviceName) },
		corsHandler,
		middleware.RejectTraversal(log),
		middleware.ValidateJSONContentType(log),
		middleware.SessionMiddleware(tokens, opts.CookieName, isPublic, auditLog, log),
		middleware.RateLimitMiddleware(limiter, log),
	)

	return &Server{
		Services: services,
		Expiry:   worker.NewExpiryWorker(services.Allocations, log, opts.ExpiryInterval),
		handler:  root,
		limiter:  limiter,
		logger:   log,
	}, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops background housekeeping. The expiry worker stops with the
// context passed to its Start.
func (s *Server) Close() {
	s.limiter.Stop()
}

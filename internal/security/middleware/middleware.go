package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/allocdesk/internal/security"
	"github.com/aryan0dhankhar/allocdesk/internal/security/audit"
	"github.com/aryan0dhankhar/allocdesk/internal/security/auth"
)

const RequestIDHeader = "X-Request-ID"

type ClaimsContextKey struct{}

// Chain applies middlewares so the first one listed runs outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RequestID propagates the caller's X-Request-ID or mints one, and makes it
// available to audit lines.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(audit.WithRequestID(r.Context(), id)))
	})
}

// SessionMiddleware requires a valid session cookie on every path that
// public does not accept.
func SessionMiddleware(tm *auth.TokenManager, cookieName string, public func(path string) bool, auditLog *audit.Logger, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := auth.TokenFromRequest(r, cookieName)
			if err != nil {
				auditLog.LogDenied(r.Context(), clientIP(r), "missing session")
				writeError(w, http.StatusUnauthorized, "Please log in")
				return
			}
			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				log.Debug("rejected session token", slog.String("error", err.Error()))
				auditLog.LogDenied(r.Context(), clientIP(r), "invalid session")
				writeError(w, http.StatusUnauthorized, "Session expired, please log in again")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RateLimitMiddleware limits each session, or each client address before
// login.
func RateLimitMiddleware(limiter interface{ Allow(string) bool }, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if c := GetClaimsFromContext(r.Context()); c != nil {
				key = c.Email
			}
			if !limiter.Allow(key) {
				log.Warn("rate limit exceeded", slog.String("key", key), slog.String("path", r.URL.Path))
				writeError(w, http.StatusTooManyRequests, "Too many requests, please slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission rejects sessions whose role lacks perm. Requests
// without a session pass through; SessionMiddleware has already vetted them.
func RequirePermission(authz *security.AuthorizationService, perm security.Permission, auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims != nil {
				if err := authz.ValidatePermission(security.RoleFor(claims.IsAdmin), perm); err != nil {
					auditLog.LogDenied(r.Context(), claims.Email, string(perm))
					writeError(w, http.StatusForbidden, "Only administrators can do that")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records every mutating request once it has completed,
// with the status it ended in.
func AuditMiddleware(auditLog *audit.Logger, resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			actor := clientIP(r)
			if c := GetClaimsFromContext(r.Context()); c != nil {
				actor = c.Email
			}
			status := "success"
			if sw.status >= 400 {
				status = "failed"
			}
			auditLog.LogAction(r.Context(), actor, action, resource, r.PathValue("q"), status, http.StatusText(sw.status))
		})
	}
}

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey{}, claims)
}

func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(ClaimsContextKey{}).(*auth.Claims); ok {
		return c
	}
	return nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ClientIP is the address used to key unauthenticated rate limits.
func ClientIP(r *http.Request) string { return clientIP(r) }

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

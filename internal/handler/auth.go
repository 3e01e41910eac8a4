package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/security/middleware"
	"github.com/aryan0dhankhar/allocdesk/internal/service"
)

// Login attempts allowed per client address and window.
const (
	loginAttempts = 10
	loginWindow   = time.Minute
)

// StrictLimiter throttles sensitive endpoints per caller.
type StrictLimiter interface {
	AllowStrict(identifier string, maxReqs int, window time.Duration) bool
}

// AuthHandler serves the root-level session and registration actions.
type AuthHandler struct {
	auth       *service.AuthService
	limiter    StrictLimiter
	cookieName string
	logger     *slog.Logger
}

// NewAuthHandler creates a new auth handler. limiter may be nil.
func NewAuthHandler(authService *service.AuthService, limiter StrictLimiter, cookieName string, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if cookieName == "" {
		cookieName = "token"
	}
	return &AuthHandler{auth: authService, limiter: limiter, cookieName: cookieName, logger: logger}
}

func (h *AuthHandler) Routes() Routes {
	return Routes{
		domain.Login:               h.login,
		domain.Logout:              h.logout,
		domain.Details:             h.details,
		domain.Register:            h.register,
		domain.RegisterWithDetails: h.registerWithDetails,
		domain.UpdatePassword:      h.updatePassword,
		domain.GetIsAdmin:          h.isAdmin,
		domain.GetEmpIDByEmail:     h.employeeID,
	}
}

// login sets the session cookie; the body only repeats who signed in.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.AllowStrict("login:"+middleware.ClientIP(r), loginAttempts, loginWindow) {
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "Too many login attempts, try again later"})
		return
	}

	var creds domain.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, h.logger, domain.KindGeneric, err)
		return
	}
	result, err := h.auth.Login(creds.Email, creds.Password)
	if err != nil {
		writeError(w, h.logger, domain.KindGeneric, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(result.ExpiresIn.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, domain.UserDetails{Email: result.Email, IsAdmin: result.IsAdmin})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *AuthHandler) details(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Please log in"})
		return
	}
	d, err := h.auth.Details(claims.Email)
	if err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, h.logger, domain.KindGeneric, err)
		return
	}
	if err := h.auth.Register(creds); err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeMessage(w, http.StatusCreated, "User registered successfully")
}

func (h *AuthHandler) registerWithDetails(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := decodeJSON(r, &reg); err != nil {
		writeError(w, h.logger, domain.KindGeneric, err)
		return
	}
	if _, err := h.auth.RegisterWithDetails(reg); err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeMessage(w, http.StatusCreated, "User registered successfully")
}

// updatePassword changes the caller's own password. An omitted email means
// the signed-in user.
func (h *AuthHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Please log in"})
		return
	}
	var req domain.PasswordChange
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, domain.KindGeneric, err)
		return
	}
	if req.Email == "" {
		req.Email = claims.Email
	}
	if err := h.auth.ChangePassword(claims.Email, req); err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password updated successfully")
}

func (h *AuthHandler) isAdmin(w http.ResponseWriter, r *http.Request) {
	ok, err := h.auth.IsAdmin(qualifier(r))
	if err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (h *AuthHandler) employeeID(w http.ResponseWriter, r *http.Request) {
	id, err := h.auth.EmployeeIDByEmail(qualifier(r))
	if err != nil {
		writeError(w, h.logger, domain.KindEmployee, err)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

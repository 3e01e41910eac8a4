package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/security/auth"
	"github.com/aryan0dhankhar/allocdesk/internal/service"
)

// maxRequestBody bounds JSON request bodies.
const maxRequestBody = 1 << 20

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage sends a bare JSON string, the shape every mutation answers with.
func writeMessage(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, fmt.Sprintf(format, args...))
}

// writeError maps service and repository errors to a status and a message
// the client can show as-is.
func writeError(w http.ResponseWriter, logger *slog.Logger, kind domain.Kind, err error) {
	var inputErr *service.InputError
	switch {
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: inputErr.Message})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: kind.Title() + " not found"})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: conflictMessage(err)})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "You are not allowed to do that"})
	default:
		logger.Error("request failed",
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// conflictMessage drops the sentinel suffix from a wrapped ErrConflict.
func conflictMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+domain.ErrConflict.Error())
	if msg == "" || msg == err.Error() {
		return "Record already exists"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		return &service.InputError{Message: "Invalid request body"}
	}
	return nil
}

// qualifier is the trailing path segment of qualified actions.
func qualifier(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("q"))
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(qualifier(r), 10, 64)
	if err != nil || id <= 0 {
		return 0, &service.InputError{Message: "Invalid id"}
	}
	return id, nil
}

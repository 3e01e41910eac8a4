package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
)

// ErrUnresolvable is returned for kinds that have no by-name id lookup.
var ErrUnresolvable = errors.New("kind cannot be resolved by name")

// Resolver turns user-entered names into backend identifiers.
type Resolver struct {
	api    gateway.Invoker
	logger *slog.Logger
}

func New(api gateway.Invoker, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{api: api, logger: logger}
}

// InvalidNameMessage is the not-found text for a kind, e.g. "Invalid Employee Name".
func InvalidNameMessage(kind domain.Kind) string {
	return fmt.Sprintf("Invalid %s Name", kind.Title())
}

// ResolveID looks name up on every call; results are never cached. An id of
// zero or less, or an empty body, is reported as apperror.KindNotFound.
func (r *Resolver) ResolveID(ctx context.Context, kind domain.Kind, name string) (int64, error) {
	var action domain.Action
	switch kind {
	case domain.KindEmployee:
		action = domain.GetEmpIDByName
	case domain.KindProject:
		action = domain.GetProjIDByName
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnresolvable, kind)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperror.NotFound(InvalidNameMessage(kind))
	}

	var raw string
	err := r.api.Invoke(ctx, gateway.Request{
		Kind:      domain.KindAllocation,
		Action:    action,
		Qualifier: name,
	}, &raw)
	if err != nil {
		return 0, err
	}

	id, ok := parseID(raw)
	if !ok || id <= 0 {
		r.logger.Debug("name did not resolve",
			slog.String("kind", kind.String()),
			slog.String("name", name),
		)
		return 0, apperror.NotFound(InvalidNameMessage(kind))
	}
	return id, nil
}

func parseID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

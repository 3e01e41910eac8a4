package handler

import (
	"fmt"
	"net/http"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// Routes maps each action of one endpoint group to its handler.
type Routes map[domain.Action]http.HandlerFunc

// Wrapper decorates the handler of one action, e.g. with permission checks.
type Wrapper func(kind domain.Kind, action domain.Action, h http.Handler) http.Handler

// Pattern is the ServeMux pattern of action within kind, e.g.
// "GET /allocation/getEmpIdByName/{q}".
func Pattern(kind domain.Kind, action domain.Action) string {
	path := "/" + action.String()
	if seg := kind.PathSegment(); seg != "" {
		path = "/" + seg + path
	}
	if action.NeedsQualifier() {
		path += "/{q}"
	}
	return action.Method() + " " + path
}

// Mount registers routes for every action kind supports. It fails when an
// action has no handler or a handler has no action, so the server always
// matches the client's action table.
func Mount(mux *http.ServeMux, kind domain.Kind, routes Routes, wrap Wrapper) error {
	for _, action := range kind.Actions() {
		h, ok := routes[action]
		if !ok {
			return fmt.Errorf("no handler for %s/%s", kind, action)
		}
		var handler http.Handler = h
		if wrap != nil {
			handler = wrap(kind, action, handler)
		}
		mux.Handle(Pattern(kind, action), handler)
	}
	for action := range routes {
		if !kind.Supports(action) {
			return fmt.Errorf("handler for unsupported action %s/%s", kind, action)
		}
	}
	return nil
}

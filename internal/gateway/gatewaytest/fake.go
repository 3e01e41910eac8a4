// Package gatewaytest provides a scripted gateway.Invoker for tests.
package gatewaytest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
)

// HandlerFunc answers one request with a payload or an error.
type HandlerFunc func(req gateway.Request) (any, error)

// Fake records every request and answers from registered handlers.
// Unregistered (kind, action) pairs answer with a 404 remote failure.
type Fake struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []gateway.Request
}

var _ gateway.Invoker = (*Fake)(nil)

func New() *Fake {
	return &Fake{handlers: map[string]HandlerFunc{}}
}

func key(kind domain.Kind, action domain.Action) string {
	return kind.String() + "/" + action.String()
}

// On registers fn for kind/action, replacing any earlier handler.
func (f *Fake) On(kind domain.Kind, action domain.Action, fn HandlerFunc) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[key(kind, action)] = fn
	return f
}

// Reply registers a fixed payload.
func (f *Fake) Reply(kind domain.Kind, action domain.Action, payload any) *Fake {
	return f.On(kind, action, func(gateway.Request) (any, error) { return payload, nil })
}

// Fail registers a fixed error.
func (f *Fake) Fail(kind domain.Kind, action domain.Action, err error) *Fake {
	return f.On(kind, action, func(gateway.Request) (any, error) { return nil, err })
}

func (f *Fake) Invoke(_ context.Context, req gateway.Request, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	fn := f.handlers[key(req.Kind, req.Action)]
	f.mu.Unlock()

	if !req.Kind.Supports(req.Action) {
		return gateway.ErrUnsupportedAction
	}
	if fn == nil {
		return apperror.Remote(http.StatusNotFound, "")
	}
	payload, err := fn(req)
	if err != nil {
		return err
	}
	return assign(payload, out)
}

func assign(payload, out any) error {
	if out == nil || payload == nil {
		return nil
	}
	if s, ok := out.(*string); ok {
		if v, ok := payload.(string); ok {
			*s = v
			return nil
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		*s = string(b)
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// Calls returns a copy of every request seen so far.
func (f *Fake) Calls() []gateway.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gateway.Request(nil), f.calls...)
}

// CallsTo returns the requests made to kind/action.
func (f *Fake) CallsTo(kind domain.Kind, action domain.Action) []gateway.Request {
	var out []gateway.Request
	for _, c := range f.Calls() {
		if c.Kind == kind && c.Action == action {
			out = append(out, c)
		}
	}
	return out
}

// Mutations returns the POST, PUT and DELETE requests seen so far.
func (f *Fake) Mutations() []gateway.Request {
	var out []gateway.Request
	for _, c := range f.Calls() {
		if c.Action.Method() != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

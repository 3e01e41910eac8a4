package resolver

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
	"github.com/aryan0dhankhar/allocdesk/pkg/cache"
)

const directoryKey = "directory:employee:names"

// Directory is the cached list of employee names used for quick, advisory
// checks such as the project-owner field.
type Directory struct {
	api    gateway.Invoker
	store  cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewDirectory(api gateway.Invoker, store cache.Store, ttl time.Duration, logger *slog.Logger) *Directory {
	if store == nil {
		store = cache.New()
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{api: api, store: store, ttl: ttl, logger: logger}
}

// Names returns the cached list, fetching it when absent or expired.
func (d *Directory) Names(ctx context.Context) ([]string, error) {
	if names, ok := d.cached(ctx); ok {
		return names, nil
	}
	return d.Refresh(ctx)
}

// Refresh fetches employee/getAllNames and replaces the cached copy.
func (d *Directory) Refresh(ctx context.Context) ([]string, error) {
	var refs []domain.NameRef
	if err := d.api.Invoke(ctx, gateway.Request{Kind: domain.KindEmployee, Action: domain.GetAllNames}, &refs); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	if buf, err := json.Marshal(names); err == nil {
		if err := d.store.Set(ctx, directoryKey, buf, d.ttl); err != nil {
			d.logger.Warn("directory cache write failed", slog.String("error", err.Error()))
		}
	}
	return names, nil
}

// Contains reports whether name is a known employee. A miss against the
// cached list triggers one refresh before answering false.
func (d *Directory) Contains(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	if names, ok := d.cached(ctx); ok && slices.Contains(names, name) {
		return true, nil
	}
	names, err := d.Refresh(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}

// Invalidate drops the cached list, e.g. after an employee is added or removed.
func (d *Directory) Invalidate(ctx context.Context) {
	if err := d.store.Delete(ctx, directoryKey); err != nil {
		d.logger.Warn("directory cache delete failed", slog.String("error", err.Error()))
	}
}

func (d *Directory) cached(ctx context.Context) ([]string, bool) {
	buf, ok, err := d.store.Get(ctx, directoryKey)
	if err != nil {
		d.logger.Warn("directory cache read failed", slog.String("error", err.Error()))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var names []string
	if err := json.Unmarshal(buf, &names); err != nil {
		return nil, false
	}
	return names, true
}

package lifecycle

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/form"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
)

// RecordDeleter is the single-stage preview, confirm, delete flow for an
// Employee or Project. A failed or empty preview never reaches a prompt.
type RecordDeleter struct {
	deps    Deps
	kind    domain.Kind
	byName  bool
	key     string
	summary []domain.Field
	armed   bool
}

// NewRecordDeleter accepts domain.KindEmployee or domain.KindProject.
func NewRecordDeleter(deps Deps, kind domain.Kind) (*RecordDeleter, error) {
	if kind != domain.KindEmployee && kind != domain.KindProject {
		return nil, fmt.Errorf("record delete is not available for %s", kind)
	}
	return &RecordDeleter{deps: deps, kind: kind}, nil
}

func (r *RecordDeleter) workflow() string {
	return r.kind.String() + "_delete"
}

// PreviewByID fetches the record by a typed id.
func (r *RecordDeleter) PreviewByID(ctx context.Context, idText string) ([]domain.Field, error) {
	r.reset()
	id, err := form.ParseID(r.kind.Title()+" ID", idText)
	if err == nil && id <= 0 {
		err = apperror.Local(form.IncompleteMessage)
	}
	if err != nil {
		return nil, r.deps.fail(r.workflow(), "preview", err, "")
	}
	return r.preview(ctx, domain.GetByID, strconv.FormatInt(id, 10), false)
}

// PreviewByName fetches the record by its exact name.
func (r *RecordDeleter) PreviewByName(ctx context.Context, name string) ([]domain.Field, error) {
	r.reset()
	name, err := form.LookupName(name)
	if err != nil {
		return nil, r.deps.fail(r.workflow(), "preview", err, "")
	}
	return r.preview(ctx, domain.GetByName, name, true)
}

func (r *RecordDeleter) preview(ctx context.Context, action domain.Action, key string, byName bool) ([]domain.Field, error) {
	var summary []domain.Field
	err := step(ctx, r.workflow(), "preview", func(ctx context.Context) error {
		req := gateway.Request{Kind: r.kind, Action: action, Qualifier: key}
		switch r.kind {
		case domain.KindEmployee:
			var e domain.Employee
			if err := r.deps.API.Invoke(ctx, req, &e); err != nil {
				return err
			}
			if !e.Empty() {
				summary = e.Summary()
			}
		case domain.KindProject:
			var p domain.Project
			if err := r.deps.API.Invoke(ctx, req, &p); err != nil {
				return err
			}
			if !p.Empty() {
				summary = p.Summary()
			}
		}
		if summary == nil {
			return apperror.NotFound(fmt.Sprintf("No %s found for preview", r.kind.Title()))
		}
		return nil
	})
	if err != nil {
		return nil, r.deps.fail(r.workflow(), "preview", err, "Failed to fetch data for preview")
	}
	r.byName = byName
	r.key = key
	r.summary = summary
	return summary, nil
}

func (r *RecordDeleter) reset() {
	r.byName = false
	r.key = ""
	r.summary = nil
	r.armed = false
}

// Summary is the last successful preview.
func (r *RecordDeleter) Summary() []domain.Field { return r.summary }

// Prompt returns the confirmation title and arms Confirm.
func (r *RecordDeleter) Prompt() (string, error) {
	if r.summary == nil {
		return "", apperror.Local("Preview a record first")
	}
	r.armed = true
	return "Confirm Delete " + r.kind.Title(), nil
}

// Confirm issues deleteId or deleteName, matching how the record was previewed.
func (r *RecordDeleter) Confirm(ctx context.Context, decision Decision) (string, error) {
	if !r.armed {
		return "", ErrNotAwaitingConfirmation
	}
	r.armed = false
	if decision != Confirm {
		return "", nil
	}

	action := domain.DeleteID
	if r.byName {
		action = domain.DeleteName
	}
	err := step(ctx, r.workflow(), "delete", func(ctx context.Context) error {
		return r.deps.API.Invoke(ctx, gateway.Request{Kind: r.kind, Action: action, Qualifier: r.key}, nil)
	})
	if err != nil {
		r.deps.Audit.LogDeletion(ctx, r.deps.actor(), r.kind.String(), r.key, "failed", Reason(err))
		return "", r.deps.fail(r.workflow(), "delete", err, apperror.NetworkMessage)
	}

	r.deps.Audit.LogDeletion(ctx, r.deps.actor(), r.kind.String(), r.key, "success", action.String())
	r.deps.succeed(r.workflow())
	if r.kind == domain.KindEmployee && r.deps.Directory != nil {
		r.deps.Directory.Invalidate(ctx)
	}
	r.reset()
	return fmt.Sprintf("%s deleted successfully", r.kind.Title()), nil
}

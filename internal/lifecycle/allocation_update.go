package lifecycle

import (
	"context"
	"strconv"
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/form"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
)

const (
	wfAllocationUpdate = "allocation_update"

	AllocationUpdated = "Allocation updated successfully!"
)

// UpdateAllocation edits one existing allocation. Nothing can be submitted
// until a record has been loaded.
type UpdateAllocation struct {
	deps   Deps
	draft  *form.AllocationDraft
	loaded *domain.Allocation
}

func (m *AllocationManager) NewUpdate() *UpdateAllocation {
	return &UpdateAllocation{
		deps:  m.deps,
		draft: form.NewAllocationDraft("", m.deps.Flags),
	}
}

// Loaded returns the record being edited, if any.
func (u *UpdateAllocation) Loaded() (domain.Allocation, bool) {
	if u.loaded == nil {
		return domain.Allocation{}, false
	}
	return *u.loaded, true
}

func (u *UpdateAllocation) Draft() *form.AllocationDraft { return u.draft }

// LoadByID fetches the allocation and seeds the draft with it.
func (u *UpdateAllocation) LoadByID(ctx context.Context, id int64) (domain.Allocation, error) {
	if id <= 0 {
		return domain.Allocation{}, u.deps.fail(wfAllocationUpdate, "load", apperror.Local(form.IncompleteMessage), "")
	}
	var rec domain.Allocation
	err := step(ctx, wfAllocationUpdate, "load", func(ctx context.Context) error {
		return u.deps.API.Invoke(ctx, gateway.Request{
			Kind:      domain.KindAllocation,
			Action:    domain.GetByID,
			Qualifier: strconv.FormatInt(id, 10),
		}, &rec)
	})
	if err == nil && rec.Empty() {
		err = apperror.NotFound("Allocation not found")
	}
	if err != nil {
		return domain.Allocation{}, u.deps.fail(wfAllocationUpdate, "load", err, "Failed to fetch allocation")
	}
	u.Select(rec)
	return rec, nil
}

// ListByEmployee returns the allocations of an employee for the caller to
// pick one from.
func (u *UpdateAllocation) ListByEmployee(ctx context.Context, name string) ([]domain.Allocation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, u.deps.fail(wfAllocationUpdate, "list", apperror.Local(form.IncompleteMessage), "")
	}
	var recs []domain.Allocation
	err := step(ctx, wfAllocationUpdate, "list", func(ctx context.Context) error {
		return u.deps.API.Invoke(ctx, gateway.Request{
			Kind:      domain.KindAllocation,
			Action:    domain.GetByEmpName,
			Qualifier: name,
		}, &recs)
	})
	if err == nil && len(recs) == 0 {
		err = apperror.NotFound("No allocations found for " + name)
	}
	if err != nil {
		return nil, u.deps.fail(wfAllocationUpdate, "list", err, "Failed to fetch allocations")
	}
	return recs, nil
}

// Select makes rec the loaded record. An empty record unloads.
func (u *UpdateAllocation) Select(rec domain.Allocation) {
	if rec.Empty() {
		u.loaded = nil
		u.draft.Reset(nil)
		return
	}
	u.loaded = &rec
	u.draft.Reset(&rec)
}

func (u *UpdateAllocation) SetField(name, value string) error {
	if u.loaded == nil {
		return apperror.Local("Load an allocation first")
	}
	return u.draft.SetField(name, value)
}

// Submit re-resolves the assignee and project names, then issues updateId.
// A resolution failure blocks the write entirely.
func (u *UpdateAllocation) Submit(ctx context.Context) (string, error) {
	if u.loaded == nil || u.loaded.ID <= 0 {
		return "", u.deps.fail(wfAllocationUpdate, "validate", apperror.Local("Load an allocation first"), "")
	}
	if !u.draft.IsSubmittable() {
		return "", u.deps.fail(wfAllocationUpdate, "validate", apperror.Local(form.IncompleteMessage), "")
	}
	if err := u.draft.CheckDates(); err != nil {
		return "", u.deps.fail(wfAllocationUpdate, "validate", err, "")
	}
	rec := u.draft.Allocation()
	rec.ID = u.loaded.ID
	id := strconv.FormatInt(rec.ID, 10)

	err := step(ctx, wfAllocationUpdate, "resolve", func(ctx context.Context) error {
		_, err := u.deps.resolveAll(ctx,
			ref{domain.KindEmployee, rec.AssigneeName},
			ref{domain.KindProject, rec.ProjectName},
		)
		return err
	})
	if err != nil {
		return "", u.deps.fail(wfAllocationUpdate, "resolve", err, "")
	}

	var msg string
	err = step(ctx, wfAllocationUpdate, "submit", func(ctx context.Context) error {
		return u.deps.API.Invoke(ctx, gateway.Request{
			Kind:      domain.KindAllocation,
			Action:    domain.UpdateID,
			Qualifier: id,
			Body:      rec,
		}, &msg)
	})
	if err != nil {
		u.deps.Audit.LogUpdate(ctx, u.deps.actor(), "allocation", id, "failed", Reason(err))
		return "", u.deps.fail(wfAllocationUpdate, "submit", err, "Failed to update allocation")
	}

	u.deps.Audit.LogUpdate(ctx, u.deps.actor(), "allocation", id, "success", "")
	u.deps.succeed(wfAllocationUpdate)
	u.Select(domain.Allocation{})
	return AllocationUpdated, nil
}

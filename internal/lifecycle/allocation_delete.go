package lifecycle

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/form"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
)

const (
	wfAllocationDelete = "allocation_delete"

	NoActiveAllocations = "No active allocations found"
	AllocationDeleted   = "Allocation Deleted Successfully!"
)

// Filter picks the parent record a delete preview is scoped to.
type Filter int

const (
	ByEmployeeName Filter = iota
	ByProjectName
)

func (f Filter) kind() domain.Kind {
	if f == ByProjectName {
		return domain.KindProject
	}
	return domain.KindEmployee
}

func (f Filter) previewAction() domain.Action {
	if f == ByProjectName {
		return domain.GetAllocDelByProjName
	}
	return domain.GetAllocDelByEmpName
}

func (f Filter) bulkAction() domain.Action {
	if f == ByProjectName {
		return domain.DeleteProjID
	}
	return domain.DeleteEmpID
}

func (f Filter) String() string {
	if f == ByProjectName {
		return "project"
	}
	return "employee"
}

// Selection is either every previewed allocation or exactly one of them.
type Selection struct {
	all bool
	id  int64
}

// SelectAll targets every allocation of the resolved parent.
func SelectAll() Selection { return Selection{all: true} }

// SelectID targets one previewed allocation.
func SelectID(id int64) Selection { return Selection{id: id} }

func (s Selection) All() bool { return s.all }

func (s Selection) ID() int64 { return s.id }

// DeleteState is the position of a delete workflow.
type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeletePreviewed
	DeleteAwaitingConfirmation
)

func (s DeleteState) String() string {
	return [...]string{"idle", "previewed", "awaiting_confirmation"}[s]
}

// DeleteAllocation is the two-stage preview then confirm delete. The parent
// id resolved during Preview is the one a bulk delete uses.
type DeleteAllocation struct {
	deps      Deps
	state     DeleteState
	filter    Filter
	name      string
	parentID  int64
	preview   []domain.Allocation
	selection Selection
}

func (m *AllocationManager) NewDelete() *DeleteAllocation {
	return &DeleteAllocation{deps: m.deps, selection: SelectAll()}
}

func (d *DeleteAllocation) State() DeleteState { return d.state }

// Preview returns a copy of the previewed allocations.
func (d *DeleteAllocation) Preview() []domain.Allocation {
	return slices.Clone(d.preview)
}

func (d *DeleteAllocation) Selection() Selection { return d.selection }

// Name is the employee or project name of the current preview.
func (d *DeleteAllocation) Name() string { return d.name }

func (d *DeleteAllocation) clear() {
	d.state = DeleteIdle
	d.name = ""
	d.parentID = 0
	d.preview = nil
	d.selection = SelectAll()
}

// Load runs stage one. The name must resolve before any allocation is
// fetched; an unresolved name or an empty result leaves the preview empty.
func (d *DeleteAllocation) Load(ctx context.Context, filter Filter, name string) ([]domain.Allocation, error) {
	d.clear()
	d.filter = filter
	name, err := form.LookupName(name)
	if err != nil {
		return nil, d.deps.fail(wfAllocationDelete, "preview", err, "")
	}

	var parentID int64
	err = step(ctx, wfAllocationDelete, "resolve", func(ctx context.Context) error {
		id, err := d.deps.Resolver.ResolveID(ctx, filter.kind(), name)
		parentID = id
		return err
	})
	if err != nil {
		return nil, d.deps.fail(wfAllocationDelete, "resolve", err, "Could not get allocations")
	}

	var recs []domain.Allocation
	err = step(ctx, wfAllocationDelete, "preview", func(ctx context.Context) error {
		return d.deps.API.Invoke(ctx, gateway.Request{
			Kind:      domain.KindAllocation,
			Action:    filter.previewAction(),
			Qualifier: name,
		}, &recs)
	})
	if err == nil && len(recs) == 0 {
		err = apperror.NotFound(NoActiveAllocations)
	}
	if err != nil {
		return nil, d.deps.fail(wfAllocationDelete, "preview", err, "Could not get allocations")
	}

	d.name = name
	d.parentID = parentID
	d.preview = recs
	d.state = DeletePreviewed
	return d.Preview(), nil
}

// Select chooses what Prompt and Confirm act on. A single id must be one of
// the previewed allocations.
func (d *DeleteAllocation) Select(sel Selection) error {
	if d.state == DeleteIdle {
		return apperror.Local("Preview allocations first")
	}
	if !sel.all && !slices.ContainsFunc(d.preview, func(a domain.Allocation) bool { return a.ID == sel.id }) {
		return apperror.Local("Allocation ID %d is not in the preview", sel.id)
	}
	d.selection = sel
	d.state = DeletePreviewed
	return nil
}

// Prompt returns the confirmation question and arms Confirm.
func (d *DeleteAllocation) Prompt() (string, error) {
	if d.state == DeleteIdle {
		return "", apperror.Local("Preview allocations first")
	}
	d.state = DeleteAwaitingConfirmation
	if d.selection.all {
		return fmt.Sprintf("Delete All Allocations for %s?", d.name), nil
	}
	return fmt.Sprintf("Delete Allocation ID: %d?", d.selection.id), nil
}

// Confirm applies the decision to the pending prompt. Cancel keeps the
// preview. Confirm issues exactly one delete call: deleteEmpId or
// deleteProjId for "all", deleteId for a single allocation.
func (d *DeleteAllocation) Confirm(ctx context.Context, decision Decision) (string, error) {
	if d.state != DeleteAwaitingConfirmation {
		return "", ErrNotAwaitingConfirmation
	}
	if decision != Confirm {
		d.state = DeletePreviewed
		d.deps.succeed(wfAllocationDelete + "_cancelled")
		return "", nil
	}

	req := gateway.Request{Kind: domain.KindAllocation}
	var target string
	if d.selection.all {
		req.Action = d.filter.bulkAction()
		req.Qualifier = strconv.FormatInt(d.parentID, 10)
		target = d.filter.String() + ":" + req.Qualifier
	} else {
		req.Action = domain.DeleteID
		req.Qualifier = strconv.FormatInt(d.selection.id, 10)
		target = req.Qualifier
	}

	err := step(ctx, wfAllocationDelete, "delete", func(ctx context.Context) error {
		return d.deps.API.Invoke(ctx, req, nil)
	})
	if err != nil {
		d.state = DeletePreviewed
		d.deps.Audit.LogDeletion(ctx, d.deps.actor(), "allocation", target, "failed", Reason(err))
		return "", d.deps.fail(wfAllocationDelete, "delete", err, "Error deleting allocations")
	}

	d.deps.Audit.LogDeletion(ctx, d.deps.actor(), "allocation", target, "success", fmt.Sprintf("previewed=%d", len(d.preview)))
	d.deps.succeed(wfAllocationDelete)
	d.clear()
	return AllocationDeleted, nil
}

package lifecycle

import (
	"context"
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/form"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
)

const (
	wfAllocationCreate = "allocation_create"

	AllocationCreated = "Allocation created successfully!"
)

// CreateState is the position of a create workflow.
type CreateState int

const (
	CreateIdle CreateState = iota
	CreateDrafting
	CreateResolving
	CreateSubmitting
	CreateSuccess
)

func (s CreateState) String() string {
	return [...]string{"idle", "drafting", "resolving", "submitting", "success"}[s]
}

// AllocationManager starts allocation workflows bound to one session.
type AllocationManager struct {
	deps Deps
}

func NewAllocationManager(deps Deps) *AllocationManager {
	return &AllocationManager{deps: deps}
}

// Allocator returns the signed-in user's employee name: the session's name
// when known, otherwise details -> getNameByEmail.
func (m *AllocationManager) Allocator(ctx context.Context) (string, error) {
	if name := strings.TrimSpace(m.deps.Session.Name); name != "" {
		return name, nil
	}
	email := m.deps.Session.Email
	if email == "" {
		var details domain.UserDetails
		if err := m.deps.API.Invoke(ctx, gateway.Request{Kind: domain.KindGeneric, Action: domain.Details}, &details); err != nil {
			return "", err
		}
		email = details.Email
	}
	if email == "" {
		return "", apperror.NotFound("Could not determine the signed-in user")
	}
	var name string
	err := m.deps.API.Invoke(ctx, gateway.Request{
		Kind:      domain.KindEmployee,
		Action:    domain.GetNameByEmail,
		Qualifier: email,
	}, &name)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.NotFound("Could not determine the signed-in user")
	}
	return name, nil
}

// CreateAllocation drives Idle -> Drafting -> Resolving -> Submitting ->
// Success. A failed step returns the workflow to Drafting with the draft
// intact and the reason in LastFailure.
type CreateAllocation struct {
	deps   Deps
	draft  *form.AllocationDraft
	state  CreateState
	reason string
}

// NewCreate prepares a create workflow with the allocator pre-filled. The
// workflow stays Idle if the allocator cannot be determined.
func (m *AllocationManager) NewCreate(ctx context.Context) (*CreateAllocation, error) {
	c := &CreateAllocation{
		deps:  m.deps,
		draft: form.NewAllocationDraft("", m.deps.Flags),
	}
	err := step(ctx, wfAllocationCreate, "allocator", func(ctx context.Context) error {
		name, err := m.Allocator(ctx)
		if err != nil {
			return err
		}
		c.draft.SetAllocator(name)
		return nil
	})
	if err != nil {
		return c, m.deps.fail(wfAllocationCreate, "allocator", err, "Failed to fetch allocator name")
	}
	c.state = CreateDrafting
	return c, nil
}

func (c *CreateAllocation) State() CreateState { return c.state }

// LastFailure is the reason of the most recent failed submission, if any.
func (c *CreateAllocation) LastFailure() string { return c.reason }

func (c *CreateAllocation) Draft() *form.AllocationDraft { return c.draft }

// SetField edits the draft. It is refused while the allocator is unknown.
func (c *CreateAllocation) SetField(name, value string) error {
	if c.state == CreateIdle {
		return apperror.Local("Allocator is not known yet")
	}
	c.state = CreateDrafting
	return c.draft.SetField(name, value)
}

// Submit resolves the assignee and project names and posts the draft. On
// success the draft is reset with the allocator kept.
func (c *CreateAllocation) Submit(ctx context.Context) (string, error) {
	if c.state == CreateIdle {
		return "", apperror.Local("Allocator is not known yet")
	}
	if !c.draft.IsSubmittable() {
		return "", c.failed("validate", apperror.Local(form.IncompleteMessage), "")
	}
	if err := c.draft.CheckDates(); err != nil {
		return "", c.failed("validate", err, "")
	}
	rec := c.draft.Allocation()

	c.state = CreateResolving
	err := step(ctx, wfAllocationCreate, "resolve", func(ctx context.Context) error {
		_, err := c.deps.resolveAll(ctx,
			ref{domain.KindEmployee, rec.AssigneeName},
			ref{domain.KindProject, rec.ProjectName},
		)
		return err
	})
	if err != nil {
		return "", c.failed("resolve", err, "")
	}

	c.state = CreateSubmitting
	var msg string
	err = step(ctx, wfAllocationCreate, "submit", func(ctx context.Context) error {
		return c.deps.API.Invoke(ctx, gateway.Request{Kind: domain.KindAllocation, Action: domain.Add, Body: rec}, &msg)
	})
	if err != nil {
		c.deps.Audit.LogCreate(ctx, c.deps.actor(), "allocation", rec.AssigneeName+"/"+rec.ProjectName, "failed", Reason(err))
		return "", c.failed("submit", err, "Failed to create allocation")
	}

	c.deps.Audit.LogCreate(ctx, c.deps.actor(), "allocation", rec.AssigneeName+"/"+rec.ProjectName, "success", "")
	c.deps.succeed(wfAllocationCreate)
	c.state = CreateSuccess
	c.reason = ""
	c.draft.Reset(nil)
	return AllocationCreated, nil
}

func (c *CreateAllocation) failed(stepName string, err error, fallback string) error {
	f := c.deps.fail(wfAllocationCreate, stepName, err, fallback)
	c.reason = Reason(f)
	c.state = CreateDrafting
	return f
}

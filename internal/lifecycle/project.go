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
	wfProjectCreate = "project_create"
	wfProjectUpdate = "project_update"

	InvalidOwner   = "Invalid Project Owner Name"
	ProjectCreated = "Project created successfully"
	ProjectUpdated = "Project updated successfully"
)

// ProjectManager creates and updates projects. The owner name is checked
// against the employee directory and then resolved authoritatively.
type ProjectManager struct {
	deps Deps
}

func NewProjectManager(deps Deps) *ProjectManager {
	return &ProjectManager{deps: deps}
}

// Load fetches a project by exact name and seeds draft with it.
func (m *ProjectManager) Load(ctx context.Context, name string, draft *form.ProjectDraft) (domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, m.deps.fail(wfProjectUpdate, "load", apperror.Local("Please select a project from dropdown!"), "")
	}
	var p domain.Project
	err := step(ctx, wfProjectUpdate, "load", func(ctx context.Context) error {
		return m.deps.API.Invoke(ctx, gateway.Request{Kind: domain.KindProject, Action: domain.GetByName, Qualifier: name}, &p)
	})
	if err == nil && p.Empty() {
		err = apperror.NotFound("Project '" + name + "' not found!")
	}
	if err != nil {
		return domain.Project{}, m.deps.fail(wfProjectUpdate, "load", err, "Failed to fetch project")
	}
	draft.Reset(&p)
	return p, nil
}

// Create posts a new project from draft.
func (m *ProjectManager) Create(ctx context.Context, draft *form.ProjectDraft) (string, error) {
	p, err := m.prepare(ctx, wfProjectCreate, draft)
	if err != nil {
		return "", err
	}
	p.ID = 0
	var msg string
	err = step(ctx, wfProjectCreate, "submit", func(ctx context.Context) error {
		return m.deps.API.Invoke(ctx, gateway.Request{Kind: domain.KindProject, Action: domain.Add, Body: p}, &msg)
	})
	if err != nil {
		m.deps.Audit.LogCreate(ctx, m.deps.actor(), "project", p.ProjectName, "failed", Reason(err))
		return "", m.deps.fail(wfProjectCreate, "submit", err, "Failed to create project")
	}
	m.deps.Audit.LogCreate(ctx, m.deps.actor(), "project", p.ProjectName, "success", "")
	m.deps.succeed(wfProjectCreate)
	draft.Reset(nil)
	return ProjectCreated, nil
}

// Update issues updateId for a loaded project. No call is made when the
// owner does not resolve.
func (m *ProjectManager) Update(ctx context.Context, draft *form.ProjectDraft) (string, error) {
	if draft.Project().ID <= 0 {
		return "", m.deps.fail(wfProjectUpdate, "validate", apperror.Local("Invalid project ID!"), "")
	}
	p, err := m.prepare(ctx, wfProjectUpdate, draft)
	if err != nil {
		return "", err
	}
	id := strconv.FormatInt(p.ID, 10)
	var msg string
	err = step(ctx, wfProjectUpdate, "submit", func(ctx context.Context) error {
		return m.deps.API.Invoke(ctx, gateway.Request{
			Kind:      domain.KindProject,
			Action:    domain.UpdateID,
			Qualifier: id,
			Body:      p,
		}, &msg)
	})
	if err != nil {
		m.deps.Audit.LogUpdate(ctx, m.deps.actor(), "project", id, "failed", Reason(err))
		return "", m.deps.fail(wfProjectUpdate, "submit", err, "Failed to update project")
	}
	m.deps.Audit.LogUpdate(ctx, m.deps.actor(), "project", id, "success", "")
	m.deps.succeed(wfProjectUpdate)
	draft.Reset(nil)
	return ProjectUpdated, nil
}

// prepare runs the local checks and the owner check, returning the body to send.
func (m *ProjectManager) prepare(ctx context.Context, workflow string, draft *form.ProjectDraft) (domain.Project, error) {
	if !draft.IsSubmittable() {
		return domain.Project{}, m.deps.fail(workflow, "validate", apperror.Local(form.IncompleteMessage), "")
	}
	if err := draft.CheckDates(); err != nil {
		return domain.Project{}, m.deps.fail(workflow, "validate", err, "")
	}
	p := draft.Project()

	var ownerID int64
	err := step(ctx, workflow, "owner", func(ctx context.Context) error {
		id, err := m.ownerID(ctx, p.OwnerName)
		ownerID = id
		return err
	})
	if err != nil {
		return domain.Project{}, m.deps.fail(workflow, "owner", err, "")
	}
	p.OwnerID = ownerID
	return p, nil
}

func (m *ProjectManager) ownerID(ctx context.Context, owner string) (int64, error) {
	if m.deps.Directory != nil {
		ok, err := m.deps.Directory.Contains(ctx, owner)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, apperror.NotFound(InvalidOwner)
		}
	}
	id, err := m.deps.Resolver.ResolveID(ctx, domain.KindEmployee, owner)
	if apperror.Is(err, apperror.KindNotFound) {
		return 0, apperror.NotFound(InvalidOwner)
	}
	return id, err
}

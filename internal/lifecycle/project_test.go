package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/form"
)

func loadedApollo() domain.Project {
	return domain.Project{
		ID: 7, ProjectName: "Apollo", Description: "Moonshot", OwnerName: "Ann Lee",
		StartDate: "2024-01-01", EndDate: "2024-12-31", IsActive: true,
	}
}

func TestUpdateProjectUnknownOwnerBlocked(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindProject, domain.GetByName, loadedApollo()).
		Reply(domain.KindEmployee, domain.GetAllNames, []domain.NameRef{{Name: "Ann Lee", ID: 5}, {Name: "Jane Doe", ID: 12}})
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	m := NewProjectManager(deps)
	draft := form.NewProjectDraft()

	_, err := m.Load(ctx, "Apollo", draft)
	require.NoError(t, err)
	require.NoError(t, draft.SetField(form.FieldOwnerName, "Zed Unknown"))

	_, err = m.Update(ctx, draft)
	assert.Equal(t, InvalidOwner, Reason(err))
	assert.Empty(t, api.CallsTo(domain.KindProject, domain.UpdateID))
	assert.Len(t, api.CallsTo(domain.KindEmployee, domain.GetAllNames), 1)
	assert.Empty(t, api.CallsTo(domain.KindAllocation, domain.GetEmpIDByName))
}

func TestUpdateProjectOwnerInDirectoryButNotResolvable(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindProject, domain.GetByName, loadedApollo()).
		Reply(domain.KindEmployee, domain.GetAllNames, []domain.NameRef{{Name: "Ann Lee"}, {Name: "Gone Person"}})
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	m := NewProjectManager(deps)
	draft := form.NewProjectDraft()

	_, err := m.Load(ctx, "Apollo", draft)
	require.NoError(t, err)
	require.NoError(t, draft.SetField(form.FieldOwnerName, "Gone Person"))

	_, err = m.Update(ctx, draft)
	assert.Equal(t, InvalidOwner, Reason(err))
	assert.Empty(t, api.Mutations())
}

func TestUpdateProjectSuccess(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindProject, domain.GetByName, loadedApollo()).
		Reply(domain.KindEmployee, domain.GetAllNames, []domain.NameRef{{Name: "Ann Lee"}, {Name: "Jane Doe"}}).
		Reply(domain.KindProject, domain.UpdateID, "Project updated")
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	m := NewProjectManager(deps)
	draft := form.NewProjectDraft()

	_, err := m.Load(ctx, "Apollo", draft)
	require.NoError(t, err)
	require.NoError(t, draft.SetField(form.FieldOwnerName, "Jane Doe"))

	msg, err := m.Update(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, ProjectUpdated, msg)

	calls := api.CallsTo(domain.KindProject, domain.UpdateID)
	require.Len(t, calls, 1)
	assert.Equal(t, "7", calls[0].Qualifier)
	body := calls[0].Body.(domain.Project)
	assert.Equal(t, int64(12), body.OwnerID)
	assert.Equal(t, "Jane Doe", body.OwnerName)
}

func TestProjectDateOrderCheckedBeforeNetwork(t *testing.T) {
	api := standardAPI()
	deps, _ := newDeps(t, api)
	draft := form.NewProjectDraft()
	for field, v := range map[string]string{
		form.FieldProjectName: "Gemini",
		form.FieldDescription: "Orbit",
		form.FieldOwnerName:   "Ann Lee",
		form.FieldStartDate:   "2024-06-01",
		form.FieldEndDate:     "2024-01-01",
	} {
		require.NoError(t, draft.SetField(field, v))
	}

	_, err := NewProjectManager(deps).Create(context.Background(), draft)
	assert.Equal(t, form.EndBeforeStart, Reason(err))
	assert.Empty(t, api.Calls())
}

func TestCreateProject(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindEmployee, domain.GetAllNames, []domain.NameRef{{Name: "Ann Lee"}}).
		Reply(domain.KindProject, domain.Add, "Project added")
	deps, _ := newDeps(t, api)
	draft := form.NewProjectDraft()
	for field, v := range map[string]string{
		form.FieldProjectName: "Gemini",
		form.FieldDescription: "Orbit",
		form.FieldOwnerName:   "Ann Lee",
		form.FieldStartDate:   "2024-01-01",
		form.FieldEndDate:     "2024-06-01",
	} {
		require.NoError(t, draft.SetField(field, v))
	}

	msg, err := NewProjectManager(deps).Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, ProjectCreated, msg)
	body := api.CallsTo(domain.KindProject, domain.Add)[0].Body.(domain.Project)
	assert.Equal(t, int64(5), body.OwnerID)
}

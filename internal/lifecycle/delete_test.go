package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/form"
)

func annAllocations() []domain.Allocation {
	return []domain.Allocation{
		{ID: 101, AssigneeName: "Ann Lee", ProjectName: "Apollo", IsActive: true},
		{ID: 102, AssigneeName: "Ann Lee", ProjectName: "Gemini", IsActive: true},
		{ID: 103, AssigneeName: "Ann Lee", ProjectName: "Apollo", IsActive: true},
	}
}

func TestDeleteUnresolvedNameSkipsPreviewFetch(t *testing.T) {
	api := standardAPI().Reply(domain.KindAllocation, domain.GetAllocDelByEmpName, annAllocations())
	deps, _ := newDeps(t, api)
	d := NewAllocationManager(deps).NewDelete()

	_, err := d.Load(context.Background(), ByEmployeeName, "John Smith")
	require.Error(t, err)
	assert.Equal(t, "Invalid Employee Name", Reason(err))
	assert.Empty(t, api.CallsTo(domain.KindAllocation, domain.GetAllocDelByEmpName))
	assert.Empty(t, d.Preview())
	assert.Equal(t, DeleteIdle, d.State())

	_, err = d.Prompt()
	assert.Error(t, err)
}

func TestDeleteUnresolvedProjectName(t *testing.T) {
	api := standardAPI()
	deps, _ := newDeps(t, api)
	d := NewAllocationManager(deps).NewDelete()

	_, err := d.Load(context.Background(), ByProjectName, "Voyager")
	assert.Equal(t, "Invalid Project Name", Reason(err))
	assert.Empty(t, api.CallsTo(domain.KindAllocation, domain.GetAllocDelByProjName))
}

func TestDeleteNameWithDigitsIsRefused(t *testing.T) {
	api := standardAPI()
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	d := NewAllocationManager(deps).NewDelete()

	_, err := d.Load(ctx, ByProjectName, "Apollo 11")
	assert.Equal(t, form.LettersOnly, Reason(err))
	_, err = d.Load(ctx, ByProjectName, "   ")
	assert.Equal(t, form.IncompleteMessage, Reason(err))

	r, err := NewRecordDeleter(deps, domain.KindProject)
	require.NoError(t, err)
	_, err = r.PreviewByName(ctx, "Apollo 11")
	assert.Equal(t, form.LettersOnly, Reason(err))
	_, err = r.PreviewByName(ctx, "")
	assert.Equal(t, form.IncompleteMessage, Reason(err))

	assert.Empty(t, api.Calls())
}

func TestDeleteEmptyPreviewOffersNoPrompt(t *testing.T) {
	api := standardAPI().Reply(domain.KindAllocation, domain.GetAllocDelByEmpName, []domain.Allocation{})
	deps, _ := newDeps(t, api)
	d := NewAllocationManager(deps).NewDelete()

	_, err := d.Load(context.Background(), ByEmployeeName, "Ann Lee")
	assert.Equal(t, NoActiveAllocations, Reason(err))
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Empty(t, d.Preview())

	_, err = d.Prompt()
	assert.Error(t, err)
	_, err = d.Confirm(context.Background(), Confirm)
	assert.ErrorIs(t, err, ErrNotAwaitingConfirmation)
	assert.Empty(t, api.Mutations())
}

func TestDeleteAllIssuesOneBulkCall(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindAllocation, domain.GetAllocDelByEmpName, annAllocations()).
		Reply(domain.KindAllocation, domain.DeleteEmpID, "Deleted")
	deps, auditBuf := newDeps(t, api)
	ctx := context.Background()
	d := NewAllocationManager(deps).NewDelete()

	recs, err := d.Load(ctx, ByEmployeeName, "Ann Lee")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	require.True(t, d.Selection().All())

	prompt, err := d.Prompt()
	require.NoError(t, err)
	assert.Equal(t, "Delete All Allocations for Ann Lee?", prompt)

	msg, err := d.Confirm(ctx, Confirm)
	require.NoError(t, err)
	assert.Equal(t, AllocationDeleted, msg)

	muts := api.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, domain.DeleteEmpID, muts[0].Action)
	assert.Equal(t, "5", muts[0].Qualifier)
	assert.Len(t, api.CallsTo(domain.KindAllocation, domain.GetEmpIDByName), 1, "stage one id is reused")

	assert.Empty(t, d.Preview())
	assert.Empty(t, d.Name())
	assert.Equal(t, DeleteIdle, d.State())
	assert.Contains(t, auditBuf.String(), `"resource_id":"employee:5"`)
}

func TestDeleteAllByProject(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindAllocation, domain.GetAllocDelByProjName, annAllocations()[:1]).
		Reply(domain.KindAllocation, domain.DeleteProjID, "Deleted")
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	d := NewAllocationManager(deps).NewDelete()

	_, err := d.Load(ctx, ByProjectName, "Apollo")
	require.NoError(t, err)
	_, err = d.Prompt()
	require.NoError(t, err)
	_, err = d.Confirm(ctx, Confirm)
	require.NoError(t, err)

	muts := api.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, domain.DeleteProjID, muts[0].Action)
	assert.Equal(t, "7", muts[0].Qualifier)
}

func TestDeleteSingleAllocation(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindAllocation, domain.GetAllocDelByEmpName, annAllocations()).
		Reply(domain.KindAllocation, domain.DeleteID, "Deleted")
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	d := NewAllocationManager(deps).NewDelete()

	_, err := d.Load(ctx, ByEmployeeName, "Ann Lee")
	require.NoError(t, err)

	assert.Error(t, d.Select(SelectID(999)), "id outside the preview")
	require.NoError(t, d.Select(SelectID(102)))

	prompt, err := d.Prompt()
	require.NoError(t, err)
	assert.Equal(t, "Delete Allocation ID: 102?", prompt)

	_, err = d.Confirm(ctx, Confirm)
	require.NoError(t, err)
	muts := api.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, domain.DeleteID, muts[0].Action)
	assert.Equal(t, "102", muts[0].Qualifier)
}

func TestDeleteCancelKeepsPreview(t *testing.T) {
	api := standardAPI().Reply(domain.KindAllocation, domain.GetAllocDelByEmpName, annAllocations())
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	d := NewAllocationManager(deps).NewDelete()

	_, err := d.Load(ctx, ByEmployeeName, "Ann Lee")
	require.NoError(t, err)

	_, err = d.Confirm(ctx, Confirm)
	assert.ErrorIs(t, err, ErrNotAwaitingConfirmation, "confirmation must be prompted first")

	_, err = d.Prompt()
	require.NoError(t, err)
	msg, err := d.Confirm(ctx, Cancel)
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Equal(t, DeletePreviewed, d.State())
	assert.Len(t, d.Preview(), 3)
	assert.Empty(t, api.Mutations())
}

func TestDeleteFailureKeepsPreview(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindAllocation, domain.GetAllocDelByEmpName, annAllocations()).
		Fail(domain.KindAllocation, domain.DeleteEmpID, apperror.Remote(500, ""))
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	d := NewAllocationManager(deps).NewDelete()

	_, err := d.Load(ctx, ByEmployeeName, "Ann Lee")
	require.NoError(t, err)
	_, err = d.Prompt()
	require.NoError(t, err)
	_, err = d.Confirm(ctx, Confirm)
	assert.Equal(t, "Error deleting allocations", Reason(err))
	assert.Equal(t, DeletePreviewed, d.State())
	assert.Len(t, d.Preview(), 3)
}

func TestRecordDeleterEmployeeByName(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindEmployee, domain.GetByName, domain.Employee{ID: 5, Name: "Ann Lee", Email: "ann@corp.io", IsActive: true}).
		Reply(domain.KindEmployee, domain.DeleteName, "Deleted").
		Reply(domain.KindEmployee, domain.GetAllNames, []domain.NameRef{{Name: "Ann Lee", ID: 5}})
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	r, err := NewRecordDeleter(deps, domain.KindEmployee)
	require.NoError(t, err)

	summary, err := r.PreviewByName(ctx, "Ann Lee")
	require.NoError(t, err)
	assert.Equal(t, domain.Field{Label: "Name", Value: "Ann Lee"}, summary[1])
	assert.Equal(t, domain.Field{Label: "Role", Value: "N/A"}, summary[3])

	title, err := r.Prompt()
	require.NoError(t, err)
	assert.Equal(t, "Confirm Delete Employee", title)

	msg, err := r.Confirm(ctx, Confirm)
	require.NoError(t, err)
	assert.Equal(t, "Employee deleted successfully", msg)

	muts := api.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, domain.DeleteName, muts[0].Action)
	assert.Equal(t, "Ann Lee", muts[0].Qualifier)
}

func TestRecordDeleterProjectByID(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindProject, domain.GetByID, domain.Project{ID: 7, ProjectName: "Apollo", OwnerName: "Ann Lee"}).
		Reply(domain.KindProject, domain.DeleteID, "Deleted")
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	r, err := NewRecordDeleter(deps, domain.KindProject)
	require.NoError(t, err)

	_, err = r.PreviewByID(ctx, "7")
	require.NoError(t, err)
	_, err = r.Prompt()
	require.NoError(t, err)
	_, err = r.Confirm(ctx, Confirm)
	require.NoError(t, err)

	muts := api.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, domain.DeleteID, muts[0].Action)
	assert.Equal(t, "7", muts[0].Qualifier)
}

func TestRecordDeleterFailedPreviewAborts(t *testing.T) {
	api := standardAPI().Reply(domain.KindEmployee, domain.GetByID, map[string]any{})
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	r, err := NewRecordDeleter(deps, domain.KindEmployee)
	require.NoError(t, err)

	_, err = r.PreviewByID(ctx, "404")
	assert.Equal(t, "No Employee found for preview", Reason(err))
	_, err = r.Prompt()
	assert.Error(t, err)

	_, err = r.PreviewByID(ctx, "12a")
	assert.True(t, apperror.Is(err, apperror.KindLocal))

	_, err = r.PreviewByID(ctx, "")
	assert.Equal(t, "Please fill the required field", Reason(err))

	_, err = NewRecordDeleter(deps, domain.KindAllocation)
	assert.Error(t, err)
	assert.Empty(t, api.Mutations())
}

func TestRecordDeleterTransportOnPreview(t *testing.T) {
	api := standardAPI()
	deps, _ := newDeps(t, api)
	r, err := NewRecordDeleter(deps, domain.KindProject)
	require.NoError(t, err)

	// No handler registered: the fake answers 404 without a body.
	_, err = r.PreviewByName(context.Background(), "Apollo")
	assert.Equal(t, "Failed to fetch data for preview", Reason(err))
}

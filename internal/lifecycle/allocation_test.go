package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/form"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
)

func fillAllocation(t *testing.T, c interface{ SetField(string, string) error }, end string) {
	t.Helper()
	require.NoError(t, c.SetField(form.FieldAssigneeName, "Jane Doe"))
	require.NoError(t, c.SetField(form.FieldProjectName, "Apollo"))
	require.NoError(t, c.SetField(form.FieldAllocStart, "2024-01-01"))
	if end != "" {
		require.NoError(t, c.SetField(form.FieldAllocEnd, end))
	}
	require.NoError(t, c.SetField(form.FieldIsActive, "true"))
}

func TestCreateAllocationHappyPath(t *testing.T) {
	api := standardAPI()
	var got domain.Allocation
	api.On(domain.KindAllocation, domain.Add, func(req gateway.Request) (any, error) {
		got = req.Body.(domain.Allocation)
		return "Allocation saved", nil
	})
	deps, auditBuf := newDeps(t, api)
	ctx := context.Background()

	c, err := NewAllocationManager(deps).NewCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, CreateDrafting, c.State())
	fillAllocation(t, c, "2024-06-01")

	msg, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, AllocationCreated, msg)
	assert.Equal(t, CreateSuccess, c.State())

	require.Len(t, api.CallsTo(domain.KindAllocation, domain.Add), 1)
	assert.Equal(t, domain.Allocation{
		AssigneeName:  "Jane Doe",
		ProjectName:   "Apollo",
		AllocatorName: "Mia Chen",
		StartDate:     "2024-01-01",
		EndDate:       "2024-06-01",
		Percentage:    100,
		IsActive:      true,
	}, got)

	after := c.Draft().Allocation()
	assert.Empty(t, after.AssigneeName)
	assert.Equal(t, "Mia Chen", after.AllocatorName)
	assert.Contains(t, auditBuf.String(), `"action":"create"`)
}

func TestCreateAllocationEndBeforeStartNeverReachesNetwork(t *testing.T) {
	api := standardAPI()
	deps, _ := newDeps(t, api)
	ctx := context.Background()

	c, err := NewAllocationManager(deps).NewCreate(ctx)
	require.NoError(t, err)
	fillAllocation(t, c, "")

	err = c.SetField(form.FieldAllocEnd, "2023-12-31")
	assert.Equal(t, form.EndBeforeStart, apperror.Message(err, ""))
	assert.Empty(t, c.Draft().Allocation().EndDate)

	_, err = c.Submit(ctx)
	assert.Equal(t, form.IncompleteMessage, Reason(err))
	assert.Empty(t, api.Calls())
}

func TestCreateAllocationUnresolvedNameBlocksWrite(t *testing.T) {
	api := standardAPI()
	deps, _ := newDeps(t, api)
	ctx := context.Background()

	c, err := NewAllocationManager(deps).NewCreate(ctx)
	require.NoError(t, err)
	fillAllocation(t, c, "2024-06-01")
	require.NoError(t, c.SetField(form.FieldProjectName, "Voyager"))

	_, err = c.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, "Invalid Project Name", Reason(err))
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, CreateDrafting, c.State())
	assert.Equal(t, "Invalid Project Name", c.LastFailure())
	assert.Equal(t, "Voyager", c.Draft().Allocation().ProjectName, "draft is preserved")
	assert.Empty(t, api.Mutations())
}

func TestCreateAllocationRemoteBodySurfaced(t *testing.T) {
	api := standardAPI().Fail(domain.KindAllocation, domain.Add, apperror.Remote(400, "Allocation exceeds 100%"))
	deps, _ := newDeps(t, api)
	ctx := context.Background()

	c, err := NewAllocationManager(deps).NewCreate(ctx)
	require.NoError(t, err)
	fillAllocation(t, c, "2024-06-01")

	_, err = c.Submit(ctx)
	assert.Equal(t, "Allocation exceeds 100%", Reason(err))
	assert.Equal(t, CreateDrafting, c.State())
	assert.Equal(t, "Jane Doe", c.Draft().Allocation().AssigneeName)
}

func TestCreateAllocationTransportFailure(t *testing.T) {
	api := standardAPI().Fail(domain.KindAllocation, domain.Add, apperror.Transport(errors.New("connection reset")))
	deps, _ := newDeps(t, api)
	ctx := context.Background()

	c, err := NewAllocationManager(deps).NewCreate(ctx)
	require.NoError(t, err)
	fillAllocation(t, c, "2024-06-01")
	_, err = c.Submit(ctx)
	assert.Equal(t, apperror.NetworkMessage, Reason(err))
}

func TestAllocatorFromEmailWhenNameUnknown(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindGeneric, domain.Details, domain.UserDetails{Email: "raj@corp.io"}).
		On(domain.KindEmployee, domain.GetNameByEmail, func(req gateway.Request) (any, error) {
			if req.Qualifier == "raj@corp.io" {
				return "Raj Patel", nil
			}
			return "", nil
		})
	deps, _ := newDeps(t, api)
	deps.Session = domain.Session{}

	c, err := NewAllocationManager(deps).NewCreate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Raj Patel", c.Draft().Allocation().AllocatorName)
	assert.Error(t, c.SetField(form.FieldAllocatorName, "Someone"))
}

func TestCreateStaysIdleWithoutAllocator(t *testing.T) {
	api := standardAPI().Reply(domain.KindGeneric, domain.Details, domain.UserDetails{})
	deps, _ := newDeps(t, api)
	deps.Session = domain.Session{}

	c, err := NewAllocationManager(deps).NewCreate(context.Background())
	require.Error(t, err)
	assert.Equal(t, CreateIdle, c.State())
	assert.Error(t, c.SetField(form.FieldAssigneeName, "Jane Doe"))
}

func TestCreateThenListRoundTrip(t *testing.T) {
	api := standardAPI()
	var stored []domain.Allocation
	api.On(domain.KindAllocation, domain.Add, func(req gateway.Request) (any, error) {
		a := req.Body.(domain.Allocation)
		a.ID = int64(len(stored) + 1)
		stored = append(stored, a)
		return "ok", nil
	})
	api.On(domain.KindAllocation, domain.GetAll, func(gateway.Request) (any, error) { return stored, nil })
	deps, _ := newDeps(t, api)
	ctx := context.Background()

	c, err := NewAllocationManager(deps).NewCreate(ctx)
	require.NoError(t, err)
	fillAllocation(t, c, "2024-06-01")
	submitted := c.Draft().Allocation()
	_, err = c.Submit(ctx)
	require.NoError(t, err)

	var all []domain.Allocation
	require.NoError(t, api.Invoke(ctx, gateway.Request{Kind: domain.KindAllocation, Action: domain.GetAll}, &all))
	require.Len(t, all, 1)
	assert.Equal(t, submitted.AssigneeName, all[0].AssigneeName)
	assert.Equal(t, submitted.ProjectName, all[0].ProjectName)
	assert.Equal(t, submitted.Percentage, all[0].Percentage)
	assert.Equal(t, submitted.IsActive, all[0].IsActive)
}

func TestUpdateAllocationRequiresLoadedRecord(t *testing.T) {
	api := standardAPI()
	deps, _ := newDeps(t, api)
	u := NewAllocationManager(deps).NewUpdate()

	assert.Error(t, u.SetField(form.FieldAssigneeName, "Ann Lee"))
	_, err := u.Submit(context.Background())
	require.Error(t, err)
	assert.Empty(t, api.Calls())
}

func TestUpdateAllocationReResolves(t *testing.T) {
	loaded := domain.Allocation{
		ID: 31, AssigneeName: "Jane Doe", ProjectName: "Apollo", AllocatorName: "Raj Patel",
		StartDate: "2024-01-01", EndDate: "2024-06-01", Percentage: 100, IsActive: true,
	}
	api := standardAPI().
		Reply(domain.KindAllocation, domain.GetByID, loaded).
		Reply(domain.KindAllocation, domain.UpdateID, "Allocation updated")
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	u := NewAllocationManager(deps).NewUpdate()

	_, err := u.LoadByID(ctx, 31)
	require.NoError(t, err)

	require.NoError(t, u.SetField(form.FieldAssigneeName, "Nobody Known"))
	_, err = u.Submit(ctx)
	assert.Equal(t, "Invalid Employee Name", Reason(err))
	assert.Empty(t, api.CallsTo(domain.KindAllocation, domain.UpdateID))

	require.NoError(t, u.SetField(form.FieldAssigneeName, "Ann Lee"))
	msg, err := u.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, AllocationUpdated, msg)

	calls := api.CallsTo(domain.KindAllocation, domain.UpdateID)
	require.Len(t, calls, 1)
	assert.Equal(t, "31", calls[0].Qualifier)
	body := calls[0].Body.(domain.Allocation)
	assert.Equal(t, "Ann Lee", body.AssigneeName)
	assert.Equal(t, "Raj Patel", body.AllocatorName)

	_, ok := u.Loaded()
	assert.False(t, ok)
}

func TestUpdateAllocationRejectsReversedDates(t *testing.T) {
	loaded := domain.Allocation{
		ID: 32, AssigneeName: "Jane Doe", ProjectName: "Apollo", AllocatorName: "Raj Patel",
		StartDate: "2024-06-01", EndDate: "2024-01-01", Percentage: 100, IsActive: true,
	}
	api := standardAPI().
		Reply(domain.KindAllocation, domain.GetByID, loaded).
		Reply(domain.KindAllocation, domain.UpdateID, "Allocation updated")
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	u := NewAllocationManager(deps).NewUpdate()

	_, err := u.LoadByID(ctx, 32)
	require.NoError(t, err)

	_, err = u.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, form.EndBeforeStart, Reason(err))
	assert.Empty(t, api.CallsTo(domain.KindAllocation, domain.GetEmpIDByName))
	assert.Empty(t, api.CallsTo(domain.KindAllocation, domain.UpdateID))

	require.NoError(t, u.SetField(form.FieldAllocStart, "2023-12-01"))
	_, err = u.Submit(ctx)
	require.NoError(t, err)
	assert.Len(t, api.CallsTo(domain.KindAllocation, domain.UpdateID), 1)
}

func TestUpdateAllocationEmptyLoad(t *testing.T) {
	api := standardAPI().Reply(domain.KindAllocation, domain.GetByID, map[string]any{})
	deps, _ := newDeps(t, api)
	u := NewAllocationManager(deps).NewUpdate()

	_, err := u.LoadByID(context.Background(), 99)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, ok := u.Loaded()
	assert.False(t, ok)
}

func TestUpdateAllocationListAndSelect(t *testing.T) {
	recs := []domain.Allocation{
		{ID: 1, AssigneeName: "Ann Lee", ProjectName: "Apollo", AllocatorName: "Mia Chen", StartDate: "2024-01-01", EndDate: "2024-02-01", Percentage: 100},
		{ID: 2, AssigneeName: "Ann Lee", ProjectName: "Gemini", AllocatorName: "Mia Chen", StartDate: "2024-03-01", EndDate: "2024-04-01", Percentage: 100},
	}
	api := standardAPI().Reply(domain.KindAllocation, domain.GetByEmpName, recs)
	deps, _ := newDeps(t, api)
	u := NewAllocationManager(deps).NewUpdate()

	got, err := u.ListByEmployee(context.Background(), "Ann Lee")
	require.NoError(t, err)
	require.Len(t, got, 2)
	u.Select(got[1])
	loaded, ok := u.Loaded()
	require.True(t, ok)
	assert.Equal(t, int64(2), loaded.ID)
	assert.True(t, u.Draft().IsSubmittable())
}

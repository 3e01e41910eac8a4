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

func TestRegisterEmployee(t *testing.T) {
	api := standardAPI().Reply(domain.KindGeneric, domain.RegisterWithDetails, "Registered")
	deps, _ := newDeps(t, api)
	draft := form.NewEmployeeDraft()
	for field, v := range map[string]string{
		form.FieldName:          "Raj Patel",
		form.FieldEmail:         "raj@corp.io",
		form.FieldRoleName:      "Engineer",
		form.FieldDateOfJoining: "2024-02-01",
		form.FieldPassword:      "hunter22",
	} {
		require.NoError(t, draft.SetField(field, v))
	}

	msg, err := NewEmployeeManager(deps).Register(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, EmployeeRegistered, msg)

	body := api.CallsTo(domain.KindGeneric, domain.RegisterWithDetails)[0].Body.(domain.Registration)
	assert.Equal(t, "raj@corp.io", body.Email)
	assert.Equal(t, "Engineer", body.Role)
}

func TestUpdateEmployeeByID(t *testing.T) {
	api := standardAPI().
		Reply(domain.KindEmployee, domain.GetByID, domain.Employee{ID: 5, Name: "Ann Lee", Email: "ann@corp.io", RoleName: "Engineer", DateOfJoining: "2023-09-01"}).
		Reply(domain.KindEmployee, domain.UpdateID, "Updated")
	deps, _ := newDeps(t, api)
	ctx := context.Background()
	m := NewEmployeeManager(deps)
	draft := form.NewEmployeeDraft()

	_, err := m.LoadByID(ctx, "5", draft)
	require.NoError(t, err)
	require.NoError(t, draft.SetField(form.FieldRoleName, "Lead"))

	_, err = m.Update(ctx, draft)
	require.NoError(t, err)
	calls := api.CallsTo(domain.KindEmployee, domain.UpdateID)
	require.Len(t, calls, 1)
	assert.Equal(t, "5", calls[0].Qualifier)
	assert.Equal(t, "Lead", calls[0].Body.(domain.Employee).RoleName)
}

func TestUpdateEmployeeNeedsLoad(t *testing.T) {
	api := standardAPI()
	deps, _ := newDeps(t, api)
	_, err := NewEmployeeManager(deps).Update(context.Background(), form.NewEmployeeDraft())
	assert.True(t, apperror.Is(err, apperror.KindLocal))
	assert.Empty(t, api.Calls())
}

func TestChangePassword(t *testing.T) {
	api := standardAPI().Reply(domain.KindGeneric, domain.UpdatePassword, "ok")
	deps, _ := newDeps(t, api)
	m := NewEmployeeManager(deps)

	_, err := m.ChangePassword(context.Background(), "old", "abc")
	assert.True(t, apperror.Is(err, apperror.KindLocal))

	msg, err := m.ChangePassword(context.Background(), "oldpass", "newpass1")
	require.NoError(t, err)
	assert.Equal(t, PasswordUpdated, msg)
	body := api.CallsTo(domain.KindGeneric, domain.UpdatePassword)[0].Body.(domain.PasswordChange)
	assert.Equal(t, "mia@corp.io", body.Email)
}

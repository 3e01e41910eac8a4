package lifecycle

import (
	"context"
	"strconv"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/form"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
)

const (
	wfEmployeeRegister = "employee_register"
	wfEmployeeUpdate   = "employee_update"
	wfPasswordChange   = "password_change"

	EmployeeRegistered = "Employee registered successfully"
	EmployeeUpdated    = "Employee updated successfully"
	PasswordUpdated    = "Password updated successfully"
)

// EmployeeManager registers, loads and updates employees.
type EmployeeManager struct {
	deps Deps
}

func NewEmployeeManager(deps Deps) *EmployeeManager {
	return &EmployeeManager{deps: deps}
}

// Register creates the employee together with its login.
func (m *EmployeeManager) Register(ctx context.Context, draft *form.EmployeeDraft) (string, error) {
	if !draft.Registering() {
		return "", m.deps.fail(wfEmployeeRegister, "validate", apperror.Local("Employee already exists"), "")
	}
	if !draft.IsSubmittable() {
		return "", m.deps.fail(wfEmployeeRegister, "validate", apperror.Local(form.IncompleteMessage), "")
	}
	reg := draft.Registration()
	var msg string
	err := step(ctx, wfEmployeeRegister, "submit", func(ctx context.Context) error {
		return m.deps.API.Invoke(ctx, gateway.Request{Kind: domain.KindGeneric, Action: domain.RegisterWithDetails, Body: reg}, &msg)
	})
	if err != nil {
		m.deps.Audit.LogCreate(ctx, m.deps.actor(), "employee", reg.Email, "failed", Reason(err))
		return "", m.deps.fail(wfEmployeeRegister, "submit", err, "Failed to register employee")
	}
	m.deps.Audit.LogCreate(ctx, m.deps.actor(), "employee", reg.Email, "success", "")
	m.deps.succeed(wfEmployeeRegister)
	if m.deps.Directory != nil {
		m.deps.Directory.Invalidate(ctx)
	}
	draft.Reset(nil)
	return EmployeeRegistered, nil
}

// LoadByID fetches an employee and seeds draft with it.
func (m *EmployeeManager) LoadByID(ctx context.Context, idText string, draft *form.EmployeeDraft) (domain.Employee, error) {
	id, err := form.ParseID("Employee ID", idText)
	if err == nil && id <= 0 {
		err = apperror.Local(form.IncompleteMessage)
	}
	if err != nil {
		return domain.Employee{}, m.deps.fail(wfEmployeeUpdate, "load", err, "")
	}
	return m.load(ctx, domain.GetByID, strconv.FormatInt(id, 10), draft)
}

// LoadByName fetches an employee by exact name and seeds draft with it.
func (m *EmployeeManager) LoadByName(ctx context.Context, name string, draft *form.EmployeeDraft) (domain.Employee, error) {
	name, err := form.LookupName(name)
	if err != nil {
		return domain.Employee{}, m.deps.fail(wfEmployeeUpdate, "load", err, "")
	}
	return m.load(ctx, domain.GetByName, name, draft)
}

func (m *EmployeeManager) load(ctx context.Context, action domain.Action, key string, draft *form.EmployeeDraft) (domain.Employee, error) {
	var e domain.Employee
	err := step(ctx, wfEmployeeUpdate, "load", func(ctx context.Context) error {
		return m.deps.API.Invoke(ctx, gateway.Request{Kind: domain.KindEmployee, Action: action, Qualifier: key}, &e)
	})
	if err == nil && e.Empty() {
		err = apperror.NotFound("Employee '" + key + "' not found!")
	}
	if err != nil {
		return domain.Employee{}, m.deps.fail(wfEmployeeUpdate, "load", err, "Failed to fetch employee")
	}
	draft.Reset(&e)
	return e, nil
}

// Update writes a loaded employee back with updateId.
func (m *EmployeeManager) Update(ctx context.Context, draft *form.EmployeeDraft) (string, error) {
	if draft.Registering() {
		return "", m.deps.fail(wfEmployeeUpdate, "validate", apperror.Local("Load an employee first"), "")
	}
	if !draft.IsSubmittable() {
		return "", m.deps.fail(wfEmployeeUpdate, "validate", apperror.Local(form.IncompleteMessage), "")
	}
	e := draft.Employee()
	id := strconv.FormatInt(e.ID, 10)
	var msg string
	err := step(ctx, wfEmployeeUpdate, "submit", func(ctx context.Context) error {
		return m.deps.API.Invoke(ctx, gateway.Request{
			Kind:      domain.KindEmployee,
			Action:    domain.UpdateID,
			Qualifier: id,
			Body:      e,
		}, &msg)
	})
	if err != nil {
		m.deps.Audit.LogUpdate(ctx, m.deps.actor(), "employee", id, "failed", Reason(err))
		return "", m.deps.fail(wfEmployeeUpdate, "submit", err, "Failed to update employee")
	}
	m.deps.Audit.LogUpdate(ctx, m.deps.actor(), "employee", id, "success", "")
	m.deps.succeed(wfEmployeeUpdate)
	if m.deps.Directory != nil {
		m.deps.Directory.Invalidate(ctx)
	}
	draft.Reset(nil)
	return EmployeeUpdated, nil
}

// ChangePassword updates the signed-in user's password.
func (m *EmployeeManager) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	if oldPassword == "" || newPassword == "" {
		return "", m.deps.fail(wfPasswordChange, "validate", apperror.Local(form.IncompleteMessage), "")
	}
	if len(newPassword) < 6 {
		return "", m.deps.fail(wfPasswordChange, "validate", apperror.Local("New password must be at least 6 characters"), "")
	}
	email := m.deps.Session.Email
	if email == "" {
		var details domain.UserDetails
		if err := m.deps.API.Invoke(ctx, gateway.Request{Kind: domain.KindGeneric, Action: domain.Details}, &details); err != nil {
			return "", m.deps.fail(wfPasswordChange, "details", err, "")
		}
		email = details.Email
	}
	body := domain.PasswordChange{Email: email, OldPassword: oldPassword, NewPassword: newPassword}
	var msg string
	err := step(ctx, wfPasswordChange, "submit", func(ctx context.Context) error {
		return m.deps.API.Invoke(ctx, gateway.Request{Kind: domain.KindGeneric, Action: domain.UpdatePassword, Body: body}, &msg)
	})
	if err != nil {
		m.deps.Audit.LogUpdate(ctx, email, "password", email, "failed", Reason(err))
		return "", m.deps.fail(wfPasswordChange, "submit", err, "Failed to update password")
	}
	m.deps.Audit.LogUpdate(ctx, email, "password", email, "success", "")
	m.deps.succeed(wfPasswordChange)
	return PasswordUpdated, nil
}

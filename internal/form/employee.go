package form

import (
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

const (
	FieldEmployeeID    = "employeeId"
	FieldName          = "name"
	FieldEmail         = "email"
	FieldRoleName      = "roleName"
	FieldDateOfJoining = "dateOfJoining"
	FieldIsAdmin       = "isAdmin"
	FieldPassword      = "password"
)

type employeeRequired struct {
	Name          string `validate:"required"`
	Email         string `validate:"required,email"`
	RoleName      string `validate:"required"`
	DateOfJoining string `validate:"required"`
}

type registrationRequired struct {
	Name          string `validate:"required"`
	Email         string `validate:"required,email"`
	RoleName      string `validate:"required"`
	DateOfJoining string `validate:"required"`
	Password      string `validate:"required,min=6"`
}

// EmployeeDraft serves both registration (no id yet, password required) and
// update of a loaded employee.
type EmployeeDraft struct {
	rec      domain.Employee
	password string
}

var _ Draft = (*EmployeeDraft)(nil)

func NewEmployeeDraft() *EmployeeDraft {
	d := &EmployeeDraft{}
	d.Reset(nil)
	return d
}

func (d *EmployeeDraft) Reset(seed *domain.Employee) {
	d.password = ""
	if seed != nil {
		d.rec = *seed
		return
	}
	d.rec = domain.Employee{IsActive: true}
}

// Registering reports whether the draft describes a new employee.
func (d *EmployeeDraft) Registering() bool {
	return d.rec.ID == 0
}

func (d *EmployeeDraft) Fields() []string {
	fields := []string{FieldName, FieldEmail, FieldRoleName, FieldDateOfJoining, FieldIsActive, FieldIsAdmin}
	if d.Registering() {
		fields = append(fields, FieldPassword)
	}
	return fields
}

func (d *EmployeeDraft) SetField(name, value string) error {
	switch name {
	case FieldName:
		v, err := checkName("Name", value)
		if err != nil {
			return err
		}
		d.rec.Name = v
	case FieldEmail:
		d.rec.Email = strings.TrimSpace(value)
	case FieldRoleName:
		d.rec.RoleName = strings.TrimSpace(value)
	case FieldDateOfJoining:
		v, err := checkDate("Date of Joining", value)
		if err != nil {
			return err
		}
		d.rec.DateOfJoining = v
	case FieldIsActive:
		b, err := checkBool("Active", value)
		if err != nil {
			return err
		}
		d.rec.IsActive = b
	case FieldIsAdmin:
		b, err := checkBool("Admin", value)
		if err != nil {
			return err
		}
		d.rec.IsAdmin = b
	case FieldPassword:
		if !d.Registering() {
			return readOnly("Password")
		}
		d.password = value
	case FieldEmployeeID:
		return readOnly("Employee ID")
	default:
		return unknownField(name)
	}
	return nil
}

func (d *EmployeeDraft) IsSubmittable() bool {
	name := strings.TrimSpace(d.rec.Name)
	if d.Registering() {
		return complete(registrationRequired{
			Name:          name,
			Email:         d.rec.Email,
			RoleName:      d.rec.RoleName,
			DateOfJoining: d.rec.DateOfJoining,
			Password:      d.password,
		})
	}
	return complete(employeeRequired{
		Name:          name,
		Email:         d.rec.Email,
		RoleName:      d.rec.RoleName,
		DateOfJoining: d.rec.DateOfJoining,
	})
}

func (d *EmployeeDraft) Employee() domain.Employee {
	rec := d.rec
	rec.Name = strings.TrimSpace(rec.Name)
	return rec
}

// Registration is the registerWithDetails payload for a new employee.
func (d *EmployeeDraft) Registration() domain.Registration {
	rec := d.Employee()
	return domain.Registration{
		Email:         rec.Email,
		Password:      d.password,
		Name:          rec.Name,
		Role:          rec.RoleName,
		DateOfJoining: rec.DateOfJoining,
	}
}

package service

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// DefaultRoles are offered by getRoles even before any employee holds them.
var DefaultRoles = []string{"Engineer", "Senior Engineer", "Manager", "Designer", "Analyst"}

// EmployeeService owns employee records and keeps allocations, project
// owners and logins consistent with them.
type EmployeeService struct {
	employees   domain.EmployeeRepository
	projects    domain.ProjectRepository
	allocations domain.AllocationRepository
	users       domain.UserRepository
	logger      *slog.Logger
}

func NewEmployeeService(
	employees domain.EmployeeRepository,
	projects domain.ProjectRepository,
	allocations domain.AllocationRepository,
	users domain.UserRepository,
	logger *slog.Logger,
) *EmployeeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeService{
		employees:   employees,
		projects:    projects,
		allocations: allocations,
		users:       users,
		logger:      logger,
	}
}

func (s *EmployeeService) List(activeOnly bool) []domain.Employee {
	return filterActive(s.employees.List(), activeOnly, func(e domain.Employee) bool { return e.IsActive })
}

func (s *EmployeeService) Get(id int64) (domain.Employee, error) {
	return s.employees.Get(id)
}

func (s *EmployeeService) GetByName(name string) (domain.Employee, error) {
	return s.employees.FindByName(name)
}

// SearchByName returns every employee whose name contains sub.
func (s *EmployeeService) SearchByName(sub string) []domain.Employee {
	var out []domain.Employee
	for _, e := range s.employees.List() {
		if containsFold(e.Name, sub) {
			out = append(out, e)
		}
	}
	return out
}

// Names returns the typeahead matches for partial.
func (s *EmployeeService) Names(partial string) []domain.NameRef {
	return matchNames(partial, s.AllNames())
}

func (s *EmployeeService) AllNames() []domain.NameRef {
	all := s.employees.List()
	refs := make([]domain.NameRef, len(all))
	for i, e := range all {
		refs[i] = domain.NameRef{Name: e.Name, ID: e.ID}
	}
	return refs
}

func (s *EmployeeService) NameByEmail(email string) (string, error) {
	e, err := s.employees.FindByEmail(email)
	if err != nil {
		return "", err
	}
	return e.Name, nil
}

// IDByName returns 0 when no employee has that name.
func (s *EmployeeService) IDByName(name string) int64 {
	e, err := s.employees.FindByName(name)
	if err != nil {
		return 0
	}
	return e.ID
}

// Roles lists the default roles plus any other role in use, sorted.
func (s *EmployeeService) Roles() []string {
	roles := slices.Clone(DefaultRoles)
	for _, e := range s.employees.List() {
		if e.RoleName != "" && !slices.Contains(roles, e.RoleName) {
			roles = append(roles, e.RoleName)
		}
	}
	slices.Sort(roles)
	return roles
}

func (s *EmployeeService) Add(e domain.Employee) (domain.Employee, error) {
	e.ID = 0
	e.Name = strings.TrimSpace(e.Name)
	if err := checkEmployee(e); err != nil {
		return domain.Employee{}, err
	}
	if err := s.employees.Create(&e); err != nil {
		return domain.Employee{}, err
	}
	s.logger.Info("employee added", slog.Int64("employee_id", e.ID), slog.String("name", e.Name))
	return e, nil
}

func (s *EmployeeService) UpdateByID(id int64, e domain.Employee) (domain.Employee, error) {
	current, err := s.employees.Get(id)
	if err != nil {
		return domain.Employee{}, err
	}
	return s.update(current, e)
}

func (s *EmployeeService) UpdateByName(name string, e domain.Employee) (domain.Employee, error) {
	current, err := s.employees.FindByName(name)
	if err != nil {
		return domain.Employee{}, err
	}
	return s.update(current, e)
}

// update replaces current with e and carries renames into projects,
// allocations and the login.
func (s *EmployeeService) update(current, e domain.Employee) (domain.Employee, error) {
	e.ID = current.ID
	e.Name = strings.TrimSpace(e.Name)
	if err := checkEmployee(e); err != nil {
		return domain.Employee{}, err
	}
	if err := s.employees.Update(e); err != nil {
		return domain.Employee{}, err
	}

	if !sameName(current.Name, e.Name) {
		s.renameReferences(current.Name, e.Name)
	}
	if err := s.syncLogin(current.Email, e); err != nil {
		return domain.Employee{}, err
	}
	s.logger.Info("employee updated", slog.Int64("employee_id", e.ID))
	return e, nil
}

func (s *EmployeeService) renameReferences(from, to string) {
	for _, p := range s.projects.List() {
		if sameName(p.OwnerName, from) {
			p.OwnerName = to
			if err := s.projects.Update(p); err != nil {
				s.logger.Warn("rename not carried into project",
					slog.Int64("project_id", p.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
	for _, a := range s.allocations.List() {
		changed := false
		if sameName(a.AssigneeName, from) {
			a.AssigneeName, changed = to, true
		}
		if sameName(a.AllocatorName, from) {
			a.AllocatorName, changed = to, true
		}
		if changed {
			if err := s.allocations.Update(a); err != nil {
				s.logger.Warn("rename not carried into allocation",
					slog.Int64("allocation_id", a.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// syncLogin moves the login to a changed email and mirrors the admin flag.
func (s *EmployeeService) syncLogin(oldEmail string, e domain.Employee) error {
	u, err := s.users.GetByEmail(oldEmail)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	u.IsAdmin = e.IsAdmin
	if sameName(oldEmail, e.Email) {
		return s.users.Update(u)
	}
	if err := s.users.Delete(oldEmail); err != nil {
		return err
	}
	u.Email = e.Email
	return s.users.Create(u)
}

// Delete removes the employee with its allocations and login. An employee
// who still owns projects cannot be deleted.
func (s *EmployeeService) Delete(id int64) error {
	e, err := s.employees.Get(id)
	if err != nil {
		return err
	}
	return s.remove(e)
}

func (s *EmployeeService) DeleteByName(name string) error {
	e, err := s.employees.FindByName(name)
	if err != nil {
		return err
	}
	return s.remove(e)
}

func (s *EmployeeService) remove(e domain.Employee) error {
	for _, p := range s.projects.List() {
		if p.OwnerID == e.ID || sameName(p.OwnerName, e.Name) {
			return fmt.Errorf("%s still owns project %s: %w", e.Name, p.ProjectName, domain.ErrConflict)
		}
	}
	if err := s.employees.Delete(e.ID); err != nil {
		return err
	}
	removed := s.allocations.DeleteWhere(func(a domain.Allocation) bool { return sameName(a.AssigneeName, e.Name) })
	s.dropLogin(e.Email)
	s.logger.Info("employee deleted",
		slog.Int64("employee_id", e.ID),
		slog.Int("allocations_removed", len(removed)),
	)
	return nil
}

// DeleteAll removes every employee and, with them, every project,
// allocation and login other than keepEmail's.
func (s *EmployeeService) DeleteAll(keepEmail string) int {
	for _, e := range s.employees.List() {
		if !sameName(e.Email, keepEmail) {
			s.dropLogin(e.Email)
		}
	}
	s.allocations.DeleteAll()
	s.projects.DeleteAll()
	n := s.employees.DeleteAll()
	s.logger.Warn("all employees deleted", slog.Int("count", n))
	return n
}

// dropLogin removes the login of a deleted employee. The employee is already
// gone, so a failure is only logged.
func (s *EmployeeService) dropLogin(email string) {
	err := s.users.Delete(email)
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return
	}
	s.logger.Error("failed to delete login",
		slog.String("email", email),
		slog.String("error", err.Error()),
	)
}

func checkEmployee(e domain.Employee) error {
	if err := checkName("Name", e.Name); err != nil {
		return err
	}
	if err := checkEmail(e.Email); err != nil {
		return err
	}
	if e.DateOfJoining != "" && !domain.ValidDate(e.DateOfJoining) {
		return invalid("Date of joining must be YYYY-MM-DD")
	}
	return nil
}

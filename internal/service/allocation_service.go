package service

import (
	"log/slog"
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// AllocationService owns allocations. An allocation names an existing
// employee and project, a percentage in 1..100 and an ordered date range.
type AllocationService struct {
	allocations domain.AllocationRepository
	employees   domain.EmployeeRepository
	projects    domain.ProjectRepository
	logger      *slog.Logger
}

func NewAllocationService(
	allocations domain.AllocationRepository,
	employees domain.EmployeeRepository,
	projects domain.ProjectRepository,
	logger *slog.Logger,
) *AllocationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AllocationService{allocations: allocations, employees: employees, projects: projects, logger: logger}
}

func (s *AllocationService) List(activeOnly bool) []domain.Allocation {
	return filterActive(s.allocations.List(), activeOnly, func(a domain.Allocation) bool { return a.IsActive })
}

func (s *AllocationService) Get(id int64) (domain.Allocation, error) {
	return s.allocations.Get(id)
}

func (s *AllocationService) where(match func(domain.Allocation) bool) []domain.Allocation {
	out := []domain.Allocation{}
	for _, a := range s.allocations.List() {
		if match(a) {
			out = append(out, a)
		}
	}
	return out
}

// GetByName returns the first allocation of the named assignee.
func (s *AllocationService) GetByName(name string) (domain.Allocation, error) {
	found := s.ByEmployeeName(name, false)
	if len(found) == 0 {
		_, err := s.employees.FindByName(name)
		if err == nil {
			err = domain.ErrNotFound
		}
		return domain.Allocation{}, err
	}
	return found[0], nil
}

// SearchByName matches sub against assignee and project names.
func (s *AllocationService) SearchByName(sub string) []domain.Allocation {
	return s.where(func(a domain.Allocation) bool {
		return containsFold(a.AssigneeName, sub) || containsFold(a.ProjectName, sub)
	})
}

// Names pairs each matching allocation's assignee with the allocation id.
func (s *AllocationService) Names(partial string) []domain.NameRef {
	all := s.allocations.List()
	refs := make([]domain.NameRef, len(all))
	for i, a := range all {
		refs[i] = domain.NameRef{Name: a.AssigneeName, ID: a.ID}
	}
	return matchNames(partial, refs)
}

func (s *AllocationService) ByEmployeeName(name string, activeOnly bool) []domain.Allocation {
	return s.where(func(a domain.Allocation) bool {
		return sameName(a.AssigneeName, name) && (!activeOnly || a.IsActive)
	})
}

func (s *AllocationService) ByProjectName(name string, activeOnly bool) []domain.Allocation {
	return s.where(func(a domain.Allocation) bool {
		return sameName(a.ProjectName, name) && (!activeOnly || a.IsActive)
	})
}

func (s *AllocationService) ByEmployeeID(id int64) ([]domain.Allocation, error) {
	e, err := s.employees.Get(id)
	if err != nil {
		return nil, err
	}
	return s.ByEmployeeName(e.Name, false), nil
}

func (s *AllocationService) ByProjectID(id int64) ([]domain.Allocation, error) {
	p, err := s.projects.Get(id)
	if err != nil {
		return nil, err
	}
	return s.ByProjectName(p.ProjectName, false), nil
}

// Add stores a new allocation. An empty allocator defaults to actor.
func (s *AllocationService) Add(a domain.Allocation, actor string) (domain.Allocation, error) {
	a.ID = 0
	if strings.TrimSpace(a.AllocatorName) == "" {
		a.AllocatorName = actor
	}
	if err := s.prepare(&a); err != nil {
		return domain.Allocation{}, err
	}
	if err := s.allocations.Create(&a); err != nil {
		return domain.Allocation{}, err
	}
	s.logger.Info("allocation added",
		slog.Int64("allocation_id", a.ID),
		slog.String("assignee", a.AssigneeName),
		slog.String("project", a.ProjectName),
	)
	return a, nil
}

func (s *AllocationService) UpdateByID(id int64, a domain.Allocation) (domain.Allocation, error) {
	current, err := s.allocations.Get(id)
	if err != nil {
		return domain.Allocation{}, err
	}
	return s.update(current, a)
}

// UpdateByName updates the first allocation of the named assignee.
func (s *AllocationService) UpdateByName(name string, a domain.Allocation) (domain.Allocation, error) {
	current, err := s.GetByName(name)
	if err != nil {
		return domain.Allocation{}, err
	}
	return s.update(current, a)
}

func (s *AllocationService) update(current, a domain.Allocation) (domain.Allocation, error) {
	a.ID = current.ID
	if strings.TrimSpace(a.AllocatorName) == "" {
		a.AllocatorName = current.AllocatorName
	}
	if err := s.prepare(&a); err != nil {
		return domain.Allocation{}, err
	}
	if err := s.allocations.Update(a); err != nil {
		return domain.Allocation{}, err
	}
	s.logger.Info("allocation updated", slog.Int64("allocation_id", a.ID))
	return a, nil
}

// prepare validates a and canonicalises the names to the stored spelling.
func (s *AllocationService) prepare(a *domain.Allocation) error {
	assignee, err := s.employees.FindByName(a.AssigneeName)
	if err != nil {
		return invalid("Invalid Employee Name")
	}
	project, err := s.projects.FindByName(a.ProjectName)
	if err != nil {
		return invalid("Invalid Project Name")
	}
	if a.StartDate == "" || a.EndDate == "" {
		return invalid("Allocation start and end dates are required")
	}
	if err := checkRange(a.StartDate, a.EndDate, "End Date cannot be before Start Date!"); err != nil {
		return err
	}
	if a.Percentage < 1 || a.Percentage > 100 {
		return invalid("Percentage allocation must be between 1 and 100")
	}
	a.AssigneeName = assignee.Name
	a.ProjectName = project.ProjectName
	if allocator, err := s.employees.FindByName(a.AllocatorName); err == nil {
		a.AllocatorName = allocator.Name
	}
	return nil
}

func (s *AllocationService) Delete(id int64) error {
	if err := s.allocations.Delete(id); err != nil {
		return err
	}
	s.logger.Info("allocation deleted", slog.Int64("allocation_id", id))
	return nil
}

// DeleteByName removes every allocation of the named assignee.
func (s *AllocationService) DeleteByName(name string) (int, error) {
	if _, err := s.employees.FindByName(name); err != nil {
		return 0, err
	}
	ids := s.allocations.DeleteWhere(func(a domain.Allocation) bool { return sameName(a.AssigneeName, name) })
	return len(ids), nil
}

// DeleteActiveByEmployeeID removes the employee's active allocations: the
// set the deletion preview showed.
func (s *AllocationService) DeleteActiveByEmployeeID(id int64) (int, error) {
	e, err := s.employees.Get(id)
	if err != nil {
		return 0, err
	}
	ids := s.allocations.DeleteWhere(func(a domain.Allocation) bool {
		return a.IsActive && sameName(a.AssigneeName, e.Name)
	})
	s.logger.Info("allocations deleted for employee", slog.Int64("employee_id", id), slog.Int("count", len(ids)))
	return len(ids), nil
}

func (s *AllocationService) DeleteActiveByProjectID(id int64) (int, error) {
	p, err := s.projects.Get(id)
	if err != nil {
		return 0, err
	}
	ids := s.allocations.DeleteWhere(func(a domain.Allocation) bool {
		return a.IsActive && sameName(a.ProjectName, p.ProjectName)
	})
	s.logger.Info("allocations deleted for project", slog.Int64("project_id", id), slog.Int("count", len(ids)))
	return len(ids), nil
}

func (s *AllocationService) DeleteAll() int {
	n := s.allocations.DeleteAll()
	s.logger.Warn("all allocations deleted", slog.Int("count", n))
	return n
}

// ExpireEnded marks active allocations whose end date lies before today as
// inactive and returns their ids. today is a YYYY-MM-DD date.
func (s *AllocationService) ExpireEnded(today string) []int64 {
	var expired []int64
	for _, a := range s.allocations.List() {
		if !a.IsActive || a.EndDate == "" || a.EndDate >= today {
			continue
		}
		a.IsActive = false
		if err := s.allocations.Update(a); err != nil {
			s.logger.Warn("failed to expire allocation", slog.Int64("allocation_id", a.ID), slog.String("error", err.Error()))
			continue
		}
		expired = append(expired, a.ID)
	}
	if len(expired) > 0 {
		s.logger.Info("allocations expired", slog.Int("count", len(expired)), slog.String("today", today))
	}
	return expired
}

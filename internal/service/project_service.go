package service

import (
	"log/slog"
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// ProjectService owns project records. Every project has an owner that
// must be an existing employee.
type ProjectService struct {
	projects    domain.ProjectRepository
	employees   domain.EmployeeRepository
	allocations domain.AllocationRepository
	logger      *slog.Logger
}

func NewProjectService(
	projects domain.ProjectRepository,
	employees domain.EmployeeRepository,
	allocations domain.AllocationRepository,
	logger *slog.Logger,
) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{projects: projects, employees: employees, allocations: allocations, logger: logger}
}

func (s *ProjectService) List(activeOnly bool) []domain.Project {
	return filterActive(s.projects.List(), activeOnly, func(p domain.Project) bool { return p.IsActive })
}

func (s *ProjectService) Get(id int64) (domain.Project, error) {
	return s.projects.Get(id)
}

func (s *ProjectService) GetByName(name string) (domain.Project, error) {
	return s.projects.FindByName(name)
}

func (s *ProjectService) SearchByName(sub string) []domain.Project {
	var out []domain.Project
	for _, p := range s.projects.List() {
		if containsFold(p.ProjectName, sub) {
			out = append(out, p)
		}
	}
	return out
}

func (s *ProjectService) Names(partial string) []domain.NameRef {
	all := s.projects.List()
	refs := make([]domain.NameRef, len(all))
	for i, p := range all {
		refs[i] = domain.NameRef{Name: p.ProjectName, ID: p.ID}
	}
	return matchNames(partial, refs)
}

// IDByName returns 0 when no project has that name.
func (s *ProjectService) IDByName(name string) int64 {
	p, err := s.projects.FindByName(name)
	if err != nil {
		return 0
	}
	return p.ID
}

func (s *ProjectService) Add(p domain.Project) (domain.Project, error) {
	p.ID = 0
	if err := s.prepare(&p); err != nil {
		return domain.Project{}, err
	}
	if err := s.projects.Create(&p); err != nil {
		return domain.Project{}, err
	}
	s.logger.Info("project added", slog.Int64("project_id", p.ID), slog.String("name", p.ProjectName))
	return p, nil
}

func (s *ProjectService) UpdateByID(id int64, p domain.Project) (domain.Project, error) {
	current, err := s.projects.Get(id)
	if err != nil {
		return domain.Project{}, err
	}
	return s.update(current, p)
}

func (s *ProjectService) UpdateByName(name string, p domain.Project) (domain.Project, error) {
	current, err := s.projects.FindByName(name)
	if err != nil {
		return domain.Project{}, err
	}
	return s.update(current, p)
}

func (s *ProjectService) update(current, p domain.Project) (domain.Project, error) {
	p.ID = current.ID
	if err := s.prepare(&p); err != nil {
		return domain.Project{}, err
	}
	if err := s.projects.Update(p); err != nil {
		return domain.Project{}, err
	}
	if !sameName(current.ProjectName, p.ProjectName) {
		for _, a := range s.allocations.List() {
			if sameName(a.ProjectName, current.ProjectName) {
				a.ProjectName = p.ProjectName
				if err := s.allocations.Update(a); err != nil {
					s.logger.Warn("rename not carried into allocation",
						slog.Int64("allocation_id", a.ID),
						slog.String("error", err.Error()),
					)
				}
			}
		}
	}
	s.logger.Info("project updated", slog.Int64("project_id", p.ID))
	return p, nil
}

// prepare validates p and fills both owner fields from whichever one the
// caller sent. A positive OwnerID wins over OwnerName.
func (s *ProjectService) prepare(p *domain.Project) error {
	p.ProjectName = strings.TrimSpace(p.ProjectName)
	if p.ProjectName == "" {
		return invalid("Project name is required")
	}
	if err := checkRange(p.StartDate, p.EndDate, "End Date cannot be before Start Date!"); err != nil {
		return err
	}

	var (
		owner domain.Employee
		err   error
	)
	switch {
	case p.OwnerID > 0:
		owner, err = s.employees.Get(p.OwnerID)
	case strings.TrimSpace(p.OwnerName) != "":
		owner, err = s.employees.FindByName(p.OwnerName)
	default:
		return invalid("Project owner is required")
	}
	if err != nil {
		return invalid("Invalid Project Owner Name")
	}
	p.OwnerID = owner.ID
	p.OwnerName = owner.Name
	return nil
}

// Delete removes the project and every allocation to it.
func (s *ProjectService) Delete(id int64) error {
	p, err := s.projects.Get(id)
	if err != nil {
		return err
	}
	return s.remove(p)
}

func (s *ProjectService) DeleteByName(name string) error {
	p, err := s.projects.FindByName(name)
	if err != nil {
		return err
	}
	return s.remove(p)
}

func (s *ProjectService) remove(p domain.Project) error {
	if err := s.projects.Delete(p.ID); err != nil {
		return err
	}
	removed := s.allocations.DeleteWhere(func(a domain.Allocation) bool { return sameName(a.ProjectName, p.ProjectName) })
	s.logger.Info("project deleted",
		slog.Int64("project_id", p.ID),
		slog.Int("allocations_removed", len(removed)),
	)
	return nil
}

func (s *ProjectService) DeleteAll() int {
	s.allocations.DeleteAll()
	n := s.projects.DeleteAll()
	s.logger.Warn("all projects deleted", slog.Int("count", n))
	return n
}

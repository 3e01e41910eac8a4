package repository

import (
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// MemoryProjectRepository implements domain.ProjectRepository in memory
type MemoryProjectRepository struct {
	rows   *table[domain.Project]
	logger *slog.Logger
}

var _ domain.ProjectRepository = (*MemoryProjectRepository)(nil)

func NewMemoryProjectRepository(logger *slog.Logger) *MemoryProjectRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryProjectRepository{rows: newTable[domain.Project](), logger: logger}
}

func (r *MemoryProjectRepository) List() []domain.Project {
	return r.rows.list()
}

func (r *MemoryProjectRepository) Get(id int64) (domain.Project, error) {
	p, ok := r.rows.get(id)
	if !ok {
		return domain.Project{}, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (r *MemoryProjectRepository) FindByName(name string) (domain.Project, error) {
	p, ok := r.rows.find(func(p domain.Project) bool { return sameName(p.ProjectName, name) })
	if !ok {
		return domain.Project{}, fmt.Errorf("project %q: %w", name, domain.ErrNotFound)
	}
	return p, nil
}

func (r *MemoryProjectRepository) Create(p *domain.Project) error {
	if other, err := r.FindByName(p.ProjectName); err == nil && other.ID != 0 {
		return fmt.Errorf("project %q already exists: %w", p.ProjectName, domain.ErrConflict)
	}
	*p = r.rows.insert(func(id int64) domain.Project {
		row := *p
		row.ID = id
		return row
	})
	r.logger.Debug("project created", slog.Int64("project_id", p.ID))
	return nil
}

func (r *MemoryProjectRepository) Update(p domain.Project) error {
	if other, err := r.FindByName(p.ProjectName); err == nil && other.ID != p.ID {
		return fmt.Errorf("project %q already exists: %w", p.ProjectName, domain.ErrConflict)
	}
	if !r.rows.replace(p.ID, p) {
		return fmt.Errorf("project %d: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *MemoryProjectRepository) Delete(id int64) error {
	if !r.rows.remove(id) {
		return fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *MemoryProjectRepository) DeleteAll() int {
	return r.rows.clear()
}

package repository

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// MemoryEmployeeRepository implements domain.EmployeeRepository in memory.
// Names and emails are matched case-insensitively and must be unique.
type MemoryEmployeeRepository struct {
	rows   *table[domain.Employee]
	logger *slog.Logger
}

var _ domain.EmployeeRepository = (*MemoryEmployeeRepository)(nil)

// NewMemoryEmployeeRepository creates an empty employee repository
func NewMemoryEmployeeRepository(logger *slog.Logger) *MemoryEmployeeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryEmployeeRepository{rows: newTable[domain.Employee](), logger: logger}
}

func (r *MemoryEmployeeRepository) List() []domain.Employee {
	return r.rows.list()
}

func (r *MemoryEmployeeRepository) Get(id int64) (domain.Employee, error) {
	e, ok := r.rows.get(id)
	if !ok {
		return domain.Employee{}, fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

func (r *MemoryEmployeeRepository) FindByName(name string) (domain.Employee, error) {
	e, ok := r.rows.find(func(e domain.Employee) bool { return sameName(e.Name, name) })
	if !ok {
		return domain.Employee{}, fmt.Errorf("employee %q: %w", name, domain.ErrNotFound)
	}
	return e, nil
}

func (r *MemoryEmployeeRepository) FindByEmail(email string) (domain.Employee, error) {
	e, ok := r.rows.find(func(e domain.Employee) bool { return sameName(e.Email, email) })
	if !ok {
		return domain.Employee{}, fmt.Errorf("employee with email %q: %w", email, domain.ErrNotFound)
	}
	return e, nil
}

// Create assigns e.ID and stores a copy.
func (r *MemoryEmployeeRepository) Create(e *domain.Employee) error {
	if err := r.checkUnique(0, e.Name, e.Email); err != nil {
		return err
	}
	*e = r.rows.insert(func(id int64) domain.Employee {
		row := *e
		row.ID = id
		return row
	})
	r.logger.Debug("employee created", slog.Int64("employee_id", e.ID))
	return nil
}

func (r *MemoryEmployeeRepository) Update(e domain.Employee) error {
	if err := r.checkUnique(e.ID, e.Name, e.Email); err != nil {
		return err
	}
	if !r.rows.replace(e.ID, e) {
		return fmt.Errorf("employee %d: %w", e.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *MemoryEmployeeRepository) Delete(id int64) error {
	if !r.rows.remove(id) {
		return fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *MemoryEmployeeRepository) DeleteAll() int {
	return r.rows.clear()
}

func (r *MemoryEmployeeRepository) checkUnique(self int64, name, email string) error {
	if other, err := r.FindByName(name); err == nil && other.ID != self {
		return fmt.Errorf("employee named %q already exists: %w", name, domain.ErrConflict)
	}
	if email == "" {
		return nil
	}
	if other, err := r.FindByEmail(email); err == nil && other.ID != self {
		return fmt.Errorf("employee with email %q already exists: %w", email, domain.ErrConflict)
	}
	return nil
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

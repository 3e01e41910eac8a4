package repository

import (
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// MemoryAllocationRepository implements domain.AllocationRepository in
// memory. Allocations refer to employees and projects by name; keeping those
// names consistent is the service's job.
type MemoryAllocationRepository struct {
	rows   *table[domain.Allocation]
	logger *slog.Logger
}

var _ domain.AllocationRepository = (*MemoryAllocationRepository)(nil)

func NewMemoryAllocationRepository(logger *slog.Logger) *MemoryAllocationRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryAllocationRepository{rows: newTable[domain.Allocation](), logger: logger}
}

func (r *MemoryAllocationRepository) List() []domain.Allocation {
	return r.rows.list()
}

func (r *MemoryAllocationRepository) Get(id int64) (domain.Allocation, error) {
	a, ok := r.rows.get(id)
	if !ok {
		return domain.Allocation{}, fmt.Errorf("allocation %d: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func (r *MemoryAllocationRepository) Create(a *domain.Allocation) error {
	*a = r.rows.insert(func(id int64) domain.Allocation {
		row := *a
		row.ID = id
		return row
	})
	r.logger.Debug("allocation created", slog.Int64("allocation_id", a.ID))
	return nil
}

func (r *MemoryAllocationRepository) Update(a domain.Allocation) error {
	if !r.rows.replace(a.ID, a) {
		return fmt.Errorf("allocation %d: %w", a.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *MemoryAllocationRepository) Delete(id int64) error {
	if !r.rows.remove(id) {
		return fmt.Errorf("allocation %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteWhere removes every matching allocation and returns the ids removed.
func (r *MemoryAllocationRepository) DeleteWhere(match func(domain.Allocation) bool) []int64 {
	ids := r.rows.removeIf(match)
	if len(ids) > 0 {
		r.logger.Debug("allocations deleted", slog.Int("count", len(ids)))
	}
	return ids
}

func (r *MemoryAllocationRepository) DeleteAll() int {
	return r.rows.clear()
}

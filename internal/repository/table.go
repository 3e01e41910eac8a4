package repository

import (
	"slices"
	"sync"
)

// table is an id-keyed in-memory relation. Ids are assigned from a
// monotonically increasing sequence starting at 1 and are never reused.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[int64]T
	next int64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]T)}
}

// insert assigns the next id and stores the row built by fn.
func (t *table[T]) insert(fn func(id int64) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	row := fn(t.next)
	t.rows[t.next] = row
	return row
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

// find returns the lowest-id row matching fn.
func (t *table[T]) find(fn func(T) bool) (T, bool) {
	for _, row := range t.list() {
		if fn(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// list returns every row in id order.
func (t *table[T]) list() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

// replace overwrites an existing row; it reports false when id is unknown.
func (t *table[T]) replace(id int64, row T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = row
	return true
}

func (t *table[T]) remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// removeIf deletes every matching row and returns their ids in order.
func (t *table[T]) removeIf(fn func(T) bool) []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var ids []int64
	for id, row := range t.rows {
		if fn(row) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		delete(t.rows, id)
	}
	return ids
}

func (t *table[T]) clear() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.rows)
	t.rows = make(map[int64]T)
	return n
}

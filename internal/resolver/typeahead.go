package resolver

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/observability/metrics"
)

// ErrStale is returned by Lookup when a newer lookup was issued while this
// one was in flight. Its result must be dropped.
var ErrStale = errors.New("superseded by a newer lookup")

// Searcher is the list resolution a Typeahead drives.
type Searcher interface {
	SearchNames(ctx context.Context, kind domain.Kind, partial string) ([]domain.NameRef, error)
}

// Suggestions is the accepted result of one lookup.
type Suggestions struct {
	Seq   uint64
	Query string
	Items []domain.NameRef
}

// Typeahead gives "last request wins" ordering to concurrent lookups on one
// input box. In-flight calls are not cancelled; their answers are discarded.
type Typeahead struct {
	search Searcher
	kind   domain.Kind
	seq    atomic.Uint64
}

func NewTypeahead(search Searcher, kind domain.Kind) *Typeahead {
	return &Typeahead{search: search, kind: kind}
}

// Lookup tags the request with the next sequence number and returns ErrStale
// if another Lookup started before this one finished.
func (t *Typeahead) Lookup(ctx context.Context, partial string) (Suggestions, error) {
	n := t.seq.Add(1)
	items, err := t.search.SearchNames(ctx, t.kind, partial)
	if t.seq.Load() != n {
		metrics.ObserveStaleLookup()
		return Suggestions{}, ErrStale
	}
	if err != nil {
		return Suggestions{}, err
	}
	return Suggestions{Seq: n, Query: partial, Items: items}, nil
}

// Latest returns the sequence number of the most recently issued lookup.
func (t *Typeahead) Latest() uint64 {
	return t.seq.Load()
}

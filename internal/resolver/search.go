package resolver

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
)

var partialPattern = regexp.MustCompile(`^[a-zA-Z\s]*$`)

// SearchNames returns suggestions for partial, best fuzzy match first. The
// result is advisory and never a substitute for ResolveID.
func (r *Resolver) SearchNames(ctx context.Context, kind domain.Kind, partial string) ([]domain.NameRef, error) {
	if kind != domain.KindEmployee && kind != domain.KindProject {
		return nil, ErrUnresolvable
	}
	if !partialPattern.MatchString(partial) {
		return nil, apperror.Local("Only letters and spaces are allowed")
	}
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return nil, nil
	}

	var names []string
	if err := r.api.Invoke(ctx, gateway.Request{Kind: kind, Action: domain.GetNames, Qualifier: partial}, &names); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	var ids []int64
	if err := r.api.Invoke(ctx, gateway.Request{Kind: kind, Action: domain.GetIDs, Qualifier: partial}, &ids); err != nil {
		return nil, err
	}

	refs := make([]domain.NameRef, len(names))
	for i, n := range names {
		refs[i] = domain.NameRef{Name: n}
		if i < len(ids) {
			refs[i].ID = ids[i]
		}
	}
	return rank(partial, refs), nil
}

// rank orders refs by fuzzy distance to q. Entries the matcher rejects keep
// their server order after the ranked ones.
func rank(q string, refs []domain.NameRef) []domain.NameRef {
	words := make([]string, len(refs))
	for i, ref := range refs {
		words[i] = ref.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(q, words)
	sort.Stable(ranks)

	out := make([]domain.NameRef, 0, len(refs))
	seen := make([]bool, len(refs))
	for _, rk := range ranks {
		out = append(out, refs[rk.OriginalIndex])
		seen[rk.OriginalIndex] = true
	}
	for i, ref := range refs {
		if !seen[i] {
			out = append(out, ref)
		}
	}
	return out
}

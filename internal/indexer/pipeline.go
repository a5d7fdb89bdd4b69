package indexer

import (
	"iter"
	"maps"
	"slices"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

// SessionView is the read side of the session cache used while planning.
type SessionView interface {
	Get(indexerID string) (map[string]string, bool)
	Facts(indexerID string) map[string]string
}

// Plan turns caller criteria into a query for one indexer.
//
// It returns domain.ErrCapabilityMismatch, domain.ErrSanitizationEmpty or
// domain.ErrCategoryMappingIncomplete when the indexer must not be queried.
func Plan(def *domain.IndexerDefinition, caps domain.Capabilities, criteria domain.SearchCriteria, sessions SessionView) (*Query, error) {
	kind := criteria.Kind
	if kind == "" {
		kind = domain.KindSearch
	}

	if caps.Incomplete() && (kind != domain.KindSearch || len(criteria.Categories) > 0) {
		return nil, domain.ErrCategoryMappingIncomplete
	}
	if !caps.Supports(kind) {
		return nil, domain.ErrCapabilityMismatch
	}

	params := caps.Params(kind)
	q := &Query{
		Definition: def,
		Criteria:   criteria,
		params:     slices.Clone(params),
	}

	if criteria.HasTerm() && q.Supports(domain.ParamQ) {
		q.Term = domain.SanitizeTerm(criteria.Term)
		if q.Term == "" {
			return nil, domain.ErrSanitizationEmpty
		}
	}

	if !criteria.IsRSS() && q.Term == "" && !usesSupported(criteria, params) {
		return nil, domain.ErrCapabilityMismatch
	}

	q.Categories = nativeCategories(caps, criteria.Categories)

	if caps.SupportsPagination {
		q.Paged = true
		q.Offset = criteria.Offset
		q.Limit = criteria.Limit
		if q.Limit == 0 {
			q.Limit = caps.PageSize
		}
		if caps.LimitsMax > 0 && q.Limit > caps.LimitsMax {
			q.Limit = caps.LimitsMax
		}
	}

	if caps.SupportsSizeFilter {
		q.MinSize = criteria.MinSize
		q.MaxSize = criteria.MaxSize
	}

	if sessions != nil && def != nil {
		if cookies, ok := sessions.Get(def.ID); ok {
			q.Cookies = cookies
		}
		q.Facts = maps.Clone(sessions.Facts(def.ID))
	}

	return q, nil
}

// Generate yields the requests for criteria lazily. Planning happens on each
// iteration so paging and cookie state are never reused across calls. An
// indexer that cannot serve the criteria yields nothing.
func Generate(def *domain.IndexerDefinition, a Adapter, criteria domain.SearchCriteria, sessions SessionView) iter.Seq[*Request] {
	return func(yield func(*Request) bool) {
		q, err := Plan(def, a.Capabilities(), criteria, sessions)
		if err != nil {
			return
		}
		for r := range a.Requests(q) {
			if !yield(r) {
				return
			}
		}
	}
}

func nativeCategories(caps domain.Capabilities, requested []int) []string {
	var native []string
	if caps.Categories != nil {
		native = caps.Categories.ToNative(requested)
	}
	if len(native) > 0 {
		return native
	}
	if caps.AllCategoriesSentinel == "" {
		return nil
	}
	return []string{caps.AllCategoriesSentinel}
}

func usesSupported(c domain.SearchCriteria, params []domain.SearchParam) bool {
	for _, p := range c.UsedParams() {
		if slices.Contains(params, p) {
			return true
		}
	}
	return false
}

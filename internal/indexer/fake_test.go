package indexer

import (
	"fmt"
	"iter"
	"maps"

	"github.com/MrSnakeDoc/sift/internal/category"
	"github.com/MrSnakeDoc/sift/internal/domain"
)

type fakeAdapter struct {
	caps  domain.Capabilities
	pages int
}

func (f *fakeAdapter) Capabilities() domain.Capabilities { return f.caps }

func (f *fakeAdapter) Requests(q *Query) iter.Seq[*Request] {
	return func(yield func(*Request) bool) {
		for p := 0; p < max(f.pages, 1); p++ {
			url := fmt.Sprintf("https://example.test/?q=%s&page=%d", q.Term, p)
			if !yield(NewRequest(q, url, ExpectJSON)) {
				return
			}
		}
	}
}

func (f *fakeAdapter) Parse(*Response) (*ParseResult, error) { return &ParseResult{}, nil }

type fakeSessions struct {
	cookies map[string]map[string]string
	facts   map[string]map[string]string
}

func (s *fakeSessions) Get(id string) (map[string]string, bool) {
	c, ok := s.cookies[id]
	return maps.Clone(c), ok
}

func (s *fakeSessions) Facts(id string) map[string]string { return s.facts[id] }

func animeCaps() domain.Capabilities {
	return domain.NewCapabilities(domain.Capabilities{
		SearchParams:          []domain.SearchParam{domain.ParamQ},
		TVSearchParams:        []domain.SearchParam{domain.ParamQ, domain.ParamSeason, domain.ParamEpisode},
		SupportsPagination:    true,
		PageSize:              100,
		LimitsMax:             200,
		SupportsSizeFilter:    true,
		AllCategoriesSentinel: "0",
	}, []category.Entry{
		{NativeID: "1", Label: "Anime", Canonical: []int{category.TVAnime}},
		{NativeID: "2", Label: "Movie", Canonical: []int{category.MoviesOther}},
	}, 0)
}

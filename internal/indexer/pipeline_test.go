package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/sift/internal/category"
	"github.com/MrSnakeDoc/sift/internal/domain"
)

var testDef = &domain.IndexerDefinition{ID: "anime", Name: "Anime", Protocol: domain.ProtocolTorrent}

func TestPlan_CapabilityMismatch(t *testing.T) {
	caps := domain.NewCapabilities(domain.Capabilities{
		SearchParams: []domain.SearchParam{domain.ParamQ},
	}, nil, 0)

	criteria := domain.SearchCriteria{Kind: domain.KindTVSearch, Term: "show", Season: 2, Episode: "5"}
	_, err := Plan(testDef, caps, criteria, nil)
	require.ErrorIs(t, err, domain.ErrCapabilityMismatch)

	a := &fakeAdapter{caps: caps}
	count := 0
	for range Generate(testDef, a, criteria, nil) {
		count++
	}
	assert.Zero(t, count)
}

func TestPlan_UnsupportedStructuredParamOnly(t *testing.T) {
	criteria := domain.SearchCriteria{Kind: domain.KindTVSearch, TVDbID: 121361}
	_, err := Plan(testDef, animeCaps(), criteria, nil)
	assert.ErrorIs(t, err, domain.ErrCapabilityMismatch)
}

func TestPlan_SanitizationEmpty(t *testing.T) {
	criteria := domain.SearchCriteria{Kind: domain.KindSearch, Term: "[SubsPlease] !!!"}
	_, err := Plan(testDef, animeCaps(), criteria, nil)
	require.ErrorIs(t, err, domain.ErrSanitizationEmpty)

	count := 0
	for range Generate(testDef, &fakeAdapter{caps: animeCaps()}, criteria, nil) {
		count++
	}
	assert.Zero(t, count)
}

func TestPlan_IncompleteMapping(t *testing.T) {
	caps := domain.NewCapabilities(animeCaps(), []category.Entry{{NativeID: "1"}}, 0)

	_, err := Plan(testDef, caps, domain.SearchCriteria{Kind: domain.KindSearch, Term: "x", Categories: []int{category.TV}}, nil)
	assert.ErrorIs(t, err, domain.ErrCategoryMappingIncomplete)

	q, err := Plan(testDef, caps, domain.SearchCriteria{Kind: domain.KindSearch, Term: "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, q.Categories)
}

func TestPlan_Categories(t *testing.T) {
	tests := []struct {
		name      string
		requested []int
		want      []string
	}{
		{"parent maps children", []int{category.TV}, []string{"1"}},
		{"unserved uses sentinel", []int{category.Books}, []string{"0"}},
		{"none requested uses sentinel", nil, []string{"0"}},
		{"both", []int{category.MoviesOther, category.TVAnime}, []string{"1", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Plan(testDef, animeCaps(), domain.SearchCriteria{Kind: domain.KindSearch, Term: "x", Categories: tt.requested}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Categories)
		})
	}
}

func TestPlan_EmptySentinelOmitsCategories(t *testing.T) {
	caps := animeCaps()
	caps.AllCategoriesSentinel = ""

	q, err := Plan(testDef, caps, domain.SearchCriteria{Kind: domain.KindSearch, Term: "x", Categories: []int{category.Books}}, nil)
	require.NoError(t, err)
	assert.Nil(t, q.Categories)
}

func TestPlan_Paging(t *testing.T) {
	q, err := Plan(testDef, animeCaps(), domain.SearchCriteria{Kind: domain.KindSearch, Term: "x", Offset: 100, Limit: 500}, nil)
	require.NoError(t, err)
	assert.True(t, q.Paged)
	assert.Equal(t, 100, q.Offset)
	assert.Equal(t, 200, q.Limit, "limit is capped at LimitsMax")

	q, err = Plan(testDef, animeCaps(), domain.SearchCriteria{Kind: domain.KindSearch, Term: "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, q.Limit, "limit defaults to page size")

	caps := animeCaps()
	caps.SupportsPagination = false
	caps.SupportsSizeFilter = false
	q, err = Plan(testDef, caps, domain.SearchCriteria{Kind: domain.KindSearch, Term: "x", Offset: 100, Limit: 50, MinSize: 10, MaxSize: 20}, nil)
	require.NoError(t, err)
	assert.False(t, q.Paged)
	assert.Zero(t, q.Offset)
	assert.Zero(t, q.Limit)
	assert.Zero(t, q.MinSize)
	assert.Zero(t, q.MaxSize)
}

func TestPlan_DropsUnsupportedParams(t *testing.T) {
	q, err := Plan(testDef, animeCaps(), domain.SearchCriteria{Kind: domain.KindTVSearch, Term: "x", Season: 2, TVDbID: 5}, nil)
	require.NoError(t, err)
	assert.True(t, q.Supports(domain.ParamSeason))
	assert.False(t, q.Supports(domain.ParamTVDbID))
}

func TestGenerate_RederivesSessionState(t *testing.T) {
	sessions := &fakeSessions{
		cookies: map[string]map[string]string{"anime": {"uid": "1"}},
		facts:   map[string]map[string]string{"anime": {"class": "VIP"}},
	}
	a := &fakeAdapter{caps: animeCaps(), pages: 2}
	criteria := domain.SearchCriteria{Kind: domain.KindSearch, Term: "[SubsPlease] Frieren"}
	seq := Generate(testDef, a, criteria, sessions)

	var first []*Request
	for r := range seq {
		first = append(first, r)
	}
	require.Len(t, first, 2)
	assert.Equal(t, "Frieren", first[0].Query.Term)
	assert.Equal(t, "1", first[0].Cookies["uid"])
	assert.Equal(t, "VIP", first[0].Query.Facts["class"])

	sessions.cookies["anime"] = map[string]string{"uid": "2"}
	for r := range seq {
		assert.Equal(t, "2", r.Cookies["uid"])
		break
	}
}

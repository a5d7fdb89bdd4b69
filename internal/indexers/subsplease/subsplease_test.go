package subsplease

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/sift/internal/category"
	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/indexer"
)

func newAdapter(t *testing.T) (*domain.IndexerDefinition, indexer.Adapter) {
	t.Helper()
	def := &domain.IndexerDefinition{ID: "subsplease", Name: "SubsPlease", Implementation: Implementation}
	a, err := indexer.Build(def)
	require.NoError(t, err)
	return def, a
}

func requests(t *testing.T, def *domain.IndexerDefinition, a indexer.Adapter, c domain.SearchCriteria) []url.Values {
	t.Helper()
	var out []url.Values
	for r := range indexer.Generate(def, a, c, nil) {
		u, err := url.Parse(r.URL)
		require.NoError(t, err)
		assert.Equal(t, "/api/", u.Path)
		out = append(out, u.Query())
	}
	return out
}

func TestRequests(t *testing.T) {
	def, a := newAdapter(t)

	tests := []struct {
		name     string
		criteria domain.SearchCriteria
		wantF    string
		wantS    string
	}{
		{"rss", domain.SearchCriteria{Kind: domain.KindSearch}, "latest", ""},
		{"brand and resolution stripped", domain.SearchCriteria{Kind: domain.KindSearch, Term: "[SubsPlease] Frieren 1080p"}, "search", "Frieren"},
		{"unbracketed brand", domain.SearchCriteria{Kind: domain.KindSearch, Term: "SubsPlease Frieren"}, "search", "Frieren"},
		{"season one omitted", domain.SearchCriteria{Kind: domain.KindTVSearch, Term: "Frieren", Season: 1, Episode: "3"}, "search", "Frieren 03"},
		{"season two", domain.SearchCriteria{Kind: domain.KindTVSearch, Term: "Frieren", Season: 2, Episode: "5"}, "search", "Frieren S2 05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := requests(t, def, a, tt.criteria)
			require.Len(t, got, 1)
			assert.Equal(t, "UTC", got[0].Get("tz"))
			assert.Equal(t, tt.wantF, got[0].Get("f"))
			assert.Equal(t, tt.wantS, got[0].Get("s"))
		})
	}
}

func TestRequests_UnsupportedKinds(t *testing.T) {
	def, a := newAdapter(t)
	assert.Empty(t, requests(t, def, a, domain.SearchCriteria{Kind: domain.KindBookSearch, Term: "x"}))
	assert.Empty(t, requests(t, def, a, domain.SearchCriteria{Kind: domain.KindMusicSearch, Term: "x"}))
}

const sample = `{
 "Frieren - 05": {
  "time": "New", "release_date": "2026-02-01T10:00:00+00:00", "show": "Frieren", "episode": "05",
  "downloads": [
   {"res": "1080", "magnet": "magnet:?xt=urn:btih:AAA&dn=x&xl=1500000000"},
   {"res": "720", "magnet": "magnet:?xt=urn:btih:BBB&dn=x"}
  ],
  "image_url": "/wp-content/frieren.jpg", "page": "frieren"
 },
 "Gekijouban - Movie": {
  "release_date": "2026-01-30T10:00:00+00:00", "show": "Gekijouban", "episode": "Movie",
  "downloads": [{"res": "480", "magnet": "magnet:?xt=urn:btih:CCC"}],
  "page": "gekijouban"
 }
}`

func response(status int, body string) *indexer.Response {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &indexer.Response{StatusCode: status, Header: h, Body: []byte(body)}
}

func TestParse(t *testing.T) {
	_, a := newAdapter(t)

	res, err := a.Parse(response(http.StatusOK, sample))
	require.NoError(t, err)
	require.Len(t, res.Releases, 3)

	first := res.Releases[0]
	assert.Equal(t, "[SubsPlease] Frieren - 05 (1080p)", first.Title)
	assert.Equal(t, first.MagnetURL, first.GUID)
	assert.Equal(t, int64(1500000000), first.Size)
	assert.False(t, first.SizeEstimated)
	assert.Equal(t, "https://subsplease.org/shows/frieren/", first.InfoURL)
	assert.Zero(t, first.DownloadVolumeFactor)
	assert.Equal(t, 1.0, first.UploadVolumeFactor)
	assert.Equal(t, int64(172800), first.MinimumSeedTime)
	assert.Equal(t, 1, first.Seeders)
	assert.Equal(t, 2, first.Peers)

	second := res.Releases[1]
	assert.Equal(t, int64(700<<20), second.Size)
	assert.True(t, second.SizeEstimated)

	movie := res.Releases[2]
	require.Len(t, movie.Categories, 2)
	assert.Equal(t, category.TVAnime, movie.Categories[0].ID)
	assert.Equal(t, category.MoviesOther, movie.Categories[1].ID)
	assert.Equal(t, int64(350<<20), movie.Size)
}

func TestParse_Empty(t *testing.T) {
	_, a := newAdapter(t)
	for _, body := range []string{"", "[]", "  "} {
		res, err := a.Parse(response(http.StatusOK, body))
		require.NoError(t, err)
		assert.Empty(t, res.Releases)
	}
}

func TestParse_Errors(t *testing.T) {
	_, a := newAdapter(t)

	_, err := a.Parse(response(http.StatusBadGateway, ""))
	assert.Equal(t, domain.ErrKindTransport, domain.KindOf(err))

	_, err = a.Parse(response(http.StatusOK, `{"x": [1,2`))
	assert.Equal(t, domain.ErrKindParse, domain.KindOf(err))
}

func TestParse_ThenNormalize(t *testing.T) {
	def, a := newAdapter(t)
	res, err := a.Parse(response(http.StatusOK, sample))
	require.NoError(t, err)

	out, err := indexer.Normalize(def, a.Capabilities(), res.Releases)
	require.NoError(t, err)
	assert.Len(t, out.Releases, 3)
	for _, r := range out.Releases {
		assert.True(t, r.Freeleech)
		assert.Equal(t, "subsplease", r.IndexerID)
	}
}

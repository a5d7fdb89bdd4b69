// Package subsplease implements the SubsPlease anime release API.
package subsplease

import (
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/sift/internal/category"
	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/indexer"
)

const (
	Implementation  = "subsplease"
	DefaultBaseURL  = "https://subsplease.org/"
	minimumSeedTime = 172800 // 48 hours
)

var (
	brandPattern      = regexp.MustCompile(`(?i)\[?SubsPlease\]?\s*`)
	resolutionPattern = regexp.MustCompile(`(?i)\d{3,4}p`)
	magnetSizePattern = regexp.MustCompile(`(?i)&xl=(\d+)`)

	categories = []category.Entry{
		{NativeID: "1", Label: "Anime", Canonical: []int{category.TVAnime}},
		{NativeID: "2", Label: "Anime Movie", Canonical: []int{category.MoviesOther}},
	}
)

func init() {
	indexer.Register(Implementation, New)
}

// Adapter talks to the public SubsPlease JSON API.
type Adapter struct {
	def  *domain.IndexerDefinition
	caps domain.Capabilities
}

// New builds the adapter for def.
func New(def *domain.IndexerDefinition) (indexer.Adapter, error) {
	if len(def.BaseURLs) == 0 {
		def.BaseURLs = []string{DefaultBaseURL}
	}
	return &Adapter{
		def: def,
		caps: domain.NewCapabilities(domain.Capabilities{
			SearchParams:      []domain.SearchParam{domain.ParamQ},
			TVSearchParams:    []domain.SearchParam{domain.ParamQ, domain.ParamSeason, domain.ParamEpisode},
			MovieSearchParams: []domain.SearchParam{domain.ParamQ},
		}, categories, 0),
	}, nil
}

func (a *Adapter) Capabilities() domain.Capabilities { return a.caps }

// Requests yields a single request: the latest feed for RSS, a search otherwise.
func (a *Adapter) Requests(q *indexer.Query) iter.Seq[*indexer.Request] {
	return func(yield func(*indexer.Request) bool) {
		params := url.Values{}
		params.Set("tz", "UTC")

		if q.IsRSS() {
			params.Set("f", "latest")
		} else {
			term := searchTerm(q)
			if term == "" {
				return
			}
			params.Set("f", "search")
			params.Set("s", term)
		}

		u := strings.TrimSuffix(a.def.BaseURL(), "/") + "/api/?" + params.Encode()
		yield(indexer.NewRequest(q, u, indexer.ExpectJSON))
	}
}

func searchTerm(q *indexer.Query) string {
	term := q.Term
	if q.Criteria.Kind == domain.KindTVSearch {
		if q.Supports(domain.ParamSeason) && q.Criteria.Season > 1 {
			term += fmt.Sprintf(" S%d", q.Criteria.Season)
		}
		if ep, err := strconv.Atoi(q.Criteria.Episode); err == nil && ep > 0 && q.Supports(domain.ParamEpisode) {
			term += fmt.Sprintf(" %02d", ep)
		}
	}

	term = strings.TrimSpace(brandPattern.ReplaceAllString(term, ""))
	if res := resolutionPattern.FindString(term); res != "" {
		term = strings.TrimSpace(strings.Replace(term, res, "", 1))
	}
	return term
}

type release struct {
	ReleaseDate time.Time  `json:"release_date"`
	Show        string     `json:"show"`
	Episode     string     `json:"episode"`
	Downloads   []download `json:"downloads"`
	ImageURL    string     `json:"image_url"`
	Page        string     `json:"page"`
}

type download struct {
	Resolution string `json:"res"`
	Magnet     string `json:"magnet"`
}

// Parse reads the show keyed object. The API answers an empty array when nothing matched.
func (a *Adapter) Parse(resp *indexer.Response) (*indexer.ParseResult, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewTransportError(resp.StatusCode, fmt.Errorf("unexpected response status %d", resp.StatusCode))
	}
	if err := indexer.CheckResponse(resp, indexer.ExpectJSON); err != nil {
		return nil, err
	}

	body := strings.TrimSpace(string(resp.Body))
	if body == "" || body == "[]" {
		return &indexer.ParseResult{}, nil
	}

	var out []domain.ReleaseInfo
	err := indexer.EachObjectField(resp.Body, func(_ string, raw json.RawMessage) error {
		var r release
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		out = append(out, a.releases(r)...)
		return nil
	})
	if err != nil {
		return nil, domain.NewParseError("invalid subsplease response", err)
	}
	return &indexer.ParseResult{Releases: out}, nil
}

func (a *Adapter) releases(r release) []domain.ReleaseInfo {
	base := a.def.BaseURL()
	out := make([]domain.ReleaseInfo, 0, len(r.Downloads))
	for _, d := range r.Downloads {
		rel := domain.NewRelease()
		rel.Title = fmt.Sprintf("[SubsPlease] %s - %s (%sp)", r.Show, r.Episode, d.Resolution)
		rel.GUID = d.Magnet
		rel.MagnetURL = d.Magnet
		rel.InfoURL = fmt.Sprintf("%sshows/%s/", base, r.Page)
		rel.PublishDate = r.ReleaseDate.UTC()
		rel.Files = 1
		rel.Seeders = 1
		rel.Peers = 2
		rel.MinimumRatio = 1
		rel.MinimumSeedTime = minimumSeedTime
		rel.Freeleech = true
		rel.DownloadVolumeFactor = 0
		rel.Size, rel.SizeEstimated = releaseSize(d)

		rel.Categories = a.caps.Categories.ToCanonical("1")
		if strings.EqualFold(r.Episode, "movie") {
			rel.Categories = append(rel.Categories, a.caps.Categories.ToCanonical("2")...)
		}
		out = append(out, rel)
	}
	return out
}

func releaseSize(d download) (int64, bool) {
	if m := magnetSizePattern.FindStringSubmatch(d.Magnet); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil && n > 0 {
			return n, false
		}
	}
	return indexer.EstimateSizeForResolution(d.Resolution), true
}

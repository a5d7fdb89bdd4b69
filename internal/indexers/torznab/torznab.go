// Package torznab implements the generic Torznab and Newznab APIs.
//
// Capabilities come from the indexer definition since every Torznab
// endpoint declares its own. Without an override the standard taxonomy and
// the common parameter set are assumed.
package torznab

import (
	"cmp"
	"encoding/xml"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/sift/internal/category"
	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/indexer"
)

const (
	Implementation = "torznab"
	Newznab        = "newznab"

	defaultPageSize = 100
	defaultAPIPath  = "api"
)

// Settings keys.
const (
	SettingAPIKey  = "apikey"
	SettingAPIPath = "api_path"
)

var kindFunctions = map[domain.SearchKind]string{
	domain.KindSearch:      "search",
	domain.KindTVSearch:    "tvsearch",
	domain.KindMovieSearch: "movie",
	domain.KindMusicSearch: "music",
	domain.KindBookSearch:  "book",
}

func init() {
	indexer.Register(Implementation, New)
	indexer.Register(Newznab, New)
}

// Adapter speaks the newznab dialect shared by Torznab and Newznab.
type Adapter struct {
	def  *domain.IndexerDefinition
	caps domain.Capabilities
}

// New builds the adapter. Base url is required.
func New(def *domain.IndexerDefinition) (indexer.Adapter, error) {
	if def.BaseURL() == "" {
		return nil, fmt.Errorf("indexer %s: base url is required", def.ID)
	}
	if def.Protocol == "" {
		def.Protocol = domain.ProtocolTorrent
		if def.Implementation == Newznab {
			def.Protocol = domain.ProtocolUsenet
		}
	}

	spec := def.Capabilities
	if spec == nil {
		spec = defaultSpec()
	}
	entries := spec.Categories
	if len(entries) == 0 {
		entries = standardEntries()
	}

	a := &Adapter{
		def: def,
		caps: domain.NewCapabilities(domain.Capabilities{
			SearchParams:       orBasic(spec.Search),
			TVSearchParams:     spec.TVSearch,
			MovieSearchParams:  spec.MovieSearch,
			MusicSearchParams:  spec.MusicSearch,
			BookSearchParams:   spec.BookSearch,
			SupportsPagination: true,
			PageSize:           cmp.Or(spec.LimitsDefault, defaultPageSize),
			LimitsMax:          spec.LimitsMax,
		}, entries, 0),
	}
	return a, nil
}

func defaultSpec() *domain.CapabilitiesSpec {
	return &domain.CapabilitiesSpec{
		Search:      []domain.SearchParam{domain.ParamQ},
		TVSearch:    []domain.SearchParam{domain.ParamQ, domain.ParamSeason, domain.ParamEpisode, domain.ParamIMDbID, domain.ParamTVDbID},
		MovieSearch: []domain.SearchParam{domain.ParamQ, domain.ParamIMDbID, domain.ParamTMDbID},
		MusicSearch: []domain.SearchParam{domain.ParamQ, domain.ParamArtist, domain.ParamAlbum},
		BookSearch:  []domain.SearchParam{domain.ParamQ, domain.ParamAuthor, domain.ParamTitle},
	}
}

func standardEntries() []category.Entry {
	std := category.Standard()
	out := make([]category.Entry, 0, len(std))
	for _, c := range std {
		out = append(out, category.Entry{NativeID: strconv.Itoa(c.ID), Label: c.Name, Canonical: []int{c.ID}})
	}
	return out
}

func orBasic(p []domain.SearchParam) []domain.SearchParam {
	if len(p) == 0 {
		return []domain.SearchParam{domain.ParamQ}
	}
	return p
}

func (a *Adapter) Capabilities() domain.Capabilities { return a.caps }

// Requests yields one page for the query's search function.
func (a *Adapter) Requests(q *indexer.Query) iter.Seq[*indexer.Request] {
	return func(yield func(*indexer.Request) bool) {
		kind := q.Criteria.Kind
		if kind == "" {
			kind = domain.KindSearch
		}
		fn, ok := kindFunctions[kind]
		if !ok {
			return
		}

		settings := q.Settings()
		params := url.Values{}
		params.Set("t", fn)
		params.Set("extended", "1")
		if key := settings.String(SettingAPIKey); key != "" {
			params.Set("apikey", key)
		}
		if q.Term != "" {
			params.Set("q", q.Term)
		}
		if len(q.Categories) > 0 {
			params.Set("cat", strings.Join(q.Categories, ","))
		}
		if q.Paged {
			params.Set("offset", strconv.Itoa(q.Offset))
			params.Set("limit", strconv.Itoa(q.Limit))
		}

		c := q.Criteria
		setIf := func(p domain.SearchParam, v string) {
			if v != "" && v != "0" && q.Supports(p) {
				params.Set(string(p), v)
			}
		}
		if c.Season > 0 {
			setIf(domain.ParamSeason, strconv.Itoa(c.Season))
		}
		setIf(domain.ParamEpisode, c.Episode)
		setIf(domain.ParamIMDbID, c.NormalizedIMDbID())
		setIf(domain.ParamTMDbID, strconv.Itoa(c.TMDbID))
		setIf(domain.ParamTVDbID, strconv.Itoa(c.TVDbID))
		setIf(domain.ParamArtist, c.Artist)
		setIf(domain.ParamAlbum, c.Album)
		setIf(domain.ParamAuthor, c.Author)
		setIf(domain.ParamTitle, c.Title)

		path := cmp.Or(strings.Trim(settings.String(SettingAPIPath), "/"), defaultAPIPath)
		yield(indexer.NewRequest(q, a.def.BaseURL()+path+"?"+params.Encode(), indexer.ExpectXML))
	}
}

// ─────────────────────────────
// Feed
// ─────────────────────────────

type apiError struct {
	XMLName     xml.Name `xml:"error"`
	Code        int      `xml:"code,attr"`
	Description string   `xml:"description,attr"`
}

type feed struct {
	XMLName xml.Name `xml:"rss"`
	Items   []item   `xml:"channel>item"`
}

type item struct {
	Title       string    `xml:"title"`
	GUID        string    `xml:"guid"`
	Link        string    `xml:"link"`
	Comments    string    `xml:"comments"`
	PubDate     string    `xml:"pubDate"`
	Size        int64     `xml:"size"`
	Description string    `xml:"description"`
	Categories  []string  `xml:"category"`
	Enclosure   enclosure `xml:"enclosure"`
	Attrs       []attr    `xml:"attr"`
}

type enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// attr matches both torznab:attr and newznab:attr.
type attr struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Parse reads an RSS feed with torznab/newznab extended attributes.
func (a *Adapter) Parse(resp *indexer.Response) (*indexer.ParseResult, error) {
	if err := indexer.CheckResponse(resp, indexer.ExpectXML); err != nil {
		return nil, err
	}

	var apiErr apiError
	if xml.Unmarshal(resp.Body, &apiErr) == nil {
		return nil, classifyError(resp.StatusCode, apiErr)
	}

	var f feed
	if err := xml.Unmarshal(resp.Body, &f); err != nil {
		return nil, domain.NewParseError("invalid feed", err)
	}

	releases := make([]domain.ReleaseInfo, 0, len(f.Items))
	for _, it := range f.Items {
		releases = append(releases, a.release(it))
	}
	return &indexer.ParseResult{Releases: releases}, nil
}

func classifyError(status int, e apiError) error {
	msg := fmt.Sprintf("newznab error %d: %s", e.Code, e.Description)
	switch {
	case e.Code >= 100 && e.Code <= 199:
		return domain.NewAuthError(status, msg)
	case e.Code == 500 || e.Code == 501:
		return domain.NewTransportError(status, fmt.Errorf("%s", msg))
	}
	return domain.NewParseError(msg, nil)
}

func (a *Adapter) release(it item) domain.ReleaseInfo {
	rel := domain.NewRelease()
	rel.Title = it.Title
	rel.GUID = strings.TrimSpace(it.GUID)
	rel.Description = it.Description
	rel.InfoURL = strings.TrimSuffix(it.Comments, "#comments")
	rel.PublishDate = parseDate(it.PubDate)

	rel.DownloadURL = it.Enclosure.URL
	if rel.DownloadURL == "" {
		rel.DownloadURL = it.Link
	}
	if strings.HasPrefix(rel.DownloadURL, "magnet:") {
		rel.MagnetURL = rel.DownloadURL
		rel.DownloadURL = ""
	}

	rel.Size = it.Size
	if rel.Size == 0 {
		rel.Size = it.Enclosure.Length
	}

	var catIDs []string
	leechers, peers := -1, -1
	for _, at := range it.Attrs {
		v := strings.TrimSpace(at.Value)
		switch strings.ToLower(at.Name) {
		case "category":
			catIDs = append(catIDs, v)
		case "size":
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				rel.Size = n
			}
		case "seeders":
			rel.Seeders = atoi(v)
		case "peers":
			peers = atoi(v)
		case "leechers":
			leechers = atoi(v)
		case "grabs":
			rel.Grabs = atoi(v)
		case "files":
			rel.Files = atoi(v)
		case "downloadvolumefactor":
			rel.DownloadVolumeFactor = atof(v, 1)
		case "uploadvolumefactor":
			rel.UploadVolumeFactor = atof(v, 1)
		case "minimumratio":
			rel.MinimumRatio = atof(v, 0)
		case "minimumseedtime":
			rel.MinimumSeedTime, _ = strconv.ParseInt(v, 10, 64)
		case "magneturl":
			rel.MagnetURL = v
		case "infohash":
			rel.InfoHash = v
		case "imdb", "imdbid":
			rel.IMDbID = atoi(strings.TrimPrefix(v, "tt"))
		case "genre":
			rel.Genres = append(rel.Genres, v)
		case "author":
			rel.Author = v
		case "booktitle":
			rel.BookTitle = v
		case "tag":
			switch strings.ToLower(v) {
			case domain.FlagFreeleech:
				rel.Freeleech = true
			case domain.FlagInternal:
				rel.IndexerFlags = append(rel.IndexerFlags, domain.FlagInternal)
			}
		}
	}

	switch {
	case peers >= 0:
		rel.Peers = peers
	case leechers >= 0:
		rel.Peers = leechers + rel.Seeders
	}

	if len(catIDs) == 0 {
		catIDs = it.Categories
	}
	rel.Categories = a.categories(catIDs)
	return rel
}

// categories maps native ids, keeping standard ids the table does not list.
func (a *Adapter) categories(ids []string) []category.Category {
	var out []category.Category
	seen := make(map[int]bool)
	for _, id := range ids {
		var resolved []category.Category
		if a.caps.Categories != nil && a.caps.Categories.Has(id) {
			resolved = a.caps.Categories.ToCanonical(id)
		} else if n, err := strconv.Atoi(id); err == nil {
			if c, ok := category.Lookup(n); ok {
				resolved = []category.Category{c}
			}
		}
		for _, c := range resolved {
			if !seen[c.ID] {
				seen[c.ID] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

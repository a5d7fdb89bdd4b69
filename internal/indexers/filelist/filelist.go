// Package filelist implements the FileList.io JSON API.
package filelist

import (
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/indexer"
)

const (
	Implementation  = "filelist"
	DefaultBaseURL  = "https://filelist.io/"
	minimumSeedTime = 172800 // 48 hours
	uploadLayout    = "2006-01-02 15:04:05"
)

// Settings keys.
const (
	SettingUsername      = "username"
	SettingPasskey       = "passkey"
	SettingFreeleechOnly = "freeleech_only"
)

// Uploads are stamped in Romanian local time without a zone.
var uploadZone = time.FixedZone("EET", 2*60*60)

func init() {
	indexer.Register(Implementation, New)
}

// Adapter searches FileList with username and passkey basic auth.
type Adapter struct {
	def  *domain.IndexerDefinition
	caps domain.Capabilities
}

// New builds the adapter. Username and passkey are required.
func New(def *domain.IndexerDefinition) (indexer.Adapter, error) {
	for _, key := range []string{SettingUsername, SettingPasskey} {
		if def.Settings.String(key) == "" {
			return nil, fmt.Errorf("setting %q is required", key)
		}
	}
	if len(def.BaseURLs) == 0 {
		def.BaseURLs = []string{DefaultBaseURL}
	}
	return &Adapter{
		def: def,
		caps: domain.NewCapabilities(domain.Capabilities{
			SearchParams:      []domain.SearchParam{domain.ParamQ, domain.ParamIMDbID},
			TVSearchParams:    []domain.SearchParam{domain.ParamQ, domain.ParamSeason, domain.ParamEpisode, domain.ParamIMDbID},
			MovieSearchParams: []domain.SearchParam{domain.ParamQ, domain.ParamIMDbID},
			MusicSearchParams: []domain.SearchParam{domain.ParamQ},
			BookSearchParams:  []domain.SearchParam{domain.ParamQ},
		}, categories, 0),
	}, nil
}

func (a *Adapter) Capabilities() domain.Capabilities { return a.caps }

// Requests yields one API call: an IMDb lookup, a name search or the latest list.
func (a *Adapter) Requests(q *indexer.Query) iter.Seq[*indexer.Request] {
	return func(yield func(*indexer.Request) bool) {
		settings := q.Settings()
		params := url.Values{}

		imdb := ""
		if q.Supports(domain.ParamIMDbID) && q.Criteria.IMDbID != "" {
			imdb = "tt" + q.Criteria.NormalizedIMDbID()
		}

		switch {
		case imdb != "":
			params.Set("action", "search-torrents")
			params.Set("type", "imdb")
			params.Set("query", imdb)
			if q.Criteria.Season > 0 {
				params.Set("season", strconv.Itoa(q.Criteria.Season))
			}
			if q.Criteria.Episode != "" {
				params.Set("episode", q.Criteria.Episode)
			}
		case q.Term != "":
			params.Set("action", "search-torrents")
			params.Set("type", "name")
			params.Set("query", strings.TrimSpace(q.Term+" "+episodeTag(q.Criteria)))
		case q.IsRSS():
			params.Set("action", "latest-torrents")
		default:
			return
		}

		if len(q.Categories) > 0 {
			params.Set("category", strings.Join(q.Categories, ","))
		}
		if settings.Bool(SettingFreeleechOnly) {
			params.Set("freeleech", "1")
		}

		req := indexer.NewRequest(q, a.def.BaseURL()+"api.php?"+params.Encode(), indexer.ExpectJSON)
		req.SetBasicAuth(settings.String(SettingUsername), settings.String(SettingPasskey))
		yield(req)
	}
}

func episodeTag(c domain.SearchCriteria) string {
	if c.Season <= 0 {
		return ""
	}
	tag := fmt.Sprintf("S%02d", c.Season)
	if ep, err := strconv.Atoi(c.Episode); err == nil {
		tag += fmt.Sprintf("E%02d", ep)
	}
	return tag
}

type apiError struct {
	Error string `json:"error"`
}

type torrent struct {
	ID               indexer.FlexInt  `json:"id"`
	Name             string           `json:"name"`
	IMDb             string           `json:"imdb"`
	Freeleech        indexer.FlexBool `json:"freeleech"`
	DoubleUp         indexer.FlexBool `json:"doubleup"`
	Internal         indexer.FlexBool `json:"internal"`
	UploadDate       string           `json:"upload_date"`
	Category         string           `json:"category"`
	SmallDescription string           `json:"small_description"`
	Size             indexer.FlexInt  `json:"size"`
	Seeders          indexer.FlexInt  `json:"seeders"`
	Leechers         indexer.FlexInt  `json:"leechers"`
	TimesCompleted   indexer.FlexInt  `json:"times_completed"`
	Files            indexer.FlexInt  `json:"files"`
}

// Parse decodes the torrent list.
func (a *Adapter) Parse(resp *indexer.Response) (*indexer.ParseResult, error) {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.NewAuthError(resp.StatusCode, "username or passkey rejected")
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewTransportError(resp.StatusCode, fmt.Errorf("unexpected response status %d", resp.StatusCode))
	}

	body := strings.TrimSpace(string(resp.Body))
	if strings.HasPrefix(body, `{"error"`) {
		var e apiError
		if err := json.Unmarshal(resp.Body, &e); err == nil {
			return nil, classifyError(resp.StatusCode, e.Error)
		}
	}
	if err := indexer.CheckResponse(resp, indexer.ExpectJSON); err != nil {
		return nil, err
	}
	if ct := resp.ContentType(); !strings.Contains(ct, "application/json") {
		return nil, domain.NewParseError(fmt.Sprintf("unexpected content type %q", ct), nil)
	}

	var rows []torrent
	if err := json.Unmarshal(resp.Body, &rows); err != nil {
		return nil, domain.NewParseError("invalid torrent list", err)
	}

	freeleechOnly := a.def.Settings.Bool(SettingFreeleechOnly)
	releases := make([]domain.ReleaseInfo, 0, len(rows))
	for _, row := range rows {
		if freeleechOnly && !bool(row.Freeleech) {
			continue
		}
		releases = append(releases, a.release(row))
	}
	return &indexer.ParseResult{Releases: releases}, nil
}

func classifyError(status int, msg string) error {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "passkey") || strings.Contains(lower, "username") {
		return domain.NewAuthError(status, msg)
	}
	return domain.NewParseError("indexer error: "+msg, nil)
}

func (a *Adapter) release(row torrent) domain.ReleaseInfo {
	base := a.def.BaseURL()
	id := strconv.FormatInt(int64(row.ID), 10)

	rel := domain.NewRelease()
	rel.GUID = "FileList-" + id
	rel.Title = row.Name
	rel.Size = int64(row.Size)
	rel.Categories = a.caps.Categories.ToCanonicalByLabel(row.Category)
	rel.DownloadURL = base + "download.php?" + url.Values{
		"id":      {id},
		"passkey": {a.def.Settings.String(SettingPasskey)},
	}.Encode()
	rel.InfoURL = base + "details.php?id=" + id
	rel.Seeders = int(row.Seeders)
	rel.Peers = int(row.Leechers) + rel.Seeders
	rel.Description = row.SmallDescription
	rel.Files = int(row.Files)
	rel.Grabs = int(row.TimesCompleted)

	if t, err := time.ParseInLocation(uploadLayout, row.UploadDate, uploadZone); err == nil {
		rel.PublishDate = t.UTC()
	}
	for g := range strings.SplitSeq(row.SmallDescription, ",") {
		if g = strings.TrimSpace(g); g != "" {
			rel.Genres = append(rel.Genres, g)
		}
	}
	if len(row.IMDb) > 2 {
		if n, err := strconv.Atoi(strings.TrimLeft(row.IMDb, "t")); err == nil {
			rel.IMDbID = n
		}
	}
	if row.Internal {
		rel.IndexerFlags = append(rel.IndexerFlags, domain.FlagInternal)
	}
	if row.Freeleech {
		rel.Freeleech = true
		rel.DownloadVolumeFactor = 0
	}
	if row.DoubleUp {
		rel.UploadVolumeFactor = 2
		rel.IndexerFlags = append(rel.IndexerFlags, domain.FlagDoubleUp)
	}
	rel.MinimumRatio = 1
	rel.MinimumSeedTime = minimumSeedTime
	return rel
}

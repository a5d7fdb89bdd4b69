// Package myanonamouse implements the MyAnonamouse private book tracker.
package myanonamouse

import (
	"cmp"
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/indexer"
)

const (
	Implementation = "myanonamouse"
	DefaultBaseURL = "https://www.myanonamouse.net/"

	// FactUserClass is the cached account class used to resolve VIP freeleech.
	FactUserClass = "user_class"

	cookieName      = "mam_id"
	cookieLifetime  = 30 * 24 * time.Hour
	pageSize        = 100
	minimumSeedTime = 259200 // 72 hours
	addedLayout     = "2006-01-02 15:04:05"
	allCategories   = "0"
	nothingReturned = "nothing returned, out of"
)

// Settings keys.
const (
	SettingMamID               = "mam_id"
	SettingSearchType          = "search_type"
	SettingFreeleechWedges     = "freeleech"
	SettingSearchInDescription = "search_in_description"
	SettingSearchInSeries      = "search_in_series"
	SettingSearchInFilenames   = "search_in_filenames"
	SettingSearchLanguages     = "search_languages"
)

var (
	termPattern = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

	searchTypes = map[string]string{
		"all":    "all",
		"active": "active",
		"fl":     "fl",
		"fl-vip": "fl-VIP",
		"vip":    "VIP",
		"nvip":   "nVIP",
	}

	vipClasses = map[string]bool{"vip": true, "elite vip": true}
)

func init() {
	indexer.Register(Implementation, New)
}

// Adapter searches MyAnonamouse through its JSON search endpoint.
type Adapter struct {
	def  *domain.IndexerDefinition
	caps domain.Capabilities
}

// New builds the adapter. A mam_id session id is required.
func New(def *domain.IndexerDefinition) (indexer.Adapter, error) {
	if def.Settings.String(SettingMamID) == "" {
		return nil, fmt.Errorf("setting %q is required", SettingMamID)
	}
	if len(def.BaseURLs) == 0 {
		def.BaseURLs = []string{DefaultBaseURL}
	}
	return &Adapter{
		def: def,
		caps: domain.NewCapabilities(domain.Capabilities{
			SearchParams:          []domain.SearchParam{domain.ParamQ},
			BookSearchParams:      []domain.SearchParam{domain.ParamQ},
			SupportsPagination:    true,
			PageSize:              pageSize,
			SupportsSizeFilter:    true,
			AllCategoriesSentinel: allCategories,
		}, categories, 0),
	}, nil
}

func (a *Adapter) Capabilities() domain.Capabilities { return a.caps }

// Requests yields one page of results.
func (a *Adapter) Requests(q *indexer.Query) iter.Seq[*indexer.Request] {
	return func(yield func(*indexer.Request) bool) {
		term := strings.TrimSpace(termPattern.ReplaceAllString(q.Term, " "))
		if q.Criteria.HasTerm() && term == "" {
			return
		}

		settings := q.Settings()
		params := url.Values{}
		params.Set("tor[text]", term)
		params.Set("tor[searchType]", searchType(settings.String(SettingSearchType)))
		params.Set("tor[srchIn][title]", "true")
		params.Set("tor[srchIn][author]", "true")
		params.Set("tor[srchIn][narrator]", "true")
		params.Set("tor[searchIn]", "torrents")
		params.Set("tor[sortType]", "default")
		params.Set("tor[perpage]", strconv.Itoa(cmp.Or(q.Limit, pageSize)))
		params.Set("tor[startNumber]", strconv.Itoa(q.Offset))
		params.Set("thumbnails", "1")
		params.Set("description", "1")

		if settings.Bool(SettingSearchInDescription) {
			params.Set("tor[srchIn][description]", "true")
		}
		if settings.Bool(SettingSearchInSeries) {
			params.Set("tor[srchIn][series]", "true")
		}
		if settings.Bool(SettingSearchInFilenames) {
			params.Set("tor[srchIn][filenames]", "true")
		}
		for i, lang := range settings.Ints(SettingSearchLanguages) {
			params.Set(fmt.Sprintf("tor[browse_lang][%d]", i), strconv.Itoa(lang))
		}

		if len(q.Categories) == 0 || (len(q.Categories) == 1 && q.Categories[0] == allCategories) {
			params.Set("tor[cat][]", allCategories)
		} else {
			for i, c := range q.Categories {
				params.Set(fmt.Sprintf("tor[cat][%d]", i), c)
			}
		}

		if q.MinSize > 0 {
			params.Set("tor[minSize]", strconv.FormatInt(q.MinSize, 10))
		}
		if q.MaxSize > 0 {
			params.Set("tor[maxSize]", strconv.FormatInt(q.MaxSize, 10))
		}
		if q.MinSize > 0 || q.MaxSize > 0 {
			params.Set("tor[unit]", "1")
		}

		req := indexer.NewRequest(q, a.def.BaseURL()+"tor/js/loadSearchJSONbasic.php?"+params.Encode(), indexer.ExpectJSON)
		req.Cookies = a.cookies(q)
		yield(req)
	}
}

func (a *Adapter) cookies(q *indexer.Query) map[string]string {
	if q.Cookies[cookieName] != "" {
		return maps.Clone(q.Cookies)
	}
	return map[string]string{cookieName: a.def.Settings.String(SettingMamID)}
}

func searchType(s string) string {
	if v, ok := searchTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v
	}
	return "all"
}

// ProbeFacts implements indexer.Prober.
func (a *Adapter) ProbeFacts() []string {
	return []string{FactUserClass}
}

// ProbeRequest loads the account data holding the user class.
func (a *Adapter) ProbeRequest(q *indexer.Query) *indexer.Request {
	req := indexer.NewRequest(q, a.def.BaseURL()+"jsonLoad.php", indexer.ExpectJSON)
	req.Cookies = a.cookies(q)
	return req
}

// ParseProbe extracts the user class.
func (a *Adapter) ParseProbe(resp *indexer.Response) (map[string]string, error) {
	if err := indexer.CheckResponse(resp, indexer.ExpectJSON); err != nil {
		return nil, err
	}
	var user struct {
		Class string `json:"class"`
	}
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, domain.NewParseError("invalid user data", err)
	}
	return map[string]string{FactUserClass: strings.TrimSpace(user.Class)}, nil
}

type searchResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Data    []torrent `json:"data"`
}

type torrent struct {
	ID                indexer.FlexInt  `json:"id"`
	Title             string           `json:"title"`
	AuthorInfo        string           `json:"author_info"`
	Description       string           `json:"description"`
	LanguageCode      string           `json:"lang_code"`
	Filetype          string           `json:"filetype"`
	VIP               indexer.FlexBool `json:"vip"`
	Free              indexer.FlexBool `json:"free"`
	PersonalFreeleech indexer.FlexBool `json:"personal_freeleech"`
	FreeVIP           indexer.FlexBool `json:"fl_vip"`
	Category          indexer.FlexInt  `json:"category"`
	Added             string           `json:"added"`
	Grabs             indexer.FlexInt  `json:"times_completed"`
	Seeders           indexer.FlexInt  `json:"seeders"`
	Leechers          indexer.FlexInt  `json:"leechers"`
	NumFiles          indexer.FlexInt  `json:"numfiles"`
	Size              string           `json:"size"`
}

var invalidate = &indexer.SessionUpdate{Invalidate: true}

// Parse reads the search JSON and refreshes the session cookie.
func (a *Adapter) Parse(resp *indexer.Response) (*indexer.ParseResult, error) {
	if resp.StatusCode == http.StatusForbidden {
		return &indexer.ParseResult{Session: invalidate}, domain.NewAuthError(resp.StatusCode, "mam_id expired or invalid")
	}
	if resp.StatusCode != http.StatusOK {
		return &indexer.ParseResult{Session: invalidate},
			domain.NewTransportError(resp.StatusCode, fmt.Errorf("unexpected response status %d", resp.StatusCode))
	}
	if err := indexer.CheckResponse(resp, indexer.ExpectJSON); err != nil {
		return &indexer.ParseResult{Session: invalidate}, err
	}
	if ct := resp.ContentType(); !strings.Contains(ct, "application/json") {
		return &indexer.ParseResult{Session: invalidate},
			domain.NewParseError(fmt.Sprintf("unexpected content type %q", ct), nil)
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, domain.NewParseError("invalid search response", err)
	}
	if strings.HasPrefix(strings.ToLower(body.Error), nothingReturned) {
		return &indexer.ParseResult{Session: a.sessionUpdate(resp)}, nil
	}
	if body.Data == nil {
		msg := body.Message
		if msg == "" {
			msg = body.Error
		}
		return nil, domain.NewParseError(fmt.Sprintf("unexpected response content: %s", msg), nil)
	}

	hasVIP := false
	if q := resp.Query(); q != nil {
		hasVIP = vipClasses[strings.ToLower(q.Facts[FactUserClass])]
	}

	releases := make([]domain.ReleaseInfo, 0, len(body.Data))
	for _, item := range body.Data {
		rel, err := a.release(item, hasVIP)
		if err != nil {
			return nil, err
		}
		releases = append(releases, rel)
	}

	return &indexer.ParseResult{Releases: releases, Session: a.sessionUpdate(resp)}, nil
}

func (a *Adapter) release(item torrent, hasVIP bool) (domain.ReleaseInfo, error) {
	base := a.def.BaseURL()
	rel := domain.NewRelease()

	rel.Title = item.Title
	rel.BookTitle = item.Title
	rel.Description = item.Description

	if item.AuthorInfo != "" {
		author, err := authors(item.AuthorInfo)
		if err != nil {
			return rel, domain.NewParseError("invalid author_info", err)
		}
		if author != "" {
			rel.Title += " by " + author
			rel.Author = author
		}
	}

	var flags []string
	if item.LanguageCode != "" {
		flags = append(flags, item.LanguageCode)
	}
	if item.Filetype != "" {
		flags = append(flags, strings.ToUpper(item.Filetype))
	}
	if len(flags) > 0 {
		rel.Title += " [" + strings.Join(flags, " / ") + "]"
	}
	if item.VIP {
		rel.Title += " [VIP]"
		rel.IndexerFlags = append(rel.IndexerFlags, domain.FlagVIP)
	}

	free := bool(item.Free) || bool(item.PersonalFreeleech) || (hasVIP && bool(item.FreeVIP))
	id := strconv.FormatInt(int64(item.ID), 10)

	rel.DownloadURL = base + "tor/download.php?tid=" + id
	if a.def.Settings.Bool(SettingFreeleechWedges) && !free {
		rel.DownloadURL += "&canUseToken=true"
	}
	rel.InfoURL = base + "t/" + id
	rel.GUID = rel.InfoURL
	rel.Categories = a.caps.Categories.ToCanonical(strconv.FormatInt(int64(item.Category), 10))

	if t, err := time.ParseInLocation(addedLayout, item.Added, time.UTC); err == nil {
		rel.PublishDate = t
	}

	rel.Grabs = int(item.Grabs)
	rel.Files = int(item.NumFiles)
	rel.Seeders = int(item.Seeders)
	rel.Peers = int(item.Leechers) + rel.Seeders
	rel.Size, _ = indexer.ParseSize(item.Size)

	rel.Freeleech = free
	if free {
		rel.DownloadVolumeFactor = 0
	}
	rel.MinimumRatio = 1
	rel.MinimumSeedTime = minimumSeedTime
	return rel, nil
}

// authors joins up to five names from the author_info object, in site order.
func authors(info string) (string, error) {
	var names []string
	err := indexer.EachObjectField([]byte(info), func(_ string, raw json.RawMessage) error {
		if len(names) == 5 {
			return nil
		}
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	return strings.Join(names, ", "), err
}

func (a *Adapter) sessionUpdate(resp *indexer.Response) *indexer.SessionUpdate {
	if resp.Cookies[cookieName] == "" {
		return nil
	}
	cookies := map[string]string{}
	if req := resp.Request; req != nil {
		maps.Copy(cookies, req.Cookies)
	}
	maps.Copy(cookies, resp.Cookies)
	return &indexer.SessionUpdate{Cookies: cookies, Expiry: time.Now().Add(cookieLifetime)}
}

package indexer

import (
	"encoding/base64"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

// Query is a search prepared for one indexer by the pipeline.
// Adapters read it to build requests and, through Response.Request, to parse.
type Query struct {
	Definition *domain.IndexerDefinition
	Criteria   domain.SearchCriteria

	// Term is the sanitized free-text term. Empty for RSS listings.
	Term string

	// Categories holds native ids, never empty unless the sentinel is empty.
	Categories []string

	Paged  bool
	Offset int
	Limit  int

	// MinSize and MaxSize are zero when the indexer has no size filter.
	MinSize int64
	MaxSize int64

	Cookies map[string]string
	Facts   map[string]string

	params []domain.SearchParam
}

// IsRSS reports whether the query lists latest releases.
func (q *Query) IsRSS() bool {
	return q.Criteria.IsRSS()
}

// Supports reports whether the indexer accepts param for this query's kind.
func (q *Query) Supports(p domain.SearchParam) bool {
	return slices.Contains(q.params, p)
}

// Settings returns the indexer settings.
func (q *Query) Settings() domain.Settings {
	if q.Definition == nil {
		return nil
	}
	return q.Definition.Settings
}

// Request is one outbound HTTP exchange generated for a query.
type Request struct {
	Method  string
	URL     string
	Accept  string
	Headers http.Header
	Cookies map[string]string
	Query   *Query
}

// NewRequest builds a GET request carrying the query's cookies.
func NewRequest(q *Query, url, accept string) *Request {
	r := &Request{
		Method:  http.MethodGet,
		URL:     url,
		Accept:  accept,
		Headers: make(http.Header),
		Query:   q,
	}
	if q != nil && len(q.Cookies) > 0 {
		r.Cookies = maps.Clone(q.Cookies)
	}
	return r
}

// SetBasicAuth sets the Authorization header for HTTP basic authentication.
func (r *Request) SetBasicAuth(user, password string) {
	if r.Headers == nil {
		r.Headers = make(http.Header)
	}
	token := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
	r.Headers.Set("Authorization", "Basic "+token)
}

// Response is the raw reply handed to Adapter.Parse.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Cookies    map[string]string
	Elapsed    time.Duration
	Request    *Request
}

// ContentType returns the response media type header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Query returns the query that produced the response.
func (r *Response) Query() *Query {
	if r.Request == nil {
		return nil
	}
	return r.Request.Query
}

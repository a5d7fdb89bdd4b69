// Package indexer defines the adapter contract every site plugin implements
// and the site independent stages around it: request generation and
// response normalization.
package indexer

import (
	"iter"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

// Adapter is the capability set a site plugin provides.
//
// Requests must be lazy and free of I/O. Parse must be pure: it may read the
// query carried by the response but never talks to the network or to shared
// state. Session changes travel back through ParseResult.Session, which is
// applied even when Parse also returns an error.
type Adapter interface {
	Capabilities() domain.Capabilities
	Requests(q *Query) iter.Seq[*Request]
	Parse(resp *Response) (*ParseResult, error)
}

// Prober is implemented by adapters that derive identity facts (account class,
// VIP status) from a separate request. Facts are cached per indexer.
type Prober interface {
	// ProbeFacts lists the fact keys the adapter needs before searching.
	ProbeFacts() []string
	ProbeRequest(q *Query) *Request
	ParseProbe(resp *Response) (map[string]string, error)
}

// ParseResult is what an adapter extracted from one response.
type ParseResult struct {
	Releases []domain.ReleaseInfo

	// Session, when set, is applied to the session cache by the caller.
	Session *SessionUpdate
}

// SessionUpdate replaces or drops the indexer's cached cookies.
type SessionUpdate struct {
	Cookies    map[string]string
	Expiry     time.Time
	Invalidate bool
}

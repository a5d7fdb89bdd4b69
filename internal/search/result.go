package search

import (
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

// Outcome is the per-indexer verdict of one search.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeFailed      Outcome = "failed"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeUnsupported Outcome = "unsupported"
	OutcomeAborted     Outcome = "aborted"
)

// IndexerReport describes what happened with one targeted indexer.
type IndexerReport struct {
	IndexerID     string           `json:"indexerId"`
	Indexer       string           `json:"indexer"`
	Outcome       Outcome          `json:"outcome"`
	Count         int              `json:"count"`
	Dropped       int              `json:"dropped,omitempty"`
	Requests      int              `json:"requests"`
	Elapsed       time.Duration    `json:"elapsed"`
	ErrorKind     domain.ErrorKind `json:"errorKind,omitempty"`
	Error         string           `json:"error,omitempty"`
	DisabledUntil time.Time        `json:"disabledUntil,omitzero"`
}

// Result is the merged output of a search.
// Releases are concatenated in target order; duplicates across indexers are kept.
type Result struct {
	ID       string                `json:"id"`
	Criteria domain.SearchCriteria `json:"criteria"`
	Releases []domain.ReleaseInfo  `json:"releases"`
	Report   []IndexerReport       `json:"report"`
	Elapsed  time.Duration         `json:"elapsed"`
}

// Succeeded counts the indexers that answered.
func (r *Result) Succeeded() int {
	n := 0
	for _, rep := range r.Report {
		if rep.Outcome == OutcomeSuccess {
			n++
		}
	}
	return n
}

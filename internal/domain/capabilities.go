package domain

import (
	"slices"

	"github.com/MrSnakeDoc/sift/internal/category"
)

// Capabilities is what an adapter declares it can serve.
//
// A nil MappingErr means the category table was trusted. Otherwise the indexer
// is limited to free-text search without category filters.
type Capabilities struct {
	SearchParams      []SearchParam
	TVSearchParams    []SearchParam
	MovieSearchParams []SearchParam
	MusicSearchParams []SearchParam
	BookSearchParams  []SearchParam

	SupportsPagination bool
	PageSize           int
	LimitsMax          int

	SupportsSizeFilter bool

	// AllCategoriesSentinel is sent when no native category matches.
	// Empty means the protocol treats an absent category filter as "all".
	AllCategoriesSentinel string

	Categories *category.Map
	MappingErr error
}

// NewCapabilities attaches a category map built from entries to base.
// A malformed table marks the capabilities incomplete instead of failing.
func NewCapabilities(base Capabilities, entries []category.Entry, fallbackID int) Capabilities {
	m, err := category.NewMap(entries, fallbackID)
	base.Categories = m
	base.MappingErr = err
	return base
}

// Incomplete reports whether the category table failed validation.
func (c *Capabilities) Incomplete() bool {
	return c.MappingErr != nil
}

// Params returns the declared parameters of kind. A nil slice means unsupported.
func (c *Capabilities) Params(kind SearchKind) []SearchParam {
	switch kind {
	case KindSearch:
		return c.SearchParams
	case KindTVSearch:
		return c.TVSearchParams
	case KindMovieSearch:
		return c.MovieSearchParams
	case KindMusicSearch:
		return c.MusicSearchParams
	case KindBookSearch:
		return c.BookSearchParams
	}
	return nil
}

// Supports reports whether kind is available at all.
// A kind-incomplete indexer only serves the basic search.
func (c *Capabilities) Supports(kind SearchKind) bool {
	if c.Incomplete() && kind != KindSearch {
		return false
	}
	return len(c.Params(kind)) > 0
}

// SupportsParam reports whether kind accepts param.
func (c *Capabilities) SupportsParam(kind SearchKind, param SearchParam) bool {
	return slices.Contains(c.Params(kind), param)
}

// Kinds lists the supported search kinds.
func (c *Capabilities) Kinds() []SearchKind {
	var out []SearchKind
	for _, k := range []SearchKind{KindSearch, KindTVSearch, KindMovieSearch, KindMusicSearch, KindBookSearch} {
		if c.Supports(k) {
			out = append(out, k)
		}
	}
	return out
}

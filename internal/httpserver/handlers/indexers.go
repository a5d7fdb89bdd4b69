package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sift/internal/category"
	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/httpserver/deps"
)

type indexerView struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Implementation string               `json:"implementation"`
	Protocol       domain.Protocol      `json:"protocol"`
	Privacy        domain.Privacy       `json:"privacy"`
	Enable         bool                 `json:"enable"`
	Removed        bool                 `json:"removed,omitempty"`
	Priority       int                  `json:"priority"`
	Tags           []string             `json:"tags,omitempty"`
	Kinds          []domain.SearchKind  `json:"kinds"`
	MappingError   string               `json:"mappingError,omitempty"`
	Status         domain.IndexerStatus `json:"status"`
}

// Indexers lists every loaded indexer with its health.
func Indexers(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := d.MemoryIndex.All()
		out := make([]indexerView, 0, len(all))
		for _, ix := range all {
			def := ix.Definition
			v := indexerView{
				ID:             def.ID,
				Name:           def.Name,
				Implementation: def.Implementation,
				Protocol:       def.Protocol,
				Privacy:        def.Privacy,
				Enable:         def.Enable,
				Removed:        def.Disabled,
				Priority:       def.Priority,
				Tags:           def.Tags,
				Kinds:          ix.Capabilities.Kinds(),
				Status:         d.Status.Get(def.ID),
			}
			if ix.Capabilities.Incomplete() {
				v.MappingError = ix.Capabilities.MappingErr.Error()
			}
			out = append(out, v)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// IndexerStatuses returns the raw status records.
func IndexerStatuses(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Status.Snapshot())
	}
}

type capsView struct {
	Search      []domain.SearchParam `json:"search"`
	TVSearch    []domain.SearchParam `json:"tvSearch"`
	MovieSearch []domain.SearchParam `json:"movieSearch"`
	MusicSearch []domain.SearchParam `json:"musicSearch"`
	BookSearch  []domain.SearchParam `json:"bookSearch"`

	SupportsPagination bool `json:"supportsPagination"`
	PageSize           int  `json:"pageSize,omitempty"`
	LimitsMax          int  `json:"limitsMax,omitempty"`
	SupportsSizeFilter bool `json:"supportsSizeFilter"`

	Categories   []categoryView      `json:"categories"`
	Canonical    []category.Category `json:"canonical"`
	Fallback     category.Category   `json:"fallback"`
	MappingError string              `json:"mappingError,omitempty"`
}

type categoryView struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Canonical []int  `json:"canonical"`
}

// Caps describes what one indexer can serve.
func Caps(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ix, ok := d.MemoryIndex.Get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown indexer")
			return
		}

		c := ix.Capabilities
		v := capsView{
			Search:             c.SearchParams,
			TVSearch:           c.TVSearchParams,
			MovieSearch:        c.MovieSearchParams,
			MusicSearch:        c.MusicSearchParams,
			BookSearch:         c.BookSearchParams,
			SupportsPagination: c.SupportsPagination,
			PageSize:           c.PageSize,
			LimitsMax:          c.LimitsMax,
			SupportsSizeFilter: c.SupportsSizeFilter,
			Categories:         []categoryView{},
		}
		if c.Categories != nil {
			for _, e := range c.Categories.Entries() {
				v.Categories = append(v.Categories, categoryView{ID: e.NativeID, Name: e.Label, Canonical: e.Canonical})
			}
			v.Canonical = c.Categories.Canonical()
			v.Fallback = c.Categories.Fallback()
		}
		if c.Incomplete() {
			v.MappingError = c.MappingErr.Error()
		}
		writeJSON(w, http.StatusOK, v)
	}
}

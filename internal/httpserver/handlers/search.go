package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sift/internal/logger"
)

// Search runs an aggregated search across the usable indexers.
// Query parameters follow the newznab names (t, q, cat, season, ep, imdbid...).
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		criteria, err := ParseCriteria(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := d.Engine.Search(r.Context(), criteria, d.MemoryIndex.Targets())
		if errors.Is(err, domain.ErrNoIndexers) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		if err != nil {
			d.Logger.Error("search failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "search failed")
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

// ParseCriteria builds search criteria from query parameters.
func ParseCriteria(v url.Values) (domain.SearchCriteria, error) {
	kind, err := domain.ParseSearchKind(v.Get("t"))
	if err != nil {
		return domain.SearchCriteria{}, err
	}

	c := domain.SearchCriteria{
		Kind:       kind,
		Term:       strings.TrimSpace(v.Get("q")),
		Episode:    strings.TrimSpace(v.Get("ep")),
		IMDbID:     strings.TrimSpace(v.Get("imdbid")),
		Artist:     strings.TrimSpace(v.Get("artist")),
		Album:      strings.TrimSpace(v.Get("album")),
		Author:     strings.TrimSpace(v.Get("author")),
		Title:      strings.TrimSpace(v.Get("title")),
		IndexerIDs: splitList(v.Get("indexers")),
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"offset", &c.Offset},
		{"limit", &c.Limit},
		{"season", &c.Season},
		{"tmdbid", &c.TMDbID},
		{"tvdbid", &c.TVDbID},
	}
	for _, f := range ints {
		if *f.dst, err = intParam(v, f.key); err != nil {
			return domain.SearchCriteria{}, err
		}
	}

	if c.MinSize, err = int64Param(v, "minsize"); err != nil {
		return domain.SearchCriteria{}, err
	}
	if c.MaxSize, err = int64Param(v, "maxsize"); err != nil {
		return domain.SearchCriteria{}, err
	}

	for _, raw := range splitList(v.Get("cat")) {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return domain.SearchCriteria{}, fmt.Errorf("invalid category %q", raw)
		}
		c.Categories = append(c.Categories, id)
	}

	if err := c.Validate(); err != nil {
		return domain.SearchCriteria{}, err
	}
	return c, nil
}

func intParam(v url.Values, key string) (int, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}

func int64Param(v url.Values, key string) (int64, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

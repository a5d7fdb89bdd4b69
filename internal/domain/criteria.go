package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// SearchKind selects which capability set a search needs.
type SearchKind string

const (
	KindSearch      SearchKind = "search"
	KindTVSearch    SearchKind = "tv-search"
	KindMovieSearch SearchKind = "movie-search"
	KindMusicSearch SearchKind = "music-search"
	KindBookSearch  SearchKind = "book-search"
)

// ParseSearchKind accepts canonical names and the newznab "t=" aliases.
func ParseSearchKind(s string) (SearchKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "search", "basic":
		return KindSearch, nil
	case "tv-search", "tvsearch", "tv":
		return KindTVSearch, nil
	case "movie-search", "movie", "movies":
		return KindMovieSearch, nil
	case "music-search", "music", "audio":
		return KindMusicSearch, nil
	case "book-search", "book", "books":
		return KindBookSearch, nil
	}
	return "", fmt.Errorf("unknown search kind %q", s)
}

// SearchParam names one structured parameter an indexer understands.
type SearchParam string

const (
	ParamQ       SearchParam = "q"
	ParamSeason  SearchParam = "season"
	ParamEpisode SearchParam = "ep"
	ParamIMDbID  SearchParam = "imdbid"
	ParamTMDbID  SearchParam = "tmdbid"
	ParamTVDbID  SearchParam = "tvdbid"
	ParamArtist  SearchParam = "artist"
	ParamAlbum   SearchParam = "album"
	ParamAuthor  SearchParam = "author"
	ParamTitle   SearchParam = "title"
)

// SearchCriteria is the immutable input of one search call.
type SearchCriteria struct {
	Kind SearchKind `json:"kind"`
	Term string     `json:"term,omitempty"`

	// Categories holds canonical category ids.
	Categories []int `json:"categories,omitempty"`

	Offset  int   `json:"offset,omitempty"`
	Limit   int   `json:"limit,omitempty"`
	MinSize int64 `json:"minSize,omitempty"`
	MaxSize int64 `json:"maxSize,omitempty"`

	Season  int    `json:"season,omitempty"`
	Episode string `json:"episode,omitempty"`
	IMDbID  string `json:"imdbId,omitempty"`
	TMDbID  int    `json:"tmdbId,omitempty"`
	TVDbID  int    `json:"tvdbId,omitempty"`
	Artist  string `json:"artist,omitempty"`
	Album   string `json:"album,omitempty"`
	Author  string `json:"author,omitempty"`
	Title   string `json:"title,omitempty"`

	// IndexerIDs restricts the search to these indexers when non-empty.
	IndexerIDs []string `json:"indexerIds,omitempty"`
}

// Validate rejects criteria no indexer could serve.
func (c SearchCriteria) Validate() error {
	if _, err := ParseSearchKind(string(c.Kind)); err != nil {
		return err
	}
	if c.Offset < 0 || c.Limit < 0 {
		return fmt.Errorf("offset and limit must be non-negative")
	}
	if c.MinSize < 0 || c.MaxSize < 0 || (c.MaxSize > 0 && c.MinSize > c.MaxSize) {
		return fmt.Errorf("invalid size bounds %d..%d", c.MinSize, c.MaxSize)
	}
	if c.Season < 0 {
		return fmt.Errorf("season must be non-negative")
	}
	return nil
}

// HasTerm reports whether the caller supplied a free-text term.
func (c SearchCriteria) HasTerm() bool {
	return strings.TrimSpace(c.Term) != ""
}

// IsRSS reports whether the search is a plain "latest releases" listing.
func (c SearchCriteria) IsRSS() bool {
	return !c.HasTerm() && len(c.UsedParams()) == 0
}

// UsedParams lists the structured parameters set on the criteria.
func (c SearchCriteria) UsedParams() []SearchParam {
	var used []SearchParam
	add := func(set bool, p SearchParam) {
		if set {
			used = append(used, p)
		}
	}
	add(c.Season > 0, ParamSeason)
	add(c.Episode != "", ParamEpisode)
	add(c.IMDbID != "", ParamIMDbID)
	add(c.TMDbID > 0, ParamTMDbID)
	add(c.TVDbID > 0, ParamTVDbID)
	add(c.Artist != "", ParamArtist)
	add(c.Album != "", ParamAlbum)
	add(c.Author != "", ParamAuthor)
	add(c.Title != "", ParamTitle)
	return used
}

var (
	bracketPrefix = regexp.MustCompile(`^(?:\s*\[[^\[\]]*\])+`)
	spaceRun      = regexp.MustCompile(`\s+`)
)

// SanitizedTerm returns the term stripped of bracketed prefixes and of
// punctuation indexers reject, with whitespace collapsed.
func (c SearchCriteria) SanitizedTerm() string {
	return SanitizeTerm(c.Term)
}

// SanitizeTerm is the free-text sanitizer used by the request pipeline.
func SanitizeTerm(term string) string {
	term = bracketPrefix.ReplaceAllString(term, " ")
	term = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		switch r {
		case '-', '.', '_', '(', ')', '@', '/', '\'', '+', '%', ':', '&':
			return r
		}
		return ' '
	}, term)
	return strings.TrimSpace(spaceRun.ReplaceAllString(term, " "))
}

// NormalizedIMDbID strips the "tt" prefix.
func (c SearchCriteria) NormalizedIMDbID() string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.IMDbID)), "tt")
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sift/internal/category"
)

func TestSanitizeTerm(t *testing.T) {
	tests := []struct {
		name string
		term string
		want string
	}{
		{"plain", "Frieren", "Frieren"},
		{"bracket prefix", "[SubsPlease] Frieren - 05", "Frieren - 05"},
		{"stacked prefixes", "[Group][1080p] Show", "Show"},
		{"inner brackets replaced", "Show [v2]", "Show v2"},
		{"punctuation", "What?! A *title*", "What A title"},
		{"whitespace collapsed", "  a \t  b  ", "a b"},
		{"only punctuation", "[SubsPlease] !!!", ""},
		{"allowed symbols kept", "Tom & Jerry: 50% (2021)", "Tom & Jerry: 50% (2021)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTerm(tt.term); got != tt.want {
				t.Errorf("SanitizeTerm(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}

func TestSearchCriteria_IsRSS(t *testing.T) {
	tests := []struct {
		name string
		c    SearchCriteria
		want bool
	}{
		{"empty", SearchCriteria{Kind: KindSearch}, true},
		{"blank term", SearchCriteria{Kind: KindSearch, Term: "   "}, true},
		{"term", SearchCriteria{Kind: KindSearch, Term: "x"}, false},
		{"imdb only", SearchCriteria{Kind: KindMovieSearch, IMDbID: "tt0111161"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsRSS(); got != tt.want {
				t.Errorf("IsRSS() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchCriteria_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       SearchCriteria
		wantErr bool
	}{
		{"ok", SearchCriteria{Kind: KindTVSearch, Season: 2}, false},
		{"bad kind", SearchCriteria{Kind: "nope"}, true},
		{"negative offset", SearchCriteria{Kind: KindSearch, Offset: -1}, true},
		{"inverted sizes", SearchCriteria{Kind: KindSearch, MinSize: 10, MaxSize: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseSearchKind(t *testing.T) {
	for in, want := range map[string]SearchKind{
		"":         KindSearch,
		"tvsearch": KindTVSearch,
		"movie":    KindMovieSearch,
		"music":    KindMusicSearch,
		"book":     KindBookSearch,
	} {
		got, err := ParseSearchKind(in)
		if err != nil || got != want {
			t.Errorf("ParseSearchKind(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseSearchKind("caps"); err == nil {
		t.Errorf("ParseSearchKind(caps) expected error")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ErrKindNone},
		{"auth", NewAuthError(403, "expired"), ErrKindAuth},
		{"wrapped parse", fmt.Errorf("page 2: %w", NewParseError("bad json", nil)), ErrKindParse},
		{"mismatch", ErrCapabilityMismatch, ErrKindCapabilityMismatch},
		{"canceled", context.Canceled, ErrKindAborted},
		{"deadline", fmt.Errorf("rate gate x: %w", context.DeadlineExceeded), ErrKindAborted},
		{"indexer timeout", NewTransportError(0, context.DeadlineExceeded), ErrKindTransport},
		{"unknown", errors.New("boom"), ErrKindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndexerError_Error(t *testing.T) {
	err := &IndexerError{Kind: ErrKindTransport, IndexerID: "mam", StatusCode: 502, Err: errors.New("bad gateway")}
	want := "transport error on mam: bad gateway (http 502)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCapabilities_Supports(t *testing.T) {
	caps := NewCapabilities(Capabilities{
		SearchParams:   []SearchParam{ParamQ},
		TVSearchParams: []SearchParam{ParamQ, ParamSeason, ParamEpisode},
	}, []category.Entry{{NativeID: "1", Canonical: []int{category.TVAnime}}}, 0)

	if !caps.Supports(KindTVSearch) || caps.Supports(KindBookSearch) {
		t.Errorf("Supports() mismatch, kinds = %v", caps.Kinds())
	}

	broken := NewCapabilities(caps, []category.Entry{{NativeID: ""}}, 0)
	if !broken.Incomplete() {
		t.Fatalf("Incomplete() = false, want true for malformed table")
	}
	if got := broken.Kinds(); !slices.Equal(got, []SearchKind{KindSearch}) {
		t.Errorf("Kinds() = %v, want only basic search", got)
	}
}

func TestSettings(t *testing.T) {
	s := Settings{"flag": "true", "n": "12", "list": "1, 2,x,3", "bad": "nope"}

	if !s.Bool("flag") || s.Bool("bad") || s.Bool("missing") {
		t.Errorf("Bool() unexpected results")
	}
	if s.Int("n", 0) != 12 || s.Int("bad", 7) != 7 {
		t.Errorf("Int() unexpected results")
	}
	if got := s.Ints("list"); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("Ints() = %v, want [1 2 3]", got)
	}
}

func TestSessionEntry_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := SessionEntry{Expiry: now}
	if !e.Expired(now) || e.Expired(now.Add(-time.Second)) {
		t.Errorf("Expired() boundary is wrong")
	}
}

package domain

import (
	"time"

	"github.com/MrSnakeDoc/sift/internal/category"
)

// ReleaseInfo is the canonical, normalized search result.
//
// Invariants once normalized: Size >= 0, both volume factors >= 0 and GUID is
// unique within one indexer's result set.
type ReleaseInfo struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	GUID  string `json:"guid"`
	Title string `json:"title"`

	IndexerID string   `json:"indexerId"`
	Indexer   string   `json:"indexer"`
	Protocol  Protocol `json:"protocol"`

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	Categories    []category.Category `json:"categories"`
	Size          int64               `json:"size"`
	SizeEstimated bool                `json:"sizeEstimated,omitempty"`
	PublishDate   time.Time           `json:"publishDate"`
	Files         int                 `json:"files,omitempty"`
	Grabs         int                 `json:"grabs,omitempty"`
	Description   string              `json:"description,omitempty"`
	Genres        []string            `json:"genres,omitempty"`
	Author        string              `json:"author,omitempty"`
	BookTitle     string              `json:"bookTitle,omitempty"`
	IMDbID        int                 `json:"imdbId,omitempty"`
	IndexerFlags  []string            `json:"indexerFlags,omitempty"`

	// ─────────────────────────────
	// Links
	// ─────────────────────────────

	DownloadURL string `json:"downloadUrl,omitempty"`
	InfoURL     string `json:"infoUrl,omitempty"`
	MagnetURL   string `json:"magnetUrl,omitempty"`
	InfoHash    string `json:"infoHash,omitempty"`

	// ─────────────────────────────
	// Swarm
	// ─────────────────────────────

	Seeders int `json:"seeders"`
	Peers   int `json:"peers"`

	// ─────────────────────────────
	// Economics
	// ─────────────────────────────

	// Freeleech forces DownloadVolumeFactor to 0 during normalization.
	Freeleech bool `json:"freeleech,omitempty"`

	DownloadVolumeFactor float64 `json:"downloadVolumeFactor"`
	UploadVolumeFactor   float64 `json:"uploadVolumeFactor"`

	MinimumRatio float64 `json:"minimumRatio,omitempty"`

	// MinimumSeedTime is expressed in seconds.
	MinimumSeedTime int64 `json:"minimumSeedTime,omitempty"`
}

// Flag names carried in IndexerFlags.
const (
	FlagFreeleech = "freeleech"
	FlagInternal  = "internal"
	FlagDoubleUp  = "doubleupload"
	FlagVIP       = "vip"
)

// NewRelease returns a release with neutral volume factors.
func NewRelease() ReleaseInfo {
	return ReleaseInfo{
		DownloadVolumeFactor: 1,
		UploadVolumeFactor:   1,
	}
}

// HasFlag reports whether flag is set on the release.
func (r *ReleaseInfo) HasFlag(flag string) bool {
	for _, f := range r.IndexerFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// Link returns the preferred link for grabbing the release.
func (r *ReleaseInfo) Link() string {
	if r.DownloadURL != "" {
		return r.DownloadURL
	}
	return r.MagnetURL
}

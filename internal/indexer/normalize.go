package indexer

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/sift/internal/category"
	"github.com/MrSnakeDoc/sift/internal/domain"
)

// Normalized is the outcome of normalizing one parsed response.
type Normalized struct {
	Releases []domain.ReleaseInfo

	// Dropped counts releases rejected as invalid or duplicate.
	Dropped int
}

// Normalize validates and coerces adapter output into canonical releases.
//
// Invalid releases are dropped. A parse error is returned only when the
// response contained releases and none of them survived validation.
func Normalize(def *domain.IndexerDefinition, caps domain.Capabilities, releases []domain.ReleaseInfo) (Normalized, error) {
	out := Normalized{Releases: make([]domain.ReleaseInfo, 0, len(releases))}
	seen := make(map[string]struct{}, len(releases))

	var fallback category.Category
	if caps.Categories != nil {
		fallback = caps.Categories.Fallback()
	} else {
		fallback, _ = category.Lookup(category.DefaultFallbackID)
	}

	var firstErr error
	for i := range releases {
		r := releases[i]
		if err := coerce(&r, fallback); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			out.Dropped++
			continue
		}
		if _, dup := seen[r.GUID]; dup {
			out.Dropped++
			continue
		}
		seen[r.GUID] = struct{}{}

		if def != nil {
			r.IndexerID = def.ID
			r.Indexer = def.Name
			if r.Protocol == "" {
				r.Protocol = def.Protocol
			}
		}
		out.Releases = append(out.Releases, r)
	}

	if len(releases) > 0 && len(out.Releases) == 0 && firstErr != nil {
		return out, domain.NewParseError("no valid release in response", firstErr)
	}
	return out, nil
}

func coerce(r *domain.ReleaseInfo, fallback category.Category) error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("release without title")
	}
	if r.Link() == "" {
		return fmt.Errorf("release %q has no download link", r.Title)
	}
	if r.GUID == "" {
		r.GUID = r.Link()
	}
	if r.DownloadVolumeFactor < 0 || r.UploadVolumeFactor < 0 {
		return fmt.Errorf("release %q has negative volume factor", r.Title)
	}

	if r.Freeleech || r.HasFlag(domain.FlagFreeleech) {
		r.Freeleech = true
		r.DownloadVolumeFactor = 0
	} else if r.DownloadVolumeFactor == 0 {
		r.Freeleech = true
	}

	if r.Size < 0 {
		r.Size = 0
	}
	if r.Size == 0 {
		r.Size = EstimateSize(r.Title)
		r.SizeEstimated = true
	}

	r.Seeders = max(r.Seeders, 0)
	r.Peers = max(r.Peers, r.Seeders)
	r.Grabs = max(r.Grabs, 0)
	r.MinimumRatio = max(r.MinimumRatio, 0)
	r.MinimumSeedTime = max(r.MinimumSeedTime, 0)

	if len(r.Categories) == 0 {
		r.Categories = []category.Category{fallback}
	}
	return nil
}

package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/sift/internal/category"
	"github.com/MrSnakeDoc/sift/internal/domain"
)

func release(guid, title string) domain.ReleaseInfo {
	r := domain.NewRelease()
	r.GUID = guid
	r.Title = title
	r.DownloadURL = "https://example.test/" + guid
	r.Size = 100
	return r
}

func TestNormalize_Freeleech(t *testing.T) {
	r := release("a", "A")
	r.Freeleech = true

	out, err := Normalize(testDef, animeCaps(), []domain.ReleaseInfo{r})
	require.NoError(t, err)
	require.Len(t, out.Releases, 1)
	assert.Zero(t, out.Releases[0].DownloadVolumeFactor)
	assert.Equal(t, 1.0, out.Releases[0].UploadVolumeFactor)
	assert.Equal(t, "anime", out.Releases[0].IndexerID)
	assert.Equal(t, domain.ProtocolTorrent, out.Releases[0].Protocol)
}

func TestNormalize_DropsInvalidAndDuplicates(t *testing.T) {
	noLink := release("b", "B")
	noLink.DownloadURL = ""
	negative := release("c", "C")
	negative.UploadVolumeFactor = -1

	out, err := Normalize(testDef, animeCaps(), []domain.ReleaseInfo{
		release("a", "A"), release("a", "A again"), noLink, negative,
	})
	require.NoError(t, err)
	assert.Len(t, out.Releases, 1)
	assert.Equal(t, 3, out.Dropped)
}

func TestNormalize_AllInvalidIsParseError(t *testing.T) {
	r := release("a", "")
	_, err := Normalize(testDef, animeCaps(), []domain.ReleaseInfo{r})
	assert.Equal(t, domain.ErrKindParse, domain.KindOf(err))

	out, err := Normalize(testDef, animeCaps(), nil)
	assert.NoError(t, err)
	assert.Empty(t, out.Releases)
}

func TestNormalize_Coercions(t *testing.T) {
	r := release("", "Show - 01 (720p)")
	r.Size = -5
	r.Seeders = 10
	r.Peers = 3

	out, err := Normalize(testDef, animeCaps(), []domain.ReleaseInfo{r})
	require.NoError(t, err)
	got := out.Releases[0]
	assert.Equal(t, r.DownloadURL, got.GUID)
	assert.Equal(t, 700*mib, got.Size)
	assert.True(t, got.SizeEstimated)
	assert.Equal(t, 10, got.Peers)
	assert.Equal(t, []category.Category{{ID: category.Other, Name: "Other"}}, got.Categories)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1.5 GiB", 3 * gib / 2, true},
		{"700 MB", 700 * mib, true},
		{"1,024 KiB", mib, true},
		{"12345", 12345, true},
		{"2 TB", 2 * tib, true},
		{"huge", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSize(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateSize(t *testing.T) {
	assert.Equal(t, 13*gib/10, EstimateSize("[SubsPlease] Show - 01 (1080p)"))
	assert.Equal(t, 350*mib, EstimateSize("Show 480p"))
	assert.Equal(t, gib, EstimateSize("Show"))
}

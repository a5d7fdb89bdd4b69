package definitions

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/MrSnakeDoc/sift/internal/category"
	"github.com/MrSnakeDoc/sift/internal/domain"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Mapper converts definition documents to domain definitions
type Mapper struct {
	now func() time.Time
}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// MapDefinitions converts a File to definitions.
//
// Invalid entries are skipped and reported in the returned error; the valid
// ones are still returned. A file without any valid entry is an error with a
// nil result.
func (m *Mapper) MapDefinitions(f *File) ([]*domain.IndexerDefinition, error) {
	if f == nil || len(f.Indexers) == 0 {
		return nil, errors.New("no indexers defined")
	}

	now := m.now()
	seen := make(map[string]bool, len(f.Indexers))
	defs := make([]*domain.IndexerDefinition, 0, len(f.Indexers))
	var errs []error

	for i, doc := range f.Indexers {
		def, err := m.mapOne(doc, f.Defaults, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("indexer #%d (%s): %w", i, doc.ID, err))
			continue
		}
		if seen[def.ID] {
			errs = append(errs, fmt.Errorf("indexer #%d: duplicate id %q", i, def.ID))
			continue
		}
		seen[def.ID] = true
		defs = append(defs, def)
	}

	if len(defs) == 0 {
		return nil, fmt.Errorf("no valid indexers: %w", errors.Join(errs...))
	}
	return defs, errors.Join(errs...)
}

func (m *Mapper) mapOne(doc IndexerDoc, defaults Defaults, now time.Time) (*domain.IndexerDefinition, error) {
	id := strings.ToLower(strings.TrimSpace(doc.ID))
	if !idPattern.MatchString(id) {
		return nil, fmt.Errorf("invalid id %q", doc.ID)
	}
	impl := strings.ToLower(strings.TrimSpace(doc.Implementation))
	if impl == "" {
		return nil, errors.New("implementation is required")
	}

	for _, raw := range doc.BaseURLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("invalid base url %q", raw)
		}
	}

	protocol, err := parseProtocol(doc.Protocol)
	if err != nil {
		return nil, err
	}
	if protocol == "" {
		protocol = domain.ProtocolTorrent
		if impl == "newznab" {
			protocol = domain.ProtocolUsenet
		}
	}
	privacy, err := parsePrivacy(doc.Privacy)
	if err != nil {
		return nil, err
	}

	def := &domain.IndexerDefinition{
		ID:                 id,
		Name:               doc.Name,
		Implementation:     impl,
		BaseURLs:           doc.BaseURLs,
		Protocol:           protocol,
		Privacy:            privacy,
		Enable:             doc.Enable == nil || *doc.Enable,
		Priority:           defaults.Priority,
		AppProfileID:       doc.AppProfileID,
		Tags:               doc.Tags,
		Settings:           domain.Settings(doc.Settings),
		MinRequestInterval: defaults.MinRequestInterval,
		UpdatedAt:          now,
	}
	if def.Name == "" {
		def.Name = id
	}
	if doc.Priority != nil {
		def.Priority = *doc.Priority
	}
	if doc.MinRequestInterval > 0 {
		def.MinRequestInterval = doc.MinRequestInterval
	}
	if def.Settings == nil {
		def.Settings = domain.Settings{}
	}
	if doc.Capabilities != nil {
		def.Capabilities = mapCapabilities(doc.Capabilities)
	}
	return def, nil
}

func mapCapabilities(doc *CapabilitiesDoc) *domain.CapabilitiesSpec {
	spec := &domain.CapabilitiesSpec{
		Search:        params(doc.Search),
		TVSearch:      params(doc.TVSearch),
		MovieSearch:   params(doc.MovieSearch),
		MusicSearch:   params(doc.MusicSearch),
		BookSearch:    params(doc.BookSearch),
		LimitsDefault: doc.Limits.Default,
		LimitsMax:     doc.Limits.Max,
	}
	for _, c := range doc.Categories {
		spec.Categories = append(spec.Categories, category.Entry{
			NativeID:  c.ID,
			Label:     c.Name,
			Canonical: c.Mapped,
		})
	}
	return spec
}

func params(raw []string) []domain.SearchParam {
	if len(raw) == 0 {
		return nil
	}
	out := make([]domain.SearchParam, 0, len(raw))
	for _, p := range raw {
		out = append(out, domain.SearchParam(strings.ToLower(strings.TrimSpace(p))))
	}
	return out
}

func parseProtocol(s string) (domain.Protocol, error) {
	switch p := domain.Protocol(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return "", nil
	case domain.ProtocolTorrent, domain.ProtocolUsenet:
		return p, nil
	}
	return "", fmt.Errorf("unknown protocol %q", s)
}

func parsePrivacy(s string) (domain.Privacy, error) {
	switch p := domain.Privacy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return domain.PrivacyPrivate, nil
	case domain.PrivacyPublic, domain.PrivacySemiPrivate, domain.PrivacyPrivate:
		return p, nil
	}
	return "", fmt.Errorf("unknown privacy %q", s)
}

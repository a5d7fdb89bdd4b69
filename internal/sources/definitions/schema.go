package definitions

import "time"

// File is the root structure of indexers.yaml
type File struct {
	Defaults Defaults     `yaml:"defaults"`
	Indexers []IndexerDoc `yaml:"indexers"`
}

// Defaults apply to every indexer that does not override them
type Defaults struct {
	MinRequestInterval time.Duration `yaml:"min_request_interval"`
	Priority           int           `yaml:"priority"`
}

// IndexerDoc is one indexer entry as written in the file
type IndexerDoc struct {
	ID                 string            `yaml:"id"`
	Name               string            `yaml:"name"`
	Implementation     string            `yaml:"implementation"`
	BaseURLs           []string          `yaml:"base_urls"`
	Protocol           string            `yaml:"protocol,omitempty"`
	Privacy            string            `yaml:"privacy,omitempty"`
	Enable             *bool             `yaml:"enable,omitempty"`
	Priority           *int              `yaml:"priority,omitempty"`
	AppProfileID       int               `yaml:"app_profile_id,omitempty"`
	Tags               []string          `yaml:"tags,omitempty"`
	MinRequestInterval time.Duration     `yaml:"min_request_interval,omitempty"`
	Settings           map[string]string `yaml:"settings,omitempty"`
	Capabilities       *CapabilitiesDoc  `yaml:"capabilities,omitempty"`
}

// CapabilitiesDoc declares what a generic endpoint supports
type CapabilitiesDoc struct {
	Search      []string      `yaml:"search"`
	TVSearch    []string      `yaml:"tv_search"`
	MovieSearch []string      `yaml:"movie_search"`
	MusicSearch []string      `yaml:"music_search"`
	BookSearch  []string      `yaml:"book_search"`
	Categories  []CategoryDoc `yaml:"categories"`
	Limits      LimitsDoc     `yaml:"limits"`
}

// CategoryDoc maps one native category to canonical ids
type CategoryDoc struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Mapped []int  `yaml:"mapped"`
}

// LimitsDoc holds paging limits
type LimitsDoc struct {
	Default int `yaml:"default"`
	Max     int `yaml:"max"`
}

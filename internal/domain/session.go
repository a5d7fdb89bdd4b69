package domain

import (
	"maps"
	"time"
)

// SessionEntry is an indexer's cached cookie set.
type SessionEntry struct {
	IndexerID string            `json:"indexerId"`
	Cookies   map[string]string `json:"cookies"`
	Expiry    time.Time         `json:"expiry"`
	StoredAt  time.Time         `json:"storedAt"`
}

// Expired reports whether the entry is past its absolute expiry at now.
func (e *SessionEntry) Expired(now time.Time) bool {
	return !now.Before(e.Expiry)
}

// Clone returns a deep copy.
func (e SessionEntry) Clone() SessionEntry {
	e.Cookies = maps.Clone(e.Cookies)
	return e
}

package redis

import (
	"fmt"
	"strings"
)

const (
	// KeyPrefixStatus is the prefix for indexer status keys
	KeyPrefixStatus = "sift:status:"
	// KeyAllStatuses is the key for the set of indexer ids with a status
	KeyAllStatuses = "sift:statuses:all"
	// KeyPrefixSession is the prefix for session keys
	KeyPrefixSession = "sift:session:"
	// KeyAllSessions is the key for the set of indexer ids with a session
	KeyAllSessions = "sift:sessions:all"
)

// StatusKey returns the Redis key for an indexer status
func StatusKey(id string) string {
	return KeyPrefixStatus + id
}

// SessionKey returns the Redis key for an indexer session
func SessionKey(id string) string {
	return KeyPrefixSession + id
}

// ExtractIndexerID extracts the indexer ID from a status or session key
func ExtractIndexerID(key string) (string, error) {
	for _, prefix := range []string{KeyPrefixStatus, KeyPrefixSession} {
		if id, ok := strings.CutPrefix(key, prefix); ok && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("invalid indexer key: %s", key)
}

package definitions

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of indexers.yaml
type Loader struct {
	filePath string
}

// NewLoader creates a new definition loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the definition file. ${VAR} references are expanded
// from the environment so secrets can stay out of the file.
func (l *Loader) Load() (*File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read indexers file: %w", err)
	}
	return Parse(data)
}

// Checksum returns a digest of the raw file, used to skip no-op reloads.
func (l *Loader) Checksum() (string, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read indexers file: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Parse decodes a definition document. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse indexers yaml: %w", err)
	}
	return &f, nil
}

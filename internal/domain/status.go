package domain

import "time"

// HealthState is the externally visible health of an indexer.
type HealthState string

const (
	StateHealthy  HealthState = "healthy"
	StateDegraded HealthState = "degraded"
	StateDisabled HealthState = "disabled"
)

// Severity orders states so the worse of two can be picked.
func (s HealthState) Severity() int {
	switch s {
	case StateDegraded:
		return 1
	case StateDisabled:
		return 2
	}
	return 0
}

// IndexerStatus is a point-in-time copy of one indexer's health record.
// The status manager is its only writer.
type IndexerStatus struct {
	IndexerID string      `json:"indexerId"`
	State     HealthState `json:"state"`

	// FailureCount counts consecutive transport and parse failures.
	FailureCount int `json:"failureCount"`

	// AuthFailureCount counts consecutive credential rejections.
	AuthFailureCount int `json:"authFailureCount"`

	LastFailureKind ErrorKind `json:"lastFailureKind,omitempty"`
	LastFailure     time.Time `json:"lastFailure,omitzero"`
	LastSuccess     time.Time `json:"lastSuccess,omitzero"`

	// DisabledUntil is meaningful while State is disabled.
	DisabledUntil time.Time `json:"disabledUntil,omitzero"`

	// OutageUntil and AuthUntil are the backoff deadlines of each failure
	// curve. DisabledUntil is the later of the two.
	OutageUntil time.Time `json:"outageUntil,omitzero"`
	AuthUntil   time.Time `json:"authUntil,omitzero"`

	// Latency of the last successful query.
	Latency time.Duration `json:"latency,omitempty"`
}

// Failing reports whether any consecutive failure is on record.
func (s *IndexerStatus) Failing() bool {
	return s.FailureCount > 0 || s.AuthFailureCount > 0
}

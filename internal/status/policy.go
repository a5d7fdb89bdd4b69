package status

import (
	"math"
	"time"
)

// Policy shapes one failure curve of the health state machine.
type Policy struct {
	// Base is the backoff after the first failure. It doubles per failure.
	Base time.Duration
	// Max caps the backoff.
	Max time.Duration
	// DegradedAfter is the failure count that flags an indexer degraded.
	DegradedAfter int
	// DisabledAfter is the failure count that excludes an indexer until its backoff elapses.
	DisabledAfter int
}

var (
	// DefaultOutagePolicy applies to transport and parse failures.
	DefaultOutagePolicy = Policy{
		Base:          time.Minute,
		Max:           6 * time.Hour,
		DegradedAfter: 2,
		DisabledAfter: 5,
	}

	// DefaultAuthPolicy applies to rejected credentials. A stale cookie is
	// usually fixed by the next login so the curve is shorter and flatter.
	DefaultAuthPolicy = Policy{
		Base:          30 * time.Second,
		Max:           30 * time.Minute,
		DegradedAfter: 2,
		DisabledAfter: 8,
	}
)

// Delay returns the backoff for n consecutive failures.
// It is zero for n <= 0 and never decreases as n grows.
func (p Policy) Delay(n int) time.Duration {
	if n <= 0 || p.Base <= 0 {
		return 0
	}
	d := p.Base
	for i := 1; i < n && (p.Max <= 0 || d < p.Max) && d < math.MaxInt64/2; i++ {
		d *= 2
	}
	if p.Max > 0 && d > p.Max {
		d = p.Max
	}
	return d
}

func (p Policy) withDefaults(def Policy) Policy {
	if p.Base <= 0 {
		p.Base = def.Base
	}
	if p.Max <= 0 {
		p.Max = def.Max
	}
	if p.DegradedAfter <= 0 {
		p.DegradedAfter = def.DegradedAfter
	}
	if p.DisabledAfter <= 0 {
		p.DisabledAfter = def.DisabledAfter
	}
	if p.DisabledAfter < p.DegradedAfter {
		p.DisabledAfter = p.DegradedAfter
	}
	return p
}

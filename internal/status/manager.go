// Package status tracks indexer health and decides which indexers a search
// may query. The Manager is the only writer of status records.
package status

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

// Manager holds one record per indexer, each with its own lock.
type Manager struct {
	mu      sync.RWMutex
	records map[string]*record

	outage Policy
	auth   Policy
	now    func() time.Time

	onChange func(domain.IndexerStatus)
}

type record struct {
	mu sync.Mutex
	st domain.IndexerStatus

	outageUntil time.Time
	authUntil   time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithPolicies overrides the outage and auth curves. Zero fields keep defaults.
func WithPolicies(outage, auth Policy) Option {
	return func(m *Manager) {
		m.outage = outage.withDefaults(DefaultOutagePolicy)
		m.auth = auth.withDefaults(DefaultAuthPolicy)
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// OnChange registers a hook called with every new snapshot after a write.
// It runs outside the record lock.
func OnChange(fn func(domain.IndexerStatus)) Option {
	return func(m *Manager) { m.onChange = fn }
}

// NewManager creates an empty manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		records: make(map[string]*record),
		outage:  DefaultOutagePolicy,
		auth:    DefaultAuthPolicy,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) record(id string) *record {
	m.mu.RLock()
	r, ok := m.records[id]
	m.mu.RUnlock()
	if ok {
		return r
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok = m.records[id]; !ok {
		r = &record{st: domain.IndexerStatus{IndexerID: id, State: domain.StateHealthy}}
		m.records[id] = r
	}
	return r
}

// RecordSuccess returns the indexer to healthy immediately.
func (m *Manager) RecordSuccess(id string, latency time.Duration) domain.IndexerStatus {
	r := m.record(id)
	r.mu.Lock()
	r.st.FailureCount = 0
	r.st.AuthFailureCount = 0
	r.st.LastFailureKind = domain.ErrKindNone
	r.st.DisabledUntil = time.Time{}
	r.st.OutageUntil, r.st.AuthUntil = time.Time{}, time.Time{}
	r.st.LastSuccess = m.now()
	r.st.Latency = latency
	r.outageUntil = time.Time{}
	r.authUntil = time.Time{}
	r.st.State = domain.StateHealthy
	snap := r.st
	r.mu.Unlock()

	m.notify(snap)
	return snap
}

// RecordFailure counts one failure of kind. Kinds that do not reflect
// indexer health (capability mismatches, aborted searches) are ignored.
func (m *Manager) RecordFailure(id string, kind domain.ErrorKind) domain.IndexerStatus {
	r := m.record(id)
	if !kind.CountsAsFailure() {
		return m.Get(id)
	}

	now := m.now()
	r.mu.Lock()
	r.st.LastFailure = now
	r.st.LastFailureKind = kind
	if kind == domain.ErrKindAuth {
		r.st.AuthFailureCount++
		r.authUntil = now.Add(m.auth.Delay(r.st.AuthFailureCount))
	} else {
		r.st.FailureCount++
		r.outageUntil = now.Add(m.outage.Delay(r.st.FailureCount))
	}
	m.evaluate(r, now)
	snap := r.st
	r.mu.Unlock()

	m.notify(snap)
	return snap
}

// Eligible reports whether the indexer may be queried now. When it may not,
// the time its backoff ends is returned.
func (m *Manager) Eligible(id string) (bool, time.Time) {
	st := m.Get(id)
	if st.State == domain.StateDisabled {
		return false, st.DisabledUntil
	}
	return true, time.Time{}
}

// Get returns the current snapshot of one indexer.
func (m *Manager) Get(id string) domain.IndexerStatus {
	r := m.record(id)
	r.mu.Lock()
	defer r.mu.Unlock()

	m.evaluate(r, m.now())
	return r.st
}

// Snapshot returns every known record ordered by indexer id.
func (m *Manager) Snapshot() []domain.IndexerStatus {
	m.mu.RLock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)

	out := make([]domain.IndexerStatus, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.Get(id))
	}
	return out
}

// Restore seeds records from persisted snapshots. Known records are kept.
func (m *Manager) Restore(statuses []domain.IndexerStatus) int {
	now := m.now()
	restored := 0
	for _, st := range statuses {
		if st.IndexerID == "" {
			continue
		}
		r := m.record(st.IndexerID)
		r.mu.Lock()
		if !r.st.Failing() && r.st.LastSuccess.IsZero() {
			r.st = st
			r.outageUntil, r.authUntil = restoreDeadlines(st)
			m.evaluate(r, now)
			restored++
		}
		r.mu.Unlock()
	}
	return restored
}

// restoreDeadlines returns the per-curve deadlines of a persisted record.
// Records written before the deadlines were stored separately only carry
// DisabledUntil, which then seeds every curve with a failure count.
func restoreDeadlines(st domain.IndexerStatus) (outage, auth time.Time) {
	if st.FailureCount > 0 {
		outage = st.OutageUntil
	}
	if st.AuthFailureCount > 0 {
		auth = st.AuthUntil
	}
	if outage.IsZero() && auth.IsZero() {
		if st.FailureCount > 0 {
			outage = st.DisabledUntil
		}
		if st.AuthFailureCount > 0 {
			auth = st.DisabledUntil
		}
	}
	return outage, auth
}

// Forget drops the record of an indexer that no longer exists.
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	delete(m.records, id)
	m.mu.Unlock()
}

// evaluate derives state and disabledUntil from counters. Caller holds r.mu.
func (m *Manager) evaluate(r *record, now time.Time) {
	outage := classify(m.outage, r.st.FailureCount, r.outageUntil, now)
	auth := classify(m.auth, r.st.AuthFailureCount, r.authUntil, now)

	state := outage
	if auth.Severity() > state.Severity() {
		state = auth
	}
	r.st.State = state

	until := r.outageUntil
	if r.authUntil.After(until) {
		until = r.authUntil
	}
	if r.st.Failing() {
		r.st.DisabledUntil = until
		r.st.OutageUntil, r.st.AuthUntil = r.outageUntil, r.authUntil
	} else {
		r.st.DisabledUntil = time.Time{}
		r.st.OutageUntil, r.st.AuthUntil = time.Time{}, time.Time{}
	}
}

func classify(p Policy, failures int, until, now time.Time) domain.HealthState {
	switch {
	case failures >= p.DisabledAfter && now.Before(until):
		return domain.StateDisabled
	case failures >= p.DegradedAfter:
		return domain.StateDegraded
	}
	return domain.StateHealthy
}

func (m *Manager) notify(st domain.IndexerStatus) {
	if m.onChange != nil {
		m.onChange(st)
	}
}

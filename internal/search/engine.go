// Package search fans a query out to indexers and merges what comes back.
package search

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/indexer"
	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/ratelimit"
	"github.com/MrSnakeDoc/sift/internal/session"
	"github.com/MrSnakeDoc/sift/internal/status"
	"github.com/MrSnakeDoc/sift/internal/transport"
)

const (
	DefaultTimeout        = 30 * time.Second
	DefaultMaxConcurrency = 8
	DefaultMaxRequests    = 5
)

// Target is one indexer selected for a search.
type Target struct {
	Definition *domain.IndexerDefinition
	Adapter    indexer.Adapter
}

// Recorder receives search metrics. Implemented by internal/metrics.
type Recorder interface {
	ObserveQuery(indexerID, outcome string, elapsed time.Duration, releases int)
	ObserveSearch(elapsed time.Duration)
	SessionInvalidated(indexerID string)
}

// Options bounds a search.
type Options struct {
	// Timeout cancels every outstanding indexer task of a search.
	Timeout time.Duration

	// MaxConcurrency caps the indexers queried at the same time.
	MaxConcurrency int

	// MaxRequests caps the requests sent to one indexer per search.
	MaxRequests int
}

// Deps are the shared collaborators of the engine.
type Deps struct {
	Status   *status.Manager
	Sessions *session.Cache
	Gate     *ratelimit.Gate
	Client   transport.Doer
	Metrics  Recorder
	Log      logger.Logger
}

// Engine runs aggregated searches. It is safe for concurrent use.
type Engine struct {
	status   *status.Manager
	sessions *session.Cache
	gate     *ratelimit.Gate
	client   transport.Doer
	metrics  Recorder
	log      logger.Logger
	opts     Options
}

func NewEngine(deps Deps, opts Options) *Engine {
	opts.Timeout = cmp.Or(opts.Timeout, DefaultTimeout)
	opts.MaxConcurrency = cmp.Or(max(opts.MaxConcurrency, 0), DefaultMaxConcurrency)
	opts.MaxRequests = cmp.Or(max(opts.MaxRequests, 0), DefaultMaxRequests)

	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	rec := deps.Metrics
	if rec == nil {
		rec = nopRecorder{}
	}

	return &Engine{
		status:   deps.Status,
		sessions: deps.Sessions,
		gate:     deps.Gate,
		client:   deps.Client,
		metrics:  rec,
		log:      log,
		opts:     opts,
	}
}

// Search queries every target and merges the results.
//
// Indexer failures never fail the search: they end up in the report. The
// only error is domain.ErrNoIndexers when nothing is left to query.
func (e *Engine) Search(ctx context.Context, criteria domain.SearchCriteria, targets []Target) (*Result, error) {
	start := time.Now()
	targets = selectTargets(targets, criteria.IndexerIDs)
	if len(targets) == 0 {
		return nil, domain.ErrNoIndexers
	}
	if criteria.Kind == "" {
		criteria.Kind = domain.KindSearch
	}

	id := uuid.NewString()
	log := e.log.With(logger.String("search_id", id))

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	releases := make([][]domain.ReleaseInfo, len(targets))
	reports := make([]IndexerReport, len(targets))

	var g errgroup.Group
	g.SetLimit(e.opts.MaxConcurrency)
	for i, t := range targets {
		g.Go(func() error {
			releases[i], reports[i] = e.query(ctx, log, criteria, t)
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{
		ID:       id,
		Criteria: criteria,
		Releases: slices.Concat(releases...),
		Report:   reports,
		Elapsed:  time.Since(start),
	}
	if res.Releases == nil {
		res.Releases = []domain.ReleaseInfo{}
	}

	e.metrics.ObserveSearch(res.Elapsed)
	log.Info("search completed",
		logger.String("kind", string(criteria.Kind)),
		logger.Int("indexers", len(targets)),
		logger.Int("succeeded", res.Succeeded()),
		logger.Int("releases", len(res.Releases)),
		logger.Duration("elapsed", res.Elapsed))

	return res, nil
}

// selectTargets drops unusable targets, applies the id filter and orders by priority.
func selectTargets(targets []Target, ids []string) []Target {
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		if t.Definition == nil || t.Adapter == nil {
			continue
		}
		if len(ids) > 0 && !slices.Contains(ids, t.Definition.ID) {
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b Target) int {
		return cmp.Compare(a.Definition.Priority, b.Definition.Priority)
	})
	return out
}

// query runs one indexer task. It never returns an error: the outcome is
// carried by the report.
func (e *Engine) query(ctx context.Context, log logger.Logger, criteria domain.SearchCriteria, t Target) ([]domain.ReleaseInfo, IndexerReport) {
	def := t.Definition
	start := time.Now()
	log = log.With(logger.String("indexer", def.ID))

	rep := IndexerReport{IndexerID: def.ID, Indexer: def.Name}
	finish := func(out Outcome) IndexerReport {
		rep.Outcome = out
		rep.Elapsed = time.Since(start)
		e.metrics.ObserveQuery(def.ID, string(out), rep.Elapsed, rep.Count)
		return rep
	}

	if ok, until := e.status.Eligible(def.ID); !ok {
		rep.ErrorKind = domain.ErrKindBackoff
		rep.DisabledUntil = until
		log.Debug("indexer in backoff, skipped", logger.Time("until", until))
		return nil, finish(OutcomeSkipped)
	}

	caps := t.Adapter.Capabilities()
	if caps.Incomplete() {
		log.Warn("category table rejected, free-text only", logger.Error(caps.MappingErr))
	}
	if !caps.Incomplete() && len(criteria.Categories) > 0 && caps.Categories != nil && !caps.Categories.Serves(criteria.Categories) {
		rep.ErrorKind = domain.ErrKindCapabilityMismatch
		rep.Error = "no matching category"
		return nil, finish(OutcomeUnsupported)
	}

	q, err := indexer.Plan(def, caps, criteria, e.sessions)
	if err != nil {
		rep.ErrorKind = domain.KindOf(err)
		rep.Error = err.Error()
		return nil, finish(OutcomeUnsupported)
	}

	if err := e.probe(ctx, log, t, q); err != nil {
		return nil, e.fail(ctx, log, &rep, err, finish)
	}

	var (
		out     []domain.ReleaseInfo
		runErr  error
		dropped int
		seen    = make(map[string]struct{})
	)
	for req := range t.Adapter.Requests(q) {
		if rep.Requests >= e.opts.MaxRequests {
			log.Debug("request cap reached", logger.Int("max", e.opts.MaxRequests))
			break
		}
		rep.Requests++

		page, n, err := e.fetch(ctx, log, t, caps, req)
		if err != nil {
			runErr = err
			break
		}
		dropped += n
		for _, r := range page {
			if _, dup := seen[r.GUID]; dup {
				dropped++
				continue
			}
			seen[r.GUID] = struct{}{}
			out = append(out, r)
		}
	}

	if runErr != nil {
		if aborted(ctx, runErr) && len(out) > 0 {
			rep.Count = len(out)
			rep.Dropped = dropped
			return out, e.fail(ctx, log, &rep, runErr, finish)
		}
		return nil, e.fail(ctx, log, &rep, runErr, finish)
	}
	if rep.Requests == 0 {
		rep.ErrorKind = domain.ErrKindCapabilityMismatch
		if criteria.HasTerm() {
			rep.ErrorKind = domain.ErrKindSanitizationEmpty
		}
		rep.Error = "no request generated"
		return nil, finish(OutcomeUnsupported)
	}

	st := e.status.RecordSuccess(def.ID, time.Since(start))
	rep.Count = len(out)
	rep.Dropped = dropped
	if st.State != domain.StateHealthy {
		log.Debug("indexer still recovering", logger.String("state", string(st.State)))
	}
	return out, finish(OutcomeSuccess)
}

// fetch sends one request and normalizes its releases.
func (e *Engine) fetch(ctx context.Context, log logger.Logger, t Target, caps domain.Capabilities, req *indexer.Request) ([]domain.ReleaseInfo, int, error) {
	def := t.Definition
	if err := e.gate.Wait(ctx, def.ID, def.MinRequestInterval); err != nil {
		return nil, 0, err
	}

	resp, err := e.client.Do(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	res, err := t.Adapter.Parse(resp)
	if res != nil {
		e.applySession(log, def.ID, res.Session)
	}
	if err != nil {
		return nil, 0, err
	}
	if res == nil {
		return nil, 0, nil
	}

	norm, err := indexer.Normalize(def, caps, res.Releases)
	if err != nil {
		return nil, norm.Dropped, err
	}
	if norm.Dropped > 0 {
		log.Debug("invalid releases dropped", logger.Int("dropped", norm.Dropped))
	}
	return norm.Releases, norm.Dropped, nil
}

// probe loads missing identity facts before the first search request.
// Only credential rejections abort the task; other probe failures leave the
// facts unknown.
func (e *Engine) probe(ctx context.Context, log logger.Logger, t Target, q *indexer.Query) error {
	p, ok := t.Adapter.(indexer.Prober)
	if !ok {
		return nil
	}
	missing := false
	for _, key := range p.ProbeFacts() {
		if _, ok := q.Facts[key]; !ok {
			missing = true
			break
		}
	}
	if !missing {
		return nil
	}

	def := t.Definition
	if err := e.gate.Wait(ctx, def.ID, def.MinRequestInterval); err != nil {
		return err
	}
	resp, err := e.client.Do(ctx, p.ProbeRequest(q))
	if err == nil {
		var facts map[string]string
		if facts, err = p.ParseProbe(resp); err == nil {
			e.sessions.PutFacts(def.ID, facts)
			if q.Facts == nil {
				q.Facts = make(map[string]string, len(facts))
			}
			maps.Copy(q.Facts, facts)
			return nil
		}
	}

	if aborted(ctx, err) || domain.KindOf(err) == domain.ErrKindAuth {
		return err
	}
	log.Warn("identity probe failed, continuing without facts", logger.Error(err))
	return nil
}

func (e *Engine) applySession(log logger.Logger, id string, u *indexer.SessionUpdate) {
	switch {
	case u == nil:
	case u.Invalidate:
		e.sessions.Invalidate(id)
		e.metrics.SessionInvalidated(id)
		log.Debug("session invalidated by indexer response")
	default:
		e.sessions.Put(id, u.Cookies, u.Expiry)
	}
}

// fail turns a task error into a report. Errors caused by the search being
// cancelled are reported as aborted and leave the status untouched.
func (e *Engine) fail(ctx context.Context, log logger.Logger, rep *IndexerReport, err error, finish func(Outcome) IndexerReport) IndexerReport {
	if aborted(ctx, err) {
		rep.ErrorKind = domain.ErrKindAborted
		rep.Error = cmp.Or(ctx.Err(), err).Error()
		log.Debug("indexer query aborted", logger.Int("requests", rep.Requests), logger.Error(err))
		return finish(OutcomeAborted)
	}

	kind := domain.KindOf(err)
	rep.ErrorKind = kind
	rep.Error = err.Error()

	var ie *domain.IndexerError
	if errors.As(err, &ie) && ie.IndexerID == "" {
		ie.IndexerID = rep.IndexerID
		rep.Error = ie.Error()
	}

	if kind == domain.ErrKindAuth {
		e.sessions.Invalidate(rep.IndexerID)
		e.metrics.SessionInvalidated(rep.IndexerID)
	}

	st := e.status.RecordFailure(rep.IndexerID, kind)
	if !st.DisabledUntil.IsZero() && st.State == domain.StateDisabled {
		rep.DisabledUntil = st.DisabledUntil
	}

	fields := []logger.Field{
		logger.String("kind", string(kind)),
		logger.String("state", string(st.State)),
		logger.Int("requests", rep.Requests),
		logger.Error(fmt.Errorf("query failed: %w", err)),
	}
	if st.State == domain.StateHealthy {
		log.Info("indexer query failed", fields...)
	} else {
		log.Warn("indexer query failed", fields...)
	}
	return finish(OutcomeFailed)
}

// aborted reports whether err comes from the search running out of time or
// being cancelled rather than from the indexer.
func aborted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || domain.KindOf(err) == domain.ErrKindAborted
}

type nopRecorder struct{}

func (nopRecorder) ObserveQuery(string, string, time.Duration, int) {}
func (nopRecorder) ObserveSearch(time.Duration)                    {}
func (nopRecorder) SessionInvalidated(string)                      {}

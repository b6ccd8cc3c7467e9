package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"swapMarket/domain"
	"swapMarket/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	SubjectSwipeLiked  = "swipe.liked"
	SubjectSwipeUndone = "swipe.undone"
)

// ---- collaborator interfaces ----

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type RankingContextLoader interface {
	Load(ctx context.Context, viewerID uint) RankingContext
}

// ---- presentation types ----

type FeedState struct {
	InstanceID string          `json:"instance_id"`
	Status     string          `json:"status"`
	Current    *domain.Listing `json:"current,omitempty"`
	HasMore    bool            `json:"has_more"`
	Fallback   bool            `json:"fallback"`
	CanUndo    bool            `json:"can_undo"`
	Stale      bool            `json:"stale"`
	Refreshing bool            `json:"refreshing"`
	Position   int             `json:"position"`
	Total      int             `json:"total"`
	Filter     FilterSpec      `json:"filter"`
}

type SwipeOutcome struct {
	Result AdvanceResult
	State  FeedState
}

type UndoOutcome struct {
	Undone    bool
	ListingID uint64
	State     FeedState
}

// ---- instances ----

type instanceKey struct {
	viewerID uint
	id       string
}

type feedInstance struct {
	mu sync.Mutex

	id       string
	viewerID uint

	// filter of the installed snapshot; requested is the latest asked for
	filter    FilterSpec
	requested FilterSpec

	session  *SwipeSession
	snapshot Snapshot

	generation  uint64
	cancelFetch context.CancelFunc
	fetching    bool
	stale       bool
	// listings restored by undo while the current build is in flight
	undone []domain.Listing

	lastUsed atomic.Int64
}

func (inst *feedInstance) touch(now time.Time) {
	inst.lastUsed.Store(now.UnixNano())
}

func (inst *feedInstance) stop() {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.cancelFetch != nil {
		inst.cancelFetch()
		inst.cancelFetch = nil
	}
}

// StatusError is reported when no snapshot was ever installed and the last build failed.
const StatusError = "error"

func (inst *feedInstance) stateLocked() FeedState {
	status := inst.session.State().String()
	if inst.session.State() == StateLoading && inst.stale && !inst.fetching {
		status = StatusError
	}
	return FeedState{
		InstanceID: inst.id,
		Status:     status,
		Current:    inst.session.Current(),
		HasMore:    inst.session.HasMore(),
		Fallback:   inst.session.IsFallback(),
		CanUndo:    inst.session.CanUndo(),
		Stale:      inst.stale,
		Refreshing: inst.fetching,
		Position:   inst.session.Position(),
		Total:      inst.session.Len(),
		Filter:     inst.filter,
	}
}

// ---- Usecase / Service ----

type FeedService struct {
	store     CandidateStore
	ledger    SwipeLedger
	loader    RankingContextLoader
	publisher EventPublisher
	cfg       Config
	now       func() time.Time

	mu        sync.Mutex
	instances map[instanceKey]*feedInstance
}

func NewFeedService(
	store CandidateStore,
	ledger SwipeLedger,
	loader RankingContextLoader,
	publisher EventPublisher,
	cfg Config,
) *FeedService {
	return &FeedService{
		store:     store,
		ledger:    ledger,
		loader:    loader,
		publisher: publisher,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
		instances: make(map[instanceKey]*feedInstance),
	}
}

// Open creates a feed instance for the viewer and runs the first build.
// On a transient failure the instance still exists (stale, status "error") and can be refreshed.
func (s *FeedService) Open(ctx context.Context, viewerID uint, filter FilterSpec) (FeedState, error) {
	if err := ctx.Err(); err != nil {
		return FeedState{}, fmt.Errorf("context error: %w", err)
	}

	filter = filter.Normalize(s.cfg.PriceCeiling)
	now := s.now()

	inst := &feedInstance{
		id:        uuid.NewString(),
		viewerID:  viewerID,
		filter:    filter,
		requested: filter,
		session:   NewSwipeSession(viewerID, nil),
	}
	inst.touch(now)

	s.mu.Lock()
	evicted := s.evictIdleLocked(now)
	evicted = append(evicted, s.capViewerLocked(viewerID)...)
	s.instances[instanceKey{viewerID: viewerID, id: inst.id}] = inst
	s.mu.Unlock()

	for _, old := range evicted {
		old.stop()
	}

	logger.Info("feed_open",
		"trace_id", logger.TraceID(ctx),
		"viewer_id", viewerID,
		"instance_id", inst.id,
		"filter", filter.Key(),
		"evicted", len(evicted),
	)

	return s.reload(ctx, inst, filter)
}

// SetFilter discards the cursor and rebuilds with a new filter. History is kept.
func (s *FeedService) SetFilter(ctx context.Context, viewerID uint, instanceID string, filter FilterSpec) (FeedState, error) {
	if err := ctx.Err(); err != nil {
		return FeedState{}, fmt.Errorf("context error: %w", err)
	}
	inst, err := s.lookup(viewerID, instanceID)
	if err != nil {
		return FeedState{}, err
	}
	return s.reload(ctx, inst, filter.Normalize(s.cfg.PriceCeiling))
}

// Refresh re-runs the build for the most recently requested filter.
func (s *FeedService) Refresh(ctx context.Context, viewerID uint, instanceID string) (FeedState, error) {
	if err := ctx.Err(); err != nil {
		return FeedState{}, fmt.Errorf("context error: %w", err)
	}
	inst, err := s.lookup(viewerID, instanceID)
	if err != nil {
		return FeedState{}, err
	}
	inst.mu.Lock()
	filter := inst.requested
	inst.mu.Unlock()

	return s.reload(ctx, inst, filter)
}

// reload runs a build outside the instance lock. A newer reload cancels this
// one and its result is dropped with ErrStaleFetch. Failures keep the last
// good cursor and mark the instance stale.
func (s *FeedService) reload(ctx context.Context, inst *feedInstance, filter FilterSpec) (FeedState, error) {
	inst.mu.Lock()
	inst.generation++
	gen := inst.generation
	if inst.cancelFetch != nil {
		inst.cancelFetch()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	inst.cancelFetch = cancel
	inst.fetching = true
	inst.requested = filter
	inst.undone = nil
	inst.mu.Unlock()
	defer cancel()

	start := time.Now()
	snap, history, err := s.build(fetchCtx, inst.viewerID, filter)

	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.touch(s.now())

	tid := logger.TraceID(ctx)

	if inst.generation != gen {
		FeedBuildsTotal.WithLabelValues("stale").Inc()
		logger.Debug("feed_build_superseded",
			"trace_id", tid,
			"instance_id", inst.id,
			"generation", gen,
			"current_generation", inst.generation,
		)
		return inst.stateLocked(), ErrStaleFetch
	}

	inst.cancelFetch = nil
	inst.fetching = false

	if err != nil {
		inst.stale = true
		FeedBuildsTotal.WithLabelValues("error").Inc()
		logger.Error("feed_build_failed",
			"trace_id", tid,
			"viewer_id", inst.viewerID,
			"instance_id", inst.id,
			"filter", filter.Key(),
			"error", err,
		)
		return inst.stateLocked(), err
	}

	// swipes made on the old cursor while this build was in flight
	history.Merge(inst.session.History())
	s.restoreUndoneLocked(inst, filter, history, &snap)
	snap.Candidates = filterEligible(snap.Candidates, inst.viewerID, history)
	if len(snap.Candidates) == 0 {
		snap.Fallback = false
	}

	session := NewSwipeSession(inst.viewerID, history)
	session.Populate(snap)

	inst.session = session
	inst.snapshot = snap
	inst.filter = filter
	inst.stale = false

	outcome := "primary"
	switch {
	case snap.Fallback:
		outcome = "fallback"
	case len(snap.Candidates) == 0:
		outcome = "exhausted"
	}
	FeedBuildsTotal.WithLabelValues(outcome).Inc()
	FeedCandidatesServed.Observe(float64(len(snap.Candidates)))

	logger.Debug("feed_build",
		"trace_id", tid,
		"viewer_id", inst.viewerID,
		"instance_id", inst.id,
		"filter", filter.Key(),
		"outcome", outcome,
		"candidates", len(snap.Candidates),
		"history", history.Len(),
		"context_partial", snap.Context.Partial,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return inst.stateLocked(), nil
}

// restoreUndoneLocked puts back listings whose dislike was undone while the
// build ran: the ledger read and the store query may both predate the undo.
// Restored listings that still match the snapshot's query go first, most
// recent undo on top.
func (s *FeedService) restoreUndoneLocked(inst *feedInstance, filter FilterSpec, history *SwipeHistory, snap *Snapshot) {
	undone := inst.undone
	inst.undone = nil
	if len(undone) == 0 {
		return
	}

	var q CandidateQuery
	if snap.Fallback {
		q = BuildFallbackQuery(filter, inst.viewerID, nil, s.cfg)
	} else {
		q = BuildCandidateQuery(filter, inst.viewerID, nil, s.cfg)
	}

	present := make(map[uint64]struct{}, len(snap.Candidates))
	for _, l := range snap.Candidates {
		present[l.ID] = struct{}{}
	}

	front := make([]domain.Listing, 0, len(undone))
	for i := len(undone) - 1; i >= 0; i-- {
		l := undone[i]
		// decided again on the old cursor after the undo
		if inst.session.History().Contains(l.ID) {
			continue
		}
		history.Remove(l.ID)

		if _, ok := present[l.ID]; ok {
			continue
		}
		if !q.Matches(l) || (!snap.Fallback && !filter.MatchesQuery(l)) {
			continue
		}
		present[l.ID] = struct{}{}
		front = append(front, l)
	}

	if len(front) > 0 {
		snap.Candidates = append(front, snap.Candidates...)
	}
}

// build is the two step pipeline: primary fetch, ranked; then, only if that
// is empty under an explicit restriction, the bounded fallback fetch.
func (s *FeedService) build(ctx context.Context, viewerID uint, filter FilterSpec) (Snapshot, *SwipeHistory, error) {
	var (
		rc      RankingContext
		rows    []domain.Listing
		history *SwipeHistory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rc = s.loadContext(gctx, viewerID)
		return nil
	})
	g.Go(func() error {
		var ids []uint64
		err := s.retry(gctx, StageHistory, func() error {
			var err error
			ids, err = s.ledger.DecidedListingIDs(gctx, viewerID)
			return err
		})
		if err != nil {
			return err
		}
		history = NewSwipeHistory(ids...)

		q := BuildCandidateQuery(filter, viewerID, history, s.cfg)
		return s.retry(gctx, StagePrimary, func() error {
			var err error
			rows, err = s.store.FetchCandidates(gctx, q)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, nil, err
	}

	snap := Snapshot{Filter: filter, Context: rc, BuiltAt: rc.Now}

	primary := filterEligible(applyQuery(rows, filter), viewerID, history)
	ranked := Rank(primary, filter, rc)
	if !needsFallback(filter, ranked) {
		snap.Candidates = ranked
		return snap, history, nil
	}

	fq := BuildFallbackQuery(filter, viewerID, history, s.cfg)
	var alt []domain.Listing
	err := s.retry(ctx, StageFallback, func() error {
		var err error
		alt, err = s.store.FetchCandidates(ctx, fq)
		return err
	})
	if err != nil {
		return Snapshot{}, nil, err
	}

	snap.Candidates = widen(alt, viewerID, history, s.cfg.FallbackLimit)
	snap.Fallback = len(snap.Candidates) > 0
	return snap, history, nil
}

func (s *FeedService) loadContext(ctx context.Context, viewerID uint) RankingContext {
	if s.loader == nil {
		return NeutralContext(s.now())
	}
	return s.loader.Load(ctx, viewerID)
}

// retry runs op with exponential backoff up to FetchRetries extra attempts.
// Cancellation stops retrying at once.
func (s *FeedService) retry(ctx context.Context, stage string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.RetryInitialInterval
	b.MaxInterval = s.cfg.RetryMaxInterval

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.cfg.FetchRetries)), ctx)

	err := backoff.RetryNotify(func() error {
		if err := op(); err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}, policy, func(err error, wait time.Duration) {
		logger.Warn("feed_fetch_retry",
			"trace_id", logger.TraceID(ctx),
			"stage", stage,
			"wait_ms", wait.Milliseconds(),
			"error", err,
		)
	})
	if err != nil {
		return &TransientFetchError{Stage: stage, Err: err}
	}
	return nil
}

// ---- swipe actions ----

func (s *FeedService) Like(ctx context.Context, viewerID uint, instanceID string, counterOfferID *uint64) (SwipeOutcome, error) {
	return s.advance(ctx, viewerID, instanceID, domain.DecisionLike, counterOfferID)
}

func (s *FeedService) Dislike(ctx context.Context, viewerID uint, instanceID string) (SwipeOutcome, error) {
	return s.advance(ctx, viewerID, instanceID, domain.DecisionDislike, nil)
}

func (s *FeedService) advance(
	ctx context.Context,
	viewerID uint,
	instanceID string,
	decision domain.Decision,
	counterOfferID *uint64,
) (SwipeOutcome, error) {

	if err := ctx.Err(); err != nil {
		return SwipeOutcome{}, fmt.Errorf("context error: %w", err)
	}
	inst, err := s.lookup(viewerID, instanceID)
	if err != nil {
		return SwipeOutcome{}, err
	}

	inst.mu.Lock()
	res, err := inst.session.Advance(ctx, s.ledger, decision, counterOfferID)
	state := inst.stateLocked()
	inst.mu.Unlock()
	inst.touch(s.now())

	tid := logger.TraceID(ctx)

	if err != nil {
		FeedSwipesTotal.WithLabelValues(string(decision), "error").Inc()
		logger.Error("feed_swipe_failed",
			"trace_id", tid,
			"viewer_id", viewerID,
			"instance_id", instanceID,
			"decision", decision,
			"error", err,
		)
		return SwipeOutcome{State: state}, err
	}

	if res.Duplicate {
		FeedSwipesTotal.WithLabelValues(string(decision), "duplicate").Inc()
		logger.Info("feed_swipe_duplicate",
			"trace_id", tid,
			"viewer_id", viewerID,
			"listing_id", res.ListingID,
			"decision", decision,
		)
		return SwipeOutcome{Result: res, State: state}, nil
	}

	FeedSwipesTotal.WithLabelValues(string(decision), "recorded").Inc()
	logger.Debug("feed_swipe",
		"trace_id", tid,
		"viewer_id", viewerID,
		"instance_id", instanceID,
		"listing_id", res.ListingID,
		"decision", decision,
		"decision_id", res.DecisionID,
	)

	if decision == domain.DecisionLike {
		s.publish(ctx, SubjectSwipeLiked, domain.SwipeEvent{
			DecisionID:            res.DecisionID,
			ViewerID:              viewerID,
			ListingID:             res.ListingID,
			Decision:              decision,
			CounterOfferListingID: counterOfferID,
			OccurredAt:            s.now(),
		})
	}

	return SwipeOutcome{Result: res, State: state}, nil
}

// Undo reverts the last dislike. Nothing to undo is not an error: Undone is false.
func (s *FeedService) Undo(ctx context.Context, viewerID uint, instanceID string) (UndoOutcome, error) {
	if err := ctx.Err(); err != nil {
		return UndoOutcome{}, fmt.Errorf("context error: %w", err)
	}
	inst, err := s.lookup(viewerID, instanceID)
	if err != nil {
		return UndoOutcome{}, err
	}

	inst.mu.Lock()
	res, err := inst.session.Undo(ctx, s.ledger)
	if err == nil && inst.fetching {
		if cur := inst.session.Current(); cur != nil && cur.ID == res.ListingID {
			inst.undone = append(inst.undone, *cur)
		}
	}
	state := inst.stateLocked()
	inst.mu.Unlock()
	inst.touch(s.now())

	tid := logger.TraceID(ctx)

	switch {
	case errors.Is(err, ErrInvalidUndo):
		FeedUndoTotal.WithLabelValues("unavailable").Inc()
		return UndoOutcome{Undone: false, State: state}, nil
	case err != nil:
		FeedUndoTotal.WithLabelValues("error").Inc()
		logger.Error("feed_undo_failed",
			"trace_id", tid,
			"viewer_id", viewerID,
			"instance_id", instanceID,
			"error", err,
		)
		return UndoOutcome{State: state}, err
	}

	FeedUndoTotal.WithLabelValues("undone").Inc()
	logger.Debug("feed_undo",
		"trace_id", tid,
		"viewer_id", viewerID,
		"listing_id", res.ListingID,
		"decision_id", res.DecisionID,
	)

	s.publish(ctx, SubjectSwipeUndone, domain.SwipeEvent{
		DecisionID: res.DecisionID,
		ViewerID:   viewerID,
		ListingID:  res.ListingID,
		Decision:   domain.DecisionDislike,
		OccurredAt: s.now(),
	})

	return UndoOutcome{Undone: true, ListingID: res.ListingID, State: state}, nil
}

func (s *FeedService) publish(ctx context.Context, subject string, event domain.SwipeEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		logger.Warn("feed_event_publish_failed",
			"trace_id", logger.TraceID(ctx),
			"subject", subject,
			"decision_id", event.DecisionID,
			"error", err,
		)
	}
}

// ---- reads ----

func (s *FeedService) State(viewerID uint, instanceID string) (FeedState, error) {
	inst, err := s.lookup(viewerID, instanceID)
	if err != nil {
		return FeedState{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.touch(s.now())
	return inst.stateLocked(), nil
}

func (s *FeedService) Current(viewerID uint, instanceID string) (*domain.Listing, error) {
	st, err := s.State(viewerID, instanceID)
	if err != nil {
		return nil, err
	}
	return st.Current, nil
}

func (s *FeedService) HasMore(viewerID uint, instanceID string) (bool, error) {
	st, err := s.State(viewerID, instanceID)
	if err != nil {
		return false, err
	}
	return st.HasMore, nil
}

func (s *FeedService) IsShowingFallback(viewerID uint, instanceID string) (bool, error) {
	st, err := s.State(viewerID, instanceID)
	if err != nil {
		return false, err
	}
	return st.Fallback, nil
}

// Close drops the instance and cancels any build in flight.
func (s *FeedService) Close(viewerID uint, instanceID string) error {
	key := instanceKey{viewerID: viewerID, id: instanceID}

	s.mu.Lock()
	inst, ok := s.instances[key]
	if ok {
		delete(s.instances, key)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	inst.stop()
	return nil
}

func (s *FeedService) lookup(viewerID uint, instanceID string) (*feedInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[instanceKey{viewerID: viewerID, id: instanceID}]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return inst, nil
}

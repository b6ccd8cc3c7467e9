package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"swapMarket/domain"
)

type SessionState int

const (
	StateLoading SessionState = iota
	StateReady
	StateExhausted
)

func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// SwipeLedger is the durable decision store. RecordSwipe must enforce one
// decision per (viewer, listing) and report ErrDuplicateDecision otherwise.
type SwipeLedger interface {
	RecordSwipe(ctx context.Context, viewerID uint, listingID uint64, decision domain.Decision, counterOfferID *uint64) (string, error)
	DeleteSwipe(ctx context.Context, decisionID string, viewerID uint) error
	DecidedListingIDs(ctx context.Context, viewerID uint) ([]uint64, error)
}

// Snapshot is the ordered candidate list produced by one feed build.
type Snapshot struct {
	Candidates []domain.Listing
	Fallback   bool
	Filter     FilterSpec
	Context    RankingContext
	BuiltAt    time.Time
}

type undoCandidate struct {
	listingID  uint64
	decisionID string
}

type AdvanceResult struct {
	DecisionID string
	ListingID  uint64
	Decision   domain.Decision
	// Duplicate means the listing was already decided elsewhere; the cursor
	// skipped it and nothing was written.
	Duplicate bool
}

// SwipeSession is a cursor over one snapshot plus the single undo slot.
// Not safe for concurrent use.
type SwipeSession struct {
	viewerID   uint
	state      SessionState
	candidates []domain.Listing
	position   int
	fallback   bool
	history    *SwipeHistory
	undo       *undoCandidate
}

func NewSwipeSession(viewerID uint, history *SwipeHistory) *SwipeSession {
	if history == nil {
		history = NewSwipeHistory()
	}
	return &SwipeSession{
		viewerID: viewerID,
		state:    StateLoading,
		history:  history,
	}
}

// Populate installs a snapshot and resets the cursor and undo slot.
func (s *SwipeSession) Populate(snap Snapshot) {
	s.candidates = snap.Candidates
	s.fallback = snap.Fallback
	s.position = 0
	s.undo = nil
	s.syncState()
}

func (s *SwipeSession) syncState() {
	if s.position >= len(s.candidates) {
		s.position = len(s.candidates)
		s.state = StateExhausted
		return
	}
	s.state = StateReady
}

func (s *SwipeSession) State() SessionState { return s.state }
func (s *SwipeSession) Position() int       { return s.position }
func (s *SwipeSession) Len() int            { return len(s.candidates) }
func (s *SwipeSession) IsFallback() bool    { return s.fallback }
func (s *SwipeSession) CanUndo() bool       { return s.undo != nil }
func (s *SwipeSession) History() *SwipeHistory {
	return s.history
}

func (s *SwipeSession) HasMore() bool {
	return s.state == StateReady
}

// Current returns the candidate under the cursor, or nil when not Ready.
func (s *SwipeSession) Current() *domain.Listing {
	if s.state != StateReady {
		return nil
	}
	l := s.candidates[s.position]
	return &l
}

// Candidates returns the whole snapshot list, including already passed items.
func (s *SwipeSession) Candidates() []domain.Listing {
	return s.candidates
}

// Advance records a decision on the current candidate. The ledger is written
// first; if it fails the cursor does not move. A dislike becomes the only undo
// candidate and a like clears it.
func (s *SwipeSession) Advance(
	ctx context.Context,
	ledger SwipeLedger,
	decision domain.Decision,
	counterOfferID *uint64,
) (AdvanceResult, error) {

	if err := ctx.Err(); err != nil {
		return AdvanceResult{}, fmt.Errorf("context error: %w", err)
	}
	if !decision.Valid() {
		return AdvanceResult{}, ErrInvalidDecision
	}
	if s.state != StateReady {
		return AdvanceResult{}, ErrSessionNotReady
	}
	if decision == domain.DecisionDislike {
		counterOfferID = nil
	}

	listing := s.candidates[s.position]
	res := AdvanceResult{ListingID: listing.ID, Decision: decision}

	decisionID, err := ledger.RecordSwipe(ctx, s.viewerID, listing.ID, decision, counterOfferID)
	switch {
	case errors.Is(err, ErrDuplicateDecision):
		res.Duplicate = true
		s.history.Add(listing.ID)
		s.undo = nil
		s.position++
		s.syncState()
		return res, nil
	case err != nil:
		return AdvanceResult{}, fmt.Errorf("%w: failed to record swipe: %w", ErrSwipeNotSaved, err)
	}

	res.DecisionID = decisionID
	s.history.Add(listing.ID)
	s.position++
	if decision == domain.DecisionDislike {
		s.undo = &undoCandidate{listingID: listing.ID, decisionID: decisionID}
	} else {
		s.undo = nil
	}
	s.syncState()

	return res, nil
}

type UndoResult struct {
	DecisionID string
	ListingID  uint64
}

// Undo reverts the last dislike: the ledger row is deleted, the listing
// leaves history and the cursor steps back onto it. Single use.
func (s *SwipeSession) Undo(ctx context.Context, ledger SwipeLedger) (UndoResult, error) {
	if err := ctx.Err(); err != nil {
		return UndoResult{}, fmt.Errorf("context error: %w", err)
	}
	if s.undo == nil || s.state == StateLoading {
		return UndoResult{}, ErrInvalidUndo
	}

	u := s.undo
	if err := ledger.DeleteSwipe(ctx, u.decisionID, s.viewerID); err != nil {
		if errors.Is(err, ErrDecisionOwnership) {
			s.undo = nil
			return UndoResult{}, err
		}
		// already gone from the ledger: restoring locally matches the durable state
		if !errors.Is(err, ErrDecisionNotFound) {
			return UndoResult{}, fmt.Errorf("%w: failed to delete swipe: %w", ErrSwipeNotSaved, err)
		}
	}

	s.history.Remove(u.listingID)
	s.position--
	if s.position < 0 {
		s.position = 0
	}
	s.undo = nil
	s.syncState()

	return UndoResult{DecisionID: u.decisionID, ListingID: u.listingID}, nil
}

package feed

import (
	"errors"
	"fmt"
)

const (
	StageHistory  = "history"
	StagePrimary  = "primary"
	StageFallback = "fallback"
)

var (
	// ErrDuplicateDecision is returned by the ledger when (viewer, listing) already has a decision.
	ErrDuplicateDecision = errors.New("listing already decided by viewer")
	// ErrInvalidUndo means there is nothing eligible to undo.
	ErrInvalidUndo = errors.New("no dislike available to undo")
	// ErrDecisionOwnership is fatal: the decision belongs to another viewer.
	ErrDecisionOwnership = errors.New("decision is not owned by viewer")
	ErrDecisionNotFound  = errors.New("decision not found")
	// ErrSwipeNotSaved wraps ledger write failures; the cursor did not move and the action can be retried.
	ErrSwipeNotSaved = errors.New("swipe not saved")

	ErrSessionNotFound = errors.New("feed instance not found")
	ErrSessionNotReady = errors.New("feed has no current candidate")
	ErrStaleFetch      = errors.New("fetch superseded by a newer filter")
	ErrInvalidDecision = errors.New("invalid decision")
)

// TransientFetchError wraps a store failure that survived the retry budget.
type TransientFetchError struct {
	Stage string
	Err   error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("transient %s fetch error: %v", e.Stage, e.Err)
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

func IsTransient(err error) bool {
	var te *TransientFetchError
	return errors.As(err, &te)
}

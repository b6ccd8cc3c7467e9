package feed

import (
	"context"
	"errors"
	"testing"

	"swapMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readySession(t *testing.T, viewerID uint, listings ...domain.Listing) *SwipeSession {
	t.Helper()
	s := NewSwipeSession(viewerID, NewSwipeHistory())
	assert.Equal(t, StateLoading, s.State())
	s.Populate(Snapshot{Candidates: listings})
	return s
}

func TestSwipeSession_SingleLevelUndo(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	l1 := listing(1, 9, domain.ListingKindGood, "books")
	l2 := listing(2, 9, domain.ListingKindGood, "books")
	l3 := listing(3, 9, domain.ListingKindGood, "books")
	s := readySession(t, 1, l1, l2, l3)

	_, err := s.Advance(ctx, ledger, domain.DecisionDislike, nil)
	require.NoError(t, err)
	_, err = s.Advance(ctx, ledger, domain.DecisionDislike, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), s.Current().ID)

	res, err := s.Undo(ctx, ledger)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.ListingID)

	// L2 browsable again, L1 still decided
	assert.Equal(t, uint64(2), s.Current().ID)
	assert.False(t, s.History().Contains(2))
	assert.True(t, s.History().Contains(1))
	assert.False(t, ledger.decided(1, 2))
	assert.True(t, ledger.decided(1, 1))

	_, err = s.Undo(ctx, ledger)
	assert.ErrorIs(t, err, ErrInvalidUndo)
	assert.Equal(t, uint64(2), s.Current().ID)
}

func TestSwipeSession_LikeIsNotUndoable(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	s := readySession(t, 1,
		listing(1, 9, domain.ListingKindGood, "books"),
		listing(2, 9, domain.ListingKindGood, "books"),
	)

	_, err := s.Advance(ctx, ledger, domain.DecisionDislike, nil)
	require.NoError(t, err)
	assert.True(t, s.CanUndo())

	counter := uint64(77)
	res, err := s.Advance(ctx, ledger, domain.DecisionLike, &counter)
	require.NoError(t, err)
	assert.NotEmpty(t, res.DecisionID)
	assert.False(t, s.CanUndo(), "a like clears the undo slot")

	_, err = s.Undo(ctx, ledger)
	assert.ErrorIs(t, err, ErrInvalidUndo)
	assert.Equal(t, StateExhausted, s.State())
}

func TestSwipeSession_LedgerFailureDoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	ledger.recordErr = errors.New("db down")
	s := readySession(t, 1, listing(1, 9, domain.ListingKindGood, "books"))

	_, err := s.Advance(ctx, ledger, domain.DecisionLike, nil)

	assert.ErrorIs(t, err, ErrSwipeNotSaved)
	assert.ErrorIs(t, err, ledger.recordErr)
	assert.Equal(t, 0, s.Position())
	assert.Equal(t, uint64(1), s.Current().ID)
	assert.False(t, s.History().Contains(1))

	ledger.recordErr = nil
	_, err = s.Advance(ctx, ledger, domain.DecisionLike, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Position())
}

func TestSwipeSession_DuplicateSkipsListing(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	_, err := ledger.RecordSwipe(ctx, 1, 1, domain.DecisionLike, nil)
	require.NoError(t, err)

	s := readySession(t, 1,
		listing(1, 9, domain.ListingKindGood, "books"),
		listing(2, 9, domain.ListingKindGood, "books"),
	)

	res, err := s.Advance(ctx, ledger, domain.DecisionDislike, nil)
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.False(t, s.CanUndo())
	assert.Equal(t, uint64(2), s.Current().ID)
	assert.Equal(t, 1, ledger.count(1))
}

func TestSwipeSession_UndoFromExhausted(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	s := readySession(t, 1, listing(1, 9, domain.ListingKindGood, "books"))

	_, err := s.Advance(ctx, ledger, domain.DecisionDislike, nil)
	require.NoError(t, err)
	assert.Equal(t, StateExhausted, s.State())
	assert.Nil(t, s.Current())
	assert.False(t, s.HasMore())

	_, err = s.Undo(ctx, ledger)
	require.NoError(t, err)
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, uint64(1), s.Current().ID)
}

func TestSwipeSession_UndoOwnershipIsFatal(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	s := readySession(t, 1, listing(1, 9, domain.ListingKindGood, "books"))

	_, err := s.Advance(ctx, ledger, domain.DecisionDislike, nil)
	require.NoError(t, err)

	ledger.deleteErr = ErrDecisionOwnership
	_, err = s.Undo(ctx, ledger)

	assert.ErrorIs(t, err, ErrDecisionOwnership)
	assert.Equal(t, 1, s.Position())
	assert.False(t, s.CanUndo())
}

func TestSwipeSession_NotReady(t *testing.T) {
	ctx := context.Background()
	s := NewSwipeSession(1, nil)

	_, err := s.Advance(ctx, newMemLedger(), domain.DecisionLike, nil)
	assert.ErrorIs(t, err, ErrSessionNotReady)

	s.Populate(Snapshot{})
	assert.Equal(t, StateExhausted, s.State())
	_, err = s.Advance(ctx, newMemLedger(), domain.DecisionLike, nil)
	assert.ErrorIs(t, err, ErrSessionNotReady)

	_, err = s.Advance(ctx, newMemLedger(), domain.Decision("superlike"), nil)
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

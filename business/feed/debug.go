package feed

import (
	"context"
	"fmt"

	"swapMarket/domain"
	"swapMarket/pkg/logger"
)

// Debug returns the installed snapshot with the tier keys that ordered it.
// Fallback snapshots report neutral keys since they skip the tiers.
func (s *FeedService) Debug(ctx context.Context, viewerID uint, instanceID string) ([]domain.RankedCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	inst, err := s.lookup(viewerID, instanceID)
	if err != nil {
		return nil, err
	}

	inst.mu.Lock()
	snap := inst.snapshot
	inst.mu.Unlock()

	logger.Debug("feed_debug",
		"trace_id", logger.TraceID(ctx),
		"viewer_id", viewerID,
		"instance_id", instanceID,
		"candidates", len(snap.Candidates),
		"fallback", snap.Fallback,
	)

	if snap.Fallback {
		return explain(snap.Candidates, tiers{}, snap.Context), nil
	}
	return Explain(snap.Candidates, snap.Filter, snap.Context), nil
}

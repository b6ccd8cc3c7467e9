package feed

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"swapMarket/domain"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func listing(id uint64, owner uint, kind domain.ListingKind, category string) domain.Listing {
	return domain.Listing{
		ID:        id,
		OwnerID:   owner,
		Kind:      kind,
		Title:     fmt.Sprintf("listing %d", id),
		Category:  category,
		Price:     100,
		Status:    domain.ListingStatusActive,
		CreatedAt: baseTime.Add(time.Duration(id) * time.Minute),
	}
}

func ids(listings []domain.Listing) []uint64 {
	out := make([]uint64, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

// memStore applies CandidateQuery the way the postgres repository does.
type memStore struct {
	mu       sync.Mutex
	listings []domain.Listing
	queries  []CandidateQuery
	// failures makes the next N calls fail
	failures int
	err      error
	// ignoreLimit returns every match regardless of q.Limit
	ignoreLimit bool
	// hook runs before each fetch; it may block
	hook func(ctx context.Context, q CandidateQuery) error
}

func (m *memStore) FetchCandidates(ctx context.Context, q CandidateQuery) ([]domain.Listing, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	hook := m.hook
	if m.failures > 0 {
		m.failures--
		err := m.err
		m.mu.Unlock()
		if err == nil {
			err = fmt.Errorf("connection refused")
		}
		return nil, err
	}
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, q); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	exclude := make(map[uint64]struct{}, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		exclude[id] = struct{}{}
	}
	inSet := func(v string, set []string) bool {
		if len(set) == 0 {
			return true
		}
		for _, s := range set {
			if s == v {
				return true
			}
		}
		return false
	}

	out := make([]domain.Listing, 0)
	for _, l := range m.listings {
		if l.OwnerID == q.ViewerID || !l.IsActive() {
			continue
		}
		if _, ok := exclude[l.ID]; ok {
			continue
		}
		if !inSet(l.Category, q.Categories) {
			continue
		}
		if q.Kind != "" && l.Kind != q.Kind {
			continue
		}
		if len(q.Conditions) > 0 && l.Kind == domain.ListingKindGood {
			if l.Condition == nil || !inSet(*l.Condition, q.Conditions) {
				continue
			}
		}
		if q.MinPrice != nil && l.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && l.Price > *q.MaxPrice {
			continue
		}
		if q.Location != "" && l.Location != q.Location {
			continue
		}
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch q.Sort {
		case SortOldest:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case SortPriceAsc:
			return out[i].Price < out[j].Price
		case SortPriceDesc:
			return out[i].Price > out[j].Price
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})

	if !m.ignoreLimit && q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memStore) lastQuery() CandidateQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries[len(m.queries)-1]
}

func (m *memStore) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

type pairKey struct {
	viewerID  uint
	listingID uint64
}

// memLedger enforces one decision per (viewer, listing) like the unique index.
type memLedger struct {
	mu        sync.Mutex
	seq       int
	byID      map[string]domain.SwipeDecision
	byPair    map[pairKey]string
	recordErr error
	deleteErr error
}

func newMemLedger() *memLedger {
	return &memLedger{
		byID:   make(map[string]domain.SwipeDecision),
		byPair: make(map[pairKey]string),
	}
}

func (m *memLedger) RecordSwipe(ctx context.Context, viewerID uint, listingID uint64, decision domain.Decision, counterOfferID *uint64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return "", m.recordErr
	}
	key := pairKey{viewerID, listingID}
	if _, ok := m.byPair[key]; ok {
		return "", ErrDuplicateDecision
	}
	m.seq++
	id := fmt.Sprintf("d-%d", m.seq)
	m.byID[id] = domain.SwipeDecision{
		ID:                    id,
		ViewerID:              viewerID,
		ListingID:             listingID,
		Decision:              decision,
		CounterOfferListingID: counterOfferID,
	}
	m.byPair[key] = id
	return id, nil
}

func (m *memLedger) DeleteSwipe(ctx context.Context, decisionID string, viewerID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	d, ok := m.byID[decisionID]
	if !ok {
		return ErrDecisionNotFound
	}
	if d.ViewerID != viewerID {
		return ErrDecisionOwnership
	}
	delete(m.byID, decisionID)
	delete(m.byPair, pairKey{d.ViewerID, d.ListingID})
	return nil
}

func (m *memLedger) DecidedListingIDs(ctx context.Context, viewerID uint) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint64, 0)
	for key := range m.byPair {
		if key.viewerID == viewerID {
			out = append(out, key.listingID)
		}
	}
	return out, nil
}

func (m *memLedger) count(viewerID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.byPair {
		if key.viewerID == viewerID {
			n++
		}
	}
	return n
}

func (m *memLedger) decided(viewerID uint, listingID uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byPair[pairKey{viewerID, listingID}]
	return ok
}

type staticLoader struct {
	rc RankingContext
}

func (s staticLoader) Load(ctx context.Context, viewerID uint) RankingContext {
	return s.rc
}

type published struct {
	subject string
	data    interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{subject: subject, data: data})
	return nil
}

func (p *recordingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.subject)
	}
	return out
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryInitialInterval = time.Millisecond
	cfg.RetryMaxInterval = 2 * time.Millisecond
	return cfg
}

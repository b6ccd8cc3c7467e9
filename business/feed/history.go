package feed

import "sort"

// SwipeHistory is the set of listings a viewer has already decided on.
// Not safe for concurrent use; callers hold the owning instance lock.
type SwipeHistory struct {
	ids map[uint64]struct{}
}

func NewSwipeHistory(ids ...uint64) *SwipeHistory {
	h := &SwipeHistory{ids: make(map[uint64]struct{}, len(ids))}
	for _, id := range ids {
		h.ids[id] = struct{}{}
	}
	return h
}

func (h *SwipeHistory) Add(id uint64) {
	h.ids[id] = struct{}{}
}

func (h *SwipeHistory) Remove(id uint64) {
	delete(h.ids, id)
}

func (h *SwipeHistory) Contains(id uint64) bool {
	if h == nil {
		return false
	}
	_, ok := h.ids[id]
	return ok
}

func (h *SwipeHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.ids)
}

// IDs returns the decided ids in ascending order.
func (h *SwipeHistory) IDs() []uint64 {
	if h == nil {
		return []uint64{}
	}
	out := make([]uint64, 0, len(h.ids))
	for id := range h.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Merge adds every id of other into h.
func (h *SwipeHistory) Merge(other *SwipeHistory) {
	if other == nil {
		return
	}
	for id := range other.ids {
		h.ids[id] = struct{}{}
	}
}

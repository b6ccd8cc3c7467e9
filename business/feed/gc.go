package feed

import (
	"sort"
	"time"
)

// evictIdleLocked removes instances untouched for SessionIdleTTL.
// Caller holds s.mu and must stop the returned instances after unlocking.
func (s *FeedService) evictIdleLocked(now time.Time) []*feedInstance {
	cutoff := now.Add(-s.cfg.SessionIdleTTL).UnixNano()

	var out []*feedInstance
	for key, inst := range s.instances {
		if inst.lastUsed.Load() < cutoff {
			delete(s.instances, key)
			out = append(out, inst)
		}
	}
	return out
}

// capViewerLocked keeps room for one more instance of viewerID by dropping
// the least recently used ones.
func (s *FeedService) capViewerLocked(viewerID uint) []*feedInstance {
	type instInfo struct {
		key      instanceKey
		lastUsed int64
	}

	infos := make([]instInfo, 0)
	for key, inst := range s.instances {
		if key.viewerID != viewerID {
			continue
		}
		infos = append(infos, instInfo{key: key, lastUsed: inst.lastUsed.Load()})
	}

	toDrop := len(infos) - s.cfg.MaxInstancesPerViewer + 1
	if toDrop <= 0 {
		return nil
	}

	// oldest first
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].lastUsed < infos[j].lastUsed
	})

	out := make([]*feedInstance, 0, toDrop)
	for i := 0; i < toDrop && i < len(infos); i++ {
		out = append(out, s.instances[infos[i].key])
		delete(s.instances, infos[i].key)
	}
	return out
}

// Len reports the number of live feed instances.
func (s *FeedService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}


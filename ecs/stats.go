package ecs

import (
	"maps"
	"slices"
)

// StorageStats is a snapshot of store occupancy.
type StorageStats struct {
	EntityCount    int
	QueryCount     int
	ComponentTypes map[string]int
	Tags           map[string]int
	Queries        []QueryStats
}

// QueryStats describes one live query.
type QueryStats struct {
	Fingerprint string
	Matches     int
	RefCount    int
}

// CollectStats walks the store and returns entity, component, tag and query counts.
// Component counts are per attached component, so duplicates on one entity count twice.
func (s *Store) CollectStats() *StorageStats {
	stats := &StorageStats{
		EntityCount:    s.entities.Len(),
		QueryCount:     len(s.queries),
		ComponentTypes: make(map[string]int),
		Tags:           make(map[string]int),
	}

	for entity := range s.Entities() {
		for _, c := range entity.components {
			stats.ComponentTypes[c.ComponentType()]++
		}
		for _, tag := range entity.tags {
			stats.Tags[tag]++
		}
	}

	for _, q := range s.Queries() {
		stats.Queries = append(stats.Queries, QueryStats{
			Fingerprint: q.fingerprint,
			Matches:     len(q.matches),
			RefCount:    q.refCount,
		})
	}

	return stats
}

// ComponentTypeNames returns the component types seen by CollectStats, sorted.
func (s *StorageStats) ComponentTypeNames() []string {
	return slices.Sorted(maps.Keys(s.ComponentTypes))
}

// TagNames returns the tags seen by CollectStats, sorted.
func (s *StorageStats) TagNames() []string {
	return slices.Sorted(maps.Keys(s.Tags))
}

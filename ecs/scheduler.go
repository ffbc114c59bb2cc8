package ecs

import (
	"context"
	"time"
)

// SchedulerStats provides statistics about system execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Group          string
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	group          string
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func newSystemStats(group, name string) *systemStatsInternal {
	return &systemStatsInternal{
		group:       group,
		name:        name,
		minDuration: time.Duration(1<<63 - 1),
	}
}

func (s *systemStatsInternal) record(duration time.Duration) {
	s.executionCount++
	s.lastDuration = duration
	s.totalDuration += duration

	if duration < s.minDuration {
		s.minDuration = duration
	}
	if duration > s.maxDuration {
		s.maxDuration = duration
	}
}

func (s *systemStatsInternal) snapshot() SystemStats {
	avgDuration := time.Duration(0)
	minDuration := time.Duration(0)
	if s.executionCount > 0 {
		avgDuration = s.totalDuration / time.Duration(s.executionCount)
		minDuration = s.minDuration
	}

	return SystemStats{
		Group:          s.group,
		Name:           s.name,
		ExecutionCount: s.executionCount,
		MinDuration:    minDuration,
		MaxDuration:    s.maxDuration,
		AvgDuration:    avgDuration,
		LastDuration:   s.lastDuration,
		TotalDuration:  s.totalDuration,
	}
}

// Stats returns execution statistics for every registered system, grouped in
// group creation order and then registration order.
func (w *World[E]) Stats() *SchedulerStats {
	stats := &SchedulerStats{}

	for _, group := range w.groupOrder {
		for _, s := range w.groups[group] {
			snap := s.stats.snapshot()
			stats.Systems = append(stats.Systems, snap)
			stats.TotalExecutions += snap.ExecutionCount
		}
	}

	stats.SystemCount = len(stats.Systems)
	return stats
}

// Loop runs the given groups, in order, once per tick of interval until ctx is
// cancelled. It blocks the calling goroutine, which becomes the world's only
// caller for the duration.
func (w *World[E]) Loop(ctx context.Context, interval time.Duration, groups ...string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, group := range groups {
				w.Run(group)
			}
		}
	}
}

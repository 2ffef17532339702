// Package cluster groups a flat heartbeat list into temporally contiguous
// work sessions using a fixed idle-gap threshold.
package cluster

import (
	"sort"

	"github.com/yswstools/hackreview/internal/core/constants"
	"github.com/yswstools/hackreview/internal/core/model"
)

// Build partitions heartbeats into clusters. Input may be empty or
// unordered; output clusters are contiguous, non-overlapping and ordered
// by start time. Every input heartbeat lands in exactly one cluster.
func Build(heartbeats []model.Heartbeat) []model.Cluster {
	if len(heartbeats) == 0 {
		return []model.Cluster{}
	}

	sorted := make([]model.Heartbeat, len(heartbeats))
	copy(sorted, heartbeats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	clusters := make([]model.Cluster, 0)
	current := []model.Heartbeat{sorted[0]}

	flush := func() {
		clusters = append(clusters, model.Cluster{
			ID:         len(clusters),
			StartTime:  current[0].Timestamp(),
			EndTime:    current[len(current)-1].Timestamp(),
			Heartbeats: current,
		})
	}

	for _, hb := range sorted[1:] {
		gap := hb.Timestamp().Sub(current[len(current)-1].Timestamp())
		if gap > constants.ClusterGapThreshold {
			flush()
			current = []model.Heartbeat{hb}
			continue
		}
		current = append(current, hb)
	}
	flush()

	return clusters
}

// Significant filters out clusters below the minimum member count used for
// default display. When no cluster qualifies, all clusters are returned so
// the reviewer still has something to inspect. This is presentation policy
// layered on top of Build, not part of the partition itself.
func Significant(clusters []model.Cluster) []model.Cluster {
	kept := make([]model.Cluster, 0, len(clusters))
	for _, c := range clusters {
		if len(c.Heartbeats) >= constants.MinClusterSize {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return clusters
	}
	return kept
}

package constants

import "time"

const (
	// Clustering
	ClusterGapThreshold        = 15 * time.Minute
	ClusterGapThresholdSeconds = int64(15 * 60)

	// Minimum heartbeats for a cluster to be shown by default
	MinClusterSize = 11

	// Source file cache validity
	SourceCacheTTL = 5 * time.Minute

	// Playback context window (lines of source above/below the active line)
	ContextLines = 10

	// Seconds per hour, used for duration-to-hours conversion
	SecondsPerHour = 3600
)

// PlaybackSpeeds are the supported auto-advance multipliers, in cycle order.
var PlaybackSpeeds = []float64{0.5, 1, 2, 4}

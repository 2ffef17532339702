// Package timeline holds the playback state machine and the derived
// statistics the inspection view plots.
package timeline

import (
	"time"

	"github.com/yswstools/hackreview/internal/core/model"
)

// Delta describes the change between two consecutive heartbeats.
type Delta struct {
	DT      time.Duration
	DLine   int
	DCursor int
}

// Deltas computes inter-event deltas for consecutive heartbeats: elapsed
// time plus absolute line and cursor movement. Fewer than two heartbeats
// yields nil; the caller reports "not enough data".
func Deltas(heartbeats []model.Heartbeat) []Delta {
	if len(heartbeats) < 2 {
		return nil
	}

	deltas := make([]Delta, 0, len(heartbeats)-1)
	for i := 1; i < len(heartbeats); i++ {
		prev, curr := heartbeats[i-1], heartbeats[i]
		deltas = append(deltas, Delta{
			DT:      curr.Timestamp().Sub(prev.Timestamp()),
			DLine:   abs(curr.Lineno - prev.Lineno),
			DCursor: abs(curr.Cursorpos - prev.Cursorpos),
		})
	}
	return deltas
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

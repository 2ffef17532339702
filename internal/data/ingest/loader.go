// Package ingest fetches a user's heartbeats from the time-tracking
// service one calendar day at a time, sequentially, with progress
// reporting and explicit cancellation.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/yswstools/hackreview/internal/core/model"
	"github.com/yswstools/hackreview/internal/util"
)

// DaySource fetches one UTC calendar day of heartbeats.
type DaySource interface {
	GetHeartbeatsForDay(ctx context.Context, userID string, day time.Time) ([]model.Heartbeat, error)
}

// DayCache stores and recalls immutable past days locally.
type DayCache interface {
	GetDay(userID string, day time.Time) ([]model.Heartbeat, bool)
	PutDay(userID string, day time.Time, heartbeats []model.Heartbeat) error
}

// Token cancels an in-flight load. Results arriving after cancellation are
// discarded, never applied, so a stale load cannot overwrite a newer one.
type Token struct {
	done chan struct{}
}

// NewToken returns a live cancellation token.
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancel marks the token cancelled. Safe to call once.
func (t *Token) Cancel() {
	close(t.done)
}

// Cancelled reports whether Cancel was called.
func (t *Token) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Progress reports day-loop advancement: current day ordinal out of total.
type Progress func(current, total int)

// Loader drives the sequential day-by-day fetch loop. One request is in
// flight at a time, trading latency for freedom from rate-limit bursts.
type Loader struct {
	source DaySource
	cache  DayCache
}

// NewLoader wires a loader over the admin API and the local day cache.
// The cache may be nil; every day is then fetched remotely.
func NewLoader(source DaySource, cache DayCache) *Loader {
	return &Loader{source: source, cache: cache}
}

// Load fetches every calendar day in [from, to] for the user, in order.
// A single failed day aborts the loop and discards partial results.
// Cancellation is checked before each day is applied.
func (l *Loader) Load(ctx context.Context, userID string, from, to time.Time, token *Token, progress Progress) ([]model.Heartbeat, error) {
	start, _ := util.UTCDayBounds(from)
	end, _ := util.UTCDayBounds(to)
	if end.Before(start) {
		return nil, fmt.Errorf("date range is inverted: %s after %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	totalDays := int(end.Sub(start).Hours()/24) + 1
	today, _ := util.UTCDayBounds(time.Now())

	heartbeats := make([]model.Heartbeat, 0)
	for i := 0; i < totalDays; i++ {
		if token != nil && token.Cancelled() {
			return nil, context.Canceled
		}

		day := start.AddDate(0, 0, i)
		dayHeartbeats, err := l.loadDay(ctx, userID, day, day.Before(today))
		if err != nil {
			return nil, fmt.Errorf("fetching heartbeats for %s: %w", day.Format("2006-01-02"), err)
		}

		if token != nil && token.Cancelled() {
			return nil, context.Canceled
		}
		heartbeats = append(heartbeats, dayHeartbeats...)
		if progress != nil {
			progress(i+1, totalDays)
		}
	}

	util.LogInfof("Loaded %d heartbeats across %d days for user %s", len(heartbeats), totalDays, userID)
	return heartbeats, nil
}

// loadDay consults the cache for immutable past days before going remote.
// Today is never cached; it is still accumulating heartbeats.
func (l *Loader) loadDay(ctx context.Context, userID string, day time.Time, cacheable bool) ([]model.Heartbeat, error) {
	if cacheable && l.cache != nil {
		if cached, ok := l.cache.GetDay(userID, day); ok {
			util.LogDebugf("Day %s served from cache", day.Format("2006-01-02"))
			return cached, nil
		}
	}

	heartbeats, err := l.source.GetHeartbeatsForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	if cacheable && l.cache != nil {
		if err := l.cache.PutDay(userID, day, heartbeats); err != nil {
			util.LogWarnf("Failed to cache day %s: %v", day.Format("2006-01-02"), err)
		}
	}
	return heartbeats, nil
}

// RangeForProjects derives the fetch range from the matched projects'
// first and last heartbeat timestamps. The bool is false when no project
// reports any activity.
func RangeForProjects(projects []model.TrackedProject) (time.Time, time.Time, bool) {
	var first, last int64
	for _, p := range projects {
		if p.FirstHeartbeat == 0 && p.LastHeartbeat == 0 {
			continue
		}
		if first == 0 || p.FirstHeartbeat < first {
			first = p.FirstHeartbeat
		}
		if p.LastHeartbeat > last {
			last = p.LastHeartbeat
		}
	}
	if first == 0 {
		return time.Time{}, time.Time{}, false
	}
	return time.Unix(first, 0).UTC(), time.Unix(last, 0).UTC(), true
}

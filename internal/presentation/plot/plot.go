// Package plot renders the inspection view's statistical plots as text:
// line position over elapsed time, and per-step deltas.
package plot

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yswstools/hackreview/internal/core/model"
	"github.com/yswstools/hackreview/internal/core/timeline"
)

const (
	scatterHeight = 12
	barMaxWidth   = 40
)

// Scatter renders lineno against elapsed seconds for one cluster's
// heartbeats. Needs at least two heartbeats.
func Scatter(heartbeats []model.Heartbeat, width int) string {
	if len(heartbeats) < 2 {
		return "not enough data"
	}
	if width < 20 {
		width = 20
	}

	start := heartbeats[0].Timestamp()
	span := heartbeats[len(heartbeats)-1].Timestamp().Sub(start).Seconds()
	if span <= 0 {
		span = 1
	}

	maxLine := 1
	for _, hb := range heartbeats {
		if hb.Lineno > maxLine {
			maxLine = hb.Lineno
		}
	}

	grid := make([][]rune, scatterHeight)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, hb := range heartbeats {
		x := int(hb.Timestamp().Sub(start).Seconds() / span * float64(width-1))
		y := hb.Lineno * (scatterHeight - 1) / maxLine
		// Screen rows grow downward; line numbers grow upward
		row := scatterHeight - 1 - y
		grid[row][x] = '•'
	}

	var b strings.Builder
	fmt.Fprintf(&b, "line 1..%d over %.0fs\n", maxLine, span)
	for _, row := range grid {
		b.WriteString("│")
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	b.WriteString("└" + strings.Repeat("─", width))
	return b.String()
}

// DeltaBars renders per-step time, line and cursor deltas as horizontal
// bars, one row per consecutive heartbeat pair.
func DeltaBars(deltas []timeline.Delta) string {
	if len(deltas) == 0 {
		return "not enough data"
	}

	maxDT := 1.0
	for _, d := range deltas {
		if s := d.DT.Seconds(); s > maxDT {
			maxDT = s
		}
	}

	var b strings.Builder
	for i, d := range deltas {
		barLen := int(d.DT.Seconds() / maxDT * barMaxWidth)
		bar := strings.Repeat("█", barLen)
		label := fmt.Sprintf("%3d  Δt %6.1fs  ΔL %4d  ΔC %4d  ", i+1, d.DT.Seconds(), d.DLine, d.DCursor)
		b.WriteString(label)
		b.WriteString(bar)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FitLabel pads or truncates a plot label to a fixed display width.
func FitLabel(label string, width int) string {
	w := runewidth.StringWidth(label)
	if w > width {
		return runewidth.Truncate(label, width, "…")
	}
	return label + strings.Repeat(" ", width-w)
}

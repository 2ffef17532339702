package timeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yswstools/hackreview/internal/core/model"
)

func hb(t int64, lineno, cursor int) model.Heartbeat {
	return model.Heartbeat{Time: model.FlexTime(t), Lineno: lineno, Cursorpos: cursor}
}

func TestDeltasNotEnoughData(t *testing.T) {
	assert.Nil(t, Deltas(nil))
	assert.Nil(t, Deltas([]model.Heartbeat{hb(0, 1, 0)}))
}

func TestDeltasComputation(t *testing.T) {
	deltas := Deltas([]model.Heartbeat{
		hb(0, 10, 3),
		hb(5, 12, 40),
		hb(12, 9, 5),
	})

	require.Len(t, deltas, 2)
	assert.Equal(t, Delta{DT: 5 * time.Second, DLine: 2, DCursor: 37}, deltas[0])
	assert.Equal(t, Delta{DT: 7 * time.Second, DLine: 3, DCursor: 35}, deltas[1])
}

func group(n int) model.FileGroup {
	hbs := make([]model.Heartbeat, n)
	for i := range hbs {
		hbs[i] = hb(int64(i), i+1, 0)
	}
	return model.FileGroup{Entity: "src/main.go", RelativePath: "main.go", Heartbeats: hbs}
}

func TestPlayerSelectGroupResetsAndLoads(t *testing.T) {
	p := NewPlayer()
	assert.Equal(t, StateIdle, p.State())

	p.SelectGroup(group(3))
	assert.Equal(t, StateLoading, p.State())
	assert.Equal(t, 0, p.Index())

	// Seeking mid-fetch is ignored
	p.Seek(2)
	assert.Equal(t, 0, p.Index())

	p.SetSource("a\nb\nc")
	assert.Equal(t, StateReady, p.State())
}

func TestPlayerPlayPauseAndAutoStop(t *testing.T) {
	p := NewPlayer()
	p.SelectGroup(group(3))
	p.SetSource("x")

	p.TogglePlay()
	assert.Equal(t, StatePlaying, p.State())

	p.Tick()
	assert.Equal(t, 1, p.Index())
	p.Tick()
	assert.Equal(t, 2, p.Index())
	// Last index reached: playback stops on its own
	assert.Equal(t, StatePaused, p.State())
}

func TestPlayerPlayAtEndRestarts(t *testing.T) {
	p := NewPlayer()
	p.SelectGroup(group(3))
	p.SetSource("x")
	p.Seek(2)

	p.TogglePlay()
	assert.Equal(t, 0, p.Index())
	assert.Equal(t, StatePlaying, p.State())
}

func TestPlayerSeekClamped(t *testing.T) {
	p := NewPlayer()
	p.SelectGroup(group(5))
	p.SetSource("x")

	p.Seek(99)
	assert.Equal(t, 4, p.Index())
	p.Step(-99)
	assert.Equal(t, 0, p.Index())
}

func TestPlayerErrorIsRecoverable(t *testing.T) {
	p := NewPlayer()
	p.SelectGroup(group(2))
	p.SetError("fetch failed: 500")
	assert.Equal(t, StateError, p.State())
	assert.Equal(t, "fetch failed: 500", p.ErrMsg())

	p.SelectGroup(group(3))
	assert.Equal(t, StateLoading, p.State())
	assert.Empty(t, p.ErrMsg())
}

func TestPlayerSpeedCycle(t *testing.T) {
	p := NewPlayer()
	assert.InDelta(t, 1.0, p.Speed(), 1e-9)
	assert.Equal(t, time.Second, p.TickPeriod())

	p.CycleSpeed()
	assert.InDelta(t, 2.0, p.Speed(), 1e-9)
	assert.Equal(t, 500*time.Millisecond, p.TickPeriod())
}

func TestWindowCenteredAndClamped(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = strings.Repeat("x", 20)
	}
	src := strings.Join(lines, "\n")

	p := NewPlayer()
	g := model.FileGroup{Heartbeats: []model.Heartbeat{hb(0, 25, 5)}}
	p.SelectGroup(g)
	p.SetSource(src)

	window := p.Window()
	require.Len(t, window, 21)
	assert.Equal(t, 15, window[0].Number)
	assert.Equal(t, 35, window[len(window)-1].Number)

	var active *SourceLine
	for i := range window {
		if window[i].Active {
			active = &window[i]
		}
	}
	require.NotNil(t, active)
	assert.Equal(t, 25, active.Number)
	assert.Equal(t, 5, active.CursorCol)
}

func TestWindowCursorPastLineEnd(t *testing.T) {
	p := NewPlayer()
	g := model.FileGroup{Heartbeats: []model.Heartbeat{hb(0, 1, 99)}}
	p.SelectGroup(g)
	p.SetSource("short")

	window := p.Window()
	require.Len(t, window, 1)
	assert.True(t, window[0].Active)
	assert.Equal(t, -1, window[0].CursorCol)
}

func TestWindowCursorCountsRunes(t *testing.T) {
	// "日本語abc" is 6 runes but 12 bytes; position 5 is the final rune,
	// position 7 is past the line under rune counting.
	p := NewPlayer()
	g := model.FileGroup{Heartbeats: []model.Heartbeat{hb(0, 1, 5), hb(1, 1, 7)}}
	p.SelectGroup(g)
	p.SetSource("日本語abc")

	window := p.Window()
	require.Len(t, window, 1)
	assert.Equal(t, 5, window[0].CursorCol)

	p.Step(1)
	window = p.Window()
	require.Len(t, window, 1)
	assert.Equal(t, -1, window[0].CursorCol)
}

func TestWindowClampsAtTopOfFile(t *testing.T) {
	p := NewPlayer()
	g := model.FileGroup{Heartbeats: []model.Heartbeat{hb(0, 2, 0)}}
	p.SelectGroup(g)
	p.SetSource("a\nb\nc\nd\ne")

	window := p.Window()
	require.NotEmpty(t, window)
	assert.Equal(t, 1, window[0].Number)
	assert.Equal(t, 5, window[len(window)-1].Number)
}

package timeline

import (
	"strings"
	"time"

	"github.com/yswstools/hackreview/internal/core/constants"
	"github.com/yswstools/hackreview/internal/core/model"
)

// State is the playback state of the inspection view.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StatePlaying
	StatePaused
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Player steps through one file group's heartbeats, overlaying cursor and
// line position on fetched source. All methods are synchronous; the caller
// drives ticks and source fetches from its own loop, so no locking here.
type Player struct {
	state      State
	group      model.FileGroup
	index      int
	speedIdx   int
	sourceText string
	lines      []string
	errMsg     string
}

// NewPlayer starts in Idle until a file group is selected.
func NewPlayer() *Player {
	return &Player{state: StateIdle, speedIdx: 1}
}

// State reports the current playback state.
func (p *Player) State() State { return p.state }

// Index reports the current heartbeat index within the group.
func (p *Player) Index() int { return p.index }

// Group returns the active file group.
func (p *Player) Group() model.FileGroup { return p.group }

// Speed reports the active playback multiplier.
func (p *Player) Speed() float64 { return constants.PlaybackSpeeds[p.speedIdx] }

// ErrMsg returns the inline error message when in Error state.
func (p *Player) ErrMsg() string { return p.errMsg }

// SelectGroup switches the active file group, resets the index to zero and
// enters Loading; the caller fetches the group's source next.
func (p *Player) SelectGroup(group model.FileGroup) {
	p.group = group
	p.index = 0
	p.state = StateLoading
	p.sourceText = ""
	p.lines = nil
	p.errMsg = ""
}

// SetSource delivers fetched source text, completing a Loading transition.
func (p *Player) SetSource(text string) {
	p.sourceText = text
	p.lines = strings.Split(text, "\n")
	p.state = StateReady
}

// SetSourceMissing marks the source as unavailable (404). The view still
// allows stepping; only the overlay is absent.
func (p *Player) SetSourceMissing() {
	p.sourceText = ""
	p.lines = nil
	p.state = StateReady
}

// SetError records a fetch failure. Non-fatal: group navigation recovers.
func (p *Player) SetError(msg string) {
	p.errMsg = msg
	p.state = StateError
}

// TogglePlay starts or pauses auto-advance. Playing from the last heartbeat
// restarts at index zero first.
func (p *Player) TogglePlay() {
	switch p.state {
	case StatePlaying:
		p.state = StatePaused
	case StateReady, StatePaused:
		if p.index >= len(p.group.Heartbeats)-1 {
			p.index = 0
		}
		p.state = StatePlaying
	}
}

// Tick advances playback by one heartbeat. Reaching the last index stops
// playback; this is the terminal condition, not a cancellation.
func (p *Player) Tick() {
	if p.state != StatePlaying {
		return
	}
	if p.index < len(p.group.Heartbeats)-1 {
		p.index++
	}
	if p.index >= len(p.group.Heartbeats)-1 {
		p.state = StatePaused
	}
}

// TickPeriod is the auto-advance interval at the current speed.
func (p *Player) TickPeriod() time.Duration {
	return time.Duration(float64(time.Second) / p.Speed())
}

// CycleSpeed advances to the next playback multiplier.
func (p *Player) CycleSpeed() {
	p.speedIdx = (p.speedIdx + 1) % len(constants.PlaybackSpeeds)
}

// Seek jumps to an absolute heartbeat index, clamped to the group's bounds.
// Ignored mid-fetch; manual stepping never starts or stops playback.
func (p *Player) Seek(index int) {
	if p.state == StateLoading || len(p.group.Heartbeats) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(p.group.Heartbeats)-1 {
		index = len(p.group.Heartbeats) - 1
	}
	p.index = index
}

// Step moves the index by delta heartbeats (negative for backwards).
func (p *Player) Step(delta int) {
	p.Seek(p.index + delta)
}

// Current returns the heartbeat at the playback position.
func (p *Player) Current() (model.Heartbeat, bool) {
	if len(p.group.Heartbeats) == 0 || p.index >= len(p.group.Heartbeats) {
		return model.Heartbeat{}, false
	}
	return p.group.Heartbeats[p.index], true
}

// SourceLine is one rendered line of the context window.
type SourceLine struct {
	Number    int
	Text      string
	Active    bool
	CursorCol int // 0-based rune column of the cursor marker; -1 when inactive
}

// Window returns the fixed-size context window centered on the current
// heartbeat's line: ContextLines above and below, clamped to file bounds.
// The cursor column is -1 past the end of the active line so the renderer
// shows a placeholder instead.
func (p *Player) Window() []SourceLine {
	hb, ok := p.Current()
	if !ok || len(p.lines) == 0 {
		return nil
	}

	active := hb.Lineno // 1-based
	if active < 1 {
		active = 1
	}
	if active > len(p.lines) {
		active = len(p.lines)
	}

	start := active - constants.ContextLines
	if start < 1 {
		start = 1
	}
	end := active + constants.ContextLines
	if end > len(p.lines) {
		end = len(p.lines)
	}

	window := make([]SourceLine, 0, end-start+1)
	for n := start; n <= end; n++ {
		line := SourceLine{Number: n, Text: p.lines[n-1], CursorCol: -1}
		if n == active {
			line.Active = true
			// Cursorpos counts characters, not bytes
			if hb.Cursorpos >= 0 && hb.Cursorpos < len([]rune(line.Text)) {
				line.CursorCol = hb.Cursorpos
			}
		}
		window = append(window, line)
	}
	return window
}

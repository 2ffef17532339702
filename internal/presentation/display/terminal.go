// Package display drives the raw-terminal replay view: alternate screen
// management, frame rendering and keyboard input.
package display

import (
	"fmt"
	"os"
	"strings"

	"github.com/yswstools/hackreview/internal/util"
	"golang.org/x/term"
)

// Terminal owns the alternate screen for the replay session.
type Terminal struct {
	inAlternateScreen bool
	previousFrame     []string
}

// NewTerminal returns an idle terminal display.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Size reports the terminal dimensions, with a sane fallback when stdout
// is not a terminal.
func (t *Terminal) Size() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// EnterAlternateScreen switches to the alternate screen buffer.
func (t *Terminal) EnterAlternateScreen() {
	if t.inAlternateScreen {
		return
	}
	fmt.Print(util.AltScreenOn)
	fmt.Print(util.ClearScreen)
	fmt.Print(util.MoveCursorHome)
	fmt.Print(util.HideCursor)
	t.inAlternateScreen = true
	t.previousFrame = nil
}

// ExitAlternateScreen restores the normal screen buffer.
func (t *Terminal) ExitAlternateScreen() {
	if !t.inAlternateScreen {
		return
	}
	fmt.Print(util.ClearScreen)
	fmt.Print(util.MoveCursorHome)
	fmt.Print(util.ShowCursor)
	fmt.Print(util.AltScreenOff)
	t.inAlternateScreen = false
}

// Render draws a frame, updating only the lines that changed since the
// previous one to avoid flicker at higher playback speeds.
func (t *Terminal) Render(lines []string) {
	_, height := t.Size()
	if len(lines) > height {
		lines = lines[:height]
	}

	var b strings.Builder
	for i, line := range lines {
		if i < len(t.previousFrame) && t.previousFrame[i] == line {
			continue
		}
		b.WriteString(util.MoveCursor(i+1, 1))
		b.WriteString(util.ClearLine)
		b.WriteString(line)
	}
	// Blank out leftover rows from a taller previous frame
	for i := len(lines); i < len(t.previousFrame); i++ {
		b.WriteString(util.MoveCursor(i+1, 1))
		b.WriteString(util.ClearLine)
	}
	fmt.Print(b.String())

	t.previousFrame = make([]string, len(lines))
	copy(t.previousFrame, lines)
}

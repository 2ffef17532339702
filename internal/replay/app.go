package replay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yswstools/hackreview/internal/core/model"
	"github.com/yswstools/hackreview/internal/core/pathinfer"
	"github.com/yswstools/hackreview/internal/core/timeline"
	"github.com/yswstools/hackreview/internal/presentation/display"
	"github.com/yswstools/hackreview/internal/presentation/plot"
	"github.com/yswstools/hackreview/internal/util"
)

// App is the interactive playback session for one cluster.
//
// Keys: space play/pause, left/right step, up/down switch file, s speed,
// p toggle plots, q or Ctrl+C quit.
type App struct {
	cluster  model.Cluster
	groups   []model.FileGroup
	root     string
	groupIdx int

	player   *timeline.Player
	source   *SourceProvider
	terminal *display.Terminal
	keyboard *display.KeyboardReader

	showPlots bool
	deltas    []timeline.Delta
}

// NewApp prepares a playback session: buckets the cluster's heartbeats by
// file and selects the most-edited group.
func NewApp(cluster model.Cluster, source *SourceProvider) *App {
	inferred := pathinfer.GroupByFile(cluster.Heartbeats)
	return &App{
		cluster:  cluster,
		groups:   inferred.Groups,
		root:     inferred.ProjectRoot,
		player:   timeline.NewPlayer(),
		source:   source,
		terminal: display.NewTerminal(),
		deltas:   timeline.Deltas(cluster.Heartbeats),
	}
}

// Run drives the event loop until the reviewer quits.
func (a *App) Run(ctx context.Context) error {
	if len(a.groups) == 0 {
		return fmt.Errorf("cluster has no heartbeats to replay")
	}

	keyboard, err := display.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	a.keyboard = keyboard
	defer a.keyboard.Close()

	a.terminal.EnterAlternateScreen()
	defer a.terminal.ExitAlternateScreen()

	a.selectGroup(ctx, 0)
	a.render()

	ticker := time.NewTicker(a.player.TickPeriod())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-a.keyboard.Events():
			if quit := a.handleKey(ctx, ev); quit {
				return nil
			}
			ticker.Reset(a.player.TickPeriod())
			a.render()
		case <-ticker.C:
			if a.player.State() == timeline.StatePlaying {
				a.player.Tick()
				a.render()
			}
		}
	}
}

func (a *App) handleKey(ctx context.Context, ev display.KeyEvent) (quit bool) {
	switch {
	case ev.Type == display.KeyEscape, ev.Key == 'q', ev.Key == 3:
		return true
	case ev.Key == ' ':
		a.player.TogglePlay()
	case ev.Type == display.KeyRight, ev.Key == 'l':
		a.player.Step(1)
	case ev.Type == display.KeyLeft, ev.Key == 'h':
		a.player.Step(-1)
	case ev.Type == display.KeyDown, ev.Key == 'j':
		a.selectGroup(ctx, a.groupIdx+1)
	case ev.Type == display.KeyUp, ev.Key == 'k':
		a.selectGroup(ctx, a.groupIdx-1)
	case ev.Key == 's':
		a.player.CycleSpeed()
	case ev.Key == 'p':
		a.showPlots = !a.showPlots
	case ev.Key == '0':
		a.player.Seek(0)
	}
	return false
}

// selectGroup switches the active file group and fetches its source,
// keyed by the group's relative path and the first heartbeat's branch.
func (a *App) selectGroup(ctx context.Context, idx int) {
	if idx < 0 || idx >= len(a.groups) {
		return
	}
	a.groupIdx = idx
	group := a.groups[idx]
	a.player.SelectGroup(group)

	ref := ""
	if len(group.Heartbeats) > 0 {
		ref = group.Heartbeats[0].Branch
	}

	content, found, err := a.source.Fetch(ctx, group.RelativePath, ref)
	switch {
	case err != nil:
		a.player.SetError(err.Error())
	case !found:
		a.player.SetSourceMissing()
	default:
		a.player.SetSource(content)
	}
}

func (a *App) render() {
	width, _ := a.terminal.Size()
	lines := make([]string, 0, 40)

	group := a.player.Group()
	hb, _ := a.player.Current()

	header := fmt.Sprintf("Cluster %d  %s → %s  (%d heartbeats, %d files, root %s)",
		a.cluster.ID,
		a.cluster.StartTime.Format("2006-01-02 15:04"),
		a.cluster.EndTime.Format("15:04"),
		len(a.cluster.Heartbeats), len(a.groups), a.root)
	lines = append(lines, util.FormatHeaderTitle(util.TruncateToWidth(header, width)))

	status := fmt.Sprintf("[%s] %s  %d/%d  %.1fx  line %d col %d",
		a.player.State(), group.RelativePath,
		a.player.Index()+1, len(group.Heartbeats),
		a.player.Speed(), hb.Lineno, hb.Cursorpos)
	lines = append(lines, util.TruncateToWidth(status, width))
	lines = append(lines, a.progressBar(width))
	lines = append(lines, "")

	switch a.player.State() {
	case timeline.StateError:
		lines = append(lines, util.FormatErrorText("source unavailable: "+a.player.ErrMsg()))
	case timeline.StateLoading:
		lines = append(lines, "fetching source…")
	default:
		lines = append(lines, a.sourceLines(width)...)
	}

	if a.showPlots {
		lines = append(lines, "", util.FormatDataTitle("Position vs time"))
		lines = append(lines, strings.Split(plot.Scatter(a.cluster.Heartbeats, width-4), "\n")...)
		lines = append(lines, "", util.FormatDataTitle("Inter-event deltas"))
		lines = append(lines, strings.Split(plot.DeltaBars(a.deltas), "\n")...)
	}

	lines = append(lines, "", "space play/pause · ←/→ step · ↑/↓ file · s speed · p plots · q quit")
	a.terminal.Render(lines)
}

// sourceLines renders the context window with the active line highlighted
// and the cursor column marked.
func (a *App) sourceLines(width int) []string {
	window := a.player.Window()
	if len(window) == 0 {
		hb, ok := a.player.Current()
		if ok && hb.Entity != "" {
			return []string{"no source overlay for " + hb.Entity}
		}
		return []string{"no source overlay"}
	}

	out := make([]string, 0, len(window))
	for _, line := range window {
		text := util.TruncateToWidth(line.Text, width-8)
		prefix := fmt.Sprintf("%5d  ", line.Number)
		if !line.Active {
			out = append(out, prefix+text)
			continue
		}
		runes := []rune(text)
		if line.CursorCol >= 0 && line.CursorCol < len(runes) {
			marked := string(runes[:line.CursorCol]) +
				util.ColorReverse + string(runes[line.CursorCol]) + util.ColorReset +
				util.ColorYellow + string(runes[line.CursorCol+1:])
			out = append(out, util.ColorYellow+prefix+marked+util.ColorReset)
		} else {
			// Cursor past end of line: highlight the line, blank marker
			out = append(out, util.ColorYellow+prefix+text+" "+util.ColorReverse+" "+util.ColorReset)
		}
	}
	return out
}

func (a *App) progressBar(width int) string {
	total := len(a.player.Group().Heartbeats)
	if total <= 1 {
		return ""
	}
	barWidth := width - 4
	if barWidth < 10 {
		barWidth = 10
	}
	filled := a.player.Index() * (barWidth - 1) / (total - 1)
	return "[" + strings.Repeat("─", filled) + "●" + strings.Repeat("·", barWidth-1-filled) + "]"
}

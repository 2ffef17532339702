package aggregate

import (
	"fmt"
	"math"
	"strings"

	"github.com/yswstools/hackreview/internal/core/constants"
	"github.com/yswstools/hackreview/internal/core/model"
)

// ProjectMatch pairs a declared key with the tracked project it resolved to.
type ProjectMatch struct {
	Key     string
	Project model.TrackedProject
	Hours   float64
}

// SyncResult is the outcome of an hour-sync match. A zero-value result
// (no matches) means nothing should be written back.
type SyncResult struct {
	Hours         float64
	Justification string
	Matches       []ProjectMatch
}

// Sync resolves each declared key of the active submission to its
// best-matching tracked project using bidirectional substring containment,
// sums the matched durations rounded to one decimal hour, and builds the
// human-readable justification enumerating each match. Looser than the
// aggregate's exact matching on purpose: declared keys are free-form text.
func Sync(keys []string, projects []model.TrackedProject) SyncResult {
	matched := make(map[string]struct{})
	var matches []ProjectMatch
	totalSeconds := 0

	for _, key := range keys {
		keyLower := strings.ToLower(strings.TrimSpace(key))
		if keyLower == "" {
			continue
		}
		// One project per key: the first containment hit wins.
		for _, p := range projects {
			nameLower := strings.ToLower(p.Name)
			if _, done := matched[nameLower]; done {
				continue
			}
			if strings.Contains(keyLower, nameLower) || strings.Contains(nameLower, keyLower) {
				matched[nameLower] = struct{}{}
				matches = append(matches, ProjectMatch{
					Key:     key,
					Project: p,
					Hours:   roundHours(p.TotalSeconds),
				})
				totalSeconds += p.TotalSeconds
				break
			}
		}
	}

	if len(matches) == 0 {
		return SyncResult{}
	}

	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = fmt.Sprintf("%s: %.1fh", m.Project.Name, m.Hours)
	}

	return SyncResult{
		Hours:         roundHours(totalSeconds),
		Justification: "Hackatime: " + strings.Join(parts, ", "),
		Matches:       matches,
	}
}

func roundHours(seconds int) float64 {
	return math.Round(float64(seconds)/constants.SecondsPerHour*10) / 10
}

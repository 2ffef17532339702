// Package aggregate computes cross-submission tracked-hour totals and the
// reviewer-triggered hour-sync match against the time-tracking service.
package aggregate

import (
	"sort"
	"strings"

	"github.com/yswstools/hackreview/internal/core/constants"
	"github.com/yswstools/hackreview/internal/core/model"
)

// RelevantProjects returns the de-duplicated, lower-cased union of declared
// project keys across the author's approved submissions. When the viewed
// submission itself is unapproved, it alone contributes its keys, so an
// in-review entry still gets an aggregate.
func RelevantProjects(viewed model.Submission, siblings []model.Submission) []string {
	var pool []model.Submission
	if viewed.Approved {
		for _, s := range siblings {
			if s.Approved {
				pool = append(pool, s)
			}
		}
	} else {
		pool = []model.Submission{viewed}
	}

	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for _, s := range pool {
		for _, k := range s.DeclaredKeys() {
			norm := strings.ToLower(k)
			if _, ok := seen[norm]; ok {
				continue
			}
			seen[norm] = struct{}{}
			keys = append(keys, norm)
		}
	}
	sort.Strings(keys)
	return keys
}

// Hours sums the tracked duration of every project whose name matches one
// of the normalized keys by exact case-insensitive equality, once per
// project, and reports the total in hours. The key set is already a
// de-duplicated union, so a project referenced by two submissions is never
// double-counted.
func Hours(keys []string, projects []model.TrackedProject) float64 {
	matched := make(map[string]struct{})
	total := 0
	for _, p := range projects {
		name := strings.ToLower(p.Name)
		if _, done := matched[name]; done {
			continue
		}
		for _, k := range keys {
			if name == k {
				matched[name] = struct{}{}
				total += p.TotalSeconds
				break
			}
		}
	}
	return float64(total) / constants.SecondsPerHour
}

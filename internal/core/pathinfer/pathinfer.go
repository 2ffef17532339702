// Package pathinfer reconstructs a project's root directory from the fuzzy
// file paths heartbeats report, so the review view can show clean relative
// paths and build code-host fetch URLs.
package pathinfer

import (
	"sort"
	"strings"

	"github.com/yswstools/hackreview/internal/core/model"
)

// Result carries the per-file buckets and the inferred shared root for one
// cluster. ProjectRoot is advisory: a wrong inference degrades display and
// source fetches but cannot corrupt anything.
type Result struct {
	Groups      []model.FileGroup
	ProjectRoot string
}

// GroupByFile buckets heartbeats by reported entity, infers the shared
// project root across distinct entities, and computes each bucket's
// root-relative path. Buckets are ordered by descending heartbeat count so
// the most-edited file is selected first downstream.
func GroupByFile(heartbeats []model.Heartbeat) Result {
	if len(heartbeats) == 0 {
		return Result{Groups: []model.FileGroup{}}
	}

	byEntity := make(map[string][]model.Heartbeat)
	order := make([]string, 0)
	for _, hb := range heartbeats {
		if _, seen := byEntity[hb.Entity]; !seen {
			order = append(order, hb.Entity)
		}
		byEntity[hb.Entity] = append(byEntity[hb.Entity], hb)
	}

	rootSegments := inferRoot(order)

	groups := make([]model.FileGroup, 0, len(order))
	for _, entity := range order {
		groups = append(groups, model.FileGroup{
			Entity:       entity,
			RelativePath: relativePath(entity, rootSegments),
			Heartbeats:   byEntity[entity],
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Heartbeats) > len(groups[j].Heartbeats)
	})

	return Result{Groups: groups, ProjectRoot: strings.Join(rootSegments, "/")}
}

// splitPath splits on both separator styles and drops empty segments, so
// absolute, relative and Windows paths all normalize the same way.
func splitPath(path string) []string {
	raw := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// inferRoot picks the directory prefix maximizing occurrences × depth over
// all distinct entities. Deeper shared ancestors beat shallow ones, but a
// prefix only qualifies when at least two entities share it; otherwise a
// single file's own directory would always win. Ties keep the first prefix
// visited. Fallback when nothing qualifies: the first entity's directory.
func inferRoot(entities []string) []string {
	counts := make(map[string]int)
	visitOrder := make([]string, 0)

	for _, entity := range entities {
		segments := splitPath(entity)
		for depth := 1; depth < len(segments); depth++ {
			prefix := strings.Join(segments[:depth], "/")
			if _, seen := counts[prefix]; !seen {
				visitOrder = append(visitOrder, prefix)
			}
			counts[prefix]++
		}
	}

	bestScore := 0
	best := ""
	for _, prefix := range visitOrder {
		count := counts[prefix]
		if count < 2 {
			continue
		}
		depth := len(splitPath(prefix))
		score := count * depth
		if score > bestScore {
			bestScore = score
			best = prefix
		}
	}

	if best != "" {
		return splitPath(best)
	}

	// No shared prefix: first entity minus its filename.
	first := splitPath(entities[0])
	if len(first) <= 1 {
		return []string{}
	}
	return first[:len(first)-1]
}

// relativePath strips however many leading segments positionally match the
// root, case-insensitively, stopping at the first mismatch. When the entity
// is the root itself the filename alone is returned.
func relativePath(entity string, root []string) string {
	segments := splitPath(entity)
	if len(segments) == 0 {
		return ""
	}

	strip := 0
	for strip < len(root) && strip < len(segments) {
		if !strings.EqualFold(segments[strip], root[strip]) {
			break
		}
		strip++
	}

	remaining := segments[strip:]
	if len(remaining) == 0 {
		return segments[len(segments)-1]
	}
	return strings.Join(remaining, "/")
}

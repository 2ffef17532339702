package model

import "strings"

// Submission is one review-queue entry from the datastore. It is an
// immutable value; writes go through the datastore client, never through
// the record itself.
type Submission struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	AuthorEmail   string  `json:"authorEmail"`
	ProjectKeys   string  `json:"hackatimeProjectKeys"`
	Approved      bool    `json:"approved"`
	HoursDeclared float64 `json:"hoursDeclared"`
	RepoURL       string  `json:"repoUrl"`
	Status        string  `json:"status"`
	Justification string  `json:"hoursJustification,omitempty"`
}

// DeclaredKeys splits the raw hackatimeProjectKeys string on commas and
// semicolons, trimming whitespace and dropping empties.
func (s Submission) DeclaredKeys() []string {
	raw := strings.FieldsFunc(s.ProjectKeys, func(r rune) bool {
		return r == ',' || r == ';'
	})
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// TrackedProject is the time-tracking service's per-project summary.
type TrackedProject struct {
	Name           string `json:"name"`
	TotalSeconds   int    `json:"total_duration"`
	FirstHeartbeat int64  `json:"first_heartbeat"`
	LastHeartbeat  int64  `json:"last_heartbeat"`
}

// Package review orchestrates one submission's review: datastore lookup,
// heartbeat ingestion, clustering and hour aggregation.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/yswstools/hackreview/internal/core/aggregate"
	"github.com/yswstools/hackreview/internal/core/cluster"
	"github.com/yswstools/hackreview/internal/core/model"
	"github.com/yswstools/hackreview/internal/data/ingest"
	"github.com/yswstools/hackreview/internal/util"
)

// SubmissionStore reads submissions from the review datastore.
type SubmissionStore interface {
	GetSubmission(ctx context.Context, id string) (model.Submission, error)
	ListSubmissionsByAuthor(ctx context.Context, email string) ([]model.Submission, error)
}

// TimeTracker resolves users and projects in the time-tracking service.
type TimeTracker interface {
	FindUserIDByEmail(ctx context.Context, email string) (string, error)
	GetUserTrustLevel(ctx context.Context, userID string) (string, error)
	GetUserProjects(ctx context.Context, userID string) ([]model.TrackedProject, error)
}

// Result is everything the review surfaces need for one submission.
// Panels degrade independently: a nil Heartbeats with a non-empty
// HeartbeatErr still carries the submission header and aggregate.
type Result struct {
	Submission     model.Submission
	Siblings       []model.Submission
	UserID         string
	TrustLevel     string
	Projects       []model.TrackedProject
	Heartbeats     []model.Heartbeat
	Clusters       []model.Cluster
	AggregateHours float64
	TrackedHours   float64
	HeartbeatErr   string
	NotFound       string
}

// Service ties the datastore, the time tracker and the ingestion loop
// together.
type Service struct {
	store   SubmissionStore
	tracker TimeTracker
	loader  *ingest.Loader
}

// NewService wires a review service.
func NewService(store SubmissionStore, tracker TimeTracker, loader *ingest.Loader) *Service {
	return &Service{store: store, tracker: tracker, loader: loader}
}

// Review builds the full review result for one submission. Heartbeat
// ingestion failures land in Result.HeartbeatErr instead of aborting;
// the aggregate panel only needs the project summaries.
func (s *Service) Review(ctx context.Context, submissionID string, token *ingest.Token, progress ingest.Progress) (*Result, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("loading submission %s: %w", submissionID, err)
	}

	res := &Result{Submission: sub}

	siblings, err := s.store.ListSubmissionsByAuthor(ctx, sub.AuthorEmail)
	if err != nil {
		util.LogWarnf("Sibling lookup failed for %s: %v", sub.AuthorEmail, err)
		siblings = []model.Submission{sub}
	}
	res.Siblings = siblings

	userID, err := s.tracker.FindUserIDByEmail(ctx, sub.AuthorEmail)
	if err != nil {
		return nil, fmt.Errorf("resolving author %s: %w", sub.AuthorEmail, err)
	}
	if userID == "" {
		res.NotFound = fmt.Sprintf("no time-tracking user for %s", sub.AuthorEmail)
		return res, nil
	}
	res.UserID = userID

	// Trust lookup degrades independently of the heartbeat panels.
	trust, err := s.tracker.GetUserTrustLevel(ctx, userID)
	if err != nil {
		util.LogWarnf("Trust lookup failed for user %s: %v", userID, err)
	} else {
		res.TrustLevel = trust
	}

	projects, err := s.tracker.GetUserProjects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading projects for user %s: %w", userID, err)
	}
	res.Projects = projects

	keys := aggregate.RelevantProjects(sub, siblings)
	res.AggregateHours = aggregate.Hours(keys, projects)

	matched := matchDeclared(sub.DeclaredKeys(), projects)
	if len(matched) == 0 {
		res.NotFound = "no tracked projects match the declared keys"
		return res, nil
	}

	for _, p := range matched {
		res.TrackedHours += float64(p.TotalSeconds) / 3600
	}

	from, to, ok := ingest.RangeForProjects(matched)
	if !ok {
		res.NotFound = "matched projects report no heartbeat activity"
		return res, nil
	}

	heartbeats, err := s.loader.Load(ctx, userID, from, to, token, progress)
	if err != nil {
		// Ingestion failure degrades the cluster panel only.
		res.HeartbeatErr = err.Error()
		return res, nil
	}

	res.Heartbeats = filterByProjects(heartbeats, matched)
	res.Clusters = cluster.Build(res.Heartbeats)
	return res, nil
}

// matchDeclared applies the aggregate engine's exact case-insensitive
// matching to select the submission's own tracked projects.
func matchDeclared(keys []string, projects []model.TrackedProject) []model.TrackedProject {
	normalized := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		normalized[strings.ToLower(k)] = struct{}{}
	}
	matched := make([]model.TrackedProject, 0)
	for _, p := range projects {
		if _, ok := normalized[strings.ToLower(p.Name)]; ok {
			matched = append(matched, p)
		}
	}
	return matched
}

func filterByProjects(heartbeats []model.Heartbeat, projects []model.TrackedProject) []model.Heartbeat {
	names := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		names[strings.ToLower(p.Name)] = struct{}{}
	}
	kept := make([]model.Heartbeat, 0, len(heartbeats))
	for _, hb := range heartbeats {
		if _, ok := names[strings.ToLower(hb.Project)]; ok {
			kept = append(kept, hb)
		}
	}
	return kept
}

// SessionWindow formats a cluster's span for display.
func SessionWindow(c model.Cluster, tp *util.TimeProvider) (date, start, end string) {
	return tp.Format(c.StartTime, "2006-01-02"),
		tp.Format(c.StartTime, "15:04"),
		tp.Format(c.EndTime, "15:04")
}

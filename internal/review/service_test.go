package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yswstools/hackreview/internal/core/model"
	"github.com/yswstools/hackreview/internal/data/ingest"
)

type fakeStore struct {
	subs map[string]model.Submission
}

func (f *fakeStore) GetSubmission(_ context.Context, id string) (model.Submission, error) {
	sub, ok := f.subs[id]
	if !ok {
		return model.Submission{}, errors.New("not found")
	}
	return sub, nil
}

func (f *fakeStore) ListSubmissionsByAuthor(_ context.Context, email string) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range f.subs {
		if s.AuthorEmail == email {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeTracker struct {
	userID     string
	trustLevel string
	projects   []model.TrackedProject
	byDay      map[string][]model.Heartbeat
}

func (f *fakeTracker) FindUserIDByEmail(_ context.Context, _ string) (string, error) {
	return f.userID, nil
}

func (f *fakeTracker) GetUserTrustLevel(_ context.Context, _ string) (string, error) {
	return f.trustLevel, nil
}

func (f *fakeTracker) GetUserProjects(_ context.Context, _ string) ([]model.TrackedProject, error) {
	return f.projects, nil
}

func (f *fakeTracker) GetHeartbeatsForDay(_ context.Context, _ string, day time.Time) ([]model.Heartbeat, error) {
	return f.byDay[day.UTC().Format("2006-01-02")], nil
}

func testService(store *fakeStore, tracker *fakeTracker) *Service {
	return NewService(store, tracker, ingest.NewLoader(tracker, nil))
}

func TestReviewHappyPath(t *testing.T) {
	// Two heartbeats within one cluster on a single day
	base := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{subs: map[string]model.Submission{
		"rec1": {ID: "rec1", AuthorEmail: "dev@example.com", ProjectKeys: "demo", Approved: true, HoursDeclared: 2},
	}}
	tracker := &fakeTracker{
		userID:     "u1",
		trustLevel: "blue",
		projects: []model.TrackedProject{
			{Name: "demo", TotalSeconds: 7200, FirstHeartbeat: base.Unix(), LastHeartbeat: base.Add(time.Minute).Unix()},
		},
		byDay: map[string][]model.Heartbeat{
			"2024-08-01": {
				{Time: model.FlexTime(base.Unix()), Project: "demo", Entity: "src/main.go"},
				{Time: model.FlexTime(base.Add(time.Minute).Unix()), Project: "demo", Entity: "src/main.go"},
				{Time: model.FlexTime(base.Unix() + 30), Project: "other", Entity: "x.go"},
			},
		},
	}

	res, err := testService(store, tracker).Review(context.Background(), "rec1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, "blue", res.TrustLevel)
	assert.InDelta(t, 2.0, res.AggregateHours, 1e-9)
	assert.InDelta(t, 2.0, res.TrackedHours, 1e-9)
	assert.Len(t, res.Heartbeats, 2, "heartbeats from unmatched projects are filtered")
	require.Len(t, res.Clusters, 1)
	assert.Empty(t, res.HeartbeatErr)
	assert.Empty(t, res.NotFound)
}

func TestReviewUserNotFoundIsInline(t *testing.T) {
	store := &fakeStore{subs: map[string]model.Submission{
		"rec1": {ID: "rec1", AuthorEmail: "ghost@example.com", ProjectKeys: "demo"},
	}}
	tracker := &fakeTracker{userID: ""}

	res, err := testService(store, tracker).Review(context.Background(), "rec1", nil, nil)
	require.NoError(t, err, "not-found stays inline, not an error")
	assert.Contains(t, res.NotFound, "ghost@example.com")
	assert.Empty(t, res.Clusters)
}

func TestReviewNoMatchingProjects(t *testing.T) {
	store := &fakeStore{subs: map[string]model.Submission{
		"rec1": {ID: "rec1", AuthorEmail: "dev@example.com", ProjectKeys: "declared-but-untracked"},
	}}
	tracker := &fakeTracker{
		userID:   "u1",
		projects: []model.TrackedProject{{Name: "something-else", TotalSeconds: 100}},
	}

	res, err := testService(store, tracker).Review(context.Background(), "rec1", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, res.NotFound, "no tracked projects")
}

func TestReviewMissingSubmissionFails(t *testing.T) {
	svc := testService(&fakeStore{subs: map[string]model.Submission{}}, &fakeTracker{})
	_, err := svc.Review(context.Background(), "nope", nil, nil)
	assert.Error(t, err)
}

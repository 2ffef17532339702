package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yswstools/hackreview/internal/core/model"
	"github.com/yswstools/hackreview/internal/review"
	"github.com/yswstools/hackreview/internal/util"
)

func TestExpandPath(t *testing.T) {
	path := expandPath("~/somewhere/file.log")
	assert.NotContains(t, path, "~")
	assert.Contains(t, path, "somewhere")
}

func TestBuildReport(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))

	base := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)
	hb := func(offset time.Duration, entity string) model.Heartbeat {
		return model.Heartbeat{
			Time:    model.FlexTime(base.Add(offset).Unix()),
			Entity:  entity,
			Project: "game",
		}
	}

	result := &review.Result{
		Submission: model.Submission{
			ID:            "rec1",
			Title:         "Space Game",
			AuthorEmail:   "dev@example.com",
			HoursDeclared: 3,
		},
		AggregateHours: 2.5,
		TrackedHours:   2.4,
		Clusters: []model.Cluster{
			{
				ID:        1,
				StartTime: base,
				EndTime:   base.Add(30 * time.Minute),
				Heartbeats: []model.Heartbeat{
					hb(0, "/home/dev/game/main.go"),
					hb(10*time.Minute, "/home/dev/game/main.go"),
					hb(30*time.Minute, "/home/dev/game/player.go"),
				},
			},
		},
	}

	report := buildReport(result)
	assert.Equal(t, "rec1", report.SubmissionID)
	assert.Equal(t, "Space Game", report.Title)
	assert.InDelta(t, 2.5, report.AggregateHours, 1e-9)
	require.Len(t, report.Clusters, 1)

	row := report.Clusters[0]
	assert.Equal(t, "2024-08-01", row.Date)
	assert.Equal(t, "10:00", row.Start)
	assert.Equal(t, "10:30", row.End)
	assert.Equal(t, 3, row.Heartbeats)
	assert.Equal(t, 2, row.Files)
	assert.Equal(t, "main.go", row.TopFile)
	assert.InDelta(t, 0.5, row.Hours, 1e-9)
}

func TestClusterIDs(t *testing.T) {
	out := clusterIDs([]model.Cluster{{ID: 2}, {ID: 5}})
	assert.Equal(t, "2, 5", out)
}

package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yswstools/hackreview/internal/core/model"
)

func sub(id, keys string, approved bool) model.Submission {
	return model.Submission{ID: id, ProjectKeys: keys, Approved: approved}
}

func proj(name string, seconds int) model.TrackedProject {
	return model.TrackedProject{Name: name, TotalSeconds: seconds}
}

func TestRelevantProjectsUnionOfApproved(t *testing.T) {
	viewed := sub("a", "Foo, Bar", true)
	siblings := []model.Submission{
		viewed,
		sub("b", "foo; Baz", true),
		sub("c", "Hidden", false),
	}

	keys := RelevantProjects(viewed, siblings)
	assert.Equal(t, []string{"bar", "baz", "foo"}, keys)
}

func TestRelevantProjectsUnapprovedViewStandsAlone(t *testing.T) {
	viewed := sub("a", "Solo", false)
	siblings := []model.Submission{
		viewed,
		sub("b", "Other", true),
	}

	keys := RelevantProjects(viewed, siblings)
	assert.Equal(t, []string{"solo"}, keys)
}

func TestHoursExactCaseInsensitiveMatch(t *testing.T) {
	projects := []model.TrackedProject{
		proj("Foo", 3600),
		proj("foobar", 7200), // substring, must not match
		proj("BAR", 1800),
	}

	hours := Hours([]string{"foo", "bar"}, projects)
	assert.InDelta(t, 1.5, hours, 1e-9)
}

func TestHoursDedupAcrossSubmissions(t *testing.T) {
	// Two approved submissions both declaring "Foo": the key union holds
	// foo once, so its duration is summed exactly once.
	viewed := sub("a", "Foo", true)
	siblings := []model.Submission{viewed, sub("b", "Foo", true)}
	keys := RelevantProjects(viewed, siblings)
	require.Equal(t, []string{"foo"}, keys)

	hours := Hours(keys, []model.TrackedProject{proj("Foo", 3600)})
	assert.InDelta(t, 1.0, hours, 1e-9)
}

func TestSyncBidirectionalContainment(t *testing.T) {
	projects := []model.TrackedProject{
		proj("my-game", 3600),
		proj("website", 5400),
	}

	res := Sync([]string{"game", "personal-website-v2"}, projects)
	require.Len(t, res.Matches, 2)
	assert.InDelta(t, 2.5, res.Hours, 1e-9)
	assert.Equal(t, "Hackatime: my-game: 1.0h, website: 1.5h", res.Justification)
}

func TestSyncRoundsToOneDecimal(t *testing.T) {
	res := Sync([]string{"app"}, []model.TrackedProject{proj("app", 5000)})
	require.Len(t, res.Matches, 1)
	assert.InDelta(t, 1.4, res.Hours, 1e-9)
}

func TestSyncNoMatchesIsSilentNoOp(t *testing.T) {
	res := Sync([]string{"ghost"}, []model.TrackedProject{proj("app", 5000)})
	assert.Empty(t, res.Matches)
	assert.Zero(t, res.Hours)
	assert.Empty(t, res.Justification)
}

func TestSyncOneProjectPerKey(t *testing.T) {
	// Both names pass containment for "app"; only the first hit counts.
	projects := []model.TrackedProject{
		proj("app", 3600),
		proj("my-app-v2", 7200),
	}

	res := Sync([]string{"app"}, projects)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "app", res.Matches[0].Project.Name)
	assert.InDelta(t, 1.0, res.Hours, 1e-9)
	assert.Equal(t, "Hackatime: app: 1.0h", res.Justification)
}

func TestSyncProjectMatchedOnce(t *testing.T) {
	// Two keys both containing the same project name: duration counted once.
	res := Sync([]string{"app", "my-app"}, []model.TrackedProject{proj("app", 3600)})
	require.Len(t, res.Matches, 1)
	assert.InDelta(t, 1.0, res.Hours, 1e-9)
}

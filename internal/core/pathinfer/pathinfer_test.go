package pathinfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yswstools/hackreview/internal/core/model"
)

func entities(paths ...string) []model.Heartbeat {
	out := make([]model.Heartbeat, len(paths))
	for i, p := range paths {
		out[i] = model.Heartbeat{Time: model.FlexTime(i), Entity: p}
	}
	return out
}

func TestGroupByFileEmpty(t *testing.T) {
	res := GroupByFile(nil)
	assert.Empty(t, res.Groups)
	assert.Empty(t, res.ProjectRoot)
}

func TestRootPrefersDeeperSharedPrefix(t *testing.T) {
	// src/a scores count 2 x depth 2 = 4, beating src at 3 x 1 = 3.
	res := GroupByFile(entities("src/a/b.ts", "src/a/c.ts", "src/d.ts"))
	assert.Equal(t, "src/a", res.ProjectRoot)
}

func TestRootFallbackSingleEntity(t *testing.T) {
	res := GroupByFile(entities("/home/dev/proj/main.go"))
	assert.Equal(t, "home/dev/proj", res.ProjectRoot)

	require.Len(t, res.Groups, 1)
	assert.Equal(t, "main.go", res.Groups[0].RelativePath)
}

func TestRelativePathStripsRoot(t *testing.T) {
	res := GroupByFile(entities("src/a/b.ts", "src/a/c.ts", "src/a/sub/d.ts"))
	require.Equal(t, "src/a", res.ProjectRoot)

	byEntity := make(map[string]string)
	for _, g := range res.Groups {
		byEntity[g.Entity] = g.RelativePath
	}
	assert.Equal(t, "b.ts", byEntity["src/a/b.ts"])
	assert.Equal(t, "sub/d.ts", byEntity["src/a/sub/d.ts"])
}

func TestRelativePathCaseInsensitiveMatch(t *testing.T) {
	res := GroupByFile(entities("SRC/A/b.ts", "src/a/c.ts"))
	require.Equal(t, "SRC/A", res.ProjectRoot)

	for _, g := range res.Groups {
		if g.Entity == "src/a/c.ts" {
			assert.Equal(t, "c.ts", g.RelativePath)
		}
	}
}

func TestMixedSeparatorsNormalize(t *testing.T) {
	res := GroupByFile(entities(`C:\dev\proj\main.rs`, "C:/dev/proj/lib.rs"))
	assert.Equal(t, "C:/dev/proj", res.ProjectRoot)
}

func TestEntityEqualToRootFallsBackToFilename(t *testing.T) {
	// "src/a" as an entity is fully eaten by root "src/a".
	res := GroupByFile(entities("src/a/b.ts", "src/a/c.ts", "src/a"))
	require.Equal(t, "src/a", res.ProjectRoot)

	for _, g := range res.Groups {
		if g.Entity == "src/a" {
			assert.Equal(t, "a", g.RelativePath)
		}
	}
}

func TestGroupsSortedByHeartbeatCount(t *testing.T) {
	hbs := entities("p/busy.go", "p/quiet.go")
	hbs = append(hbs, model.Heartbeat{Time: model.FlexTime(10), Entity: "p/busy.go"})
	hbs = append(hbs, model.Heartbeat{Time: model.FlexTime(11), Entity: "p/busy.go"})

	res := GroupByFile(hbs)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "p/busy.go", res.Groups[0].Entity)
	assert.Len(t, res.Groups[0].Heartbeats, 3)
}

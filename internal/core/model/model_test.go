package model

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTimeUnixSeconds(t *testing.T) {
	var hb Heartbeat
	require.NoError(t, sonic.Unmarshal([]byte(`{"time":1722506400.25,"entity":"main.go"}`), &hb))
	assert.Equal(t, time.Date(2024, 8, 1, 10, 0, 0, 250000000, time.UTC), hb.Timestamp())
}

func TestFlexTimeRFC3339(t *testing.T) {
	var hb Heartbeat
	require.NoError(t, sonic.Unmarshal([]byte(`{"time":"2024-08-01T10:00:00Z","entity":"main.go"}`), &hb))
	assert.Equal(t, time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC), hb.Timestamp())
}

func TestFlexTimeRejectsGarbage(t *testing.T) {
	var ft FlexTime
	assert.Error(t, ft.UnmarshalJSON([]byte(`"yesterday"`)))
}

func TestHeartbeatNullableFields(t *testing.T) {
	var hb Heartbeat
	require.NoError(t, sonic.Unmarshal([]byte(`{
		"time": 1722506400,
		"entity": "main.go",
		"line_additions": null,
		"line_deletions": 3,
		"is_write": true
	}`), &hb))
	assert.Nil(t, hb.LineAdditions)
	require.NotNil(t, hb.LineDeletions)
	assert.Equal(t, 3, *hb.LineDeletions)
	require.NotNil(t, hb.IsWrite)
	assert.True(t, *hb.IsWrite)
}

func TestDeclaredKeys(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want []string
	}{
		{"comma separated", "game, engine", []string{"game", "engine"}},
		{"semicolon separated", "game;engine", []string{"game", "engine"}},
		{"mixed with blanks", "game, ;engine; ", []string{"game", "engine"}},
		{"empty", "", nil},
		{"only separators", ", ;", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := Submission{ProjectKeys: tt.keys}
			got := sub.DeclaredKeys()
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClusterDuration(t *testing.T) {
	c := Cluster{
		StartTime: time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 8, 1, 10, 45, 0, 0, time.UTC),
	}
	assert.Equal(t, 45*time.Minute, c.Duration())
}

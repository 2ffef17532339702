package model

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// Heartbeat is one coding-activity sample reported by the time-tracking
// service. Time is the event's logical occurrence instant and the sole
// ordering key; CreatedAt records ingestion and may lag Time.
type Heartbeat struct {
	Time             FlexTime `json:"time"`
	CreatedAt        string   `json:"created_at,omitempty"`
	Project          string   `json:"project"`
	Branch           string   `json:"branch,omitempty"`
	Category         string   `json:"category,omitempty"`
	Editor           string   `json:"editor,omitempty"`
	Entity           string   `json:"entity"`
	Language         string   `json:"language,omitempty"`
	Machine          string   `json:"machine,omitempty"`
	OperatingSystem  string   `json:"operating_system,omitempty"`
	Type             string   `json:"type,omitempty"`
	UserAgent        string   `json:"user_agent,omitempty"`
	LineAdditions    *int     `json:"line_additions"`
	LineDeletions    *int     `json:"line_deletions"`
	Lineno           int      `json:"lineno"`
	Lines            int      `json:"lines"`
	Cursorpos        int      `json:"cursorpos"`
	ProjectRootCount int      `json:"project_root_count,omitempty"`
	IsWrite          *bool    `json:"is_write"`
	SourceType       string   `json:"source_type,omitempty"`
	IPAddress        string   `json:"ip_address,omitempty"`
}

// Timestamp returns the event time as a time.Time in UTC.
func (h Heartbeat) Timestamp() time.Time {
	return h.Time.Time().UTC()
}

// FlexTime accepts the event timestamp either as fractional unix seconds
// or as an RFC3339 string, both of which the service has been observed to
// emit depending on endpoint version.
type FlexTime float64

func (ft *FlexTime) UnmarshalJSON(data []byte) error {
	// Numeric unix seconds (possibly fractional)
	var secs float64
	if err := sonic.Unmarshal(data, &secs); err == nil {
		*ft = FlexTime(secs)
		return nil
	}

	// RFC3339 string
	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		t, err := time.Parse(time.RFC3339, str)
		if err != nil {
			return fmt.Errorf("time must be unix seconds or RFC3339: %q", str)
		}
		*ft = FlexTime(float64(t.UnixNano()) / float64(time.Second))
		return nil
	}

	return fmt.Errorf("time must be unix seconds or RFC3339")
}

func (ft FlexTime) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(float64(ft))
}

// Time converts the flexible timestamp to a time.Time.
func (ft FlexTime) Time() time.Time {
	secs := float64(ft)
	return time.Unix(int64(secs), int64((secs-float64(int64(secs)))*1e9))
}

// Cluster is a maximal run of heartbeats with no inter-event gap exceeding
// the idle threshold: one inferred continuous work session.
// ID is an ordinal stable only within a single clustering invocation and
// must be treated as display-only.
type Cluster struct {
	ID         int         `json:"id"`
	StartTime  time.Time   `json:"startTime"`
	EndTime    time.Time   `json:"endTime"`
	Heartbeats []Heartbeat `json:"heartbeats"`
}

// Duration returns the wall-clock span of the cluster.
func (c Cluster) Duration() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

// FileGroup buckets one cluster's heartbeats by reported entity path.
type FileGroup struct {
	Entity       string      `json:"entity"`
	RelativePath string      `json:"relativePath"`
	Heartbeats   []Heartbeat `json:"heartbeats"`
}

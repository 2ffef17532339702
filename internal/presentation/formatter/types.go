package formatter

// ClusterRow is one work session rendered in the review report.
type ClusterRow struct {
	ID         int     `json:"id"`
	Date       string  `json:"date"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Duration   string  `json:"duration"`
	Heartbeats int     `json:"heartbeats"`
	Files      int     `json:"files"`
	TopFile    string  `json:"topFile"`
	Hours      float64 `json:"hours"`
}

// Report is the full review output for one submission.
type Report struct {
	SubmissionID   string       `json:"submissionId"`
	Title          string       `json:"title"`
	AuthorEmail    string       `json:"authorEmail"`
	TrustLevel     string       `json:"trustLevel,omitempty"`
	DeclaredHours  float64      `json:"declaredHours"`
	AggregateHours float64      `json:"aggregateHours"`
	TrackedHours   float64      `json:"trackedHours"`
	Clusters       []ClusterRow `json:"clusters"`
}

// Formatter renders a report to stdout in one output format.
type Formatter interface {
	Format(report Report) error
}

// New returns the formatter for the named output format, defaulting to
// the table renderer.
func New(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	case "csv":
		return NewCSVFormatter()
	case "summary":
		return NewSummaryFormatter()
	default:
		return NewTableFormatter()
	}
}

package formatter

import (
	"fmt"
	"math"

	"github.com/yswstools/hackreview/internal/util"
)

type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(report Report) error {
	fmt.Println(util.FormatHeaderTitle("=== Review Summary ==="))
	fmt.Printf("Submission:     %s (%s)\n", report.Title, report.SubmissionID)
	fmt.Printf("Author:         %s\n", report.AuthorEmail)
	if report.TrustLevel != "" {
		fmt.Printf("Trust level:    %s\n", report.TrustLevel)
	}
	fmt.Printf("Work sessions:  %d\n", len(report.Clusters))
	fmt.Printf("Declared hours: %s\n", util.FormatHours(report.DeclaredHours))
	fmt.Printf("Tracked hours:  %s\n", util.FormatHours(report.TrackedHours))
	fmt.Printf("YSWS aggregate: %s\n", util.FormatHours(report.AggregateHours))

	discrepancy := report.DeclaredHours - report.TrackedHours
	if math.Abs(discrepancy) > 0.5 {
		label := "over-declared"
		if discrepancy < 0 {
			label = "under-declared"
		}
		fmt.Println(util.FormatWarnText(fmt.Sprintf("Hours %s by %.1fh", label, math.Abs(discrepancy))))
	}
	return nil
}

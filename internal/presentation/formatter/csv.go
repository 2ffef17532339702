package formatter

import (
	"encoding/csv"
	"fmt"
	"os"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(report Report) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{
		"Submission", "Cluster", "Date", "Start", "End", "Duration", "Heartbeats", "Files", "Top File",
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range report.Clusters {
		record := []string{
			report.SubmissionID,
			fmt.Sprintf("%d", row.ID),
			row.Date,
			row.Start,
			row.End,
			row.Duration,
			fmt.Sprintf("%d", row.Heartbeats),
			fmt.Sprintf("%d", row.Files),
			row.TopFile,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

package formatter

import (
	"fmt"
	"strings"

	"github.com/yswstools/hackreview/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{
			"ID", "Date", "Start", "End", "Duration", "Heartbeats", "Files", "Top File",
		},
	}
}

func (f *TableFormatter) Format(report Report) error {
	fmt.Println(util.FormatHeaderTitle(fmt.Sprintf("Submission %s: %s", report.SubmissionID, report.Title)))
	fmt.Printf("Author: %s\n", report.AuthorEmail)
	if report.TrustLevel != "" && report.TrustLevel != "blue" {
		fmt.Println(util.FormatWarnText("Trust level: " + report.TrustLevel))
	}
	fmt.Printf("Declared: %s   Tracked: %s   YSWS aggregate: %s\n",
		util.FormatHours(report.DeclaredHours),
		util.FormatHours(report.TrackedHours),
		util.FormatHours(report.AggregateHours))
	fmt.Println(util.FormatSectionSeparator())

	widths := f.calculateColumnWidths(report.Clusters)
	f.printBorder(widths, "┌", "┬", "┐")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "├", "┼", "┤")

	for _, row := range report.Clusters {
		f.printRow(f.rowCells(row), widths)
	}

	f.printBorder(widths, "└", "┴", "┘")
	return nil
}

func (f *TableFormatter) rowCells(row ClusterRow) []string {
	return []string{
		fmt.Sprintf("%d", row.ID),
		row.Date,
		row.Start,
		row.End,
		row.Duration,
		util.FormatNumber(row.Heartbeats),
		fmt.Sprintf("%d", row.Files),
		row.TopFile,
	}
}

func (f *TableFormatter) calculateColumnWidths(rows []ClusterRow) []int {
	widths := make([]int, len(f.headers))
	for i, h := range f.headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	for _, row := range rows {
		for i, cell := range f.rowCells(row) {
			if w := util.GetDisplayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (f *TableFormatter) printRow(cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		pad := widths[i] - util.GetDisplayWidth(cell)
		if pad < 0 {
			pad = 0
		}
		parts[i] = " " + cell + strings.Repeat(" ", pad) + " "
	}
	fmt.Println("│" + strings.Join(parts, "│") + "│")
}

func (f *TableFormatter) printBorder(widths []int, left, mid, right string) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	fmt.Println(left + strings.Join(parts, mid) + right)
}

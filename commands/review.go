package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/yswstools/hackreview/internal/core/model"
	"github.com/yswstools/hackreview/internal/core/pathinfer"
	"github.com/yswstools/hackreview/internal/data/ingest"
	"github.com/yswstools/hackreview/internal/presentation/formatter"
	"github.com/yswstools/hackreview/internal/review"
	"github.com/yswstools/hackreview/internal/util"
)

var reviewOutputFormat string

var reviewCmd = &cobra.Command{
	Use:   "review <submission-id>",
	Short: "Build the full review report for a submission",
	Long: `Loads the submission, resolves its author in the time-tracking service,
aggregates hours across the author's approved submissions, fetches the
matched projects' heartbeats day by day, and clusters them into work
sessions.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringVarP(&reviewOutputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
}

func runReview(cmd *cobra.Command, args []string) error {
	if err := initRuntime(); err != nil {
		return err
	}

	cl, err := buildClients()
	if err != nil {
		return err
	}
	defer cl.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	token := ingest.NewToken()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		token.Cancel()
		cancel()
	}()

	progress := func(current, total int) {
		fmt.Fprintf(os.Stderr, "\rFetching heartbeats: day %d/%d", current, total)
		if current == total {
			fmt.Fprintln(os.Stderr)
		}
	}

	service := review.NewService(cl.store, cl.tracker, cl.loader)
	result, err := service.Review(ctx, args[0], token, progress)
	if err != nil {
		return err
	}

	if result.NotFound != "" {
		util.LogWarn(result.NotFound)
		fmt.Println(util.FormatWarnText("Note: " + result.NotFound))
	}
	if result.HeartbeatErr != "" {
		fmt.Println(util.FormatWarnText("Heartbeat ingestion failed: " + result.HeartbeatErr))
	}

	return formatter.New(reviewOutputFormat).Format(buildReport(result))
}

// buildReport flattens a review result into the formatter's report shape.
func buildReport(result *review.Result) formatter.Report {
	tp := util.GetTimeProvider()
	report := formatter.Report{
		SubmissionID:   result.Submission.ID,
		Title:          result.Submission.Title,
		AuthorEmail:    result.Submission.AuthorEmail,
		TrustLevel:     result.TrustLevel,
		DeclaredHours:  result.Submission.HoursDeclared,
		AggregateHours: result.AggregateHours,
		TrackedHours:   result.TrackedHours,
		Clusters:       make([]formatter.ClusterRow, 0, len(result.Clusters)),
	}
	for _, c := range result.Clusters {
		report.Clusters = append(report.Clusters, clusterRow(c, tp))
	}
	return report
}

func clusterRow(c model.Cluster, tp *util.TimeProvider) formatter.ClusterRow {
	date, start, end := review.SessionWindow(c, tp)
	groups := pathinfer.GroupByFile(c.Heartbeats).Groups
	topFile := ""
	if len(groups) > 0 {
		topFile = groups[0].RelativePath
	}
	return formatter.ClusterRow{
		ID:         c.ID,
		Date:       date,
		Start:      start,
		End:        end,
		Duration:   util.FormatDuration(c.Duration()),
		Heartbeats: len(c.Heartbeats),
		Files:      len(groups),
		TopFile:    topFile,
		Hours:      c.Duration().Hours(),
	}
}

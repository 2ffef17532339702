package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yswstools/hackreview/internal/core/cluster"
	"github.com/yswstools/hackreview/internal/data/ingest"
	"github.com/yswstools/hackreview/internal/util"
)

var (
	heartbeatsEmail string
	heartbeatsFrom  string
	heartbeatsTo    string
)

var heartbeatsCmd = &cobra.Command{
	Use:   "heartbeats",
	Short: "Fetch and cluster an author's raw heartbeats",
	Long: `Fetches an author's heartbeats from the time-tracking service over a
date range and prints the resulting work sessions, without loading any
submission. Useful for checking tracked activity directly.`,
	RunE: runHeartbeats,
}

func init() {
	rootCmd.AddCommand(heartbeatsCmd)

	heartbeatsCmd.Flags().StringVar(&heartbeatsEmail, "email", "",
		"Author email to look up (required)")
	heartbeatsCmd.Flags().StringVar(&heartbeatsFrom, "from", "",
		"Range start date, YYYY-MM-DD (default 7 days ago)")
	heartbeatsCmd.Flags().StringVar(&heartbeatsTo, "to", "",
		"Range end date, YYYY-MM-DD (default today)")
	heartbeatsCmd.MarkFlagRequired("email")
}

func runHeartbeats(cmd *cobra.Command, args []string) error {
	if err := initRuntime(); err != nil {
		return err
	}

	cl, err := buildClients()
	if err != nil {
		return err
	}
	defer cl.Close()

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -7)
	to := now
	if heartbeatsFrom != "" {
		if from, err = time.Parse("2006-01-02", heartbeatsFrom); err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
	}
	if heartbeatsTo != "" {
		if to, err = time.Parse("2006-01-02", heartbeatsTo); err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
	}

	ctx := cmd.Context()
	userID, err := cl.tracker.FindUserIDByEmail(ctx, heartbeatsEmail)
	if err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("no time-tracking user for %s", heartbeatsEmail)
	}

	progress := func(current, total int) {
		fmt.Fprintf(os.Stderr, "\rFetching heartbeats: day %d/%d", current, total)
		if current == total {
			fmt.Fprintln(os.Stderr)
		}
	}
	heartbeats, err := cl.loader.Load(ctx, userID, from, to, ingest.NewToken(), progress)
	if err != nil {
		return err
	}

	clusters := cluster.Build(heartbeats)
	tp := util.GetTimeProvider()
	fmt.Printf("%s heartbeats in %s sessions\n\n",
		util.FormatNumber(len(heartbeats)), util.FormatNumber(len(clusters)))
	for _, c := range clusters {
		fmt.Printf("  #%-3d %s  %s - %s  %8s  %s heartbeats\n",
			c.ID,
			tp.Format(c.StartTime, "2006-01-02"),
			tp.Format(c.StartTime, "15:04"),
			tp.Format(c.EndTime, "15:04"),
			util.FormatDuration(c.Duration()),
			util.FormatNumber(len(c.Heartbeats)))
	}
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yswstools/hackreview/internal/core/aggregate"
	"github.com/yswstools/hackreview/internal/util"
)

var syncApply bool

var syncHoursCmd = &cobra.Command{
	Use:   "sync-hours <submission-id>",
	Short: "Match declared project keys against tracked hours",
	Long: `Matches a submission's declared project keys against the author's
tracked projects by substring containment, sums the matched time rounded
to one decimal, and shows the per-project justification.

Dry-run by default; --apply writes the hours and justification back to
the submission record.`,
	Args: cobra.ExactArgs(1),
	RunE: runSyncHours,
}

func init() {
	rootCmd.AddCommand(syncHoursCmd)

	syncHoursCmd.Flags().BoolVar(&syncApply, "apply", false,
		"Write the matched hours back to the datastore")
}

func runSyncHours(cmd *cobra.Command, args []string) error {
	if err := initRuntime(); err != nil {
		return err
	}

	cl, err := buildClients()
	if err != nil {
		return err
	}
	defer cl.Close()

	ctx := cmd.Context()
	sub, err := cl.store.GetSubmission(ctx, args[0])
	if err != nil {
		return err
	}

	userID, err := cl.tracker.FindUserIDByEmail(ctx, sub.AuthorEmail)
	if err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("no time-tracking user for %s", sub.AuthorEmail)
	}
	projects, err := cl.tracker.GetUserProjects(ctx, userID)
	if err != nil {
		return err
	}

	result := aggregate.Sync(sub.DeclaredKeys(), projects)
	if len(result.Matches) == 0 {
		util.LogInfof("No tracked projects match submission %s; nothing to sync", sub.ID)
		return nil
	}

	fmt.Printf("Submission: %s (%s)\n", sub.Title, sub.ID)
	fmt.Printf("Declared:   %.1fh\n", sub.HoursDeclared)
	fmt.Printf("Matched:    %.1fh\n", result.Hours)
	fmt.Printf("Detail:     %s\n", result.Justification)

	if !syncApply {
		fmt.Println("\nDry run; pass --apply to write these hours back.")
		return nil
	}

	if err := cl.store.UpdateHours(ctx, sub.ID, result.Hours, result.Justification); err != nil {
		return fmt.Errorf("writing hours back: %w", err)
	}
	fmt.Println("\nHours updated.")
	return nil
}

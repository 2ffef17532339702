package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yswstools/hackreview/internal/api/codehost"
	"github.com/yswstools/hackreview/internal/config"
	"github.com/yswstools/hackreview/internal/core/cluster"
	"github.com/yswstools/hackreview/internal/core/model"
	"github.com/yswstools/hackreview/internal/data/ingest"
	"github.com/yswstools/hackreview/internal/replay"
	"github.com/yswstools/hackreview/internal/review"
)

var replayClusterID int

var replayCmd = &cobra.Command{
	Use:   "replay <submission-id>",
	Short: "Replay a work session's file activity in the terminal",
	Long: `Loads a submission's heartbeat clusters and plays one back as a timeline:
the source file under edit, the line the author was on, and how the
cursor moved between heartbeats.

Keys: space play/pause, arrows step and switch files, s speed, p plots,
0 restart, q quit.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().IntVar(&replayClusterID, "cluster", -1,
		"Cluster ID to replay (default: the largest significant cluster)")
}

func runReplay(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("%s", result.NotFound)
	}
	if result.HeartbeatErr != "" {
		return fmt.Errorf("heartbeat ingestion failed: %s", result.HeartbeatErr)
	}

	significant := cluster.Significant(result.Clusters)
	if len(significant) == 0 {
		return fmt.Errorf("submission %s has no work sessions to replay", args[0])
	}

	target, err := pickCluster(significant, replayClusterID)
	if err != nil {
		return err
	}

	owner, repo := codehost.ParseRepoURL(result.Submission.RepoURL)
	if owner == "" || repo == "" {
		return fmt.Errorf("submission %s has no usable repository URL", args[0])
	}

	fetcher := codehost.NewClient(config.Get().CodeHostBaseURL)
	source := replay.NewSourceProvider(fetcher, cl.cache, owner, repo)

	app := replay.NewApp(target, source)
	return app.Run(ctx)
}

// pickCluster selects the cluster to replay. A negative id means no
// explicit choice; the largest cluster by heartbeat count wins then.
// IDs are 0-based ordinals, so 0 addresses the first cluster.
func pickCluster(clusters []model.Cluster, id int) (model.Cluster, error) {
	if id < 0 {
		largest := clusters[0]
		for _, c := range clusters[1:] {
			if len(c.Heartbeats) > len(largest.Heartbeats) {
				largest = c
			}
		}
		return largest, nil
	}
	for _, c := range clusters {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Cluster{}, fmt.Errorf("cluster %d not found; significant clusters: %s",
		id, clusterIDs(clusters))
}

func clusterIDs(clusters []model.Cluster) string {
	ids := make([]string, len(clusters))
	for i, c := range clusters {
		ids[i] = strconv.Itoa(c.ID)
	}
	return strings.Join(ids, ", ")
}

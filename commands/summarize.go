package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/yswstools/hackreview/internal/api/llm"
	"github.com/yswstools/hackreview/internal/config"
	"github.com/yswstools/hackreview/internal/data/ingest"
	"github.com/yswstools/hackreview/internal/review"
	"github.com/yswstools/hackreview/internal/util"
)

var summarizeModel string

var summarizeCmd = &cobra.Command{
	Use:   "summarize <submission-id>",
	Short: "Draft a review summary with a local LLM",
	Long: `Runs the review pipeline for a submission and asks a local Ollama
instance for a short reviewer-facing summary of the tracked activity.
The summary is advisory output only and is never written anywhere.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVar(&summarizeModel, "model", "",
		"Ollama model to use (default from config)")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if err := initRuntime(); err != nil {
		return err
	}

	cfg := config.Get()
	if !llm.IsAvailable(cfg.OllamaURL) {
		fmt.Println(util.FormatWarnText("Ollama is not reachable at " + cfg.OllamaURL + "; skipping summary."))
		return nil
	}
	if os.Getenv("OLLAMA_HOST") == "" {
		os.Setenv("OLLAMA_HOST", cfg.OllamaURL)
	}

	model := summarizeModel
	if model == "" {
		model = cfg.OllamaModel
	}
	summarizer, err := llm.NewClient(model)
	if err != nil {
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

	summary, err := summarizer.SummarizeReview(ctx, result.Submission, result.Clusters, result.AggregateHours)
	if err != nil {
		return fmt.Errorf("generating summary: %w", err)
	}
	fmt.Println(summary)
	return nil
}

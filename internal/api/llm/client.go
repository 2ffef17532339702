// Package llm drafts review summaries through a local Ollama instance.
// Ollama being absent degrades to a notice; nothing here is required for
// the review workflow.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/yswstools/hackreview/internal/core/model"
	"github.com/yswstools/hackreview/internal/util"
)

// Client wraps the Ollama API client.
type Client struct {
	client *api.Client
	model  string
}

// NewClient creates an Ollama-backed summary client.
func NewClient(model string) (*Client, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// IsAvailable probes whether Ollama is reachable.
func IsAvailable(url string) bool {
	httpClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := httpClient.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// SummarizeReview drafts a short reviewer-facing summary of a submission's
// tracked activity. The output is advisory text, never written back.
func (c *Client) SummarizeReview(ctx context.Context, sub model.Submission, clusters []model.Cluster, aggregateHours float64) (string, error) {
	prompt := buildPrompt(sub, clusters, aggregateHours)
	util.LogDebugf("Requesting summary from ollama model %s", c.model)

	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
	}

	var out strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generating summary: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}

func buildPrompt(sub model.Submission, clusters []model.Cluster, aggregateHours float64) string {
	var b strings.Builder
	b.WriteString("You are helping a hackathon reviewer. Summarize the coding activity below in 3-4 sentences, ")
	b.WriteString("noting whether the tracked time is consistent with the declared hours.\n\n")
	fmt.Fprintf(&b, "Submission: %s\n", sub.Title)
	fmt.Fprintf(&b, "Declared hours: %.1f\n", sub.HoursDeclared)
	fmt.Fprintf(&b, "Tracked aggregate hours: %.1f\n", aggregateHours)
	fmt.Fprintf(&b, "Work sessions (%d):\n", len(clusters))
	for _, c := range clusters {
		fmt.Fprintf(&b, "- %s to %s, %d heartbeats\n",
			c.StartTime.Format("2006-01-02 15:04"),
			c.EndTime.Format("15:04"),
			len(c.Heartbeats))
	}
	return b.String()
}

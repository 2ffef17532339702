// Package codehost fetches raw source text for the playback overlay.
// A missing file is an expected condition, never a hard error.
package codehost

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches file contents from a raw-content endpoint
// (owner/repo/ref/path layout, GitHub style).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client against the given raw-content base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetFileAtBranch fetches path at ref. The second return reports whether
// the file exists; a 404 yields ("", false, nil).
func (c *Client) GetFileAtBranch(ctx context.Context, owner, repo, path, ref string) (string, bool, error) {
	if ref == "" {
		ref = "main"
	}
	segments := make([]string, 0)
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, url.PathEscape(s))
		}
	}
	fileURL := fmt.Sprintf("%s/%s/%s/%s/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo),
		url.PathEscape(ref), strings.Join(segments, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("source fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, fmt.Errorf("source fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("reading source body: %w", err)
	}
	return string(body), true, nil
}

// ParseRepoURL extracts owner and repo from a repository URL like
// https://github.com/owner/repo(.git). Empty results mean unparseable.
func ParseRepoURL(repoURL string) (owner, repo string) {
	u, err := url.Parse(strings.TrimSpace(repoURL))
	if err != nil {
		return "", ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", ""
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git")
}

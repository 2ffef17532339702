// Package reviewbase is the client for the spreadsheet-style review
// datastore holding submissions. Malformed rows are logged and skipped on
// read. The single write path is the hour-sync apply.
package reviewbase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yswstools/hackreview/internal/core/model"
	"github.com/yswstools/hackreview/internal/util"
)

// Client talks to the review datastore's REST API.
type Client struct {
	baseURL    string
	token      string
	table      string
	httpClient *http.Client
}

// NewClient validates credentials and returns a ready client.
func NewClient(baseURL, token, table string) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("reviewbase API token is required")
	}
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("reviewbase table name is required")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		table:   table,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type record struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

type recordsResponse struct {
	Records []record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reviewbase request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading reviewbase response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("reviewbase returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out != nil {
		if err := sonic.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding reviewbase response: %w", err)
		}
	}
	return nil
}

// GetSubmission fetches one submission record by ID.
func (c *Client) GetSubmission(ctx context.Context, id string) (model.Submission, error) {
	var rec record
	path := fmt.Sprintf("/%s/%s", url.PathEscape(c.table), url.PathEscape(id))
	if err := c.do(ctx, http.MethodGet, path, nil, &rec); err != nil {
		return model.Submission{}, err
	}
	sub, ok := submissionFromRecord(rec)
	if !ok {
		return model.Submission{}, fmt.Errorf("submission %s has no usable fields", id)
	}
	return sub, nil
}

// ListSubmissionsByAuthor returns every submission with the given author
// email, across result pages. Rows that fail to decode are skipped.
func (c *Client) ListSubmissionsByAuthor(ctx context.Context, email string) ([]model.Submission, error) {
	formula := fmt.Sprintf(`{authorEmail}="%s"`, strings.ReplaceAll(email, `"`, `\"`))
	subs := make([]model.Submission, 0)
	offset := ""

	for {
		path := fmt.Sprintf("/%s?filterByFormula=%s", url.PathEscape(c.table), url.QueryEscape(formula))
		if offset != "" {
			path += "&offset=" + url.QueryEscape(offset)
		}
		var page recordsResponse
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		for _, rec := range page.Records {
			sub, ok := submissionFromRecord(rec)
			if !ok {
				util.LogWarnf("Skipping malformed submission record %s", rec.ID)
				continue
			}
			subs = append(subs, sub)
		}
		if page.Offset == "" {
			return subs, nil
		}
		offset = page.Offset
	}
}

// UpdateHours writes the hour-sync result back to a submission. This is
// the only mutation this client performs.
func (c *Client) UpdateHours(ctx context.Context, id string, hours float64, justification string) error {
	payload := map[string]interface{}{
		"fields": map[string]interface{}{
			"hoursDeclared":      hours,
			"hoursJustification": justification,
		},
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/%s/%s", url.PathEscape(c.table), url.PathEscape(id))
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// submissionFromRecord maps a raw record to the Submission value type.
// Missing fields default to empty/zero; a record without an ID is unusable.
func submissionFromRecord(rec record) (model.Submission, bool) {
	if rec.ID == "" {
		return model.Submission{}, false
	}
	f := rec.Fields
	return model.Submission{
		ID:            rec.ID,
		Title:         stringField(f, "title"),
		AuthorEmail:   stringField(f, "authorEmail"),
		ProjectKeys:   stringField(f, "hackatimeProjectKeys"),
		Approved:      boolField(f, "approved"),
		HoursDeclared: floatField(f, "hoursDeclared"),
		RepoURL:       stringField(f, "repoUrl"),
		Status:        stringField(f, "status"),
		Justification: stringField(f, "hoursJustification"),
	}, true
}

func stringField(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func boolField(fields map[string]interface{}, key string) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case string:
		// Checkbox columns sometimes surface as "checked"/"true"
		return strings.EqualFold(v, "true") || strings.EqualFold(v, "checked")
	default:
		return false
	}
}

func floatField(fields map[string]interface{}, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

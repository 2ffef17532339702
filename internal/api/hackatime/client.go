// Package hackatime is the client for the time-tracking admin API: user
// lookup, per-project totals and day-bounded heartbeat fetches.
package hackatime

import (
	"context"
	"errors"
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

// APIError carries the HTTP status of a failed admin-API call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hackatime API error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the Hackatime admin API. Construction fails loudly on a
// missing token; everything downstream can then assume credentials exist.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient validates the credentials and returns a ready client.
func NewClient(baseURL, token string) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("hackatime admin token is required")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("hackatime request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading hackatime response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding hackatime response: %w", err)
	}
	return nil
}

type userLookupResponse struct {
	User struct {
		ID string `json:"id"`
	} `json:"user"`
}

// FindUserIDByEmail resolves an author email to a Hackatime user ID.
// Not found is an empty ID with a nil error, not a failure.
func (c *Client) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	var out userLookupResponse
	path := "/users/lookup_email/" + url.PathEscape(email)
	if err := c.get(ctx, path, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			util.LogDebugf("No hackatime user for %s", email)
			return "", nil
		}
		return "", err
	}
	return out.User.ID, nil
}

type trustResponse struct {
	User struct {
		TrustLevel string `json:"trust_level"`
	} `json:"user"`
}

// GetUserTrustLevel returns the service's abuse flag for a user ("blue",
// "yellow", "red"). An absent or unknown level comes back empty.
func (c *Client) GetUserTrustLevel(ctx context.Context, userID string) (string, error) {
	var out trustResponse
	path := fmt.Sprintf("/users/%s/trust", url.PathEscape(userID))
	if err := c.get(ctx, path, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}
	return out.User.TrustLevel, nil
}

type projectsResponse struct {
	Projects []model.TrackedProject `json:"projects"`
}

// GetUserProjects returns the service's per-project duration summaries.
func (c *Client) GetUserProjects(ctx context.Context, userID string) ([]model.TrackedProject, error) {
	var out projectsResponse
	path := fmt.Sprintf("/users/%s/projects", url.PathEscape(userID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	if out.Projects == nil {
		return []model.TrackedProject{}, nil
	}
	return out.Projects, nil
}

type heartbeatsResponse struct {
	Heartbeats []model.Heartbeat `json:"heartbeats"`
}

// GetHeartbeatsForDay fetches one UTC-bounded calendar day of heartbeats.
func (c *Client) GetHeartbeatsForDay(ctx context.Context, userID string, day time.Time) ([]model.Heartbeat, error) {
	var out heartbeatsResponse
	path := fmt.Sprintf("/users/%s/heartbeats?date=%s",
		url.PathEscape(userID), day.UTC().Format("2006-01-02"))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	if out.Heartbeats == nil {
		return []model.Heartbeat{}, nil
	}
	return out.Heartbeats, nil
}

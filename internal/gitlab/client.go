// Package gitlab is a thin client for the handful of GitLab issue operations
// the reporter needs: search by title, create, note, reopen.
//
// It deliberately covers only the v4 issue endpoints used by the report flow.
// There are no retries and no backoff; callers decide what a failure means.
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error kinds surfaced by the client. Wrapped into returned errors so callers
// can classify failures with errors.Is.
var (
	// ErrAuth indicates the private token was rejected (401/403).
	ErrAuth = errors.New("gitlab: authentication failed")
	// ErrNotFound indicates the project or issue does not exist (404).
	ErrNotFound = errors.New("gitlab: not found")
	// ErrNetwork indicates the request never produced an HTTP response.
	ErrNetwork = errors.New("gitlab: network failure")
)

// State filters issue searches.
type State string

const (
	StateOpened State = "opened"
	StateClosed State = "closed"
	StateAll    State = "all"
)

// Issue is the subset of GitLab's issue representation the reporter uses.
type Issue struct {
	ID          int      `json:"id"`
	IID         int      `json:"iid"`
	ProjectID   int      `json:"project_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	State       string   `json:"state"`
	Labels      []string `json:"labels"`
	WebURL      string   `json:"web_url"`
}

// Note is a comment on an issue.
type Note struct {
	ID   int    `json:"id"`
	Body string `json:"body"`
}

// Project is the subset of the project representation used by Ping.
type Project struct {
	ID                int    `json:"id"`
	PathWithNamespace string `json:"path_with_namespace"`
	WebURL            string `json:"web_url"`
}

// CreateIssueOptions carries the fields for a new issue.
type CreateIssueOptions struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssigneeID  int      `json:"assignee_id,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// Client talks to a single project on a single GitLab instance.
type Client struct {
	baseURL    string
	token      string
	projectID  int
	httpClient *http.Client
}

// NewClient creates a client for the given instance, token and project.
// baseURL is the instance root (e.g. https://gitlab.com); trailing slashes
// are tolerated.
func NewClient(baseURL, token string, projectID int, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		projectID: projectID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SearchIssues returns the project's issues whose title exactly matches
// title, restricted to the given state. GitLab's search is a substring
// match, so the exact-title filtering happens client-side.
func (c *Client) SearchIssues(ctx context.Context, title string, state State) ([]Issue, error) {
	q := url.Values{}
	q.Set("search", title)
	q.Set("in", "title")
	if state != StateAll {
		q.Set("state", string(state))
	}

	var issues []Issue
	if err := c.do(ctx, http.MethodGet, c.issuesPath()+"?"+q.Encode(), nil, http.StatusOK, &issues); err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}

	matches := issues[:0]
	for _, issue := range issues {
		if issue.Title == title {
			matches = append(matches, issue)
		}
	}
	return matches, nil
}

// ListIssues returns the project's issues in the given state, optionally
// restricted to issues carrying all of the given labels.
func (c *Client) ListIssues(ctx context.Context, state State, labels []string) ([]Issue, error) {
	q := url.Values{}
	if state != StateAll {
		q.Set("state", string(state))
	}
	if len(labels) > 0 {
		q.Set("labels", strings.Join(labels, ","))
	}

	var issues []Issue
	if err := c.do(ctx, http.MethodGet, c.issuesPath()+"?"+q.Encode(), nil, http.StatusOK, &issues); err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

// CreateIssue opens a new issue in the project.
func (c *Client) CreateIssue(ctx context.Context, opts CreateIssueOptions) (*Issue, error) {
	var issue Issue
	if err := c.do(ctx, http.MethodPost, c.issuesPath(), opts, http.StatusCreated, &issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	return &issue, nil
}

// AddNote appends a comment to an existing issue.
func (c *Client) AddNote(ctx context.Context, issueIID int, body string) (*Note, error) {
	payload := struct {
		Body string `json:"body"`
	}{Body: body}

	var note Note
	path := fmt.Sprintf("%s/%d/notes", c.issuesPath(), issueIID)
	if err := c.do(ctx, http.MethodPost, path, payload, http.StatusCreated, &note); err != nil {
		return nil, fmt.Errorf("add note to issue %d: %w", issueIID, err)
	}
	return &note, nil
}

// ReopenIssue transitions a closed issue back to the opened state.
func (c *Client) ReopenIssue(ctx context.Context, issueIID int) (*Issue, error) {
	payload := struct {
		StateEvent string `json:"state_event"`
	}{StateEvent: "reopen"}

	var issue Issue
	path := fmt.Sprintf("%s/%d", c.issuesPath(), issueIID)
	if err := c.do(ctx, http.MethodPut, path, payload, http.StatusOK, &issue); err != nil {
		return nil, fmt.Errorf("reopen issue %d: %w", issueIID, err)
	}
	return &issue, nil
}

// Ping verifies connectivity, authentication and project access in one call.
func (c *Client) Ping(ctx context.Context) (*Project, error) {
	var project Project
	path := fmt.Sprintf("/api/v4/projects/%d", c.projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &project); err != nil {
		return nil, fmt.Errorf("ping project %d: %w", c.projectID, err)
	}
	return &project, nil
}

func (c *Client) issuesPath() string {
	return fmt.Sprintf("/api/v4/projects/%d/issues", c.projectID)
}

// do issues a single authenticated request and decodes the response into out
// when the status matches wantStatus. Unexpected statuses are classified
// into the package error kinds.
func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w (status %d): %s", ErrAuth, resp.StatusCode, strings.TrimSpace(string(msg)))
		case http.StatusNotFound:
			return fmt.Errorf("%w (status %d)", ErrNotFound, resp.StatusCode)
		default:
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

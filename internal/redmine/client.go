package redmine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	userAgent = "passpack/0.1.0"

	// statusNew is the tracker status id of freshly created tickets.
	statusNew = 1
)

// Client defines the tracker operations the pipeline depends on.
type Client interface {
	ListNewAssigned(ctx context.Context) ([]Ticket, error)
	UploadAttachment(ctx context.Context, path string) (string, error)
	UpdateIssue(ctx context.Context, id int, update IssueUpdate) error
	CreateIssue(ctx context.Context, create IssueCreate) (int, error)
}

// HTTPClient talks to the Redmine REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient constructs a tracker client for the given endpoint.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// ListNewAssigned fetches tickets with status "New" assigned to the API
// key's user, including each ticket's project association when present.
func (c *HTTPClient) ListNewAssigned(ctx context.Context) ([]Ticket, error) {
	query := url.Values{}
	query.Set("assigned_to_id", "me")
	query.Set("status_id", strconv.Itoa(statusNew))
	query.Set("limit", "100")

	var payload struct {
		Issues []struct {
			ID      int `json:"id"`
			Project struct {
				ID         int    `json:"id"`
				Identifier string `json:"identifier"`
				Name       string `json:"name"`
			} `json:"project"`
		} `json:"issues"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/issues.json?"+query.Encode(), nil, &payload); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	tickets := make([]Ticket, 0, len(payload.Issues))
	for _, issue := range payload.Issues {
		key := issue.Project.Identifier
		if key == "" {
			key = issue.Project.Name
		}
		if key == "" && issue.Project.ID != 0 {
			key = strconv.Itoa(issue.Project.ID)
		}
		tickets = append(tickets, Ticket{ID: issue.ID, ProjectKey: key})
	}
	return tickets, nil
}

// UploadAttachment streams the file at path to the tracker and returns the
// upload token for a subsequent issue update.
func (c *HTTPClient) UploadAttachment(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read attachment: %w", err)
	}

	endpoint := "/uploads.json?filename=" + url.QueryEscape(filepath.Base(path))
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload attachment: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("upload attachment: %w", err)
	}

	var payload struct {
		Upload struct {
			Token string `json:"token"`
		} `json:"upload"`
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	token := payload.Upload.Token
	if token == "" {
		token = payload.Token
	}
	if token == "" {
		return "", errors.New("upload response carried no token")
	}
	return token, nil
}

// UpdateIssue applies notes, status, assignee, category, and uploads to the
// issue. Field rejections come back as *ValidationError.
func (c *HTTPClient) UpdateIssue(ctx context.Context, id int, update IssueUpdate) error {
	issue := map[string]any{}
	if update.Notes != "" {
		issue["notes"] = update.Notes
	}
	if update.StatusID > 0 {
		issue["status_id"] = update.StatusID
	}
	if update.AssignedToID > 0 {
		issue["assigned_to_id"] = update.AssignedToID
	}
	if update.CategoryID > 0 {
		issue["category_id"] = update.CategoryID
	}
	if len(update.Uploads) > 0 {
		issue["uploads"] = update.Uploads
	}

	body := map[string]any{"issue": issue}
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/issues/%d.json", id), body, nil); err != nil {
		return fmt.Errorf("update issue %d: %w", id, err)
	}
	return nil
}

// CreateIssue opens a new issue and returns its id. A project id is
// mandatory; the tracker rejects creation without one.
func (c *HTTPClient) CreateIssue(ctx context.Context, create IssueCreate) (int, error) {
	if create.ProjectID <= 0 {
		return 0, errors.New("project id is required to create an issue")
	}
	issue := map[string]any{
		"project_id":  create.ProjectID,
		"subject":     create.Subject,
		"description": create.Description,
	}
	if create.AssignedToID > 0 {
		issue["assigned_to_id"] = create.AssignedToID
	}
	if create.CategoryID > 0 {
		issue["category_id"] = create.CategoryID
	}
	for field, value := range create.Extra {
		issue[field] = value
	}

	var payload struct {
		Issue struct {
			ID int `json:"id"`
		} `json:"issue"`
	}
	body := map[string]any{"issue": issue}
	if err := c.doJSON(ctx, http.MethodPost, "/issues.json", body, &payload); err != nil {
		return 0, fmt.Errorf("create issue: %w", err)
	}
	return payload.Issue.ID, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Redmine-API-Key", c.apiKey)
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	if resp.StatusCode == http.StatusUnprocessableEntity {
		var payload struct {
			Errors []string `json:"errors"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Errors) > 0 {
			return &ValidationError{Messages: payload.Errors}
		}
		return &ValidationError{Messages: []string{string(raw)}}
	}
	return fmt.Errorf("tracker returned %s: %s", resp.Status, string(raw))
}

var _ Client = (*HTTPClient)(nil)

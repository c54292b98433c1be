package clockify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the versioned REST root of the Clockify API.
const DefaultBaseURL = "https://api.clockify.me/api/v1"

const requestTimeout = 30 * time.Second

// Client talks to the Clockify REST API with a static API key. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient builds a client for apiKey. An empty baseURL means DefaultBaseURL
// and a nil logger discards output.
func NewClient(apiKey string, baseURL string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the root every endpoint is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpoint joins escaped path segments into a path relative to the base URL.
func endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// do performs one call. A nil body means GET, anything else is sent as a JSON
// POST. The returned payload is guaranteed to be valid JSON.
func (c *Client) do(ctx context.Context, path string, body any) (json.RawMessage, error) {
	method := http.MethodGet
	var reqBody io.Reader
	if body != nil {
		method = http.MethodPost
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("clockify API request", "method", method, "path", path)
	requestStart := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("clockify API response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(requestStart))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusForbidden:
		return nil, ErrForbidden
	case http.StatusNotFound:
		return nil, &NotFoundError{URL: reqURL}
	}

	if !json.Valid(respBody) {
		return nil, &ResponseNotJSONError{URL: reqURL, Body: respBody}
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, URL: reqURL, Body: respBody}
	}

	return json.RawMessage(respBody), nil
}

func decodeList[T any](typ string, data json.RawMessage) ([]T, error) {
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, asDecodeError(typ, err)
	}
	return out, nil
}

func decodeOne[T any](typ string, data json.RawMessage) (*T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, asDecodeError(typ, err)
	}
	return &out, nil
}

func resolveWorkspace(ws WorkspaceRef) (string, error) {
	if ws == nil || ws.workspaceID() == "" {
		return "", fmt.Errorf("workspace ID is empty")
	}
	return ws.workspaceID(), nil
}

// Workspaces lists the workspaces of the authenticated user.
func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	data, err := c.do(ctx, "workspaces", nil)
	if err != nil {
		return nil, fmt.Errorf("getting workspaces: %w", err)
	}
	workspaces, err := decodeList[Workspace]("workspaces", data)
	if err != nil {
		return nil, fmt.Errorf("parsing workspaces response: %w", err)
	}
	return workspaces, nil
}

// User returns the user the API key belongs to.
func (c *Client) User(ctx context.Context) (*User, error) {
	data, err := c.do(ctx, "user", nil)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	user, err := decodeOne[User]("user", data)
	if err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}
	return user, nil
}

// TimeEntries lists the time entries of user in ws. A nil user means the
// authenticated user, which costs one extra request.
func (c *Client) TimeEntries(ctx context.Context, ws WorkspaceRef, user UserRef) ([]TimeEntry, error) {
	workspaceID, err := resolveWorkspace(ws)
	if err != nil {
		return nil, err
	}
	if user == nil {
		me, err := c.User(ctx)
		if err != nil {
			return nil, err
		}
		user = me
	}
	if user.userID() == "" {
		return nil, fmt.Errorf("user ID is empty")
	}

	data, err := c.do(ctx, endpoint("workspaces", workspaceID, "user", user.userID(), "time-entries"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting time entries: %w", err)
	}
	entries, err := decodeList[TimeEntry]("time entries", data)
	if err != nil {
		return nil, fmt.Errorf("parsing time entries response: %w", err)
	}
	return entries, nil
}

// Clients lists the billing clients of ws.
func (c *Client) Clients(ctx context.Context, ws WorkspaceRef) ([]ProjectClient, error) {
	workspaceID, err := resolveWorkspace(ws)
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, endpoint("workspaces", workspaceID, "clients"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting clients: %w", err)
	}
	clients, err := decodeList[ProjectClient]("clients", data)
	if err != nil {
		return nil, fmt.Errorf("parsing clients response: %w", err)
	}
	return clients, nil
}

// Tags lists the tags of ws.
func (c *Client) Tags(ctx context.Context, ws WorkspaceRef) ([]Tag, error) {
	workspaceID, err := resolveWorkspace(ws)
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, endpoint("workspaces", workspaceID, "tags"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting tags: %w", err)
	}
	tags, err := decodeList[Tag]("tags", data)
	if err != nil {
		return nil, fmt.Errorf("parsing tags response: %w", err)
	}
	return tags, nil
}

// Projects lists the projects of ws.
func (c *Client) Projects(ctx context.Context, ws WorkspaceRef) ([]Project, error) {
	workspaceID, err := resolveWorkspace(ws)
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, endpoint("workspaces", workspaceID, "projects"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}
	projects, err := decodeList[Project]("projects", data)
	if err != nil {
		return nil, fmt.Errorf("parsing projects response: %w", err)
	}
	return projects, nil
}

// Tasks lists the tasks of project in ws.
func (c *Client) Tasks(ctx context.Context, ws WorkspaceRef, project ProjectRef) ([]Task, error) {
	workspaceID, err := resolveWorkspace(ws)
	if err != nil {
		return nil, err
	}
	if project == nil || project.projectID() == "" {
		return nil, fmt.Errorf("project ID is empty")
	}
	data, err := c.do(ctx, endpoint("workspaces", workspaceID, "projects", project.projectID(), "tasks"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting tasks: %w", err)
	}
	tasks, err := decodeList[Task]("tasks", data)
	if err != nil {
		return nil, fmt.Errorf("parsing tasks response: %w", err)
	}
	return tasks, nil
}

// CreateTimeEntry adds a time entry for the authenticated user in ws.
func (c *Client) CreateTimeEntry(ctx context.Context, ws WorkspaceRef, entry TimeEntryRequest) (*TimeEntry, error) {
	workspaceID, err := resolveWorkspace(ws)
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, endpoint("workspaces", workspaceID, "time-entries"), entry)
	if err != nil {
		return nil, fmt.Errorf("creating time entry: %w", err)
	}
	created, err := decodeOne[TimeEntry]("time entry", data)
	if err != nil {
		return nil, fmt.Errorf("parsing time entry response: %w", err)
	}
	return created, nil
}

// Package api provides the HTTP client for the sitesmith server. The
// console builds all of its data access on top of this client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Sentinel errors mapped from response status codes. Callers branch on
// these with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Client is an HTTP client for the sitesmith server. Safe for
// concurrent use once the token is set.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// ClientOption configures client behavior.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken installs an existing session token.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Token returns the current session token, empty when signed out.
func (c *Client) Token() string {
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return responseError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func responseError(resp *http.Response) error {
	respBody, _ := io.ReadAll(resp.Body)
	description := strings.TrimSpace(string(respBody))
	var errRsp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(respBody, &errRsp) == nil && errRsp.Error != "" {
		description = errRsp.Error
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, description)
	}
	return fmt.Errorf("%w: %s", sentinel, description)
}

// Login authenticates and stores the session token for subsequent
// calls.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	result := &LoginResult{}
	err := c.do(ctx, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, result)
	if err != nil {
		return nil, err
	}
	c.token = result.Token
	return result, nil
}

// Logout signs out and drops the stored token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.token = ""
	return err
}

// Session returns the user behind the stored token.
func (c *Client) Session(ctx context.Context) (*User, error) {
	user := &User{}
	if err := c.do(ctx, http.MethodGet, "/auth/session", nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SubscribeSessionEvents opens the session events stream. Events arrive
// on the returned channel until the context is canceled or the server
// closes the stream; the channel is closed either way.
func (c *Client) SubscribeSessionEvents(ctx context.Context) (<-chan SessionEvent, error) {
	wsURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	switch wsURL.Scheme {
	case "http":
		wsURL.Scheme = "ws"
	case "https":
		wsURL.Scheme = "wss"
	}
	wsURL.Path = strings.TrimSuffix(wsURL.Path, "/") + "/auth/events"
	wsURL.RawQuery = "token=" + url.QueryEscape(c.token)

	conn, rsp, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		if rsp != nil && rsp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: session events", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to open session events stream: %w", err)
	}
	if rsp != nil && rsp.Body != nil {
		rsp.Body.Close()
	}

	events := make(chan SessionEvent, 8)
	go func() {
		defer close(events)
		defer conn.Close()
		go func() {
			<-ctx.Done()
			conn.Close()
		}()
		for {
			var event SessionEvent
			if err := conn.ReadJSON(&event); err != nil {
				return
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

// CreateProject creates a project; the server adds its default page.
func (c *Client) CreateProject(ctx context.Context, req *ProjectRequest) (*Project, error) {
	project := &Project{}
	if err := c.do(ctx, http.MethodPost, "/projects", req, project); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects lists the caller's projects, most recent first. A limit
// of 0 lists all.
func (c *Client) ListProjects(ctx context.Context, limit int) ([]Project, error) {
	path := "/projects"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	projects := []Project{}
	if err := c.do(ctx, http.MethodGet, path, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject retrieves one project.
func (c *Client) GetProject(ctx context.Context, projectID string) (*Project, error) {
	project := &Project{}
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID, nil, project); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject persists project changes.
func (c *Client) UpdateProject(ctx context.Context, projectID string, req *ProjectRequest) (*Project, error) {
	project := &Project{}
	if err := c.do(ctx, http.MethodPut, "/projects/"+projectID, req, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project and all of its pages.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+projectID, nil, nil)
}

// DuplicateProject copies a project and its pages. An empty name lets
// the server derive one from the source.
func (c *Client) DuplicateProject(ctx context.Context, projectID, name string) (*Project, error) {
	var body any
	if name != "" {
		body = map[string]string{"name": name}
	}
	project := &Project{}
	if err := c.do(ctx, http.MethodPost, "/projects/"+projectID+"/duplicate", body, project); err != nil {
		return nil, err
	}
	return project, nil
}

// CreatePage adds a page to a project.
func (c *Client) CreatePage(ctx context.Context, projectID string, req *PageRequest) (*Page, error) {
	page := &Page{}
	if err := c.do(ctx, http.MethodPost, "/projects/"+projectID+"/pages", req, page); err != nil {
		return nil, err
	}
	return page, nil
}

// ListPages lists a project's pages in display order.
func (c *Client) ListPages(ctx context.Context, projectID string) ([]Page, error) {
	pages := []Page{}
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID+"/pages", nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// GetPage retrieves one page.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	page := &Page{}
	if err := c.do(ctx, http.MethodGet, "/pages/"+pageID, nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

// UpdatePage persists page changes.
func (c *Client) UpdatePage(ctx context.Context, pageID string, req *PageRequest) (*Page, error) {
	page := &Page{}
	if err := c.do(ctx, http.MethodPut, "/pages/"+pageID, req, page); err != nil {
		return nil, err
	}
	return page, nil
}

// DeletePage removes a page. Deleting a project's last page returns
// ErrConflict.
func (c *Client) DeletePage(ctx context.Context, pageID string) error {
	return c.do(ctx, http.MethodDelete, "/pages/"+pageID, nil, nil)
}

// ReorderPages rewrites a project's page order.
func (c *Client) ReorderPages(ctx context.Context, projectID string, pageIDs []string) error {
	return c.do(ctx, http.MethodPut, "/projects/"+projectID+"/pages/order",
		map[string][]string{"page_ids": pageIDs}, nil)
}

// ListTemplates lists the shared template catalog.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	templates := []Template{}
	if err := c.do(ctx, http.MethodGet, "/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// GetTemplate retrieves one template.
func (c *Client) GetTemplate(ctx context.Context, templateID string) (*Template, error) {
	template := &Template{}
	if err := c.do(ctx, http.MethodGet, "/templates/"+templateID, nil, template); err != nil {
		return nil, err
	}
	return template, nil
}

// ListAnalytics lists events for one project, or across all the
// caller's projects when projectID is empty.
func (c *Client) ListAnalytics(ctx context.Context, projectID string) ([]AnalyticsEvent, error) {
	path := "/analytics"
	if projectID != "" {
		path = "/projects/" + projectID + "/analytics"
	}
	events := []AnalyticsEvent{}
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetVersion reports the server version.
func (c *Client) GetVersion(ctx context.Context) (*Version, error) {
	version := &Version{}
	if err := c.do(ctx, http.MethodGet, "/version", nil, version); err != nil {
		return nil, err
	}
	return version, nil
}

// Package notion is a thin JSON/HTTP client for the Notion API: typed
// wrappers for the resource endpoints, an escape-hatch raw call path, and
// the property normalizer that flattens response payloads for display.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"notas/pkg/logging"
)

const (
	// DefaultBaseURL is the API origin.
	DefaultBaseURL = "https://api.notion.com"

	// APIVersion is sent in the Notion-Version header on every request.
	APIVersion = "2022-06-28"
)

// Client issues authenticated calls against the API. Construct one per
// invocation from the resolved bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API origin, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for the given bearer token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListResponse is the shape every list endpoint returns.
type ListResponse struct {
	Results    []map[string]any `json:"results"`
	HasMore    bool             `json:"has_more"`
	NextCursor string           `json:"next_cursor"`
}

// ListParams are the cursor parameters accepted by GET list endpoints.
type ListParams struct {
	PageSize    int
	StartCursor string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.StartCursor != "" {
		q.Set("start_cursor", p.StartCursor)
	}
	return q
}

// ApplyToBody writes the cursor parameters into a POST body.
func (p ListParams) ApplyToBody(body map[string]any) {
	if p.PageSize > 0 {
		body["page_size"] = p.PageSize
	}
	if p.StartCursor != "" {
		body["start_cursor"] = p.StartCursor
	}
}

// Me retrieves the bot user behind the token.
func (c *Client) Me(ctx context.Context) (map[string]any, error) {
	return c.getObject(ctx, "/v1/users/me")
}

// User retrieves a user by id.
func (c *Client) User(ctx context.Context, id string) (map[string]any, error) {
	return c.getObject(ctx, "/v1/users/"+url.PathEscape(id))
}

// Users lists workspace users.
func (c *Client) Users(ctx context.Context, params ListParams) (*ListResponse, error) {
	return c.getList(ctx, "/v1/users", params)
}

// Search runs a full-text search. The body carries query, filter, sort and
// cursor fields.
func (c *Client) Search(ctx context.Context, body map[string]any) (*ListResponse, error) {
	var out ListResponse
	if err := c.do(ctx, http.MethodPost, "/v1/search", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Page retrieves a page by id.
func (c *Client) Page(ctx context.Context, id string) (map[string]any, error) {
	return c.getObject(ctx, "/v1/pages/"+url.PathEscape(id))
}

// CreatePage creates a page under a parent page or database.
func (c *Client) CreatePage(ctx context.Context, body map[string]any) (map[string]any, error) {
	return c.writeObject(ctx, http.MethodPost, "/v1/pages", body)
}

// UpdatePage patches a page's properties or archived flag.
func (c *Client) UpdatePage(ctx context.Context, id string, body map[string]any) (map[string]any, error) {
	return c.writeObject(ctx, http.MethodPatch, "/v1/pages/"+url.PathEscape(id), body)
}

// Database retrieves a database by id.
func (c *Client) Database(ctx context.Context, id string) (map[string]any, error) {
	return c.getObject(ctx, "/v1/databases/"+url.PathEscape(id))
}

// CreateDatabase creates a database under a parent page.
func (c *Client) CreateDatabase(ctx context.Context, body map[string]any) (map[string]any, error) {
	return c.writeObject(ctx, http.MethodPost, "/v1/databases", body)
}

// UpdateDatabase patches a database's title or schema.
func (c *Client) UpdateDatabase(ctx context.Context, id string, body map[string]any) (map[string]any, error) {
	return c.writeObject(ctx, http.MethodPatch, "/v1/databases/"+url.PathEscape(id), body)
}

// QueryDatabase runs a database query with optional filter/sort/cursor
// fields in the body.
func (c *Client) QueryDatabase(ctx context.Context, id string, body map[string]any) (*ListResponse, error) {
	var out ListResponse
	path := "/v1/databases/" + url.PathEscape(id) + "/query"
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Block retrieves a block by id.
func (c *Client) Block(ctx context.Context, id string) (map[string]any, error) {
	return c.getObject(ctx, "/v1/blocks/"+url.PathEscape(id))
}

// BlockChildren lists a block's direct children.
func (c *Client) BlockChildren(ctx context.Context, id string, params ListParams) (*ListResponse, error) {
	return c.getList(ctx, "/v1/blocks/"+url.PathEscape(id)+"/children", params)
}

// AppendChildren appends child blocks to a block or page.
func (c *Client) AppendChildren(ctx context.Context, id string, body map[string]any) (*ListResponse, error) {
	var out ListResponse
	path := "/v1/blocks/" + url.PathEscape(id) + "/children"
	if err := c.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBlock patches a block's content.
func (c *Client) UpdateBlock(ctx context.Context, id string, body map[string]any) (map[string]any, error) {
	return c.writeObject(ctx, http.MethodPatch, "/v1/blocks/"+url.PathEscape(id), body)
}

// DeleteBlock moves a block to the trash.
func (c *Client) DeleteBlock(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodDelete, "/v1/blocks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Comments lists comments on a block or page.
func (c *Client) Comments(ctx context.Context, blockID string, params ListParams) (*ListResponse, error) {
	q := params.query()
	q.Set("block_id", blockID)

	var out ListResponse
	if err := c.do(ctx, http.MethodGet, "/v1/comments?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateComment adds a comment to a page or discussion thread.
func (c *Client) CreateComment(ctx context.Context, body map[string]any) (map[string]any, error) {
	return c.writeObject(ctx, http.MethodPost, "/v1/comments", body)
}

// RawCall issues an arbitrary request with the standard headers and returns
// the decoded JSON without shape validation, plus the HTTP status. Non-2xx
// responses are returned to the caller rather than converted to an error so
// the passthrough command can still print the body.
func (c *Client) RawCall(ctx context.Context, method, path string, body any) (any, int, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	var decoded any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return decoded, resp.StatusCode, nil
}

func (c *Client) getObject(ctx context.Context, path string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) writeObject(ctx context.Context, method, path string, body map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getList(ctx context.Context, path string, params ListParams) (*ListResponse, error) {
	if q := params.query(); len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out ListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

// do issues a request and decodes the response into out, converting non-2xx
// responses into an APIError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	logging.Debug("notion", "%s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &errBody) == nil {
			apiErr.Code = errBody.Code
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// CollectAll follows next_cursor until has_more is false and returns the
// concatenated results. Any page failure aborts the whole collection.
func CollectAll(ctx context.Context, fetch func(ctx context.Context, cursor string) (*ListResponse, error)) ([]map[string]any, error) {
	var results []map[string]any
	cursor := ""

	for {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}

		results = append(results, page.Results...)

		if !page.HasMore || page.NextCursor == "" {
			return results, nil
		}
		cursor = page.NextCursor
	}
}

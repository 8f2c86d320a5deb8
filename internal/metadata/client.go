package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gateway is the boundary over the remote metadata service used by the
// synchronization process. Calls are single-attempt; failures are returned as
// *APIError values.
type Gateway interface {
	FetchEntries(ctx context.Context, projectID string) ([]Entry, error)
	SaveField(ctx context.Context, req SaveRequest) error
	DeleteField(ctx context.Context, field string) (DeleteResult, error)
}

// Ensure Client implements Gateway at compile time.
var _ Gateway = (*Client)(nil)

// Client talks to the metadata service HTTP API for a single project.
type Client struct {
	baseURL   *url.URL
	projectID string
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL         = "127.0.0.1:8080"
	defaultUserAgent      = "linelist/0.1"
	defaultRequestTimeout = 30 * time.Second
	requestIDHeader       = "X-Request-ID"
)

// ClientOptions configure NewClient.
type ClientOptions struct {
	APIURL    string
	ProjectID string
	Timeout   time.Duration // zero uses 30s
}

// NewClient builds a Client scoped to opts.ProjectID.
func NewClient(opts ClientOptions) (*Client, error) {
	base, err := parseBaseURL(opts.APIURL)
	if err != nil {
		return nil, err
	}
	projectID := strings.TrimSpace(opts.ProjectID)
	if projectID == "" {
		return nil, fmt.Errorf("project id is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL:   base,
		projectID: projectID,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchEntries retrieves every linelist entry for the given project. An empty
// projectID falls back to the client's project.
func (c *Client) FetchEntries(ctx context.Context, projectID string) ([]Entry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(projectID) == "" {
		projectID = c.projectID
	}
	var payload EntryListResponse
	if err := c.do(ctx, "fetch entries", http.MethodGet, c.projectPath(projectID, "linelist", "entries"), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Entries, nil
}

// SaveField stores a single cell value for a sample.
func (c *Client) SaveField(ctx context.Context, req SaveRequest) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(req.SampleID) == "" {
		return &APIError{Kind: ErrValidation, Op: "save field", Message: "sample id required"}
	}
	if strings.TrimSpace(req.Field) == "" {
		return &APIError{Kind: ErrValidation, Op: "save field", Message: "field required"}
	}
	body := saveFieldBody{Field: req.Field, Label: req.Label, Value: req.Value}
	path := c.projectPath(c.projectID, "linelist", "entries", req.SampleID)
	return c.do(ctx, "save field", http.MethodPut, path, body, nil)
}

// DeleteField removes a field's value from every entry in the project.
func (c *Client) DeleteField(ctx context.Context, field string) (DeleteResult, error) {
	if c == nil {
		return DeleteResult{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(field) == "" {
		return DeleteResult{}, &APIError{Kind: ErrValidation, Op: "delete field", Message: "field required"}
	}
	var payload DeleteResult
	path := c.projectPath(c.projectID, "linelist", "fields", field)
	if err := c.do(ctx, "delete field", http.MethodDelete, path, nil, &payload); err != nil {
		return DeleteResult{}, err
	}
	return payload, nil
}

// FetchProject retrieves the project details.
func (c *Client) FetchProject(ctx context.Context) (Project, error) {
	if c == nil {
		return Project{}, fmt.Errorf("client is nil")
	}
	var payload Project
	if err := c.do(ctx, "fetch project", http.MethodGet, c.projectPath(c.projectID), nil, &payload); err != nil {
		return Project{}, err
	}
	return payload, nil
}

// UpdateProjectAttribute changes one editable project attribute and returns
// the server's confirmation message.
func (c *Client) UpdateProjectAttribute(ctx context.Context, field, value string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	field = strings.TrimSpace(field)
	if !IsEditableProjectAttribute(field) {
		return "", &APIError{Kind: ErrValidation, Op: "update project", Message: fmt.Sprintf("attribute %q is not editable", field)}
	}
	var payload messageResponse
	body := projectAttributeBody{Field: field, Value: value}
	if err := c.do(ctx, "update project", http.MethodPatch, c.projectPath(c.projectID), body, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// RemoveMember removes a user from the project.
func (c *Client) RemoveMember(ctx context.Context, userID string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return "", &APIError{Kind: ErrValidation, Op: "remove member", Message: "user id required"}
	}
	var payload messageResponse
	if err := c.do(ctx, "remove member", http.MethodDelete, c.projectPath(c.projectID, "members", userID), nil, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

func (c *Client) projectPath(projectID string, segments ...string) *url.URL {
	parts := append([]string{"api", "projects", projectID}, segments...)
	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = url.PathEscape(part)
	}
	raw := "/" + strings.Join(escaped, "/")
	rel, err := url.Parse(raw)
	if err != nil {
		return &url.URL{Path: raw}
	}
	return rel
}

func (c *Client) do(ctx context.Context, op, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: ErrValidation, Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestIDFromContext(ctx))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: ErrTransport, Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return statusError(op, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if err == io.EOF {
			return nil
		}
		return &APIError{Kind: ErrTransport, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	apiErr := &APIError{
		Kind:    kindForStatus(resp.StatusCode),
		Op:      op,
		Status:  resp.StatusCode,
		Message: serverMessage(raw),
	}
	return apiErr
}

func kindForStatus(code int) error {
	switch code {
	case http.StatusNotFound, http.StatusGone:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrTransport
	}
}

// serverMessage extracts a human message from an error body, accepting both
// {"message": "..."} payloads and plain text.
func serverMessage(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return ""
	}
	var payload messageResponse
	if err := json.Unmarshal(raw, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return strings.TrimSpace(payload.Message)
	}
	return trimmed
}

type requestIDKey struct{}

// WithRequestID attaches a request ID that will be sent as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

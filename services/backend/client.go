package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"saas_juridico_gateway/models"
)

// CompanyAPIPrefix is the root of every tenant-scoped backend route
const CompanyAPIPrefix = "/api/v1/company"

// Stat summary resources
const (
	StatsProcesses   = "processes"
	StatsClients     = "clients"
	StatsUsers       = "users"
	StatsSpecialties = "specialties"
)

// maxErrorBody bounds how much of a failed response is read for the detail message
const maxErrorBody = 64 << 10

// hopHeaders are never copied between the browser and the backend
var hopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
	"Host":                {},
	"Content-Length":      {},
	"Accept-Encoding":     {},
}

// Client talks to the Backend Data Service. The caller's Authorization header
// is forwarded unmodified on every call.
type Client struct {
	baseURL    string
	client     *http.Client
	debugError bool
}

// NewClient creates a configured backend client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithDebugErrors makes the client log raw bodies of failed responses
func (c *Client) WithDebugErrors(enabled bool) *Client {
	c.debugError = enabled
	return c
}

// BaseURL returns the service root the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListProcesses fetches GET /processes. limit <= 0 omits the limit parameter.
func (c *Client) ListProcesses(ctx context.Context, authorization string, limit int) ([]models.Process, error) {
	var out []models.Process
	if err := c.getJSON(ctx, authorization, "/processes", limitQuery(limit), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListClients fetches GET /clients. limit <= 0 omits the limit parameter.
func (c *Client) ListClients(ctx context.Context, authorization string, limit int) ([]models.Client, error) {
	var out []models.Client
	if err := c.getJSON(ctx, authorization, "/clients", limitQuery(limit), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessTimeline fetches GET /processes/{id}/timeline
func (c *Client) ProcessTimeline(ctx context.Context, authorization, processID string, limit int) ([]models.TimelineEvent, error) {
	var out []models.TimelineEvent
	path := "/processes/" + url.PathEscape(processID) + "/timeline"
	if err := c.getJSON(ctx, authorization, path, limitQuery(limit), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessDeadlines fetches GET /processes/{id}/deadlines
func (c *Client) ProcessDeadlines(ctx context.Context, authorization, processID string) ([]models.Deadline, error) {
	var out []models.Deadline
	path := "/processes/" + url.PathEscape(processID) + "/deadlines"
	if err := c.getJSON(ctx, authorization, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StatsSummary fetches GET /{resource}/stats/summary as a raw object
func (c *Client) StatsSummary(ctx context.Context, authorization, resource string) (map[string]any, error) {
	out := map[string]any{}
	if err := c.getJSON(ctx, authorization, "/"+resource+"/stats/summary", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForwardRequest describes a browser request relayed to the backend
type ForwardRequest struct {
	Method string
	Path   string // relative to CompanyAPIPrefix, e.g. "/clients/12"
	Query  url.Values
	Header http.Header
	Body   io.Reader
}

// ForwardResponse is the backend answer to a forwarded request
type ForwardResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Forward relays a request verbatim. Non-2xx answers are returned as
// *UpstreamError; the raw body is still available through the error.
func (c *Client) Forward(ctx context.Context, fr ForwardRequest) (*ForwardResponse, error) {
	req, err := http.NewRequestWithContext(ctx, fr.Method, c.endpoint(fr.Path, fr.Query), fr.Body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	copyHeaders(req.Header, fr.Header)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.upstreamError(fr.Method, fr.Path, resp.StatusCode, body)
	}

	return &ForwardResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, authorization, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.upstreamError(http.MethodGet, path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + CompanyAPIPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) upstreamError(method, path string, status int, body []byte) *UpstreamError {
	if c.debugError {
		log.Printf("[BACKEND] %s %s -> %d: %s", method, path, status, truncate(body, 512))
	}
	return &UpstreamError{
		StatusCode: status,
		Detail:     ExtractDetail(body),
		Body:       body,
	}
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}

func copyHeaders(dst, src http.Header) {
	for k, values := range src {
		if _, skip := hopHeaders[http.CanonicalHeaderKey(k)]; skip {
			continue
		}
		for _, v := range values {
			dst.Add(k, v)
		}
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(bytes.TrimSpace(b))
	}
	return string(b[:n]) + "..."
}

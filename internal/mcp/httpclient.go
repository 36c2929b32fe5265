package mcp

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

	"github.com/claude/weeklog/internal/export"
	"github.com/claude/weeklog/internal/models"
	"github.com/claude/weeklog/internal/tracker"
)

// HTTPClient implements DataSource by calling the weeklog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the week lives on a weeklog server (possibly over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey is
// sent on mutating requests and may be empty for read-only use.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	var msg struct {
		Error string `json:"error"`
	}
	if json.Unmarshal([]byte(e.Body), &msg) == nil && msg.Error != "" {
		return fmt.Sprintf("httpclient: %s returned %d: %s", e.Path, e.Status, msg.Error)
	}
	return fmt.Sprintf("httpclient: %s returned %d: %s", e.Path, e.Status, strings.TrimSpace(e.Body))
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body io.Reader) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if method != http.MethodGet && c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Path: path, Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func dayPath(day int) string {
	return "/api/v1/days/" + strconv.Itoa(day)
}

func (c *HTTPClient) Day(ctx context.Context, day int) ([]models.Activity, error) {
	var v struct {
		Activities []models.Activity `json:"activities"`
	}
	if err := c.getJSON(ctx, dayPath(day), nil, &v); err != nil {
		return nil, err
	}
	if v.Activities == nil {
		v.Activities = []models.Activity{}
	}
	return v.Activities, nil
}

func (c *HTTPClient) Activity(ctx context.Context, day, index int) (models.Activity, error) {
	var a models.Activity
	err := c.getJSON(ctx, dayPath(day)+"/activities/"+strconv.Itoa(index), nil, &a)
	return a, err
}

func (c *HTTPClient) Append(ctx context.Context, day int, a models.Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("httpclient: encode activity: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, dayPath(day)+"/activities", nil, bytes.NewReader(data))
	return err
}

func (c *HTTPClient) DeleteActivity(ctx context.Context, day, index int) error {
	_, err := c.do(ctx, http.MethodDelete, dayPath(day)+"/activities/"+strconv.Itoa(index), nil, nil)
	return err
}

func (c *HTTPClient) ClearDay(ctx context.Context, day int) error {
	_, err := c.do(ctx, http.MethodDelete, dayPath(day), nil, nil)
	return err
}

func (c *HTTPClient) FewestReps(ctx context.Context, day int) (models.Activity, error) {
	var v struct {
		Activity models.Activity `json:"activity"`
	}
	err := c.getJSON(ctx, dayPath(day)+"/fewest-reps", nil, &v)
	return v.Activity, err
}

func (c *HTTPClient) Summary(ctx context.Context) (tracker.Summary, error) {
	var v struct {
		Days       int `json:"day_count"`
		Activities int `json:"total_activity_count"`
	}
	if err := c.getJSON(ctx, "/api/v1/summary", nil, &v); err != nil {
		return tracker.Summary{}, err
	}
	sum := tracker.Summary{Days: v.Days, Activities: v.Activities}
	if v.Days > 0 {
		sum.AveragePerDay = float64(v.Activities) / float64(v.Days)
	}
	return sum, nil
}

func (c *HTTPClient) DurationPerDay(ctx context.Context) ([models.DaysPerWeek]int, error) {
	var v struct {
		Minutes [models.DaysPerWeek]int `json:"minutes"`
	}
	err := c.getJSON(ctx, "/api/v1/durations", nil, &v)
	return v.Minutes, err
}

// Recommend maps the server's 404 for an unknown group to a not-found result.
func (c *HTTPClient) Recommend(ctx context.Context, group string, count int) (tracker.Recommendation, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(count))

	var rec tracker.Recommendation
	err := c.getJSON(ctx, "/api/v1/recommend/"+url.PathEscape(group), params, &rec)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return tracker.Recommendation{Group: group, Exercises: []string{}}, nil
	}
	if err != nil {
		return tracker.Recommendation{}, err
	}
	if rec.Exercises == nil {
		rec.Exercises = []string{}
	}
	return rec, nil
}

func (c *HTTPClient) Export(ctx context.Context, f export.Format) (string, error) {
	params := url.Values{}
	params.Set("format", string(f))
	body, err := c.do(ctx, http.MethodGet, "/api/v1/export", params, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

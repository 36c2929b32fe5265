package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/claude/weeklog/internal/ingest"
)

// Summary mirrors the server's /api/v1/summary payload.
type Summary struct {
	Days       int    `json:"day_count"`
	Activities int    `json:"total_activity_count"`
	Average    string `json:"average_per_day"`
}

// Client sends week files to a weeklog server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the weeklog server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// FetchSummary retrieves the server's current week summary. The uploader
// calls it first to fail fast on a bad URL.
func (c *Client) FetchSummary() (Summary, error) {
	resp, err := c.httpClient.Get(c.serverURL + "/api/v1/summary")
	if err != nil {
		return Summary{}, fmt.Errorf("fetching summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Summary{}, fmt.Errorf("summary request failed (status %d): %s", resp.StatusCode, body)
	}

	var s Summary
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return Summary{}, fmt.Errorf("decoding summary: %w", err)
	}
	return s, nil
}

// SendSchedule POSTs record lines to the server's import endpoint.
// mode is "append" or "replace". Server errors and transport failures are
// retried up to 3 times with exponential backoff; 4xx responses are not.
func (c *Client) SendSchedule(data []byte, mode string) (ingest.Result, error) {
	u := c.serverURL + "/api/v1/import?" + url.Values{"mode": {mode}}.Encode()

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(c.backoff * time.Duration(1<<uint(attempt-1)))
		}

		req, err := http.NewRequest(http.MethodPost, u, bytes.NewReader(data))
		if err != nil {
			return ingest.Result{}, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			var res ingest.Result
			if err := json.Unmarshal(body, &res); err != nil {
				return ingest.Result{}, fmt.Errorf("decoding import result: %w", err)
			}
			return res, nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return ingest.Result{}, fmt.Errorf("import rejected (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
		}
		lastErr = fmt.Errorf("import failed (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return ingest.Result{}, fmt.Errorf("after 3 attempts: %w", lastErr)
}

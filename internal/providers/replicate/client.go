// Package replicate talks to the Replicate HTTP API: model registry lookups,
// prediction submission and status polling.
package replicate

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

	"interiorai/internal/domain"
	"interiorai/internal/infra"
	"interiorai/internal/metrics"
	"interiorai/internal/poll"
)

var (
	// ErrMissingAPIKey indicates that the client was configured without credentials.
	ErrMissingAPIKey = errors.New("replicate: api key is required")
	// ErrRateLimited is returned once submission retries on HTTP 429 are exhausted.
	ErrRateLimited = errors.New("replicate: rate limited")
)

// APIError is a non-success HTTP response from Replicate.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("replicate: status %d", e.StatusCode)
	}
	return fmt.Sprintf("replicate: status %d: %s", e.StatusCode, e.Detail)
}

// Options configures the Replicate client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	Metrics        *metrics.Collector
	RequestTimeout time.Duration
	// Clock drives both submit backoff and polling waits.
	Clock        poll.Clock
	PollInterval time.Duration
	// SubmitAttempts bounds prediction submissions on HTTP 429.
	SubmitAttempts int
	// BackoffBase is the first 429 wait; each further wait doubles.
	BackoffBase time.Duration
}

// Client performs HTTP calls to the Replicate API.
type Client struct {
	apiKey         string
	baseURL        string
	httpClient     *http.Client
	logger         *infra.Logger
	metrics        *metrics.Collector
	clock          poll.Clock
	pollInterval   time.Duration
	submitAttempts int
	backoffBase    time.Duration
}

// Prediction is the wire shape of a Replicate prediction.
type Prediction struct {
	ID     string           `json:"id"`
	Status domain.JobStatus `json:"status"`
	Output any              `json:"output"`
	Error  any              `json:"error"`
	URLs   struct {
		Get    string `json:"get"`
		Cancel string `json:"cancel"`
	} `json:"urls"`
}

// ErrorMessage flattens the provider error field, which may be a string or
// a structured object.
func (p *Prediction) ErrorMessage() string {
	switch v := p.Error.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		raw, _ := json.Marshal(v)
		return string(raw)
	}
}

// Version is one entry of a model's version history.
type Version struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type modelResponse struct {
	LatestVersion *Version `json:"latest_version"`
}

type versionsResponse struct {
	Results []Version `json:"results"`
}

type createRequest struct {
	Version string         `json:"version"`
	Input   map[string]any `json:"input"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

// NewClient constructs a client with defaults for every unset option.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com"
	}
	clock := opts.Clock
	if clock == nil {
		clock = poll.SystemClock{}
	}
	attempts := opts.SubmitAttempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := opts.BackoffBase
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Client{
		apiKey:         strings.TrimSpace(opts.APIKey),
		baseURL:        baseURL,
		httpClient:     httpClient,
		logger:         infra.OrDiscard(opts.Logger),
		metrics:        opts.Metrics,
		clock:          clock,
		pollInterval:   opts.PollInterval,
		submitAttempts: attempts,
		backoffBase:    backoff,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c != nil && c.apiKey != ""
}

// LatestVersion returns the newest version id published for owner/name.
func (c *Client) LatestVersion(ctx context.Context, owner, name string) (string, error) {
	var decoded modelResponse
	if err := c.getJSON(ctx, modelPath(owner, name), &decoded); err != nil {
		return "", err
	}
	if decoded.LatestVersion == nil || decoded.LatestVersion.ID == "" {
		return "", fmt.Errorf("replicate: %s/%s has no published version", owner, name)
	}
	return decoded.LatestVersion.ID, nil
}

// ListVersions returns the version history of owner/name, newest first.
func (c *Client) ListVersions(ctx context.Context, owner, name string) ([]Version, error) {
	var decoded versionsResponse
	if err := c.getJSON(ctx, modelPath(owner, name)+"/versions", &decoded); err != nil {
		return nil, err
	}
	return decoded.Results, nil
}

// CreatePrediction submits a job. HTTP 429 responses are retried with
// exponential backoff until SubmitAttempts is exhausted.
func (c *Client) CreatePrediction(ctx context.Context, version string, input map[string]any) (*Prediction, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	body, err := json.Marshal(createRequest{Version: version, Input: input})
	if err != nil {
		return nil, fmt.Errorf("replicate: encode request: %w", err)
	}

	delay := c.backoffBase
	for attempt := 1; ; attempt++ {
		var pred Prediction
		err := c.do(ctx, http.MethodPost, "/v1/predictions", body, &pred)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			if attempt >= c.submitAttempts {
				return nil, fmt.Errorf("%w after %d attempts", ErrRateLimited, attempt)
			}
			c.logger.Warn().Int("attempt", attempt).Dur("wait", delay).Msg("replicate: rate limited, backing off")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-c.clock.After(delay):
			}
			delay *= 2
			continue
		}
		if err != nil {
			return nil, err
		}
		if pred.ID == "" {
			return nil, errors.New("replicate: prediction id missing")
		}
		c.logger.Debug().Str("prediction", pred.ID).Str("version", version).Msg("replicate: prediction created")
		return &pred, nil
	}
}

// GetPrediction fetches the current state of a prediction.
func (c *Client) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	var pred Prediction
	if err := c.do(ctx, http.MethodGet, "/v1/predictions/"+url.PathEscape(id), nil, &pred); err != nil {
		return nil, err
	}
	return &pred, nil
}

// Run submits a prediction and polls it to a terminal state within the given
// attempt ceiling. label names the model in logs and metrics.
func (c *Client) Run(ctx context.Context, label, version string, input map[string]any, attempts int) (*domain.GenerationJob, error) {
	pred, err := c.CreatePrediction(ctx, version, input)
	if err != nil {
		return nil, err
	}
	fetch := func(ctx context.Context, id string) (poll.Status, error) {
		p, err := c.GetPrediction(ctx, id)
		if err != nil {
			return poll.Status{}, err
		}
		return poll.Status{Status: p.Status, Output: p.Output, Error: p.ErrorMessage()}, nil
	}
	return poll.Until(ctx, pred.ID, fetch, poll.Options{
		Interval:    c.pollInterval,
		MaxAttempts: attempts,
		Clock:       c.clock,
		Logger:      c.logger,
		OnAttempt: func(status domain.JobStatus) {
			c.metrics.ObservePoll(label, string(status))
		},
	})
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if !c.HasCredentials() {
		return ErrMissingAPIKey
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("replicate: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("replicate: decode response: %w", err)
	}
	return nil
}

func errorDetail(raw []byte) string {
	var detail errorResponse
	if err := json.Unmarshal(raw, &detail); err == nil {
		if detail.Detail != "" {
			return detail.Detail
		}
		if detail.Title != "" {
			return detail.Title
		}
	}
	return strings.TrimSpace(string(raw))
}

func modelPath(owner, name string) string {
	return "/v1/models/" + url.PathEscape(owner) + "/" + url.PathEscape(name)
}

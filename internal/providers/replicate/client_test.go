package replicate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interiorai/internal/domain"
)

// recordingClock fires immediately and records requested waits.
type recordingClock struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (c *recordingClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingClock) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	clock := &recordingClock{}
	return NewClient(Options{APIKey: "r8_test", BaseURL: srv.URL, Clock: clock}), clock
}

func TestLatestVersion(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models/black-forest-labs/flux-depth-dev", r.URL.Path)
		assert.Equal(t, "Bearer r8_test", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"latest_version":{"id":"v123","created_at":"2025-01-02T03:04:05Z"}}`)
	})

	v, err := client.LatestVersion(context.Background(), "black-forest-labs", "flux-depth-dev")
	require.NoError(t, err)
	assert.Equal(t, "v123", v)
}

func TestLatestVersionWithoutPublishedVersion(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"latest_version":null}`)
	})

	_, err := client.LatestVersion(context.Background(), "a", "b")
	require.Error(t, err)
}

func TestListVersions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models/yorickvp/llava-13b/versions", r.URL.Path)
		_, _ = io.WriteString(w, `{"results":[{"id":"b","created_at":"2025-02-01T00:00:00Z"},{"id":"a","created_at":"2024-02-01T00:00:00Z"}]}`)
	})

	versions, err := client.ListVersions(context.Background(), "yorickvp", "llava-13b")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "b", versions[0].ID)
	assert.Equal(t, 2025, versions[0].CreatedAt.Year())
}

func TestMissingAPIKey(t *testing.T) {
	client := NewClient(Options{})
	assert.False(t, client.HasCredentials())
	_, err := client.CreatePrediction(context.Background(), "v", nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = client.LatestVersion(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestCreatePredictionBacksOffOnRateLimit(t *testing.T) {
	var calls int
	client, clock := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"detail":"slow down"}`)
			return
		}
		var body createRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "v1", body.Version)
		assert.Equal(t, "a room", body.Input["prompt"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"p1","status":"starting","urls":{"get":"https://api/p1"}}`)
	})

	pred, err := client.CreatePrediction(context.Background(), "v1", map[string]any{"prompt": "a room"})
	require.NoError(t, err)
	assert.Equal(t, "p1", pred.ID)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, clock.waits)
}

func TestCreatePredictionGivesUpAfterThreeRateLimits(t *testing.T) {
	var calls int
	client, clock := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.CreatePrediction(context.Background(), "v1", nil)
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 3, calls)
	assert.Len(t, clock.waits, 2)
}

func TestCreatePredictionSurfacesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"detail":"version does not exist"}`)
	})

	_, err := client.CreatePrediction(context.Background(), "bogus", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "version does not exist")
}

func TestRunPollsToCompletion(t *testing.T) {
	var polls int
	client, clock := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/predictions":
			_, _ = io.WriteString(w, `{"id":"p9","status":"starting"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/predictions/p9":
			polls++
			switch polls {
			case 1:
				w.WriteHeader(http.StatusBadGateway)
			case 2:
				_, _ = io.WriteString(w, `{"id":"p9","status":"processing"}`)
			default:
				_, _ = io.WriteString(w, `{"id":"p9","status":"succeeded","output":["https://cdn/edges.png","https://cdn/out.png"]}`)
			}
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	job, err := client.Run(context.Background(), "controlnet", "v", map[string]any{}, 40)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusSucceeded, job.Status)
	assert.Equal(t, 3, polls)
	assert.Len(t, clock.waits, 3)
}

func TestRunReportsProviderFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = io.WriteString(w, `{"id":"p2","status":"starting"}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":"p2","status":"failed","error":"CUDA out of memory"}`)
	})

	_, err := client.Run(context.Background(), "flux", "v", nil, 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CUDA out of memory")
}

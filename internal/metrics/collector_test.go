package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveTier("replicate", "ok", time.Second)
	c.ObservePoll("flux", "succeeded")
	c.ObserveVersionLookup("hit")
	c.ObserveAdvisory("architect", true)
	c.SetVersionDrift("flux", true)
	c.ObserveHTTP("GET", "/", 200, time.Millisecond)
	assert.Nil(t, c.Registry())
}

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.ObserveTier("replicate", "error", 2*time.Second)
	c.ObserveTier("replicate", "error", time.Second)
	c.ObservePoll("llava-13b", "")
	c.SetVersionDrift("black-forest-labs/flux-depth-dev", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.tierOutcomes.WithLabelValues("replicate", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.pollAttempts.WithLabelValues("llava-13b", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.versionDrift.WithLabelValues("black-forest-labs/flux-depth-dev")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	c := NewCollector()
	c.ObserveAdvisory("surveyor", false)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `interiorai_advisory_stage_total{outcome="skipped",stage="surveyor"} 1`))
}

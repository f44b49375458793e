package infra

import (
	"net/http"
	"testing"
)

func TestMetricsServerUsesMetricsPort(t *testing.T) {
	cfg := &Config{Port: "8080", MetricsPort: "9091"}

	api := NewHTTPServer(cfg, http.NotFoundHandler())
	metrics := NewMetricsServer(cfg, http.NotFoundHandler())

	if api.Addr() != ":8080" {
		t.Fatalf("api addr = %q", api.Addr())
	}
	if metrics.Addr() != ":9091" {
		t.Fatalf("metrics addr = %q", metrics.Addr())
	}
}

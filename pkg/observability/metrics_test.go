package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInitMetricsExposesCounters(t *testing.T) {
	provider, handler, err := InitMetrics(MetricsConfig{ServiceName: "insightsd-test"})
	if err != nil {
		t.Fatalf("InitMetrics: %v", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	counter, err := provider.Meter("test").Int64Counter("cache_hits")
	if err != nil {
		t.Fatalf("create counter: %v", err)
	}
	counter.Add(context.Background(), 3)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cache_hits") {
		t.Errorf("metrics output missing cache_hits counter:\n%s", rec.Body.String())
	}
}

func TestInitMetricsIsolatedRegistries(t *testing.T) {
	p1, _, err := InitMetrics(MetricsConfig{})
	if err != nil {
		t.Fatalf("first InitMetrics: %v", err)
	}
	defer func() { _ = p1.Shutdown(context.Background()) }()

	p2, _, err := InitMetrics(MetricsConfig{})
	if err != nil {
		t.Fatalf("second InitMetrics should not collide: %v", err)
	}
	defer func() { _ = p2.Shutdown(context.Background()) }()
}

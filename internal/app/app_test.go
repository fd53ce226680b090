package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/league-forecast/internal/config"
	"github.com/riskibarqy/league-forecast/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                       config.EnvDev,
		ServiceName:                  "league-forecast-api",
		HTTPAddr:                     "127.0.0.1:0",
		ReadTimeout:                  time.Second,
		WriteTimeout:                 time.Second,
		CORSAllowedOrigins:           []string{"*"},
		PredictorBaseURL:             "http://127.0.0.1:1",
		PredictorTimeout:             time.Second,
		PredictorCircuitEnabled:      true,
		PredictorCircuitFailureCount: 5,
		PredictorCircuitOpenTimeout:  time.Second,
		SessionTTL:                   time.Minute,
		WorkerPoolSize:               2,
		DefaultSeason:                "2024/2025",
		RawArchiveDriver:             config.ArchiveMemory,
		RawArchiveCapacity:           10,
		MetricsEnabled:               true,
		SyntheticSeed:                7,
	}
}

func TestNewWiresRouter(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = a.Shutdown(time.Second) })

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rec.Code)
	}

	// The predictor address refuses connections, so seasons degrade to the
	// default list instead of failing.
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/seasons", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("seasons status=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"degraded":true`) {
		t.Fatalf("expected degraded seasons, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "league_forecast_bff_http_requests_total") {
		t.Fatalf("expected http request counter in metrics output")
	}
	if !strings.Contains(rec.Body.String(), "league_forecast_bff_fallbacks_total") {
		t.Fatalf("expected fallback counter in metrics output")
	}
}

func TestNewWithoutMetricsHidesEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	cfg.RawArchiveDriver = config.ArchiveNone

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = a.Shutdown(time.Second) })

	if a.Metrics() != nil {
		t.Fatalf("expected metrics to be disabled")
	}
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("metrics status=%d want=404", rec.Code)
	}
}

func TestNewRejectsEmptyAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

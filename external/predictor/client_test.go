package predictor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/league-forecast/internal/domain/rawdata"
	"github.com/riskibarqy/league-forecast/internal/platform/logging"
	"github.com/riskibarqy/league-forecast/internal/platform/resilience"
	"github.com/riskibarqy/league-forecast/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, mutate func(*ClientConfig)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		HTTPClient:   server.Client(),
		BaseURL:      server.URL,
		MaxRetries:   0,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          false,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestFetchStandings_DecodesArray(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/standings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("season"); got != "2024/2025" {
			t.Errorf("unexpected season query %q", got)
		}
		_, _ = w.Write([]byte(`[{"Team":"Arsenal","Points":84},"junk",{"Team":"Luton","Points":26}]`))
	}), nil)

	records, payload, err := client.FetchStandings(context.Background(), "2024/2025")
	if err != nil {
		t.Fatalf("fetch standings: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 object records, got=%d", len(records))
	}
	if records[0]["Team"] != "Arsenal" {
		t.Fatalf("unexpected first record: %#v", records[0])
	}
	if payload.Outcome != rawdata.OutcomeAccepted || payload.Resource != ResourceStandings {
		t.Fatalf("unexpected payload meta: %+v", payload)
	}
	if payload.PayloadHash == "" {
		t.Fatalf("expected payload hash")
	}
}

func TestFetchStandings_ObjectIsShapeError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"detail":"season not available"}`))
	}), nil)

	_, payload, err := client.FetchStandings(context.Background(), "2030/2031")
	if !errors.Is(err, usecase.ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
	if payload.Outcome != rawdata.OutcomeShape {
		t.Fatalf("expected shape outcome on archived payload, got=%s", payload.Outcome)
	}
}

func TestFetchTeam_ArrayIsShapeError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}), nil)

	_, _, err := client.FetchTeam(context.Background(), "2024/2025", "Arsenal")
	if !errors.Is(err, usecase.ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestFetchTeam_404IsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Team not found"}`))
	}), nil)

	_, _, err := client.FetchTeam(context.Background(), "2024/2025", "Ipswich")
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, usecase.ErrTransport) {
		t.Fatalf("not found must not be classified as transport: %v", err)
	}
}

func TestFetchSeasons_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"seasons":["2024/2025"," 2025/2026 ",7]}`))
	}), func(cfg *ClientConfig) {
		cfg.MaxRetries = 2
	})

	seasons, _, err := client.FetchSeasons(context.Background())
	if err != nil {
		t.Fatalf("fetch seasons: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, calls=%d", calls.Load())
	}
	if len(seasons) != 2 || seasons[1] != "2025/2026" {
		t.Fatalf("unexpected seasons: %v", seasons)
	}
}

func TestFetchSquad_TransportError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}), nil)

	_, _, err := client.FetchSquad(context.Background(), "Fulham")
	if !errors.Is(err, usecase.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), func(cfg *ClientConfig) {
		cfg.CircuitBreaker.Enabled = true
	})

	for i := 0; i < 2; i++ {
		if _, _, err := client.FetchStandings(context.Background(), "2024/2025"); err == nil {
			t.Fatalf("expected failure on attempt %d", i)
		}
	}
	if client.CircuitState() != resilience.CircuitStateOpen {
		t.Fatalf("expected open breaker, got=%s", client.CircuitState())
	}

	_, _, err := client.FetchStandings(context.Background(), "2024/2025")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) || !errors.Is(err, usecase.ErrTransport) {
		t.Fatalf("expected rejected call to be transport/unavailable, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open breaker must not reach the server, calls=%d", calls.Load())
	}
}

func TestHealth_BypassesOpenBreaker(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			_, _ = w.Write([]byte(`{"status":"ok"}`))
			return
		}
		if !healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}), func(cfg *ClientConfig) {
		cfg.CircuitBreaker.Enabled = true
		cfg.CircuitBreaker.FailureThreshold = 1
	})

	_, _, _ = client.FetchStandings(context.Background(), "2024/2025")
	if client.CircuitState() != resilience.CircuitStateOpen {
		t.Fatalf("expected open breaker")
	}

	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if status != "ok" {
		t.Fatalf("unexpected status %q", status)
	}
}

func TestHealth_OKClosesBreakerForRecoveredUpstream(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			_, _ = w.Write([]byte(`{"status":"ok"}`))
			return
		}
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"Team":"Arsenal","Points":84}]`))
	}), func(cfg *ClientConfig) {
		cfg.CircuitBreaker.Enabled = true
		cfg.CircuitBreaker.FailureThreshold = 2
	})

	for i := 0; i < 2; i++ {
		_, _, _ = client.FetchStandings(context.Background(), "2024/2025")
	}
	if client.CircuitState() != resilience.CircuitStateOpen {
		t.Fatalf("expected open breaker, got=%s", client.CircuitState())
	}

	healthy.Store(true)
	if _, err := client.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if client.CircuitState() != resilience.CircuitStateClosed {
		t.Fatalf("expected healthy probe to close breaker, got=%s", client.CircuitState())
	}

	records, _, err := client.FetchStandings(context.Background(), "2024/2025")
	if err != nil {
		t.Fatalf("expected fetch after recovery to reach upstream: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("unexpected records: %v", records)
	}
}

func TestHealth_NonOKStatusKeepsBreakerOpen(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			_, _ = w.Write([]byte(`{"status":"degraded"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}), func(cfg *ClientConfig) {
		cfg.CircuitBreaker.Enabled = true
		cfg.CircuitBreaker.FailureThreshold = 1
	})

	_, _, _ = client.FetchStandings(context.Background(), "2024/2025")
	if _, err := client.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if client.CircuitState() != resilience.CircuitStateOpen {
		t.Fatalf("expected breaker to stay open, got=%s", client.CircuitState())
	}
}

func TestFetchStandings_CanceledCallerDoesNotFailSharedRequest(t *testing.T) {
	t.Parallel()

	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case arrived <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte(`[{"Team":"Arsenal","Points":84}]`))
	}), func(cfg *ClientConfig) {
		cfg.CircuitBreaker.Enabled = true
		cfg.CircuitBreaker.FailureThreshold = 1
	})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, _, err := client.FetchStandings(ctxA, "2024/2025")
		errA <- err
	}()
	<-arrived

	type result struct {
		records int
		err     error
	}
	resB := make(chan result, 1)
	go func() {
		records, _, err := client.FetchStandings(context.Background(), "2024/2025")
		resB <- result{records: len(records), err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	err := <-errA
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled caller to see context.Canceled, got %v", err)
	}
	if errors.Is(err, usecase.ErrTransport) {
		t.Fatalf("caller cancellation must not read as a transport failure: %v", err)
	}

	close(release)
	got := <-resB
	if got.err != nil {
		t.Fatalf("live caller must not inherit another caller's cancellation: %v", got.err)
	}
	if got.records != 1 {
		t.Fatalf("unexpected records for live caller: %d", got.records)
	}
	if client.CircuitState() != resilience.CircuitStateClosed {
		t.Fatalf("cancellation must not trip the breaker, got=%s", client.CircuitState())
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
	states   []resilience.CircuitState
}

func (o *recordingObserver) ObserveUpstream(resource, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, resource+":"+outcome)
}

func (o *recordingObserver) SetCircuitState(_ string, state resilience.CircuitState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, state)
}

func TestObserverReceivesOutcomes(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/team" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}), func(cfg *ClientConfig) {
		cfg.Observer = observer
		cfg.CircuitBreaker.Enabled = true
		cfg.CircuitBreaker.FailureThreshold = 1
	})

	_, _, _ = client.FetchSquad(context.Background(), "Fulham")
	_, _, _ = client.FetchTeam(context.Background(), "2024/2025", "Fulham")

	observer.mu.Lock()
	defer observer.mu.Unlock()
	want := []string{"team-squad:ok", "team:transport_error"}
	if len(observer.outcomes) != len(want) {
		t.Fatalf("unexpected outcomes: %v", observer.outcomes)
	}
	for i := range want {
		if observer.outcomes[i] != want[i] {
			t.Fatalf("outcome %d: got=%s want=%s", i, observer.outcomes[i], want[i])
		}
	}
	if len(observer.states) != 1 || observer.states[0] != resilience.CircuitStateOpen {
		t.Fatalf("expected open transition, got=%v", observer.states)
	}
}

package predictor

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-forecast/internal/domain/rawdata"
	"github.com/riskibarqy/league-forecast/internal/platform/logging"
	"github.com/riskibarqy/league-forecast/internal/platform/resilience"
	"github.com/riskibarqy/league-forecast/internal/reconcile"
	"github.com/riskibarqy/league-forecast/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL  = "http://localhost:8000"
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 6 << 20
	source          = "predictor"
)

const (
	ResourceSeasons   = "seasons"
	ResourceStandings = "standings"
	ResourceTeam      = "team"
	ResourceSquad     = "team-squad"
	ResourceHealth    = "health"
)

var errPredictorTransient = crerr.New("predictor transient failure")
var errPredictorNotFound = crerr.New("predictor reported not found")

// Observer receives one call per completed upstream request.
type Observer interface {
	ObserveUpstream(resource, outcome string, elapsed time.Duration)
	SetCircuitState(name string, state resilience.CircuitState)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	Observer       Observer
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	backoff        time.Duration
	logger         *logging.Logger
	observer       Observer
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
	flightBudget   time.Duration
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("predictor")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	breakerCfg := cfg.CircuitBreaker.WithDefaults()
	c := &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		backoff:        backoff,
		logger:         logger,
		observer:       cfg.Observer,
		breaker:        resilience.NewCircuitBreaker(source, breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		flightBudget:   flightBudget(timeout, backoff, max(cfg.MaxRetries, 0)),
		now:            time.Now,
	}
	c.breaker.OnStateChange(func(name string, from, to resilience.CircuitState) {
		c.logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
		if c.observer != nil {
			c.observer.SetCircuitState(name, to)
		}
	})
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) CircuitState() resilience.CircuitState {
	return c.breaker.State()
}

func (c *Client) FetchSeasons(ctx context.Context) ([]string, rawdata.Payload, error) {
	raw, err := c.get(ctx, ResourceSeasons, "/seasons", nil)
	if err != nil {
		return nil, rawdata.Payload{}, err
	}
	seasons, err := decodeSeasons(raw)
	payload := c.payload(ResourceSeasons, "", raw, err)
	if err != nil {
		return nil, payload, err
	}
	return seasons, payload, nil
}

func (c *Client) FetchStandings(ctx context.Context, season string) ([]reconcile.Record, rawdata.Payload, error) {
	query := url.Values{"season": []string{season}}
	raw, err := c.get(ctx, ResourceStandings, "/standings", query)
	if err != nil {
		return nil, rawdata.Payload{}, err
	}
	records, err := decodeArray(raw)
	payload := c.payload(ResourceStandings, query.Encode(), raw, err)
	if err != nil {
		return nil, payload, fmt.Errorf("standings season=%s: %w", season, err)
	}
	return records, payload, nil
}

func (c *Client) FetchTeam(ctx context.Context, season, team string) (reconcile.Record, rawdata.Payload, error) {
	query := url.Values{"season": []string{season}, "team": []string{team}}
	raw, err := c.get(ctx, ResourceTeam, "/team", query)
	if err != nil {
		return nil, rawdata.Payload{}, err
	}
	record, err := decodeObject(raw)
	payload := c.payload(ResourceTeam, query.Encode(), raw, err)
	if err != nil {
		return nil, payload, fmt.Errorf("team season=%s team=%s: %w", season, team, err)
	}
	return record, payload, nil
}

func (c *Client) FetchSquad(ctx context.Context, team string) ([]reconcile.Record, rawdata.Payload, error) {
	query := url.Values{"team": []string{team}}
	raw, err := c.get(ctx, ResourceSquad, "/team-squad", query)
	if err != nil {
		return nil, rawdata.Payload{}, err
	}
	records, err := decodeArray(raw)
	payload := c.payload(ResourceSquad, query.Encode(), raw, err)
	if err != nil {
		return nil, payload, fmt.Errorf("squad team=%s: %w", team, err)
	}
	return records, payload, nil
}

// Health bypasses the circuit breaker so a manual probe can observe recovery
// while the breaker is still open. An "ok" status closes the breaker so the
// fetches re-triggered by the probe reach the upstream.
func (c *Client) Health(ctx context.Context) (string, error) {
	started := c.now()
	raw, err := c.executeRequest(ctx, c.baseURL+"/health")
	if err != nil {
		c.observe(ResourceHealth, "transport_error", started)
		return "", fmt.Errorf("%w: health: %w", usecase.ErrTransport, err)
	}
	record, err := decodeObject(raw)
	if err != nil {
		c.observe(ResourceHealth, "shape_error", started)
		return "", fmt.Errorf("health: %w", err)
	}
	c.observe(ResourceHealth, "ok", started)
	status, _ := record["status"].(string)
	status = strings.TrimSpace(status)
	if c.circuitEnabled && strings.EqualFold(status, "ok") {
		c.breaker.Reset()
	}
	return status, nil
}

func (c *Client) get(ctx context.Context, resource, path string, query url.Values) ([]byte, error) {
	started := c.now()
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "predictor circuit breaker rejected request", "resource", resource, "state", c.breaker.State())
			c.observe(resource, "circuit_open", started)
			return nil, fmt.Errorf("%w: %w: prediction service is temporarily unavailable", usecase.ErrTransport, usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// The shared request runs detached from whichever caller started it and
	// is bounded by the flight budget instead. Each caller stops waiting when
	// its own ctx ends.
	flight := c.flight.DoChan(fullURL, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightBudget)
		defer cancel()
		return c.executeRequest(flightCtx, fullURL)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		if c.circuitEnabled {
			c.breaker.Release()
		}
		c.observe(resource, "canceled", started)
		return nil, ctx.Err()
	case res = <-flight:
	}
	out, err := res.Val, res.Err

	// Every caller admitted by Allow records its own outcome, including
	// callers that shared another caller's in-flight request.
	if c.circuitEnabled {
		if isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		if stderrors.Is(err, errPredictorNotFound) {
			c.observe(resource, "not_found", started)
			return nil, fmt.Errorf("%w: %s", usecase.ErrNotFound, err)
		}
		c.observe(resource, "transport_error", started)
		return nil, fmt.Errorf("%w: %s: %w", usecase.ErrTransport, resource, err)
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected response payload type %T", usecase.ErrTransport, out)
	}
	c.observe(resource, "ok", started)
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errPredictorTransient, err)
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errPredictorTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: status=%d body=%s", errPredictorNotFound, resp.StatusCode, abbreviateBody(raw))
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errPredictorTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "predictor request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) payload(resource, entityKey string, raw []byte, decodeErr error) rawdata.Payload {
	outcome := rawdata.OutcomeAccepted
	if decodeErr != nil {
		outcome = rawdata.OutcomeShape
	}
	return rawdata.NewPayload(source, resource, entityKey, raw, outcome, c.now())
}

func (c *Client) observe(resource, outcome string, started time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstream(resource, outcome, c.now().Sub(started))
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(body, maxResponseSize)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func decodeArray(raw []byte) ([]reconcile.Record, error) {
	var root any
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: expected JSON array: %s", usecase.ErrShape, abbreviateBody(raw))
	}
	items, ok := root.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected JSON array: %s", usecase.ErrShape, abbreviateBody(raw))
	}
	out := make([]reconcile.Record, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, reconcile.Record(obj))
		}
	}
	return out, nil
}

func decodeObject(raw []byte) (reconcile.Record, error) {
	var obj map[string]any
	if err := sonic.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: expected JSON object: %s", usecase.ErrShape, abbreviateBody(raw))
	}
	return reconcile.Record(obj), nil
}

// decodeSeasons accepts {"seasons": [...]} and tolerates a bare array.
func decodeSeasons(raw []byte) ([]string, error) {
	var root any
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: seasons: %s", usecase.ErrShape, abbreviateBody(raw))
	}
	var items []any
	switch v := root.(type) {
	case map[string]any:
		list, ok := v["seasons"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: seasons: missing seasons array", usecase.ErrShape)
		}
		items = list
	case []any:
		items = v
	default:
		return nil, fmt.Errorf("%w: seasons: expected object", usecase.ErrShape)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out, nil
}

// flightBudget covers every attempt plus the linear backoff between them.
func flightBudget(timeout, backoff time.Duration, retries int) time.Duration {
	budget := timeout * time.Duration(retries+1)
	for attempt := 1; attempt <= retries; attempt++ {
		budget += time.Duration(attempt) * backoff
	}
	return budget
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errPredictorTransient) || stderrors.Is(err, context.DeadlineExceeded)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

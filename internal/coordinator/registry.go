package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/league-forecast/internal/platform/cache"
	"github.com/riskibarqy/league-forecast/internal/platform/id"
	"github.com/riskibarqy/league-forecast/internal/platform/logging"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionGauge reports the number of live sessions.
type SessionGauge interface {
	SetActiveSessions(n int)
}

type RegistryConfig struct {
	Loader        Loader
	Dispatcher    Dispatcher
	Stale         StaleRecorder
	Gauge         SessionGauge
	IDs           id.Generator
	Logger        *logging.Logger
	TTL           time.Duration
	DefaultSeason string
	BaseContext   context.Context
}

// Registry owns one Coordinator per session. Sessions expire TTL after they
// were last used.
type Registry struct {
	cfg      RegistryConfig
	sessions *cache.Store[*Coordinator]
	logger   *logging.Logger
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.IDs == nil {
		cfg.IDs = id.NewUUIDGenerator()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.BaseContext == nil {
		cfg.BaseContext = context.Background()
	}
	return &Registry{
		cfg:      cfg,
		sessions: cache.NewStore[*Coordinator](cfg.TTL),
		logger:   cfg.Logger.Named("sessions"),
	}
}

// Create starts a session for sel. A blank season falls back to the
// configured default.
func (r *Registry) Create(ctx context.Context, sel Selection) (string, *Coordinator, error) {
	sessionID, err := r.cfg.IDs.NewID()
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	if sel.Season == "" {
		sel.Season = r.cfg.DefaultSeason
	}

	c := New(Config{
		Loader:      r.cfg.Loader,
		Dispatcher:  r.cfg.Dispatcher,
		Stale:       r.cfg.Stale,
		Logger:      r.cfg.Logger.With("session_id", sessionID),
		Initial:     sel,
		BaseContext: r.cfg.BaseContext,
	})
	r.sessions.Set(ctx, sessionID, c)
	r.report()

	c.Start(ctx)
	r.logger.InfoContext(ctx, "session created", "session_id", sessionID, "season", c.Selection().Season, "team", c.Selection().Team)
	return sessionID, c, nil
}

// Get returns a live session and extends its TTL.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Coordinator, error) {
	if !id.Valid(sessionID) {
		return nil, ErrSessionNotFound
	}
	c, ok := r.sessions.Get(ctx, sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	r.sessions.Touch(ctx, sessionID)
	return c, nil
}

func (r *Registry) Close(ctx context.Context, sessionID string) {
	if c, ok := r.sessions.Get(ctx, sessionID); ok {
		c.Close()
	}
	r.sessions.Delete(ctx, sessionID)
	r.report()
}

// Sweep drops expired sessions. Their in-flight fetches finish on their own
// and are committed to a coordinator nobody reads.
func (r *Registry) Sweep(ctx context.Context) int {
	removed := r.sessions.Sweep(ctx)
	if removed > 0 {
		r.logger.DebugContext(ctx, "expired sessions removed", "count", removed)
		r.report()
	}
	return removed
}

// RunSweeper sweeps every interval until ctx ends.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}

func (r *Registry) report() {
	if r.cfg.Gauge != nil {
		r.cfg.Gauge.SetActiveSessions(r.sessions.Len())
	}
}

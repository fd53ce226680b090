// Package coordinator keeps the per-session view state: one slot per
// resource, refetched when the selection changes, with a generation guard so
// only the newest fetch for a slot is ever committed.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/riskibarqy/league-forecast/internal/platform/logging"
	"github.com/riskibarqy/league-forecast/internal/usecase"
)

var ErrInvalidAction = errors.New("invalid action")

// Loader is the fetch-and-fallback surface of usecase.ViewService.
type Loader interface {
	ListSeasons(ctx context.Context) (usecase.SeasonsResult, error)
	GetStandings(ctx context.Context, season string) (usecase.StandingsResult, error)
	GetTeamDetail(ctx context.Context, season, team string) (usecase.TeamResult, error)
	GetSquad(ctx context.Context, team string) (usecase.SquadResult, error)
	Probe(ctx context.Context) (bool, error)
}

// StaleRecorder counts results dropped by the generation guard.
type StaleRecorder interface {
	RecordStaleDiscard(resource string)
}

type noopStale struct{}

func (noopStale) RecordStaleDiscard(string) {}

type Config struct {
	Loader     Loader
	Dispatcher Dispatcher
	Stale      StaleRecorder
	Logger     *logging.Logger
	Initial    Selection
	// BaseContext parents every fetch. Fetches outlive the request that
	// triggered them, so this is never a request context.
	BaseContext context.Context
}

type Coordinator struct {
	loader     Loader
	dispatcher Dispatcher
	stale      StaleRecorder
	logger     *logging.Logger

	base     context.Context
	shutdown context.CancelFunc

	mu      sync.Mutex
	view    View
	cancels map[Resource]context.CancelFunc
	changed chan struct{}
}

func New(cfg Config) *Coordinator {
	dispatcher := cfg.Dispatcher
	if dispatcher == nil {
		dispatcher = GoDispatcher{}
	}
	stale := cfg.Stale
	if stale == nil {
		stale = noopStale{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	parent := cfg.BaseContext
	if parent == nil {
		parent = context.Background()
	}
	base, cancel := context.WithCancel(parent)

	return &Coordinator{
		loader:     cfg.Loader,
		dispatcher: dispatcher,
		stale:      stale,
		logger:     logger.Named("coordinator"),
		base:       base,
		shutdown:   cancel,
		view:       View{Selection: initialSelection(cfg.Initial)},
		cancels:    make(map[Resource]context.CancelFunc, len(Resources)),
		changed:    make(chan struct{}),
	}
}

// initialSelection keeps only the valid parts of sel.
func initialSelection(sel Selection) Selection {
	out := Reduce(Selection{}, SelectSeason(sel.Season))
	return Reduce(out, SelectTeam(sel.Team))
}

// Start loads the season list and every resource the initial selection
// needs.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	sel := c.view.Selection
	c.mu.Unlock()

	c.trigger(ctx, ResourceSeasons)
	if sel.Season != "" {
		c.trigger(ctx, ResourceStandings)
	}
	if sel.HasTeam() && sel.Season != "" {
		c.trigger(ctx, ResourceTeam)
		c.trigger(ctx, ResourceSquad)
	}
}

// Dispatch reduces the action into the selection and refetches only the
// resources whose inputs changed.
func (c *Coordinator) Dispatch(ctx context.Context, a Action) (Selection, error) {
	if err := a.Validate(); err != nil {
		return c.Selection(), fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	c.mu.Lock()
	prev := c.view.Selection
	next := Reduce(prev, a)
	c.view.Selection = next
	changed := Changed(prev, next)
	for _, r := range changed {
		if (r == ResourceTeam || r == ResourceSquad) && !next.HasTeam() {
			c.cancelLocked(r)
			c.view.reset(r)
		}
	}
	c.notifyLocked()
	c.mu.Unlock()

	for _, r := range changed {
		if (r == ResourceTeam || r == ResourceSquad) && !next.HasTeam() {
			continue
		}
		if r == ResourceTeam && next.Season == "" {
			continue
		}
		if r == ResourceStandings && next.Season == "" {
			continue
		}
		c.trigger(ctx, r)
	}
	c.logger.DebugContext(ctx, "selection changed", "action", string(a.Kind), "season", next.Season, "team", next.Team, "refetch", len(changed))
	return next, nil
}

// CheckHealth probes the prediction service and, when it is healthy,
// refetches every failed resource. It returns the resources it retriggered.
func (c *Coordinator) CheckHealth(ctx context.Context) (bool, []Resource, error) {
	healthy, err := c.loader.Probe(ctx)
	if err != nil || !healthy {
		return false, nil, err
	}

	failed := c.Snapshot().Failed()
	for _, r := range failed {
		c.trigger(ctx, r)
	}
	if len(failed) > 0 {
		c.logger.InfoContext(ctx, "prediction service healthy, retrying failed resources", "count", len(failed))
	}
	return true, failed, nil
}

func (c *Coordinator) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Selection
}

func (c *Coordinator) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Await blocks until no slot is loading or ctx ends, and returns the view
// at that point.
func (c *Coordinator) Await(ctx context.Context) (View, error) {
	for {
		c.mu.Lock()
		view := c.view
		changed := c.changed
		c.mu.Unlock()

		if !view.Loading() {
			return view, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return view, ctx.Err()
		}
	}
}

// Close abandons every in-flight fetch. Their results are still discarded
// through the generation guard if they arrive.
func (c *Coordinator) Close() {
	c.shutdown()
	c.mu.Lock()
	for r := range c.cancels {
		c.cancelLocked(r)
	}
	c.mu.Unlock()
}

// trigger moves a slot to loading under a new generation and submits the
// fetch. The previous fetch for the slot is cancelled but not awaited.
func (c *Coordinator) trigger(ctx context.Context, r Resource) {
	c.mu.Lock()
	c.cancelLocked(r)
	st := c.view.status(r)
	st.Generation++
	st.State = StateLoading
	st.Error = ""
	gen := st.Generation
	sel := c.view.Selection
	fetchCtx, cancel := context.WithCancel(c.base)
	c.cancels[r] = cancel
	c.notifyLocked()
	c.mu.Unlock()

	task := func() {
		defer cancel()
		c.fetch(fetchCtx, r, gen, sel)
	}
	if err := c.dispatcher.Submit(task); err != nil {
		cancel()
		c.logger.ErrorContext(ctx, "dispatch fetch failed", "resource", string(r), "error", err)
		c.commit(r, gen, func(v *View) {}, "", err)
	}
}

func (c *Coordinator) fetch(ctx context.Context, r Resource, gen uint64, sel Selection) {
	switch r {
	case ResourceSeasons:
		res, err := c.loader.ListSeasons(ctx)
		c.commit(r, gen, func(v *View) { v.Seasons.Data = res.Seasons }, res.Advisory, err)
	case ResourceStandings:
		res, err := c.loader.GetStandings(ctx, sel.Season)
		c.commit(r, gen, func(v *View) { v.Standings.Data = res.Rows }, res.Advisory, err)
	case ResourceTeam:
		res, err := c.loader.GetTeamDetail(ctx, sel.Season, sel.Team)
		c.commit(r, gen, func(v *View) {
			if err == nil {
				stats := res.Stats
				v.Team.Data = &stats
			}
		}, res.Advisory, err)
	case ResourceSquad:
		res, err := c.loader.GetSquad(ctx, sel.Team)
		c.commit(r, gen, func(v *View) { v.Squad.Data = res.Members }, res.Advisory, err)
	}
}

// commit applies a fetch result only if its generation is still current.
// A non-empty advisory means fallback data and commits as failed.
func (c *Coordinator) commit(r Resource, gen uint64, apply func(*View), advisory string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.view.status(r)
	if st.Generation != gen {
		c.stale.RecordStaleDiscard(string(r))
		c.logger.Debug("discarding stale result", "resource", string(r), "generation", gen, "current", st.Generation)
		return
	}

	apply(&c.view)
	st = c.view.status(r)
	st.Advisory = advisory
	switch {
	case err != nil:
		st.State = StateFailed
		st.Error = err.Error()
	case advisory != "":
		st.State = StateFailed
		st.Error = ""
	default:
		st.State = StateReady
		st.Error = ""
	}
	delete(c.cancels, r)
	c.notifyLocked()
}

func (c *Coordinator) cancelLocked(r Resource) {
	if cancel, ok := c.cancels[r]; ok {
		cancel()
		delete(c.cancels, r)
	}
}

// notifyLocked wakes every Await caller.
func (c *Coordinator) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

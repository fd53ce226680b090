package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/league-forecast/internal/domain/leaguestanding"
	"github.com/riskibarqy/league-forecast/internal/domain/rawdata"
	"github.com/riskibarqy/league-forecast/internal/domain/season"
	"github.com/riskibarqy/league-forecast/internal/domain/squad"
	"github.com/riskibarqy/league-forecast/internal/domain/teamstats"
	"github.com/riskibarqy/league-forecast/internal/platform/cache"
	"github.com/riskibarqy/league-forecast/internal/platform/logging"
	"github.com/riskibarqy/league-forecast/internal/reconcile"
	"github.com/riskibarqy/league-forecast/internal/synthetic"
	"github.com/sourcegraph/conc"
)

// Advisory texts shown next to degraded data. The data itself keeps the
// same shape as live data.
const (
	AdvisorySeasonsDefault   = "Season list is unavailable; showing the default seasons."
	AdvisoryStandingsSynth   = "Live predictions are unavailable; showing estimated standings."
	AdvisoryTeamSynth        = "Live team predictions are unavailable; showing estimated figures."
	AdvisoryTeamNotFound     = "No prediction exists for this team and season; showing estimated figures."
	AdvisorySquadUnavailable = "Squad data is unavailable."
)

const (
	ResourceSeasons   = "seasons"
	ResourceStandings = "standings"
	ResourceTeam      = "team"
	ResourceSquad     = "squad"
)

// Recorder receives fallback and archive events. *observability.Metrics
// satisfies it.
type Recorder interface {
	RecordFallback(resource, reason string)
	RecordArchived(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordFallback(string, string) {}
func (noopRecorder) RecordArchived(string)         {}

type SeasonsResult struct {
	Seasons  []string
	Advisory string
}

type StandingsResult struct {
	Season   string
	Rows     []leaguestanding.Row
	Advisory string
}

type TeamResult struct {
	Season   string
	Team     string
	Stats    teamstats.TeamStats
	Advisory string
}

type SquadResult struct {
	Team     string
	Members  []squad.Member
	Advisory string
}

// ViewResult is the full page state for one selection. Team and Squad are
// nil when no team is selected.
type ViewResult struct {
	Season    string
	Team      string
	Seasons   SeasonsResult
	Standings StandingsResult
	TeamStats *TeamResult
	Squad     *SquadResult
}

type ViewServiceConfig struct {
	Provider       PredictionProvider
	Normalizer     *reconcile.Normalizer
	Generator      *synthetic.Generator
	Archive        rawdata.Repository
	Recorder       Recorder
	Logger         *logging.Logger
	DefaultSeasons []string
	TableTTL       time.Duration
}

// ViewService fetches each resource from the prediction service and applies
// the degradation policy: synthetic standings and team detail, a default
// season list and an empty squad.
type ViewService struct {
	provider       PredictionProvider
	normalizer     *reconcile.Normalizer
	generator      *synthetic.Generator
	archive        rawdata.Repository
	recorder       Recorder
	logger         *logging.Logger
	defaultSeasons []string
	tables         *cache.Store[[]leaguestanding.Row]
}

func NewViewService(cfg ViewServiceConfig) *ViewService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = noopRecorder{}
	}
	normalizer := cfg.Normalizer
	if normalizer == nil {
		normalizer = reconcile.NewNormalizer(nil)
	}
	defaults := season.NormalizeList(cfg.DefaultSeasons)
	if len(defaults) == 0 {
		defaults = season.DefaultList()
	}
	return &ViewService{
		provider:       cfg.Provider,
		normalizer:     normalizer,
		generator:      cfg.Generator,
		archive:        cfg.Archive,
		recorder:       recorder,
		logger:         logger.Named("view"),
		defaultSeasons: defaults,
		tables:         cache.NewStore[[]leaguestanding.Row](cfg.TableTTL),
	}
}

func (s *ViewService) DefaultSeasons() []string {
	return append([]string(nil), s.defaultSeasons...)
}

// ListSeasons never fails: any upstream problem yields the default list.
func (s *ViewService) ListSeasons(ctx context.Context) (SeasonsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.ListSeasons")
	defer span.End()

	raw, payload, err := s.provider.FetchSeasons(ctx)
	s.archivePayload(ctx, payload)
	if err == nil {
		if seasons := season.NormalizeList(raw); len(seasons) > 0 {
			return SeasonsResult{Seasons: seasons}, nil
		}
		err = fmt.Errorf("%w: no valid season labels", ErrShape)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return SeasonsResult{}, ctxErr
	}

	s.logger.WarnContext(ctx, "seasons unavailable, using defaults", "error", err)
	s.recorder.RecordFallback(ResourceSeasons, reason(err))
	return SeasonsResult{Seasons: s.DefaultSeasons(), Advisory: AdvisorySeasonsDefault}, nil
}

// GetStandings substitutes synthetic standings for the last known roster of
// the season when the prediction service fails.
func (s *ViewService) GetStandings(ctx context.Context, seasonLabel string) (StandingsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.GetStandings")
	defer span.End()

	label, err := season.Normalize(seasonLabel)
	if err != nil {
		return StandingsResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	records, payload, err := s.provider.FetchStandings(ctx, label)
	s.archivePayload(ctx, payload)
	if err == nil {
		rows, normErr := s.normalizer.Standings(records)
		if normErr == nil && len(rows) > 0 {
			s.tables.Set(ctx, label, rows)
			return StandingsResult{Season: label, Rows: rows}, nil
		}
		if normErr == nil {
			normErr = reconcile.ErrNoRows
		}
		err = fmt.Errorf("%w: %w", ErrShape, normErr)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return StandingsResult{}, ctxErr
	}

	rows, synthErr := s.generator.Standings(s.roster(ctx, label))
	if synthErr != nil {
		return StandingsResult{}, fmt.Errorf("synthesize standings season=%s: %w", label, synthErr)
	}
	s.tables.Set(ctx, label, rows)
	s.logger.WarnContext(ctx, "standings unavailable, serving synthetic table", "season", label, "error", err)
	s.recorder.RecordFallback(ResourceStandings, reason(err))
	return StandingsResult{Season: label, Rows: rows, Advisory: AdvisoryStandingsSynth}, nil
}

// GetTeamDetail substitutes a synthetic record on transport, shape and
// not-found failures. A live record keeps its own gaps as unknown.
func (s *ViewService) GetTeamDetail(ctx context.Context, seasonLabel, team string) (TeamResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.GetTeamDetail")
	defer span.End()

	label, err := season.Normalize(seasonLabel)
	if err != nil {
		return TeamResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	team = strings.TrimSpace(team)
	if team == "" {
		return TeamResult{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	record, payload, err := s.provider.FetchTeam(ctx, label, team)
	if err == nil {
		stats, normErr := s.normalizer.Team(record)
		if normErr == nil {
			s.archivePayload(ctx, payload)
			if stats.Team == "" {
				stats.Team = team
			}
			if stats.Season == "" {
				stats.Season = label
			}
			return TeamResult{Season: label, Team: team, Stats: stats}, nil
		}
		payload.Outcome = rawdata.OutcomeNotFound
		err = fmt.Errorf("%w: team=%s season=%s: %w", ErrNotFound, team, label, normErr)
	}
	s.archivePayload(ctx, payload)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return TeamResult{}, ctxErr
	}

	stats, synthErr := s.generator.TeamDetail(team, label, s.rankHint(ctx, label, team))
	if synthErr != nil {
		return TeamResult{}, fmt.Errorf("synthesize team detail team=%s: %w", team, synthErr)
	}
	advisory := AdvisoryTeamSynth
	if errors.Is(err, ErrNotFound) {
		advisory = AdvisoryTeamNotFound
	}
	s.logger.WarnContext(ctx, "team detail unavailable, serving synthetic record", "season", label, "team", team, "error", err)
	s.recorder.RecordFallback(ResourceTeam, reason(err))
	return TeamResult{Season: label, Team: team, Stats: stats, Advisory: advisory}, nil
}

// GetSquad degrades to an empty squad; squads are never synthesized.
func (s *ViewService) GetSquad(ctx context.Context, team string) (SquadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.GetSquad")
	defer span.End()

	team = strings.TrimSpace(team)
	if team == "" {
		return SquadResult{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	records, payload, err := s.provider.FetchSquad(ctx, team)
	s.archivePayload(ctx, payload)
	if err == nil {
		return SquadResult{Team: team, Members: s.normalizer.Squad(records)}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return SquadResult{}, ctxErr
	}

	s.logger.WarnContext(ctx, "squad unavailable, serving empty squad", "team", team, "error", err)
	s.recorder.RecordFallback(ResourceSquad, reason(err))
	return SquadResult{Team: team, Members: []squad.Member{}, Advisory: AdvisorySquadUnavailable}, nil
}

// LoadView fetches every resource for one selection concurrently. An empty
// team loads seasons and standings only.
func (s *ViewService) LoadView(ctx context.Context, seasonLabel, team string) (ViewResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.LoadView")
	defer span.End()

	label, err := season.Normalize(seasonLabel)
	if err != nil {
		return ViewResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	team = strings.TrimSpace(team)

	var (
		out                                      = ViewResult{Season: label, Team: team}
		seasonsErr, standingsErr, teamErr, sqErr error
		wg                                       conc.WaitGroup
	)
	wg.Go(func() { out.Seasons, seasonsErr = s.ListSeasons(ctx) })
	wg.Go(func() { out.Standings, standingsErr = s.GetStandings(ctx, label) })
	if team != "" {
		var teamResult TeamResult
		var squadResult SquadResult
		wg.Go(func() {
			teamResult, teamErr = s.GetTeamDetail(ctx, label, team)
			out.TeamStats = &teamResult
		})
		wg.Go(func() {
			squadResult, sqErr = s.GetSquad(ctx, team)
			out.Squad = &squadResult
		})
	}
	wg.Wait()

	if err := errors.Join(seasonsErr, standingsErr, teamErr, sqErr); err != nil {
		return ViewResult{}, err
	}
	return out, nil
}

// Probe reports whether the prediction service says it is healthy.
func (s *ViewService) Probe(ctx context.Context) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ViewService.Probe")
	defer span.End()

	status, err := s.provider.Health(ctx)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(status, "ok"), nil
}

// roster prefers the teams of the last table served for the season.
func (s *ViewService) roster(ctx context.Context, label string) []string {
	if rows, ok := s.tables.Get(ctx, label); ok && len(rows) > 0 {
		return leaguestanding.Teams(rows)
	}
	return s.generator.Roster()
}

func (s *ViewService) rankHint(ctx context.Context, label, team string) int {
	rows, ok := s.tables.Get(ctx, label)
	if !ok {
		return 0
	}
	for _, row := range rows {
		if row.Team == team {
			return row.Rank
		}
	}
	return 0
}

func (s *ViewService) archivePayload(ctx context.Context, payload rawdata.Payload) {
	if s.archive == nil || payload.PayloadJSON == "" {
		return
	}
	if err := s.archive.Save(ctx, payload); err != nil {
		s.logger.WarnContext(ctx, "archive raw payload failed", "resource", payload.Resource, "error", err)
		return
	}
	s.recorder.RecordArchived(string(payload.Outcome))
}

// reason labels a fallback for metrics. Errors outside the upstream
// taxonomy are labelled separately so they stand out.
func reason(err error) string {
	switch {
	case !IsRecoverable(err):
		return "unclassified"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrShape):
		return "shape"
	case errors.Is(err, ErrDependencyUnavailable):
		return "circuit_open"
	default:
		return "transport"
	}
}

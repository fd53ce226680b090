package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-forecast/internal/coordinator"
	"github.com/riskibarqy/league-forecast/internal/domain/rawdata"
	"github.com/riskibarqy/league-forecast/internal/platform/logging"
	"github.com/riskibarqy/league-forecast/internal/usecase"
)

const (
	maxSessionWait = 15 * time.Second
	maxBodyBytes   = 16 << 10
)

type Handler struct {
	views     *usecase.ViewService
	sessions  *coordinator.Registry
	archive   rawdata.Repository
	logger    *logging.Logger
	validator *validator.Validate
}

// NewHandler wires the read endpoints and the session endpoints. archive may
// be nil when raw payload archiving is disabled.
func NewHandler(
	views *usecase.ViewService,
	sessions *coordinator.Registry,
	archive rawdata.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		views:     views,
		sessions:  sessions,
		archive:   archive,
		logger:    logger.Named("httpapi"),
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	result, err := h.views.ListSeasons(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonsToDTO(result))
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	label := h.seasonParam(r)
	result, err := h.views.GetStandings(ctx, label)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "season", label, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(result))
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	label := h.seasonParam(r)
	team := r.PathValue("team")
	result, err := h.views.GetTeamDetail(ctx, label, team)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "season", label, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(result, 0))
}

func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSquad")
	defer span.End()

	team := r.PathValue("team")
	result, err := h.views.GetSquad(ctx, team)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(result))
}

func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetView")
	defer span.End()

	label := h.seasonParam(r)
	team := strings.TrimSpace(r.URL.Query().Get("team"))
	result, err := h.views.LoadView(ctx, label, team)
	if err != nil {
		h.logger.WarnContext(ctx, "load view failed", "season", label, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, viewToDTO(result))
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSession")
	defer span.End()

	var req createSessionRequest
	if err := h.decodeBody(ctx, w, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	sessionID, session, err := h.sessions.Create(ctx, coordinator.Selection{
		Season: strings.TrimSpace(req.Season),
		Team:   strings.TrimSpace(req.Team),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "create session failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	view, err := h.maybeAwait(ctx, r, session)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, sessionToDTO(sessionID, view))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	session, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.maybeAwait(ctx, r, session)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(sessionID, view))
}

func (h *Handler) DispatchAction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DispatchAction")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	session, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req actionRequest
	if err := h.decodeBody(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	if _, err := session.Dispatch(ctx, coordinator.Action{
		Kind:  coordinator.ActionKind(req.Type),
		Value: req.Value,
	}); err != nil {
		h.logger.WarnContext(ctx, "dispatch action failed", "session_id", sessionID, "type", req.Type, "error", err)
		writeError(ctx, w, err)
		return
	}

	view, err := h.maybeAwait(ctx, r, session)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(sessionID, view))
}

func (h *Handler) CheckSessionHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckSessionHealth")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	session, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	healthy, retried, err := session.CheckHealth(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "health probe failed", "session_id", sessionID, "error", err)
	}

	view, err := h.maybeAwait(ctx, r, session)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := healthCheckDTO{
		Healthy: healthy,
		Retried: make([]string, 0, len(retried)),
		Session: sessionToDTO(sessionID, view),
	}
	for _, res := range retried {
		out.Retried = append(out.Retried, string(res))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseSession")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	if _, err := h.sessions.Get(ctx, sessionID); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.sessions.Close(ctx, sessionID)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListRawPayloads(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRawPayloads")
	defer span.End()

	if h.archive == nil {
		writeError(ctx, w, fmt.Errorf("%w: raw payload archive is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	query := r.URL.Query()
	limit, err := parseOptionalInt(query.Get("limit"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: limit: %v", usecase.ErrInvalidInput, err))
		return
	}

	items, err := h.archive.ListRecent(ctx, rawdata.Filter{
		Resource: strings.TrimSpace(query.Get("resource")),
		Outcome:  rawdata.Outcome(strings.TrimSpace(query.Get("outcome"))),
		Limit:    limit,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "list raw payloads failed", "error", err)
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err))
		return
	}

	out := make([]rawPayloadDTO, 0, len(items))
	for _, item := range items {
		out = append(out, rawPayloadToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) seasonParam(r *http.Request) string {
	if label := strings.TrimSpace(r.URL.Query().Get("season")); label != "" {
		return label
	}
	defaults := h.views.DefaultSeasons()
	if len(defaults) == 0 {
		return ""
	}
	return defaults[len(defaults)-1]
}

// maybeAwait waits for in-flight fetches when the request asks for it with
// ?wait=true. A wait that times out still returns the current view.
func (h *Handler) maybeAwait(ctx context.Context, r *http.Request, session *coordinator.Coordinator) (coordinator.View, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("wait"))
	if raw == "" {
		return session.Snapshot(), nil
	}
	wait, err := strconv.ParseBool(raw)
	if err != nil {
		return coordinator.View{}, fmt.Errorf("%w: wait must be a boolean", usecase.ErrInvalidInput)
	}
	if !wait {
		return session.Snapshot(), nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, maxSessionWait)
	defer cancel()
	view, err := session.Await(waitCtx)
	if err != nil {
		h.logger.DebugContext(ctx, "session wait ended before all resources settled", "error", err)
	}
	return view, nil
}

func (h *Handler) decodeBody(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeBody")
	defer span.End()

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	decoder := sonic.ConfigDefault.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if !(allowEmpty && r.ContentLength == 0) {
			return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
		}
	}

	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseOptionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("must be >= 0")
	}
	return v, nil
}

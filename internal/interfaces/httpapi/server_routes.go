package httpapi

import "net/http"

type routeRegistrar struct {
	mux      *http.ServeMux
	observer RequestObserver
}

func (rr routeRegistrar) handle(pattern string, h http.Handler) {
	rr.mux.Handle(pattern, ObserveRoute(rr.observer, pattern, h))
}

func registerSystemRoutes(rr routeRegistrar, handler *Handler, metrics http.Handler) {
	rr.mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		rr.mux.Handle("GET /metrics", metrics)
	}
}

func registerPublicRoutes(rr routeRegistrar, handler *Handler) {
	rr.handle("GET /v1/seasons", http.HandlerFunc(handler.ListSeasons))
	rr.handle("GET /v1/standings", http.HandlerFunc(handler.GetStandings))
	rr.handle("GET /v1/teams/{team}", http.HandlerFunc(handler.GetTeam))
	rr.handle("GET /v1/teams/{team}/squad", http.HandlerFunc(handler.GetSquad))
	rr.handle("GET /v1/view", http.HandlerFunc(handler.GetView))
}

func registerSessionRoutes(rr routeRegistrar, handler *Handler) {
	rr.handle("POST /v1/sessions", http.HandlerFunc(handler.CreateSession))
	rr.handle("GET /v1/sessions/{sessionID}", http.HandlerFunc(handler.GetSession))
	rr.handle("DELETE /v1/sessions/{sessionID}", http.HandlerFunc(handler.CloseSession))
	rr.handle("POST /v1/sessions/{sessionID}/actions", http.HandlerFunc(handler.DispatchAction))
	rr.handle("POST /v1/sessions/{sessionID}/health-check", http.HandlerFunc(handler.CheckSessionHealth))
}

func registerInternalRoutes(rr routeRegistrar, handler *Handler, internalAPIToken string) {
	rr.handle("GET /v1/internal/raw-payloads", RequireInternalToken(internalAPIToken, http.HandlerFunc(handler.ListRawPayloads)))
}

package httpapi

import (
	"net/http"

	"github.com/riskibarqy/league-forecast/internal/platform/logging"
)

type RouterConfig struct {
	CORSAllowedOrigins []string
	InternalAPIToken   string
	// Metrics serves GET /metrics when set.
	Metrics  http.Handler
	Observer RequestObserver
}

func NewRouter(handler *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	routes := routeRegistrar{mux: mux, observer: cfg.Observer}
	registerSystemRoutes(routes, handler, cfg.Metrics)
	registerPublicRoutes(routes, handler)
	registerSessionRoutes(routes, handler)
	registerInternalRoutes(routes, handler, cfg.InternalAPIToken)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

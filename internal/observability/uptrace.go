package observability

import (
	"context"
	"net/url"
	"strings"

	"github.com/riskibarqy/league-forecast/internal/config"
	"github.com/riskibarqy/league-forecast/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// InitUptrace installs the global tracer provider exporting to Uptrace. The
// returned func flushes buffered spans; it is a no-op when tracing is off.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func(context.Context) error { return nil }

	switch {
	case !cfg.UptraceEnabled:
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return noop, nil
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return noop, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(resourceAttributes(cfg)...),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
		"predictor", predictorHost(cfg),
	)
	return uptrace.Shutdown, nil
}

// resourceAttributes tags exported telemetry with the upstream and archive
// this instance talks to.
func resourceAttributes(cfg config.Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("league_forecast.archive_driver", cfg.RawArchiveDriver),
	}
	if host := predictorHost(cfg); host != "" {
		attrs = append(attrs, attribute.String("league_forecast.predictor_host", host))
	}
	return attrs
}

func predictorHost(cfg config.Config) string {
	parsed, err := url.Parse(cfg.PredictorBaseURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

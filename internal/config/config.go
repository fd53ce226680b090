package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/league-forecast/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                         string
	ServiceName                    string
	ServiceVersion                 string
	HTTPAddr                       string
	ReadTimeout                    time.Duration
	WriteTimeout                   time.Duration
	ShutdownTimeout                time.Duration
	CORSAllowedOrigins             []string
	LogLevel                       logging.Level
	InternalAPIToken               string
	PredictorBaseURL               string
	PredictorTimeout               time.Duration
	PredictorMaxRetries            int
	PredictorRetryBackoff          time.Duration
	PredictorCircuitEnabled        bool
	PredictorCircuitFailureCount   int
	PredictorCircuitOpenTimeout    time.Duration
	PredictorCircuitHalfOpenMaxReq int
	SessionTTL                     time.Duration
	SessionSweepInterval           time.Duration
	WorkerPoolSize                 int
	RosterCacheTTL                 time.Duration
	TierProfilePath                string
	SyntheticSeed                  uint64
	DefaultSeasons                 []string
	DefaultSeason                  string
	RawArchiveDriver               string
	RawArchiveCapacity             int
	DBURL                          string
	DBDisablePreparedBinary        bool
	MetricsEnabled                 bool
	PprofEnabled                   bool
	PprofAddr                      string
	UptraceEnabled                 bool
	UptraceDSN                     string
	PyroscopeEnabled               bool
	PyroscopeServerAddress         string
	PyroscopeAppName               string
	PyroscopeAuthToken             string
	PyroscopeBasicAuthUser         string
	PyroscopeBasicAuthPassword     string
	PyroscopeUploadRate            time.Duration
}

const (
	ArchiveNone     = "none"
	ArchiveMemory   = "memory"
	ArchivePostgres = "postgres"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	predictorBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("PREDICTOR_BASE_URL", "http://localhost:8000")), "/")
	if predictorBaseURL == "" {
		return Config{}, fmt.Errorf("PREDICTOR_BASE_URL cannot be empty")
	}
	predictorTimeout, err := time.ParseDuration(getEnv("PREDICTOR_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTOR_TIMEOUT: %w", err)
	}
	if predictorTimeout <= 0 {
		return Config{}, fmt.Errorf("PREDICTOR_TIMEOUT must be > 0")
	}
	predictorMaxRetries, err := getEnvAsInt("PREDICTOR_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTOR_MAX_RETRIES: %w", err)
	}
	if predictorMaxRetries < 0 {
		return Config{}, fmt.Errorf("PREDICTOR_MAX_RETRIES must be >= 0")
	}
	predictorRetryBackoff, err := time.ParseDuration(getEnv("PREDICTOR_RETRY_BACKOFF", "300ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTOR_RETRY_BACKOFF: %w", err)
	}
	if predictorRetryBackoff < 0 {
		return Config{}, fmt.Errorf("PREDICTOR_RETRY_BACKOFF must be >= 0")
	}
	predictorCircuitEnabled, err := strconv.ParseBool(getEnv("PREDICTOR_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTOR_CIRCUIT_ENABLED: %w", err)
	}
	predictorCircuitFailureCount, err := getEnvAsInt("PREDICTOR_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTOR_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if predictorCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("PREDICTOR_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	predictorCircuitOpenTimeout, err := time.ParseDuration(getEnv("PREDICTOR_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTOR_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if predictorCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("PREDICTOR_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	predictorCircuitHalfOpenMaxReq, err := getEnvAsInt("PREDICTOR_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTOR_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if predictorCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("PREDICTOR_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	if sessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be > 0")
	}
	sessionSweepInterval, err := time.ParseDuration(getEnv("SESSION_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_SWEEP_INTERVAL: %w", err)
	}
	workerPoolSize, err := getEnvAsInt("WORKER_POOL_SIZE", 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse WORKER_POOL_SIZE: %w", err)
	}
	if workerPoolSize < 1 {
		return Config{}, fmt.Errorf("WORKER_POOL_SIZE must be >= 1")
	}
	rosterCacheTTL, err := time.ParseDuration(getEnv("ROSTER_CACHE_TTL", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ROSTER_CACHE_TTL: %w", err)
	}
	if rosterCacheTTL < 0 {
		return Config{}, fmt.Errorf("ROSTER_CACHE_TTL must be >= 0")
	}
	syntheticSeed, err := strconv.ParseUint(getEnv("SYNTHETIC_SEED", "0"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNTHETIC_SEED: %w", err)
	}

	defaultSeasons := splitCSV(getEnv("DEFAULT_SEASONS", ""))
	defaultSeason := strings.TrimSpace(getEnv("DEFAULT_SEASON", "2024/2025"))

	archiveDriver := strings.ToLower(strings.TrimSpace(getEnv("RAW_ARCHIVE_DRIVER", ArchiveMemory)))
	switch archiveDriver {
	case ArchiveNone, ArchiveMemory, ArchivePostgres:
	default:
		return Config{}, fmt.Errorf("invalid RAW_ARCHIVE_DRIVER %q: valid values are %s, %s, %s", archiveDriver, ArchiveNone, ArchiveMemory, ArchivePostgres)
	}
	archiveCapacity, err := getEnvAsInt("RAW_ARCHIVE_CAPACITY", 500)
	if err != nil {
		return Config{}, fmt.Errorf("parse RAW_ARCHIVE_CAPACITY: %w", err)
	}
	if archiveCapacity < 1 {
		return Config{}, fmt.Errorf("RAW_ARCHIVE_CAPACITY must be >= 1")
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if archiveDriver == ArchivePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when RAW_ARCHIVE_DRIVER=postgres")
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("APP_SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:                         appEnv,
		ServiceName:                    getEnv("APP_SERVICE_NAME", "league-forecast-api"),
		ServiceVersion:                 getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                    readTimeout,
		WriteTimeout:                   writeTimeout,
		ShutdownTimeout:                shutdownTimeout,
		CORSAllowedOrigins:             splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		InternalAPIToken:               strings.TrimSpace(getEnv("INTERNAL_API_TOKEN", "")),
		PredictorBaseURL:               predictorBaseURL,
		PredictorTimeout:               predictorTimeout,
		PredictorMaxRetries:            predictorMaxRetries,
		PredictorRetryBackoff:          predictorRetryBackoff,
		PredictorCircuitEnabled:        predictorCircuitEnabled,
		PredictorCircuitFailureCount:   predictorCircuitFailureCount,
		PredictorCircuitOpenTimeout:    predictorCircuitOpenTimeout,
		PredictorCircuitHalfOpenMaxReq: predictorCircuitHalfOpenMaxReq,
		SessionTTL:                     sessionTTL,
		SessionSweepInterval:           sessionSweepInterval,
		WorkerPoolSize:                 workerPoolSize,
		RosterCacheTTL:                 rosterCacheTTL,
		TierProfilePath:                strings.TrimSpace(getEnv("TIER_PROFILE_PATH", "")),
		SyntheticSeed:                  syntheticSeed,
		DefaultSeasons:                 defaultSeasons,
		DefaultSeason:                  defaultSeason,
		RawArchiveDriver:               archiveDriver,
		RawArchiveCapacity:             archiveCapacity,
		DBURL:                          dbURL,
		DBDisablePreparedBinary:        dbDisablePreparedBinary,
		MetricsEnabled:                 metricsEnabled,
		PprofEnabled:                   pprofEnabled,
		PprofAddr:                      pprofAddr,
		UptraceEnabled:                 uptraceEnabled,
		UptraceDSN:                     uptraceDSN,
		PyroscopeEnabled:               pyroscopeEnabled,
		PyroscopeServerAddress:         pyroscopeServerAddress,
		PyroscopeAuthToken:             strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:         strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:            pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

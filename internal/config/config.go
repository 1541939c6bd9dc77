package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/internal/platform/logging"
)

// Config stores runtime configuration for the dashboard service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	PprofEnabled       bool
	PprofAddr          string

	StatsAPIBaseURL             string
	StatsAPIKey                 string
	StatsAPITimeout             time.Duration
	StatsAPIMaxRetries          int
	StatsAPIListCacheTTL        time.Duration
	StatsAPICircuitEnabled      bool
	StatsAPICircuitFailureCount int
	StatsAPICircuitOpenTimeout  time.Duration

	MaxUpdateWorkers   int
	NotificationBuffer int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

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

	statsAPITimeout, err := time.ParseDuration(getEnv("STATS_API_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_API_TIMEOUT: %w", err)
	}
	if statsAPITimeout <= 0 {
		return Config{}, fmt.Errorf("STATS_API_TIMEOUT must be > 0")
	}
	statsAPIMaxRetries, err := getEnvAsInt("STATS_API_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_API_MAX_RETRIES: %w", err)
	}
	if statsAPIMaxRetries < 0 {
		return Config{}, fmt.Errorf("STATS_API_MAX_RETRIES must be >= 0")
	}
	statsAPIListCacheTTL, err := time.ParseDuration(getEnv("STATS_API_LIST_CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_API_LIST_CACHE_TTL: %w", err)
	}
	if statsAPIListCacheTTL <= 0 {
		return Config{}, fmt.Errorf("STATS_API_LIST_CACHE_TTL must be > 0")
	}
	statsAPICircuitEnabled, err := strconv.ParseBool(getEnv("STATS_API_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_API_CIRCUIT_ENABLED: %w", err)
	}
	statsAPICircuitFailureCount, err := getEnvAsInt("STATS_API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_API_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if statsAPICircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STATS_API_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	statsAPICircuitOpenTimeout, err := time.ParseDuration(getEnv("STATS_API_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_API_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if statsAPICircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("STATS_API_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	maxUpdateWorkers, err := getEnvAsInt("MAX_UPDATE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_UPDATE_WORKERS: %w", err)
	}
	if maxUpdateWorkers < 1 {
		return Config{}, fmt.Errorf("MAX_UPDATE_WORKERS must be >= 1")
	}

	notificationBuffer, err := getEnvAsInt("NOTIFICATION_BUFFER", 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFICATION_BUFFER: %w", err)
	}
	if notificationBuffer < 1 {
		return Config{}, fmt.Errorf("NOTIFICATION_BUFFER must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "wise-old-man-dashboard"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		PprofEnabled:       pprofEnabled,
		PprofAddr:          pprofAddr,

		StatsAPIBaseURL:             getEnv("STATS_API_BASE_URL", "https://api.wiseoldman.net/v2"),
		StatsAPIKey:                 strings.TrimSpace(getEnv("STATS_API_KEY", "")),
		StatsAPITimeout:             statsAPITimeout,
		StatsAPIMaxRetries:          statsAPIMaxRetries,
		StatsAPIListCacheTTL:        statsAPIListCacheTTL,
		StatsAPICircuitEnabled:      statsAPICircuitEnabled,
		StatsAPICircuitFailureCount: statsAPICircuitFailureCount,
		StatsAPICircuitOpenTimeout:  statsAPICircuitOpenTimeout,

		MaxUpdateWorkers:   maxUpdateWorkers,
		NotificationBuffer: notificationBuffer,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
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

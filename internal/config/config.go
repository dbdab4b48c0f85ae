package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courtside/pickup-queue/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	// DBURL empty means the in-memory repositories are used.
	DBURL string

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string

	// HomeCheckoutRequiresReplacement and AwayCheckoutRequiresReplacement
	// control what happens when a checkout vacates a team slot and nobody
	// is waiting to backfill it.
	HomeCheckoutRequiresReplacement bool
	AwayCheckoutRequiresReplacement bool

	RecordsMaxWorkers int

	PprofEnabled bool
	PprofAddr    string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	UptraceEnabled bool
	UptraceDSN     string

	ScoreboardEnabled               bool
	ScoreboardBaseURL               string
	ScoreboardToken                 string
	ScoreboardTimeout               time.Duration
	ScoreboardCircuitEnabled        bool
	ScoreboardCircuitFailureCount   int
	ScoreboardCircuitOpenTimeout    time.Duration
	ScoreboardCircuitHalfOpenMaxReq int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	homeCheckoutRequiresReplacement, err := strconv.ParseBool(getEnv("CHECKOUT_HOME_REQUIRES_REPLACEMENT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CHECKOUT_HOME_REQUIRES_REPLACEMENT: %w", err)
	}
	awayCheckoutRequiresReplacement, err := strconv.ParseBool(getEnv("CHECKOUT_AWAY_REQUIRES_REPLACEMENT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CHECKOUT_AWAY_REQUIRES_REPLACEMENT: %w", err)
	}

	recordsMaxWorkers, err := getEnvAsInt("RECORDS_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECORDS_MAX_WORKERS: %w", err)
	}
	if recordsMaxWorkers < 1 {
		return Config{}, fmt.Errorf("RECORDS_MAX_WORKERS must be >= 1")
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

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	scoreboardEnabled, err := strconv.ParseBool(getEnv("SCOREBOARD_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_ENABLED: %w", err)
	}
	scoreboardBaseURL := strings.TrimSpace(getEnv("SCOREBOARD_BASE_URL", ""))
	if scoreboardEnabled && scoreboardBaseURL == "" {
		return Config{}, fmt.Errorf("SCOREBOARD_BASE_URL is required when SCOREBOARD_ENABLED=true")
	}
	scoreboardTimeout, err := time.ParseDuration(getEnv("SCOREBOARD_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_TIMEOUT: %w", err)
	}
	if scoreboardTimeout <= 0 {
		return Config{}, fmt.Errorf("SCOREBOARD_TIMEOUT must be > 0")
	}
	scoreboardCircuitEnabled, err := strconv.ParseBool(getEnv("SCOREBOARD_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_CIRCUIT_ENABLED: %w", err)
	}
	scoreboardCircuitFailureCount, err := getEnvAsInt("SCOREBOARD_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if scoreboardCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SCOREBOARD_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	scoreboardCircuitOpenTimeout, err := time.ParseDuration(getEnv("SCOREBOARD_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if scoreboardCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SCOREBOARD_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	scoreboardCircuitHalfOpenMaxReq, err := getEnvAsInt("SCOREBOARD_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if scoreboardCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SCOREBOARD_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "pickup-queue-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		DBURL: strings.TrimSpace(getEnv("DB_URL", "")),

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		HomeCheckoutRequiresReplacement: homeCheckoutRequiresReplacement,
		AwayCheckoutRequiresReplacement: awayCheckoutRequiresReplacement,

		RecordsMaxWorkers: recordsMaxWorkers,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		ScoreboardEnabled:               scoreboardEnabled,
		ScoreboardBaseURL:               scoreboardBaseURL,
		ScoreboardToken:                 strings.TrimSpace(getEnv("SCOREBOARD_TOKEN", "")),
		ScoreboardTimeout:               scoreboardTimeout,
		ScoreboardCircuitEnabled:        scoreboardCircuitEnabled,
		ScoreboardCircuitFailureCount:   scoreboardCircuitFailureCount,
		ScoreboardCircuitOpenTimeout:    scoreboardCircuitOpenTimeout,
		ScoreboardCircuitHalfOpenMaxReq: scoreboardCircuitHalfOpenMaxReq,
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

func parseAppEnv(v string) (string, error) {
	candidate := strings.ToLower(strings.TrimSpace(v))
	switch candidate {
	case EnvDev, EnvStage, EnvProd:
		return candidate, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
)

// ErrConfiguration marks every error Load returns. Configuration errors are
// fatal and never retried.
var ErrConfiguration = crerr.New("configuration error")

// Config stores runtime configuration for one crawler process.
type Config struct {
	AppEnv         string        `validate:"oneof=dev stage prod"`
	ServiceName    string        `validate:"required"`
	ServiceVersion string        `validate:"required"`
	LogLevel       logging.Level `validate:"-"`

	StoreURL                string `validate:"required,url"`
	StoreKey                string `validate:"required"`
	LeagueID                int    `validate:"gt=0"`
	DBDisablePreparedBinary bool

	BundAPIBaseURL            string        `validate:"required,url"`
	BundBoxScoreURL           string        `validate:"required,url"`
	BundUserAgent             string        `validate:"required"`
	BundTimeout               time.Duration `validate:"gt=0"`
	BundMinInterval           time.Duration `validate:"gte=0"`
	BundCircuitEnabled        bool
	BundCircuitFailureCount   int           `validate:"gte=1"`
	BundCircuitOpenTimeout    time.Duration `validate:"gt=0"`
	BundCircuitHalfOpenMaxReq int           `validate:"gte=1"`

	BoxScoreWorkers    int           `validate:"gte=1,lte=32"`
	PersistMaxAttempts int           `validate:"gte=1"`
	PersistRetryDelay  time.Duration `validate:"gte=0"`
	HealthcheckWindow  time.Duration `validate:"gt=0"`

	UptraceEnabled         bool
	UptraceDSN             string `validate:"required_if=UptraceEnabled true"`
	PyroscopeEnabled       bool
	PyroscopeServerAddress string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName       string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration `validate:"gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the process environment. Missing STORE_URL, STORE_KEY or
// LEAGUE_ID fail before anything touches the network.
func Load() (Config, error) {
	cfg, err := load()
	if err != nil {
		return Config{}, crerr.Mark(err, ErrConfiguration)
	}
	return cfg, nil
}

func load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storeURL := CleanURL(os.Getenv("STORE_URL"), "postgres")
	if storeURL == "" {
		return Config{}, fmt.Errorf("STORE_URL is required")
	}
	storeKey := strings.TrimSpace(os.Getenv("STORE_KEY"))
	if storeKey == "" {
		return Config{}, fmt.Errorf("STORE_KEY is required")
	}
	rawLeague := strings.TrimSpace(os.Getenv("LEAGUE_ID"))
	if rawLeague == "" {
		return Config{}, fmt.Errorf("LEAGUE_ID is required")
	}
	leagueID, err := strconv.Atoi(rawLeague)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_ID: %w", err)
	}

	bundTimeout, err := time.ParseDuration(getEnv("BUND_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BUND_TIMEOUT: %w", err)
	}
	bundMinInterval, err := time.ParseDuration(getEnv("BUND_MIN_INTERVAL", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BUND_MIN_INTERVAL: %w", err)
	}
	bundCircuitEnabled, err := strconv.ParseBool(getEnv("BUND_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BUND_CIRCUIT_ENABLED: %w", err)
	}
	bundCircuitFailureCount, err := getEnvAsInt("BUND_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse BUND_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	bundCircuitOpenTimeout, err := time.ParseDuration(getEnv("BUND_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BUND_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	bundCircuitHalfOpenMaxReq, err := getEnvAsInt("BUND_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse BUND_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	boxScoreWorkers, err := getEnvAsInt("BOX_SCORE_WORKERS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse BOX_SCORE_WORKERS: %w", err)
	}
	persistMaxAttempts, err := getEnvAsInt("PERSIST_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse PERSIST_MAX_ATTEMPTS: %w", err)
	}
	persistRetryDelay, err := time.ParseDuration(getEnv("PERSIST_RETRY_DELAY", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PERSIST_RETRY_DELAY: %w", err)
	}
	healthcheckWindow, err := time.ParseDuration(getEnv("HEALTHCHECK_WINDOW", "72h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HEALTHCHECK_WINDOW: %w", err)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	cfg := Config{
		AppEnv:                    appEnv,
		ServiceName:               getEnv("APP_SERVICE_NAME", "bundcrawler"),
		ServiceVersion:            getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                  logging.ParseLevel(strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_LEVEL", "info")))),
		StoreURL:                  storeURL,
		StoreKey:                  storeKey,
		LeagueID:                  leagueID,
		DBDisablePreparedBinary:   dbDisablePreparedBinary,
		BundAPIBaseURL:            strings.TrimRight(CleanURL(getEnv("BUND_API_BASE_URL", "https://www.basketball-bund.net/rest"), "https"), "/"),
		BundBoxScoreURL:           CleanURL(getEnv("BUND_BOX_SCORE_URL", "https://www.basketball-bund.net/public/ergebnisDetails.jsp"), "https"),
		BundUserAgent:             strings.TrimSpace(getEnv("BUND_USER_AGENT", "BasketballBund-Crawler/1.0")),
		BundTimeout:               bundTimeout,
		BundMinInterval:           bundMinInterval,
		BundCircuitEnabled:        bundCircuitEnabled,
		BundCircuitFailureCount:   bundCircuitFailureCount,
		BundCircuitOpenTimeout:    bundCircuitOpenTimeout,
		BundCircuitHalfOpenMaxReq: bundCircuitHalfOpenMaxReq,
		BoxScoreWorkers:           boxScoreWorkers,
		PersistMaxAttempts:        persistMaxAttempts,
		PersistRetryDelay:         persistRetryDelay,
		HealthcheckWindow:         healthcheckWindow,
		UptraceEnabled:            uptraceEnabled,
		UptraceDSN:                uptraceDSN,
		PyroscopeEnabled:          pyroscopeEnabled,
		PyroscopeServerAddress:    strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:        strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:       pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// CleanURL drops non-printable characters and surrounding whitespace, then
// prefixes defaultScheme when raw carries no scheme. Empty input stays empty.
func CleanURL(raw, defaultScheme string) string {
	cleaned := strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, raw)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return ""
	}
	if !strings.Contains(cleaned, "://") && defaultScheme != "" {
		cleaned = defaultScheme + "://" + cleaned
	}
	return cleaned
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

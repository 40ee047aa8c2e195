package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PratikDhanave/clinic-dashboard/internal/eventlog"
	"github.com/PratikDhanave/clinic-dashboard/internal/logging"
	"github.com/PratikDhanave/clinic-dashboard/internal/toast"
)

// Event sources for the dashboard.
const (
	SourceBackend  = "backend"
	SourcePostgres = "postgres"
)

// Config contains runtime configuration required by the service.
type Config struct {
	HTTPAddr string
	DBURL    string
	APIKeys  map[string]string // apiKey -> operator

	EventSource    string
	BackendURL     string
	BackendToken   string
	BackendTimeout time.Duration
	EventLookback  time.Duration

	DashboardDays     int
	DashboardLocation *time.Location

	ToastDurations map[toast.Type]time.Duration
	Logging        logging.Config
}

// Load reads configuration from environment variables.
// API_KEYS format: "operator1:key1,operator2:key2"
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:       getEnvWithDefault("HTTP_ADDR", ":8080"),
		DBURL:          strings.TrimSpace(os.Getenv("DB_URL")),
		EventSource:    strings.ToLower(getEnvWithDefault("EVENT_SOURCE", SourceBackend)),
		BackendURL:     strings.TrimSpace(os.Getenv("BACKEND_URL")),
		BackendToken:   strings.TrimSpace(os.Getenv("BACKEND_TOKEN")),
		BackendTimeout: getEnvDurationWithDefault("BACKEND_TIMEOUT", 10*time.Second),
		EventLookback:  getEnvDurationWithDefault("EVENT_LOOKBACK", (eventlog.MaxWindowDays+1)*24*time.Hour),
		DashboardDays:  getEnvIntWithDefault("DASHBOARD_DAYS", 7),
		ToastDurations: map[toast.Type]time.Duration{
			toast.TypeSuccess: getEnvDurationWithDefault("TOAST_SUCCESS_DURATION", toast.DefaultDurations[toast.TypeSuccess]),
			toast.TypeInfo:    getEnvDurationWithDefault("TOAST_INFO_DURATION", toast.DefaultDurations[toast.TypeInfo]),
			toast.TypeWarning: getEnvDurationWithDefault("TOAST_WARNING_DURATION", toast.DefaultDurations[toast.TypeWarning]),
			toast.TypeError:   getEnvDurationWithDefault("TOAST_ERROR_DURATION", toast.DefaultDurations[toast.TypeError]),
		},
		Logging: logging.Config{
			Level:  getEnvWithDefault("LOG_LEVEL", "info"),
			Format: getEnvWithDefault("LOG_FORMAT", "json"),
			Output: getEnvWithDefault("LOG_OUTPUT", "stdout"),
		},
	}

	switch cfg.EventSource {
	case SourceBackend:
		if cfg.BackendURL == "" {
			return Config{}, errors.New("BACKEND_URL required when EVENT_SOURCE=backend")
		}
	case SourcePostgres:
		if cfg.DBURL == "" {
			return Config{}, errors.New("DB_URL required when EVENT_SOURCE=postgres")
		}
	default:
		return Config{}, fmt.Errorf("EVENT_SOURCE must be %q or %q", SourceBackend, SourcePostgres)
	}

	loc := time.Local
	if tz := strings.TrimSpace(os.Getenv("DASHBOARD_TZ")); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("DASHBOARD_TZ: %w", err)
		}
		loc = l
	}
	cfg.DashboardLocation = loc

	keys, err := parseAPIKeys(os.Getenv("API_KEYS"))
	if err != nil {
		return Config{}, err
	}
	cfg.APIKeys = keys

	return cfg, nil
}

func parseAPIKeys(raw string) (map[string]string, error) {
	apiKeys := map[string]string{}

	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, p := range strings.Split(raw, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			parts := strings.SplitN(p, ":", 2)
			if len(parts) != 2 {
				return nil, errors.New(`API_KEYS must be "operator:key,operator:key"`)
			}
			operator := strings.TrimSpace(parts[0])
			key := strings.TrimSpace(parts[1])
			if operator == "" || key == "" {
				return nil, errors.New(`API_KEYS must be "operator:key,operator:key"`)
			}
			apiKeys[key] = operator
		}
	}

	// Local dev fallback so the service runs out-of-the-box.
	if len(apiKeys) == 0 {
		apiKeys["dashboard-key-123"] = "dev"
	}
	return apiKeys, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

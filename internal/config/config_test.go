package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/clinic-dashboard/internal/eventlog"
	"github.com/PratikDhanave/clinic-dashboard/internal/toast"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HTTP_ADDR", "DB_URL", "EVENT_SOURCE", "BACKEND_URL", "BACKEND_TOKEN", "BACKEND_TIMEOUT",
		"EVENT_LOOKBACK", "DASHBOARD_DAYS", "DASHBOARD_TZ", "API_KEYS",
		"TOAST_SUCCESS_DURATION", "TOAST_INFO_DURATION", "TOAST_WARNING_DURATION", "TOAST_ERROR_DURATION",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_BackendDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_URL", "http://lab.local/api")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, SourceBackend, cfg.EventSource)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 7, cfg.DashboardDays)
	assert.Equal(t, (eventlog.MaxWindowDays+1)*24*time.Hour, cfg.EventLookback)
	assert.Equal(t, time.Local, cfg.DashboardLocation)
	assert.Equal(t, "dev", cfg.APIKeys["dashboard-key-123"])
	assert.Equal(t, toast.DefaultDurations[toast.TypeError], cfg.ToastDurations[toast.TypeError])
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("EVENT_SOURCE", "Postgres")
	t.Setenv("DB_URL", "postgres://u:p@db/clinic")
	t.Setenv("API_KEYS", "dr.ana:k1, dr.ben:k2")
	t.Setenv("DASHBOARD_DAYS", "14")
	t.Setenv("DASHBOARD_TZ", "UTC")
	t.Setenv("TOAST_SUCCESS_DURATION", "1500ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.EventSource)
	assert.Equal(t, map[string]string{"k1": "dr.ana", "k2": "dr.ben"}, cfg.APIKeys)
	assert.Equal(t, 14, cfg.DashboardDays)
	assert.Equal(t, "UTC", cfg.DashboardLocation.String())
	assert.Equal(t, 1500*time.Millisecond, cfg.ToastDurations[toast.TypeSuccess])
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"backend without url", map[string]string{"EVENT_SOURCE": "backend"}},
		{"postgres without db", map[string]string{"EVENT_SOURCE": "postgres"}},
		{"unknown source", map[string]string{"EVENT_SOURCE": "mongo"}},
		{"bad tz", map[string]string{"BACKEND_URL": "http://x", "DASHBOARD_TZ": "Nowhere/City"}},
		{"bad api keys", map[string]string{"BACKEND_URL": "http://x", "API_KEYS": "nocolon"}},
		{"empty operator", map[string]string{"BACKEND_URL": "http://x", "API_KEYS": ":key"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

var allKeys = []string{
	"APP_PORT", "LOG_LEVEL", "LOG_DEVELOPMENT", "STORE_DRIVER", "SQLITE_DSN",
	"SUPABASE_URL", "SUPABASE_SERVICE_KEY", "SUPABASE_SCHEMA", "MONGODB_URI", "MONGODB_DB_NAME",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_LEDGER_ID", "GOOGLE_SHEET_LEDGER_RANGE",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_MANAGER_ID",
	"REPORT_CRON_SCHEDULE", "DRAFT_PURGE_SCHEDULE", "DRAFT_TTL", "TIMEZONE", "RECEIVING_VAT_RATE",
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, allKeys...)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.NotEmpty(t, cfg.SQLite.DSN)
	assert.Equal(t, "Asia/Bangkok", cfg.Reporting.Timezone)
	assert.Equal(t, 72*time.Hour, cfg.Reporting.DraftTTL)
	assert.True(t, cfg.Receiving.VATRate.Equal(decimal.RequireFromString("0.07")))
	assert.False(t, cfg.MongoDB.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.Equal(t, "Asia/Bangkok", cfg.Reporting.Location().String())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t, allKeys...)

	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nSTORE_DRIVER=Supabase\nSUPABASE_URL=https://demo.supabase.co\nSUPABASE_SERVICE_KEY=key\nRECEIVING_VAT_RATE=0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverSupabase, cfg.Store.Driver)
	assert.Equal(t, "https://demo.supabase.co", cfg.Supabase.URL)
	assert.True(t, cfg.Receiving.VATRate.IsZero())
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "oracle"}, want: "STORE_DRIVER"},
		{name: "supabase without url", env: map[string]string{"STORE_DRIVER": "supabase"}, want: "SUPABASE_URL"},
		{name: "bad vat", env: map[string]string{"RECEIVING_VAT_RATE": "seven"}, want: "RECEIVING_VAT_RATE"},
		{name: "vat out of range", env: map[string]string{"RECEIVING_VAT_RATE": "1.5"}, want: "RECEIVING_VAT_RATE"},
		{name: "bad cron", env: map[string]string{"REPORT_CRON_SCHEDULE": "every day"}, want: "REPORT_CRON_SCHEDULE"},
		{name: "bad ttl", env: map[string]string{"DRAFT_TTL": "soon"}, want: "DRAFT_TTL"},
		{name: "bad timezone", env: map[string]string{"TIMEZONE": "Mars/Olympus"}, want: "TIMEZONE"},
		{name: "whatsapp without manager", env: map[string]string{"WHATSAPP_TOKEN": "t", "WHATSAPP_PHONE_NUMBER_ID": "1"}, want: "WHATSAPP_MANAGER_ID"},
		{name: "sheets without credentials", env: map[string]string{"GOOGLE_SHEET_LEDGER_ID": "sheet"}, want: "GOOGLE_SHEETS_CREDENTIALS_PATH"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t, allKeys...)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(missingEnvFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateNil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}

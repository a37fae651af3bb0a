package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverSupabase = "supabase"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	SQLite    SQLiteConfig
	Supabase  SupabaseConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
	Reporting ReportingConfig
	Receiving ReceivingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig selects the zap level and encoding.
type LogConfig struct {
	Level       string
	Development bool
}

// StoreConfig selects where catalog and receipt data live.
type StoreConfig struct {
	Driver string
}

// SQLiteConfig configures the local database.
type SQLiteConfig struct {
	DSN string
}

// SupabaseConfig holds the project URL and service role key.
type SupabaseConfig struct {
	URL        string
	ServiceKey string
	Schema     string
}

// MongoDBConfig holds settings for MongoDB. An empty URI keeps drafts in memory.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether MongoDB is configured.
func (c MongoDBConfig) Enabled() bool { return c.URI != "" }

// SheetsConfig contains configuration required to export the receiving ledger to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	LedgerRange     string
}

// Enabled reports whether the ledger export is configured.
func (c SheetsConfig) Enabled() bool { return c.SpreadsheetID != "" }

// WhatsAppConfig contains credentials for sending reports through the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	ManagerID     string
}

// Enabled reports whether report delivery over WhatsApp is configured.
func (c WhatsAppConfig) Enabled() bool { return c.AccessToken != "" }

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule   string
	DraftPurgeSpec string
	DraftTTL       time.Duration
	Timezone       string
}

// ReceivingConfig holds goods receipt rules.
type ReceivingConfig struct {
	VATRate decimal.Decimal
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	draftTTL, err := time.ParseDuration(getenvWithDefault("DRAFT_TTL", "72h"))
	if err != nil {
		return nil, fmt.Errorf("DRAFT_TTL: %w", err)
	}

	vatRate, err := decimal.NewFromString(getenvWithDefault("RECEIVING_VAT_RATE", "0.07"))
	if err != nil {
		return nil, fmt.Errorf("RECEIVING_VAT_RATE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level:       getenvWithDefault("LOG_LEVEL", "info"),
			Development: os.Getenv("LOG_DEVELOPMENT") == "true",
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getenvWithDefault("STORE_DRIVER", DriverSQLite)),
		},
		SQLite: SQLiteConfig{
			DSN: getenvWithDefault("SQLITE_DSN", "flexi.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"),
		},
		Supabase: SupabaseConfig{
			URL:        os.Getenv("SUPABASE_URL"),
			ServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
			Schema:     os.Getenv("SUPABASE_SCHEMA"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "flexi"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_LEDGER_ID"),
			LedgerRange:     getenvWithDefault("GOOGLE_SHEET_LEDGER_RANGE", "Receiving!A:F"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerID:     os.Getenv("WHATSAPP_MANAGER_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule:   getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			DraftPurgeSpec: getenvWithDefault("DRAFT_PURGE_SCHEDULE", "@every 1h"),
			DraftTTL:       draftTTL,
			Timezone:       getenvWithDefault("TIMEZONE", "Asia/Bangkok"),
		},
		Receiving: ReceivingConfig{
			VATRate: vatRate,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.SQLite.DSN == "" {
			return errors.New("SQLITE_DSN must be provided")
		}
	case DriverSupabase:
		switch {
		case c.Supabase.URL == "":
			return errors.New("SUPABASE_URL must be provided")
		case c.Supabase.ServiceKey == "":
			return errors.New("SUPABASE_SERVICE_KEY must be provided")
		}
	default:
		return fmt.Errorf("STORE_DRIVER %q is not supported", c.Store.Driver)
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Sheets.Enabled() {
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.LedgerRange == "" {
			return errors.New("GOOGLE_SHEET_LEDGER_RANGE must not be empty")
		}
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.ManagerID == "":
			return errors.New("WHATSAPP_MANAGER_ID must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if _, err := cron.ParseStandard(c.Reporting.CronSchedule); err != nil {
		return fmt.Errorf("REPORT_CRON_SCHEDULE: %w", err)
	}
	if _, err := cron.ParseStandard(c.Reporting.DraftPurgeSpec); err != nil {
		return fmt.Errorf("DRAFT_PURGE_SCHEDULE: %w", err)
	}
	if c.Reporting.DraftTTL <= 0 {
		return errors.New("DRAFT_TTL must be positive")
	}
	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}

	if c.Receiving.VATRate.IsNegative() || c.Receiving.VATRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.New("RECEIVING_VAT_RATE must be in [0, 1)")
	}

	return nil
}

// Location returns the reporting time zone.
func (c ReportingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

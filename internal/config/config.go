package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Store driver names accepted by STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	Export    ExportConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
	// HoursDebounce coalesces rapid hour edits for the same laborer/date
	// into one store write. Zero disables coalescing.
	HoursDebounce time.Duration
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Driver string
	URI    string
	DBName string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	// RefreshInterval drives the read-only reconciliation probe.
	RefreshInterval time.Duration
	// ExportCronSchedule triggers the monthly CSV export run.
	ExportCronSchedule string
	Timezone           string
}

// SheetsConfig contains the optional Google Sheets mirror settings. Both
// fields empty means the mirror is disabled.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the spreadsheet mirror is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ExportConfig holds CSV export output and delivery settings.
type ExportConfig struct {
	Dir string
	// WebhookURL, when set, receives every exported CSV by HTTP POST.
	WebhookURL string
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

	refresh, err := time.ParseDuration(getenvWithDefault("REFRESH_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}

	debounce, err := time.ParseDuration(getenvWithDefault("HOURS_DEBOUNCE_WINDOW", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HOURS_DEBOUNCE_WINDOW: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          getenvWithDefault("APP_PORT", "8080"),
			HoursDebounce: debounce,
		},
		Store: StoreConfig{
			Driver: getenvWithDefault("STORE_DRIVER", DriverMongo),
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "laborbook"),
		},
		Reporting: ReportingConfig{
			RefreshInterval:    refresh,
			ExportCronSchedule: getenvWithDefault("EXPORT_CRON_SCHEDULE", "0 21 * * *"),
			Timezone:           getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Export: ExportConfig{
			Dir:        getenvWithDefault("EXPORT_DIR", "exports"),
			WebhookURL: os.Getenv("EXPORT_WEBHOOK_URL"),
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
	if c.Server.HoursDebounce < 0 {
		return errors.New("HOURS_DEBOUNCE_WINDOW must not be negative")
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverMongo:
		if c.Store.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.Store.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", DriverMongo, DriverMemory)
	}

	if c.Reporting.RefreshInterval <= 0 {
		return errors.New("REFRESH_INTERVAL must be positive")
	}
	if c.Reporting.ExportCronSchedule == "" {
		return errors.New("EXPORT_CRON_SCHEDULE must be provided")
	}
	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Export.Dir == "" {
		return errors.New("EXPORT_DIR must be provided")
	}

	// Sheets mirror is optional, but half a configuration is a mistake.
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be set together")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

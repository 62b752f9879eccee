package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"expensetracker/internal/log"
)

// EnvPrefix namespaces environment overrides, e.g. TRACKER_DATA_BACKEND.
const EnvPrefix = "TRACKER"

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

var validBackends = []string{BackendMemory, BackendSQLite}

type Config struct {
	// HTTP Server
	Port string

	// Storage
	DataBackend  string
	SQLiteDBPath string
	ExportDir    string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets mirror
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Worker full resync period
	SyncInterval time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// SetDefaults registers every key so that env overrides are picked up by
// AutomaticEnv even when no config file mentions them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8081")
	v.SetDefault("data_backend", BackendSQLite)
	v.SetDefault("sqlite_db_path", "./data/tracker.db")
	v.SetDefault("export_dir", ".")
	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_exchange", "tracker")
	v.SetDefault("amqp_queue", "ledger_changes")
	v.SetDefault("google_spreadsheet_id", "")
	v.SetDefault("google_sheet_name", "Expenses")
	v.SetDefault("google_service_account_file", "")
	v.SetDefault("google_service_account_json", "")
	v.SetDefault("sync_interval", 5*time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// NewViper returns a viper instance with defaults and TRACKER_* env lookup.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads configFile, or searches ./config.yaml and
// $HOME/.config/tracker/config.yaml when it is empty. A missing file in the
// search path is not an error.
func ReadFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tracker"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// FromViper snapshots the resolved settings.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:         v.GetString("port"),
		DataBackend:  strings.ToLower(strings.TrimSpace(v.GetString("data_backend"))),
		SQLiteDBPath: v.GetString("sqlite_db_path"),
		ExportDir:    v.GetString("export_dir"),

		AMQPURL:      strings.TrimSpace(v.GetString("amqp_url")),
		AMQPExchange: v.GetString("amqp_exchange"),
		AMQPQueue:    v.GetString("amqp_queue"),

		GoogleSpreadsheetID:      strings.TrimSpace(v.GetString("google_spreadsheet_id")),
		GoogleSheetName:          v.GetString("google_sheet_name"),
		GoogleServiceAccountFile: strings.TrimSpace(v.GetString("google_service_account_file")),
		GoogleServiceAccountJSON: strings.TrimSpace(v.GetString("google_service_account_json")),

		SyncInterval: v.GetDuration("sync_interval"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}
}

// Load resolves defaults, the optional config file and env overrides.
func Load(configFile string) (*Config, error) {
	v := NewViper()
	if err := ReadFile(v, configFile); err != nil {
		return nil, err
	}
	return FromViper(v), nil
}

func (c *Config) AMQPEnabled() bool { return c.AMQPURL != "" }

func (c *Config) SheetsEnabled() bool { return c.GoogleSpreadsheetID != "" }

// Validate validates the configuration and returns an error listing every problem
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == BackendSQLite && strings.TrimSpace(c.SQLiteDBPath) == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
	}

	if strings.TrimSpace(c.ExportDir) == "" {
		errs = append(errs, "export directory cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() {
		errs = append(errs, c.sheetsProblems()...)
	}

	if c.SyncInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// ValidateSheets checks only what the Google Sheets mirror needs.
func (c *Config) ValidateSheets() error {
	if !c.SheetsEnabled() {
		return errors.New("google spreadsheet id is required for the sheets mirror")
	}
	if errs := c.sheetsProblems(); len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func (c *Config) sheetsProblems() []string {
	var errs []string
	if strings.TrimSpace(c.GoogleSheetName) == "" {
		errs = append(errs, "Google Sheet name is required when a spreadsheet ID is set")
	}
	hasFile := c.GoogleServiceAccountFile != ""
	if !hasFile && c.GoogleServiceAccountJSON == "" {
		errs = append(errs, "either google_service_account_file or google_service_account_json must be provided for the sheets mirror")
	}
	if hasFile {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}
	return errs
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	DefaultStorageKey = "runningDays"
	DefaultAPIKeyEnv  = "GEMINI_API_KEY"
	DefaultLogsDir    = "logs"
)

// Regular defines a runner who signs up on a recurring schedule.
// Start anchors the rule so INTERVAL, COUNT and UNTIL count from a fixed date.
type Regular struct {
	Name  string `yaml:"name" validate:"required"`
	RRule string `yaml:"rrule" validate:"required"`
	Start string `yaml:"start" validate:"required,datetime=2006-01-02"`
}

// FileStorage configures the file backend
type FileStorage struct {
	Dir      string `yaml:"dir"`
	Compress bool   `yaml:"compress"`
}

// SQLiteStorage configures the SQLite backend
type SQLiteStorage struct {
	Path string `yaml:"path"`
}

// PostgresStorage configures the PostgreSQL backend
type PostgresStorage struct {
	ConnString string `yaml:"connString"`
}

// Storage selects and configures the key-value backend
type Storage struct {
	Backend  string          `yaml:"backend" validate:"omitempty,oneof=memory file sqlite postgres"`
	Key      string          `yaml:"key"`
	File     FileStorage     `yaml:"file"`
	SQLite   SQLiteStorage   `yaml:"sqlite"`
	Postgres PostgresStorage `yaml:"postgres" validate:"-"`
}

// Quote configures the motivational quote service
type Quote struct {
	Enabled   *bool  `yaml:"enabled,omitempty"`
	APIKey    string `yaml:"apiKey,omitempty"`
	APIKeyEnv string `yaml:"apiKeyEnv,omitempty"`
	Model     string `yaml:"model,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty" validate:"omitempty,url"`
}

// Logging configures log output
type Logging struct {
	Dir string `yaml:"dir"`
}

// Config represents the application configuration
type Config struct {
	Timezone string    `yaml:"timezone,omitempty"`
	Storage  Storage   `yaml:"storage"`
	Quote    Quote     `yaml:"quote"`
	Logging  Logging   `yaml:"logging"`
	Regulars []Regular `yaml:"regulars,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadWithEnv loads runroster_config.<env>.yaml (or runroster_config.yaml when
// env is empty) from the current or home directory. A missing file yields
// Default().
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return Default(), nil
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the timezone, backend
// settings and each regular's rrule
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := cfg.Location(); err != nil {
		return err
	}

	if cfg.Storage.Backend == BackendPostgres && cfg.Storage.Postgres.ConnString == "" {
		return fmt.Errorf("config validation failed: storage.postgres.connString is required for the postgres backend")
	}

	for i, regular := range cfg.Regulars {
		if _, err := rrule.StrToRRule(regular.RRule); err != nil {
			return fmt.Errorf("invalid rrule in regulars[%d]: %w", i, err)
		}
	}

	return nil
}

// Location resolves the configured timezone, defaulting to the process local zone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// QuoteAPIKey returns the configured key, falling back to the key environment variable
func (c *Config) QuoteAPIKey() string {
	if c.Quote.APIKey != "" {
		return c.Quote.APIKey
	}
	return os.Getenv(c.Quote.APIKeyEnv)
}

// QuoteEnabled reports whether quote fetching is switched on
func (c *Config) QuoteEnabled() bool {
	return c.Quote.Enabled == nil || *c.Quote.Enabled
}

func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Storage.Key == "" {
		c.Storage.Key = DefaultStorageKey
	}
	if c.Storage.File.Dir == "" {
		c.Storage.File.Dir = defaultDataDir()
	}
	if c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = filepath.Join(defaultDataDir(), "runroster.db")
	}
	if c.Quote.APIKeyEnv == "" {
		c.Quote.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = DefaultLogsDir
	}
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".runroster"
	}
	return filepath.Join(homeDir, ".runroster")
}

// findConfigFile searches for the config file in the current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "runroster_config.yaml"
	if env != "" {
		configFileName = "runroster_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}

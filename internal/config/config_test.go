package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Timezone: "Europe/London",
		Storage: Storage{
			Backend: BackendSQLite,
			Key:     "runningDays",
			SQLite:  SQLiteStorage{Path: "/tmp/roster.db"},
		},
		Quote: Quote{
			Model:    "gemini-2.5-flash",
			Endpoint: "https://generativelanguage.googleapis.com/",
		},
		Regulars: []Regular{
			{Name: "Alex", RRule: "FREQ=WEEKLY;BYDAY=TU,TH", Start: "2024-01-01"},
		},
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_MinimalConfig(t *testing.T) {
	err := Validate(Default())
	assert.NoError(t, err)
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "redis"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_PostgresRequiresConnString(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = BackendPostgres

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connString")

	cfg.Storage.Postgres.ConnString = "postgres://localhost/runroster"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_InvalidTimezone(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Mars/Olympus_Mons"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone")
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := Default()
	cfg.Regulars = []Regular{
		{Name: "Alex", RRule: "FREQ=WEEKLY;BYDAY=SA", Start: "2024-01-01"},
		{Name: "Sam", RRule: "INVALID_RRULE_SYNTAX", Start: "2024-01-01"},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule in regulars[1]")
}

func TestValidate_RegularWithoutName(t *testing.T) {
	cfg := Default()
	cfg.Regulars = []Regular{{RRule: "FREQ=DAILY", Start: "2024-01-01"}}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_RegularStart(t *testing.T) {
	tests := []struct {
		name  string
		start string
	}{
		{name: "missing", start: ""},
		{name: "not a date", start: "next tuesday"},
		{name: "wrong layout", start: "01/02/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Regulars = []Regular{{Name: "Alex", RRule: "FREQ=DAILY", Start: tt.start}}

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Start")
		})
	}
}

func TestValidate_InvalidEndpoint(t *testing.T) {
	cfg := Default()
	cfg.Quote.Endpoint = "not a url"

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, DefaultStorageKey, cfg.Storage.Key)
	assert.NotEmpty(t, cfg.Storage.File.Dir)
	assert.Equal(t, DefaultAPIKeyEnv, cfg.Quote.APIKeyEnv)
	assert.Equal(t, DefaultLogsDir, cfg.Logging.Dir)
	assert.True(t, cfg.QuoteEnabled())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestQuoteAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Quote.APIKeyEnv = "RUNROSTER_TEST_QUOTE_KEY"
	t.Setenv("RUNROSTER_TEST_QUOTE_KEY", "from-env")

	assert.Equal(t, "from-env", cfg.QuoteAPIKey())

	cfg.Quote.APIKey = "from-file"
	assert.Equal(t, "from-file", cfg.QuoteAPIKey())
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "runroster_config.yaml")

	validConfig := `
timezone: "America/New_York"
storage:
  backend: file
  key: "clubDays"
  file:
    dir: "` + tmpDir + `"
    compress: true
quote:
  enabled: false
  model: "gemini-2.0-flash"
logging:
  dir: "` + tmpDir + `/logs"
regulars:
  - name: "Alex"
    rrule: "FREQ=WEEKLY;BYDAY=MO,WE,FR"
    start: "2024-01-01"
  - name: "Sam"
    rrule: "FREQ=WEEKLY;INTERVAL=2;BYDAY=SA"
    start: "2024-01-06"
`

	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "clubDays", cfg.Storage.Key)
	assert.Equal(t, tmpDir, cfg.Storage.File.Dir)
	assert.True(t, cfg.Storage.File.Compress)
	assert.False(t, cfg.QuoteEnabled())
	assert.Equal(t, "gemini-2.0-flash", cfg.Quote.Model)
	require.Len(t, cfg.Regulars, 2)
	assert.Equal(t, "Sam", cfg.Regulars[1].Name)
	assert.Equal(t, "2024-01-06", cfg.Regulars[1].Start)
}

func TestLoadFromPath_MinimalConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "minimal_config.yaml")

	err := os.WriteFile(configPath, []byte("timezone: UTC\n"), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, DefaultStorageKey, cfg.Storage.Key)
	assert.Empty(t, cfg.Regulars)
}

func TestLoadFromPath_InvalidRRule(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_rrule.yaml")

	invalidConfig := `
regulars:
  - name: "Alex"
    rrule: "INVALID_RRULE_SYNTAX"
    start: "2024-01-01"
`

	err := os.WriteFile(configPath, []byte(invalidConfig), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_yaml.yaml")

	invalidYAML := `
storage:
  backend: "file"
    invalid indentation
`

	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv_FindsEnvFileInWorkingDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("HOME", tmpDir)

	err := os.WriteFile("runroster_config.test.yaml", []byte("storage:\n  key: testDays\n"), 0644)
	require.NoError(t, err)

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "testDays", cfg.Storage.Key)

	cfg, err = LoadWithEnv("prod")
	require.NoError(t, err)
	assert.Equal(t, DefaultStorageKey, cfg.Storage.Key, "missing file falls back to defaults")
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipe-engine/backend/internal/config"
)

var envKeys = []string{
	"SERVER_ADDR",
	"SERVER_MAX_CONNECTIONS",
	"SERVER_READ_TIMEOUT",
	"SERVER_DEFAULT_RESULTS",
	"SERVER_MAX_RESULTS",
	"ARTIFACT_BACKEND",
	"ARTIFACT_DIR",
	"ARTIFACT_S3_BUCKET",
	"ARTIFACT_HTTP_URL",
	"ARTIFACT_HTTP_TIMEOUT",
	"CATALOG_SOURCE",
	"CATALOG_STEP_DELIMITER",
	"CATALOG_INGREDIENT_DELIMITER",
	"TEXT_STOPWORDS_FILE",
	"LOG_LEVEL",
	"LOG_REPORT_CALLER",
	"TEST_STRING",
	"TEST_INT",
	"TEST_BOOL",
	"TEST_DURATION",
	"TEST_ESCAPED",
	"DOTENV_ONLY",
}

// clearEnvVars unsets every variable the tests touch and restores them afterwards
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, value) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	clearEnvVars(t)

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 256, cfg.Server.MaxConnections)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5, cfg.Server.DefaultResults)
	assert.Equal(t, 10, cfg.Server.MaxResults)
	assert.Equal(t, 10, cfg.Server.QuickResults)

	assert.Equal(t, config.BackendFile, cfg.Artifacts.Backend)
	assert.Equal(t, "./data", cfg.Artifacts.Dir)
	assert.Equal(t, "feature_space.json", cfg.Artifacts.FeatureSpaceKey)
	assert.Equal(t, "tfidf_matrix.json", cfg.Artifacts.MatrixKey)

	assert.Equal(t, config.SourceCSV, cfg.Catalog.Source)
	assert.Equal(t, "cleaned_recipes.csv", cfg.Catalog.CSVKey)
	assert.Equal(t, ",", cfg.Catalog.IngredientDelimiter)
	assert.Equal(t, "\n", cfg.Catalog.StepDelimiter)

	assert.Equal(t, "", cfg.Text.StopwordsFile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.ReportCaller)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnvVars(t)

	envVars := map[string]string{
		"SERVER_ADDR":            "127.0.0.1:9000",
		"SERVER_MAX_CONNECTIONS": "16",
		"SERVER_READ_TIMEOUT":    "2s",
		"SERVER_DEFAULT_RESULTS": "3",
		"ARTIFACT_BACKEND":       "s3",
		"ARTIFACT_S3_BUCKET":     "recipes-models",
		"CATALOG_SOURCE":         "sqlite",
		"CATALOG_STEP_DELIMITER": `\t`,
		"TEXT_STOPWORDS_FILE":    "/etc/stopwords.txt",
		"LOG_LEVEL":              "debug",
		"LOG_REPORT_CALLER":      "true",
	}
	for key, value := range envVars {
		os.Setenv(key, value)
	}

	cfg := config.Load()

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 16, cfg.Server.MaxConnections)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 3, cfg.Server.DefaultResults)
	assert.Equal(t, config.BackendS3, cfg.Artifacts.Backend)
	assert.Equal(t, "recipes-models", cfg.Artifacts.S3Bucket)
	assert.Equal(t, config.SourceSQLite, cfg.Catalog.Source)
	assert.Equal(t, "\t", cfg.Catalog.StepDelimiter)
	assert.Equal(t, "/etc/stopwords.txt", cfg.Text.StopwordsFile)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.ReportCaller)

	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"Unknown backend", func(c *config.Config) { c.Artifacts.Backend = "ftp" }},
		{"S3 without bucket", func(c *config.Config) { c.Artifacts.Backend = config.BackendS3 }},
		{"HTTP without url", func(c *config.Config) { c.Artifacts.Backend = config.BackendHTTP }},
		{"File without dir", func(c *config.Config) { c.Artifacts.Dir = "" }},
		{"Unknown source", func(c *config.Config) { c.Catalog.Source = "postgres" }},
		{"SQLite without path", func(c *config.Config) {
			c.Catalog.Source = config.SourceSQLite
			c.Catalog.SQLitePath = ""
		}},
		{"Empty artifact name", func(c *config.Config) { c.Artifacts.MatrixKey = "" }},
		{"Zero connections", func(c *config.Config) { c.Server.MaxConnections = 0 }},
		{"Default above max", func(c *config.Config) { c.Server.DefaultResults = 11 }},
		{"Zero max results", func(c *config.Config) { c.Server.MaxResults = 0 }},
		{"Zero quick results", func(c *config.Config) { c.Server.QuickResults = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			cfg := config.Load()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnvVars(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DOTENV_ONLY=from-file\nLOG_LEVEL=warn\n"), 0644))
	os.Setenv("LOG_LEVEL", "error")

	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("DOTENV_ONLY"))
	// Existing variables win over the file
	assert.Equal(t, "error", os.Getenv("LOG_LEVEL"))

	assert.Error(t, config.LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestGetStringEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue string
		expected     string
	}{
		{"Existing env var", "TEST_STRING", "test_value", "default", "test_value"},
		{"Non-existing env var", "TEST_STRING", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
			}
			assert.Equal(t, tt.expected, config.GetStringEnv(tt.key, tt.defaultValue))
		})
	}
}

func TestGetEscapedEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected string
	}{
		{"Newline escape", `\n`, "\n"},
		{"Plain value", "|", "|"},
		{"Invalid escape kept raw", `\q`, `\q`},
		{"Unset", "", ";"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			if tt.envValue != "" {
				os.Setenv("TEST_ESCAPED", tt.envValue)
			}
			assert.Equal(t, tt.expected, config.GetEscapedEnv("TEST_ESCAPED", ";"))
		})
	}
}

func TestGetIntEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		expected     int
	}{
		{"Valid int", "42", 10, 42},
		{"Invalid int", "not_a_number", 10, 10},
		{"Negative int", "-5", 10, -5},
		{"Zero", "0", 10, 0},
		{"Non-existing env var", "", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			if tt.envValue != "" {
				os.Setenv("TEST_INT", tt.envValue)
			}
			assert.Equal(t, tt.expected, config.GetIntEnv("TEST_INT", tt.defaultValue))
		})
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		expected     bool
	}{
		{"True string", "true", false, true},
		{"False string", "false", true, false},
		{"1 (true)", "1", false, true},
		{"Invalid bool", "invalid", true, true},
		{"Non-existing env var", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			if tt.envValue != "" {
				os.Setenv("TEST_BOOL", tt.envValue)
			}
			assert.Equal(t, tt.expected, config.GetBoolEnv("TEST_BOOL", tt.defaultValue))
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{"Valid duration - seconds", "5s", 1 * time.Second, 5 * time.Second},
		{"Valid duration - combined", "1h30m", 1 * time.Second, 90 * time.Minute},
		{"Invalid duration", "invalid", 5 * time.Second, 5 * time.Second},
		{"Non-existing env var", "", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			if tt.envValue != "" {
				os.Setenv("TEST_DURATION", tt.envValue)
			}
			assert.Equal(t, tt.expected, config.GetDurationEnv("TEST_DURATION", tt.defaultValue))
		})
	}
}

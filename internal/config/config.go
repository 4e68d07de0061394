package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the recommendation service
type Config struct {
	Server    ServerConfig
	Artifacts ArtifactConfig
	Catalog   CatalogConfig
	Text      TextConfig
	Log       LogConfig
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr            string
	MaxConnections  int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	DefaultResults  int
	MaxResults      int
	QuickResults    int
}

// ArtifactConfig selects where the dataset and model artifacts are read from
type ArtifactConfig struct {
	Backend         string
	Dir             string
	S3Bucket        string
	S3Prefix        string
	AWSRegion       string
	HTTPBaseURL     string
	HTTPTimeout     time.Duration
	FeatureSpaceKey string
	MatrixKey       string
}

// CatalogConfig holds catalog source configuration
type CatalogConfig struct {
	Source              string
	CSVKey              string
	SQLitePath          string
	IngredientDelimiter string
	StepDelimiter       string
}

// TextConfig holds normalizer configuration
type TextConfig struct {
	StopwordsFile string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level        string
	Format       string
	ReportCaller bool
}

const (
	BackendFile = "file"
	BackendS3   = "s3"
	BackendHTTP = "http"

	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            GetStringEnv("SERVER_ADDR", ":8080"),
			MaxConnections:  GetIntEnv("SERVER_MAX_CONNECTIONS", 256),
			ReadTimeout:     GetDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    GetDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: GetDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
			DefaultResults:  GetIntEnv("SERVER_DEFAULT_RESULTS", 5),
			MaxResults:      GetIntEnv("SERVER_MAX_RESULTS", 10),
			QuickResults:    GetIntEnv("SERVER_QUICK_RESULTS", 10),
		},
		Artifacts: ArtifactConfig{
			Backend:         GetStringEnv("ARTIFACT_BACKEND", BackendFile),
			Dir:             GetStringEnv("ARTIFACT_DIR", "./data"),
			S3Bucket:        GetStringEnv("ARTIFACT_S3_BUCKET", ""),
			S3Prefix:        GetStringEnv("ARTIFACT_S3_PREFIX", ""),
			AWSRegion:       GetStringEnv("AWS_REGION", ""),
			HTTPBaseURL:     GetStringEnv("ARTIFACT_HTTP_URL", ""),
			HTTPTimeout:     GetDurationEnv("ARTIFACT_HTTP_TIMEOUT", 30*time.Second),
			FeatureSpaceKey: GetStringEnv("ARTIFACT_FEATURE_SPACE", "feature_space.json"),
			MatrixKey:       GetStringEnv("ARTIFACT_MATRIX", "tfidf_matrix.json"),
		},
		Catalog: CatalogConfig{
			Source:              GetStringEnv("CATALOG_SOURCE", SourceCSV),
			CSVKey:              GetStringEnv("CATALOG_CSV", "cleaned_recipes.csv"),
			SQLitePath:          GetStringEnv("CATALOG_SQLITE_PATH", "./data/recipes.db"),
			IngredientDelimiter: GetEscapedEnv("CATALOG_INGREDIENT_DELIMITER", ","),
			StepDelimiter:       GetEscapedEnv("CATALOG_STEP_DELIMITER", "\n"),
		},
		Text: TextConfig{
			StopwordsFile: GetStringEnv("TEXT_STOPWORDS_FILE", ""),
		},
		Log: LogConfig{
			Level:        GetStringEnv("LOG_LEVEL", "info"),
			Format:       GetStringEnv("LOG_FORMAT", "text"),
			ReportCaller: GetBoolEnv("LOG_REPORT_CALLER", false),
		},
	}
}

// LoadDotEnv loads variables from .env files without overriding ones
// already set. With no paths it reads ./.env and tolerates its absence.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	switch c.Artifacts.Backend {
	case BackendFile:
		if c.Artifacts.Dir == "" {
			return errors.New("ARTIFACT_DIR is required for the file backend")
		}
	case BackendS3:
		if c.Artifacts.S3Bucket == "" {
			return errors.New("ARTIFACT_S3_BUCKET is required for the s3 backend")
		}
	case BackendHTTP:
		if c.Artifacts.HTTPBaseURL == "" {
			return errors.New("ARTIFACT_HTTP_URL is required for the http backend")
		}
	default:
		return fmt.Errorf("unknown artifact backend %q", c.Artifacts.Backend)
	}

	switch c.Catalog.Source {
	case SourceCSV:
		if c.Catalog.CSVKey == "" {
			return errors.New("CATALOG_CSV is required for the csv source")
		}
	case SourceSQLite:
		if c.Catalog.SQLitePath == "" {
			return errors.New("CATALOG_SQLITE_PATH is required for the sqlite source")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}

	if c.Artifacts.FeatureSpaceKey == "" || c.Artifacts.MatrixKey == "" {
		return errors.New("artifact names must not be empty")
	}
	if c.Server.MaxConnections <= 0 {
		return fmt.Errorf("SERVER_MAX_CONNECTIONS must be positive, got %d", c.Server.MaxConnections)
	}
	if c.Server.MaxResults <= 0 {
		return fmt.Errorf("SERVER_MAX_RESULTS must be positive, got %d", c.Server.MaxResults)
	}
	if c.Server.DefaultResults <= 0 || c.Server.DefaultResults > c.Server.MaxResults {
		return fmt.Errorf("SERVER_DEFAULT_RESULTS must be in [1,%d], got %d", c.Server.MaxResults, c.Server.DefaultResults)
	}
	if c.Server.QuickResults <= 0 {
		return fmt.Errorf("SERVER_QUICK_RESULTS must be positive, got %d", c.Server.QuickResults)
	}
	return nil
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEscapedEnv reads a string that may contain Go escapes such as \n or \t.
func GetEscapedEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		if unquoted, err := strconv.Unquote(`"` + value + `"`); err == nil {
			return unquoted
		}
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

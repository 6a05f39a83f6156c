package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application-level configuration
type Config struct {
	// Input
	DataPath string `validate:"required"`

	// Analysis
	TopProducts           int `validate:"min=1"`
	ClusterMinSize        int `validate:"min=1"`
	ClusterSamples        int `validate:"min=0"`
	ClusterSampleProducts int `validate:"min=1"`
	Opportunities         int `validate:"min=1"`
	MaxOpportunityRank    int `validate:"min=1"`

	// Report sinks, each disabled when empty
	ReportCSVPath string
	DatabaseURL   string
	SQLitePath    string
	DBMaxRetries  int `validate:"min=1"`

	// Observability
	MetricsTextfile string
	LogLevel        string `validate:"oneof=debug info warn error"`
	LogFormat       string `validate:"oneof=console json"`
}

var validate = validator.New()

// Load reads configuration from a .env file (if present) and environment
// variables, falling back to defaults
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DataPath:              getEnv("DATA_PATH", "data/amazon-meta.txt"),
		TopProducts:           getEnvInt("TOP_PRODUCTS", 5),
		ClusterMinSize:        getEnvInt("CLUSTER_MIN_SIZE", 5),
		ClusterSamples:        getEnvInt("CLUSTER_SAMPLES", 3),
		ClusterSampleProducts: getEnvInt("CLUSTER_SAMPLE_PRODUCTS", 3),
		Opportunities:         getEnvInt("OPPORTUNITIES", 5),
		MaxOpportunityRank:    getEnvInt("MAX_OPPORTUNITY_RANK", 100000),
		ReportCSVPath:         getEnv("REPORT_CSV_PATH", ""),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		SQLitePath:            getEnv("SQLITE_PATH", ""),
		DBMaxRetries:          getEnvInt("DB_MAX_RETRIES", 3),
		MetricsTextfile:       getEnv("METRICS_TEXTFILE", ""),
		LogLevel:              strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:             strings.ToLower(getEnv("LOG_FORMAT", "console")),
	}
}

// Validate checks the struct tags and reports every failing field
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	DesiredRetention float64
	MaxIntervalDays  int
	DisableFuzz      bool
	ReviewBatchSize  int
	QuizSize         int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "marginalia.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		DesiredRetention: envFloatOr("DESIRED_RETENTION", 0.9),
		MaxIntervalDays:  envIntOr("MAX_INTERVAL_DAYS", 36500),
		DisableFuzz:      envBoolOr("DISABLE_FUZZ", false),
		ReviewBatchSize:  envIntOr("REVIEW_BATCH_SIZE", 20),
		QuizSize:         envIntOr("QUIZ_SIZE", 10),
	}
}

// Validate checks the configuration, aggregating every problem found.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q must be DEBUG, INFO, WARN or ERROR", c.LogLevel))
	}
	if c.DesiredRetention <= 0 || c.DesiredRetention > 1 {
		problems = append(problems, fmt.Sprintf("DESIRED_RETENTION %v must be in (0, 1]", c.DesiredRetention))
	}
	if c.MaxIntervalDays < 1 {
		problems = append(problems, fmt.Sprintf("MAX_INTERVAL_DAYS %d must be at least 1", c.MaxIntervalDays))
	}
	if c.ReviewBatchSize < 1 {
		problems = append(problems, fmt.Sprintf("REVIEW_BATCH_SIZE %d must be at least 1", c.ReviewBatchSize))
	}
	if c.QuizSize < 1 {
		problems = append(problems, fmt.Sprintf("QUIZ_SIZE %d must be at least 1", c.QuizSize))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}

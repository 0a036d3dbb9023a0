package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugompham/marginalia/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:             ":8080",
		DBPath:           "test.db",
		LogLevel:         "INFO",
		DesiredRetention: 0.9,
		MaxIntervalDays:  36500,
		ReviewBatchSize:  20,
		QuizSize:         10,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR")
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "VERBOSE"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestValidate_RetentionOutOfRange(t *testing.T) {
	for _, retention := range []float64{0, -0.1, 1.5} {
		cfg := validConfig()
		cfg.DesiredRetention = retention

		err := cfg.Validate()
		assert.Error(t, err, "retention %v should be rejected", retention)
	}
}

func TestValidate_AggregatesProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""
	cfg.DBPath = ""
	cfg.QuizSize = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR")
	assert.Contains(t, err.Error(), "DB_PATH")
	assert.Contains(t, err.Error(), "QUIZ_SIZE")
}

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "marginalia.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.InDelta(t, 0.9, cfg.DesiredRetention, 1e-9)
	assert.Equal(t, 36500, cfg.MaxIntervalDays)
	assert.False(t, cfg.DisableFuzz)
	assert.Equal(t, 20, cfg.ReviewBatchSize)
	assert.Equal(t, 10, cfg.QuizSize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("DESIRED_RETENTION", "0.85")
	t.Setenv("DISABLE_FUZZ", "true")
	t.Setenv("REVIEW_BATCH_SIZE", "5")

	cfg := config.Load()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.InDelta(t, 0.85, cfg.DesiredRetention, 1e-9)
	assert.True(t, cfg.DisableFuzz)
	assert.Equal(t, 5, cfg.ReviewBatchSize)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REVIEW_BATCH_SIZE", "lots")
	t.Setenv("DESIRED_RETENTION", "high")

	cfg := config.Load()

	assert.Equal(t, 20, cfg.ReviewBatchSize)
	assert.InDelta(t, 0.9, cfg.DesiredRetention, 1e-9)
}

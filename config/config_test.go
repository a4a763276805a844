package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"INPUT_PATH", "CSV_OUTPUT_PATH", "STORE_RESULTS", "MAX_RETRIES", "LOG_LEVEL", "POSTGRES_HOST"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "", cfg.InputPath)
	assert.Equal(t, "./output/evaluations.csv", cfg.CSVOutputPath)
	assert.False(t, cfg.StoreResults)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "localhost", cfg.PostgresHost)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("INPUT_PATH", "customers.csv")
	t.Setenv("STORE_RESULTS", "true")
	t.Setenv("MAX_RETRIES", "7")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "customers.csv", cfg.InputPath)
	assert.True(t, cfg.StoreResults)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("MAX_RETRIES", "many")
	t.Setenv("STORE_RESULTS", "perhaps")

	cfg := Load()
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.False(t, cfg.StoreResults)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "refunds",
		PostgresSSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=refunds sslmode=disable", cfg.DSN())
}

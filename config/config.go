package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	InputPath      string
	CSVOutputPath  string
	HTMLOutputPath string
	PDFOutputPath  string
	ChromeBin      string

	StoreResults bool
	MaxRetries   int
	LogLevel     string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "refunds"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "refunds123"),
		PostgresDB:       getEnv("POSTGRES_DB", "refunds_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		InputPath:      getEnv("INPUT_PATH", ""),
		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/evaluations.csv"),
		HTMLOutputPath: getEnv("HTML_OUTPUT_PATH", "./output/evaluations.html"),
		PDFOutputPath:  getEnv("PDF_OUTPUT_PATH", ""),
		ChromeBin:      getEnv("CHROME_BIN", ""),

		StoreResults: getEnvBool("STORE_RESULTS", false),
		MaxRetries:   getEnvInt("MAX_RETRIES", 3),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

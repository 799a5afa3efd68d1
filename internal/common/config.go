package common

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	OCR       OCRConfig
	Converter ConverterConfig
	Ledger    LedgerConfig
	Server    ServerConfig
	Batch     BatchConfig
	Log       LogConfig
}

// OCRConfig holds text acquisition tooling configuration
type OCRConfig struct {
	Pdftotext   string
	Pdftoppm    string
	Tesseract   string
	Lang        string
	DPI         int
	PSM         int
	MaxPages    int
	TessdataDir string
}

// ConverterConfig holds the legacy document converter configuration
type ConverterConfig struct {
	Binary  string
	WorkDir string
	Timeout time.Duration
}

// LedgerConfig holds duplicate ledger configuration
type LedgerConfig struct {
	Driver          string // csv | sqlite | postgres
	Path            string
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds daemon configuration
type ServerConfig struct {
	GRPCAddr     string
	MetricsAddr  string
	DocumentRoot string
}

// BatchConfig holds worker pool configuration
type BatchConfig struct {
	Workers         int
	QueueSize       int
	DocumentTimeout time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from environment variables, reading a
// .env file first when one exists.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// a malformed .env should not stop the process; values fall back to defaults
		_, _ = os.Stderr.WriteString("warning: could not load .env: " + err.Error() + "\n")
	}

	return &Config{
		OCR: OCRConfig{
			Pdftotext:   getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Lang:        getEnv("OCR_LANG", "eng"),
			DPI:         getEnvAsInt("OCR_DPI", 400),
			PSM:         getEnvAsInt("OCR_PSM", 6),
			MaxPages:    getEnvAsInt("OCR_MAX_PAGES", 0),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
		Converter: ConverterConfig{
			Binary:  getEnv("CONVERTER_BIN", "libreoffice"),
			WorkDir: getEnv("CONVERTER_WORKDIR", ""),
			Timeout: getEnvAsDuration("CONVERTER_TIMEOUT", 2*time.Minute),
		},
		Ledger: LedgerConfig{
			Driver:          strings.ToLower(getEnv("LEDGER_DRIVER", "csv")),
			Path:            getEnv("LEDGER_PATH", "invoices.csv"),
			DSN:             getEnv("LEDGER_DSN", ""),
			MaxConns:        getEnvAsInt32("LEDGER_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("LEDGER_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("LEDGER_MAX_CONN_LIFETIME", 30*time.Minute),
			DialTimeout:     getEnvAsDuration("LEDGER_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			GRPCAddr:     getEnv("GRPC_ADDR", ":8080"),
			MetricsAddr:  getEnv("METRICS_ADDR", ":9090"),
			DocumentRoot: getEnv("DOCUMENT_ROOT", "."),
		},
		Batch: BatchConfig{
			Workers:         getEnvAsInt("BATCH_WORKERS", 4),
			QueueSize:       getEnvAsInt("BATCH_QUEUE_SIZE", 256),
			DocumentTimeout: getEnvAsDuration("BATCH_DOCUMENT_TIMEOUT", 3*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Ledger.Driver {
	case "csv", "sqlite":
		if c.Ledger.Path == "" {
			return NewAppError(CodeConfigError, "LEDGER_PATH is required for the "+c.Ledger.Driver+" ledger", ErrInvalidInput)
		}
	case "postgres":
		if c.Ledger.DSN == "" {
			return NewAppError(CodeConfigError, "LEDGER_DSN is required for the postgres ledger", ErrInvalidInput)
		}
	default:
		return NewAppError(CodeConfigError, "LEDGER_DRIVER must be one of csv, sqlite, postgres", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError(CodeConfigError, "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.Batch.Workers <= 0 {
		return NewAppError(CodeConfigError, "BATCH_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}

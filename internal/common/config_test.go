package common

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()
	assert.Equal(t, "pdftotext", cfg.OCR.Pdftotext)
	assert.Equal(t, 400, cfg.OCR.DPI)
	assert.Equal(t, 6, cfg.OCR.PSM)
	assert.Equal(t, "csv", cfg.Ledger.Driver)
	assert.Equal(t, "invoices.csv", cfg.Ledger.Path)
	assert.Equal(t, int32(10), cfg.Ledger.MaxConns)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 3*time.Minute, cfg.Batch.DocumentTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LEDGER_DRIVER", "Postgres")
	t.Setenv("LEDGER_DSN", "postgres://localhost/ledger")
	t.Setenv("LEDGER_MAX_CONNS", "3")
	t.Setenv("OCR_DPI", "not-a-number")
	t.Setenv("CONVERTER_TIMEOUT", "45s")
	t.Setenv("DOCUMENT_ROOT", "/srv/invoices")

	cfg := LoadConfig()
	assert.Equal(t, "postgres", cfg.Ledger.Driver)
	assert.Equal(t, int32(3), cfg.Ledger.MaxConns)
	assert.Equal(t, 400, cfg.OCR.DPI, "unparseable values fall back")
	assert.Equal(t, 45*time.Second, cfg.Converter.Timeout)
	assert.Equal(t, "/srv/invoices", cfg.Server.DocumentRoot)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
		want string
	}{
		{"postgres without dsn", func(c *Config) { c.Ledger.Driver = "postgres" }, "LEDGER_DSN"},
		{"sqlite without path", func(c *Config) { c.Ledger.Driver, c.Ledger.Path = "sqlite", "" }, "LEDGER_PATH"},
		{"unknown driver", func(c *Config) { c.Ledger.Driver = "mongo" }, "LEDGER_DRIVER"},
		{"zero dpi", func(c *Config) { c.OCR.DPI = 0 }, "OCR_DPI"},
		{"no workers", func(c *Config) { c.Batch.Workers = 0 }, "BATCH_WORKERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mut(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			code, ok := CodeOf(err)
			assert.True(t, ok)
			assert.Equal(t, CodeConfigError, code)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "warn", "json").Info("hidden")
	assert.Zero(t, buf.Len())

	NewLogger(&buf, "debug", "text").Debug("shown", "k", "v")
	assert.True(t, strings.Contains(buf.String(), "msg=shown"))

	assert.Equal(t, slog.LevelError, ParseLevel(" ERROR "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

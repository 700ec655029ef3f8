package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "KSh", cfg.Invoice.CurrencySymbol)
	assert.Equal(t, "invoiceCount", cfg.Invoice.CounterKey)
	assert.Equal(t, 7, cfg.Invoice.DueDays)
	assert.Equal(t, "A4", cfg.Export.PageFormat)
	assert.Equal(t, 10.0, cfg.Export.MarginMM)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
invoice:
  due_days: 14
  payment_method: bank
export:
  margin_mm: 12
session:
  ttl: 2h
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("GATEWAY_API_KEY", "secret")
	t.Setenv("SMS_API_URL", "https://gateway.example.com/sms")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 14, cfg.Invoice.DueDays)
	assert.Equal(t, 12.0, cfg.Export.MarginMM)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "secret", cfg.Gateway.APIKey)
	assert.Equal(t, "https://gateway.example.com/sms", cfg.Gateway.SMSURL)

	cc := cfg.ToContainerConfig()
	assert.Equal(t, entity.PaymentBank, cc.Invoice.PaymentMethod)
	assert.Equal(t, "0.16", cc.Invoice.TaxRate.String())
	assert.Equal(t, 2.0, cc.Export.CaptureScale)
	assert.Equal(t, int64(5<<20), cc.Session.MaxAttachmentBytes)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"database", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"locale", func(c *Config) { c.Invoice.Locale = "not a locale!" }, "invoice.locale"},
		{"payment method", func(c *Config) { c.Invoice.PaymentMethod = "cheque" }, "invoice.payment_method"},
		{"tax rate", func(c *Config) { c.Invoice.TaxRate = "-0.1" }, "invoice.tax_rate"},
		{"ttl", func(c *Config) { c.Session.TTL = 0 }, "session.ttl"},
		{"attachment", func(c *Config) { c.Attachment.MaxBytes = 0 }, "attachment.max_bytes"},
		{"dpi", func(c *Config) { c.Export.CaptureDPI = 0 }, "export.capture_dpi"},
		{"queue", func(c *Config) { c.Worker.QueueSize = 0 }, "worker.queue_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

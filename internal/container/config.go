// Package container provides dependency injection and lifecycle management
// for the invoice studio service.
package container

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/money"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	Database DatabaseConfig
	Invoice  InvoiceConfig
	Session  SessionConfig
	Export   ExportConfig
	Gateway  GatewayConfig
	Server   ServerConfig
	Worker   WorkerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// InvoiceConfig holds the defaults applied to new invoices.
type InvoiceConfig struct {
	CurrencySymbol string
	Locale         language.Tag
	CounterKey     string
	DueDays        int
	PaymentMethod  entity.PaymentMethod
	TaxRate        decimal.Decimal
}

// SessionConfig holds session lifetime and upload bounds.
type SessionConfig struct {
	TTL                time.Duration
	ReapInterval       time.Duration
	MaxAttachmentBytes int64
}

// ExportConfig holds capture and pagination settings.
type ExportConfig struct {
	// PageFormat is a gofpdf page size name such as "A4"
	PageFormat   string
	MarginMM     float64
	CaptureScale float64
	SurfaceWidth float64

	// ArchiveDir receives a copy of every export; empty disables archiving
	ArchiveDir string
}

// GatewayConfig holds the outbound collaborator endpoints.
type GatewayConfig struct {
	SMSURL        string
	EmailURL      string
	MpesaURL      string
	APIKey        string
	PublicBaseURL string
	Timeout       time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Mode         string
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	QueueSize   int
	Concurrency int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:         "data/invoices.db",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Invoice: InvoiceConfig{
			CurrencySymbol: "KSh",
			Locale:         language.MustParse("en-KE"),
			CounterKey:     "invoiceCount",
			DueDays:        7,
			PaymentMethod:  entity.PaymentMpesa,
			TaxRate:        money.StandardTaxRate,
		},
		Session: SessionConfig{
			TTL:                24 * time.Hour,
			ReapInterval:       10 * time.Minute,
			MaxAttachmentBytes: 5 << 20,
		},
		Export: ExportConfig{
			PageFormat:   "A4",
			MarginMM:     10,
			CaptureScale: 2,
			SurfaceWidth: 595.28,
			ArchiveDir:   "data/exports",
		},
		Gateway: GatewayConfig{
			PublicBaseURL: "http://localhost:8080",
			Timeout:       15 * time.Second,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			Mode:         "release",
		},
		Worker: WorkerConfig{
			QueueSize:   64,
			Concurrency: 2,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Invoice.CounterKey == "" {
		return fmt.Errorf("invoice.counter_key is required")
	}
	if c.Session.TTL <= 0 || c.Session.ReapInterval <= 0 {
		return fmt.Errorf("session ttl and reap interval must be positive")
	}
	if c.Export.CaptureScale <= 0 {
		return fmt.Errorf("export.capture_scale must be positive")
	}
	if c.Worker.QueueSize <= 0 || c.Worker.Concurrency <= 0 {
		return fmt.Errorf("worker queue size and concurrency must be positive")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Invoice    InvoiceConfig    `mapstructure:"invoice"`
	Session    SessionConfig    `mapstructure:"session"`
	Attachment AttachmentConfig `mapstructure:"attachment"`
	Export     ExportConfig     `mapstructure:"export"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Mode         string        `mapstructure:"mode"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// InvoiceConfig holds invoice defaults
type InvoiceConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Locale         string `mapstructure:"locale"`
	CounterKey     string `mapstructure:"counter_key"`
	DueDays        int    `mapstructure:"due_days"`
	PaymentMethod  string `mapstructure:"payment_method"`
	TaxRate        string `mapstructure:"tax_rate"`
}

// SessionConfig holds editing session lifetime settings
type SessionConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	ReapInterval time.Duration `mapstructure:"reap_interval"`
}

// AttachmentConfig bounds uploaded images
type AttachmentConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// ExportConfig holds PDF export settings
type ExportConfig struct {
	PageFormat   string  `mapstructure:"page_format"`
	MarginMM     float64 `mapstructure:"margin_mm"`
	CaptureDPI   float64 `mapstructure:"capture_dpi"`
	SurfaceWidth float64 `mapstructure:"surface_width"`
	ArchiveDir   string  `mapstructure:"archive_dir"`
}

// GatewayConfig holds the outbound collaborator endpoints
type GatewayConfig struct {
	SMSURL        string        `mapstructure:"sms_url"`
	EmailURL      string        `mapstructure:"email_url"`
	MpesaURL      string        `mapstructure:"mpesa_url"`
	APIKey        string        `mapstructure:"api_key"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// WorkerConfig holds background worker settings
type WorkerConfig struct {
	QueueSize   int `mapstructure:"queue_size"`
	Concurrency int `mapstructure:"concurrency"`
}

// Load loads configuration from an optional YAML file and environment
// variables. An empty configPath uses defaults and the environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.mode", "release")

	// Database defaults
	v.SetDefault("database.path", "data/invoices.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 0)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	// Invoice defaults
	v.SetDefault("invoice.currency_symbol", "KSh")
	v.SetDefault("invoice.locale", "en-KE")
	v.SetDefault("invoice.counter_key", "invoiceCount")
	v.SetDefault("invoice.due_days", 7)
	v.SetDefault("invoice.payment_method", string(entity.PaymentMpesa))
	v.SetDefault("invoice.tax_rate", "0.16")

	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.reap_interval", 10*time.Minute)

	v.SetDefault("attachment.max_bytes", 5<<20)

	// Export defaults
	v.SetDefault("export.page_format", "A4")
	v.SetDefault("export.margin_mm", 10.0)
	v.SetDefault("export.capture_dpi", 144.0)
	v.SetDefault("export.surface_width", 595.28)
	v.SetDefault("export.archive_dir", "data/exports")

	v.SetDefault("gateway.sms_url", "http://localhost:3000/api/send-sms")
	v.SetDefault("gateway.email_url", "http://localhost:3000/api/send-email")
	v.SetDefault("gateway.mpesa_url", "http://localhost:3000/api/mpesa-payment")
	v.SetDefault("gateway.public_base_url", "http://localhost:8080")
	v.SetDefault("gateway.timeout", 15*time.Second)

	v.SetDefault("worker.queue_size", 64)
	v.SetDefault("worker.concurrency", 2)
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	// Sensitive credentials from environment
	_ = v.BindEnv("gateway.api_key", "GATEWAY_API_KEY")
	_ = v.BindEnv("gateway.sms_url", "SMS_API_URL")
	_ = v.BindEnv("gateway.email_url", "EMAIL_API_URL")
	_ = v.BindEnv("gateway.mpesa_url", "MPESA_API_URL")
	_ = v.BindEnv("gateway.public_base_url", "PUBLIC_BASE_URL")
	_ = v.BindEnv("database.path", "DATABASE_PATH")
	_ = v.BindEnv("server.port", "PORT")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}

	if c.Invoice.CurrencySymbol == "" {
		return errors.New("invoice.currency_symbol is required")
	}
	if _, err := language.Parse(c.Invoice.Locale); err != nil {
		return fmt.Errorf("invoice.locale: %w", err)
	}
	if c.Invoice.CounterKey == "" {
		return errors.New("invoice.counter_key is required")
	}
	if c.Invoice.DueDays < 0 {
		return fmt.Errorf("invoice.due_days must not be negative, got %d", c.Invoice.DueDays)
	}
	if _, err := entity.ParsePaymentMethod(c.Invoice.PaymentMethod); err != nil {
		return fmt.Errorf("invoice.payment_method: %w", err)
	}

	if rate, err := decimal.NewFromString(c.Invoice.TaxRate); err != nil || rate.IsNegative() {
		return fmt.Errorf("invoice.tax_rate %q is not a non-negative decimal", c.Invoice.TaxRate)
	}

	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if c.Session.ReapInterval <= 0 {
		return errors.New("session.reap_interval must be positive")
	}
	if c.Attachment.MaxBytes <= 0 {
		return errors.New("attachment.max_bytes must be positive")
	}

	if c.Export.MarginMM < 0 {
		return fmt.Errorf("export.margin_mm must not be negative, got %v", c.Export.MarginMM)
	}
	if c.Export.CaptureDPI <= 0 {
		return errors.New("export.capture_dpi must be positive")
	}
	if c.Export.SurfaceWidth <= 0 {
		return errors.New("export.surface_width must be positive")
	}

	if c.Worker.QueueSize <= 0 {
		return errors.New("worker.queue_size must be positive")
	}
	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be positive")
	}

	return nil
}

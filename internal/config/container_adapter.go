package config

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/garyjia/invoice-studio/internal/container"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
)

// ToContainerConfig converts the application Config to a container.Config.
// Call it only on a Config that passed Validate.
func (c *Config) ToContainerConfig() *container.Config {
	locale, _ := language.Parse(c.Invoice.Locale)
	method, _ := entity.ParsePaymentMethod(c.Invoice.PaymentMethod)
	taxRate, _ := decimal.NewFromString(c.Invoice.TaxRate)

	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		Invoice: container.InvoiceConfig{
			CurrencySymbol: c.Invoice.CurrencySymbol,
			Locale:         locale,
			CounterKey:     c.Invoice.CounterKey,
			DueDays:        c.Invoice.DueDays,
			PaymentMethod:  method,
			TaxRate:        taxRate,
		},
		Session: container.SessionConfig{
			TTL:                c.Session.TTL,
			ReapInterval:       c.Session.ReapInterval,
			MaxAttachmentBytes: c.Attachment.MaxBytes,
		},
		Export: container.ExportConfig{
			PageFormat:   c.Export.PageFormat,
			MarginMM:     c.Export.MarginMM,
			CaptureScale: c.Export.CaptureDPI / 72,
			SurfaceWidth: c.Export.SurfaceWidth,
			ArchiveDir:   c.Export.ArchiveDir,
		},
		Gateway: container.GatewayConfig{
			SMSURL:        c.Gateway.SMSURL,
			EmailURL:      c.Gateway.EmailURL,
			MpesaURL:      c.Gateway.MpesaURL,
			APIKey:        c.Gateway.APIKey,
			PublicBaseURL: c.Gateway.PublicBaseURL,
			Timeout:       c.Gateway.Timeout,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
			Mode:         c.Server.Mode,
		},
		Worker: container.WorkerConfig{
			QueueSize:   c.Worker.QueueSize,
			Concurrency: c.Worker.Concurrency,
		},
	}
}

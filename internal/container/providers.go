package container

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/dispatcher"
	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/application/service"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/event"
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
	"github.com/garyjia/invoice-studio/internal/domain/money"
	"github.com/garyjia/invoice-studio/internal/domain/template"
	"github.com/garyjia/invoice-studio/internal/domain/workflow"
	"github.com/garyjia/invoice-studio/internal/infrastructure/external/gateway"
	"github.com/garyjia/invoice-studio/internal/infrastructure/pdf"
	"github.com/garyjia/invoice-studio/internal/infrastructure/persistence/repository"
	"github.com/garyjia/invoice-studio/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/invoice-studio/internal/infrastructure/storage"
	"github.com/garyjia/invoice-studio/internal/infrastructure/worker"
	"github.com/garyjia/invoice-studio/internal/render"
	"github.com/garyjia/invoice-studio/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	Raw            *database.DB
	TransactionMgr *sqlite.DB
}

// RepositoryBundle groups the stores backed by the database.
type RepositoryBundle struct {
	Sequences   *repository.SequenceRepository
	Preferences *repository.PreferenceRepository
}

// RenderBundle holds the document pipeline: renderer, surfaces and paginator.
type RenderBundle struct {
	Catalog   *template.Catalog
	Renderer  *render.Renderer
	Surfaces  port.SurfaceFactory
	Paginator port.Paginator
	Inspector port.ArtifactInspector
}

// ServiceDeps holds the dependencies of ProvideServices.
type ServiceDeps struct {
	Config     *Config
	Repos      *RepositoryBundle
	Render     *RenderBundle
	Archive    port.FileStorage
	Dispatcher port.Dispatcher
	Logger     *zap.Logger
}

// ProvideDatabase opens the database and applies the embedded migrations.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		Raw:            db,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates the counter and preference stores.
func ProvideRepositories(db *sqlite.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	return &RepositoryBundle{
		Sequences:   repository.NewSequenceRepository(db, logger),
		Preferences: repository.NewPreferenceRepository(db, logger),
	}, nil
}

// ProvideRender creates the template catalog and the PDF-backed surfaces.
func ProvideRender(invoiceCfg *InvoiceConfig, exportCfg *ExportConfig, logger *zap.Logger) *RenderBundle {
	return &RenderBundle{
		Catalog:   template.Builtin(),
		Renderer:  render.NewRenderer(money.NewFormatter(invoiceCfg.CurrencySymbol, invoiceCfg.Locale)),
		Surfaces:  pdf.NewSurfaceFactory(exportCfg.SurfaceWidth, logger),
		Paginator: pdf.NewPaginator(exportCfg.PageFormat, logger),
		Inspector: pdf.NewInspector(),
	}
}

// ProvideArchive creates the export archive. It returns nil when archiving
// is disabled.
func ProvideArchive(cfg *ExportConfig, logger *zap.Logger) *storage.LocalFileStorage {
	if cfg.ArchiveDir == "" {
		return nil
	}
	return storage.NewLocalFileStorage(cfg.ArchiveDir, logger)
}

// ProvideGateway creates the HTTP client for the SMS, email and M-Pesa endpoints.
func ProvideGateway(cfg *GatewayConfig, logger *zap.Logger) *gateway.Client {
	return gateway.NewClient(gateway.Config{
		SMSURL:   cfg.SMSURL,
		EmailURL: cfg.EmailURL,
		MpesaURL: cfg.MpesaURL,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout,
	}, &http.Client{Timeout: cfg.Timeout}, logger)
}

// ProvideEvents creates the session event dispatcher.
func ProvideEvents(logger *zap.Logger) dispatcher.Dispatcher {
	return dispatcher.NewDispatcher(&zapLoggerAdapter{logger: logger})
}

// ProvideOutboundWorker creates the fire-and-forget delivery worker. Failed
// deliveries are published as outbound.failed events.
func ProvideOutboundWorker(cfg *WorkerConfig, gw *gateway.Client, events dispatcher.Dispatcher, logger *zap.Logger) *worker.OutboundWorker {
	onDone := func(ctx context.Context, job entity.Outbound, err error) {
		if err == nil {
			return
		}
		events.DispatchAsync(ctx, event.NewEvent(event.TypeOutboundFailed, job.SessionID, job.InvoiceNumber, map[string]any{
			event.KeyKind:  job.Kind,
			event.KeyError: err.Error(),
		}))
	}

	return worker.NewOutboundWorker(worker.OutboundConfig{
		QueueSize:   cfg.QueueSize,
		Concurrency: cfg.Concurrency,
	}, gw, gw, gw, onDone, logger)
}

// SubscribeHandlers registers the handlers that react to session events.
// A failed M-Pesa push moves the session's payment to failed.
func SubscribeHandlers(events dispatcher.Dispatcher, services *ServiceBundle) {
	events.Subscribe(event.TypeOutboundFailed, "mark-payment-failed", func(ctx context.Context, evt *event.Event) error {
		if evt.String(event.KeyKind) != entity.OutboundMpesa {
			return nil
		}
		if _, err := services.Payments.UpdateStatus(ctx, evt.SessionID, workflow.TriggerMarkFailed); err != nil {
			return fmt.Errorf("mark payment failed for session %s: %w", evt.SessionID, err)
		}
		return nil
	})
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Config == nil || deps.Repos == nil || deps.Render == nil {
		return nil, fmt.Errorf("service dependencies are incomplete")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}

	cfg := deps.Config
	log := &zapLoggerAdapter{logger: deps.Logger}

	numberer := invoice.NewNumberer(deps.Repos.Sequences, cfg.Invoice.CounterKey, nil)
	sessions := service.NewSessionService(
		numberer,
		deps.Render.Catalog,
		deps.Render.Renderer,
		deps.Render.Surfaces,
		service.SessionConfig{
			TaxRate:            cfg.Invoice.TaxRate,
			DueDays:            cfg.Invoice.DueDays,
			PaymentMethod:      cfg.Invoice.PaymentMethod,
			TTL:                cfg.Session.TTL,
			MaxAttachmentBytes: cfg.Session.MaxAttachmentBytes,
		},
		log,
	)

	return &ServiceBundle{
		Sessions: sessions,
		Export: service.NewExportService(
			sessions,
			deps.Render.Paginator,
			deps.Render.Inspector,
			deps.Archive,
			service.ExportConfig{
				CaptureScale: cfg.Export.CaptureScale,
				MarginMM:     cfg.Export.MarginMM,
				Archive:      deps.Archive != nil,
			},
			log,
		),
		Notifications: service.NewNotificationService(sessions, deps.Dispatcher, cfg.Gateway.PublicBaseURL, log),
		Payments:      service.NewPaymentService(sessions, deps.Dispatcher, log),
		Backup:        service.NewBackupService(sessions, nil, log),
		Theme:         service.NewThemeService(deps.Repos.Preferences, log),
	}, nil
}

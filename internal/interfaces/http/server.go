// Package http is the HTTP adapter of the invoice editor: the editor page,
// htmx preview fragments and the JSON API over the application services.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-studio/internal/application/service"
	"github.com/garyjia/invoice-studio/internal/domain/template"
	"github.com/garyjia/invoice-studio/internal/infrastructure/storage"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ArchiveStore lists and reads archived PDF exports
type ArchiveStore interface {
	List(ctx context.Context) ([]storage.Entry, error)
	Read(ctx context.Context, path string) ([]byte, error)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
	Mode           string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxUploadBytes: 5 << 20,
		Mode:           gin.ReleaseMode,
	}
}

// Services bundles the application services the handlers call
type Services struct {
	Sessions      service.SessionService
	Export        service.ExportService
	Notifications service.NotificationService
	Payments      service.PaymentService
	Backup        service.BackupService
	Theme         service.ThemeService
	Templates     *template.Catalog
	Archive       ArchiveStore
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger Logger) *Server {
	if config.Mode == "" {
		config.Mode = gin.ReleaseMode
	}
	gin.SetMode(config.Mode)

	router := gin.New()
	router.MaxMultipartMemory = config.MaxUploadBytes

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.config.MaxUploadBytes, s.logger)

	s.router.GET("/health", h.HealthCheck)

	// Pages
	s.router.GET("/", h.NewSessionPage)
	s.router.GET("/sessions/:id", h.EditorPage)
	s.router.GET("/sessions/:id/print", h.PrintPage)
	s.router.GET("/invoice/:number", h.InvoiceByNumber)

	api := s.router.Group("/api")
	{
		api.GET("/templates", h.ListTemplates)
		api.GET("/quick-services", h.ListQuickServices)

		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions", h.ListSessions)
		api.GET("/sessions/:id", h.GetSession)
		api.DELETE("/sessions/:id", h.DeleteSession)

		api.POST("/sessions/:id/fields", h.ApplyFields)
		api.PUT("/sessions/:id/template", h.SelectTemplate)
		api.POST("/sessions/:id/quick-services/:sid", h.ApplyQuickService)
		api.POST("/sessions/:id/attachments/:field", h.UploadAttachment)
		api.DELETE("/sessions/:id/attachments/:field", h.RemoveAttachment)
		api.GET("/sessions/:id/preview", h.Preview)
		api.GET("/sessions/:id/document", h.Document)
		api.GET("/sessions/:id/export", h.Export)
		api.POST("/sessions/:id/export", h.Export)

		api.POST("/sessions/:id/notifications/sms", h.SendSMS)
		api.POST("/sessions/:id/notifications/email", h.SendEmail)
		api.POST("/sessions/:id/payments/mpesa", h.InitiateMpesa)
		api.POST("/sessions/:id/payments/status", h.UpdatePaymentStatus)

		api.GET("/backup", h.Backup)
		api.GET("/theme", h.GetTheme)
		api.PUT("/theme", h.SetTheme)

		api.GET("/archive", h.ListArchive)
		api.GET("/archive/*path", h.ReadArchive)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
)

// OutboundConfig holds configuration for the outbound worker
type OutboundConfig struct {
	QueueSize   int
	Concurrency int
	CallTimeout time.Duration
}

// DefaultOutboundConfig returns default configuration
func DefaultOutboundConfig() OutboundConfig {
	return OutboundConfig{QueueSize: 64, Concurrency: 2, CallTimeout: 15 * time.Second}
}

// DeliveryHook is told the outcome of every delivery attempt; err is nil on
// success. It runs on the worker goroutine.
type DeliveryHook func(ctx context.Context, job entity.Outbound, err error)

// OutboundStats counts delivery outcomes
type OutboundStats struct {
	Queued int   `json:"queued"`
	Sent   int64 `json:"sent"`
	Failed int64 `json:"failed"`
}

// OutboundWorker delivers queued SMS, email and M-Pesa calls. Delivery is
// attempted once; the outcome is logged and reported to the hook only.
type OutboundWorker struct {
	cfg     OutboundConfig
	sms     port.SMSSender
	email   port.EmailSender
	payment port.PaymentGateway
	onDone  DeliveryHook
	logger  *zap.Logger

	queue  chan entity.Outbound
	sent   atomic.Int64
	failed atomic.Int64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOutboundWorker creates a new outbound worker. onDone may be nil.
func NewOutboundWorker(
	cfg OutboundConfig,
	sms port.SMSSender,
	email port.EmailSender,
	payment port.PaymentGateway,
	onDone DeliveryHook,
	logger *zap.Logger,
) *OutboundWorker {
	def := DefaultOutboundConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = def.CallTimeout
	}
	return &OutboundWorker{
		cfg:     cfg,
		sms:     sms,
		email:   email,
		payment: payment,
		onDone:  onDone,
		logger:  logger,
		queue:   make(chan entity.Outbound, cfg.QueueSize),
	}
}

// Name returns the worker name
func (w *OutboundWorker) Name() string { return "outbound" }

// Enqueue buffers a job without blocking
func (w *OutboundWorker) Enqueue(job entity.Outbound) error {
	select {
	case w.queue <- job:
		return nil
	default:
		w.logger.Error("Outbound queue full, dropping job",
			zap.String("kind", job.Kind),
			zap.String("invoice_number", job.InvoiceNumber))
		return port.ErrQueueFull
	}
}

// Start launches the delivery goroutines
func (w *OutboundWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("worker already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	for i := 0; i < w.cfg.Concurrency; i++ {
		w.wg.Add(1)
		go w.loop(runCtx)
	}
	return nil
}

// Stop cancels delivery and waits for in-flight calls to return. Jobs still
// queued are discarded.
func (w *OutboundWorker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.cancel()
	w.mu.Unlock()

	w.wg.Wait()
	if n := len(w.queue); n > 0 {
		w.logger.Info("Discarding undelivered outbound jobs", zap.Int("count", n))
	}
	return nil
}

// Stats returns delivery counters
func (w *OutboundWorker) Stats() OutboundStats {
	return OutboundStats{Queued: len(w.queue), Sent: w.sent.Load(), Failed: w.failed.Load()}
}

func (w *OutboundWorker) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.queue:
			w.deliver(ctx, job)
		}
	}
}

func (w *OutboundWorker) deliver(ctx context.Context, job entity.Outbound) {
	callCtx, cancel := context.WithTimeout(ctx, w.cfg.CallTimeout)
	defer cancel()

	err := w.call(callCtx, job)
	if err == nil {
		w.sent.Add(1)
		w.logger.Info("Outbound delivered",
			zap.String("kind", job.Kind),
			zap.String("invoice_number", job.InvoiceNumber))
	} else {
		w.failed.Add(1)
		w.logger.Error("Outbound delivery failed",
			zap.String("kind", job.Kind),
			zap.String("session_id", job.SessionID),
			zap.String("invoice_number", job.InvoiceNumber),
			zap.Error(err))
	}

	if w.onDone != nil {
		w.onDone(ctx, job, err)
	}
}

func (w *OutboundWorker) call(ctx context.Context, job entity.Outbound) error {
	switch p := job.Payload.(type) {
	case entity.SMSMessage:
		return w.sms.SendSMS(ctx, p)
	case entity.EmailMessage:
		return w.email.SendEmail(ctx, p)
	case entity.PaymentRequest:
		return w.payment.InitiatePush(ctx, p)
	default:
		return fmt.Errorf("unsupported payload %T for %s", job.Payload, job.Kind)
	}
}

var (
	_ port.Dispatcher = (*OutboundWorker)(nil)
	_ Worker          = (*OutboundWorker)(nil)
)

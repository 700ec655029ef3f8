package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
)

// NotificationService sends invoices to clients by SMS or email. Messages
// are queued; delivery is never confirmed and failures do not change the
// invoice.
type NotificationService interface {
	SendSMS(ctx context.Context, sessionID, phone string) (*entity.Outbound, error)
	SendEmail(ctx context.Context, sessionID, email string) (*entity.Outbound, error)
}

type notificationServiceImpl struct {
	sessions   SessionService
	dispatcher port.Dispatcher
	publicURL  string
	logger     Logger
}

// NewNotificationService creates a new NotificationService. publicURL is the
// base of the invoice link sent in SMS messages.
func NewNotificationService(sessions SessionService, dispatcher port.Dispatcher, publicURL string, logger Logger) NotificationService {
	return &notificationServiceImpl{
		sessions:   sessions,
		dispatcher: dispatcher,
		publicURL:  strings.TrimRight(publicURL, "/"),
		logger:     logger,
	}
}

// SendSMS queues the invoice-ready SMS. An empty phone uses the client phone.
func (s *notificationServiceImpl) SendSMS(ctx context.Context, sessionID, phone string) (*entity.Outbound, error) {
	snap, err := s.issuable(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if phone = strings.TrimSpace(phone); phone == "" {
		phone = strings.TrimSpace(snap.Input.ClientPhone)
	}
	if phone == "" {
		return nil, fmt.Errorf("%w: no phone number for %s", ErrMissingRecipient, snap.InvoiceNumber)
	}

	job := entity.Outbound{
		Kind:          entity.OutboundSMS,
		SessionID:     sessionID,
		InvoiceNumber: snap.InvoiceNumber,
		Payload:       BuildSMS(snap, phone, s.publicURL),
	}
	return s.enqueue(job)
}

// SendEmail queues the invoice email. An empty address uses the client email.
func (s *notificationServiceImpl) SendEmail(ctx context.Context, sessionID, email string) (*entity.Outbound, error) {
	snap, err := s.issuable(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if email = strings.TrimSpace(email); email == "" {
		email = strings.TrimSpace(snap.Input.ClientEmail)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: no email address for %s", ErrMissingRecipient, snap.InvoiceNumber)
	}

	job := entity.Outbound{
		Kind:          entity.OutboundEmail,
		SessionID:     sessionID,
		InvoiceNumber: snap.InvoiceNumber,
		Payload:       BuildEmail(snap, email),
	}
	return s.enqueue(job)
}

func (s *notificationServiceImpl) issuable(ctx context.Context, sessionID string) (*invoice.Snapshot, error) {
	view, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Validate(view.Snapshot); err != nil {
		return nil, err
	}
	return view.Snapshot, nil
}

func (s *notificationServiceImpl) enqueue(job entity.Outbound) (*entity.Outbound, error) {
	if err := s.dispatcher.Enqueue(job); err != nil {
		s.logger.Error("Failed to queue notification", "kind", job.Kind, "session_id", job.SessionID, "error", err)
		return nil, fmt.Errorf("queue %s: %w", job.Kind, err)
	}
	s.logger.Info("Notification queued", "kind", job.Kind, "session_id", job.SessionID, "invoice_number", job.InvoiceNumber)
	return &job, nil
}

// WholeAmount is the invoice total in whole currency units, as sent to
// outbound collaborators. snap must have passed invoice.Validate, which keeps
// the total below money.MaxAmount.
func WholeAmount(snap *invoice.Snapshot) int64 {
	return snap.Breakdown.Total.Round(0).IntPart()
}

// BuildSMS formats the invoice-ready text message
func BuildSMS(snap *invoice.Snapshot, phone, publicURL string) entity.SMSMessage {
	return entity.SMSMessage{
		To: phone,
		Message: fmt.Sprintf("Hello! Your invoice %s for KES %d is ready. View: %s/invoice/%s",
			snap.InvoiceNumber, WholeAmount(snap), publicURL, snap.InvoiceNumber),
	}
}

// BuildEmail formats the invoice email
func BuildEmail(snap *invoice.Snapshot, email string) entity.EmailMessage {
	return entity.EmailMessage{
		To:      email,
		Subject: "Invoice " + snap.InvoiceNumber,
		HTML:    fmt.Sprintf("<p>Your invoice for KES %d is attached.</p>", WholeAmount(snap)),
	}
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
	"github.com/garyjia/invoice-studio/internal/domain/workflow"
)

// PaymentService starts M-Pesa pushes and tracks payment status
type PaymentService interface {
	InitiateMpesa(ctx context.Context, sessionID, phone string) (workflow.State, error)
	UpdateStatus(ctx context.Context, sessionID string, trigger workflow.Trigger) (workflow.State, error)
}

type paymentServiceImpl struct {
	sessions   SessionService
	dispatcher port.Dispatcher
	logger     Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(sessions SessionService, dispatcher port.Dispatcher, logger Logger) PaymentService {
	return &paymentServiceImpl{
		sessions:   sessions,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// InitiateMpesa moves the invoice to processing and queues the push request.
// If the request cannot be queued the payment is marked failed.
func (s *paymentServiceImpl) InitiateMpesa(ctx context.Context, sessionID, phone string) (workflow.State, error) {
	phone = strings.TrimSpace(phone)
	// validation and the status change happen under one session lock
	snap, state, err := s.sessions.FirePaymentIf(ctx, sessionID, workflow.TriggerStartPayment, func(snap *invoice.Snapshot) error {
		if err := invoice.Validate(snap); err != nil {
			return err
		}
		if phone == "" {
			phone = strings.TrimSpace(snap.Input.ClientPhone)
		}
		if phone == "" {
			return fmt.Errorf("%w: no phone number for %s", ErrMissingRecipient, snap.InvoiceNumber)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	job := entity.Outbound{
		Kind:          entity.OutboundMpesa,
		SessionID:     sessionID,
		InvoiceNumber: snap.InvoiceNumber,
		Payload:       BuildPaymentRequest(snap, phone),
	}
	if err := s.dispatcher.Enqueue(job); err != nil {
		s.logger.Error("Failed to queue M-Pesa push", "session_id", sessionID, "error", err)
		if _, ferr := s.sessions.FirePayment(ctx, sessionID, workflow.TriggerMarkFailed); ferr != nil {
			s.logger.Error("Failed to mark payment failed", "session_id", sessionID, "error", ferr)
		}
		return "", fmt.Errorf("queue mpesa push: %w", err)
	}

	s.logger.Info("M-Pesa push queued", "session_id", sessionID, "invoice_number", snap.InvoiceNumber)
	return state, nil
}

// UpdateStatus applies a manual payment status change
func (s *paymentServiceImpl) UpdateStatus(ctx context.Context, sessionID string, trigger workflow.Trigger) (workflow.State, error) {
	return s.sessions.FirePayment(ctx, sessionID, trigger)
}

// NormalizePhone converts a local number to the 254 international form the
// push endpoint expects. Spaces, dashes and a leading + are dropped.
func NormalizePhone(phone string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "+", "").Replace(strings.TrimSpace(phone))
	if strings.HasPrefix(cleaned, "0") {
		return "254" + cleaned[1:]
	}
	return cleaned
}

// BuildPaymentRequest formats the M-Pesa push body
func BuildPaymentRequest(snap *invoice.Snapshot, phone string) entity.PaymentRequest {
	return entity.PaymentRequest{
		PhoneNumber:      NormalizePhone(phone),
		Amount:           WholeAmount(snap),
		AccountReference: snap.InvoiceNumber,
		TransactionDesc:  "Payment for invoice " + snap.InvoiceNumber,
	}
}

package port

import (
	"context"
	"errors"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
)

// SMSSender defines the outbound SMS collaborator
type SMSSender interface {
	SendSMS(ctx context.Context, msg entity.SMSMessage) error
}

// EmailSender defines the outbound email collaborator
type EmailSender interface {
	SendEmail(ctx context.Context, msg entity.EmailMessage) error
}

// PaymentGateway defines the mobile-money push collaborator
type PaymentGateway interface {
	InitiatePush(ctx context.Context, req entity.PaymentRequest) error
}

// ErrQueueFull is returned by Enqueue when the outbound buffer has no room
var ErrQueueFull = errors.New("outbound queue full")

// Dispatcher hands outbound calls to a background worker. Enqueue never
// blocks; a full queue is reported as an error.
type Dispatcher interface {
	Enqueue(job entity.Outbound) error
}

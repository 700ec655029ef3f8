package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
	"github.com/garyjia/invoice-studio/internal/domain/workflow"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0722 123 456", "254722123456"},
		{"+254722123456", "254722123456"},
		{"254-722-123-456", "254722123456"},
		{"722123456", "722123456"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestPaymentService_InitiateMpesa(t *testing.T) {
	ctx := context.Background()
	f := newFixture(0)
	view, _, err := f.filledSession(ctx)
	require.NoError(t, err)

	dispatcher := &mockDispatcher{}
	svc := NewPaymentService(f.sessions, dispatcher, &mockLogger{})

	state, err := svc.InitiateMpesa(ctx, view.ID, "")
	require.NoError(t, err)
	assert.Equal(t, workflow.StateProcessing, state)

	require.Len(t, dispatcher.jobs, 1)
	assert.Equal(t, entity.OutboundMpesa, dispatcher.jobs[0].Kind)
	assert.Equal(t, entity.PaymentRequest{
		PhoneNumber:      "254722123456",
		Amount:           1044,
		AccountReference: "INV-2025-001",
		TransactionDesc:  "Payment for invoice INV-2025-001",
	}, dispatcher.jobs[0].Payload)

	// a second push while processing is not a permitted transition
	_, err = svc.InitiateMpesa(ctx, view.ID, "")
	assert.True(t, errors.Is(err, workflow.ErrInvalidTransition))
	assert.Len(t, dispatcher.jobs, 1)

	state, err = svc.UpdateStatus(ctx, view.ID, workflow.TriggerMarkPaid)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatePaid, state)
}

func TestPaymentService_InitiateMpesa_QueueFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(0)
	view, _, err := f.filledSession(ctx)
	require.NoError(t, err)

	svc := NewPaymentService(f.sessions, &mockDispatcher{err: errors.New("queue full")}, &mockLogger{})

	_, err = svc.InitiateMpesa(ctx, view.ID, "0700111222")
	require.Error(t, err)

	current, err := f.sessions.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StateFailed, current.PaymentStatus)
	assert.Equal(t, []workflow.Trigger{workflow.TriggerRetry}, current.Permitted)
}

func TestPaymentService_InitiateMpesa_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(0)
	empty, err := f.sessions.Create(ctx)
	require.NoError(t, err)
	dispatcher := &mockDispatcher{}
	svc := NewPaymentService(f.sessions, dispatcher, &mockLogger{})

	_, err = svc.InitiateMpesa(ctx, empty.ID, "0700111222")
	assert.True(t, errors.Is(err, invoice.ErrValidation))

	_, err = svc.InitiateMpesa(ctx, "missing", "0700111222")
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	view, _, err := f.filledSession(ctx)
	require.NoError(t, err)
	_, err = f.sessions.ApplyEdits(ctx, view.ID, invoice.FieldEdit{Field: invoice.FieldClientPhone, Value: ""})
	require.NoError(t, err)
	_, err = svc.InitiateMpesa(ctx, view.ID, "")
	assert.True(t, errors.Is(err, ErrMissingRecipient))

	current, err := f.sessions.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatePending, current.PaymentStatus)
	assert.Empty(t, dispatcher.jobs)
}

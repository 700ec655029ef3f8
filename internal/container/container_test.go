package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/event"
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
)

func testConfig(t *testing.T) *Config {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "invoices.db")
	cfg.Export.ArchiveDir = filepath.Join(dir, "exports")
	return cfg
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(DefaultConfig(), nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Worker.QueueSize = 0
	_, err = NewContainer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestContainer_StartAndClose(t *testing.T) {
	ctx := context.Background()
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, c.Start(ctx))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(ctx), "second start rejected")

	health := c.Health()
	assert.True(t, health.Overall)
	assert.True(t, health.Components["database"].Healthy)
	assert.Equal(t, 2, c.Workers().Count())

	view, err := c.Services().Sessions.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, invoice.Format(view.Snapshot.IssueDate().Year(), 1), view.Snapshot.InvoiceNumber)

	current, err := c.Repositories().Sequences.Current(ctx, invoice.DefaultCounterKey)
	require.NoError(t, err)
	assert.Equal(t, int64(1), current)

	assert.NotNil(t, c.Archive())
	assert.NotNil(t, c.Templates())

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close(), "second close rejected")
}

func TestContainer_CounterSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Start(ctx))
	_, err = first.Services().Sessions.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, second.Start(ctx))
	defer second.Close()

	view, err := second.Services().Sessions.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, invoice.Format(view.Snapshot.IssueDate().Year(), 2), view.Snapshot.InvoiceNumber)
}

func TestContainer_OutboundFailureHandler(t *testing.T) {
	ctx := context.Background()
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(ctx))
	defer c.Close()

	assert.Equal(t, []string{"mark-payment-failed"}, c.Events().Handlers(event.TypeOutboundFailed))

	sms := event.NewEvent(event.TypeOutboundFailed, "missing", "", map[string]any{event.KeyKind: entity.OutboundSMS})
	assert.NoError(t, c.Events().Dispatch(ctx, sms), "non-payment failures are ignored")

	mpesa := event.NewEvent(event.TypeOutboundFailed, "missing", "", map[string]any{event.KeyKind: entity.OutboundMpesa})
	err = c.Events().Dispatch(ctx, mpesa)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mark payment failed")
}

func TestConvertToZapFields(t *testing.T) {
	fields := convertToZapFields("session_id", "abc", 42, "ignored", "status", 200, "dangling")
	require.Len(t, fields, 2)
	assert.Equal(t, "session_id", fields[0].Key)
	assert.Equal(t, "status", fields[1].Key)
}

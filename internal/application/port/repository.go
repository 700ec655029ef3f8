package port

import (
	"context"

	"github.com/garyjia/invoice-studio/internal/domain/invoice"
)

// SequenceStore defines the persistent counters invoice numbers are drawn from
type SequenceStore = invoice.SequenceStore

// PreferenceStore defines persistence for single-valued user preferences
type PreferenceStore interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

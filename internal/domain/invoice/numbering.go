package invoice

import (
	"context"
	"fmt"
	"time"
)

// DefaultCounterKey is the sequence key invoice numbers are drawn from.
const DefaultCounterKey = "invoiceCount"

// SequenceStore is a persistent named counter.
type SequenceStore interface {
	// Increment atomically adds one to key (starting from zero when absent)
	// and returns the new value.
	Increment(ctx context.Context, key string) (int64, error)
}

// Numberer issues invoice numbers of the form INV-<year>-<count>.
// Every call consumes a number; unused numbers leave gaps.
type Numberer struct {
	store SequenceStore
	key   string
	now   func() time.Time
}

// NewNumberer creates a numberer drawing from key in store.
func NewNumberer(store SequenceStore, key string, now func() time.Time) *Numberer {
	if key == "" {
		key = DefaultCounterKey
	}
	if now == nil {
		now = time.Now
	}
	return &Numberer{store: store, key: key, now: now}
}

// Next increments the counter and formats the new number.
func (n *Numberer) Next(ctx context.Context) (string, error) {
	count, err := n.store.Increment(ctx, n.key)
	if err != nil {
		return "", fmt.Errorf("increment %s: %w", n.key, err)
	}
	return Format(n.now().Year(), count), nil
}

// Format renders a number as INV-YYYY-NNN. Counts above 999 keep all digits.
func Format(year int, count int64) string {
	return fmt.Sprintf("INV-%04d-%03d", year, count)
}

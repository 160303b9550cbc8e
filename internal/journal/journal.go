package journal

import (
	"context"
	"time"
)

// Entry represents one journaled gateway operation.
type Entry struct {
	Time    time.Time
	Op      string // e.g., "connect", "open_order", "list_accounts"
	Detail  string
	Status  int
	ErrText string
}

// Journaler interface for recording the operation audit trail.
type Journaler interface {
	LogOperation(ctx context.Context, e Entry) error
	Operations(ctx context.Context, op string, start, end time.Time) ([]Entry, error)
	Close() error
}

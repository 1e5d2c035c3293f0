package events

import (
	"context"

	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

// Repository is the append-only, hash-chained event log.
type Repository interface {
	Append(ctx context.Context, e *models.Event) error
	// Head returns the last sequence number and hash, or 0 and nil for
	// an empty log.
	Head(ctx context.Context) (int64, []byte, error)
	// List returns up to limit events with seq > afterSeq in order.
	List(ctx context.Context, afterSeq int64, limit int) ([]models.Event, error)
}

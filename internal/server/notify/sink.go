// Package notify delivers committed events to observers outside the
// ledger. Delivery happens after commit and never affects the outcome
// of the operation that produced the event.
package notify

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/logging"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

// Sink receives events in commit order. Publish must not block for long;
// it runs while the writer lock is held.
type Sink interface {
	Publish(ctx context.Context, e models.Event)
}

// LogSink writes every event as a structured log record.
type LogSink struct {
	logger logging.Logger
}

func NewLogSink(logger logging.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, e models.Event) {
	args := []any{"seq", e.Seq, "event", e.Name, "hash", hex.EncodeToString(e.Hash)}
	if decoded, err := e.Args(); err == nil {
		args = append(args, "args", fmt.Sprint(decoded...))
	} else {
		args = append(args, "decode_error", err.Error())
	}
	s.logger.Info(ctx, "event", args...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, models.Event) {}

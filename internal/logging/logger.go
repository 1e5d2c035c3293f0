// Package logging is the structured logger shared by the server and the CLI.
package logging

import "context"

// Logger takes key/value pairs after the message:
//
//	log.Info(ctx, "task created", "task_id", id, "caller", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying args on every record.
	With(args ...any) Logger
}

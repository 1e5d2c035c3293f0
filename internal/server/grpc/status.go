package grpc

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/taskledger/internal/api"
	"github.com/dmitrijs2005/taskledger/internal/common"
)

// toStatus converts a service error to a gRPC status carrying an
// ErrorInfo reason. Unknown errors become a bare Internal.
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	m, ok := api.Lookup(err)
	if !ok {
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}

	st := status.New(m.Code, err.Error())
	if detailed, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: m.Reason, Domain: api.ErrorDomain}); derr == nil {
		st = detailed
	}
	return st.Err()
}

// fail logs err against the request and returns its status form.
func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	args := []any{"error", err.Error()}
	if m, known := api.Lookup(err); known {
		args = append(args, "reason", m.Reason)
	}
	s.loggerFrom(ctx).Error(ctx, op+" failed", args...)
	return toStatus(err)
}

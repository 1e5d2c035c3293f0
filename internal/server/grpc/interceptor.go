package grpc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/dmitrijs2005/taskledger/internal/api"
	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/logging"
	"github.com/dmitrijs2005/taskledger/internal/server/auth"
)

type ctxKey string

const (
	callerKey ctxKey = "caller"
	loggerKey ctxKey = "logger"
)

// CallerFrom returns the authenticated address, or identity.Zero for an
// anonymous call.
func CallerFrom(ctx context.Context) identity.Address {
	if a, ok := ctx.Value(callerKey).(identity.Address); ok {
		return a
	}
	return identity.Zero
}

func (s *GRPCServer) loggerFrom(ctx context.Context) logging.Logger {
	if l, ok := ctx.Value(loggerKey).(logging.Logger); ok {
		return l
	}
	return s.logger
}

func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AccessTokenHeaderName)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// accessTokenInterceptor tags the request with an id and resolves the
// caller. A present token must verify even on read methods; methods in
// api.RequiresIdentity refuse to run without one.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	log := s.logger.With("request_id", uuid.NewString(), "method", info.FullMethod)

	caller := identity.Zero
	if token := tokenFromMetadata(ctx); token != "" {
		addr, err := auth.AddressFromToken(token, s.jwtSecret)
		if err != nil {
			log.Warn(ctx, "token rejected", "error", err)
			return nil, toStatus(err)
		}
		caller = addr
		log = log.With("caller", addr.Hex())
	} else if api.RequiresIdentity(info.FullMethod) {
		return nil, toStatus(fmt.Errorf("%w: missing token", common.ErrorUnauthorized))
	}

	ctx = context.WithValue(ctx, callerKey, caller)
	ctx = context.WithValue(ctx, loggerKey, log)
	return handler(ctx, req)
}

package grpcx

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/idx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDMetadataKey carries the correlation id across gRPC hops.
const RequestIDMetadataKey = "x-request-id"

// RequestIDClientInterceptor forwards the request id found in ctx, if any,
// as outgoing metadata.
func RequestIDClientInterceptor(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	if id := slogx.RequestID(ctx); id != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, RequestIDMetadataKey, id)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// LoggingServerInterceptor attaches a request-scoped logger to the handler
// context and logs one line per call. Incoming request ids are reused when
// they parse, otherwise a new one is minted.
func LoggingServerInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		var incoming string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(RequestIDMetadataKey); len(vals) > 0 {
				incoming = vals[0]
			}
		}
		reqID := idx.OrNew(incoming).String()

		ctx = slogx.WithContext(ctx, base.With("rpc_method", info.FullMethod))
		ctx = slogx.WithRequestID(ctx, reqID)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		log := slogx.FromContext(ctx)
		attrs := []any{
			"code", code.String(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch code {
		case codes.OK, codes.NotFound, codes.AlreadyExists, codes.InvalidArgument, codes.Unauthenticated:
			log.Info("grpc_request", attrs...)
		default:
			log.Error("grpc_request", append(attrs, "error", err)...)
		}
		return resp, err
	}
}

package grpcx

import (
	"fmt"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultClientDialOptions returns the dial options shared by every internal
// client: plaintext transport inside the cluster, OTel stats so outbound
// calls propagate trace context, the JSON content-subtype, and request id
// propagation.
func DefaultClientDialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
		grpc.WithUnaryInterceptor(RequestIDClientInterceptor),
	}
}

// Dial creates a lazily connecting client for addr. Extra options are
// appended after the defaults.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, append(DefaultClientDialOptions(), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("grpcx: dial %s: %w", addr, err)
	}
	return conn, nil
}

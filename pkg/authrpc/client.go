package authrpc

import (
	"context"

	"github.com/aussiebroadwan/gatekeep/pkg/grpcx"
	"google.golang.org/grpc"
)

// Client calls the auth service over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// ValidateToken asks the authority whether token is currently valid. A
// non-nil error means the call itself failed, not that the token is invalid.
func (c *Client) ValidateToken(ctx context.Context, token string, opts ...grpc.CallOption) (*ValidateTokenResponse, error) {
	return grpcx.Invoke[ValidateTokenResponse](ctx, c.cc, validateTokenMethod, &ValidateTokenRequest{Token: token}, opts...)
}

func (c *Client) HealthCheck(ctx context.Context, opts ...grpc.CallOption) (*HealthCheckResponse, error) {
	return grpcx.Invoke[HealthCheckResponse](ctx, c.cc, healthCheckMethod, &HealthCheckRequest{}, opts...)
}

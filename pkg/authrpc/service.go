package authrpc

import (
	"context"

	"github.com/aussiebroadwan/gatekeep/pkg/grpcx"
	"google.golang.org/grpc"
)

const (
	validateTokenMethod = "/" + ServiceName + "/ValidateToken"
	healthCheckMethod   = "/" + ServiceName + "/HealthCheck"
)

// AuthServiceServer is implemented by the token authority.
type AuthServiceServer interface {
	ValidateToken(context.Context, *ValidateTokenRequest) (*ValidateTokenResponse, error)
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
}

// RegisterAuthServiceServer registers srv on s.
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the auth service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ValidateToken",
			Handler:    grpcx.UnaryHandler(validateTokenMethod, AuthServiceServer.ValidateToken),
		},
		{
			MethodName: "HealthCheck",
			Handler:    grpcx.UnaryHandler(healthCheckMethod, AuthServiceServer.HealthCheck),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// Package rpc exposes the token authority to other services over gRPC.
package rpc

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/pkg/authrpc"
)

// TokenValidator validates bearer tokens in process.
type TokenValidator interface {
	Validate(ctx context.Context, token string) domain.ValidationResult
}

// Server implements authrpc.AuthServiceServer. Invalid tokens are answered
// with Valid=false, never with an RPC error.
type Server struct {
	Tokens  TokenValidator
	Version string
	Now     func() time.Time
}

var _ authrpc.AuthServiceServer = (*Server)(nil)

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) ValidateToken(ctx context.Context, req *authrpc.ValidateTokenRequest) (*authrpc.ValidateTokenResponse, error) {
	result := s.Tokens.Validate(ctx, strings.TrimSpace(req.Token))
	if !result.Valid() {
		return &authrpc.ValidateTokenResponse{ErrorMessage: result.ErrorMessage()}, nil
	}

	id := result.Identity
	return &authrpc.ValidateTokenResponse{
		Valid: true,
		UserInfo: &authrpc.UserInfo{
			UserID:    id.UserID,
			Username:  id.Username,
			FirstName: id.FirstName,
			LastName:  id.LastName,
			Role:      id.Role,
			Email:     id.Email,
		},
		ExpirationTime: result.ExpiresAt.UnixMilli(),
	}, nil
}

func (s *Server) HealthCheck(context.Context, *authrpc.HealthCheckRequest) (*authrpc.HealthCheckResponse, error) {
	return &authrpc.HealthCheckResponse{
		Success:   true,
		Message:   authrpc.HealthyMessage,
		Timestamp: s.now().UnixMilli(),
		Version:   s.Version,
	}, nil
}

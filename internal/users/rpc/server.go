// Package rpc exposes the user directory over gRPC.
package rpc

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/gatekeep/internal/users/domain"
	"github.com/aussiebroadwan/gatekeep/internal/users/service"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
	"github.com/aussiebroadwan/gatekeep/pkg/userrpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server implements userrpc.UsersServiceServer on top of the user service.
type Server struct {
	Users *service.UserService
}

var _ userrpc.UsersServiceServer = (*Server)(nil)

func (s *Server) FindUserByUsername(ctx context.Context, req *userrpc.FindUserByUsernameRequest) (*userrpc.UserInfoResponse, error) {
	u, err := s.Users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &userrpc.UserInfoResponse{UserInfo: userInfo(u)}, nil
}

func (s *Server) FindUserByEmail(ctx context.Context, req *userrpc.FindUserByEmailRequest) (*userrpc.UserInfoResponse, error) {
	u, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &userrpc.UserInfoResponse{UserInfo: userInfo(u)}, nil
}

func (s *Server) AuthenticateUser(ctx context.Context, req *userrpc.AuthenticateUserRequest) (*userrpc.UserInfoResponse, error) {
	u, err := s.Users.Authenticate(ctx, req.Username, req.Password, req.UsingEmail)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &userrpc.UserInfoResponse{UserInfo: userInfo(u)}, nil
}

func (s *Server) CreateUser(ctx context.Context, req *userrpc.CreateUserRequest) (*userrpc.UserProfileResponse, error) {
	u, err := s.Users.CreateUser(ctx, service.CreateUserParams{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      req.Role,
		Password:  req.Password,
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &userrpc.UserProfileResponse{UserInfo: userInfo(u), Status: u.Status}, nil
}

func (s *Server) UpdatePassword(ctx context.Context, req *userrpc.UpdatePasswordRequest) (*userrpc.StatusResponse, error) {
	ok, err := s.Users.UpdatePassword(ctx, req.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	if !ok {
		return &userrpc.StatusResponse{Success: false, Message: "Current password is incorrect"}, nil
	}
	return &userrpc.StatusResponse{Success: true, Message: "Password updated"}, nil
}

func (s *Server) CheckUsernameExists(ctx context.Context, req *userrpc.FindUserByUsernameRequest) (*userrpc.ExistsResponse, error) {
	exists, err := s.Users.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &userrpc.ExistsResponse{Exists: exists, Message: existsMessage("Username", exists)}, nil
}

func (s *Server) CheckEmailExists(ctx context.Context, req *userrpc.FindUserByEmailRequest) (*userrpc.ExistsResponse, error) {
	exists, err := s.Users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &userrpc.ExistsResponse{Exists: exists, Message: existsMessage("Email", exists)}, nil
}

func (s *Server) UpdateUserLastLogin(ctx context.Context, req *userrpc.UserIDRequest) (*userrpc.StatusResponse, error) {
	if err := s.Users.UpdateLastLogin(ctx, req.UserID); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &userrpc.StatusResponse{Success: true, Message: "Last login updated"}, nil
}

func (s *Server) GetUserInfo(ctx context.Context, req *userrpc.UserIDRequest) (*userrpc.UserInfoResponse, error) {
	u, err := s.Users.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &userrpc.UserInfoResponse{UserInfo: userInfo(u)}, nil
}

func (s *Server) GetUserProfile(ctx context.Context, req *userrpc.UserIDRequest) (*userrpc.UserProfileResponse, error) {
	u, err := s.Users.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &userrpc.UserProfileResponse{UserInfo: userInfo(u), Status: u.Status}, nil
}

func (s *Server) DeleteUser(ctx context.Context, req *userrpc.UserIDRequest) (*userrpc.StatusResponse, error) {
	if err := s.Users.DeleteUser(ctx, req.UserID); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &userrpc.StatusResponse{Success: true, Message: "User deleted"}, nil
}

func existsMessage(field string, exists bool) string {
	if exists {
		return field + " already exists"
	}
	return field + " is available"
}

func userInfo(u domain.User) *userrpc.UserInfo {
	return &userrpc.UserInfo{
		UserID:    u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Email:     u.Email,
	}
}

// toStatus maps service errors onto gRPC codes. Unknown errors are logged and
// answered as Internal without detail.
func toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return status.Error(codes.NotFound, "user not found")
	case errors.Is(err, service.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "username or email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "invalid credentials")
	case errors.Is(err, service.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	default:
		slogx.FromContext(ctx).Error("directory request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

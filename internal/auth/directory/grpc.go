package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/pkg/userrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// DefaultTimeout bounds each directory call.
const DefaultTimeout = 5 * time.Second

// GRPCClient implements Client against the directory's gRPC surface.
type GRPCClient struct {
	rpc     *userrpc.Client
	health  healthpb.HealthClient
	timeout time.Duration
}

var _ Client = (*GRPCClient)(nil)

// NewGRPCClient wraps conn. A non-positive timeout selects DefaultTimeout.
func NewGRPCClient(conn grpc.ClientConnInterface, timeout time.Duration) *GRPCClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GRPCClient{
		rpc:     userrpc.NewClient(conn),
		health:  healthpb.NewHealthClient(conn),
		timeout: timeout,
	}
}

func (c *GRPCClient) FindByUsername(ctx context.Context, username string) (domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.FindUserByUsername(ctx, username)
	return identityFrom(resp, err)
}

func (c *GRPCClient) FindByEmail(ctx context.Context, email string) (domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.FindUserByEmail(ctx, email)
	return identityFrom(resp, err)
}

func (c *GRPCClient) Authenticate(ctx context.Context, usernameOrEmail, password string, usingEmail bool) (domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.AuthenticateUser(ctx, &userrpc.AuthenticateUserRequest{
		Username:   usernameOrEmail,
		Password:   password,
		UsingEmail: usingEmail,
	})
	return identityFrom(resp, err)
}

func (c *GRPCClient) CreateUser(ctx context.Context, reg domain.Registration, role string) (domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.CreateUser(ctx, &userrpc.CreateUserRequest{
		Username:  reg.Username,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Email:     reg.Email,
		Role:      role,
		Password:  reg.Password,
	})
	if err != nil {
		return domain.Identity{}, mapError(err)
	}
	if resp.UserInfo == nil {
		return domain.Identity{}, fmt.Errorf("%w: create user returned no user", ErrUnavailable)
	}
	return toIdentity(resp.UserInfo), nil
}

func (c *GRPCClient) UpdatePassword(ctx context.Context, userID int64, current, next string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.UpdatePassword(ctx, &userrpc.UpdatePasswordRequest{
		UserID:          userID,
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		return false, mapError(err)
	}
	return resp.Success, nil
}

func (c *GRPCClient) UsernameExists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.CheckUsernameExists(ctx, username)
	if err != nil {
		return false, mapError(err)
	}
	return resp.Exists, nil
}

func (c *GRPCClient) EmailExists(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.CheckEmailExists(ctx, email)
	if err != nil {
		return false, mapError(err)
	}
	return resp.Exists, nil
}

func (c *GRPCClient) UpdateLastLogin(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.rpc.UpdateUserLastLogin(ctx, userID); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *GRPCClient) GetUserInfo(ctx context.Context, userID int64) (domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.GetUserInfo(ctx, userID)
	return identityFrom(resp, err)
}

func (c *GRPCClient) GetUserProfile(ctx context.Context, userID int64) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.GetUserProfile(ctx, userID)
	if err != nil {
		return domain.Profile{}, mapError(err)
	}
	if resp.UserInfo == nil {
		return domain.Profile{}, fmt.Errorf("%w: profile without user", ErrUnavailable)
	}
	return domain.Profile{Identity: toIdentity(resp.UserInfo), Status: resp.Status}, nil
}

func (c *GRPCClient) DeleteUser(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.DeleteUser(ctx, userID)
	if err != nil {
		return mapError(err)
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.Message)
	}
	return nil
}

// Ping checks the directory's grpc.health.v1 status.
func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: userrpc.ServiceName}, grpc.CallContentSubtype("proto"))
	if err != nil {
		return mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: status %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func identityFrom(resp *userrpc.UserInfoResponse, err error) (domain.Identity, error) {
	if err != nil {
		return domain.Identity{}, mapError(err)
	}
	if resp.UserInfo == nil {
		return domain.Identity{}, fmt.Errorf("%w: response without user", ErrUnavailable)
	}
	return toIdentity(resp.UserInfo), nil
}

func toIdentity(u *userrpc.UserInfo) domain.Identity {
	return domain.Identity{
		UserID:    u.UserID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Email:     u.Email,
	}
}

// mapError turns a gRPC status into one of the package sentinels.
func mapError(err error) error {
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

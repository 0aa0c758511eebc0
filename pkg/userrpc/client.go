package userrpc

import (
	"context"

	"github.com/aussiebroadwan/gatekeep/pkg/grpcx"
	"google.golang.org/grpc"
)

// Client calls the directory service over an existing connection. Errors
// are gRPC status errors and pass through unchanged.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) FindUserByUsername(ctx context.Context, username string) (*UserInfoResponse, error) {
	return grpcx.Invoke[UserInfoResponse](ctx, c.cc, findUserByUsernameMethod, &FindUserByUsernameRequest{Username: username})
}

func (c *Client) FindUserByEmail(ctx context.Context, email string) (*UserInfoResponse, error) {
	return grpcx.Invoke[UserInfoResponse](ctx, c.cc, findUserByEmailMethod, &FindUserByEmailRequest{Email: email})
}

func (c *Client) AuthenticateUser(ctx context.Context, req *AuthenticateUserRequest) (*UserInfoResponse, error) {
	return grpcx.Invoke[UserInfoResponse](ctx, c.cc, authenticateUserMethod, req)
}

func (c *Client) CreateUser(ctx context.Context, req *CreateUserRequest) (*UserProfileResponse, error) {
	return grpcx.Invoke[UserProfileResponse](ctx, c.cc, createUserMethod, req)
}

func (c *Client) UpdatePassword(ctx context.Context, req *UpdatePasswordRequest) (*StatusResponse, error) {
	return grpcx.Invoke[StatusResponse](ctx, c.cc, updatePasswordMethod, req)
}

func (c *Client) CheckUsernameExists(ctx context.Context, username string) (*ExistsResponse, error) {
	return grpcx.Invoke[ExistsResponse](ctx, c.cc, checkUsernameExistsMethod, &FindUserByUsernameRequest{Username: username})
}

func (c *Client) CheckEmailExists(ctx context.Context, email string) (*ExistsResponse, error) {
	return grpcx.Invoke[ExistsResponse](ctx, c.cc, checkEmailExistsMethod, &FindUserByEmailRequest{Email: email})
}

func (c *Client) UpdateUserLastLogin(ctx context.Context, userID int64) (*StatusResponse, error) {
	return grpcx.Invoke[StatusResponse](ctx, c.cc, updateUserLastLoginMethod, &UserIDRequest{UserID: userID})
}

func (c *Client) GetUserInfo(ctx context.Context, userID int64) (*UserInfoResponse, error) {
	return grpcx.Invoke[UserInfoResponse](ctx, c.cc, getUserInfoMethod, &UserIDRequest{UserID: userID})
}

func (c *Client) GetUserProfile(ctx context.Context, userID int64) (*UserProfileResponse, error) {
	return grpcx.Invoke[UserProfileResponse](ctx, c.cc, getUserProfileMethod, &UserIDRequest{UserID: userID})
}

func (c *Client) DeleteUser(ctx context.Context, userID int64) (*StatusResponse, error) {
	return grpcx.Invoke[StatusResponse](ctx, c.cc, deleteUserMethod, &UserIDRequest{UserID: userID})
}

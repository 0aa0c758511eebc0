package userrpc

import (
	"context"

	"github.com/aussiebroadwan/gatekeep/pkg/grpcx"
	"google.golang.org/grpc"
)

const (
	findUserByUsernameMethod  = "/" + ServiceName + "/FindUserByUsername"
	findUserByEmailMethod     = "/" + ServiceName + "/FindUserByEmail"
	authenticateUserMethod    = "/" + ServiceName + "/AuthenticateUser"
	createUserMethod          = "/" + ServiceName + "/CreateUser"
	updatePasswordMethod      = "/" + ServiceName + "/UpdatePassword"
	checkUsernameExistsMethod = "/" + ServiceName + "/CheckUsernameExists"
	checkEmailExistsMethod    = "/" + ServiceName + "/CheckEmailExists"
	updateUserLastLoginMethod = "/" + ServiceName + "/UpdateUserLastLogin"
	getUserInfoMethod         = "/" + ServiceName + "/GetUserInfo"
	getUserProfileMethod      = "/" + ServiceName + "/GetUserProfile"
	deleteUserMethod          = "/" + ServiceName + "/DeleteUser"
)

// UsersServiceServer is implemented by the directory service.
type UsersServiceServer interface {
	FindUserByUsername(context.Context, *FindUserByUsernameRequest) (*UserInfoResponse, error)
	FindUserByEmail(context.Context, *FindUserByEmailRequest) (*UserInfoResponse, error)
	AuthenticateUser(context.Context, *AuthenticateUserRequest) (*UserInfoResponse, error)
	CreateUser(context.Context, *CreateUserRequest) (*UserProfileResponse, error)
	UpdatePassword(context.Context, *UpdatePasswordRequest) (*StatusResponse, error)
	CheckUsernameExists(context.Context, *FindUserByUsernameRequest) (*ExistsResponse, error)
	CheckEmailExists(context.Context, *FindUserByEmailRequest) (*ExistsResponse, error)
	UpdateUserLastLogin(context.Context, *UserIDRequest) (*StatusResponse, error)
	GetUserInfo(context.Context, *UserIDRequest) (*UserInfoResponse, error)
	GetUserProfile(context.Context, *UserIDRequest) (*UserProfileResponse, error)
	DeleteUser(context.Context, *UserIDRequest) (*StatusResponse, error)
}

// RegisterUsersServiceServer registers srv on s.
func RegisterUsersServiceServer(s grpc.ServiceRegistrar, srv UsersServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the directory service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UsersServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FindUserByUsername", Handler: grpcx.UnaryHandler(findUserByUsernameMethod, UsersServiceServer.FindUserByUsername)},
		{MethodName: "FindUserByEmail", Handler: grpcx.UnaryHandler(findUserByEmailMethod, UsersServiceServer.FindUserByEmail)},
		{MethodName: "AuthenticateUser", Handler: grpcx.UnaryHandler(authenticateUserMethod, UsersServiceServer.AuthenticateUser)},
		{MethodName: "CreateUser", Handler: grpcx.UnaryHandler(createUserMethod, UsersServiceServer.CreateUser)},
		{MethodName: "UpdatePassword", Handler: grpcx.UnaryHandler(updatePasswordMethod, UsersServiceServer.UpdatePassword)},
		{MethodName: "CheckUsernameExists", Handler: grpcx.UnaryHandler(checkUsernameExistsMethod, UsersServiceServer.CheckUsernameExists)},
		{MethodName: "CheckEmailExists", Handler: grpcx.UnaryHandler(checkEmailExistsMethod, UsersServiceServer.CheckEmailExists)},
		{MethodName: "UpdateUserLastLogin", Handler: grpcx.UnaryHandler(updateUserLastLoginMethod, UsersServiceServer.UpdateUserLastLogin)},
		{MethodName: "GetUserInfo", Handler: grpcx.UnaryHandler(getUserInfoMethod, UsersServiceServer.GetUserInfo)},
		{MethodName: "GetUserProfile", Handler: grpcx.UnaryHandler(getUserProfileMethod, UsersServiceServer.GetUserProfile)},
		{MethodName: "DeleteUser", Handler: grpcx.UnaryHandler(deleteUserMethod, UsersServiceServer.DeleteUser)},
	},
	Streams: []grpc.StreamDesc{},
}

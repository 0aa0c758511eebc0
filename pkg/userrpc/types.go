// Package userrpc is the contract of the user directory's RPC surface.
//
// Lookups that miss answer codes.NotFound, duplicate accounts answer
// codes.AlreadyExists, a wrong password answers codes.Unauthenticated and
// bad input answers codes.InvalidArgument.
package userrpc

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gatekeep.users.v1.UsersService"

// Account roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// StatusActive is the only account status currently issued.
const StatusActive = "ACTIVE"

type UserInfo struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Email     string `json:"email"`
}

type UserInfoResponse struct {
	UserInfo *UserInfo `json:"userInfo"`
}

type UserProfileResponse struct {
	UserInfo *UserInfo `json:"userInfo"`
	Status   string    `json:"status"`
}

type FindUserByUsernameRequest struct {
	Username string `json:"username"`
}

type FindUserByEmailRequest struct {
	Email string `json:"email"`
}

// AuthenticateUserRequest checks a password. Username holds the email when
// UsingEmail is set.
type AuthenticateUserRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	UsingEmail bool   `json:"usingEmail"`
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Password  string `json:"password"`
}

// UpdatePasswordRequest replaces a password. An empty CurrentPassword skips
// the check.
type UpdatePasswordRequest struct {
	UserID          int64  `json:"userId"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UserIDRequest struct {
	UserID int64 `json:"userId"`
}

type ExistsResponse struct {
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

// StatusResponse reports the outcome of a mutation. UpdatePassword uses
// Success=false for a wrong current password rather than an RPC error.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

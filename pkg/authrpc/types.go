// Package authrpc is the contract of the token authority's RPC surface:
// message types, the gRPC service descriptor, and a typed client.
package authrpc

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gatekeep.auth.v1.AuthService"

// HealthyMessage is the message returned by a healthy authority.
const HealthyMessage = "Auth service is healthy"

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// UserInfo is the identity attached to a valid token.
type UserInfo struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Email     string `json:"email"`
}

// ValidateTokenResponse answers every validation outcome, valid or not.
// Invalid tokens are reported here rather than as RPC errors.
type ValidateTokenResponse struct {
	Valid    bool      `json:"valid"`
	UserInfo *UserInfo `json:"userInfo,omitempty"`
	// ExpirationTime is the token expiry in epoch milliseconds.
	ExpirationTime int64  `json:"expirationTime,omitempty"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
}

type HealthCheckRequest struct{}

type HealthCheckResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
}

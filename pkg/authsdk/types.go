package authsdk

import "time"

// ============================================================================
// Request Types
// ============================================================================

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=50"`
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,min=5,max=255,email"`
	Password  string `json:"password" validate:"required,min=8,max=255"`
}

// LoginRequest is the body of POST /auth/login. UsernameOrEmail is treated
// as an email address when it contains "@".
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required,min=2,max=255"`
	Password        string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the body of POST /auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ChangePasswordRequest is the body of PUT /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=255"`
}

// ============================================================================
// Response Types
// ============================================================================

// AuthenticationResponse is returned by register, login and refresh.
type AuthenticationResponse struct {
	// AccessToken authenticates API requests as a Bearer token
	AccessToken string `json:"accessToken"`

	// RefreshToken is exchanged at /auth/refresh for a new pair
	RefreshToken string `json:"refreshToken"`

	// TokenType is always "Bearer"
	TokenType string `json:"tokenType"`

	// ExpiresAt is when the access token stops being accepted
	ExpiresAt time.Time `json:"expiresAt"`

	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserInfo is the public view of an account.
type UserInfo struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// ProfileResponse is returned by GET /auth/profile.
type ProfileResponse struct {
	UserInfo UserInfo `json:"userInfo"`
	Status   string   `json:"status"`
}

// StatusResponse is returned by logout and change-password.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Directory indicates whether the user directory answers health checks
	Directory string `json:"directory"`

	// Signer indicates the JWT signing capability status
	Signer string `json:"signer"`
}

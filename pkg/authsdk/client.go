package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the gatekeep auth service HTTP surface.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new auth service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account and returns its first token pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthenticationResponse, error) {
	return c.authenticate(ctx, "/auth/register", req, http.StatusCreated)
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*AuthenticationResponse, error) {
	req := LoginRequest{UsernameOrEmail: usernameOrEmail, Password: password}
	return c.authenticate(ctx, "/auth/login", req, http.StatusOK)
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthenticationResponse, error) {
	req := RefreshTokenRequest{RefreshToken: refreshToken}
	return c.authenticate(ctx, "/auth/refresh", req, http.StatusOK)
}

func (c *Client) authenticate(ctx context.Context, path string, body any, expected int) (*AuthenticationResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return nil, err
	}

	var out AuthenticationResponse
	if err := decodeJSON(resp, &out, expected); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the access token.
func (c *Client) Logout(ctx context.Context, accessToken string) (*StatusResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var out StatusResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the caller's password.
func (c *Client) ChangePassword(ctx context.Context, accessToken string, req ChangePasswordRequest) (*StatusResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/auth/change-password", accessToken, req)
	if err != nil {
		return nil, err
	}

	var out StatusResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile returns the caller's account profile.
func (c *Client) Profile(ctx context.Context, accessToken string) (*ProfileResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth/profile", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var out ProfileResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

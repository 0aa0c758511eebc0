package authsdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req authsdk.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(authsdk.AuthenticationResponse{
			AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer",
			ExpiresAt: expires, UserID: 7, Username: req.Username, Role: "USER",
		})
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req authsdk.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Password != "pw123456" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized","message":"Invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(authsdk.AuthenticationResponse{AccessToken: "access", TokenType: "Bearer"})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"Validation Failed","message":"Validation failed for some fields","details":{"refreshToken":"required"}}`))
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(authsdk.StatusResponse{Success: true, Message: "Successfully logged out"})
	})
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(authsdk.ProfileResponse{
			UserInfo: authsdk.UserInfo{UserID: 7, Username: "alice"},
			Status:   "ACTIVE",
		})
	})
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(authsdk.HealthResponse{Status: "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("directory down"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	client := authsdk.NewClient(srv.URL + "/")
	ctx := context.Background()

	t.Run("register", func(t *testing.T) {
		resp, err := client.Register(ctx, authsdk.RegisterRequest{Username: "alice"})
		require.NoError(t, err)
		require.Equal(t, "access", resp.AccessToken)
		require.Equal(t, "alice", resp.Username)
		require.Equal(t, int64(7), resp.UserID)
		require.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), resp.ExpiresAt.UTC())
	})

	t.Run("login", func(t *testing.T) {
		resp, err := client.Login(ctx, "alice", "pw123456")
		require.NoError(t, err)
		require.Equal(t, "Bearer", resp.TokenType)
	})

	t.Run("login wrong password", func(t *testing.T) {
		_, err := client.Login(ctx, "alice", "nope")
		require.Error(t, err)
		require.True(t, authsdk.IsUnauthorized(err))

		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "Invalid credentials", apiErr.Message)
	})

	t.Run("refresh validation error", func(t *testing.T) {
		_, err := client.Refresh(ctx, "")
		require.True(t, authsdk.IsValidationError(err))

		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "required", apiErr.Details["refreshToken"])
		require.Contains(t, err.Error(), "refreshToken required")
	})

	t.Run("logout sends bearer token", func(t *testing.T) {
		resp, err := client.Logout(ctx, "access")
		require.NoError(t, err)
		require.True(t, resp.Success)

		_, err = client.Logout(ctx, "other")
		require.True(t, authsdk.IsUnauthorized(err))
	})

	t.Run("profile", func(t *testing.T) {
		resp, err := client.Profile(ctx, "access")
		require.NoError(t, err)
		require.Equal(t, "alice", resp.UserInfo.Username)
		require.Equal(t, "ACTIVE", resp.Status)
	})

	t.Run("health", func(t *testing.T) {
		live, err := client.GetLiveness(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", live.Status)

		_, err = client.GetReadiness(ctx)
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
		require.Equal(t, "directory down", apiErr.Message)
	})
}

/*
Package authsdk provides a client SDK for the gatekeep auth service.

# Overview

The package wraps the self-service HTTP surface under /auth: registration,
login, token refresh, logout, password change and profile lookup. Request
types carry the same Validate methods the service applies, so callers can
reject bad input before a round trip.

# Usage

	client := authsdk.NewClient("https://auth.example.com")

	pair, err := client.Login(ctx, "alice", "correct horse battery")
	if err != nil {
		if authsdk.IsUnauthorized(err) {
			// wrong credentials
		}
		return err
	}

	profile, err := client.Profile(ctx, pair.AccessToken)

Errors returned for non-2xx answers are *APIError values carrying the status
code, the error category, the message and any per-field details.
*/
package authsdk

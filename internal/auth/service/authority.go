package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/directory"
	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

// TokenAuthority is the only component holding the signing secret. It
// issues and verifies tokens and owns the revocation store.
type TokenAuthority struct {
	Signer      jwtx.Signer
	Verifier    jwtx.Verifier
	Revocations RevocationStore
	Directory   directory.Client
	Issuer      string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	Metrics     *Metrics

	// Now defaults to time.Now. The verifier keeps its own clock.
	Now func() time.Time
}

func (a *TokenAuthority) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *TokenAuthority) accessTTL() time.Duration {
	if a.AccessTTL > 0 {
		return a.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (a *TokenAuthority) refreshTTL() time.Duration {
	if a.RefreshTTL > 0 {
		return a.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

func subjectOf(id domain.Identity) jwtx.Subject {
	return jwtx.Subject{
		UserID:    id.UserID,
		Username:  id.Username,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Email:     id.Email,
		Role:      id.Role,
	}
}

func identityOf(c jwtx.Claims) domain.Identity {
	s := c.Identity()
	return domain.Identity{
		UserID:    s.UserID,
		Username:  s.Username,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Role:      s.Role,
		Email:     s.Email,
	}
}

// IssueAccessToken signs an access token for id and returns it with its
// expiry.
func (a *TokenAuthority) IssueAccessToken(id domain.Identity) (string, time.Time, error) {
	claims := jwtx.NewAccessClaims(subjectOf(id), a.Issuer, a.accessTTL(), a.now())
	token, err := a.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	a.Metrics.observeIssued("access")
	return token, claims.ExpiresAt.Time, nil
}

// IssueRefreshToken signs a refresh token for id. It differs from an access
// token only by the type claim and its longer lifetime.
func (a *TokenAuthority) IssueRefreshToken(id domain.Identity) (string, time.Time, error) {
	claims := jwtx.NewRefreshClaims(subjectOf(id), a.Issuer, a.refreshTTL(), a.now())
	token, err := a.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}
	a.Metrics.observeIssued("refresh")
	return token, claims.ExpiresAt.Time, nil
}

// IssuePair issues a fresh access and refresh token for id.
func (a *TokenAuthority) IssuePair(id domain.Identity) (domain.TokenPair, error) {
	access, expiresAt, err := a.IssueAccessToken(id)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, _, err := a.IssueRefreshToken(id)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		Identity:     id,
	}, nil
}

// Validate decides whether token is currently acceptable. Rejections are
// reported in the result, never as errors.
//
// Revocation is checked first. A verified token's subject is then resolved
// against the directory so role and email changes since issuance apply.
// When the directory cannot answer, the identity embedded in the token is
// used instead.
func (a *TokenAuthority) Validate(ctx context.Context, token string) domain.ValidationResult {
	result := a.validate(ctx, token)
	a.Metrics.observeValidation(result.Status)
	return result
}

func (a *TokenAuthority) validate(ctx context.Context, token string) domain.ValidationResult {
	log := slogx.FromContext(ctx).With("token_fp", cryptox.FingerprintToken(token))

	revoked, err := a.Revocations.IsRevoked(ctx, token)
	if err != nil {
		log.Error("revocation lookup failed, rejecting token", "error", err)
		return domain.Invalid(domain.StatusRevoked)
	}
	if revoked {
		return domain.Invalid(domain.StatusRevoked)
	}

	claims, err := a.Verifier.Verify(token)
	if err != nil {
		status := statusOf(err)
		log.Debug("token rejected", "status", status.String(), "error", err)
		return domain.Invalid(status)
	}

	identity, err := a.Directory.FindByUsername(ctx, claims.Subject)
	switch {
	case err == nil:
		if claims.UserID != 0 && identity.UserID != claims.UserID {
			// The username now belongs to a different account.
			log.Warn("token subject resolves to another account", "subject", claims.Subject)
			return domain.Invalid(domain.StatusUnknownSubject)
		}
	case errors.Is(err, directory.ErrUnavailable):
		log.Warn("directory unavailable, using token claims", "subject", claims.Subject, "error", err)
		identity = identityOf(claims)
	default:
		// Any definite answer other than a match rejects the subject.
		log.Debug("token subject rejected by directory", "subject", claims.Subject, "error", err)
		return domain.Invalid(domain.StatusUnknownSubject)
	}

	return domain.ValidationResult{
		Status:    domain.StatusValid,
		Identity:  identity,
		ExpiresAt: claims.ExpiresAt.Time,
		Refresh:   claims.IsRefresh(),
	}
}

func statusOf(err error) domain.TokenStatus {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return domain.StatusExpired
	case errors.Is(err, jwtx.ErrInvalidSig):
		return domain.StatusBadSignature
	case errors.Is(err, jwtx.ErrUnsupported):
		return domain.StatusUnsupported
	default:
		return domain.StatusMalformed
	}
}

// Revoke invalidates token permanently. It succeeds for any string,
// including tokens that are already expired or already revoked.
func (a *TokenAuthority) Revoke(ctx context.Context, token string) error {
	exp, _ := jwtx.PeekExpiry(token)
	if err := a.Revocations.Revoke(ctx, token, exp); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	a.Metrics.setRevoked(a.Revocations.Len())
	slogx.FromContext(ctx).Info("token revoked", "token_fp", cryptox.FingerprintToken(token))
	return nil
}

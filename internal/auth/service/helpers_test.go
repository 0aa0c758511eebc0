package service

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/directory/directorytest"
	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "gatekeep-test"

var testSecret = []byte("test-secret-that-is-32-bytes-ok!")

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now().Truncate(time.Second)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	clock     *testClock
	dir       *directorytest.Directory
	authority *TokenAuthority
	validator *CredentialValidator
	verifier  *jwtx.HS256Verifier
	alice     domain.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	clock := newTestClock()
	dir := directorytest.New()
	alice := dir.Add(domain.Identity{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
		Email:     "alice@example.com",
		Role:      domain.RoleUser,
	}, "pw123456")

	verifier := jwtx.NewVerifierHS256(testSecret, testIssuer).WithClock(clock.Now)
	authority := &TokenAuthority{
		Signer:      signer,
		Verifier:    verifier,
		Revocations: NewMemoryRevocationStore(),
		Directory:   dir,
		Issuer:      testIssuer,
		AccessTTL:   15 * time.Minute,
		RefreshTTL:  7 * 24 * time.Hour,
		Now:         clock.Now,
	}

	return &fixture{
		clock:     clock,
		dir:       dir,
		authority: authority,
		validator: &CredentialValidator{Tokens: authority, Directory: dir, BackgroundTimeout: time.Second},
		verifier:  verifier,
		alice:     alice,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errSignerDown = errors.New("signer down")

type failingSigner struct{}

func (failingSigner) Alg() string                      { return "HS256" }
func (failingSigner) Sign(jwtx.Claims) (string, error) { return "", errSignerDown }
func (failingSigner) Validate() error                  { return nil }

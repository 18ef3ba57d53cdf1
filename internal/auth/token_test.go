package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/config-manager/internal/domain"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	clock := newClock()
	tm := NewTokenManager("super-secret", 24*time.Hour, WithClock(clock.Now))

	tok, exp, err := tm.Issue("alice", domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(24*time.Hour), exp)

	claims, err := tm.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID)

	got := claims.Token()
	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.ExpiresAt.Equal(exp))
}

func TestVerify_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	clock := newClock()
	tm := NewTokenManager("secret", 0, WithClock(clock.Now))

	tok, _, err := tm.Issue("alice", domain.RoleUser)
	require.NoError(t, err)

	clock.Advance(23*time.Hour + 59*time.Minute)
	_, err = tm.Verify(tok)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = tm.Verify(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewTokenManager("right-secret", time.Hour).Issue("u2", domain.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("k", time.Hour)
	for _, raw := range []string{"", "not.a.jwt", "abc"} {
		_, err := tm.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
	}
}

func TestVerify_RejectsForeignAlgorithm(t *testing.T) {
	t.Parallel()

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "mallory",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenManager("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RequiresSubjectAndExpiry(t *testing.T) {
	t.Parallel()

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}).SignedString([]byte("k"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "alice",
	}}).SignedString([]byte("k"))
	require.NoError(t, err)

	tm := NewTokenManager("k", time.Hour)
	_, err = tm.Verify(noSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tm.Verify(noExpiry)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

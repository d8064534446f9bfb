package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWT_RoundTrip(t *testing.T) {
	cfg := JWTConfig{SecretKey: testSecret, Issuer: "supramolecular", Audience: "bindfit"}
	gen, err := NewJWTGenerator(cfg, time.Minute)
	require.NoError(t, err)
	val, err := NewJWTValidator(cfg)
	require.NoError(t, err)

	token, err := gen.GenerateToken("alice", "fits:write")
	require.NoError(t, err)

	claims, err := val.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "fits:write", claims.Scope)
}

func TestJWT_Rejections(t *testing.T) {
	cfg := JWTConfig{SecretKey: testSecret, Issuer: "supramolecular"}
	val, err := NewJWTValidator(cfg)
	require.NoError(t, err)

	_, err = val.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	other, err := NewJWTGenerator(JWTConfig{SecretKey: "another-secret-another-secret-xx", Issuer: "supramolecular"}, time.Minute)
	require.NoError(t, err)
	token, err := other.GenerateToken("bob", "")
	require.NoError(t, err)
	_, err = val.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	wrongIssuer, err := NewJWTGenerator(JWTConfig{SecretKey: testSecret, Issuer: "elsewhere"}, time.Minute)
	require.NoError(t, err)
	token, err = wrongIssuer.GenerateToken("bob", "")
	require.NoError(t, err)
	_, err = val.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	expired, err := NewJWTGenerator(cfg, time.Nanosecond)
	require.NoError(t, err)
	token, err = expired.GenerateToken("bob", "")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	_, err = val.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(1, 2)
	clock := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, l.Allow("10.0.0.2"), "keys are independent")

	clock = clock.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"), "one token refilled")

	clock = clock.Add(time.Hour)
	assert.Equal(t, 2, l.Sweep(time.Minute))
}

func TestIPRateLimiter_Disabled(t *testing.T) {
	l := NewIPRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("k"))
	}
}

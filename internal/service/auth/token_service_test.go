package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/soundsteps/soundsteps-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		TokenSecret:          "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes: 60,
	}
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(testAuthConfig())
	assert.NoError(t, err)

	_, err = NewTokenService(config.AuthConfig{TokenSecret: "too-short"})
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	service, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	learnerID := uuid.New()
	token, err := service.GenerateToken(context.Background(), learnerID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, learnerID, claims.LearnerID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	service, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()
		_, err := service.ValidateToken(context.Background(), "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		_, err := service.ValidateToken(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		t.Parallel()

		other, err := NewTokenService(config.AuthConfig{
			TokenSecret:          "ffffffffffffffffffffffffffffffff",
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)

		token, err := other.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		_, err = service.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		impl := &hmacTokenService{
			signingKey:    []byte(testAuthConfig().TokenSecret),
			tokenLifetime: time.Hour,
			timeFunc:      time.Now,
		}

		// Issue in the past, validate in the present, with no leeway.
		impl.timeFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := impl.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		impl.timeFunc = time.Now
		_, err = impl.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	verifier := NewBcryptVerifier()

	hash, err := verifier.Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, verifier.Compare(hash, "correct horse battery"))
	assert.Error(t, verifier.Compare(hash, "wrong password"))
}

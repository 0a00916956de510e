package auth

import (
	"testing"
	"time"

	"murmur/internal/config"
	"murmur/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret-at-least-32-chars-long!!",
		JWTIssuer:   "murmur-api",
		JWTAudience: "murmur-client",
		JWTTTLHours: 1,
	}
}

func TestCodec_IssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	cd := NewCodec(testConfig())
	token, err := cd.Issue(42, "alice", models.RoleAdmin, nil)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := cd.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestCodec_Issue_DefaultsRoleToUser(t *testing.T) {
	t.Parallel()

	cd := NewCodec(testConfig())
	token, err := cd.Issue(7, "bob", "", nil)
	require.NoError(t, err)

	claims, err := cd.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestCodec_Issue_NoSecret(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.JWTSecret = ""
	cd := NewCodec(cfg)

	_, err := cd.Issue(1, "alice", models.RoleUser, nil)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestCodec_Verify_Expired(t *testing.T) {
	t.Parallel()

	// A negative default TTL produces an already-expired but validly signed
	// credential.
	cfg := testConfig()
	cfg.JWTTTLHours = -1
	expiredCodec := NewCodec(cfg)
	token, err := expiredCodec.Issue(1, "alice", models.RoleUser, nil)
	require.NoError(t, err)

	_, err = NewCodec(testConfig()).Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestCodec_Verify_Rejections(t *testing.T) {
	t.Parallel()

	cd := NewCodec(testConfig())

	t.Run("wrong issuer", func(t *testing.T) {
		t.Parallel()
		token, err := cd.Issue(1, "alice", models.RoleUser, &IssueOptions{Issuer: "other-api"})
		require.NoError(t, err)
		_, err = cd.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		t.Parallel()
		token, err := cd.Issue(1, "alice", models.RoleUser, &IssueOptions{Audience: "other-client"})
		require.NoError(t, err)
		_, err = cd.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		otherCfg := testConfig()
		otherCfg.JWTSecret = "another-secret-also-32-chars-long!!!"
		token, err := NewCodec(otherCfg).Issue(1, "alice", models.RoleUser, nil)
		require.NoError(t, err)
		_, err = cd.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		t.Parallel()
		claims := jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "murmur-api",
			Audience:  jwt.ClaimStrings{"murmur-client"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).
			SignedString([]byte(testConfig().JWTSecret))
		require.NoError(t, err)
		_, err = cd.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		_, err := cd.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()
		claims := jwt.RegisteredClaims{
			Issuer:    "murmur-api",
			Audience:  jwt.ClaimStrings{"murmur-client"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(testConfig().JWTSecret))
		require.NoError(t, err)
		_, err = cd.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestCodec_Decode_Unverified(t *testing.T) {
	t.Parallel()

	// Decode inspects claims without checking the signature, so a token
	// signed with a different secret still decodes.
	otherCfg := testConfig()
	otherCfg.JWTSecret = "another-secret-also-32-chars-long!!!"
	token, err := NewCodec(otherCfg).Issue(9, "mallory", models.RoleUser, nil)
	require.NoError(t, err)

	cd := NewCodec(testConfig())
	claims := cd.Decode(token)
	require.NotNil(t, claims)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, "mallory", claims.Username)

	assert.Nil(t, cd.Decode("garbage"))
}

func TestCodec_Reissue(t *testing.T) {
	t.Parallel()

	cd := NewCodec(testConfig())

	t.Run("carries claims forward", func(t *testing.T) {
		t.Parallel()
		token, err := cd.Issue(5, "carol", models.RoleAdmin, nil)
		require.NoError(t, err)

		fresh, err := cd.Reissue(token, 2*time.Hour)
		require.NoError(t, err)

		claims, err := cd.Verify(fresh)
		require.NoError(t, err)
		assert.Equal(t, uint(5), claims.UserID)
		assert.Equal(t, "carol", claims.Username)
		assert.Equal(t, models.RoleAdmin, claims.Role)
		assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt, 5*time.Second)
	})

	t.Run("expired credential cannot be refreshed", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.JWTTTLHours = -1
		token, err := NewCodec(cfg).Issue(5, "carol", models.RoleUser, nil)
		require.NoError(t, err)

		_, err = cd.Reissue(token, time.Hour)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestCodecSentinels_Classify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.KindUnauthenticated, models.Classify(ErrExpiredToken).Kind)
	assert.Equal(t, models.KindUnauthenticated, models.Classify(ErrInvalidToken).Kind)
	assert.Equal(t, models.KindInternalError, models.Classify(ErrNoSecret).Kind)
}

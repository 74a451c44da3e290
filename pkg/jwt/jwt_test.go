package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

const testSecret = "unit-test-secret-0123456789abcdef"

func TestGenerateAndParse(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken("2f1d5a3e-0000-4000-8000-000000000001", "reader@example.com", "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "2f1d5a3e-0000-4000-8000-000000000001", claims.UserID)
	assert.Equal(t, "2f1d5a3e-0000-4000-8000-000000000001", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, AccessToken, claims.Type)
}

func TestParseToken_Failures(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken("u1", "u1@example.com", "user")
	require.NoError(t, err)

	t.Run("签名密钥不一致", func(t *testing.T) {
		other := NewManager("another-secret-another-secret-xx", time.Hour, time.Hour)
		_, err := other.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("Refresh Token不能用于鉴权", func(t *testing.T) {
		_, err := m.ParseToken(pair.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("垃圾字符串", func(t *testing.T) {
		_, err := m.ParseToken("not-a-jwt")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("已过期", func(t *testing.T) {
		expired := NewManager(testSecret, time.Minute, time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		old, err := expired.GenerateToken("u1", "u1@example.com", "user")
		require.NoError(t, err)

		_, err = m.ParseToken(old.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken("u1", "u1@example.com", "user")
	require.NoError(t, err)

	subject, err := m.PeekSubject(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", subject)

	token, _, err := m.RefreshAccessToken(pair.RefreshToken, "u1@example.com", "admin")
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	_, _, err = m.RefreshAccessToken(pair.AccessToken, "u1@example.com", "user")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

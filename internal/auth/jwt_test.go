// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JJ-P1114/jj-p1114-studio/internal/config"
	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

func newTestSigner(t *testing.T) (*TokenSigner, config.JWTConfig) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:    filepath.Join(dir, "keys", "private.pem"),
		PublicKeyPath:     filepath.Join(dir, "keys", "public.pem"),
		AccessTokenExpire: 15 * time.Minute,
		Issuer:            "jj-p1114-studio",
		Audience:          "jj-p1114-studio-api",
	}

	generated, err := EnsureKeyPair(cfg)
	require.NoError(t, err)
	require.True(t, generated)

	signer, err := NewTokenSigner(cfg)
	require.NoError(t, err)
	return signer, cfg
}

func TestEnsureKeyPair_KeepsExistingKey(t *testing.T) {
	first, cfg := newTestSigner(t)

	generated, err := EnsureKeyPair(cfg)
	require.NoError(t, err)
	assert.False(t, generated)

	second, err := NewTokenSigner(cfg)
	require.NoError(t, err)
	assert.Equal(t, first.KeyID(), second.KeyID())
	assert.FileExists(t, cfg.PublicKeyPath)
}

func TestTokenSigner_RoundTrip(t *testing.T) {
	signer, _ := newTestSigner(t)

	token, expiresAt, err := signer.CreateAccessToken(AccessTokenClaims{
		UserID:     "user-1",
		SessionKey: "session-abc",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := signer.VerifyAccessToken(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "session-abc", claims.SessionKey)
}

func TestTokenSigner_Rejects(t *testing.T) {
	signer, cfg := newTestSigner(t)

	token, _, err := signer.CreateAccessToken(AccessTokenClaims{UserID: "u", SessionKey: "s"})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		late := *signer
		late.now = func() time.Time { return time.Now().Add(time.Hour) }

		_, err := late.VerifyAccessToken(t.Context(), token)
		assert.ErrorIs(t, err, core.ErrTokenExpired)
	})

	t.Run("other audience", func(t *testing.T) {
		other := cfg
		other.Audience = "someone-else"
		strict, err := NewTokenSigner(other)
		require.NoError(t, err)

		_, err = strict.VerifyAccessToken(t.Context(), token)
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("other key", func(t *testing.T) {
		stranger, _ := newTestSigner(t)

		_, err := stranger.VerifyAccessToken(t.Context(), token)
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := signer.VerifyAccessToken(t.Context(), "not.a.token")
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})
}

func TestTokenSigner_JWKS(t *testing.T) {
	signer, _ := newTestSigner(t)

	rec := httptest.NewRecorder()
	signer.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, jwksMaxAge, rec.Header().Get("Cache-Control"))

	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, signer.KeyID(), body.Keys[0]["kid"])
	assert.Equal(t, "sig", body.Keys[0]["use"])
	assert.NotContains(t, body.Keys[0], "d")
}

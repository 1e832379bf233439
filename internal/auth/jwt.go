// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/JJ-P1114/jj-p1114-studio/internal/config"
	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

const (
	sessionClaim  = "sid"
	tokenUseClaim = "token_use"
	tokenUse      = "access"

	jwksMaxAge = "public, max-age=3600"
)

// TokenSigner mints bearer access tokens for clients that cannot hold the
// session cookie. A token names a session and is only honoured while that
// session exists.
type TokenSigner struct {
	private jwk.Key
	public  jwk.Key
	jwks    jwk.Set
	keyID   string
	cfg     config.JWTConfig
	now     func() time.Time
}

func NewTokenSigner(cfg config.JWTConfig) (*TokenSigner, error) {
	raw, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	key, err := jwk.ParseKey(raw, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}

	return newTokenSigner(key, cfg)
}

func newTokenSigner(key jwk.Key, cfg config.JWTConfig) (*TokenSigner, error) {
	// The thumbprint keeps the kid stable across restarts and replicas
	// sharing one key file.
	thumb, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("thumbprint signing key: %w", err)
	}
	keyID := base64.RawURLEncoding.EncodeToString(thumb)[:16]

	if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, fmt.Errorf("set key id: %w", err)
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set algorithm: %w", err)
	}

	public, err := key.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := public.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	set := jwk.NewSet()
	if err := set.AddKey(public); err != nil {
		return nil, fmt.Errorf("build jwks: %w", err)
	}

	return &TokenSigner{
		private: key,
		public:  public,
		jwks:    set,
		keyID:   keyID,
		cfg:     cfg,
		now:     time.Now,
	}, nil
}

// EnsureKeyPair writes a P-256 key pair when the configured private key does
// not exist yet. It reports whether a new pair was written.
func EnsureKeyPair(cfg config.JWTConfig) (bool, error) {
	_, err := os.Stat(cfg.PrivateKeyPath)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat signing key: %w", err)
	}

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return false, fmt.Errorf("generate signing key: %w", err)
	}

	key, err := jwk.Import(ecKey)
	if err != nil {
		return false, fmt.Errorf("import signing key: %w", err)
	}
	public, err := key.PublicKey()
	if err != nil {
		return false, fmt.Errorf("derive public key: %w", err)
	}

	if err := writePEM(cfg.PrivateKeyPath, key, 0o600); err != nil {
		return false, err
	}
	if cfg.PublicKeyPath != "" {
		//nolint:gosec // public half is meant to be readable
		if err := writePEM(cfg.PublicKeyPath, public, 0o644); err != nil {
			return false, err
		}
	}

	return true, nil
}

func writePEM(path string, key jwk.Key, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	encoded, err := jwk.Pem(key)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, encoded, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type AccessTokenClaims struct {
	UserID     string
	SessionKey string
}

func (s *TokenSigner) CreateAccessToken(
	claims AccessTokenClaims,
) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(s.cfg.Issuer).
		Audience([]string{s.cfg.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim(sessionClaim, claims.SessionKey).
		Claim(tokenUseClaim, tokenUse).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build access token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), s.private))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return string(signed), expiresAt, nil
}

// VerifyAccessToken checks signature, issuer, audience and lifetime. The
// session it names is resolved by the caller.
func (s *TokenSigner) VerifyAccessToken(
	_ context.Context,
	raw string,
) (*AccessTokenClaims, error) {
	token, err := jwt.ParseString(raw,
		jwt.WithKey(jwa.ES256(), s.public),
		jwt.WithValidate(true),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf("verify access token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify access token: %w", core.ErrTokenInvalid)
	}

	var use string
	if err := token.Get(tokenUseClaim, &use); err != nil || use != tokenUse {
		return nil, fmt.Errorf("verify access token: wrong token use: %w", core.ErrTokenInvalid)
	}

	var out AccessTokenClaims
	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("verify access token: no subject: %w", core.ErrTokenInvalid)
	}
	out.UserID = subject

	if err := token.Get(sessionClaim, &out.SessionKey); err != nil || out.SessionKey == "" {
		return nil, fmt.Errorf("verify access token: no session: %w", core.ErrTokenInvalid)
	}

	return &out, nil
}

// JWKSHandler publishes the verification key for resource servers.
func (s *TokenSigner) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", jwksMaxAge)
		core.JSON(w, http.StatusOK, s.jwks)
	}
}

func (s *TokenSigner) KeyID() string {
	return s.keyID
}

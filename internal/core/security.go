// AngelaMos | 2026
// security.go

package core

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	sessionIDBytes  = 32
	cookieKeyLength = 32
	cookieKeyInfo   = "studio session cookie v1"
)

func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func GenerateSessionID() (string, error) {
	return GenerateSecureToken(sessionIDBytes)
}

func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// CookieSigner produces "<value>.<mac>" cookie values. The MAC key is derived
// from the configured session secret so the raw secret never keys the MAC.
type CookieSigner struct {
	key []byte
}

func NewCookieSigner(secret string) (*CookieSigner, error) {
	if secret == "" {
		return nil, fmt.Errorf("cookie signer: empty secret")
	}

	key := make([]byte, cookieKeyLength)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(cookieKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive cookie key: %w", err)
	}

	return &CookieSigner{key: key}, nil
}

func (s *CookieSigner) Sign(value string) string {
	return value + "." + s.mac(value)
}

// Verify returns the original value when signed carries a valid MAC.
func (s *CookieSigner) Verify(signed string) (string, bool) {
	idx := strings.LastIndexByte(signed, '.')
	if idx <= 0 || idx == len(signed)-1 {
		return "", false
	}

	value, mac := signed[:idx], signed[idx+1:]
	if !hmac.Equal([]byte(mac), []byte(s.mac(value))) {
		return "", false
	}

	return value, true
}

func (s *CookieSigner) mac(value string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

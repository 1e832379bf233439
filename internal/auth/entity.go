// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Claims is the profile asserted by the identity provider.
type Claims struct {
	Subject         string `json:"sub"`
	Email           string `json:"email,omitempty"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	// Role seeds the role of a user row on first insert only.
	Role string `json:"-"`
}

// Tokens is the result of a code exchange or refresh grant. Claims is nil
// when a refresh response carried no ID token.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Claims       *Claims
}

// Session is the server side record behind a session cookie.
type Session struct {
	UserID       string     `json:"userId"`
	Claims       Claims     `json:"claims"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	RefreshedAt  *time.Time `json:"refreshedAt,omitempty"`
}

// NeedsRefresh reports whether the provider credential expired before now.
func (s *Session) NeedsRefresh(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func (s *Session) CanRefresh() bool {
	return s.RefreshToken != ""
}

// fallbackLifetime applies when a refresh grant omits expires_in.
const fallbackLifetime = 5 * time.Minute

// RefreshSession returns the session that results from applying a refresh
// grant to old. The old value is left untouched.
func RefreshSession(old Session, tokens Tokens, now time.Time) Session {
	next := old

	next.AccessToken = tokens.AccessToken
	next.ExpiresAt = tokens.ExpiresAt
	if next.ExpiresAt.IsZero() {
		next.ExpiresAt = fallbackExpiry(old.ExpiresAt, now)
	}

	if tokens.RefreshToken != "" {
		next.RefreshToken = tokens.RefreshToken
	}

	if tokens.Claims != nil {
		claims := *tokens.Claims
		claims.Subject = old.Claims.Subject
		next.Claims = claims
	}

	refreshedAt := now
	next.RefreshedAt = &refreshedAt

	return next
}

// fallbackExpiry keeps an expiry that is still ahead of now. A stale one
// would force a refresh on every request.
func fallbackExpiry(prev, now time.Time) time.Time {
	if prev.After(now) {
		return prev
	}
	return now.Add(fallbackLifetime)
}

// LoginState is stored between the login redirect and the callback.
type LoginState struct {
	Nonce     string    `json:"nonce"`
	CreatedAt time.Time `json:"createdAt"`
}

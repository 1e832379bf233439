// AngelaMos | 2026
// provider.go

package auth

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

// IdentityProvider is the external party that authenticates users.
type IdentityProvider interface {
	AuthCodeURL(ctx context.Context, state, nonce string) (string, error)
	Exchange(ctx context.Context, code, nonce string) (*Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	// EndSessionURL returns "" when the provider has no logout endpoint.
	EndSessionURL(ctx context.Context, postLogoutRedirect string) (string, error)
}

const (
	demoCode         = "demo"
	demoRefreshToken = "demo-refresh"
	demoLifetime     = 24 * time.Hour
)

// DemoClaims is the fixed identity used in demo mode.
var DemoClaims = Claims{
	Subject:   "demo-user",
	Email:     "demo@jj-p1114.com",
	FirstName: "Demo",
	LastName:  "User",
	Role:      "admin",
}

// DemoProvider signs every visitor in as the demo admin. Development only.
type DemoProvider struct {
	callbackURL string
	now         func() time.Time
}

func NewDemoProvider(callbackURL string) *DemoProvider {
	return &DemoProvider{
		callbackURL: callbackURL,
		now:         time.Now,
	}
}

func (p *DemoProvider) AuthCodeURL(
	_ context.Context,
	state, _ string,
) (string, error) {
	u, err := url.Parse(p.callbackURL)
	if err != nil {
		return "", fmt.Errorf("parse callback url: %w", err)
	}

	q := u.Query()
	q.Set("code", demoCode)
	q.Set("state", state)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (p *DemoProvider) Exchange(
	_ context.Context,
	code, _ string,
) (*Tokens, error) {
	if code != demoCode {
		return nil, fmt.Errorf("demo exchange: %w", core.ErrTokenInvalid)
	}

	tokens, err := p.issue()
	if err != nil {
		return nil, err
	}

	claims := DemoClaims
	tokens.Claims = &claims
	return tokens, nil
}

func (p *DemoProvider) Refresh(
	_ context.Context,
	refreshToken string,
) (*Tokens, error) {
	if refreshToken != demoRefreshToken {
		return nil, fmt.Errorf("demo refresh: %w", core.ErrTokenInvalid)
	}
	return p.issue()
}

func (p *DemoProvider) EndSessionURL(context.Context, string) (string, error) {
	return "", nil
}

func (p *DemoProvider) issue() (*Tokens, error) {
	access, err := core.GenerateSecureToken(24)
	if err != nil {
		return nil, fmt.Errorf("demo token: %w", err)
	}

	return &Tokens{
		AccessToken:  access,
		RefreshToken: demoRefreshToken,
		ExpiresAt:    p.now().Add(demoLifetime),
	}, nil
}

var _ IdentityProvider = (*DemoProvider)(nil)

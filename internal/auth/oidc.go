// AngelaMos | 2026
// oidc.go

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"golang.org/x/oauth2"

	"github.com/JJ-P1114/jj-p1114-studio/internal/config"
	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

const (
	wellKnownPath    = "/.well-known/openid-configuration"
	maxDiscoveryBody = 1 << 20
	idTokenSkew      = 30 * time.Second
)

type ProviderMetadata struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
	EndSessionEndpoint    string `json:"end_session_endpoint"`

	Keys jwk.Set `json:"-"`
}

// Discovery caches the provider metadata and signing keys. One value is
// created at start-up and shared by every request.
type Discovery struct {
	issuerURL string
	ttl       time.Duration
	client    *http.Client
	now       func() time.Time

	mu        sync.Mutex
	meta      *ProviderMetadata
	fetchedAt time.Time
}

func NewDiscovery(
	issuerURL string,
	ttl time.Duration,
	client *http.Client,
) *Discovery {
	if client == nil {
		client = http.DefaultClient
	}
	return &Discovery{
		issuerURL: strings.TrimSuffix(issuerURL, "/"),
		ttl:       ttl,
		client:    client,
		now:       time.Now,
	}
}

// Metadata returns the cached metadata, refetching it once the TTL passed.
func (d *Discovery) Metadata(ctx context.Context) (*ProviderMetadata, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.meta != nil && d.now().Sub(d.fetchedAt) < d.ttl {
		return d.meta, nil
	}

	meta, err := d.fetch(ctx)
	if err != nil {
		return nil, err
	}

	d.meta = meta
	d.fetchedAt = d.now()
	return meta, nil
}

func (d *Discovery) Invalidate() {
	d.mu.Lock()
	d.meta = nil
	d.mu.Unlock()
}

func (d *Discovery) Ping(ctx context.Context) error {
	_, err := d.Metadata(ctx)
	return err
}

func (d *Discovery) fetch(ctx context.Context) (*ProviderMetadata, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		d.issuerURL+wellKnownPath,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("build discovery request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch discovery document: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch discovery document: status %d", resp.StatusCode)
	}

	var meta ProviderMetadata
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDiscoveryBody)).
		Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode discovery document: %w", err)
	}

	if meta.AuthorizationEndpoint == "" || meta.TokenEndpoint == "" ||
		meta.JWKSURI == "" {
		return nil, fmt.Errorf("discovery document is missing endpoints")
	}
	if meta.Issuer == "" {
		meta.Issuer = d.issuerURL
	}

	keys, err := jwk.Fetch(ctx, meta.JWKSURI, jwk.WithHTTPClient(d.client))
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	meta.Keys = keys

	return &meta, nil
}

// OIDCProvider runs the authorization code flow against a discovered
// OpenID Connect provider.
type OIDCProvider struct {
	discovery *Discovery
	cfg       config.OIDCConfig
	client    *http.Client
}

func NewOIDCProvider(
	discovery *Discovery,
	cfg config.OIDCConfig,
	client *http.Client,
) *OIDCProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &OIDCProvider{
		discovery: discovery,
		cfg:       cfg,
		client:    client,
	}
}

func (p *OIDCProvider) AuthCodeURL(
	ctx context.Context,
	state, nonce string,
) (string, error) {
	meta, err := p.discovery.Metadata(ctx)
	if err != nil {
		return "", err
	}

	return p.oauthConfig(meta).AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("prompt", "login consent"),
	), nil
}

func (p *OIDCProvider) Exchange(
	ctx context.Context,
	code, nonce string,
) (*Tokens, error) {
	meta, err := p.discovery.Metadata(ctx)
	if err != nil {
		return nil, err
	}

	tok, err := p.oauthConfig(meta).Exchange(p.clientContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	return p.tokensFrom(meta, tok, nonce, true)
}

func (p *OIDCProvider) Refresh(
	ctx context.Context,
	refreshToken string,
) (*Tokens, error) {
	meta, err := p.discovery.Metadata(ctx)
	if err != nil {
		return nil, err
	}

	src := p.oauthConfig(meta).TokenSource(
		p.clientContext(ctx),
		&oauth2.Token{RefreshToken: refreshToken},
	)

	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh grant: %w", err)
	}

	return p.tokensFrom(meta, tok, "", false)
}

func (p *OIDCProvider) EndSessionURL(
	ctx context.Context,
	postLogoutRedirect string,
) (string, error) {
	meta, err := p.discovery.Metadata(ctx)
	if err != nil {
		return "", err
	}

	if meta.EndSessionEndpoint == "" {
		return "", nil
	}

	u, err := url.Parse(meta.EndSessionEndpoint)
	if err != nil {
		return "", fmt.Errorf("parse end session endpoint: %w", err)
	}

	q := u.Query()
	q.Set("client_id", p.cfg.ClientID)
	if postLogoutRedirect != "" {
		q.Set("post_logout_redirect_uri", postLogoutRedirect)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (p *OIDCProvider) oauthConfig(meta *ProviderMetadata) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		RedirectURL:  p.cfg.RedirectURL,
		Scopes:       p.cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  meta.AuthorizationEndpoint,
			TokenURL: meta.TokenEndpoint,
		},
	}
}

func (p *OIDCProvider) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.client)
}

func (p *OIDCProvider) tokensFrom(
	meta *ProviderMetadata,
	tok *oauth2.Token,
	nonce string,
	requireIDToken bool,
) (*Tokens, error) {
	tokens := &Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}

	rawIDToken, _ := tok.Extra("id_token").(string)
	if rawIDToken == "" {
		if requireIDToken {
			return nil, fmt.Errorf("token response without id_token: %w", core.ErrTokenInvalid)
		}
		return tokens, nil
	}

	claims, expiresAt, err := p.verifyIDToken(meta, rawIDToken, nonce)
	if err != nil {
		// keys may have rotated
		p.discovery.Invalidate()
		return nil, err
	}

	tokens.Claims = claims
	if !expiresAt.IsZero() {
		tokens.ExpiresAt = expiresAt
	}

	return tokens, nil
}

func (p *OIDCProvider) verifyIDToken(
	meta *ProviderMetadata,
	raw, nonce string,
) (*Claims, time.Time, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKeySet(meta.Keys, jws.WithInferAlgorithmFromKey(true)),
		jwt.WithValidate(true),
		jwt.WithIssuer(meta.Issuer),
		jwt.WithAudience(p.cfg.ClientID),
		jwt.WithAcceptableSkew(idTokenSkew),
	)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("verify id token: %w", core.ErrTokenInvalid)
	}

	if nonce != "" && stringClaim(token, "nonce") != nonce {
		return nil, time.Time{}, fmt.Errorf(
			"verify id token: nonce mismatch: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, time.Time{}, fmt.Errorf(
			"verify id token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	expiresAt, _ := token.Expiration()

	return &Claims{
		Subject:         subject,
		Email:           stringClaim(token, "email"),
		FirstName:       stringClaim(token, "given_name"),
		LastName:        stringClaim(token, "family_name"),
		ProfileImageURL: stringClaim(token, "picture"),
	}, expiresAt, nil
}

func stringClaim(token jwt.Token, name string) string {
	var v string
	//nolint:errcheck // absent claims read as empty
	_ = token.Get(name, &v)
	return v
}

var _ IdentityProvider = (*OIDCProvider)(nil)

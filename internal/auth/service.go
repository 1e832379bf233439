// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JJ-P1114/jj-p1114-studio/internal/config"
	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/middleware"
)

const (
	stateBytes = 24
	nonceBytes = 24
)

var ErrInvalidState = errors.New("invalid login state")

type UserProvider interface {
	UpsertFromClaims(ctx context.Context, claims Claims) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
}

type TokenManager interface {
	CreateAccessToken(claims AccessTokenClaims) (string, time.Time, error)
	VerifyAccessToken(ctx context.Context, token string) (*AccessTokenClaims, error)
}

type Service struct {
	repo          Repository
	provider      IdentityProvider
	userProvider  UserProvider
	tokens        TokenManager
	signer        *core.CookieSigner
	cfg           config.SessionConfig
	postLogoutURL string
	now           func() time.Time
}

type ServiceConfig struct {
	Repository    Repository
	Provider      IdentityProvider
	UserProvider  UserProvider
	Tokens        TokenManager
	Signer        *core.CookieSigner
	Session       config.SessionConfig
	PostLogoutURL string
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:          cfg.Repository,
		provider:      cfg.Provider,
		userProvider:  cfg.UserProvider,
		tokens:        cfg.Tokens,
		signer:        cfg.Signer,
		cfg:           cfg.Session,
		postLogoutURL: cfg.PostLogoutURL,
		now:           time.Now,
	}
}

// Authenticate resolves the caller's session. An expired provider
// credential is refreshed and the new session persisted before returning.
func (s *Service) Authenticate(
	ctx context.Context,
	cred middleware.Credential,
) (*middleware.Identity, error) {
	key, bearerUser, err := s.sessionKey(ctx, cred)
	if err != nil {
		return nil, err
	}

	sess, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.UnauthorizedError("")
		}
		return nil, err
	}

	if sess.ExpiresAt.IsZero() {
		return nil, core.UnauthorizedError("")
	}

	if bearerUser != "" && bearerUser != sess.UserID {
		return nil, core.UnauthorizedError("")
	}

	now := s.now()
	if sess.NeedsRefresh(now) {
		refreshed, err := s.refresh(ctx, key, sess, now)
		if err != nil {
			return nil, err
		}
		sess = refreshed
	}

	return &middleware.Identity{
		UserID:     sess.UserID,
		SessionKey: key,
	}, nil
}

func (s *Service) refresh(
	ctx context.Context,
	key string,
	sess *Session,
	now time.Time,
) (*Session, error) {
	if !sess.CanRefresh() {
		return nil, core.UnauthorizedError("")
	}

	tokens, err := s.provider.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		slog.Debug("session refresh failed",
			"user_id", sess.UserID,
			"error", err,
		)
		return nil, core.UnauthorizedError("")
	}

	next := RefreshSession(*sess, *tokens, now)
	if err := s.repo.Save(ctx, key, &next); err != nil {
		return nil, fmt.Errorf("persist refreshed session: %w", err)
	}

	return &next, nil
}

// sessionKey maps a credential to the key of its session. The bearer token
// wins when both are present; its subject must match the session owner.
func (s *Service) sessionKey(
	ctx context.Context,
	cred middleware.Credential,
) (string, string, error) {
	if cred.Bearer != "" {
		claims, err := s.tokens.VerifyAccessToken(ctx, cred.Bearer)
		if err != nil {
			return "", "", err
		}
		return claims.SessionKey, claims.UserID, nil
	}

	if cred.Cookie == "" {
		return "", "", core.UnauthorizedError("")
	}

	sid, ok := s.signer.Verify(cred.Cookie)
	if !ok {
		return "", "", core.UnauthorizedError("")
	}

	return core.HashToken(sid), "", nil
}

// BeginLogin stores a single use state and nonce and returns the provider
// authorization URL.
func (s *Service) BeginLogin(ctx context.Context) (string, error) {
	state, err := core.GenerateSecureToken(stateBytes)
	if err != nil {
		return "", err
	}

	nonce, err := core.GenerateSecureToken(nonceBytes)
	if err != nil {
		return "", err
	}

	ls := LoginState{Nonce: nonce, CreatedAt: s.now()}
	if err := s.repo.SaveState(ctx, state, ls, s.cfg.StateTTL); err != nil {
		return "", err
	}

	return s.provider.AuthCodeURL(ctx, state, nonce)
}

// CompleteLogin finishes the callback and returns the signed cookie value
// of the new session.
func (s *Service) CompleteLogin(
	ctx context.Context,
	state, code string,
) (string, error) {
	if state == "" || code == "" {
		return "", ErrInvalidState
	}

	ls, err := s.repo.TakeState(ctx, state)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", ErrInvalidState
		}
		return "", err
	}

	tokens, err := s.provider.Exchange(ctx, code, ls.Nonce)
	if err != nil {
		return "", err
	}
	if tokens.Claims == nil {
		return "", fmt.Errorf("exchange returned no claims: %w", core.ErrTokenInvalid)
	}

	user, err := s.userProvider.UpsertFromClaims(ctx, *tokens.Claims)
	if err != nil {
		return "", fmt.Errorf("upsert user: %w", err)
	}

	sid, err := core.GenerateSessionID()
	if err != nil {
		return "", err
	}

	sess := &Session{
		UserID:       user.ID,
		Claims:       *tokens.Claims,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, core.HashToken(sid), sess, s.cfg.TTL); err != nil {
		return "", err
	}

	return s.signer.Sign(sid), nil
}

// Logout removes the session behind cred, if any, and returns where the
// browser should go next.
func (s *Service) Logout(
	ctx context.Context,
	cred middleware.Credential,
) string {
	if key, _, err := s.sessionKey(ctx, cred); err == nil {
		if err := s.repo.Delete(ctx, key); err != nil {
			slog.Warn("delete session on logout", "error", err)
		}
	}

	target, err := s.provider.EndSessionURL(ctx, s.postLogoutURL)
	if err != nil {
		slog.Warn("build end session url", "error", err)
		return "/"
	}
	if target == "" {
		return "/"
	}

	return target
}

func (s *Service) IssueAccessToken(
	identity *middleware.Identity,
) (*TokenResponse, error) {
	token, expiresAt, err := s.tokens.CreateAccessToken(AccessTokenClaims{
		UserID:     identity.UserID,
		SessionKey: identity.SessionKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(expiresAt.Sub(s.now()) / time.Second),
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserInfo, error) {
	return s.userProvider.GetByID(ctx, userID)
}

var _ middleware.SessionAuthenticator = (*Service)(nil)

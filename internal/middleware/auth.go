// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

const (
	IdentityKey contextKey = "identity"
	UserRoleKey contextKey = "user_role"
)

// Credential is whatever the request presented: the raw session cookie
// value, a bearer token, or both.
type Credential struct {
	Cookie string
	Bearer string
}

func (c Credential) Empty() bool {
	return c.Cookie == "" && c.Bearer == ""
}

// Identity is the authenticated caller. Roles are read per request.
type Identity struct {
	UserID     string
	SessionKey string
}

type SessionAuthenticator interface {
	Authenticate(ctx context.Context, cred Credential) (*Identity, error)
}

type RoleLookup interface {
	GetRole(ctx context.Context, userID string) (string, error)
}

func Authenticator(
	authn SessionAuthenticator,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred := ExtractCredential(r, cookieName)

			if cred.Empty() {
				core.Unauthorized(w, "")
				return
			}

			identity, err := authn.Authenticate(r.Context(), cred)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth attaches an identity when the credential is valid and
// otherwise lets the request through anonymously.
func OptionalAuth(
	authn SessionAuthenticator,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred := ExtractCredential(r, cookieName)

			if !cred.Empty() {
				identity, err := authn.Authenticate(r.Context(), cred)
				if err == nil {
					r = r.WithContext(WithIdentity(r.Context(), identity))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole reads the caller's persisted role on every request. It must
// run after Authenticator.
func RequireRole(
	lookup RoleLookup,
	roles ...string,
) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if identity == nil {
				core.Unauthorized(w, "")
				return
			}

			role, err := lookup.GetRole(r.Context(), identity.UserID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.Forbidden(w, "")
					return
				}
				core.InternalServerError(w, err)
				return
			}

			if _, ok := roleSet[role]; !ok {
				core.Forbidden(w, "")
				return
			}

			ctx := context.WithValue(r.Context(), UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ExtractCredential(r *http.Request, cookieName string) Credential {
	var cred Credential

	if cookie, err := r.Cookie(cookieName); err == nil {
		cred.Cookie = cookie.Value
	}
	cred.Bearer = ExtractToken(r)

	return cred
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid), errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	default:
		core.InternalServerError(w, err)
	}
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.UserID
	}
	return ""
}

// GetUserRole is only populated behind RequireRole.
func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

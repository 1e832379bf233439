// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

const (
	sessionKeyPrefix = "session:"
	stateKeyPrefix   = "oidc_state:"
)

// Repository persists sessions and pending login states. Sessions are
// addressed by their session key, the hash of the id carried in the cookie.
type Repository interface {
	Create(ctx context.Context, key string, sess *Session, ttl time.Duration) error
	Get(ctx context.Context, key string) (*Session, error)
	// Save replaces a session and keeps its remaining lifetime.
	Save(ctx context.Context, key string, sess *Session) error
	Delete(ctx context.Context, key string) error

	SaveState(ctx context.Context, state string, ls LoginState, ttl time.Duration) error
	// TakeState returns and removes a login state so it can be used once.
	TakeState(ctx context.Context, state string) (*LoginState, error)
}

type repository struct {
	redis *core.Redis
}

func NewRepository(r *core.Redis) Repository {
	return &repository{redis: r}
}

func (r *repository) Create(
	ctx context.Context,
	key string,
	sess *Session,
	ttl time.Duration,
) error {
	if err := r.redis.SetJSON(ctx, sessionKeyPrefix+key, sess, ttl); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *repository) Get(ctx context.Context, key string) (*Session, error) {
	var sess Session
	if err := r.redis.GetJSON(ctx, sessionKeyPrefix+key, &sess); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

func (r *repository) Save(ctx context.Context, key string, sess *Session) error {
	if err := r.redis.SetJSON(ctx, sessionKeyPrefix+key, sess, redis.KeepTTL); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, key string) error {
	if err := r.redis.Delete(ctx, sessionKeyPrefix+key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *repository) SaveState(
	ctx context.Context,
	state string,
	ls LoginState,
	ttl time.Duration,
) error {
	if err := r.redis.SetJSON(ctx, stateKeyPrefix+state, ls, ttl); err != nil {
		return fmt.Errorf("save login state: %w", err)
	}
	return nil
}

func (r *repository) TakeState(
	ctx context.Context,
	state string,
) (*LoginState, error) {
	var ls LoginState
	if err := r.redis.TakeJSON(ctx, stateKeyPrefix+state, &ls); err != nil {
		return nil, fmt.Errorf("take login state: %w", err)
	}
	return &ls, nil
}

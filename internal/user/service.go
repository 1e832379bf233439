// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/JJ-P1114/jj-p1114-studio/internal/auth"
	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertFromClaims records the identity provider profile of a user that
// just signed in. Claims.Role only seeds the role of a new row.
func (s *Service) UpsertFromClaims(
	ctx context.Context,
	claims auth.Claims,
) (*auth.UserInfo, error) {
	if claims.Subject == "" {
		return nil, fmt.Errorf("upsert user: empty subject: %w", core.ErrInvalidInput)
	}

	user := &User{
		ID:              claims.Subject,
		Email:           optional(strings.ToLower(claims.Email)),
		FirstName:       optional(claims.FirstName),
		LastName:        optional(claims.LastName),
		ProfileImageURL: optional(claims.ProfileImageURL),
		Role:            claims.Role,
	}

	if user.Role != "" && !ValidRole(user.Role) {
		user.Role = RoleClient
	}

	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// GetRole always reads the persisted role.
func (s *Service) GetRole(ctx context.Context, id string) (string, error) {
	return s.repo.GetRole(ctx, id)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	return s.repo.UpdateRole(ctx, id, role)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:              u.ID,
		Email:           deref(u.Email),
		FirstName:       deref(u.FirstName),
		LastName:        deref(u.LastName),
		ProfileImageURL: deref(u.ProfileImageURL),
		Role:            u.Role,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)

// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetRole(ctx context.Context, id string) (string, error)
	UpdateRole(ctx context.Context, id, role string) (*User, error)
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, first_name, last_name, profile_image_url,
		       role, created_at, updated_at`

// Upsert inserts the user or refreshes its profile fields. The role column
// is only written on insert.
func (r *repository) Upsert(ctx context.Context, user *User) error {
	if user.Role == "" {
		user.Role = RoleClient
	}

	query := `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			email             = EXCLUDED.email,
			first_name        = EXCLUDED.first_name,
			last_name         = EXCLUDED.last_name,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at        = NOW()
		RETURNING ` + userColumns

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.ProfileImageURL,
		user.Role,
	)
	if err != nil {
		if core.IsUniqueViolation(err, "users_email_key") {
			return fmt.Errorf("upsert user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetRole(ctx context.Context, id string) (string, error) {
	var role string
	err := r.db.GetContext(ctx, &role, `SELECT role FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get role: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get role: %w", err)
	}

	return role, nil
}

func (r *repository) UpdateRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, id, role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update role: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	return &user, nil
}

// listQuery filters with static predicates so the statement text never
// changes. An empty pattern or role disables that filter.
const listQuery = `
	SELECT ` + userColumns + `, COUNT(*) OVER () AS total
	FROM users
	WHERE ($1 = '' OR email ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1)
	  AND ($2 = '' OR role = $2)
	ORDER BY created_at DESC, id
	LIMIT $3 OFFSET $4`

type listedUser struct {
	User
	Total int `db:"total"`
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	pattern := ""
	if params.Search != "" {
		pattern = "%" + escapeLike(params.Search) + "%"
	}

	var rows []listedUser
	err := r.db.SelectContext(ctx, &rows, listQuery,
		pattern, params.Role, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	users := make([]User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.User)
	}

	if len(rows) > 0 {
		return users, rows[0].Total, nil
	}

	// A page past the end carries no window count.
	var total int
	err = r.db.GetContext(ctx, &total, `
		SELECT COUNT(*) FROM users
		WHERE ($1 = '' OR email ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1)
		  AND ($2 = '' OR role = $2)`,
		pattern, params.Role)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

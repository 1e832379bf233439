// AngelaMos | 2026
// repository.go

package license

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

type Repository interface {
	// Create returns ErrKeyCollision when the key is already taken.
	Create(ctx context.Context, l *License) error
	ListByUser(ctx context.Context, userID string) ([]License, error)
	GetByKey(ctx context.Context, key string) (*License, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const licenseColumns = `id, user_id, software_id, order_id, license_key,
		       is_active, expires_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, l *License) error {
	query := `
		INSERT INTO licenses (user_id, software_id, order_id, license_key, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		l.UserID,
		l.SoftwareID,
		l.OrderID,
		l.LicenseKey,
		l.IsActive,
		l.ExpiresAt,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if core.IsUniqueViolation(err, KeyConstraint) {
			return fmt.Errorf("create license: %w", ErrKeyCollision)
		}
		return fmt.Errorf("create license: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]License, error) {
	query := `
		SELECT ` + licenseColumns + `
		FROM licenses
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	items := []License{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}

	return items, nil
}

func (r *repository) GetByKey(ctx context.Context, key string) (*License, error) {
	query := `SELECT ` + licenseColumns + ` FROM licenses WHERE license_key = $1`

	var l License
	err := r.db.GetContext(ctx, &l, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get license: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get license: %w", err)
	}

	return &l, nil
}

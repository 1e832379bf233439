// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

type Repository interface {
	Create(ctx context.Context, s *Software) error
	GetByID(ctx context.Context, id int64) (*Software, error)
	ListActive(ctx context.Context) ([]Software, error)
	Update(ctx context.Context, s *Software) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const softwareColumns = `id, name, description, price, image_url, features,
		       is_active, created_at, updated_at`

func (r *repository) Create(ctx context.Context, s *Software) error {
	query := `
		INSERT INTO software (name, description, price, image_url, features, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.Name,
		s.Description,
		s.Price,
		s.ImageURL,
		s.Features,
		s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create software: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Software, error) {
	query := `SELECT ` + softwareColumns + ` FROM software WHERE id = $1`

	var s Software
	err := r.db.GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get software: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get software: %w", err)
	}

	return &s, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Software, error) {
	query := `
		SELECT ` + softwareColumns + `
		FROM software
		WHERE is_active = TRUE
		ORDER BY created_at DESC, id DESC`

	items := []Software{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list software: %w", err)
	}

	return items, nil
}

func (r *repository) Update(ctx context.Context, s *Software) error {
	query := `
		UPDATE software
		SET name = $2, description = $3, price = $4, image_url = $5,
		    features = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &s.UpdatedAt, query,
		s.ID,
		s.Name,
		s.Description,
		s.Price,
		s.ImageURL,
		s.Features,
		s.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update software: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update software: %w", err)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM software`); err != nil {
		return 0, fmt.Errorf("count software: %w", err)
	}
	return n, nil
}

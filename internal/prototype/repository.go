// AngelaMos | 2026
// repository.go

package prototype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

// Repository scopes owner reads and writes in SQL. A missing row and a row
// owned by someone else both surface as core.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, p *Prototype) error
	GetOwned(ctx context.Context, id int64, userID string) (*Prototype, error)
	UpdateOwned(ctx context.Context, p *Prototype) error
	ListByUser(ctx context.Context, userID string) ([]Prototype, error)
	ListAll(ctx context.Context) ([]Prototype, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Prototype, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const prototypeColumns = `id, user_id, name, description, components, comments,
		       specifications, status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, p *Prototype) error {
	query := `
		INSERT INTO prototypes (user_id, name, description, components, comments, specifications, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.UserID,
		p.Name,
		p.Description,
		p.Components,
		p.Comments,
		p.Specifications,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create prototype: %w", err)
	}

	return nil
}

func (r *repository) GetOwned(
	ctx context.Context,
	id int64,
	userID string,
) (*Prototype, error) {
	query := `
		SELECT ` + prototypeColumns + `
		FROM prototypes
		WHERE id = $1 AND user_id = $2`

	var p Prototype
	err := r.db.GetContext(ctx, &p, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get prototype: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get prototype: %w", err)
	}

	return &p, nil
}

func (r *repository) UpdateOwned(ctx context.Context, p *Prototype) error {
	query := `
		UPDATE prototypes
		SET name = $3,
		    description = $4,
		    components = $5,
		    comments = $6,
		    specifications = $7,
		    status = $8,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		p.Description,
		p.Components,
		p.Comments,
		p.Specifications,
		p.Status,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update prototype: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update prototype: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Prototype, error) {
	query := `
		SELECT ` + prototypeColumns + `
		FROM prototypes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	items := []Prototype{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list prototypes: %w", err)
	}

	return items, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Prototype, error) {
	query := `
		SELECT ` + prototypeColumns + `
		FROM prototypes
		ORDER BY created_at DESC, id DESC`

	items := []Prototype{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list all prototypes: %w", err)
	}

	return items, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id int64,
	status string,
) (*Prototype, error) {
	query := `
		UPDATE prototypes
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + prototypeColumns

	var p Prototype
	err := r.db.GetContext(ctx, &p, query, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update prototype status: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update prototype status: %w", err)
	}

	return &p, nil
}

// AngelaMos | 2026
// repository.go

package inquiry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

type Repository interface {
	Create(ctx context.Context, i *Inquiry) error
	ListByUser(ctx context.Context, userID string) ([]Inquiry, error)
	ListAll(ctx context.Context) ([]Inquiry, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Inquiry, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const inquiryColumns = `id, user_id, name, email, project_type, description,
		       status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, i *Inquiry) error {
	query := `
		INSERT INTO inquiries (user_id, name, email, project_type, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		i.UserID,
		i.Name,
		i.Email,
		i.ProjectType,
		i.Description,
		i.Status,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Inquiry, error) {
	query := `
		SELECT ` + inquiryColumns + `
		FROM inquiries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	items := []Inquiry{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}

	return items, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Inquiry, error) {
	query := `
		SELECT ` + inquiryColumns + `
		FROM inquiries
		ORDER BY created_at DESC, id DESC`

	items := []Inquiry{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list all inquiries: %w", err)
	}

	return items, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id int64,
	status string,
) (*Inquiry, error) {
	query := `
		UPDATE inquiries
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + inquiryColumns

	var i Inquiry
	err := r.db.GetContext(ctx, &i, query, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update inquiry status: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update inquiry status: %w", err)
	}

	return &i, nil
}

// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/license"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, o *Order, status string) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListRecent(ctx context.Context, limit int) ([]Order, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const (
	orderColumns = `id, user_id, software_id, status, total_amount, created_at, updated_at`

	softwareForeignKey = "orders_software_id_fkey"
)

func (r *repository) Create(ctx context.Context, o *Order) error {
	query := `
		INSERT INTO orders (user_id, software_id, status, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	if o.Status == "" {
		o.Status = StatusPending
	}

	err := r.db.QueryRowxContext(ctx, query,
		o.UserID,
		o.SoftwareID,
		o.Status,
		o.TotalAmount,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if core.IsForeignKeyViolation(err, softwareForeignKey) {
		return fmt.Errorf("create order: software %d: %w", o.SoftwareID, ErrSoftwareMissing)
	}
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	o *Order,
	status string,
) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query, o.ID, status).Scan(&o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update order status: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	o.Status = status
	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	items := []Order{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return items, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, id DESC`

	items := []Order{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}

	return items, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	items := []Order{}
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}

	return items, nil
}

// Stores groups the repositories that take part in a purchase.
type Stores struct {
	Orders   Repository
	Licenses license.Repository
}

// TxRunner runs fn with stores bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type TxRunner func(ctx context.Context, fn func(Stores) error) error

func NewTxRunner(db *sqlx.DB) TxRunner {
	return func(ctx context.Context, fn func(Stores) error) error {
		return core.InTx(ctx, db, func(tx *sqlx.Tx) error {
			return fn(Stores{
				Orders:   NewRepository(tx),
				Licenses: license.NewRepository(tx),
			})
		})
	}
}

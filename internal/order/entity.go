// AngelaMos | 2026
// entity.go

package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrSoftwareMissing is returned when an order references a catalog item
// deleted between lookup and insert.
var ErrSoftwareMissing = errors.New("software no longer exists")

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Order struct {
	ID          int64           `db:"id"`
	UserID      string          `db:"user_id"`
	SoftwareID  int64           `db:"software_id"`
	Status      string          `db:"status"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}


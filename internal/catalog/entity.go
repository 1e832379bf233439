// AngelaMos | 2026
// entity.go

package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Software struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description *string         `db:"description"`
	Price       decimal.Decimal `db:"price"`
	ImageURL    *string         `db:"image_url"`
	Features    Features        `db:"features"`
	IsActive    bool            `db:"is_active"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Features is stored as a JSONB array of strings.
type Features []string

func (f Features) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(f))
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}
	return string(data), nil
}

func (f *Features) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*f = Features{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan features: unsupported type %T", src)
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("scan features: %w", err)
	}
	if out == nil {
		out = []string{}
	}

	*f = out
	return nil
}

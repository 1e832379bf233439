// AngelaMos | 2026
// entity.go

package prototype

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
)

const (
	ComponentButton = "button"
	ComponentInput  = "input"
	ComponentTable  = "table"
	ComponentChart  = "chart"
)

type Prototype struct {
	ID             int64      `db:"id"`
	UserID         string     `db:"user_id"`
	Name           string     `db:"name"`
	Description    *string    `db:"description"`
	Components     Components `db:"components"`
	Comments       *string    `db:"comments"`
	Specifications *string    `db:"specifications"`
	Status         string     `db:"status"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// Component is a positioned UI placeholder on the sketch canvas.
type Component struct {
	ID    string  `json:"id"    validate:"required,max=64"`
	Type  string  `json:"type"  validate:"required,oneof=button input table chart"`
	Label string  `json:"label" validate:"max=255"`
	X     float64 `json:"x"     validate:"gte=0"`
	Y     float64 `json:"y"     validate:"gte=0"`
}

// Components is stored as an ordered JSONB array.
type Components []Component

func (c Components) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]Component(c))
	if err != nil {
		return nil, fmt.Errorf("encode components: %w", err)
	}
	return string(data), nil
}

func (c *Components) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = Components{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan components: unsupported type %T", src)
	}

	var out []Component
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("scan components: %w", err)
	}
	if out == nil {
		out = []Component{}
	}
	*c = out
	return nil
}

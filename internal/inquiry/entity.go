// AngelaMos | 2026
// entity.go

package inquiry

import (
	"time"
)

const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

type Inquiry struct {
	ID          int64     `db:"id"`
	UserID      *string   `db:"user_id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	ProjectType string    `db:"project_type"`
	Description string    `db:"description"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

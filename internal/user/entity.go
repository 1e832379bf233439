// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

// User rows are keyed by the identity provider subject, so the id is never
// generated locally.
type User struct {
	ID              string    `db:"id"`
	Email           *string   `db:"email"`
	FirstName       *string   `db:"first_name"`
	LastName        *string   `db:"last_name"`
	ProfileImageURL *string   `db:"profile_image_url"`
	Role            string    `db:"role"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

const (
	RoleClient = "client"
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
)

func ValidRole(role string) bool {
	switch role {
	case RoleClient, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

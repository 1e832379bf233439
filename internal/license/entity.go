// AngelaMos | 2026
// entity.go

package license

import (
	"errors"
	"time"
)

// KeyConstraint is the unique constraint that guards license keys.
const KeyConstraint = "licenses_license_key_key"

// ErrKeyCollision means a freshly generated key already exists.
var ErrKeyCollision = errors.New("license key collision")

type License struct {
	ID         int64      `db:"id"`
	UserID     string     `db:"user_id"`
	SoftwareID int64      `db:"software_id"`
	OrderID    int64      `db:"order_id"`
	LicenseKey string     `db:"license_key"`
	IsActive   bool       `db:"is_active"`
	ExpiresAt  *time.Time `db:"expires_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// Valid reports whether the license may be used at now.
func (l *License) Valid(now time.Time) bool {
	if !l.IsActive {
		return false
	}
	return l.ExpiresAt == nil || now.Before(*l.ExpiresAt)
}

// AngelaMos | 2026
// dto.go

package license

import (
	"time"
)

type LicenseResponse struct {
	ID         int64      `json:"id"`
	UserID     string     `json:"userId"`
	SoftwareID int64      `json:"softwareId"`
	OrderID    int64      `json:"orderId"`
	LicenseKey string     `json:"licenseKey"`
	IsActive   bool       `json:"isActive"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type VerifyResponse struct {
	Valid      bool       `json:"valid"`
	SoftwareID int64      `json:"softwareId"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

func ToLicenseResponse(l *License) LicenseResponse {
	return LicenseResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		SoftwareID: l.SoftwareID,
		OrderID:    l.OrderID,
		LicenseKey: l.LicenseKey,
		IsActive:   l.IsActive,
		ExpiresAt:  l.ExpiresAt,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func ToLicenseResponseList(items []License) []LicenseResponse {
	responses := make([]LicenseResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToLicenseResponse(&items[i]))
	}
	return responses
}

// AngelaMos | 2026
// dto.go

package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateSoftwareRequest struct {
	Name        string           `json:"name"        validate:"required,min=1,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"       validate:"required,gte=0,lt=100000000"`
	ImageURL    *string          `json:"imageUrl"    validate:"omitempty,url,max=1024"`
	Features    []string         `json:"features"    validate:"omitempty,max=50,dive,min=1,max=200"`
	IsActive    *bool            `json:"isActive"`
}

type UpdateSoftwareRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,gte=0,lt=100000000"`
	ImageURL    *string          `json:"imageUrl"    validate:"omitempty,url,max=1024"`
	Features    []string         `json:"features"    validate:"omitempty,max=50,dive,min=1,max=200"`
	IsActive    *bool            `json:"isActive"`
}

type SoftwareResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       string    `json:"price"`
	ImageURL    *string   `json:"imageUrl"`
	Features    []string  `json:"features"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToSoftwareResponse(s *Software) SoftwareResponse {
	features := []string(s.Features)
	if features == nil {
		features = []string{}
	}

	return SoftwareResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price.StringFixed(2),
		ImageURL:    s.ImageURL,
		Features:    features,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func ToSoftwareResponseList(items []Software) []SoftwareResponse {
	responses := make([]SoftwareResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToSoftwareResponse(&items[i]))
	}
	return responses
}

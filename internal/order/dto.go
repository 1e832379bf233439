// AngelaMos | 2026
// dto.go

package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/JJ-P1114/jj-p1114-studio/internal/license"
)

type CreateOrderRequest struct {
	SoftwareID  int64            `json:"softwareId"  validate:"required,gt=0"`
	TotalAmount *decimal.Decimal `json:"totalAmount" validate:"required,gt=0,lt=100000000"`
}

// OrderResponse keeps the order fields at the top level. License is only
// set on the purchase response.
type OrderResponse struct {
	ID          int64                    `json:"id"`
	UserID      string                   `json:"userId"`
	SoftwareID  int64                    `json:"softwareId"`
	Status      string                   `json:"status"`
	TotalAmount string                   `json:"totalAmount"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
	License     *license.LicenseResponse `json:"license,omitempty"`
}

func ToOrderResponse(o *Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		SoftwareID:  o.SoftwareID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount.StringFixed(2),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func ToPurchaseResponse(p *Purchase) OrderResponse {
	resp := ToOrderResponse(p.Order)
	if p.License != nil {
		lr := license.ToLicenseResponse(p.License)
		resp.License = &lr
	}
	return resp
}

func ToOrderResponseList(items []Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToOrderResponse(&items[i]))
	}
	return responses
}

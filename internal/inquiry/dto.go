// AngelaMos | 2026
// dto.go

package inquiry

import (
	"time"
)

type CreateInquiryRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Email       string `json:"email"       validate:"required,email,max=255"`
	ProjectType string `json:"projectType" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=10000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new in_progress completed"`
}

type InquiryResponse struct {
	ID          int64     `json:"id"`
	UserID      *string   `json:"userId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ProjectType string    `json:"projectType"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToInquiryResponse(i *Inquiry) InquiryResponse {
	return InquiryResponse{
		ID:          i.ID,
		UserID:      i.UserID,
		Name:        i.Name,
		Email:       i.Email,
		ProjectType: i.ProjectType,
		Description: i.Description,
		Status:      i.Status,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func ToInquiryResponseList(items []Inquiry) []InquiryResponse {
	responses := make([]InquiryResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToInquiryResponse(&items[i]))
	}
	return responses
}

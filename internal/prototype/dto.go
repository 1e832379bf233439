// AngelaMos | 2026
// dto.go

package prototype

import (
	"time"
)

type CreatePrototypeRequest struct {
	Name           string      `json:"name"           validate:"required,max=255"`
	Description    *string     `json:"description"    validate:"omitempty,max=10000"`
	Components     []Component `json:"components"     validate:"omitempty,max=200,dive"`
	Comments       *string     `json:"comments"       validate:"omitempty,max=10000"`
	Specifications *string     `json:"specifications" validate:"omitempty,max=10000"`
}

// UpdatePrototypeRequest is a partial update. Owners may move a sketch
// between draft and submitted; approval is reserved to staff.
type UpdatePrototypeRequest struct {
	Name           *string     `json:"name"           validate:"omitempty,min=1,max=255"`
	Description    *string     `json:"description"    validate:"omitempty,max=10000"`
	Components     []Component `json:"components"     validate:"omitempty,max=200,dive"`
	Comments       *string     `json:"comments"       validate:"omitempty,max=10000"`
	Specifications *string     `json:"specifications" validate:"omitempty,max=10000"`
	Status         *string     `json:"status"         validate:"omitempty,oneof=draft submitted"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft submitted approved"`
}

type PrototypeResponse struct {
	ID             int64       `json:"id"`
	UserID         string      `json:"userId"`
	Name           string      `json:"name"`
	Description    *string     `json:"description"`
	Components     []Component `json:"components"`
	Comments       *string     `json:"comments"`
	Specifications *string     `json:"specifications"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

func ToPrototypeResponse(p *Prototype) PrototypeResponse {
	components := []Component(p.Components)
	if components == nil {
		components = []Component{}
	}

	return PrototypeResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		Name:           p.Name,
		Description:    p.Description,
		Components:     components,
		Comments:       p.Comments,
		Specifications: p.Specifications,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func ToPrototypeResponseList(items []Prototype) []PrototypeResponse {
	responses := make([]PrototypeResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToPrototypeResponse(&items[i]))
	}
	return responses
}

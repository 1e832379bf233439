// AngelaMos | 2026
// service.go

package prototype

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreatePrototypeRequest,
) (*Prototype, error) {
	p := &Prototype{
		UserID:         userID,
		Name:           req.Name,
		Description:    req.Description,
		Components:     Components(req.Components),
		Comments:       req.Comments,
		Specifications: req.Specifications,
		Status:         StatusDraft,
	}
	if p.Components == nil {
		p.Components = Components{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64, userID string) (*Prototype, error) {
	return s.repo.GetOwned(ctx, id, userID)
}

// Update applies a partial update to a prototype the caller owns.
func (s *Service) Update(
	ctx context.Context,
	id int64,
	userID string,
	req UpdatePrototypeRequest,
) (*Prototype, error) {
	p, err := s.repo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Components != nil {
		p.Components = Components(req.Components)
	}
	if req.Comments != nil {
		p.Comments = req.Comments
	}
	if req.Specifications != nil {
		p.Specifications = req.Specifications
	}
	if req.Status != nil {
		p.Status = *req.Status
	}

	if err := s.repo.UpdateOwned(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Prototype, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]Prototype, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	id int64,
	status string,
) (*Prototype, error) {
	return s.repo.UpdateStatus(ctx, id, status)
}

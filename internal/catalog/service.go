// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"
	"log/slog"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Software, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Software, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateSoftwareRequest,
) (*Software, error) {
	sw := &Software{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		ImageURL:    req.ImageURL,
		Features:    Features(req.Features),
		IsActive:    true,
	}
	if sw.Features == nil {
		sw.Features = Features{}
	}
	if req.IsActive != nil {
		sw.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, sw); err != nil {
		return nil, err
	}

	return sw, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateSoftwareRequest,
) (*Software, error) {
	sw, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sw.Name = *req.Name
	}
	if req.Description != nil {
		sw.Description = req.Description
	}
	if req.Price != nil {
		sw.Price = req.Price.Round(2)
	}
	if req.ImageURL != nil {
		sw.ImageURL = req.ImageURL
	}
	if req.Features != nil {
		sw.Features = Features(req.Features)
	}
	if req.IsActive != nil {
		sw.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, sw); err != nil {
		return nil, err
	}

	return sw, nil
}

// Seed inserts the default catalog when the software table is empty.
func (s *Service) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for _, p := range defaultCatalog {
		sw := p.software()
		if err := s.repo.Create(ctx, &sw); err != nil {
			return 0, fmt.Errorf("seed %s: %w", p.name, err)
		}
		slog.Debug("seeded software", "id", sw.ID, "name", sw.Name)
	}

	return len(defaultCatalog), nil
}

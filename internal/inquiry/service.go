// AngelaMos | 2026
// service.go

package inquiry

import (
	"context"
	"log/slog"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit stores a new inquiry. An empty userID records an anonymous one.
func (s *Service) Submit(
	ctx context.Context,
	userID string,
	req CreateInquiryRequest,
) (*Inquiry, error) {
	i := &Inquiry{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		ProjectType: strings.TrimSpace(req.ProjectType),
		Description: req.Description,
		Status:      StatusNew,
	}
	if userID != "" {
		i.UserID = &userID
	}

	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "inquiry received",
		"inquiry_id", i.ID,
		"project_type", i.ProjectType,
		"anonymous", i.UserID == nil,
	)

	return i, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Inquiry, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]Inquiry, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	id int64,
	status string,
) (*Inquiry, error) {
	return s.repo.UpdateStatus(ctx, id, status)
}

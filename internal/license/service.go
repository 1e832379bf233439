// AngelaMos | 2026
// service.go

package license

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]License, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Verify looks a key up. Malformed keys are reported as not found so the
// endpoint cannot be used to probe the key format.
func (s *Service) Verify(ctx context.Context, key string) (*VerifyResponse, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if _, _, err := ParseKey(key); err != nil {
		return nil, fmt.Errorf("verify license: %w", core.ErrNotFound)
	}

	l, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	return &VerifyResponse{
		Valid:      l.Valid(s.now()),
		SoftwareID: l.SoftwareID,
		ExpiresAt:  l.ExpiresAt,
	}, nil
}

// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/JJ-P1114/jj-p1114-studio/internal/catalog"
	"github.com/JJ-P1114/jj-p1114-studio/internal/config"
	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/license"
)

type SoftwareReader interface {
	GetByID(ctx context.Context, id int64) (*catalog.Software, error)
}

// IssuanceRecorder is implemented by *core.Metrics.
type IssuanceRecorder interface {
	OrderIssued(ctx context.Context, softwareID int64, amount float64)
	IssuanceFailed(ctx context.Context, reason string)
	LicenseKeyCollision(ctx context.Context)
}

// Purchase is a completed order together with the license minted for it.
type Purchase struct {
	Order   *Order
	License *license.License
}

type Service struct {
	repo     Repository
	tx       TxRunner
	software SoftwareReader
	recorder IssuanceRecorder
	cfg      config.OrdersConfig
	now      func() time.Time
	newKey   func(softwareID int64, now time.Time) (string, error)
}

func NewService(
	repo Repository,
	tx TxRunner,
	software SoftwareReader,
	recorder IssuanceRecorder,
	cfg config.OrdersConfig,
) *Service {
	if recorder == nil {
		recorder = (*core.Metrics)(nil)
	}
	if cfg.KeyAttempts < 1 {
		cfg.KeyAttempts = 1
	}

	return &Service{
		repo:     repo,
		tx:       tx,
		software: software,
		recorder: recorder,
		cfg:      cfg,
		now:      time.Now,
		newKey:   license.GenerateKey,
	}
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

// Purchase creates an order and its license in one transaction. A license
// key collision restarts the whole transaction with a fresh key.
func (s *Service) Purchase(
	ctx context.Context,
	userID string,
	req CreateOrderRequest,
) (*Purchase, error) {
	ctx, span := core.StartSpan(ctx, "order.purchase",
		attribute.String("user.id", userID),
		attribute.Int64("software.id", req.SoftwareID),
	)
	defer span.End()

	amount, err := s.resolveAmount(ctx, req)
	if err != nil {
		s.recorder.IssuanceFailed(ctx, "rejected")
		return nil, err
	}

	for attempt := 1; attempt <= s.cfg.KeyAttempts; attempt++ {
		p, err := s.issue(ctx, userID, req.SoftwareID, amount)
		if err == nil {
			f, _ := amount.Float64()
			s.recorder.OrderIssued(ctx, req.SoftwareID, f)
			slog.InfoContext(ctx, "order issued",
				"order_id", p.Order.ID,
				"license_id", p.License.ID,
				"software_id", req.SoftwareID,
				"attempt", attempt,
			)
			return p, nil
		}

		if errors.Is(err, ErrSoftwareMissing) {
			s.recorder.IssuanceFailed(ctx, "rejected")
			return nil, core.NotFoundError("Software")
		}

		if !errors.Is(err, license.ErrKeyCollision) {
			s.recorder.IssuanceFailed(ctx, "store")
			core.SetSpanError(ctx, err)
			return nil, core.InternalError(fmt.Errorf("purchase: %w", err))
		}

		s.recorder.LicenseKeyCollision(ctx)
		core.AddSpanEvent(ctx, "license_key_collision", attribute.Int("attempt", attempt))
		slog.WarnContext(ctx, "license key collision, retrying",
			"software_id", req.SoftwareID,
			"attempt", attempt,
		)
	}

	err = fmt.Errorf("purchase: %w after %d attempts",
		license.ErrKeyCollision, s.cfg.KeyAttempts)
	s.recorder.IssuanceFailed(ctx, "key_exhausted")
	core.SetSpanError(ctx, err)
	return nil, core.InternalError(err)
}

func (s *Service) issue(
	ctx context.Context,
	userID string,
	softwareID int64,
	amount decimal.Decimal,
) (*Purchase, error) {
	var p Purchase

	err := s.tx(ctx, func(st Stores) error {
		o := &Order{
			UserID:      userID,
			SoftwareID:  softwareID,
			Status:      StatusPending,
			TotalAmount: amount,
		}
		if err := st.Orders.Create(ctx, o); err != nil {
			return err
		}

		key, err := s.newKey(softwareID, s.now())
		if err != nil {
			return err
		}

		l := &license.License{
			UserID:     userID,
			SoftwareID: softwareID,
			OrderID:    o.ID,
			LicenseKey: key,
			IsActive:   true,
		}
		if err := st.Licenses.Create(ctx, l); err != nil {
			return err
		}

		if err := st.Orders.UpdateStatus(ctx, o, StatusCompleted); err != nil {
			return err
		}

		p = Purchase{Order: o, License: l}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Service) resolveAmount(
	ctx context.Context,
	req CreateOrderRequest,
) (decimal.Decimal, error) {
	if req.SoftwareID <= 0 {
		return decimal.Zero, core.ValidationError("softwareId must be positive", "softwareId")
	}
	if req.TotalAmount == nil || !req.TotalAmount.IsPositive() {
		return decimal.Zero, core.ValidationError("totalAmount must be positive", "totalAmount")
	}

	sw, err := s.software.GetByID(ctx, req.SoftwareID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return decimal.Zero, core.NotFoundError("Software")
		}
		return decimal.Zero, core.InternalError(err)
	}

	amount := req.TotalAmount.Round(2)

	if s.cfg.PricePolicy == config.PricePolicyRequest {
		return amount, nil
	}

	if !sw.IsActive {
		return decimal.Zero, core.NotFoundError("Software")
	}
	if !amount.Equal(sw.Price) {
		return decimal.Zero, core.ValidationError(
			"totalAmount does not match the catalog price",
			"totalAmount",
		)
	}

	return sw.Price, nil
}

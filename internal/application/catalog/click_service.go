package catalog

import (
	"context"
	"sort"

	"github.com/garimpo/backend/internal/domain/catalog"
	"github.com/garimpo/backend/internal/domain/shared"
	"github.com/garimpo/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ClickCounter is the live counter kept next to the persistent click log.
// Implemented by the Redis counter in infrastructure.
type ClickCounter interface {
	Increment(ctx context.Context, productID uuid.UUID) (int64, error)
}

// ClickService records outbound redirects and aggregates click statistics
type ClickService struct {
	productRepo catalog.ProductRepository
	clickRepo   catalog.ClickRepository
	counter     ClickCounter
	logger      *zap.Logger
}

// NewClickService creates a new ClickService. The counter is optional; when
// nil only the persistent log is written.
func NewClickService(
	productRepo catalog.ProductRepository,
	clickRepo catalog.ClickRepository,
	counter ClickCounter,
	logger *zap.Logger,
) *ClickService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClickService{
		productRepo: productRepo,
		clickRepo:   clickRepo,
		counter:     counter,
		logger:      logger,
	}
}

// Record resolves the outbound URL for an active product and logs the click.
// Draft products are invisible on the public surface, so they resolve to
// ErrNotFound. A failed click write never blocks the redirect.
func (s *ClickService) Record(ctx context.Context, slug, referrer, userAgent, clientIP string) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "click", "record",
		telemetry.WithAttribute(telemetry.SpanAttrSlug, slug))
	defer span.End()

	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if !product.IsActive {
		return "", shared.ErrNotFound
	}

	click := catalog.NewClick(product.ID, referrer, userAgent, clientIP)
	if err := s.clickRepo.Save(ctx, click); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("failed to record click",
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
	}

	if s.counter != nil {
		if _, err := s.counter.Increment(ctx, product.ID); err != nil {
			s.logger.Warn("failed to bump click counter",
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
		}
	}

	return product.RedirectURL(), nil
}

// Stats aggregates the click log per product, with each product's share of
// the total as a percentage. Sorted by click count, busiest first.
func (s *ClickService) Stats(ctx context.Context) ([]ProductClickStats, error) {
	counts, err := s.clickRepo.CountByProduct(ctx)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return []ProductClickStats{}, nil
	}

	var total int64
	for _, count := range counts {
		total += count
	}
	totalDec := decimal.NewFromInt(total)
	hundred := decimal.NewFromInt(100)

	stats := make([]ProductClickStats, 0, len(counts))
	for productID, count := range counts {
		entry := ProductClickStats{
			ProductID: productID,
			Clicks:    count,
			Share:     decimal.NewFromInt(count).Mul(hundred).Div(totalDec).Round(2),
		}

		// Deleted products cascade their clicks away, but a row can still
		// race the delete. Keep the count, leave slug and title empty.
		if product, err := s.productRepo.FindByID(ctx, productID); err == nil {
			entry.Slug = product.Slug
			entry.Title = product.Title
		}

		stats = append(stats, entry)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Clicks != stats[j].Clicks {
			return stats[i].Clicks > stats[j].Clicks
		}
		return stats[i].Slug < stats[j].Slug
	})

	return stats, nil
}

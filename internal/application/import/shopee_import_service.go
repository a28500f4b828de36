// Package importapp runs the Shopee catalog import: parse, reconcile
// against existing records by external id, and report the per-run diff.
package importapp

import (
	"context"
	"errors"

	"github.com/garimpo/backend/internal/domain/catalog"
	csvimport "github.com/garimpo/backend/internal/infrastructure/import"
	"github.com/garimpo/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrImageNotFound is returned by an Enricher when the origin page carries
// no og:image. Callers treat it as a non-error outcome.
var ErrImageNotFound = errors.New("og_image_not_found")

// Enricher fetches a representative image for a freshly imported product.
// It returns the image URL, or "" when the step decided to skip.
type Enricher interface {
	Enrich(ctx context.Context, productID uuid.UUID, originURL string) (string, error)
}

// ImportResult aggregates one import run: counts plus the union of parse,
// reconciliation and enrichment errors, each tagged with its source line.
type ImportResult struct {
	Imported int                     `json:"imported"`
	Updated  int                     `json:"updated"`
	Ignored  int                     `json:"ignored"`
	Enriched int                     `json:"enriched,omitempty"`
	Errors   []csvimport.ImportError `json:"errors"`
}

// ShopeeImportService reconciles parsed Shopee rows against the catalog.
//
// The existing-id snapshot is taken once, before any writes; concurrent
// imports of the same file are not guarded against and may double-insert.
// The unique index on external_id degrades that race into an insert error
// counted as ignored.
type ShopeeImportService struct {
	products catalog.ProductRepository
	enricher Enricher
	logger   *zap.Logger
}

// NewShopeeImportService creates a new ShopeeImportService. The enricher
// may be nil, in which case image enrichment is never attempted.
func NewShopeeImportService(products catalog.ProductRepository, enricher Enricher, logger *zap.Logger) *ShopeeImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShopeeImportService{
		products: products,
		enricher: enricher,
		logger:   logger,
	}
}

// Import runs the whole pipeline over raw CSV text. Rows are written one at
// a time in file order with no wrapping transaction: a failed row never
// aborts the rest, and partial completion is reflected faithfully in the
// counts. Nothing propagates as a Go error; every failure lands in the
// result's error list.
func (s *ShopeeImportService) Import(ctx context.Context, fileText string, fetchImages bool) *ImportResult {
	ctx, span := telemetry.StartServiceSpan(ctx, "import", "shopee")
	defer span.End()

	result := &ImportResult{Errors: []csvimport.ImportError{}}

	rows, parseErrs := csvimport.Parse(fileText)
	result.Errors = append(result.Errors, parseErrs...)
	if len(rows) == 0 {
		return result
	}

	externalIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		externalIDs = append(externalIDs, row.ExternalID)
	}

	existing, err := s.products.FindByExternalIDs(ctx, externalIDs)
	if err != nil {
		s.logger.Error("Import lookup failed", zap.Error(err), zap.Int("rows", len(rows)))
		for _, row := range rows {
			result.Errors = append(result.Errors, csvimport.NewImportError(row.Line, err.Error()))
		}
		return result
	}

	knownIDs := make(map[string]uuid.UUID, len(existing))
	for _, p := range existing {
		if p.ExternalID != nil {
			knownIDs[*p.ExternalID] = p.ID
		}
	}

	for _, row := range rows {
		if productID, known := knownIDs[row.ExternalID]; known {
			s.updateRow(ctx, productID, row, result)
		} else {
			s.insertRow(ctx, row, fetchImages, result)
		}
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrImportRows, len(rows),
		telemetry.SpanAttrImportImported, result.Imported,
		telemetry.SpanAttrImportUpdated, result.Updated,
		telemetry.SpanAttrImportIgnored, result.Ignored,
		telemetry.SpanAttrImportErrors, len(result.Errors),
	)

	s.logger.Info("Import finished",
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("ignored", result.Ignored),
		zap.Int("enriched", result.Enriched),
		zap.Int("errors", len(result.Errors)),
	)

	return result
}

// updateRow mutates only the re-importable columns of a known record. On
// failure the row counts toward neither imported nor updated.
func (s *ShopeeImportService) updateRow(ctx context.Context, productID uuid.UUID, row csvimport.ImportRow, result *ImportResult) {
	err := s.products.UpdateImportFields(ctx, productID, catalog.ImportFields{
		PriceText:    row.PriceText,
		OriginURL:    row.OriginURL,
		AffiliateURL: row.AffiliateURL,
	})
	if err != nil {
		result.Errors = append(result.Errors, csvimport.NewImportError(row.Line, err.Error()))
		return
	}
	result.Updated++
}

// insertRow creates a draft record for a first-seen external id. A failed
// insert counts as ignored; enrichment runs only after a successful insert
// and never alters the insert's outcome.
func (s *ShopeeImportService) insertRow(ctx context.Context, row csvimport.ImportRow, fetchImages bool, result *ImportResult) {
	product := catalog.NewImportedProduct(row.ExternalID, row.Title, row.PriceText, row.StoreName, row.OriginURL, row.AffiliateURL)

	if err := s.products.Save(ctx, product); err != nil {
		result.Ignored++
		result.Errors = append(result.Errors, csvimport.NewImportError(row.Line, err.Error()))
		return
	}
	result.Imported++

	if !fetchImages || s.enricher == nil {
		return
	}

	imageURL, err := s.enricher.Enrich(ctx, product.ID, row.OriginURL)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			return
		}
		result.Errors = append(result.Errors, csvimport.NewImportError(row.Line, err.Error()))
		return
	}
	if imageURL == "" {
		return
	}

	product.AddImage(imageURL)
	if err := s.products.Save(ctx, product); err != nil {
		result.Errors = append(result.Errors, csvimport.NewImportError(row.Line, err.Error()))
		return
	}
	result.Enriched++
}

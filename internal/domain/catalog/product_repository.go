package catalog

import (
	"context"

	"github.com/garimpo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by its unique slug
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindByExternalIDs finds all products whose external id is in the given
	// set, in a single query. Used by the import pipeline for its one batched
	// existence check before the write loop.
	FindByExternalIDs(ctx context.Context, externalIDs []string) ([]Product, error)

	// FindAll finds all products matching the filter, drafts included
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindActive finds active products only, for the public storefront
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// UpdateImportFields updates exactly the re-importable columns
	// (price_text, origin_url, affiliate_url) and nothing else.
	UpdateImportFields(ctx context.Context, id uuid.UUID, fields ImportFields) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ClickRepository defines the interface for click persistence
type ClickRepository interface {
	// Save records one outbound click
	Save(ctx context.Context, click *Click) error

	// CountByProduct returns click counts grouped by product id
	CountByProduct(ctx context.Context) (map[uuid.UUID]int64, error)

	// CountForProduct returns the click count for one product
	CountForProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

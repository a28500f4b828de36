package catalog

import (
	"context"
	"errors"

	"github.com/garimpo/backend/internal/domain/catalog"
	"github.com/garimpo/backend/internal/domain/shared"
	"github.com/garimpo/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ProductService handles catalog operations on the admin surface
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a product by hand. Manual entries carry no external id, so
// later CSV imports never touch them.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create")
	defer span.End()

	slug := catalog.Slugify(req.Title)
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title yields an empty slug")
	}

	if _, err := s.productRepo.FindBySlug(ctx, slug); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return nil, err
	}

	product := &catalog.Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Slug:              slug,
		Title:             req.Title,
		PriceText:         req.PriceText,
		StoreName:         req.StoreName,
		OriginURL:         req.OriginURL,
		AffiliateURL:      req.AffiliateURL,
		Description:       req.Description,
		Category:          req.Category,
		Tags:              pq.StringArray(req.Tags),
		Images:            pq.StringArray(req.Images),
		IsActive:          false,
	}
	if product.Tags == nil {
		product.Tags = pq.StringArray{}
	}
	if product.Images == nil {
		product.Images = pq.StringArray{}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrSlug, slug)
	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", slug))

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetBySlug retrieves a product by slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination, drafts included
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (shared.Paginated[ProductResponse], error) {
	domainFilter := buildDomainFilter(filter)

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}

	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// ListActive retrieves the public storefront page: active products only,
// trimmed to their public shape
func (s *ProductService) ListActive(ctx context.Context, filter ProductListFilter) (shared.Paginated[PublicProductResponse], error) {
	domainFilter := buildDomainFilter(filter)
	domainFilter.Filters["is_active"] = true

	products, err := s.productRepo.FindActive(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[PublicProductResponse]{}, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[PublicProductResponse]{}, err
	}

	items := make([]PublicProductResponse, len(products))
	for i := range products {
		items[i] = ToPublicProductResponse(&products[i])
	}

	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.PriceText != nil {
		product.PriceText = *req.PriceText
	}
	if req.StoreName != nil {
		product.StoreName = *req.StoreName
	}
	if req.OriginURL != nil {
		product.OriginURL = *req.OriginURL
	}
	if req.AffiliateURL != nil {
		product.AffiliateURL = *req.AffiliateURL
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Category != nil {
		product.Category = req.Category
	}
	if req.Tags != nil {
		product.Tags = pq.StringArray(req.Tags)
	}
	if req.Images != nil {
		product.Images = pq.StringArray(req.Images)
	}
	product.IncrementVersion()

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Activate publishes a product on the storefront
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "activate",
		telemetry.WithAttribute(telemetry.SpanAttrProductID, productID))
	defer span.End()

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Activate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("product activated",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug))

	response := ToProductResponse(product)
	return &response, nil
}

// Deactivate pulls a product back to draft state
func (s *ProductService) Deactivate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product deactivated",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug))

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product and, through the schema, its click history
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	s.logger.Info("product deleted", zap.String("product_id", productID.String()))
	return nil
}

// buildDomainFilter converts the API filter to the repository filter
func buildDomainFilter(filter ProductListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}
	if filter.Category != nil {
		domainFilter.Filters["category"] = *filter.Category
	}
	if filter.StoreName != "" {
		domainFilter.Filters["store_name"] = filter.StoreName
	}
	if filter.Tag != "" {
		domainFilter.Filters["tag"] = filter.Tag
	}

	return domainFilter
}

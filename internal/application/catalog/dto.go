package catalog

import (
	"time"

	"github.com/garimpo/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product by hand,
// outside the CSV import pipeline
type CreateProductRequest struct {
	Title        string   `json:"title" binding:"required,min=1,max=300"`
	PriceText    string   `json:"price_text" binding:"required,min=1,max=100"`
	StoreName    string   `json:"store_name" binding:"max=200"`
	OriginURL    string   `json:"origin_url" binding:"required,url"`
	AffiliateURL string   `json:"affiliate_url" binding:"omitempty,url"`
	Description  *string  `json:"description" binding:"omitempty,max=5000"`
	Category     *string  `json:"category" binding:"omitempty,max=100"`
	Tags         []string `json:"tags"`
	Images       []string `json:"images" binding:"omitempty,dive,url"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Title        *string  `json:"title" binding:"omitempty,min=1,max=300"`
	PriceText    *string  `json:"price_text" binding:"omitempty,min=1,max=100"`
	StoreName    *string  `json:"store_name" binding:"omitempty,max=200"`
	OriginURL    *string  `json:"origin_url" binding:"omitempty,url"`
	AffiliateURL *string  `json:"affiliate_url" binding:"omitempty,url"`
	Description  *string  `json:"description" binding:"omitempty,max=5000"`
	Category     *string  `json:"category" binding:"omitempty,max=100"`
	Tags         []string `json:"tags"`
	Images       []string `json:"images" binding:"omitempty,dive,url"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID `json:"id"`
	ExternalID   *string   `json:"external_id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	PriceText    string    `json:"price_text"`
	StoreName    string    `json:"store_name"`
	OriginURL    string    `json:"origin_url"`
	AffiliateURL string    `json:"affiliate_url"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	Tags         []string  `json:"tags"`
	Images       []string  `json:"images"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// PublicProductResponse is the trimmed shape served on the storefront list
type PublicProductResponse struct {
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	PriceText string   `json:"price_text"`
	StoreName string   `json:"store_name"`
	Category  *string  `json:"category"`
	Tags      []string `json:"tags"`
	Images    []string `json:"images"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search    string  `form:"search"`
	IsActive  *bool   `form:"is_active"`
	Category  *string `form:"category"`
	StoreName string  `form:"store_name"`
	Tag       string  `form:"tag"`
	Page      int     `form:"page" binding:"omitempty,min=1"`
	PageSize  int     `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string  `form:"order_by" binding:"omitempty,oneof=created_at updated_at title"`
	OrderDir  string  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductClickStats pairs a product with its accumulated click count and its
// share of all recorded clicks
type ProductClickStats struct {
	ProductID uuid.UUID       `json:"product_id"`
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Clicks    int64           `json:"clicks"`
	Share     decimal.Decimal `json:"share_percent"`
}

// SocialCopyResponse carries the generated promo text for a product
type SocialCopyResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Copy      string    `json:"copy"`
	Link      string    `json:"link"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		ExternalID:   p.ExternalID,
		Slug:         p.Slug,
		Title:        p.Title,
		PriceText:    p.PriceText,
		StoreName:    p.StoreName,
		OriginURL:    p.OriginURL,
		AffiliateURL: p.AffiliateURL,
		Description:  p.Description,
		Category:     p.Category,
		Tags:         p.Tags,
		Images:       p.Images,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToPublicProductResponse converts a domain Product to its storefront shape
func ToPublicProductResponse(p *catalog.Product) PublicProductResponse {
	return PublicProductResponse{
		Slug:      p.Slug,
		Title:     p.Title,
		PriceText: p.PriceText,
		StoreName: p.StoreName,
		Category:  p.Category,
		Tags:      p.Tags,
		Images:    p.Images,
	}
}

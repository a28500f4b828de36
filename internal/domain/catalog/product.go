package catalog

import (
	"time"

	"github.com/garimpo/backend/internal/domain/shared"
	"github.com/lib/pq"
)

// TagShopee marks records created by the Shopee import pipeline
const TagShopee = "shopee"

// Product is an affiliate catalog entry. It is the aggregate root for
// catalog operations: created as a draft by the import pipeline or by an
// admin, activated manually, and resolved by slug on the public redirect.
type Product struct {
	shared.BaseAggregateRoot
	ExternalID   *string        `gorm:"type:varchar(64);uniqueIndex"`
	Slug         string         `gorm:"type:varchar(160);not null;uniqueIndex"`
	Title        string         `gorm:"type:varchar(300);not null"`
	PriceText    string         `gorm:"type:varchar(100);not null"`
	StoreName    string         `gorm:"type:varchar(200)"`
	OriginURL    string         `gorm:"type:text;not null"`
	AffiliateURL string         `gorm:"type:text"`
	Description  *string        `gorm:"type:text"`
	Category     *string        `gorm:"type:varchar(100)"`
	Tags         pq.StringArray `gorm:"type:text[];not null"`
	Images       pq.StringArray `gorm:"type:text[];not null"`
	IsActive     bool           `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewImportedProduct builds a draft record for a first-seen external id.
// Category, description and images are left empty for manual completion;
// the slug carries the external id suffix so repeated imports never collide.
func NewImportedProduct(externalID, title, priceText, storeName, originURL, affiliateURL string) *Product {
	id := externalID
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExternalID:        &id,
		Slug:              ImportSlug(title, externalID),
		Title:             title,
		PriceText:         priceText,
		StoreName:         storeName,
		OriginURL:         originURL,
		AffiliateURL:      affiliateURL,
		Tags:              pq.StringArray{TagShopee},
		Images:            pq.StringArray{},
		IsActive:          false,
	}
}

// Activate publishes the product on the storefront
func (p *Product) Activate() error {
	if p.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Product is already active")
	}
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Deactivate pulls the product back to draft state
func (p *Product) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Product is already inactive")
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// AddImage appends an image URL, skipping duplicates
func (p *Product) AddImage(url string) {
	for _, existing := range p.Images {
		if existing == url {
			return
		}
	}
	p.Images = append(p.Images, url)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// RedirectURL resolves the outbound link: the monetized affiliate link when
// present, the canonical product link otherwise.
func (p *Product) RedirectURL() string {
	if p.AffiliateURL != "" {
		return p.AffiliateURL
	}
	return p.OriginURL
}

// ImportFields is the restricted subset of columns a re-import may touch.
// Title, slug, tags and activation state survive re-imports so admin edits
// are never clobbered.
type ImportFields struct {
	PriceText    string
	OriginURL    string
	AffiliateURL string
}

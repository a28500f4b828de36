package catalog

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/garimpo/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// defaultCopyTemplate is the promo text posted to social channels. The link
// goes through the redirect endpoint so every click is counted.
const defaultCopyTemplate = `🔥 {{.Title}}
💰 {{.PriceText}}
{{- if .StoreName}}
🏪 {{.StoreName}}
{{- end}}
👉 {{.Link}}`

// Copywriter renders social media copy for catalog products
type Copywriter struct {
	productRepo catalog.ProductRepository
	baseURL     string
	tmpl        *template.Template
}

// copyData is the template payload
type copyData struct {
	Title     string
	PriceText string
	StoreName string
	Link      string
}

// NewCopywriter creates a Copywriter that builds redirect links under baseURL
func NewCopywriter(productRepo catalog.ProductRepository, baseURL string) (*Copywriter, error) {
	return NewCopywriterWithTemplate(productRepo, baseURL, defaultCopyTemplate)
}

// NewCopywriterWithTemplate creates a Copywriter with a custom template.
// The template receives Title, PriceText, StoreName and Link.
func NewCopywriterWithTemplate(productRepo catalog.ProductRepository, baseURL, templateText string) (*Copywriter, error) {
	tmpl, err := template.New("copy").Parse(templateText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse copy template: %w", err)
	}
	return &Copywriter{
		productRepo: productRepo,
		baseURL:     strings.TrimRight(baseURL, "/"),
		tmpl:        tmpl,
	}, nil
}

// ForProduct renders the promo copy for one product
func (c *Copywriter) ForProduct(ctx context.Context, productID uuid.UUID) (*SocialCopyResponse, error) {
	product, err := c.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	link := c.RedirectLink(product.Slug)

	var sb strings.Builder
	if err := c.tmpl.Execute(&sb, copyData{
		Title:     product.Title,
		PriceText: product.PriceText,
		StoreName: product.StoreName,
		Link:      link,
	}); err != nil {
		return nil, fmt.Errorf("failed to render copy: %w", err)
	}

	return &SocialCopyResponse{
		ProductID: product.ID,
		Copy:      sb.String(),
		Link:      link,
	}, nil
}

// RedirectLink builds the public tracked link for a slug
func (c *Copywriter) RedirectLink(slug string) string {
	return c.baseURL + "/r/" + slug
}

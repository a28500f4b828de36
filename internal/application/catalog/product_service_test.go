package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/garimpo/backend/internal/domain/catalog"
	"github.com/garimpo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func importedProduct(externalID, title string) *catalog.Product {
	return catalog.NewImportedProduct(externalID, title, "R$ 79,90", "TechStore",
		"https://shopee.com.br/produto/1/2", "https://s.shopee.com.br/abc")
}

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates draft with derived slug", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		repo.On("FindBySlug", ctx, "caneca-termica-inox").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.Slug == "caneca-termica-inox" &&
				p.ExternalID == nil &&
				!p.IsActive &&
				p.Tags != nil && p.Images != nil
		})).Return(nil)

		resp, err := service.Create(ctx, CreateProductRequest{
			Title:     "Caneca Térmica Inox",
			PriceText: "R$ 49,90",
			OriginURL: "https://shopee.com.br/produto/1/2",
		})

		require.NoError(t, err)
		assert.Equal(t, "caneca-termica-inox", resp.Slug)
		assert.False(t, resp.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		repo.On("FindBySlug", ctx, "caneca-termica-inox").
			Return(importedProduct("100", "Caneca Térmica Inox"), nil)

		_, err := service.Create(ctx, CreateProductRequest{
			Title:     "Caneca Térmica Inox",
			PriceText: "R$ 49,90",
			OriginURL: "https://shopee.com.br/produto/1/2",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects title with no slug material", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		_, err := service.Create(ctx, CreateProductRequest{
			Title:     "!!!",
			PriceText: "R$ 1,00",
			OriginURL: "https://shopee.com.br/produto/1/2",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TITLE", domainErr.Code)
	})

	t.Run("propagates slug lookup failures", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		repo.On("FindBySlug", ctx, mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := service.Create(ctx, CreateProductRequest{
			Title:     "Caneca",
			PriceText: "R$ 49,90",
			OriginURL: "https://shopee.com.br/produto/1/2",
		})

		assert.ErrorContains(t, err, "connection reset")
	})
}

func TestProductServiceActivation(t *testing.T) {
	ctx := context.Background()

	t.Run("activates draft", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		product := importedProduct("100", "Fone Bluetooth")
		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("Save", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.IsActive
		})).Return(nil)

		resp, err := service.Activate(ctx, product.ID)

		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("rejects double activation", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		product := importedProduct("100", "Fone Bluetooth")
		require.NoError(t, product.Activate())
		repo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := service.Activate(ctx, product.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("deactivates active product", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		product := importedProduct("100", "Fone Bluetooth")
		require.NoError(t, product.Activate())
		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.Deactivate(ctx, product.ID)

		require.NoError(t, err)
		assert.False(t, resp.IsActive)
	})
}

func TestProductServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("lists drafts and maps pagination", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		products := []catalog.Product{
			*importedProduct("100", "Fone Bluetooth"),
			*importedProduct("200", "Caneca Térmica"),
		}

		repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "created_at" && f.OrderDir == "desc"
		})).Return(products, nil)
		repo.On("Count", ctx, mock.Anything).Return(int64(2), nil)

		page, err := service.List(ctx, ProductListFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("public list trims to storefront shape", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		active := importedProduct("100", "Fone Bluetooth")
		require.NoError(t, active.Activate())

		repo.On("FindActive", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["is_active"] == true
		})).Return([]catalog.Product{*active}, nil)
		repo.On("Count", ctx, mock.Anything).Return(int64(1), nil)

		page, err := service.ListActive(ctx, ProductListFilter{})

		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "fone-bluetooth-100", page.Items[0].Slug)
		assert.Equal(t, "Fone Bluetooth", page.Items[0].Title)
	})

	t.Run("forwards filter values", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		inactive := false
		repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["is_active"] == false &&
				f.Filters["tag"] == "shopee" &&
				f.Search == "fone"
		})).Return([]catalog.Product{}, nil)
		repo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

		_, err := service.List(ctx, ProductListFilter{
			Search:   "fone",
			IsActive: &inactive,
			Tag:      "shopee",
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestProductServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies partial update", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		product := importedProduct("100", "Fone Bluetooth")
		previousVersion := product.Version
		newTitle := "Fone Bluetooth Pro"
		category := "eletronicos"

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("Save", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.Title == newTitle &&
				p.Category != nil && *p.Category == category &&
				p.PriceText == "R$ 79,90" &&
				p.Version == previousVersion+1
		})).Return(nil)

		resp, err := service.Update(ctx, product.ID, UpdateProductRequest{
			Title:    &newTitle,
			Category: &category,
		})

		require.NoError(t, err)
		assert.Equal(t, newTitle, resp.Title)
		repo.AssertExpectations(t)
	})

	t.Run("returns not found for missing product", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, nil)

		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, id, UpdateProductRequest{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductServiceDelete(t *testing.T) {
	ctx := context.Background()

	repo := new(MockProductRepository)
	service := NewProductService(repo, nil)

	id := uuid.New()
	repo.On("Delete", ctx, id).Return(nil)

	assert.NoError(t, service.Delete(ctx, id))
	repo.AssertExpectations(t)
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImportedProduct(t *testing.T) {
	p := NewImportedProduct("55501", "Fone Bluetooth Lite", "R$ 59,90", "TechStore", "https://shopee.com.br/item/55501", "https://s.shopee.com.br/abc")

	require.NotNil(t, p.ExternalID)
	assert.Equal(t, "55501", *p.ExternalID)
	assert.Equal(t, "fone-bluetooth-lite-55501", p.Slug)
	assert.False(t, p.IsActive)
	assert.Equal(t, []string{TagShopee}, []string(p.Tags))
	assert.Empty(t, p.Images)
	assert.Nil(t, p.Category)
	assert.Nil(t, p.Description)
}

func TestProductActivation(t *testing.T) {
	p := NewImportedProduct("1", "Produto", "R$ 10", "", "https://example.com/p/1", "")

	require.NoError(t, p.Activate())
	assert.True(t, p.IsActive)

	err := p.Activate()
	assert.Error(t, err)

	require.NoError(t, p.Deactivate())
	assert.False(t, p.IsActive)

	err = p.Deactivate()
	assert.Error(t, err)
}

func TestProductRedirectURL(t *testing.T) {
	t.Run("prefers affiliate link", func(t *testing.T) {
		p := NewImportedProduct("1", "Produto", "R$ 10", "", "https://example.com/p/1", "https://aff.example.com/x")
		assert.Equal(t, "https://aff.example.com/x", p.RedirectURL())
	})

	t.Run("falls back to origin link", func(t *testing.T) {
		p := NewImportedProduct("1", "Produto", "R$ 10", "", "https://example.com/p/1", "")
		assert.Equal(t, "https://example.com/p/1", p.RedirectURL())
	})
}

func TestProductAddImage(t *testing.T) {
	p := NewImportedProduct("1", "Produto", "R$ 10", "", "https://example.com/p/1", "")

	p.AddImage("https://cdn.example.com/a.jpg")
	p.AddImage("https://cdn.example.com/a.jpg")
	p.AddImage("https://cdn.example.com/b.jpg")

	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, []string(p.Images))
}

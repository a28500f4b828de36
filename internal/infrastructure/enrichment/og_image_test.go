package enrichment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeImageURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"absolute https", "https://cf.shopee.com.br/file/abc123", "https://cf.shopee.com.br/file/abc123"},
		{"absolute http", "http://cdn.example.com/img.jpg", "http://cdn.example.com/img.jpg"},
		{"surrounding whitespace", "  https://cdn.example.com/img.jpg \n", "https://cdn.example.com/img.jpg"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"relative path", "/file/abc123", ""},
		{"data uri", "data:image/png;base64,iVBORw0KGgo=", ""},
		{"missing host", "https://", ""},
		{"not a url", "::::", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeImageURL(tt.input))
		})
	}
}

func TestNewOGImageScraperDefaults(t *testing.T) {
	scraper, err := NewOGImageScraper(nil)
	assert.NoError(t, err)
	defer scraper.Close()

	assert.Equal(t, defaultNavigationTimeout, scraper.config.Timeout)
	assert.NotNil(t, scraper.logger)
	assert.NotNil(t, scraper.allocCtx)
}

func TestNewOGImageScraperCustomTimeout(t *testing.T) {
	scraper, err := NewOGImageScraper(&Config{Timeout: 5 * time.Second, NoSandbox: true})
	assert.NoError(t, err)
	defer scraper.Close()

	assert.Equal(t, 5*time.Second, scraper.config.Timeout)
}

func TestEnrichCancelledCaller(t *testing.T) {
	scraper, err := NewOGImageScraper(&Config{Timeout: 30 * time.Second, NoSandbox: true})
	require.NoError(t, err)
	defer scraper.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	type result struct {
		image string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		image, err := scraper.Enrich(ctx, uuid.New(), "https://shopee.com.br/produto/1/2")
		done <- result{image, err}
	}()

	select {
	case res := <-done:
		require.Error(t, res.err)
		assert.Empty(t, res.image)
	case <-time.After(10 * time.Second):
		t.Fatal("Enrich kept running after the caller context was cancelled")
	}
}

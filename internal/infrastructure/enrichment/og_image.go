package enrichment

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	importapp "github.com/garimpo/backend/internal/application/import"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultNavigationTimeout = 20 * time.Second

// Shopee serves a bot interstitial to the stock headless user agent.
const scraperUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Config contains configuration for the og:image scraper
type Config struct {
	// Timeout is the per-page navigation budget
	Timeout time.Duration
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// ExtraFlags are additional chromium flags, as "name" or "name=value"
	ExtraFlags []string
	// Logger for debug output
	Logger *zap.Logger
}

// OGImageScraper resolves a product page's og:image URL using a headless
// Chrome instance. Shopee product pages build their meta tags client side,
// so a plain HTTP fetch is not enough.
type OGImageScraper struct {
	config      *Config
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewOGImageScraper creates a new chromedp-based og:image scraper
func NewOGImageScraper(config *Config) (*OGImageScraper, error) {
	if config == nil {
		config = &Config{}
	}
	if config.Timeout == 0 {
		config.Timeout = defaultNavigationTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	scraper := &OGImageScraper{
		config: config,
		logger: logger,
	}
	scraper.initAllocator()

	return scraper, nil
}

// initAllocator initializes the Chrome allocator
func (s *OGImageScraper) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
	)

	if s.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	for _, flag := range s.config.ExtraFlags {
		name, value, found := strings.Cut(flag, "=")
		if found {
			opts = append(opts, chromedp.Flag(name, value))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}

	s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// Enrich navigates to the product page and returns its og:image URL.
// Returns ErrImageNotFound when the page loads but carries no usable tag.
func (s *OGImageScraper) Enrich(ctx context.Context, productID uuid.UUID, originURL string) (string, error) {
	startTime := time.Now()

	browserCtx, browserCancel := chromedp.NewContext(s.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			s.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// The navigation budget must bound the browser context itself, not the
	// caller's context: chromedp runs on the context passed to Run. Caller
	// cancellation is forwarded so an aborted import stops the browser too.
	runCtx, cancel := context.WithTimeout(browserCtx, s.config.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var content string
	err := chromedp.Run(runCtx,
		emulation.SetUserAgentOverride(scraperUserAgent),
		chromedp.Navigate(originURL),
		chromedp.Evaluate(
			`(document.querySelector('meta[property="og:image"]') || {}).content || ''`,
			&content,
		),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if runCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("og:image fetch timed out after %v: %w", s.config.Timeout, err)
		}
		s.logger.Error("og:image fetch failed",
			zap.String("product_id", productID.String()),
			zap.String("origin_url", originURL),
			zap.Error(err))
		return "", fmt.Errorf("og:image fetch failed: %w", err)
	}

	imageURL := normalizeImageURL(content)
	if imageURL == "" {
		return "", importapp.ErrImageNotFound
	}

	s.logger.Info("og:image resolved",
		zap.String("product_id", productID.String()),
		zap.String("image_url", imageURL),
		zap.Duration("duration", time.Since(startTime)))

	return imageURL, nil
}

// Close releases resources held by the scraper
func (s *OGImageScraper) Close() error {
	if s.allocCancel != nil {
		s.allocCancel()
	}
	return nil
}

// normalizeImageURL trims the scraped value and rejects anything that is not
// an absolute http(s) URL. Pages occasionally carry placeholder or data URIs
// in the tag.
func normalizeImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return raw
}

// Ensure OGImageScraper implements the import enricher contract
var _ importapp.Enricher = (*OGImageScraper)(nil)

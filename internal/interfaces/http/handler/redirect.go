package handler

import (
	"net/http"

	catalogapp "github.com/garimpo/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// RedirectHandler resolves tracked links to their affiliate destination
type RedirectHandler struct {
	BaseHandler
	clickService *catalogapp.ClickService
}

// NewRedirectHandler creates a new RedirectHandler
func NewRedirectHandler(clickService *catalogapp.ClickService) *RedirectHandler {
	return &RedirectHandler{
		clickService: clickService,
	}
}

// Redirect godoc
// @Summary      Tracked redirect
// @Description  Records a click and redirects to the product's affiliate link.
// @Description  Drafts and unknown slugs both resolve to 404.
// @Tags         storefront
// @Param        slug path string true "Product slug"
// @Success      302
// @Failure      404 {object} ErrorResponse
// @Router       /r/{slug} [get]
func (h *RedirectHandler) Redirect(c *gin.Context) {
	slug := c.Param("slug")

	target, err := h.clickService.Record(
		c.Request.Context(),
		slug,
		c.Request.Referer(),
		c.Request.UserAgent(),
		c.ClientIP(),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Redirect(http.StatusFound, target)
}

// RegisterRoutes registers the redirect route at the engine root,
// outside the versioned API prefix
func (h *RedirectHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/r/:slug", h.Redirect)
}

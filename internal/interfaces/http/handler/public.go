package handler

import (
	catalogapp "github.com/garimpo/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// PublicHandler serves the storefront product listing
type PublicHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(productService *catalogapp.ProductService) *PublicHandler {
	return &PublicHandler{
		productService: productService,
	}
}

// List godoc
// @Summary      List active products
// @Description  Public storefront listing; drafts are never included
// @Tags         storefront
// @Produce      json
// @Param        search query string false "Search in title and store name"
// @Param        tag query string false "Filter by tag"
// @Param        category query string false "Filter by category"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]catalogapp.PublicProductResponse]
// @Router       /products [get]
func (h *PublicHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	// The publication filter is forced server side
	filter.IsActive = nil

	page, err := h.productService.ListActive(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// RegisterRoutes registers the public storefront routes
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.List)
}

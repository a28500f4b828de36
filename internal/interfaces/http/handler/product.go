package handler

import (
	catalogapp "github.com/garimpo/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles admin product API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	clickService   *catalogapp.ClickService
	copywriter     *catalogapp.Copywriter
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, clickService *catalogapp.ClickService, copywriter *catalogapp.Copywriter) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		clickService:   clickService,
		copywriter:     copywriter,
	}
}

// Create godoc
// @Summary      Create a product manually
// @Description  Creates a draft product outside the CSV import pipeline
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Get godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID (UUID)"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /admin/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Description  Lists products including drafts, with filtering and pagination
// @Tags         products
// @Produce      json
// @Param        search query string false "Search in title and store name"
// @Param        is_active query bool false "Filter by publication state"
// @Param        tag query string false "Filter by tag"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Router       /admin/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update godoc
// @Summary      Update a product
// @Description  Applies a partial update; omitted fields are left unchanged
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID (UUID)"
// @Param        request body catalogapp.UpdateProductRequest true "Fields to update"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Removes a product; its click history goes with it
// @Tags         products
// @Param        id path string true "Product ID (UUID)"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate godoc
// @Summary      Publish a product
// @Description  Makes a draft product visible on the storefront
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID (UUID)"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /admin/products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Deactivate godoc
// @Summary      Unpublish a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID (UUID)"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /admin/products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Copy godoc
// @Summary      Generate social copy
// @Description  Renders the promo text for a product with its tracked link
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID (UUID)"
// @Success      200 {object} APIResponse[catalogapp.SocialCopyResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /admin/products/{id}/copy [get]
func (h *ProductHandler) Copy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	copyResp, err := h.copywriter.ForProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, copyResp)
}

// Stats godoc
// @Summary      Click statistics
// @Description  Returns per-product click counts and their share of all clicks
// @Tags         products
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.ProductClickStats]
// @Router       /admin/products/stats [get]
func (h *ProductHandler) Stats(c *gin.Context) {
	stats, err := h.clickService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// RegisterRoutes registers all admin product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/admin/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/stats", h.Stats)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
		products.POST("/:id/activate", h.Activate)
		products.POST("/:id/deactivate", h.Deactivate)
		products.GET("/:id/copy", h.Copy)
	}
}

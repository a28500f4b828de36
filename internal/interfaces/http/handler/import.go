package handler

import (
	"io"
	"strconv"

	importapp "github.com/garimpo/backend/internal/application/import"
	"github.com/garimpo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// defaultMaxImportFileSize caps CSV uploads at 10MB
const defaultMaxImportFileSize = 10 * 1024 * 1024

// ImportHandler handles Shopee CSV import endpoints
type ImportHandler struct {
	BaseHandler
	importService *importapp.ShopeeImportService
	maxFileSize   int64
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *importapp.ShopeeImportService, maxFileSize int64) *ImportHandler {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxImportFileSize
	}
	return &ImportHandler{
		importService: importService,
		maxFileSize:   maxFileSize,
	}
}

// Import godoc
// @Summary      Import a Shopee affiliate CSV
// @Description  Parses the uploaded CSV, reconciles rows against the catalog by
// @Description  external id and reports the per-run diff. Row failures never
// @Description  abort the run; they are collected in the result's error list.
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV file exported from the Shopee affiliate portal"
// @Param        fetch_images formData bool false "Scrape og:image for newly imported products"
// @Success      200 {object} APIResponse[dto.ImportResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Router       /admin/import/shopee [post]
func (h *ImportHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		h.ErrorWithCode(c, dto.ErrCodeFileTooLarge, "file exceeds maximum size of "+strconv.FormatInt(h.maxFileSize>>20, 10)+"MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "text/csv" && contentType != "application/octet-stream" &&
		contentType != "text/plain" && contentType != "application/vnd.ms-excel" {
		h.ErrorWithCode(c, dto.ErrCodeUnsupportedMedia, "file must be a CSV file")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.InternalError(c, "failed to read file")
		return
	}
	if int64(len(data)) > h.maxFileSize {
		h.ErrorWithCode(c, dto.ErrCodeFileTooLarge, "file exceeds maximum size of "+strconv.FormatInt(h.maxFileSize>>20, 10)+"MB")
		return
	}

	fetchImages, _ := strconv.ParseBool(c.PostForm("fetch_images"))

	result := h.importService.Import(c.Request.Context(), string(data), fetchImages)

	h.Success(c, dto.ImportResultResponse{
		Imported: result.Imported,
		Updated:  result.Updated,
		Ignored:  result.Ignored,
		Enriched: result.Enriched,
		Errors:   result.Errors,
	})
}

// RegisterRoutes registers all import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/import/shopee", h.Import)
}

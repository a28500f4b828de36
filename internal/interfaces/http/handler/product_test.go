package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catalogapp "github.com/garimpo/backend/internal/application/catalog"
	"github.com/garimpo/backend/internal/domain/catalog"
	"github.com/garimpo/backend/internal/domain/shared"
	"github.com/garimpo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductRouter(t *testing.T, products *MockProductRepository, clicks *MockClickRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	productService := catalogapp.NewProductService(products, nil)
	clickService := catalogapp.NewClickService(products, clicks, nil, nil)
	copywriter, err := catalogapp.NewCopywriter(products, "https://garimpo.app")
	require.NoError(t, err)

	router := gin.New()
	api := router.Group("/api/v1")
	NewProductHandler(productService, clickService, copywriter).RegisterRoutes(api)
	return router
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestProductHandlerCreate(t *testing.T) {
	t.Run("creates draft product", func(t *testing.T) {
		products := new(MockProductRepository)
		router := newProductRouter(t, products, new(MockClickRepository))

		products.On("FindBySlug", mock.Anything, "caneca-termica-inox").Return(nil, shared.ErrNotFound)
		products.On("Save", mock.Anything, mock.Anything).Return(nil)

		body := `{"title":"Caneca Térmica Inox","price_text":"R$ 49,90","origin_url":"https://shopee.com.br/produto/1/2"}`
		req := httptest.NewRequest("POST", "/api/v1/admin/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "caneca-termica-inox", data["slug"])
		assert.Equal(t, false, data["is_active"])
	})

	t.Run("duplicate slug maps to 409", func(t *testing.T) {
		products := new(MockProductRepository)
		router := newProductRouter(t, products, new(MockClickRepository))

		products.On("FindBySlug", mock.Anything, mock.Anything).
			Return(activeProduct("100", "Caneca Térmica Inox"), nil)

		body := `{"title":"Caneca Térmica Inox","price_text":"R$ 49,90","origin_url":"https://shopee.com.br/produto/1/2"}`
		req := httptest.NewRequest("POST", "/api/v1/admin/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
	})

	t.Run("unusable title maps to 400", func(t *testing.T) {
		products := new(MockProductRepository)
		router := newProductRouter(t, products, new(MockClickRepository))

		body := `{"title":"!!!","price_text":"R$ 1,00","origin_url":"https://shopee.com.br/produto/1/2"}`
		req := httptest.NewRequest("POST", "/api/v1/admin/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInvalidTitle, resp.Error.Code)
	})

	t.Run("missing required fields map to 400", func(t *testing.T) {
		products := new(MockProductRepository)
		router := newProductRouter(t, products, new(MockClickRepository))

		req := httptest.NewRequest("POST", "/api/v1/admin/products", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductHandlerGet(t *testing.T) {
	t.Run("returns product", func(t *testing.T) {
		products := new(MockProductRepository)
		router := newProductRouter(t, products, new(MockClickRepository))

		product := activeProduct("100", "Fone Bluetooth")
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		req := httptest.NewRequest("GET", "/api/v1/admin/products/"+product.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "fone-bluetooth-100", data["slug"])
	})

	t.Run("unknown product maps to 404", func(t *testing.T) {
		products := new(MockProductRepository)
		router := newProductRouter(t, products, new(MockClickRepository))

		id := uuid.New()
		products.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest("GET", "/api/v1/admin/products/"+id.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("malformed id maps to 400", func(t *testing.T) {
		products := new(MockProductRepository)
		router := newProductRouter(t, products, new(MockClickRepository))

		req := httptest.NewRequest("GET", "/api/v1/admin/products/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductHandlerList(t *testing.T) {
	products := new(MockProductRepository)
	router := newProductRouter(t, products, new(MockClickRepository))

	items := []catalog.Product{*activeProduct("100", "Fone Bluetooth")}
	products.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 10
	})).Return(items, nil)
	products.On("Count", mock.Anything, mock.Anything).Return(int64(11), nil)

	req := httptest.NewRequest("GET", "/api/v1/admin/products?page=2&page_size=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(11), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}

func TestProductHandlerActivate(t *testing.T) {
	t.Run("publishes draft", func(t *testing.T) {
		products := new(MockProductRepository)
		router := newProductRouter(t, products, new(MockClickRepository))

		draft := catalog.NewImportedProduct("100", "Fone Bluetooth", "R$ 79,90", "TechStore",
			"https://shopee.com.br/produto/1/2", "https://s.shopee.com.br/abc")
		products.On("FindByID", mock.Anything, draft.ID).Return(draft, nil)
		products.On("Save", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest("POST", "/api/v1/admin/products/"+draft.ID.String()+"/activate", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, true, data["is_active"])
	})

	t.Run("double activation maps to 422", func(t *testing.T) {
		products := new(MockProductRepository)
		router := newProductRouter(t, products, new(MockClickRepository))

		product := activeProduct("100", "Fone Bluetooth")
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		req := httptest.NewRequest("POST", "/api/v1/admin/products/"+product.ID.String()+"/activate", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
	})
}

func TestProductHandlerDelete(t *testing.T) {
	products := new(MockProductRepository)
	router := newProductRouter(t, products, new(MockClickRepository))

	id := uuid.New()
	products.On("Delete", mock.Anything, id).Return(nil)

	req := httptest.NewRequest("DELETE", "/api/v1/admin/products/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	products.AssertExpectations(t)
}

func TestProductHandlerCopy(t *testing.T) {
	products := new(MockProductRepository)
	router := newProductRouter(t, products, new(MockClickRepository))

	product := activeProduct("100", "Fone Bluetooth")
	products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	req := httptest.NewRequest("GET", "/api/v1/admin/products/"+product.ID.String()+"/copy", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "https://garimpo.app/r/fone-bluetooth-100", data["link"])
	assert.Contains(t, data["copy"], "Fone Bluetooth")
}

func TestProductHandlerStats(t *testing.T) {
	products := new(MockProductRepository)
	clicks := new(MockClickRepository)
	router := newProductRouter(t, products, clicks)

	hot := activeProduct("100", "Fone Bluetooth")
	clicks.On("CountByProduct", mock.Anything).Return(map[uuid.UUID]int64{hot.ID: 4}, nil)
	products.On("FindByID", mock.Anything, hot.ID).Return(hot, nil)

	req := httptest.NewRequest("GET", "/api/v1/admin/products/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	rows := resp.Data.([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "fone-bluetooth-100", row["slug"])
	assert.Equal(t, float64(4), row["clicks"])
	assert.Equal(t, "100", row["share_percent"])
}

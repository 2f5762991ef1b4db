package productControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turjo25/Royal-Shop/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{}, &models.Rating{},
		&models.Cart{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, available bool) models.Product {
	t.Helper()
	p := models.Product{
		Name:      name,
		Slug:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     10,
		Available: available,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func productRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products", GetProducts(db))
	return r
}

type productListResponse struct {
	Products []struct {
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	} `json:"products"`
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
}

func TestGetProductsPriceRangeFilter(t *testing.T) {
	db := setupTestDB(t)
	seedProduct(t, db, "pen", "2.00", true)
	seedProduct(t, db, "mug", "10.00", true)
	seedProduct(t, db, "lamp", "50.00", true)
	seedProduct(t, db, "vault", "99.00", false)

	r := productRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products?min_price=5&max_price=20", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp productListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "mug", resp.Products[0].Name)
	assert.True(t, resp.Products[0].Price.Equal(decimal.RequireFromString("10.00")))

	// Bounds cover the whole available catalog, not the filtered page, and
	// the unavailable product never counts.
	assert.True(t, resp.MinPrice.Equal(decimal.RequireFromString("2.00")))
	assert.True(t, resp.MaxPrice.Equal(decimal.RequireFromString("50.00")))
}

func TestGetProductsRangeBoundsAreInclusive(t *testing.T) {
	db := setupTestDB(t)
	seedProduct(t, db, "pen", "2.00", true)
	seedProduct(t, db, "mug", "10.00", true)

	r := productRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products?min_price=2.00&max_price=10.00", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp productListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 2)
}

func TestGetProductsRejectsMalformedPrice(t *testing.T) {
	db := setupTestDB(t)
	seedProduct(t, db, "mug", "10.00", true)

	r := productRouter(db)
	for _, query := range []string{"min_price=cheap", "max_price=1,50"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products?"+query, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

package productControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/turjo25/Royal-Shop/cache"
	"github.com/turjo25/Royal-Shop/middleware"
	"github.com/turjo25/Royal-Shop/models"
	"gorm.io/gorm"
)

const productCacheTTL = 5 * time.Minute

type productDetail struct {
	Product         models.Product   `json:"product"`
	AverageRating   float64          `json:"average_rating"`
	RelatedProducts []models.Product `json:"related_products"`
}

// GET /products/:slug
//
// Product detail with ratings, average rating, and related products from the
// same category. The shared portion of the payload is cached; the caller's
// own rating is attached per request when a valid token is present.
func GetProductBySlug(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		cacheKey := "product:" + slug

		var detail productDetail
		if !cache.GetJSON(c.Request.Context(), rdb, cacheKey, &detail) {
			var product models.Product
			err := db.Preload("Category").Preload("Ratings").
				Where("slug = ? AND available = ?", slug, true).
				First(&product).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
				return
			}

			var related []models.Product
			if err := db.Where("category_id = ? AND id <> ? AND available = ?", product.CategoryID, product.ID, true).
				Limit(4).
				Find(&related).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch related products"})
				return
			}

			detail = productDetail{
				Product:         product,
				AverageRating:   product.AverageRating(),
				RelatedProducts: related,
			}
			cache.SetJSON(c.Request.Context(), rdb, cacheKey, detail, productCacheTTL)
		}

		response := gin.H{
			"product":          detail.Product,
			"average_rating":   detail.AverageRating,
			"related_products": detail.RelatedProducts,
		}

		if userID, ok := middleware.OptionalUserID(c); ok {
			var userRating models.Rating
			if err := db.Where("product_id = ? AND user_id = ?", detail.Product.ID, userID).
				First(&userRating).Error; err == nil {
				response["user_rating"] = userRating
			}
		}

		c.JSON(http.StatusOK, response)
	}
}

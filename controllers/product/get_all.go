package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/turjo25/Royal-Shop/models"
	"gorm.io/gorm"
)

// GET /products
//
// Lists available products. Filters are optional and composable: category
// slug, price range, minimum average rating, and a text search over product
// name, description, and category name. The response also carries the price
// bounds of the unfiltered set so clients can build range controls.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categorySlug := c.Query("category")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")
		ratingStr := c.Query("rating")
		search := c.Query("search")

		query := db.Model(&models.Product{}).
			Preload("Category").
			Where("products.available = ?", true)

		if categorySlug != "" {
			var category models.Category
			if err := db.Where("slug = ?", categorySlug).First(&category).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
				return
			}
			query = query.Where("products.category_id = ?", category.ID)
		}

		// Price filters stay decimal end to end, like every other money
		// value.
		if minPriceStr != "" {
			mp, err := decimal.NewFromString(minPriceStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
			query = query.Where("products.price >= ?", mp)
		}
		if maxPriceStr != "" {
			mp, err := decimal.NewFromString(maxPriceStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
			query = query.Where("products.price <= ?", mp)
		}

		if ratingStr != "" {
			minRating, err := strconv.ParseFloat(ratingStr, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating"})
				return
			}
			query = query.
				Joins("JOIN ratings ON ratings.product_id = products.id").
				Group("products.id").
				Having("AVG(ratings.rating) >= ?", minRating)
		}

		if search != "" {
			likePattern := "%" + search + "%"
			query = query.
				Joins("JOIN categories ON categories.id = products.category_id").
				Where(
					"products.name ILIKE ? OR products.description ILIKE ? OR categories.name ILIKE ?",
					likePattern, likePattern, likePattern,
				)
		}

		var products []models.Product
		if err := query.Order("products.created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		// Price bounds of the whole available catalog, for filter sliders.
		var bounds struct {
			MinPrice decimal.Decimal `json:"min_price"`
			MaxPrice decimal.Decimal `json:"max_price"`
		}
		db.Model(&models.Product{}).
			Where("available = ?", true).
			Select("COALESCE(MIN(price), 0) AS min_price, COALESCE(MAX(price), 0) AS max_price").
			Scan(&bounds)

		c.JSON(http.StatusOK, gin.H{
			"products":  products,
			"min_price": bounds.MinPrice,
			"max_price": bounds.MaxPrice,
		})
	}
}

// GET /categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /home
func HomeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var featured []models.Product
		if err := db.Preload("Category").
			Where("available = ?", true).
			Order("created_at DESC").
			Limit(8).
			Find(&featured).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		var categories []models.Category
		if err := db.Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"featured_products": featured,
			"categories":        categories,
		})
	}
}

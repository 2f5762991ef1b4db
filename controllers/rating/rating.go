package ratingControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/turjo25/Royal-Shop/cache"
	"github.com/turjo25/Royal-Shop/models"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotPurchased    = errors.New("product not purchased")
)

type RatingInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// -------- Core Logic --------

// RateProduct records the user's rating for a product they have paid for.
// A second submission for the same product updates the existing row.
func RateProduct(db *gorm.DB, userID string, productID uint, score int, comment string) (*models.Rating, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var purchased int64
	if err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.paid = ? AND order_items.product_id = ?", userID, true, productID).
		Count(&purchased).Error; err != nil {
		return nil, err
	}
	if purchased == 0 {
		return nil, ErrNotPurchased
	}

	var rating models.Rating
	err := db.Where("product_id = ? AND user_id = ?", productID, userID).First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rating = models.Rating{
			ProductID: productID,
			UserID:    userID,
			Rating:    score,
			Comment:   comment,
		}
		if err := db.Create(&rating).Error; err != nil {
			return nil, err
		}
		return &rating, nil
	}
	if err != nil {
		return nil, err
	}

	rating.Rating = score
	rating.Comment = comment
	if err := db.Save(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// -------- Handlers --------

// POST /user/products/:product_id/rate
func RateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}

		var input RatingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		rating, err := RateProduct(db, userID, uint(productID), input.Rating, input.Comment)
		if err != nil {
			switch {
			case errors.Is(err, ErrProductNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Product does not exist"})
			case errors.Is(err, ErrNotPurchased):
				c.JSON(http.StatusForbidden, gin.H{"error": "You can only rate products you have purchased!"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
			}
			return
		}

		// The cached product detail now carries a stale average rating.
		var product models.Product
		if err := db.Select("slug").First(&product, "id = ?", productID).Error; err == nil {
			cache.Invalidate(c.Request.Context(), rdb, "product:"+product.Slug)
		}

		c.JSON(http.StatusOK, rating)
	}
}

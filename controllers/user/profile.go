package userControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/turjo25/Royal-Shop/models"
	"gorm.io/gorm"
)

// GET /user/profile
//
// The caller's order history: all orders newest first, the delivered ones,
// and the lifetime total spent.
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var orders []models.Order
		if err := db.Preload("Items.Product").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		totalSpent := decimal.Zero
		var completed []models.Order
		for i := range orders {
			totalSpent = totalSpent.Add(orders[i].TotalCost())
			if orders[i].Status == models.OrderStatusDelivered {
				completed = append(completed, orders[i])
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"orders":           orders,
			"completed_orders": completed,
			"total_spent":      totalSpent,
		})
	}
}

// GET /user/orders/:order_id
func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order_id"})
			return
		}

		var order models.Order
		if err := db.Preload("Items.Product").
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order":      order,
			"total_cost": order.TotalCost(),
		})
	}
}

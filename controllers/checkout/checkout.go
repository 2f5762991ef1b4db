package checkoutControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/turjo25/Royal-Shop/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCartEmpty = errors.New("cart is empty")

type CheckoutRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Address    string `json:"address" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	City       string `json:"city" binding:"required"`
	Note       string `json:"note"`
}

// -------- Core Logic --------

// Checkout snapshots the user's cart into a new pending order and clears the
// cart. The cart read, order creation, line snapshotting, and the cart wipe
// all run in one transaction with the cart lines locked, so a line added
// mid-checkout is neither silently wiped nor half-ordered; it simply stays in
// the cart for the next checkout. The returned order carries a fresh payment
// token; handing off to the gateway is a separate, retryable step keyed by
// that token.
func Checkout(db *gorm.DB, userID string, req CheckoutRequest) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartEmpty
		}
		if err != nil {
			return err
		}

		var lines []models.CartItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Product").
			Where("cart_id = ?", cart.CartID).
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrCartEmpty
		}

		var orderItems []models.OrderItem
		lineIDs := make([]uint, 0, len(lines))
		for _, line := range lines {
			lineIDs = append(lineIDs, line.ID)
			orderItems = append(orderItems, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Product.Price, // frozen at checkout time
			})
		}

		order = models.Order{
			UserID:       userID,
			Items:        orderItems,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			Address:      req.Address,
			Phone:        req.Phone,
			PostalCode:   req.PostalCode,
			City:         req.City,
			Note:         req.Note,
			Paid:         false,
			Status:       models.OrderStatusPending,
			PaymentToken: uuid.NewString(),
			CreatedAt:    time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Only the snapshotted lines are wiped, never the whole cart.
		return tx.Where("id IN ?", lineIDs).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// POST /user/checkout
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := Checkout(db, userID, req)
		if err != nil {
			if errors.Is(err, ErrCartEmpty) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty!"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":     "Order placed successfully",
			"order_id":    order.ID,
			"total_cost":  order.TotalCost(),
			"payment_url": "/payment/process?token=" + order.PaymentToken,
		})
	}
}

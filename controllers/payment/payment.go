package paymentControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/turjo25/Royal-Shop/mailer"
	"github.com/turjo25/Royal-Shop/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOrderNotFound = errors.New("order not found")

// -------- Core Logic --------

// MarkPaymentSuccess records a successful gateway outcome: paid flag, status
// transition to processing, transaction id, and the stock decrement for every
// ordered line, clamped at zero. The whole mutation runs in one transaction
// with the order and product rows locked.
//
// The mutation only fires while the order is still pending, so a gateway that
// calls the success URL twice cannot decrement stock a second time; the
// repeat call finds the order already processing and returns it unchanged,
// with transitioned=false.
func MarkPaymentSuccess(db *gorm.DB, userID string, orderID uint) (_ *models.Order, transitioned bool, _ error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if err := tx.Where("order_id = ?", order.ID).Find(&order.Items).Error; err != nil {
			return err
		}

		if order.Status != models.OrderStatusPending {
			return nil
		}
		transitioned = true

		order.Paid = true
		order.Status = models.OrderStatusProcessing
		order.TransactionID = strconv.FormatUint(uint64(order.ID), 10)
		if err := tx.Omit(clause.Associations).Save(&order).Error; err != nil {
			return err
		}

		for _, item := range order.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}
			product.Stock -= item.Quantity
			if product.Stock < 0 {
				product.Stock = 0
			}
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &order, transitioned, nil
}

// CancelOrder records a failed or canceled gateway outcome. Repeat calls are
// error-free no-ops, and an order already handed to fulfillment (shipped or
// delivered) is left untouched; late gateway callbacks cannot unwind it.
func CancelOrder(db *gorm.DB, userID string, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	switch order.Status {
	case models.OrderStatusPending, models.OrderStatusProcessing:
		order.Status = models.OrderStatusCanceled
		if err := db.Save(&order).Error; err != nil {
			return nil, err
		}
	}
	return &order, nil
}

// -------- Handlers --------

// GET /payment/process?token=
//
// Resumes payment initiation for the caller's pending order. The token is
// minted at checkout and carried through the redirect chain, so the flow
// survives without any session state and can be retried after a gateway
// error.
func PaymentProcessHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
			return
		}

		var order models.Order
		if err := db.Preload("Items").
			Where("payment_token = ? AND user_id = ?", token, userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		if order.Status != models.OrderStatusPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order is not awaiting payment"})
			return
		}

		paymentURL, err := CreateGatewaySession(&order)
		if err != nil {
			log.Printf("❌ Gateway session failed for order #%d: %v", order.ID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway error. Please try again."})
			return
		}

		c.JSON(http.StatusOK, gin.H{"payment_url": paymentURL})
	}
}

// POST /payment/success/:order_id
//
// Invoked by the gateway's redirect. The caller is external, so there is no
// CSRF protection here; ownership is still re-checked against the
// authenticated user before anything is mutated.
func PaymentSuccessHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, orderID, ok := callbackParams(c)
		if !ok {
			return
		}

		order, transitioned, err := MarkPaymentSuccess(db, userID, orderID)
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
			return
		}

		// Fire-and-forget, first transition only: a failed email never
		// unwinds a recorded payment, and a repeated callback never
		// re-sends the confirmation.
		if transitioned {
			go func(o models.Order) {
				if err := mailer.SendOrderConfirmation(db, &o); err != nil {
					log.Printf("❌ Failed to send confirmation email for order #%d: %v", o.ID, err)
				}
			}(*order)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Payment successful", "order": order})
	}
}

// POST /payment/fail/:order_id
func PaymentFailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, orderID, ok := callbackParams(c)
		if !ok {
			return
		}

		order, err := CancelOrder(db, userID, orderID)
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment failed", "order": order})
	}
}

// POST /payment/cancel/:order_id
func PaymentCancelHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, orderID, ok := callbackParams(c)
		if !ok {
			return
		}

		order, err := CancelOrder(db, userID, orderID)
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment canceled", "order": order})
	}
}

func callbackParams(c *gin.Context) (userID string, orderID uint, ok bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", 0, false
	}
	id, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order_id"})
		return "", 0, false
	}
	return userIDVal.(string), uint(id), true
}

package routes

import (
	"github.com/gin-gonic/gin"
	paymentControllers "github.com/turjo25/Royal-Shop/controllers/payment"
	"github.com/turjo25/Royal-Shop/middleware"
	"gorm.io/gorm"
)

// SetupPaymentRoutes registers payment initiation plus the three gateway
// outcome callbacks. The callbacks arrive via browser redirects from the
// gateway, so they accept GET as well as POST; ownership of the order is
// re-validated inside each handler.
func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB) {
	payment := r.Group("/payment")
	payment.Use(middleware.ValidateToken)
	{
		payment.GET("/process", paymentControllers.PaymentProcessHandler(db))

		for _, method := range []string{"GET", "POST"} {
			payment.Handle(method, "/success/:order_id", paymentControllers.PaymentSuccessHandler(db))
			payment.Handle(method, "/fail/:order_id", paymentControllers.PaymentFailHandler(db))
			payment.Handle(method, "/cancel/:order_id", paymentControllers.PaymentCancelHandler(db))
		}
	}
}

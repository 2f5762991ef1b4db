package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	cartControllers "github.com/turjo25/Royal-Shop/controllers/cart"
	checkoutControllers "github.com/turjo25/Royal-Shop/controllers/checkout"
	ratingControllers "github.com/turjo25/Royal-Shop/controllers/rating"
	userControllers "github.com/turjo25/Royal-Shop/controllers/user"
	"github.com/turjo25/Royal-Shop/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(db))                        // GET /user/cart
			cartGroup.POST("/add/:product_id", cartControllers.AddCartItem(db))       // POST /user/cart/add/:product_id
			cartGroup.PUT("/update/:product_id", cartControllers.UpdateCartItem(db))  // PUT /user/cart/update/:product_id
			cartGroup.DELETE("/remove/:product_id", cartControllers.DeleteCartItem(db)) // DELETE /user/cart/remove/:product_id
		}

		// ──────────────── Checkout ────────────────
		userGroup.POST("/checkout", checkoutControllers.CheckoutHandler(db)) // POST /user/checkout

		// ──────────────── Ratings ────────────────
		userGroup.POST("/products/:product_id/rate", ratingControllers.RateProductHandler(db, rdb))

		// ──────────────── Profile & Orders ────────────────
		userGroup.GET("/profile", userControllers.GetProfile(db))         // GET /user/profile
		userGroup.GET("/orders/:order_id", userControllers.GetOrder(db)) // GET /user/orders/:order_id
	}
}

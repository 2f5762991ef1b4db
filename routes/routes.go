package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the public shop,
// user, and payment route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client) {
	// 1️⃣ Public catalog routes (no middleware)
	SetupShopRoutes(r, db, rdb)

	// 2️⃣ User routes (JWT-protected): cart, checkout, profile, ratings
	SetupUserRoutes(r, db, rdb)

	// 3️⃣ Payment routes (JWT-protected, driven by the gateway redirects)
	SetupPaymentRoutes(r, db)
}

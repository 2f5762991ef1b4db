package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	productControllers "github.com/turjo25/Royal-Shop/controllers/product"
	"gorm.io/gorm"
)

// SetupShopRoutes registers the public catalog endpoints.
func SetupShopRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client) {
	r.GET("/home", productControllers.HomeHandler(db))
	r.GET("/categories", productControllers.GetAllCategories(db))

	products := r.Group("/products")
	{
		products.GET("", productControllers.GetProducts(db))                  // GET /products?category=&min_price=&max_price=&rating=&search=
		products.GET("/:slug", productControllers.GetProductBySlug(db, rdb)) // GET /products/:slug
	}
}

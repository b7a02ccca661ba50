package routes

import (
	"time"

	"ratehub-backend/handlers"
	"ratehub-backend/middleware"
	"ratehub-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize services
	ratingService := &services.RatingService{DB: db}
	storeService := &services.StoreService{DB: db}
	userService := &services.UserService{DB: db}

	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db, Users: userService}
	storeHandler := &handlers.StoreHandler{DB: db, Stores: storeService}
	ratingHandler := &handlers.RatingHandler{DB: db, Ratings: ratingService}
	userHandler := &handlers.UserHandler{DB: db, Users: userService}

	// Brute-force protection on the auth endpoints
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/auth/register", authLimiter.Middleware(), authHandler.Register)
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		// User profile
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.PUT("/auth/password", authHandler.ChangePassword)

		// Store browsing
		protected.GET("/stores", storeHandler.GetStores)
		protected.GET("/stores/:id", storeHandler.GetStore)
		protected.GET("/stores/:id/ratings", storeHandler.GetStoreRatings)

		// Rating routes
		protected.POST("/ratings", ratingHandler.SubmitRating)
		protected.GET("/ratings/my-ratings", ratingHandler.GetMyRatings)
	}

	// Store owner portal
	owner := api.Group("/owner")
	owner.Use(middleware.AuthMiddleware())
	owner.Use(middleware.StoreOwnerMiddleware())
	{
		owner.GET("/store", storeHandler.GetMyStore)
		owner.GET("/store/ratings", storeHandler.GetMyStoreRatings)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// User management
		admin.GET("/users", userHandler.ListUsers)
		admin.POST("/users", userHandler.CreateUser)
		admin.GET("/users/:id", userHandler.GetUser)

		// Store management
		admin.POST("/stores", storeHandler.CreateStore)

		// Dashboard stats
		admin.GET("/dashboard", userHandler.GetDashboard)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

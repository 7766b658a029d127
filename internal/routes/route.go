package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/JJ8s/Space-GYM/internal/container"
	"github.com/JJ8s/Space-GYM/internal/handlers"
	"github.com/JJ8s/Space-GYM/internal/helpers"
	"github.com/JJ8s/Space-GYM/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{c.Config.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.ErrorHandler(c.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(200, gin.H{
				"status":  "OK",
				"service": "space-gym-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.CreateUser(c.UserService))
		v1.POST("/login", handlers.AuthenticateUser(c.UserService))
		v1.POST("/logout", handlers.Logout())

		// The catalog is browsable without an account.
		v1.GET("/spaces", handlers.ListSpaces(c.SpacesService))
		v1.GET("/spaces/:id", handlers.GetSpaceByID(c.SpacesService))
		v1.GET("/spaces/:id/reviews", handlers.ListSpaceReviews(c.ReviewService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(c.SupabaseClient, c.UserService, c.Logger))

	protected.GET("/profile", func(ctx *gin.Context) {
		user, exist := ctx.Get("user")
		if !exist {
			ctx.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}

		claims, ok := user.(*helpers.EnhancedClaims)
		if !ok {
			ctx.JSON(500, gin.H{"error": "Invalid user claims format"})
			return
		}

		ctx.JSON(200, gin.H{
			"status":      "OK",
			"user_id":     claims.UserID,
			"email":       claims.Email,
			"role":        claims.GetSafeRole(),
			"full_name":   claims.FullName,
			"is_admin":    claims.IsAdmin(),
			"is_business": claims.IsBusiness(),
		})
	})

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("/:id", handlers.GetUser(c.UserService))
		userRoutes.PATCH("/:id", handlers.UpdateUser(c.UserService))
	}

	spaceRoutes := protected.Group("/spaces")
	{
		spaceRoutes.POST("/", handlers.CreateSpace(c.SpacesService))
		spaceRoutes.PATCH("/:id", handlers.UpdateSpace(c.SpacesService))
		spaceRoutes.DELETE("/:id", handlers.DeleteSpace(c.SpacesService))
		spaceRoutes.GET("/owner/:owner_id", handlers.ListSpacesByOwner(c.SpacesService))
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("/availability", handlers.CheckAvailability(c.BookingService))
		bookingRoutes.POST("/", handlers.CreateBooking(c.BookingService))
		bookingRoutes.GET("/", handlers.ListMyBookings(c.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBooking(c.BookingService))
		bookingRoutes.GET("/:id/qr", handlers.BookingQR(c.BookingService))
		bookingRoutes.POST("/:id/cancel", handlers.CancelBooking(c.BookingService))
		bookingRoutes.POST("/:id/review", handlers.RateBooking(c.ReviewService))
	}

	ownerRoutes := protected.Group("/owner")
	{
		ownerRoutes.POST("/checkin", handlers.CheckIn(c.BookingService))
		ownerRoutes.GET("/bookings", handlers.ListOwnerBookings(c.BookingService))
		ownerRoutes.GET("/earnings", handlers.OwnerEarnings(c.BookingService))
	}

	return r
}

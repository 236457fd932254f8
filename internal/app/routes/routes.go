package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oguzk/campdir/internal/app/controllers"
	"github.com/oguzk/campdir/internal/middleware"
)

// SetupRouter configures all application routes. Role and ownership
// checks live in the services; routing only decides whether a caller
// must be authenticated at all.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	bootcampController *controllers.BootcampController,
	courseController *controllers.CourseController,
	reviewController *controllers.ReviewController,
	userController *controllers.UserController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/forgotpassword", authController.ForgotPassword)
		auth.PUT("/resetpassword/:resettoken", authController.ResetPassword)
	}

	// --- Authenticated auth routes ---
	authProtected := v1.Group("/auth")
	authProtected.Use(authMiddleware.Authenticate())
	{
		authProtected.GET("/me", authController.GetMe)
		authProtected.PUT("/updatedetails", authController.UpdateDetails)
		authProtected.PUT("/updatepassword", authController.UpdatePassword)
	}

	// --- Bootcamp routes ---
	bootcamps := v1.Group("/bootcamps")
	{
		bootcamps.GET("", bootcampController.List)
		bootcamps.GET("/:bootcampId", bootcampController.Get)

		// nested child collections, public reads
		bootcamps.GET("/:bootcampId/courses", courseController.List)
		bootcamps.GET("/:bootcampId/reviews", reviewController.List)
	}

	bootcampsProtected := v1.Group("/bootcamps")
	bootcampsProtected.Use(authMiddleware.Authenticate())
	{
		bootcampsProtected.POST("", bootcampController.Create)
		bootcampsProtected.PUT("/:bootcampId", bootcampController.Update)
		bootcampsProtected.DELETE("/:bootcampId", bootcampController.Delete)
		bootcampsProtected.POST("/:bootcampId/participants", bootcampController.RegisterParticipant)

		bootcampsProtected.POST("/:bootcampId/courses", courseController.Create)
		bootcampsProtected.POST("/:bootcampId/reviews", reviewController.Create)
	}

	// --- Course routes ---
	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.List)
		courses.GET("/:id", courseController.Get)
	}

	coursesProtected := v1.Group("/courses")
	coursesProtected.Use(authMiddleware.Authenticate())
	{
		coursesProtected.PUT("/:id", courseController.Update)
		coursesProtected.DELETE("/:id", courseController.Delete)
	}

	// --- Review routes ---
	reviews := v1.Group("/reviews")
	{
		reviews.GET("", reviewController.List)
		reviews.GET("/:id", reviewController.Get)
	}

	reviewsProtected := v1.Group("/reviews")
	reviewsProtected.Use(authMiddleware.Authenticate())
	{
		reviewsProtected.PUT("/:id", reviewController.Update)
		reviewsProtected.DELETE("/:id", reviewController.Delete)
	}

	// --- Admin user routes ---
	users := v1.Group("/users")
	users.Use(authMiddleware.Authenticate())
	{
		users.GET("", userController.List)
		users.GET("/:id", userController.Get)
		users.POST("", userController.Create)
		users.PUT("/:id", userController.Update)
		users.DELETE("/:id", userController.Delete)
	}
}

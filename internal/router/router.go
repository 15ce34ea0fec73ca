package router

import (
	"github.com/gin-gonic/gin"

	"github.com/hndang/servihub-backend/config"
	"github.com/hndang/servihub-backend/internal/app/controller"
	"github.com/hndang/servihub-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	serviceController  *controller.ServiceController
	commentController  *controller.CommentController
	favoriteController *controller.FavoriteController
	userController     *controller.UserController
	adminController    *controller.AdminController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	serviceController *controller.ServiceController,
	commentController *controller.CommentController,
	favoriteController *controller.FavoriteController,
	userController *controller.UserController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		serviceController:  serviceController,
		commentController:  commentController,
		favoriteController: favoriteController,
		userController:     userController,
		adminController:    adminController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "ServiHub API is running",
		})
	})

	// Serve uploaded images for the local storage driver
	router.Static("/uploads", r.config.Upload.LocalDir)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.POST("/logout", r.authController.Logout)
		}

		services := v1.Group("/service")
		{
			services.GET("", r.serviceController.List)
			services.GET("/all", r.serviceController.ListAll)
			services.GET("/trending", r.serviceController.Trending)
			services.GET("/my_services",
				r.authMiddleware.Authenticate(),
				r.serviceController.MyServices,
			)
			services.GET("/:id", r.serviceController.Get)

			services.POST("/create",
				r.authMiddleware.Authenticate(),
				r.serviceController.Create,
			)
			services.POST("/:id/images",
				r.authMiddleware.Authenticate(),
				r.serviceController.AddImage,
			)
			services.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.serviceController.Delete,
			)
		}

		comments := v1.Group("/comment")
		{
			comments.GET("", r.commentController.List)
			comments.GET("/service/:service_id", r.commentController.ListByService)
			comments.GET("/business/:user_id", r.commentController.ListByOwner)
			comments.POST("",
				r.authMiddleware.Authenticate(),
				r.commentController.Create,
			)
		}

		favorites := v1.Group("/favorite")
		{
			favorites.GET("", r.favoriteController.List)
			favorites.GET("/:id", r.favoriteController.Get)
			favorites.POST("",
				r.authMiddleware.Authenticate(),
				r.favoriteController.Create,
			)
			favorites.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.favoriteController.Delete,
			)
		}

		users := v1.Group("/user")
		{
			users.GET("/get", r.userController.List)
			users.GET("/:id", r.userController.Get)
			users.PUT("/:id", r.userController.Update)
			users.DELETE("/:id", r.userController.Delete)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireAdmin())
		{
			admin.POST("", r.adminController.Create)
			admin.GET("/stats", r.adminController.Stats)
			admin.GET("/export/services", r.adminController.ExportServices)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

package main

import (
	"fmt"
	"log"

	"net/http"

	"mediatrack/backend/internal/auth"
	"mediatrack/backend/internal/config"
	"mediatrack/backend/internal/database"
	"mediatrack/backend/internal/handler"
	"mediatrack/backend/internal/logger"
	"mediatrack/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Swagger imports
	_ "mediatrack/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           MediaTrack API
// @version         1.0
// @description     This is the API for the MediaTrack service.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	middleware.InitPrometheus()
	go middleware.CleanupVisitors()

	router := gin.Default()
	router.Use(middleware.MonitorMiddleware())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Uploaded avatars are served read-only.
	router.Static("/uploads", config.AppConfig.UploadDir)

	// API routes
	api := router.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.RateLimitMiddleware())
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// Media catalog routes
		mediaRoutes := api.Group("/media")
		{
			mediaRoutes.GET("", auth.OptionalAuthMiddleware(), handler.GetMediaCatalog)
			mediaRoutes.GET("/:id", handler.GetMediaByID)
			mediaRoutes.GET("/:id/status", auth.OptionalAuthMiddleware(), handler.GetMediaStatus)
			mediaRoutes.GET("/user/:id", handler.GetUserMediaList)
			mediaRoutes.POST("/list", auth.AuthMiddleware(), handler.SetListMembership)
		}

		// Friendship routes (protected)
		friendRoutes := api.Group("/friends")
		friendRoutes.Use(auth.AuthMiddleware())
		{
			friendRoutes.GET("", handler.GetFriends)
			friendRoutes.GET("/requests", handler.GetFriendRequests)
			friendRoutes.GET("/status/:id", handler.GetFriendshipStatus)
			friendRoutes.POST("/:id/request", handler.SendFriendRequest)
			friendRoutes.POST("/requests/:id/accept", handler.AcceptFriendRequest)
			friendRoutes.POST("/requests/:id/reject", handler.RejectFriendRequest)
			friendRoutes.DELETE("/requests/:id", handler.CancelFriendRequest)
			friendRoutes.DELETE("/:id", handler.RemoveFriend)
		}

		// User routes
		userRoutes := api.Group("/users")
		{
			userRoutes.GET("", auth.AuthMiddleware(), handler.SearchUsers)
			userRoutes.PUT("/me", auth.AuthMiddleware(), handler.UpdateProfile)
			userRoutes.POST("/avatar", auth.AuthMiddleware(), handler.UploadAvatar)
			userRoutes.GET("/:username", auth.OptionalAuthMiddleware(), handler.GetProfile)
			userRoutes.GET("/:username/friends", handler.GetUserFriends)
		}
	}

	addr := ":" + config.AppConfig.ServerPort
	fmt.Printf("Server is running on %s\n", addr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(addr))
}

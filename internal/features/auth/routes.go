package auth

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/cloudinary"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/ratelimit"
)

// RegisterRoutes registers the auth routes and initializes dependencies
func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	firebaseClient, err := InitFirebase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	cloudinarySvc, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
	if err != nil {
		log.Printf("Failed to initialize cloudinary service for auth: %v", err)
	}

	repo := NewRepository(db)
	handler := NewHandler(repo, firebaseClient, cloudinarySvc, cfg)
	authMiddleware := NewAuthMiddleware(repo, cfg)

	// Brute-force protection on the credential endpoints
	loginLimiter := ratelimit.New(10, time.Minute)
	loginLimiter.StartCleanup(5 * time.Minute)

	auth := router.Group("/auth")
	{
		auth.POST("/register", ratelimit.Middleware(loginLimiter), handler.Register)
		auth.POST("/login", ratelimit.Middleware(loginLimiter), handler.Login)
		auth.POST("/google", ratelimit.Middleware(loginLimiter), handler.GoogleLogin)

		auth.GET("/me", authMiddleware, handler.GetMe)
		auth.PATCH("/me", authMiddleware, handler.UpdateProfile)
		auth.POST("/me/profile-picture", authMiddleware, handler.UploadProfilePicture)
	}
}

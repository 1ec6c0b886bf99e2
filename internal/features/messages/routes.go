package messages

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
	"github.com/palsuhanapp/hanapp-api/internal/features/items"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/cloudinary"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/ratelimit"
)

// RegisterRoutes registers the messaging routes
func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	repo := NewRepository(db)
	itemsRepo := items.NewRepository(db)
	authRepo := auth.NewRepository(db)

	cloudinarySvc, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
	if err != nil {
		log.Printf("Failed to initialize cloudinary service for messages: %v", err)
	}

	handler := NewHandler(repo, itemsRepo, cloudinarySvc, cfg)
	authMiddleware := auth.NewAuthMiddleware(authRepo, cfg)

	// The poll endpoint is hit on a client-driven interval, keep it from
	// hammering the database
	pollLimiter := ratelimit.New(60, time.Minute)
	pollLimiter.StartCleanup(5 * time.Minute)
	sendLimiter := ratelimit.New(20, time.Minute)
	sendLimiter.StartCleanup(5 * time.Minute)

	router.POST("/message/:item_id", authMiddleware, ratelimit.UserBasedMiddleware(sendLimiter), handler.OpenThread)

	messages := router.Group("/messages")
	messages.Use(authMiddleware)
	{
		messages.GET("/inbox", handler.Inbox)
		messages.GET("/unread-count", handler.UnreadCount)
		messages.GET("/thread/:id", handler.GetThread)
		messages.POST("/thread/:id", ratelimit.UserBasedMiddleware(sendLimiter), handler.Reply)
		messages.POST("/thread/:id/delete", handler.SoftDeleteThread)
		messages.GET("/poll/:id", ratelimit.UserBasedMiddleware(pollLimiter), handler.Poll)
		messages.POST("/delete/:message_id", handler.DeleteMessage)
	}
}

package items

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/cloudinary"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/mailer"
)

// RegisterRoutes registers the item routes
func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config, notifier *mailer.Notifier) {
	repo := NewRepository(db)
	authRepo := auth.NewRepository(db)

	cloudinarySvc, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
	if err != nil {
		log.Printf("Failed to initialize cloudinary service for items: %v", err)
	}

	handler := NewHandler(repo, authRepo, cloudinarySvc, notifier, cfg)
	authMiddleware := auth.NewAuthMiddleware(authRepo, cfg)
	optionalAuth := auth.NewOptionalAuthMiddleware(authRepo, cfg)

	// Public listings, with owner visibility when a token is attached
	router.GET("/home", handler.Home)
	router.GET("/lost", optionalAuth, handler.ListLost)
	router.GET("/found", optionalAuth, handler.ListFound)
	router.GET("/claimed", handler.ListClaimed)
	router.GET("/items/:id", optionalAuth, handler.GetItem)

	// Posting and owner management
	router.POST("/post-lost", authMiddleware, handler.PostLost)
	router.POST("/post-found", authMiddleware, handler.PostFound)
	router.POST("/edit/:id", authMiddleware, handler.EditItem)
	router.POST("/toggle-listing/:id", authMiddleware, handler.ToggleListing)
	router.POST("/delete/:id", authMiddleware, handler.DeleteItem)
	router.POST("/complete/:id", authMiddleware, handler.CompleteItem)
	router.GET("/my-items", authMiddleware, handler.ListMine)
}

package moderation

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
	"github.com/palsuhanapp/hanapp-api/internal/features/claims"
	"github.com/palsuhanapp/hanapp-api/internal/features/items"
	"github.com/palsuhanapp/hanapp-api/internal/features/notifications"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/cloudinary"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/mailer"
)

// RegisterRoutes registers the admin moderation and dashboard routes
func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config, notifier *mailer.Notifier) {
	itemsRepo := items.NewRepository(db)
	claimsRepo := claims.NewRepository(db)
	authRepo := auth.NewRepository(db)
	notifSvc := notifications.GetService(db)

	cloudinarySvc, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
	if err != nil {
		log.Printf("Failed to initialize cloudinary service for moderation: %v", err)
	}

	handler := NewHandler(itemsRepo, claimsRepo, authRepo, notifSvc, notifier, cloudinarySvc, cfg)
	authMiddleware := auth.NewAuthMiddleware(authRepo, cfg)

	moderation := router.Group("/moderation")
	moderation.Use(authMiddleware, RequireAdmin())
	{
		moderation.POST("/approve/:id", handler.ApproveItem)
		moderation.POST("/reject/:id", handler.RejectItem)
		moderation.GET("/claims", handler.ListPendingClaims)
		moderation.POST("/claims/approve/:id", handler.ApproveClaim)
		moderation.POST("/claims/reject/:id", handler.RejectClaim)
	}

	dashboard := router.Group("/dashboard")
	dashboard.Use(authMiddleware, RequireAdmin())
	{
		dashboard.GET("/stats", handler.Dashboard)
		dashboard.GET("/items", handler.ListItems)
		dashboard.POST("/archive/:id", handler.ArchiveItem)
		dashboard.POST("/unarchive-delete/:id", handler.DeleteArchivedItem)
		dashboard.POST("/users/promote/:id", handler.PromoteUser)
	}
}

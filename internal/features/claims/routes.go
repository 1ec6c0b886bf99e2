package claims

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
	"github.com/palsuhanapp/hanapp-api/internal/features/items"
	"github.com/palsuhanapp/hanapp-api/internal/features/notifications"
)

// RegisterRoutes registers the claim routes
func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	repo := NewRepository(db)
	itemsRepo := items.NewRepository(db)
	authRepo := auth.NewRepository(db)
	notifSvc := notifications.GetService(db)

	handler := NewHandler(repo, itemsRepo, notifSvc, cfg)
	authMiddleware := auth.NewAuthMiddleware(authRepo, cfg)

	claimGroup := router.Group("/claims")
	claimGroup.Use(authMiddleware)
	{
		claimGroup.GET("/mine", handler.ListMine)
		claimGroup.GET("/item/:item_id", handler.ListForItem)
		claimGroup.POST("/:item_id", handler.CreateClaim)
	}
}

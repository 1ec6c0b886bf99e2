package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
	"github.com/palsuhanapp/hanapp-api/internal/features/claims"
	"github.com/palsuhanapp/hanapp-api/internal/features/items"
	"github.com/palsuhanapp/hanapp-api/internal/features/messages"
	"github.com/palsuhanapp/hanapp-api/internal/features/moderation"
	"github.com/palsuhanapp/hanapp-api/internal/features/notifications"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/mailer"
)

// SetupRoutes wires every feature under /api/v1. The mail notifier is
// shared so the items and moderation features dispatch through one SMTP
// dialer.
func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config) {
	api := router.Group("/api/v1")

	sender := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	notifier := mailer.NewNotifier(sender, cfg.AdminEmail, cfg.FrontendURL)

	auth.RegisterRoutes(api, db, cfg)
	items.RegisterRoutes(api, db, cfg, notifier)
	claims.RegisterRoutes(api, db, cfg)
	messages.RegisterRoutes(api, db, cfg)
	notifications.RegisterRoutes(api, db, cfg)
	moderation.RegisterRoutes(api, db, cfg, notifier)
}

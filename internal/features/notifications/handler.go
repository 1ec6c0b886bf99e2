package notifications

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/response"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListNotifications godoc
// @Summary List the authenticated user's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unreadOnly query bool false "Only unread"
// @Success 200 {object} response.PaginatedEnvelope
// @Router /notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var q NotificationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	list, total, err := h.repo.GetUserNotifications(c.Request.Context(), user.ID, q.UnreadOnly, q.Page, q.Limit)
	if err != nil {
		response.InternalServerError(c, "Failed to load notifications")
		return
	}
	response.Paginated(c, list, total, q.Page, q.Limit)
}

// GetUnreadCount godoc
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.repo.CountUnread(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalServerError(c, "Failed to count notifications")
		return
	}
	response.Success(c, "Unread count retrieved", gin.H{"count": count})
}

// MarkAsRead godoc
// @Summary Mark one notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Router /notifications/{id}/read [patch]
func (h *Handler) MarkAsRead(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Notification not found")
		return
	}

	if err := h.repo.MarkAsRead(c.Request.Context(), id, user.ID); err != nil {
		response.NotFound(c, "Notification not found")
		return
	}
	response.Success(c, "Notification marked as read", nil)
}

// MarkAllAsRead godoc
// @Summary Mark every notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /notifications/read-all [patch]
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	updated, err := h.repo.MarkAllAsRead(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalServerError(c, "Failed to update notifications")
		return
	}
	response.Success(c, "Notifications marked as read", gin.H{"updated": updated})
}

package messages

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
	"github.com/palsuhanapp/hanapp-api/internal/features/items"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/cloudinary"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/imaging"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/response"
)

type Handler struct {
	repo      *Repository
	itemsRepo *items.Repository
	cld       *cloudinary.Service
	cfg       *config.Config
}

func NewHandler(repo *Repository, itemsRepo *items.Repository, cld *cloudinary.Service, cfg *config.Config) *Handler {
	return &Handler{repo: repo, itemsRepo: itemsRepo, cld: cld, cfg: cfg}
}

// wantsJSON reports whether the request came from the JSON client rather
// than a plain form post.
func wantsJSON(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(c.GetHeader("Content-Type"), "application/json")
}

// redirectOrJSON finishes a mutating request: form posts get a redirect
// back into the messages UI, JSON clients get the envelope.
func (h *Handler) redirectOrJSON(c *gin.Context, message string, data interface{}, path string) {
	if wantsJSON(c) {
		response.Success(c, message, data)
		return
	}
	c.Redirect(http.StatusSeeOther, h.cfg.FrontendURL+path)
}

// OpenThread godoc
// @Summary Contact an item's poster
// @Description Opens a conversation about an item. Requires a verified campus account.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item_id path string true "Item ID"
// @Param request body OpenThreadRequest true "Message"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /message/{item_id} [post]
func (h *Handler) OpenThread(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	if !user.IsInstitutionalUser(h.cfg.CampusEmailDomain) {
		response.Forbidden(c, "Only verified campus accounts can contact posters")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(c.Param("item_id"))
	if err != nil {
		response.NotFound(c, "Item not found")
		return
	}
	item, err := h.itemsRepo.GetItemByID(c.Request.Context(), itemID)
	if err != nil || item.IsArchived {
		response.NotFound(c, "Item not found")
		return
	}
	if item.IsOwnedBy(user.ID) {
		response.Refused(c, "You cannot message yourself about your own item")
		return
	}

	var req OpenThreadRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Body) == "" {
		response.BadRequest(c, "Message body is required")
		return
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "Inquiry about: " + item.Title
	}

	body := strings.TrimSpace(req.Body)
	if req.Phone != "" {
		body += "\n\nContact number: " + req.Phone
	}

	msg := &Message{
		ItemID:        item.ID,
		SenderID:      user.ID,
		RecipientID:   item.PostedBy,
		SenderName:    user.DisplayOrEmail(),
		RecipientName: item.PosterName,
		Subject:       subject,
		Body:          body,
	}
	if err := h.repo.CreateMessage(c.Request.Context(), msg); err != nil {
		response.InternalServerError(c, "Failed to send message")
		return
	}

	h.redirectOrJSON(c, "Message sent", msg, "/messages/thread/"+msg.ID.Hex())
}

// Inbox godoc
// @Summary List the authenticated user's conversations
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /messages/inbox [get]
func (h *Handler) Inbox(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	msgs, err := h.repo.ListInvolving(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalServerError(c, "Failed to load inbox")
		return
	}
	response.Success(c, "Inbox retrieved", BuildInbox(user.ID, msgs))
}

// GetThread godoc
// @Summary View a conversation
// @Description Returns the thread and marks messages addressed to the viewer as read.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread root ID"
// @Success 200 {object} response.Envelope
// @Router /messages/thread/{id} [get]
func (h *Handler) GetThread(c *gin.Context) {
	user, root, ok := h.loadThreadRoot(c)
	if !ok {
		return
	}

	msgs, err := h.repo.ListThread(c.Request.Context(), root.ID)
	if err != nil {
		response.InternalServerError(c, "Failed to load thread")
		return
	}

	if err := h.repo.MarkThreadRead(c.Request.Context(), root.ID, user.ID); err != nil {
		response.InternalServerError(c, "Failed to update read state")
		return
	}

	response.Success(c, "Thread retrieved", gin.H{
		"messages": VisibleInThread(user.ID, msgs),
		"subject":  root.Subject,
		"itemId":   root.ItemID,
	})
}

// Reply godoc
// @Summary Reply in a conversation
// @Description Replies attach to the thread root even when sent against a reply.
// @Tags messages
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread root or message ID"
// @Success 200 {object} response.Envelope
// @Router /messages/thread/{id} [post]
func (h *Handler) Reply(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Thread not found")
		return
	}

	parent, err := h.repo.GetMessageByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Thread not found")
		return
	}

	rootID := EffectiveRoot(parent)
	root := parent
	if root.ID != rootID {
		root, err = h.repo.GetMessageByID(c.Request.Context(), rootID)
		if err != nil {
			response.NotFound(c, "Thread not found")
			return
		}
	}
	if root.IsDeleted || !root.InvolvesUser(user.ID) {
		response.NotFound(c, "Thread not found")
		return
	}

	var req ReplyRequest
	_ = c.ShouldBind(&req)
	body := strings.TrimSpace(req.Body)

	var imageURL, imagePublicID string
	if fileHeader, ferr := c.FormFile("image"); ferr == nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.InternalServerError(c, "Failed to read uploaded file")
			return
		}
		defer file.Close()

		if err := imaging.Validate(file, fileHeader.Filename, fileHeader.Size); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if h.cld == nil {
			response.Error(c, 503, "Image uploads are not configured")
			return
		}
		upload, err := h.cld.UploadImage(c.Request.Context(), file, "messages")
		if err != nil {
			response.InternalServerError(c, "Failed to upload image")
			return
		}
		imageURL = upload.URL
		imagePublicID = upload.PublicID
	}

	if body == "" && imageURL == "" {
		response.BadRequest(c, "Reply needs a message or an image")
		return
	}

	recipientID, recipientName := root.OtherParticipant(user.ID)
	msg := &Message{
		ItemID:        root.ItemID,
		SenderID:      user.ID,
		RecipientID:   recipientID,
		SenderName:    user.DisplayOrEmail(),
		RecipientName: recipientName,
		Body:          body,
		ImageURL:      imageURL,
		ImagePublicID: imagePublicID,
		ParentID:      &rootID,
	}
	if err := h.repo.CreateMessage(c.Request.Context(), msg); err != nil {
		response.InternalServerError(c, "Failed to send reply")
		return
	}

	h.redirectOrJSON(c, "Reply sent", msg, "/messages/thread/"+rootID.Hex())
}

// Poll godoc
// @Summary Fetch new messages in a conversation
// @Description Returns messages newer than last_id and marks those addressed to the viewer as read.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread root ID"
// @Param last_id query string false "Last seen message ID"
// @Success 200 {object} response.Envelope
// @Router /messages/poll/{id} [get]
func (h *Handler) Poll(c *gin.Context) {
	user, root, ok := h.loadThreadRoot(c)
	if !ok {
		return
	}

	var afterID *primitive.ObjectID
	if last := c.Query("last_id"); last != "" {
		id, err := primitive.ObjectIDFromHex(last)
		if err != nil {
			response.BadRequest(c, "Invalid last_id")
			return
		}
		afterID = &id
	}

	msgs, err := h.repo.FetchNew(c.Request.Context(), root.ID, afterID)
	if err != nil {
		response.InternalServerError(c, "Failed to fetch messages")
		return
	}

	if err := h.repo.MarkThreadRead(c.Request.Context(), root.ID, user.ID); err != nil {
		response.InternalServerError(c, "Failed to update read state")
		return
	}

	response.Success(c, "New messages retrieved", VisibleInThread(user.ID, msgs))
}

// SoftDeleteThread godoc
// @Summary Remove a conversation from the viewer's inbox
// @Description The counterpart keeps the conversation; nothing is destroyed.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread root ID"
// @Success 200 {object} response.Envelope
// @Router /messages/thread/{id}/delete [post]
func (h *Handler) SoftDeleteThread(c *gin.Context) {
	user, root, ok := h.loadThreadRoot(c)
	if !ok {
		return
	}

	if err := h.repo.SoftDeleteThread(c.Request.Context(), root.ID, root.SenderID == user.ID); err != nil {
		response.InternalServerError(c, "Failed to remove conversation")
		return
	}
	h.redirectOrJSON(c, "Conversation removed", nil, "/messages/inbox")
}

// DeleteMessage godoc
// @Summary Delete one of your own messages
// @Description Removes the image immediately. Deleting the root removes the conversation for both sides.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param message_id path string true "Message ID"
// @Success 200 {object} response.Envelope
// @Router /messages/delete/{message_id} [post]
func (h *Handler) DeleteMessage(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("message_id"))
	if err != nil {
		response.NotFound(c, "Message not found")
		return
	}

	msg, err := h.repo.GetMessageByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Message not found")
		return
	}
	if msg.SenderID != user.ID {
		response.Forbidden(c, "You can only delete your own messages")
		return
	}

	if err := h.repo.MarkMessageDeleted(c.Request.Context(), msg.ID); err != nil {
		response.InternalServerError(c, "Failed to delete message")
		return
	}
	if msg.ImagePublicID != "" && h.cld != nil {
		// Attachments go immediately, there is no undo window
		_ = h.cld.Delete(c.Request.Context(), msg.ImagePublicID)
	}

	h.redirectOrJSON(c, "Message deleted", nil, "/messages/inbox")
}

// UnreadCount godoc
// @Summary Count unread messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /messages/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.repo.CountUnread(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalServerError(c, "Failed to count messages")
		return
	}
	response.Success(c, "Unread count retrieved", gin.H{"count": count})
}

// loadThreadRoot resolves the authenticated user and the :id thread root,
// enforcing participation. Writes the error response itself on failure.
func (h *Handler) loadThreadRoot(c *gin.Context) (*auth.User, *Message, bool) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return nil, nil, false
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Thread not found")
		return nil, nil, false
	}

	msg, err := h.repo.GetMessageByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Thread not found")
		return nil, nil, false
	}

	root := msg
	if !msg.IsRoot() {
		root, err = h.repo.GetMessageByID(c.Request.Context(), msg.RootID())
		if err != nil {
			response.NotFound(c, "Thread not found")
			return nil, nil, false
		}
	}
	if root.IsDeleted || !root.InvolvesUser(user.ID) {
		response.NotFound(c, "Thread not found")
		return nil, nil, false
	}
	return user, root, true
}

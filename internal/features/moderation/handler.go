package moderation

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
	"github.com/palsuhanapp/hanapp-api/internal/features/claims"
	"github.com/palsuhanapp/hanapp-api/internal/features/items"
	"github.com/palsuhanapp/hanapp-api/internal/features/notifications"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/cloudinary"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/mailer"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/pagination"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/response"
)

type Handler struct {
	itemsRepo  *items.Repository
	claimsRepo *claims.Repository
	authRepo   *auth.Repository
	notifSvc   *notifications.Service
	notifier   *mailer.Notifier
	cld        *cloudinary.Service
	cfg        *config.Config
}

func NewHandler(itemsRepo *items.Repository, claimsRepo *claims.Repository, authRepo *auth.Repository, notifSvc *notifications.Service, notifier *mailer.Notifier, cld *cloudinary.Service, cfg *config.Config) *Handler {
	return &Handler{
		itemsRepo:  itemsRepo,
		claimsRepo: claimsRepo,
		authRepo:   authRepo,
		notifSvc:   notifSvc,
		notifier:   notifier,
		cld:        cld,
		cfg:        cfg,
	}
}

// RequireAdmin rejects requests from non-admin users. Runs after the auth
// middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !user.IsAdminUser() {
			response.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

type archiveRequest struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

type promoteRequest struct {
	Role string `json:"role" binding:"required"`
}

// ApproveItem godoc
// @Summary Approve a pending item
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /moderation/approve/{id} [post]
func (h *Handler) ApproveItem(c *gin.Context) {
	admin, item, ok := h.loadItem(c)
	if !ok {
		return
	}
	if item.Status != items.StatusPending {
		response.Refused(c, "Only pending items can be approved")
		return
	}

	if err := h.itemsRepo.SetApproved(c.Request.Context(), item.ID, admin.ID); err != nil {
		response.InternalServerError(c, "Failed to approve item")
		return
	}

	h.notifSvc.ItemApproved(c.Request.Context(), item.PostedBy, item.ID, item.Title)
	h.notifier.ItemApproved(h.mailInfo(item))

	response.Success(c, "Item approved", nil)
}

// RejectItem godoc
// @Summary Reject a pending item
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /moderation/reject/{id} [post]
func (h *Handler) RejectItem(c *gin.Context) {
	_, item, ok := h.loadItem(c)
	if !ok {
		return
	}
	if item.Status != items.StatusPending {
		response.Refused(c, "Only pending items can be rejected")
		return
	}

	if err := h.itemsRepo.SetRejected(c.Request.Context(), item.ID); err != nil {
		response.InternalServerError(c, "Failed to reject item")
		return
	}

	h.notifSvc.ItemRejected(c.Request.Context(), item.PostedBy, item.ID, item.Title)
	h.notifier.ItemRejected(h.mailInfo(item))

	response.Success(c, "Item rejected", nil)
}

// ArchiveItem godoc
// @Summary Archive an item
// @Description Archival suppresses the item from every public listing regardless of status.
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param request body archiveRequest true "Reason and notes"
// @Success 200 {object} response.Envelope
// @Router /dashboard/archive/{id} [post]
func (h *Handler) ArchiveItem(c *gin.Context) {
	admin, item, ok := h.loadItem(c)
	if !ok {
		return
	}
	if item.IsArchived {
		response.Refused(c, "Item is already archived")
		return
	}

	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Archive reason is required")
		return
	}
	if !items.IsValidArchiveReason(req.Reason) {
		response.BadRequest(c, "Invalid archive reason")
		return
	}

	if err := h.itemsRepo.Archive(c.Request.Context(), item.ID, admin.ID, req.Reason, req.Notes); err != nil {
		response.InternalServerError(c, "Failed to archive item")
		return
	}

	h.notifier.ItemArchived(h.mailInfo(item), req.Reason)

	response.Success(c, "Item archived", nil)
}

// DeleteArchivedItem godoc
// @Summary Permanently delete an archived item
// @Description Irreversible. Only archived items can be removed for good.
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /dashboard/unarchive-delete/{id} [post]
func (h *Handler) DeleteArchivedItem(c *gin.Context) {
	_, item, ok := h.loadItem(c)
	if !ok {
		return
	}
	if !item.IsArchived {
		response.Refused(c, "Only archived items can be permanently deleted")
		return
	}

	if err := h.itemsRepo.DeleteItem(c.Request.Context(), item.ID); err != nil {
		response.InternalServerError(c, "Failed to delete item")
		return
	}
	if item.ImagePublicID != "" && h.cld != nil {
		_ = h.cld.Delete(c.Request.Context(), item.ImagePublicID)
	}
	response.Success(c, "Item permanently deleted", nil)
}

// ApproveClaim godoc
// @Summary Approve a claim
// @Description Approving a claim marks the target item as claimed.
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} response.Envelope
// @Router /moderation/claims/approve/{id} [post]
func (h *Handler) ApproveClaim(c *gin.Context) {
	admin, claim, ok := h.loadClaim(c)
	if !ok {
		return
	}

	if err := h.claimsRepo.Resolve(c.Request.Context(), claim.ID, admin.ID, claims.StatusApproved); err != nil {
		response.Refused(c, "Claim is already resolved")
		return
	}

	item, err := h.itemsRepo.GetItemByID(c.Request.Context(), claim.ItemID)
	if err == nil {
		if err := h.itemsRepo.SetClaimed(c.Request.Context(), item.ID, claim.ClaimantID, claim.ClaimantName, claim.ClaimantEmail); err != nil {
			response.InternalServerError(c, "Claim approved but item update failed")
			return
		}
		h.notifSvc.ClaimApproved(c.Request.Context(), claim.ClaimantID, item.ID, claim.ID, item.Title)
	}

	response.Success(c, "Claim approved", nil)
}

// RejectClaim godoc
// @Summary Reject a claim
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} response.Envelope
// @Router /moderation/claims/reject/{id} [post]
func (h *Handler) RejectClaim(c *gin.Context) {
	admin, claim, ok := h.loadClaim(c)
	if !ok {
		return
	}

	if err := h.claimsRepo.Resolve(c.Request.Context(), claim.ID, admin.ID, claims.StatusRejected); err != nil {
		response.Refused(c, "Claim is already resolved")
		return
	}

	if item, err := h.itemsRepo.GetItemByID(c.Request.Context(), claim.ItemID); err == nil {
		h.notifSvc.ClaimRejected(c.Request.Context(), claim.ClaimantID, item.ID, claim.ID, item.Title)
	}

	response.Success(c, "Claim rejected", nil)
}

// ListPendingClaims godoc
// @Summary List unresolved claims
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /moderation/claims [get]
func (h *Handler) ListPendingClaims(c *gin.Context) {
	list, err := h.claimsRepo.ListPending(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to load claims")
		return
	}
	response.Success(c, "Pending claims retrieved", list)
}

// PromoteUser godoc
// @Summary Change a user's role
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body promoteRequest true "New role"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dashboard/users/promote/{id} [post]
func (h *Handler) PromoteUser(c *gin.Context) {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}
	target, err := h.authRepo.GetUserByObjectID(c.Request.Context(), targetID)
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}

	var req promoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || !auth.IsValidRole(req.Role) {
		response.BadRequest(c, "Invalid role")
		return
	}

	if err := CanChangeRole(actor, target, req.Role, h.cfg.CampusEmailDomain); err != nil {
		response.Forbidden(c, err.Error())
		return
	}

	if err := h.authRepo.SetRole(c.Request.Context(), target.ID, req.Role); err != nil {
		response.InternalServerError(c, "Failed to change role")
		return
	}

	h.notifier.RoleChanged(target.Email, target.DisplayOrEmail(), req.Role, actor.DisplayOrEmail())

	response.Success(c, "Role updated", gin.H{"role": req.Role})
}

// Dashboard godoc
// @Summary Moderation dashboard statistics
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	statusCounts, err := h.itemsRepo.StatusCounts(ctx)
	if err != nil {
		response.InternalServerError(c, "Failed to load statistics")
		return
	}
	totalItems, err := h.itemsRepo.CountAll(ctx)
	if err != nil {
		response.InternalServerError(c, "Failed to load statistics")
		return
	}
	archived, err := h.itemsRepo.CountArchived(ctx)
	if err != nil {
		response.InternalServerError(c, "Failed to load statistics")
		return
	}
	totalUsers, err := h.authRepo.CountUsers(ctx)
	if err != nil {
		response.InternalServerError(c, "Failed to load statistics")
		return
	}
	pendingClaims, err := h.claimsRepo.CountPending(ctx)
	if err != nil {
		response.InternalServerError(c, "Failed to load statistics")
		return
	}

	resolved := statusCounts[items.StatusClaimed] + statusCounts[items.StatusFound]
	resolvedRate := 0.0
	if totalItems > 0 {
		resolvedRate = float64(resolved) / float64(totalItems) * 100
	}

	response.Success(c, "Dashboard statistics retrieved", gin.H{
		"totalItems":    totalItems,
		"statusCounts":  statusCounts,
		"archivedItems": archived,
		"totalUsers":    totalUsers,
		"pendingClaims": pendingClaims,
		"resolvedRate":  resolvedRate,
	})
}

// ListItems godoc
// @Summary List items for moderation
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter, or archived"
// @Success 200 {object} response.PaginatedEnvelope
// @Router /dashboard/items [get]
func (h *Handler) ListItems(c *gin.Context) {
	page, limit := pagination.Normalize(
		queryInt(c, "page", 1),
		queryInt(c, "limit", 20),
		100,
	)

	list, total, err := h.itemsRepo.ListForModeration(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		response.InternalServerError(c, "Failed to load items")
		return
	}
	response.Paginated(c, list, total, page, limit)
}

func (h *Handler) loadItem(c *gin.Context) (*auth.User, *items.Item, bool) {
	admin, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return nil, nil, false
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Item not found")
		return nil, nil, false
	}
	item, err := h.itemsRepo.GetItemByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Item not found")
		return nil, nil, false
	}
	return admin, item, true
}

func (h *Handler) loadClaim(c *gin.Context) (*auth.User, *claims.Claim, bool) {
	admin, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return nil, nil, false
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Claim not found")
		return nil, nil, false
	}
	claim, err := h.claimsRepo.GetClaimByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Claim not found")
		return nil, nil, false
	}
	return admin, claim, true
}

func (h *Handler) mailInfo(item *items.Item) mailer.ItemInfo {
	typeLabel := "Lost Item"
	if item.ItemType == items.TypeFound {
		typeLabel = "Found Item"
	}
	dateStr := ""
	if d := item.Date(); d != nil {
		dateStr = d.Format("January 2, 2006")
	}
	return mailer.ItemInfo{
		Title:       item.Title,
		TypeLabel:   typeLabel,
		Category:    item.Category,
		Location:    item.Location(),
		Date:        dateStr,
		PosterName:  item.PosterName,
		PosterEmail: item.PosterEmail,
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

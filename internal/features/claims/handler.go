package claims

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
	"github.com/palsuhanapp/hanapp-api/internal/features/items"
	"github.com/palsuhanapp/hanapp-api/internal/features/notifications"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/response"
	apperrors "github.com/palsuhanapp/hanapp-api/pkg/errors"
)

type Handler struct {
	repo      *Repository
	itemsRepo *items.Repository
	notifSvc  *notifications.Service
	cfg       *config.Config
}

func NewHandler(repo *Repository, itemsRepo *items.Repository, notifSvc *notifications.Service, cfg *config.Config) *Handler {
	return &Handler{repo: repo, itemsRepo: itemsRepo, notifSvc: notifSvc, cfg: cfg}
}

// CreateClaim godoc
// @Summary File a claim on an item
// @Description One claim per user per item; duplicates are rejected by the storage constraint.
// @Tags claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item_id path string true "Item ID"
// @Param request body CreateClaimRequest true "Claim details"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /claims/{item_id} [post]
func (h *Handler) CreateClaim(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	if !user.IsInstitutionalUser(h.cfg.CampusEmailDomain) {
		response.Forbidden(c, "Only verified campus accounts can claim items")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(c.Param("item_id"))
	if err != nil {
		response.NotFound(c, "Item not found")
		return
	}

	item, err := h.itemsRepo.GetItemByID(c.Request.Context(), itemID)
	if err != nil {
		response.NotFound(c, "Item not found")
		return
	}
	if item.IsArchived || item.Status != items.StatusApproved {
		response.NotFound(c, "Item not found")
		return
	}
	if item.IsOwnedBy(user.ID) {
		response.Refused(c, "You cannot claim your own item")
		return
	}

	var req CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Justification is required")
		return
	}

	claim := &Claim{
		ItemID:        item.ID,
		ClaimantID:    user.ID,
		ClaimantName:  user.DisplayOrEmail(),
		ClaimantEmail: user.Email,
		Justification: req.Justification,
		ContactInfo:   req.ContactInfo,
	}

	if err := h.repo.CreateClaim(c.Request.Context(), claim); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			response.Conflict(c, "You have already claimed this item")
			return
		}
		response.InternalServerError(c, "Failed to save claim")
		return
	}

	h.notifSvc.ClaimReceived(c.Request.Context(), item.PostedBy, item.ID, claim.ID, item.Title, claim.ClaimantName)

	response.Created(c, "Claim submitted", claim)
}

// ListMine godoc
// @Summary List the authenticated user's claims
// @Tags claims
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /claims/mine [get]
func (h *Handler) ListMine(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	list, err := h.repo.ListByClaimant(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalServerError(c, "Failed to load claims")
		return
	}
	response.Success(c, "Claims retrieved", list)
}

// ListForItem godoc
// @Summary List claims on an item
// @Description Visible to the item's poster and to admins.
// @Tags claims
// @Produce json
// @Security BearerAuth
// @Param item_id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /claims/item/{item_id} [get]
func (h *Handler) ListForItem(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(c.Param("item_id"))
	if err != nil {
		response.NotFound(c, "Item not found")
		return
	}

	item, err := h.itemsRepo.GetItemByID(c.Request.Context(), itemID)
	if err != nil {
		response.NotFound(c, "Item not found")
		return
	}
	if !item.IsOwnedBy(user.ID) && !user.IsAdminUser() {
		response.Forbidden(c, "Only the poster can view claims on this item")
		return
	}

	list, err := h.repo.ListByItem(c.Request.Context(), item.ID)
	if err != nil {
		response.InternalServerError(c, "Failed to load claims")
		return
	}
	response.Success(c, "Claims retrieved", list)
}

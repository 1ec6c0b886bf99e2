package items

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/cloudinary"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/imaging"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/mailer"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/pagination"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/response"
)

type Handler struct {
	repo     *Repository
	authRepo *auth.Repository
	cld      *cloudinary.Service
	notifier *mailer.Notifier
	cfg      *config.Config
}

func NewHandler(repo *Repository, authRepo *auth.Repository, cld *cloudinary.Service, notifier *mailer.Notifier, cfg *config.Config) *Handler {
	return &Handler{repo: repo, authRepo: authRepo, cld: cld, notifier: notifier, cfg: cfg}
}

// PostLost godoc
// @Summary Report a lost item
// @Tags items
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /post-lost [post]
func (h *Handler) PostLost(c *gin.Context) {
	h.createItem(c, TypeLost)
}

// PostFound godoc
// @Summary Report a found item
// @Tags items
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /post-found [post]
func (h *Handler) PostFound(c *gin.Context) {
	h.createItem(c, TypeFound)
}

func (h *Handler) createItem(c *gin.Context, itemType string) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	if !user.CanPostItems() {
		response.Forbidden(c, "Only verified users can post items")
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Missing required fields")
		return
	}
	if err := ValidateCreate(&req, itemType); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	date, err := ParseItemDate(req.Date)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item := &Item{
		ItemType:      itemType,
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		Category:      req.Category,
		ContactNumber: req.ContactNumber,
		ShowName:      resolveShowName(itemType, req.ShowName),
		Status:        initialStatus(user),
		IsActive:      true,
		PostedBy:      user.ID,
		PosterName:    user.DisplayOrEmail(),
		PosterEmail:   user.Email,
	}
	if itemType == TypeLost {
		item.LocationLost = strings.TrimSpace(req.Location)
		item.DateLost = &date
	} else {
		item.LocationFound = strings.TrimSpace(req.Location)
		item.DateFound = &date
	}

	if item.Status == StatusApproved {
		now := time.Now()
		item.ApprovedBy = &user.ID
		item.ApprovedAt = &now
	}

	if upload, ok := h.uploadImage(c, "items"); ok {
		if upload != nil {
			item.ImageURL = upload.URL
			item.ImagePublicID = upload.PublicID
		}
	} else {
		return
	}

	if err := h.repo.CreateItem(c.Request.Context(), item); err != nil {
		response.InternalServerError(c, "Failed to save item")
		return
	}

	if item.Status == StatusPending {
		info := h.mailInfo(item)
		h.notifier.ItemPending(info)
		h.notifier.AdminNewItem(info)
	}

	response.Created(c, "Item submitted", item)
}

// uploadImage validates and uploads an optional "image" form part. The
// second return value is false when a response was already written.
func (h *Handler) uploadImage(c *gin.Context, subfolder string) (*cloudinary.UploadResult, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, true // no image attached
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "Failed to read uploaded file")
		return nil, false
	}
	defer file.Close()

	if err := imaging.Validate(file, fileHeader.Filename, fileHeader.Size); err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}

	if h.cld == nil {
		response.Error(c, 503, "Image uploads are not configured")
		return nil, false
	}

	upload, err := h.cld.UploadImage(c.Request.Context(), file, subfolder)
	if err != nil {
		response.InternalServerError(c, "Failed to upload image")
		return nil, false
	}
	return upload, true
}

// EditItem godoc
// @Summary Edit an item
// @Description Owner edits re-enter moderation; admin edits keep the current status.
// @Tags items
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /edit/{id} [post]
func (h *Handler) EditItem(c *gin.Context) {
	user, item, ok := h.loadItemForUpdate(c)
	if !ok {
		return
	}

	isOwner := item.IsOwnedBy(user.ID)
	// The admin path also requires posting rights on the admin themself.
	// Curious rule, but moderation tooling relies on it.
	if !isOwner && !(user.IsAdminUser() && user.CanPostItems()) {
		response.Forbidden(c, "You can only edit your own items")
		return
	}
	if item.IsTerminal() {
		response.Refused(c, "Completed items can no longer be edited")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}
	if err := ValidateUpdate(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updates := bson.M{}
	if req.Title != "" {
		updates["title"] = strings.TrimSpace(req.Title)
	}
	if req.Description != "" {
		updates["description"] = strings.TrimSpace(req.Description)
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.ContactNumber != "" {
		updates["contactNumber"] = req.ContactNumber
	}
	if req.Location != "" {
		if item.ItemType == TypeLost {
			updates["locationLost"] = strings.TrimSpace(req.Location)
		} else {
			updates["locationFound"] = strings.TrimSpace(req.Location)
		}
	}
	if req.Date != "" {
		date, _ := ParseItemDate(req.Date)
		if item.ItemType == TypeLost {
			updates["dateLost"] = date
		} else {
			updates["dateFound"] = date
		}
	}

	if upload, ok := h.uploadImage(c, "items"); ok {
		if upload != nil {
			if item.ImagePublicID != "" {
				_ = h.cld.Delete(c.Request.Context(), item.ImagePublicID)
			}
			updates["imageUrl"] = upload.URL
			updates["imagePublicId"] = upload.PublicID
		}
	} else {
		return
	}

	if len(updates) == 0 {
		response.BadRequest(c, "Nothing to update")
		return
	}

	now := time.Now()
	updates["contentUpdatedAt"] = now

	reModerated := forcesRemoderation(user, item)
	if reModerated {
		updates["status"] = StatusPending
	}

	if err := h.repo.UpdateItem(c.Request.Context(), item.ID, updates); err != nil {
		response.InternalServerError(c, "Failed to update item")
		return
	}

	if reModerated {
		info := h.mailInfo(item)
		h.notifier.ItemPending(info)
		h.notifier.AdminContentUpdated(info)
	}

	updated, err := h.repo.GetItemByID(c.Request.Context(), item.ID)
	if err != nil {
		response.InternalServerError(c, "Failed to load item")
		return
	}
	response.Success(c, "Item updated", updated)
}

// ToggleListing godoc
// @Summary Toggle an item's public visibility
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /toggle-listing/{id} [post]
func (h *Handler) ToggleListing(c *gin.Context) {
	user, item, ok := h.loadItemForUpdate(c)
	if !ok {
		return
	}
	if !item.IsOwnedBy(user.ID) {
		response.Forbidden(c, "You can only manage your own items")
		return
	}
	if !item.CanBeDelisted() {
		response.Refused(c, "Completed items are permanent records and cannot be delisted")
		return
	}

	if err := h.repo.SetActive(c.Request.Context(), item.ID, !item.IsActive); err != nil {
		response.InternalServerError(c, "Failed to update item")
		return
	}
	response.Success(c, "Listing visibility updated", gin.H{"isActive": !item.IsActive})
}

// DeleteItem godoc
// @Summary Delete an item
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /delete/{id} [post]
func (h *Handler) DeleteItem(c *gin.Context) {
	user, item, ok := h.loadItemForUpdate(c)
	if !ok {
		return
	}
	if !item.IsOwnedBy(user.ID) {
		response.Forbidden(c, "You can only delete your own items")
		return
	}
	if !item.CanBeDeleted() {
		response.Refused(c, "Completed items are permanent records and cannot be deleted")
		return
	}

	if err := h.repo.DeleteItem(c.Request.Context(), item.ID); err != nil {
		response.InternalServerError(c, "Failed to delete item")
		return
	}
	if item.ImagePublicID != "" && h.cld != nil {
		// Best effort, the document is already gone
		_ = h.cld.Delete(c.Request.Context(), item.ImagePublicID)
	}
	response.Success(c, "Item deleted", nil)
}

// CompleteItem godoc
// @Summary Mark an approved item as recovered
// @Description Lost items complete to found, found items complete to claimed.
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /complete/{id} [post]
func (h *Handler) CompleteItem(c *gin.Context) {
	user, item, ok := h.loadItemForUpdate(c)
	if !ok {
		return
	}
	if !item.IsOwnedBy(user.ID) {
		response.Forbidden(c, "You can only complete your own items")
		return
	}
	if item.IsTerminal() {
		response.Refused(c, "Item is already completed")
		return
	}
	if item.Status != StatusApproved {
		response.Refused(c, "Only approved items can be marked as completed")
		return
	}

	var req CompleteItemRequest
	_ = c.ShouldBindJSON(&req)
	if req.Name == "" {
		req.Name = user.DisplayOrEmail()
	}
	if req.Email == "" {
		req.Email = user.Email
	}

	// Link the record to a registered account when the completer's email
	// belongs to one.
	var claimant *primitive.ObjectID
	if match, err := h.authRepo.GetUserByEmail(c.Request.Context(), strings.ToLower(req.Email)); err == nil && match != nil {
		claimant = &match.ID
	}

	status := item.CompletionStatus()
	if err := h.repo.SetCompleted(c.Request.Context(), item.ID, status, req.Name, req.Email, claimant); err != nil {
		response.InternalServerError(c, "Failed to complete item")
		return
	}
	response.Success(c, "Item marked as "+status, gin.H{"status": status})
}

// GetItem godoc
// @Summary Get a single item
// @Tags items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /items/{id} [get]
func (h *Handler) GetItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Item not found")
		return
	}

	item, err := h.repo.GetItemByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Item not found")
		return
	}

	if !h.visibleTo(c, item) {
		response.NotFound(c, "Item not found")
		return
	}
	response.Success(c, "Item retrieved", item)
}

// visibleTo applies the listing visibility rule to a single item view
func (h *Handler) visibleTo(c *gin.Context, item *Item) bool {
	user, _ := auth.CurrentUser(c)
	if user != nil && (item.IsOwnedBy(user.ID) || user.IsAdminUser()) {
		return true
	}
	if item.IsArchived {
		return false
	}
	return item.Status == StatusApproved && item.IsActive || item.Status == StatusClaimed || item.Status == StatusFound
}

// Home godoc
// @Summary Landing page listings
// @Tags items
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /home [get]
func (h *Handler) Home(c *gin.Context) {
	snapshot, err := h.repo.GetHome(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to load listings")
		return
	}
	response.Success(c, "Home listings retrieved", snapshot)
}

// ListLost godoc
// @Summary Browse lost items
// @Tags items
// @Produce json
// @Param search query string false "Substring match on title, description, location"
// @Param category query string false "Category filter"
// @Success 200 {object} response.PaginatedEnvelope
// @Router /lost [get]
func (h *Handler) ListLost(c *gin.Context) {
	h.listByType(c, TypeLost)
}

// ListFound godoc
// @Summary Browse found items
// @Tags items
// @Produce json
// @Param search query string false "Substring match on title, description, location"
// @Param category query string false "Category filter"
// @Success 200 {object} response.PaginatedEnvelope
// @Router /found [get]
func (h *Handler) ListFound(c *gin.Context) {
	h.listByType(c, TypeFound)
}

func (h *Handler) listByType(c *gin.Context, itemType string) {
	q := parseListQuery(c)

	var viewer *primitive.ObjectID
	if user, ok := auth.CurrentUser(c); ok {
		viewer = &user.ID
	}

	items, total, err := h.repo.ListByType(c.Request.Context(), itemType, viewer, q)
	if err != nil {
		response.InternalServerError(c, "Failed to load listings")
		return
	}
	response.Paginated(c, items, total, q.Page, q.Limit)
}

// ListClaimed godoc
// @Summary Browse successfully claimed items
// @Tags items
// @Produce json
// @Success 200 {object} response.PaginatedEnvelope
// @Router /claimed [get]
func (h *Handler) ListClaimed(c *gin.Context) {
	q := parseListQuery(c)
	items, total, err := h.repo.ListClaimed(c.Request.Context(), q)
	if err != nil {
		response.InternalServerError(c, "Failed to load listings")
		return
	}
	response.Paginated(c, items, total, q.Page, q.Limit)
}

// ListMine godoc
// @Summary List the authenticated user's own items
// @Tags items
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /my-items [get]
func (h *Handler) ListMine(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	items, err := h.repo.ListOwn(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalServerError(c, "Failed to load items")
		return
	}
	response.Success(c, "Items retrieved", items)
}

func parseListQuery(c *gin.Context) ListQuery {
	page, limit := pagination.Normalize(
		atoiDefault(c.Query("page"), 1),
		atoiDefault(c.Query("limit"), 20),
		100,
	)
	return ListQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: c.Query("category"),
		Page:     page,
		Limit:    limit,
	}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// loadItemForUpdate resolves the authenticated user and the :id item,
// writing the error response itself on failure
func (h *Handler) loadItemForUpdate(c *gin.Context) (*auth.User, *Item, bool) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return nil, nil, false
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Item not found")
		return nil, nil, false
	}

	item, err := h.repo.GetItemByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Item not found")
		return nil, nil, false
	}
	return user, item, true
}

func (h *Handler) mailInfo(item *Item) mailer.ItemInfo {
	typeLabel := "Lost Item"
	date := item.DateLost
	if item.ItemType == TypeFound {
		typeLabel = "Found Item"
		date = item.DateFound
	}
	dateStr := ""
	if date != nil {
		dateStr = date.Format("January 2, 2006")
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

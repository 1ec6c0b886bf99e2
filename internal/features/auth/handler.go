package auth

import (
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/cloudinary"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/imaging"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/response"
)

type Handler struct {
	repo     *Repository
	firebase *fbauth.Client
	cld      *cloudinary.Service
	cfg      *config.Config
}

func NewHandler(repo *Repository, firebase *fbauth.Client, cld *cloudinary.Service, cfg *config.Config) *Handler {
	return &Handler{repo: repo, firebase: firebase, cld: cld, cfg: cfg}
}

// Register godoc
// @Summary Register a new account
// @Description Register with email and password. Campus addresses start verified, everyone else starts public.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := ValidateRegister(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	existing, err := h.repo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.InternalServerError(c, "Failed to check existing account")
		return
	}
	if existing != nil {
		response.Conflict(c, "Email already registered")
		return
	}

	taken, err := h.repo.UsernameExists(c.Request.Context(), req.Username)
	if err != nil {
		response.InternalServerError(c, "Failed to check username")
		return
	}
	if taken {
		response.Conflict(c, "Username already taken")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.InternalServerError(c, "Failed to process password")
		return
	}

	user := &User{
		Email:        req.Email,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hashed),
		Role:         RolePublic,
	}
	// Campus addresses are trusted on sight
	if user.HasInstitutionalEmail(h.cfg.CampusEmailDomain) {
		user.Role = RoleVerified
		user.IsVerified = true
	}

	if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
		response.Conflict(c, "Account already exists")
		return
	}

	h.respondWithToken(c, user, true)
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	user, err := h.repo.GetUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		response.InternalServerError(c, "Failed to look up account")
		return
	}
	if user == nil || user.PasswordHash == "" {
		response.Unauthorized(c, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		response.Unauthorized(c, "Invalid email or password")
		return
	}

	h.respondWithToken(c, user, false)
}

// GoogleLogin godoc
// @Summary Sign in with a Google account
// @Description Verifies a Firebase ID token. Only campus Google accounts are accepted.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GoogleAuthRequest true "Firebase ID token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/google [post]
func (h *Handler) GoogleLogin(c *gin.Context) {
	if h.firebase == nil {
		response.Error(c, 503, "Google sign-in is not configured")
		return
	}

	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	gu, err := VerifyGoogleToken(c.Request.Context(), h.firebase, req.IDToken)
	if err != nil {
		response.Unauthorized(c, "Invalid or expired Google token")
		return
	}

	email := strings.ToLower(gu.Email)
	if !strings.HasSuffix(email, "@"+h.cfg.CampusEmailDomain) {
		response.Forbidden(c, "Only "+h.cfg.CampusEmailDomain+" accounts can sign in with Google")
		return
	}

	user, err := h.repo.GetUserByGoogleID(c.Request.Context(), gu.UID)
	if err != nil {
		response.InternalServerError(c, "Failed to look up account")
		return
	}
	if user == nil {
		user, err = h.repo.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			response.InternalServerError(c, "Failed to look up account")
			return
		}
	}

	if user == nil {
		username := UsernameFromEmail(email)
		if taken, terr := h.repo.UsernameExists(c.Request.Context(), username); terr == nil && taken {
			// Suffix with part of the Google subject to dodge the collision
			suffix := gu.UID
			if len(suffix) > 6 {
				suffix = suffix[:6]
			}
			username = username + "_" + strings.ToLower(suffix)
		}
		user = &User{
			Email:                email,
			Username:             username,
			DisplayName:          gu.Name,
			GoogleID:             gu.UID,
			Role:                 RoleVerified,
			IsVerified:           true,
			GoogleProfilePicture: gu.Picture,
		}
		if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
			response.InternalServerError(c, "Failed to create account")
			return
		}
		h.respondWithToken(c, user, true)
		return
	}

	// Link the Google identity and refresh the profile picture on every login
	updates := map[string]interface{}{
		"googleId":             gu.UID,
		"googleProfilePicture": gu.Picture,
	}
	if user.Role == RolePublic {
		// A verified campus sign-in upgrades a plain account
		updates["role"] = RoleVerified
		updates["isVerified"] = true
		user.Role = RoleVerified
		user.IsVerified = true
	}
	if err := h.repo.UpdateUser(c.Request.Context(), user.ID, updates); err != nil {
		response.InternalServerError(c, "Failed to update account")
		return
	}
	user.GoogleID = gu.UID
	user.GoogleProfilePicture = gu.Picture

	h.respondWithToken(c, user, false)
}

// GetMe godoc
// @Summary Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	response.Success(c, "Profile retrieved", gin.H{
		"user":         user,
		"canPostItems": user.CanPostItems(),
		"isAdminUser":  user.IsAdminUser(),
	})
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Envelope
// @Router /auth/me [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	if err := ValidateUpdateProfile(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.DisplayName != "" {
		updates["displayName"] = req.DisplayName
	}
	if req.PhoneNumber != "" {
		updates["phoneNumber"] = req.PhoneNumber
	}
	if req.StudentID != "" {
		updates["studentId"] = req.StudentID
	}
	if len(updates) == 0 {
		response.BadRequest(c, "Nothing to update")
		return
	}

	if err := h.repo.UpdateUser(c.Request.Context(), user.ID, updates); err != nil {
		response.InternalServerError(c, "Failed to update profile")
		return
	}

	updated, err := h.repo.GetUserByObjectID(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalServerError(c, "Failed to load profile")
		return
	}
	response.Success(c, "Profile updated", updated)
}

// UploadProfilePicture godoc
// @Summary Upload a profile picture
// @Tags auth
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 200 {object} response.Envelope
// @Router /auth/me/profile-picture [post]
func (h *Handler) UploadProfilePicture(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	if h.cld == nil {
		response.Error(c, 503, "Image uploads are not configured")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Image file is required")
		return
	}

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

	result, err := h.cld.UploadImage(c.Request.Context(), file, "profiles")
	if err != nil {
		response.InternalServerError(c, "Failed to upload image")
		return
	}

	if err := h.repo.UpdateUser(c.Request.Context(), user.ID, map[string]interface{}{
		"profilePictureUrl": result.URL,
	}); err != nil {
		response.InternalServerError(c, "Failed to save profile picture")
		return
	}

	response.Success(c, "Profile picture updated", gin.H{"profilePictureUrl": result.URL})
}

func (h *Handler) respondWithToken(c *gin.Context, user *User, created bool) {
	token, err := GenerateJWT(user.ID.Hex(), h.cfg)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token")
		return
	}

	payload := &AuthResponse{User: user, AccessToken: token}
	if created {
		response.Created(c, "Account created", payload)
		return
	}
	response.Success(c, "Logged in", payload)
}

package auth

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants. Superuser is a separate tier tracked by IsSuperuser, not
// a role value.
const (
	RolePublic   = "public"
	RoleVerified = "verified"
	RoleAdmin    = "admin"
)

func IsValidRole(role string) bool {
	return role == RolePublic || role == RoleVerified || role == RoleAdmin
}

// User represents a registered user. Email doubles as the login identifier.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email                string             `bson:"email" json:"email"`
	Username             string             `bson:"username" json:"username"`
	DisplayName          string             `bson:"displayName" json:"displayName"`
	PasswordHash         string             `bson:"passwordHash,omitempty" json:"-"`
	GoogleID             string             `bson:"googleId,omitempty" json:"-"`
	Role                 string             `bson:"role" json:"role"`
	IsVerified           bool               `bson:"isVerified" json:"isVerified"`
	IsSuperuser          bool               `bson:"isSuperuser" json:"isSuperuser"`
	PhoneNumber          string             `bson:"phoneNumber" json:"phoneNumber"`
	StudentID            string             `bson:"studentId" json:"studentId"`
	ProfilePictureURL    string             `bson:"profilePictureUrl" json:"profilePictureUrl"`
	GoogleProfilePicture string             `bson:"googleProfilePicture" json:"googleProfilePicture"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasInstitutionalEmail reports whether the account email is in the campus
// domain, regardless of verification.
func (u *User) HasInstitutionalEmail(domain string) bool {
	return strings.HasSuffix(u.Email, "@"+domain)
}

// IsInstitutionalUser reports whether the user is a verified holder of a
// campus email. Gates contacting item posters.
func (u *User) IsInstitutionalUser(domain string) bool {
	return u.IsVerified && u.HasInstitutionalEmail(domain)
}

// CanPostItems reports whether the user may create listings.
func (u *User) CanPostItems() bool {
	return u.IsVerified && (u.Role == RoleVerified || u.Role == RoleAdmin)
}

// IsAdminUser reports whether the user holds admin powers.
func (u *User) IsAdminUser() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}

// DisplayOrEmail returns the display name, falling back to the email.
func (u *User) DisplayOrEmail() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// EmailUsername returns the part of the email before the @.
func (u *User) EmailUsername() string {
	if i := strings.Index(u.Email, "@"); i > 0 {
		return u.Email[:i]
	}
	return u.Username
}

// ToPublicUser returns the fields safe for public display.
func (u *User) ToPublicUser() map[string]interface{} {
	return map[string]interface{}{
		"id":                   u.ID,
		"username":             u.Username,
		"displayName":          u.DisplayName,
		"role":                 u.Role,
		"isVerified":           u.IsVerified,
		"profilePictureUrl":    u.ProfilePictureURL,
		"googleProfilePicture": u.GoogleProfilePicture,
		"createdAt":            u.CreatedAt,
	}
}

// Request DTOs

type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type GoogleAuthRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" binding:"omitempty,max=100"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,max=20"`
	StudentID   string `json:"studentId" binding:"omitempty,max=50"`
}

// AuthResponse is returned after successful authentication.
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}

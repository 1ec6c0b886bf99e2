package items

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
)

// Item types
const (
	TypeLost  = "lost"
	TypeFound = "found"
)

// Item statuses. Claimed and Found are terminal: the item becomes a
// permanent proof-of-success record.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusClaimed  = "claimed"
	StatusFound    = "found"
)

// Categories offered on the posting form
var Categories = []string{
	"electronics",
	"accessories",
	"documents",
	"clothing",
	"bags",
	"keys",
	"books",
	"sports",
	"other",
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Archive reasons an admin can pick from
var ArchiveReasons = []string{
	"spam",
	"inappropriate",
	"duplicate",
	"resolved",
	"other",
}

func IsValidArchiveReason(reason string) bool {
	for _, r := range ArchiveReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// Item is a lost or found listing. Location and date live in the pair
// matching the item type; the other pair stays empty.
type Item struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemType      string             `bson:"itemType" json:"itemType"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Category      string             `bson:"category" json:"category"`
	LocationLost  string             `bson:"locationLost,omitempty" json:"locationLost,omitempty"`
	DateLost      *time.Time         `bson:"dateLost,omitempty" json:"dateLost,omitempty"`
	LocationFound string             `bson:"locationFound,omitempty" json:"locationFound,omitempty"`
	DateFound     *time.Time         `bson:"dateFound,omitempty" json:"dateFound,omitempty"`
	ImageURL      string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ImagePublicID string             `bson:"imagePublicId,omitempty" json:"-"`
	ContactNumber string             `bson:"contactNumber,omitempty" json:"contactNumber,omitempty"`
	ShowName      bool               `bson:"showName" json:"showName"`

	Status     string `bson:"status" json:"status"`
	IsActive   bool   `bson:"isActive" json:"isActive"`
	IsArchived bool   `bson:"isArchived" json:"isArchived"`

	PostedBy    primitive.ObjectID `bson:"postedBy" json:"postedBy"`
	PosterName  string             `bson:"posterName" json:"posterName"`
	PosterEmail string             `bson:"posterEmail" json:"-"`

	ApprovedBy *primitive.ObjectID `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`

	CompletionName  string     `bson:"completionName,omitempty" json:"completionName,omitempty"`
	CompletionEmail string     `bson:"completionEmail,omitempty" json:"-"`
	CompletedAt     *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	ClaimedBy *primitive.ObjectID `bson:"claimedBy,omitempty" json:"claimedBy,omitempty"`
	ClaimedAt *time.Time          `bson:"claimedAt,omitempty" json:"claimedAt,omitempty"`

	ArchivedBy    *primitive.ObjectID `bson:"archivedBy,omitempty" json:"archivedBy,omitempty"`
	ArchivedAt    *time.Time          `bson:"archivedAt,omitempty" json:"archivedAt,omitempty"`
	ArchiveReason string              `bson:"archiveReason,omitempty" json:"archiveReason,omitempty"`
	ArchiveNotes  string              `bson:"archiveNotes,omitempty" json:"archiveNotes,omitempty"`

	ContentUpdatedAt *time.Time `bson:"contentUpdatedAt,omitempty" json:"contentUpdatedAt,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// IsTerminal reports whether the item has reached a success state.
func (i *Item) IsTerminal() bool {
	return i.Status == StatusClaimed || i.Status == StatusFound
}

// CanBeDeleted reports whether the owner may delete the item.
func (i *Item) CanBeDeleted() bool {
	return !i.IsTerminal()
}

// CanBeDelisted reports whether the owner may toggle the item's visibility.
func (i *Item) CanBeDelisted() bool {
	return !i.IsTerminal()
}

// IsOwnedBy reports whether the given user posted the item.
func (i *Item) IsOwnedBy(userID primitive.ObjectID) bool {
	return i.PostedBy == userID
}

// initialStatus decides where a fresh submission enters the pipeline.
// Admin submissions skip moderation.
func initialStatus(user *auth.User) string {
	if user.IsAdminUser() {
		return StatusApproved
	}
	return StatusPending
}

// forcesRemoderation reports whether an edit sends the item back to the
// moderation queue. Owner edits re-enter moderation; admin edits keep the
// current status, including edits to the admin's own items.
func forcesRemoderation(user *auth.User, item *Item) bool {
	return item.IsOwnedBy(user.ID) && !user.IsAdminUser()
}

// resolveShowName applies the posting-form default: found items always
// display the poster's name, lost items only when asked to.
func resolveShowName(itemType string, requested *bool) bool {
	if itemType == TypeFound {
		return true
	}
	return requested != nil && *requested
}

// CompletionStatus returns the terminal status an owner completion reaches.
// A lost item that came back is marked found; a found item returned to its
// owner is marked claimed. The labels never cross types.
func (i *Item) CompletionStatus() string {
	if i.ItemType == TypeLost {
		return StatusFound
	}
	return StatusClaimed
}

// CompletedCounterpart returns the terminal status that removes an item
// from its type's public listing.
func CompletedCounterpart(itemType string) string {
	if itemType == TypeLost {
		return StatusFound
	}
	return StatusClaimed
}

// Location returns the location field matching the item type.
func (i *Item) Location() string {
	if i.ItemType == TypeLost {
		return i.LocationLost
	}
	return i.LocationFound
}

// Date returns the date field matching the item type.
func (i *Item) Date() *time.Time {
	if i.ItemType == TypeLost {
		return i.DateLost
	}
	return i.DateFound
}

// CreateItemRequest carries the multipart form fields for posting an item.
// The image arrives as a separate file part.
type CreateItemRequest struct {
	Title         string `form:"title" binding:"required"`
	Description   string `form:"description" binding:"required"`
	Category      string `form:"category" binding:"required"`
	Location      string `form:"location" binding:"required"`
	Date          string `form:"date" binding:"required"`
	ContactNumber string `form:"contactNumber"`
	ShowName      *bool  `form:"showName"`
}

// UpdateItemRequest carries the editable fields. Empty fields are left alone.
type UpdateItemRequest struct {
	Title         string `form:"title"`
	Description   string `form:"description"`
	Category      string `form:"category"`
	Location      string `form:"location"`
	Date          string `form:"date"`
	ContactNumber string `form:"contactNumber"`
}

// CompleteItemRequest records who recovered or claimed the item.
type CompleteItemRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListQuery captures the listing filter parameters.
type ListQuery struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

package notifications

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification type constants
const (
	TypeItemApproved  = "item_approved"
	TypeItemRejected  = "item_rejected"
	TypeClaimReceived = "claim_received"
	TypeClaimApproved = "claim_approved"
	TypeClaimRejected = "claim_rejected"
)

// Notification is an in-app notice created by moderation and claim
// resolution. It is a passive log: nothing in the core reads it back.
type Notification struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID  `bson:"recipientId" json:"recipientId"`
	Type        string              `bson:"type" json:"type"`
	Message     string              `bson:"message" json:"message"`
	ItemID      *primitive.ObjectID `bson:"itemId,omitempty" json:"itemId,omitempty"`
	ClaimID     *primitive.ObjectID `bson:"claimId,omitempty" json:"claimId,omitempty"`
	IsRead      bool                `bson:"isRead" json:"isRead"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// Request DTOs

type NotificationListQuery struct {
	Page       int  `form:"page,default=1" binding:"min=1"`
	Limit      int  `form:"limit,default=20" binding:"min=1,max=50"`
	UnreadOnly bool `form:"unreadOnly"`
}

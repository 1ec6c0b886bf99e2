package messages

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one entry in a per-item conversation. A nil ParentID marks the
// thread root; replies always reference the root, never another reply. The
// thread-level soft-delete flags live on the root only.
type Message struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ItemID        primitive.ObjectID  `bson:"itemId" json:"itemId"`
	SenderID      primitive.ObjectID  `bson:"senderId" json:"senderId"`
	RecipientID   primitive.ObjectID  `bson:"recipientId" json:"recipientId"`
	SenderName    string              `bson:"senderName" json:"senderName"`
	RecipientName string              `bson:"recipientName" json:"recipientName"`
	Subject       string              `bson:"subject,omitempty" json:"subject,omitempty"`
	Body          string              `bson:"body" json:"body"`
	ImageURL      string              `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ImagePublicID string              `bson:"imagePublicId,omitempty" json:"-"`
	ParentID      *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	IsRead        bool                `bson:"isRead" json:"isRead"`
	IsDeleted     bool                `bson:"isDeleted" json:"isDeleted"`

	DeletedBySender    bool `bson:"deletedBySender" json:"-"`
	DeletedByRecipient bool `bson:"deletedByRecipient" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// IsRoot reports whether the message anchors a thread.
func (m *Message) IsRoot() bool {
	return m.ParentID == nil
}

// RootID returns the ID of the thread the message belongs to.
func (m *Message) RootID() primitive.ObjectID {
	if m.ParentID != nil {
		return *m.ParentID
	}
	return m.ID
}

// InvolvesUser reports whether the user is a participant of the message.
func (m *Message) InvolvesUser(userID primitive.ObjectID) bool {
	return m.SenderID == userID || m.RecipientID == userID
}

// OtherParticipant returns the counterpart of the given participant.
func (m *Message) OtherParticipant(userID primitive.ObjectID) (primitive.ObjectID, string) {
	if m.SenderID == userID {
		return m.RecipientID, m.RecipientName
	}
	return m.SenderID, m.SenderName
}

// HiddenFor reports whether the given participant has soft-deleted the
// thread this root anchors. Only meaningful on roots.
func (m *Message) HiddenFor(userID primitive.ObjectID) bool {
	if m.SenderID == userID && m.DeletedBySender {
		return true
	}
	if m.RecipientID == userID && m.DeletedByRecipient {
		return true
	}
	return false
}

// Request DTOs. Threads are opened and replied to from forms as well as
// from the JSON client, so fields bind from both.

type OpenThreadRequest struct {
	Subject string `form:"subject" json:"subject"`
	Body    string `form:"body" json:"body" binding:"required"`
	Phone   string `form:"phone" json:"phone"`
}

type ReplyRequest struct {
	Body string `form:"body" json:"body"`
}

// ThreadSummary is one inbox entry.
type ThreadSummary struct {
	Root            Message            `json:"root"`
	CounterpartID   primitive.ObjectID `json:"counterpartId"`
	CounterpartName string             `json:"counterpartName"`
	HasUnread       bool               `json:"hasUnread"`
	LastMessage     LastMessage        `json:"lastMessage"`
}

// LastMessage carries the literal preview of the newest message in a thread.
type LastMessage struct {
	ID        primitive.ObjectID `json:"id"`
	SenderID  primitive.ObjectID `json:"senderId"`
	Body      string             `json:"body"`
	ImageURL  string             `json:"imageUrl,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

package claims

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Claim statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Claim is a request by a user to get a found item back. It is distinct
// from item completion: completion is the owner closing their own listing,
// a claim is a third party asserting the item is theirs.
type Claim struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ItemID        primitive.ObjectID  `bson:"itemId" json:"itemId"`
	ClaimantID    primitive.ObjectID  `bson:"claimantId" json:"claimantId"`
	ClaimantName  string              `bson:"claimantName" json:"claimantName"`
	ClaimantEmail string              `bson:"claimantEmail" json:"-"`
	Justification string              `bson:"justification" json:"justification"`
	ContactInfo   string              `bson:"contactInfo,omitempty" json:"contactInfo,omitempty"`
	Status        string              `bson:"status" json:"status"`
	ResolvedBy    *primitive.ObjectID `bson:"resolvedBy,omitempty" json:"resolvedBy,omitempty"`
	ResolvedAt    *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}

// IsResolved reports whether the claim has already been decided.
func (c *Claim) IsResolved() bool {
	return c.Status != StatusPending
}

// CreateClaimRequest carries the claim submission fields.
type CreateClaimRequest struct {
	Justification string `json:"justification" binding:"required"`
	ContactInfo   string `json:"contactInfo" binding:"required"`
}

package notifications

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service creates notifications on behalf of the moderation and claim
// features. Creation failures are logged and swallowed: a missing notice
// must never roll back the transition that triggered it.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GetService returns a notification service for use by other modules
func GetService(db *mongo.Database) *Service {
	return NewService(NewRepository(db))
}

func (s *Service) notify(ctx context.Context, n Notification) {
	if err := s.repo.CreateNotification(ctx, &n); err != nil {
		log.Printf("notifications: failed to create %s notice: %v", n.Type, err)
	}
}

// ItemApproved notifies the poster that their listing went live
func (s *Service) ItemApproved(ctx context.Context, poster, itemID primitive.ObjectID, title string) {
	s.notify(ctx, Notification{
		RecipientID: poster,
		Type:        TypeItemApproved,
		Message:     "Your item \"" + title + "\" has been approved and is now visible.",
		ItemID:      &itemID,
	})
}

// ItemRejected notifies the poster that their listing was turned down
func (s *Service) ItemRejected(ctx context.Context, poster, itemID primitive.ObjectID, title string) {
	s.notify(ctx, Notification{
		RecipientID: poster,
		Type:        TypeItemRejected,
		Message:     "Your item \"" + title + "\" was not approved.",
		ItemID:      &itemID,
	})
}

// ClaimReceived notifies the poster that someone claimed their item
func (s *Service) ClaimReceived(ctx context.Context, poster, itemID, claimID primitive.ObjectID, title, claimant string) {
	s.notify(ctx, Notification{
		RecipientID: poster,
		Type:        TypeClaimReceived,
		Message:     claimant + " filed a claim on your item \"" + title + "\".",
		ItemID:      &itemID,
		ClaimID:     &claimID,
	})
}

// ClaimApproved notifies the claimant that their claim was accepted
func (s *Service) ClaimApproved(ctx context.Context, claimant, itemID, claimID primitive.ObjectID, title string) {
	s.notify(ctx, Notification{
		RecipientID: claimant,
		Type:        TypeClaimApproved,
		Message:     "Your claim on \"" + title + "\" has been approved.",
		ItemID:      &itemID,
		ClaimID:     &claimID,
	})
}

// ClaimRejected notifies the claimant that their claim was declined
func (s *Service) ClaimRejected(ctx context.Context, claimant, itemID, claimID primitive.ObjectID, title string) {
	s.notify(ctx, Notification{
		RecipientID: claimant,
		Type:        TypeClaimRejected,
		Message:     "Your claim on \"" + title + "\" was declined.",
		ItemID:      &itemID,
		ClaimID:     &claimID,
	})
}

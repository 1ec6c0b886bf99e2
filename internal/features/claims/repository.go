package claims

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/palsuhanapp/hanapp-api/pkg/errors"
)

type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository. The unique compound index on
// (itemId, claimantId) is what closes the check-then-create race on
// duplicate claims; the handler never pre-checks existence.
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("claims")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "itemId", Value: 1}, {Key: "claimantId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "claimantId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	})

	return &Repository{collection: collection}
}

// CreateClaim inserts a claim. A second claim on the same item by the same
// claimant hits the unique index and surfaces as a conflict.
func (r *Repository) CreateClaim(ctx context.Context, claim *Claim) error {
	claim.Status = StatusPending
	claim.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, claim)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: you have already claimed this item", apperrors.ErrDuplicate)
		}
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		claim.ID = oid
	}
	return nil
}

// GetClaimByID finds a claim by its ID
func (r *Repository) GetClaimByID(ctx context.Context, id primitive.ObjectID) (*Claim, error) {
	var claim Claim
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&claim)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// ListByItem returns all claims filed against an item, newest first
func (r *Repository) ListByItem(ctx context.Context, itemID primitive.ObjectID) ([]Claim, error) {
	return r.find(ctx, bson.M{"itemId": itemID})
}

// ListByClaimant returns everything the user has claimed
func (r *Repository) ListByClaimant(ctx context.Context, claimantID primitive.ObjectID) ([]Claim, error) {
	return r.find(ctx, bson.M{"claimantId": claimantID})
}

// ListPending returns unresolved claims for the moderation queue
func (r *Repository) ListPending(ctx context.Context) ([]Claim, error) {
	return r.find(ctx, bson.M{"status": StatusPending})
}

func (r *Repository) find(ctx context.Context, filter bson.M) ([]Claim, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	list := []Claim{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Resolve stamps the resolver and final status on a pending claim.
// Resolving an already resolved claim is refused.
func (r *Repository) Resolve(ctx context.Context, id, resolver primitive.ObjectID, status string) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": StatusPending},
		bson.M{"$set": bson.M{
			"status":     status,
			"resolvedBy": resolver,
			"resolvedAt": now,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountPending returns the moderation queue length
func (r *Repository) CountPending(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": StatusPending})
}

package items

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/palsuhanapp/hanapp-api/pkg/errors"
)

// Repository handles database interactions for items
type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository and creates necessary indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("items")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "itemType", Value: 1}, {Key: "status", Value: 1}, {Key: "isArchived", Value: 1}}},
		{Keys: bson.D{{Key: "postedBy", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})

	return &Repository{collection: collection}
}

// CreateItem inserts a new item
func (r *Repository) CreateItem(ctx context.Context, item *Item) error {
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid
	}
	return nil
}

// GetItemByID finds an item by its ID
func (r *Repository) GetItemByID(ctx context.Context, id primitive.ObjectID) (*Item, error) {
	var item Item
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// listingFilter builds the visibility filter for a typed public listing.
// Anyone sees approved, active, unarchived items of the type, minus items
// that completed into the type's counterpart status. An authenticated
// viewer additionally sees their own items whatever their status, under
// the same archive and counterpart exclusions.
func listingFilter(itemType string, viewer *primitive.ObjectID) bson.M {
	filter := bson.M{
		"itemType":   itemType,
		"isArchived": false,
		"status":     bson.M{"$ne": CompletedCounterpart(itemType)},
	}

	visible := bson.M{"status": StatusApproved, "isActive": true}
	if viewer == nil {
		filter["$and"] = []bson.M{visible}
	} else {
		filter["$or"] = []bson.M{visible, {"postedBy": *viewer}}
	}
	return filter
}

func applyQuery(filter bson.M, q ListQuery) bson.M {
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$and"] = append(asAndClause(filter), bson.M{"$or": []bson.M{
			{"title": re},
			{"description": re},
			{"locationLost": re},
			{"locationFound": re},
		}})
	}
	return filter
}

// asAndClause lifts an existing $or into $and so a second $or can be added
func asAndClause(filter bson.M) []bson.M {
	clauses := []bson.M{}
	if existing, ok := filter["$and"].([]bson.M); ok {
		clauses = existing
	}
	if or, ok := filter["$or"]; ok {
		clauses = append(clauses, bson.M{"$or": or})
		delete(filter, "$or")
	}
	return clauses
}

// ListByType returns a page of the typed public listing for the given viewer
func (r *Repository) ListByType(ctx context.Context, itemType string, viewer *primitive.ObjectID, q ListQuery) ([]Item, int64, error) {
	filter := applyQuery(listingFilter(itemType, viewer), q)
	return r.findPage(ctx, filter, q.Page, q.Limit)
}

// ListClaimed returns completed found-type items, the public success wall
func (r *Repository) ListClaimed(ctx context.Context, q ListQuery) ([]Item, int64, error) {
	filter := applyQuery(bson.M{"status": StatusClaimed, "isArchived": false}, q)
	return r.findPage(ctx, filter, q.Page, q.Limit)
}

func (r *Repository) findPage(ctx context.Context, filter bson.M, page, limit int) ([]Item, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := []Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// HomeSnapshot holds the landing page listings
type HomeSnapshot struct {
	RecentLost    []Item `json:"recentLost"`
	RecentFound   []Item `json:"recentFound"`
	RecentClaimed []Item `json:"recentClaimed"`
}

// GetHome returns the three landing page strips
func (r *Repository) GetHome(ctx context.Context) (*HomeSnapshot, error) {
	lost, err := r.recent(ctx, listingFilter(TypeLost, nil), 3)
	if err != nil {
		return nil, err
	}
	found, err := r.recent(ctx, listingFilter(TypeFound, nil), 3)
	if err != nil {
		return nil, err
	}
	claimed, err := r.recent(ctx, bson.M{"status": StatusClaimed, "isArchived": false}, 5)
	if err != nil {
		return nil, err
	}
	return &HomeSnapshot{RecentLost: lost, RecentFound: found, RecentClaimed: claimed}, nil
}

func (r *Repository) recent(ctx context.Context, filter bson.M, limit int64) ([]Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListOwn returns everything the user has posted, newest first
func (r *Repository) ListOwn(ctx context.Context, owner primitive.ObjectID) ([]Item, error) {
	return r.recent(ctx, bson.M{"postedBy": owner}, 200)
}

// UpdateItem sets the given fields and refreshes updatedAt
func (r *Repository) UpdateItem(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UnsetFields removes fields from the document, used when an item changes
// shape (image removal)
func (r *Repository) UnsetFields(ctx context.Context, id primitive.ObjectID, fields ...string) error {
	unset := bson.M{}
	for _, f := range fields {
		unset[f] = ""
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$unset": unset})
	return err
}

// SetApproved stamps the approver and flips the status
func (r *Repository) SetApproved(ctx context.Context, id, approver primitive.ObjectID) error {
	now := time.Now()
	return r.UpdateItem(ctx, id, bson.M{
		"status":     StatusApproved,
		"approvedBy": approver,
		"approvedAt": now,
	})
}

// SetRejected flips the status to rejected
func (r *Repository) SetRejected(ctx context.Context, id primitive.ObjectID) error {
	return r.UpdateItem(ctx, id, bson.M{"status": StatusRejected})
}

// SetCompleted moves an item to its terminal status with completion metadata.
// When the completer's email matches a registered account, claimant carries
// that account so the record links back to it.
func (r *Repository) SetCompleted(ctx context.Context, id primitive.ObjectID, status, name, email string, claimant *primitive.ObjectID) error {
	now := time.Now()
	update := bson.M{
		"status":          status,
		"completionName":  name,
		"completionEmail": email,
		"completedAt":     now,
	}
	if claimant != nil {
		update["claimedBy"] = *claimant
		update["claimedAt"] = now
	}
	return r.UpdateItem(ctx, id, update)
}

// SetActive flips the owner visibility toggle
func (r *Repository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return r.UpdateItem(ctx, id, bson.M{"isActive": active})
}

// SetClaimed is used by claim resolution to hand an item to the winning claimant
func (r *Repository) SetClaimed(ctx context.Context, id, claimant primitive.ObjectID, name, email string) error {
	now := time.Now()
	return r.UpdateItem(ctx, id, bson.M{
		"status":          StatusClaimed,
		"claimedBy":       claimant,
		"claimedAt":       now,
		"completionName":  name,
		"completionEmail": email,
		"completedAt":     now,
	})
}

// Archive suppresses the item from every public query
func (r *Repository) Archive(ctx context.Context, id, admin primitive.ObjectID, reason, notes string) error {
	now := time.Now()
	return r.UpdateItem(ctx, id, bson.M{
		"isArchived":    true,
		"archivedBy":    admin,
		"archivedAt":    now,
		"archiveReason": reason,
		"archiveNotes":  notes,
	})
}

// DeleteItem removes the item document permanently
func (r *Repository) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListForModeration returns items for the admin dashboard, optionally
// filtered by status, archived included
func (r *Repository) ListForModeration(ctx context.Context, status string, page, limit int) ([]Item, int64, error) {
	filter := bson.M{}
	if status == "archived" {
		filter["isArchived"] = true
	} else if status != "" {
		filter["status"] = status
		filter["isArchived"] = false
	}
	return r.findPage(ctx, filter, page, limit)
}

// StatusCounts aggregates item counts per status for the dashboard
func (r *Repository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := map[string]int64{}
	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	return counts, cursor.Err()
}

// CountArchived returns the number of archived items
func (r *Repository) CountArchived(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"isArchived": true})
}

// CountAll returns the total number of items
func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

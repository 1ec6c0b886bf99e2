package messages

import (
	"context"
	"errors"
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

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("contactMessages")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "recipientId", Value: 1}, {Key: "isRead", Value: 1}}},
		{Keys: bson.D{{Key: "parentId", Value: 1}}},
		{Keys: bson.D{{Key: "itemId", Value: 1}}},
	})

	return &Repository{collection: collection}
}

// CreateMessage inserts a message
func (r *Repository) CreateMessage(ctx context.Context, msg *Message) error {
	msg.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// GetMessageByID finds a message by its ID
func (r *Repository) GetMessageByID(ctx context.Context, id primitive.ObjectID) (*Message, error) {
	var msg Message
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// threadFilter matches the root and every reply of a thread
func threadFilter(rootID primitive.ObjectID) bson.M {
	return bson.M{"$or": []bson.M{
		{"_id": rootID},
		{"parentId": rootID},
	}}
}

// ListThread returns the root and its replies in insertion order
func (r *Repository) ListThread(ctx context.Context, rootID primitive.ObjectID) ([]Message, error) {
	return r.find(ctx, threadFilter(rootID), 1)
}

// ListInvolving returns every message the user sent or received. The inbox
// is assembled in memory from this set.
func (r *Repository) ListInvolving(ctx context.Context, userID primitive.ObjectID) ([]Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"senderId": userID},
		{"recipientId": userID},
	}}
	return r.find(ctx, filter, 1)
}

// FetchNew returns thread messages with an ID greater than afterID, oldest
// first. ObjectIDs are time-prefixed, so ID order is insertion order.
func (r *Repository) FetchNew(ctx context.Context, rootID primitive.ObjectID, afterID *primitive.ObjectID) ([]Message, error) {
	filter := threadFilter(rootID)
	if afterID != nil {
		filter["_id"] = bson.M{"$gt": *afterID}
	}
	return r.find(ctx, filter, 1)
}

func (r *Repository) find(ctx context.Context, filter bson.M, sortDir int) ([]Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: sortDir}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	msgs := []Message{}
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkThreadRead marks every message in the thread addressed to the user
// as read
func (r *Repository) MarkThreadRead(ctx context.Context, rootID, userID primitive.ObjectID) error {
	filter := threadFilter(rootID)
	filter["recipientId"] = userID
	filter["isRead"] = false

	_, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isRead": true}})
	return err
}

// SoftDeleteThread hides the thread from one participant's inbox. The
// other participant keeps seeing it; nothing is removed.
func (r *Repository) SoftDeleteThread(ctx context.Context, rootID primitive.ObjectID, asSender bool) error {
	field := "deletedByRecipient"
	if asSender {
		field = "deletedBySender"
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": rootID, "parentId": nil},
		bson.M{"$set": bson.M{field: true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkMessageDeleted flags an individual message deleted and drops its
// image reference
func (r *Repository) MarkMessageDeleted(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":   bson.M{"isDeleted": true},
			"$unset": bson.M{"imageUrl": "", "imagePublicId": ""},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountUnread returns the user's unread message count across live threads
func (r *Repository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"recipientId": userID,
		"isRead":      false,
		"isDeleted":   false,
	})
}

package items

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListingFilterAnonymous(t *testing.T) {
	filter := listingFilter(TypeLost, nil)

	require.Equal(t, TypeLost, filter["itemType"])
	require.Equal(t, false, filter["isArchived"])
	// A lost item that was recovered leaves the lost listing
	require.Equal(t, bson.M{"$ne": StatusFound}, filter["status"])

	clauses, ok := filter["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, clauses, 1)
	require.Equal(t, bson.M{"status": StatusApproved, "isActive": true}, clauses[0])
	require.NotContains(t, filter, "$or")
}

func TestListingFilterWithViewer(t *testing.T) {
	viewer := primitive.NewObjectID()
	filter := listingFilter(TypeFound, &viewer)

	require.Equal(t, bson.M{"$ne": StatusClaimed}, filter["status"])

	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)
	require.Equal(t, bson.M{"status": StatusApproved, "isActive": true}, or[0])
	// Owners see their own items regardless of status
	require.Equal(t, bson.M{"postedBy": viewer}, or[1])

	// The archive exclusion still applies even for the owner
	require.Equal(t, false, filter["isArchived"])
}

func TestApplyQuerySearchKeepsViewerClause(t *testing.T) {
	viewer := primitive.NewObjectID()
	filter := applyQuery(listingFilter(TypeLost, &viewer), ListQuery{Search: "umbrella", Category: "other"})

	require.Equal(t, "other", filter["category"])
	require.NotContains(t, filter, "$or")

	clauses, ok := filter["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, clauses, 2)
	require.Contains(t, clauses[0], "$or")
	require.Contains(t, clauses[1], "$or")
}

func TestApplyQueryEscapesRegex(t *testing.T) {
	filter := applyQuery(bson.M{}, ListQuery{Search: "what?"})

	clauses := filter["$and"].([]bson.M)
	or := clauses[0]["$or"].([]bson.M)
	re := or[0]["title"].(primitive.Regex)
	require.Equal(t, `what\?`, re.Pattern)
	require.Equal(t, "i", re.Options)
}

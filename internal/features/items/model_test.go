package items

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
)

func TestTerminalStatesAreImmutableByOwner(t *testing.T) {
	for _, status := range []string{StatusClaimed, StatusFound} {
		item := &Item{Status: status}
		require.False(t, item.CanBeDeleted(), status)
		require.False(t, item.CanBeDelisted(), status)
	}

	for _, status := range []string{StatusPending, StatusApproved, StatusRejected} {
		item := &Item{Status: status}
		require.True(t, item.CanBeDeleted(), status)
		require.True(t, item.CanBeDelisted(), status)
	}
}

func TestCompletionStatusNeverCrossesTypes(t *testing.T) {
	lost := &Item{ItemType: TypeLost, Status: StatusApproved}
	require.Equal(t, StatusFound, lost.CompletionStatus())

	found := &Item{ItemType: TypeFound, Status: StatusApproved}
	require.Equal(t, StatusClaimed, found.CompletionStatus())
}

func TestCompletedCounterpart(t *testing.T) {
	require.Equal(t, StatusFound, CompletedCounterpart(TypeLost))
	require.Equal(t, StatusClaimed, CompletedCounterpart(TypeFound))
}

func TestLocationAndDateFollowType(t *testing.T) {
	d := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	lost := &Item{ItemType: TypeLost, LocationLost: "Library", DateLost: &d}
	require.Equal(t, "Library", lost.Location())
	require.Equal(t, &d, lost.Date())
	require.Empty(t, lost.LocationFound)
	require.Nil(t, lost.DateFound)

	found := &Item{ItemType: TypeFound, LocationFound: "Gym", DateFound: &d}
	require.Equal(t, "Gym", found.Location())
	require.Equal(t, &d, found.Date())
}

func TestIsOwnedBy(t *testing.T) {
	owner := primitive.NewObjectID()
	item := &Item{PostedBy: owner}
	require.True(t, item.IsOwnedBy(owner))
	require.False(t, item.IsOwnedBy(primitive.NewObjectID()))
}

func TestParseItemDate(t *testing.T) {
	past, err := ParseItemDate("2026-01-15")
	require.NoError(t, err)
	require.Equal(t, 2026, past.Year())

	_, err = ParseItemDate(time.Now().AddDate(0, 0, 2).Format("2006-01-02"))
	require.Error(t, err)

	_, err = ParseItemDate("15-01-2026")
	require.Error(t, err)
}

func TestValidateCreate(t *testing.T) {
	base := CreateItemRequest{
		Title:       "Blue umbrella",
		Description: "Left at the canteen",
		Category:    "other",
		Location:    "Canteen",
		Date:        "2026-01-15",
	}
	require.NoError(t, ValidateCreate(&base, TypeLost))

	noLocation := base
	noLocation.Location = "  "
	require.Error(t, ValidateCreate(&noLocation, TypeLost))

	badCategory := base
	badCategory.Category = "vehicles"
	require.Error(t, ValidateCreate(&badCategory, TypeLost))

	badPhone := base
	badPhone.ContactNumber = "call me"
	require.Error(t, ValidateCreate(&badPhone, TypeLost))

	// Found posts cannot hide the poster's name
	hidden := base
	hide := false
	hidden.ShowName = &hide
	require.Error(t, ValidateCreate(&hidden, TypeFound))
	require.NoError(t, ValidateCreate(&hidden, TypeLost))
}

func TestInitialStatusByRole(t *testing.T) {
	require.Equal(t, StatusPending, initialStatus(&auth.User{Role: auth.RolePublic}))
	require.Equal(t, StatusPending, initialStatus(&auth.User{Role: auth.RoleVerified, IsVerified: true}))
	require.Equal(t, StatusApproved, initialStatus(&auth.User{Role: auth.RoleAdmin, IsVerified: true}))
	require.Equal(t, StatusApproved, initialStatus(&auth.User{Role: auth.RoleVerified, IsSuperuser: true}))
}

func TestForcesRemoderation(t *testing.T) {
	owner := auth.User{ID: primitive.NewObjectID(), Role: auth.RoleVerified, IsVerified: true}
	admin := auth.User{ID: primitive.NewObjectID(), Role: auth.RoleAdmin, IsVerified: true}
	item := &Item{Status: StatusApproved, PostedBy: owner.ID}

	require.True(t, forcesRemoderation(&owner, item))
	require.False(t, forcesRemoderation(&admin, item))

	// An admin editing their own item keeps the status too.
	adminItem := &Item{Status: StatusApproved, PostedBy: admin.ID}
	require.False(t, forcesRemoderation(&admin, adminItem))
}

func TestResolveShowName(t *testing.T) {
	yes, no := true, false

	require.False(t, resolveShowName(TypeLost, nil))
	require.False(t, resolveShowName(TypeLost, &no))
	require.True(t, resolveShowName(TypeLost, &yes))

	require.True(t, resolveShowName(TypeFound, nil))
	require.True(t, resolveShowName(TypeFound, &no))
}

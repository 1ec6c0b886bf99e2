package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
)

const domain = "psu.palawan.edu.ph"

func user(role string, super bool) *auth.User {
	return &auth.User{
		ID:          primitive.NewObjectID(),
		Email:       "someone@example.com",
		Role:        role,
		IsVerified:  role != auth.RolePublic,
		IsSuperuser: super,
	}
}

func campusUser(role string) *auth.User {
	u := user(role, false)
	u.Email = "someone@" + domain
	return u
}

func TestAdminCanStepThemselfDown(t *testing.T) {
	admin := user(auth.RoleAdmin, false)
	require.NoError(t, CanChangeRole(admin, admin, auth.RoleVerified, domain))

	// No other self-modification
	require.ErrorIs(t, CanChangeRole(admin, admin, auth.RoleAdmin, domain), ErrSelfChange)
	require.ErrorIs(t, CanChangeRole(admin, admin, auth.RolePublic, domain), ErrSelfChange)

	verified := user(auth.RoleVerified, false)
	require.ErrorIs(t, CanChangeRole(verified, verified, auth.RoleAdmin, domain), ErrSelfChange)
}

func TestSuperuserMaySetAnyRole(t *testing.T) {
	super := user(auth.RoleAdmin, true)
	admin := user(auth.RoleAdmin, false)
	campus := campusUser(auth.RoleVerified)

	require.NoError(t, CanChangeRole(super, admin, auth.RoleVerified, domain))
	require.NoError(t, CanChangeRole(super, campus, auth.RolePublic, domain))
	require.NoError(t, CanChangeRole(super, user(auth.RolePublic, false), auth.RoleAdmin, domain))
}

func TestAdminCannotDemotePeerAdmin(t *testing.T) {
	admin := user(auth.RoleAdmin, false)
	peer := user(auth.RoleAdmin, false)

	require.ErrorIs(t, CanChangeRole(admin, peer, auth.RoleVerified, domain), ErrPeerAdmin)
	// Re-asserting admin on an admin is a no-op, not a demotion
	require.NoError(t, CanChangeRole(admin, peer, auth.RoleAdmin, domain))

	// The identical demotion succeeds for a superuser
	super := user(auth.RoleAdmin, true)
	require.NoError(t, CanChangeRole(super, peer, auth.RoleVerified, domain))
}

func TestAdminCannotTouchSuperusers(t *testing.T) {
	admin := user(auth.RoleAdmin, false)
	super := user(auth.RoleVerified, true)
	require.ErrorIs(t, CanChangeRole(admin, super, auth.RoleAdmin, domain), ErrTargetSuperuser)
}

func TestCampusAccountsCannotGoPublic(t *testing.T) {
	admin := user(auth.RoleAdmin, false)
	campus := campusUser(auth.RoleVerified)

	require.ErrorIs(t, CanChangeRole(admin, campus, auth.RolePublic, domain), ErrInstitutionalDem)
	require.NoError(t, CanChangeRole(admin, campus, auth.RoleAdmin, domain))

	outsider := user(auth.RoleVerified, false)
	require.NoError(t, CanChangeRole(admin, outsider, auth.RolePublic, domain))
}

func TestNonAdminActorRefused(t *testing.T) {
	verified := user(auth.RoleVerified, false)
	target := user(auth.RolePublic, false)
	require.ErrorIs(t, CanChangeRole(verified, target, auth.RoleVerified, domain), ErrNotAdmin)
}

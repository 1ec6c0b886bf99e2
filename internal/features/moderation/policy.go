package moderation

import (
	"errors"

	"github.com/palsuhanapp/hanapp-api/internal/features/auth"
)

// Role-change refusals. The handler surfaces these as forbidden responses.
var (
	ErrSelfChange       = errors.New("you can only step yourself down from admin to verified")
	ErrNotAdmin         = errors.New("only admins can change roles")
	ErrTargetSuperuser  = errors.New("superuser accounts cannot be modified")
	ErrPeerAdmin        = errors.New("admins cannot demote other admins")
	ErrInstitutionalDem = errors.New("campus account holders cannot be demoted to public")
)

// CanChangeRole decides whether actor may set target's role to newRole.
// Nil means allowed. The rules, in order:
//
//  1. Acting on yourself is only allowed as an admin stepping down to
//     verified.
//  2. A superuser may set anyone to anything.
//  3. A plain admin may not touch superusers, may not demote peer admins,
//     and may not push a campus account holder down to public.
//
// Anyone else is refused outright.
func CanChangeRole(actor, target *auth.User, newRole, campusDomain string) error {
	if actor.ID == target.ID {
		if actor.Role == auth.RoleAdmin && newRole == auth.RoleVerified {
			return nil
		}
		return ErrSelfChange
	}

	if actor.IsSuperuser {
		return nil
	}

	if !actor.IsAdminUser() {
		return ErrNotAdmin
	}
	if target.IsSuperuser {
		return ErrTargetSuperuser
	}
	if target.Role == auth.RoleAdmin && newRole != auth.RoleAdmin {
		return ErrPeerAdmin
	}
	if newRole == auth.RolePublic && target.HasInstitutionalEmail(campusDomain) {
		return ErrInstitutionalDem
	}
	return nil
}

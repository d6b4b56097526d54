// Package authz holds the access-control decisions for rental entities.
// Every function is a pure check over already-loaded records; callers do
// the lookups and translate denials into HTTP responses.
package authz

import "rental-service/internal/model"

// Actor is the authenticated identity a request acts as, resolved from
// the bearer token before any policy check runs.
type Actor struct {
	UserID uint
	Role   model.Role
}

// DenyError is a policy denial carrying the message returned to the caller.
type DenyError struct {
	msg string
}

func (e *DenyError) Error() string { return e.msg }

var (
	// ErrNotLandlord denies property management to non-landlord roles.
	ErrNotLandlord = &DenyError{msg: "Unauthorized"}

	// ErrNotPropertyOwner denies property access to landlords who do not
	// own the target property.
	ErrNotPropertyOwner = &DenyError{msg: "Unauthorized access to property"}

	// ErrNotTenancyMember denies tenancy access to actors who neither own
	// the underlying property nor are linked to the tenancy.
	ErrNotTenancyMember = &DenyError{msg: "Unauthorized access to tenancy"}
)

// RequireLandlord checks that the actor holds the Landlord role. Applies
// to property creation, listing and any property mutation.
func RequireLandlord(actor Actor) error {
	if actor.Role != model.RoleLandlord {
		return ErrNotLandlord
	}
	return nil
}

// CanAccessProperty checks that the actor is the landlord owning the
// property. Callers must have established existence first; a missing
// property is NotFound, not a policy denial.
func CanAccessProperty(actor Actor, property *model.Property) error {
	if err := RequireLandlord(actor); err != nil {
		return err
	}
	if property.LandlordID != actor.UserID {
		return ErrNotPropertyOwner
	}
	return nil
}

// CanReadTenancy grants read access to the landlord owning the tenancy's
// property, or to a tenant linked to the tenancy. Unlinked tenants are
// denied even though they authenticate successfully.
func CanReadTenancy(actor Actor, property *model.Property, linked bool) error {
	if actor.Role == model.RoleLandlord && property.LandlordID == actor.UserID {
		return nil
	}
	if actor.Role == model.RoleTenant && linked {
		return nil
	}
	return ErrNotTenancyMember
}

// CanManageTenancy grants tenancy mutation to the owning landlord only.
// Linked tenants keep read access but may never update.
func CanManageTenancy(actor Actor, property *model.Property) error {
	if actor.Role != model.RoleLandlord || property.LandlordID != actor.UserID {
		return ErrNotTenancyMember
	}
	return nil
}

package identity

import (
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor is the authenticated caller of a use case
type Actor struct {
	UserID  uuid.UUID
	Role    Role
	StoreID *uuid.UUID
}

// Can reports whether the actor's role grants the permission
func (a Actor) Can(permission string) bool {
	return a.Role.HasPermission(permission)
}

// Require fails with FORBIDDEN unless the actor holds the permission
func (a Actor) Require(permission string) error {
	if !a.Can(permission) {
		return shared.NewDomainError(shared.ErrForbidden.Code, "Missing permission "+permission)
	}
	return nil
}

// CanAccessStore reports whether records of storeID are visible to the actor.
// District managers see every store; everyone else only their own.
func (a Actor) CanAccessStore(storeID uuid.UUID) bool {
	if a.Role.IsChainWide() {
		return true
	}
	return a.StoreID != nil && *a.StoreID == storeID
}

// CheckStore returns FORBIDDEN when storeID is outside the actor's scope
func (a Actor) CheckStore(storeID uuid.UUID) error {
	if !a.CanAccessStore(storeID) {
		return shared.NewDomainError(shared.ErrForbidden.Code, "Record belongs to another store")
	}
	return nil
}

// ScopeStore narrows a list query. A DM gets the requested store back
// unchanged (nil meaning all stores). Everyone else is pinned to their own
// store and asking for another one is FORBIDDEN.
func (a Actor) ScopeStore(requested *uuid.UUID) (*uuid.UUID, error) {
	if a.Role.IsChainWide() {
		return requested, nil
	}
	if a.StoreID == nil {
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "User is not assigned to a store")
	}
	if requested != nil && *requested != *a.StoreID {
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "Record belongs to another store")
	}
	own := *a.StoreID
	return &own, nil
}

// CheckLocation is CheckStore for records that may belong to no store, such
// as the central vault. Those are reserved for chain-wide roles.
func (a Actor) CheckLocation(storeID *uuid.UUID) error {
	if storeID == nil {
		if a.Role.IsChainWide() {
			return nil
		}
		return shared.NewDomainError(shared.ErrForbidden.Code, "Only district managers may operate the central vault")
	}
	return a.CheckStore(*storeID)
}

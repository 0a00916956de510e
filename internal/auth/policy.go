package auth

import (
	"murmur/internal/models"
)

// Caller is the identity resolved for the current request. A nil *Caller
// means the request is anonymous. Callers live for one request and are never
// persisted.
type Caller struct {
	ID   uint        `json:"id"`
	Role models.Role `json:"role"`
}

// IsAdmin reports whether the caller holds the admin role.
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == models.RoleAdmin
}

// Authenticate is the pure gate used before any mutation requiring identity.
func Authenticate(caller *Caller) (*Caller, error) {
	if caller == nil || caller.ID == 0 {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}
	return caller, nil
}

// Authorize decides whether a caller may act on a resource. It succeeds iff
// the caller owns the resource or holds the admin role. It must run after
// the resource is loaded (to obtain its owner id) and before any mutating
// call against it.
func Authorize(callerID, resourceOwnerID uint, role models.Role) error {
	if callerID == resourceOwnerID || role == models.RoleAdmin {
		return nil
	}
	return models.NewUnauthorizedError("You can only modify your own resources")
}

// RequireAdmin rejects anonymous callers with Unauthenticated and
// non-admin callers with Unauthorized.
func RequireAdmin(caller *Caller) error {
	if _, err := Authenticate(caller); err != nil {
		return err
	}
	if caller.Role != models.RoleAdmin {
		return models.NewUnauthorizedError("Admin access required")
	}
	return nil
}

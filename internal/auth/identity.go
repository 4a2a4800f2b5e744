package auth

import (
	"github.com/google/uuid"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
)

// Identity is the resolved caller of a request. A nil *Identity means
// an anonymous (guest) caller.
type Identity struct {
	ID   uuid.UUID
	Role model.Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == model.RoleAdmin
}

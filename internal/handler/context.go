package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/auth"
)

// IdentityContextKey is where the auth middleware stores the resolved
// caller identity.
const IdentityContextKey = "identity"

// IdentityFrom returns the resolved caller identity, or nil for guests.
func IdentityFrom(c echo.Context) *auth.Identity {
	if identity, ok := c.Get(IdentityContextKey).(*auth.Identity); ok {
		return identity
	}
	return nil
}

func atoiParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

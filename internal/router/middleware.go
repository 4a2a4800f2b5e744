package router

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/auth"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/handler"
)

// resolveIdentity converts the JWT claims placed by echo-jwt into the
// caller identity handlers read.
func resolveIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			c.Set(handler.IdentityContextKey, claims.Identity())
			return next(c)
		}
	}
}

// optionalAuth resolves a bearer token when one is present but lets
// anonymous requests through. Guests may create reservations and check
// availability without an account.
func optionalAuth(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if strings.HasPrefix(header, "Bearer ") {
				claims, err := jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				c.Set(handler.IdentityContextKey, claims.Identity())
			}
			return next(c)
		}
	}
}

// requireAdmin rejects non-staff callers. Runs after resolveIdentity.
func requireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !handler.IdentityFrom(c).IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "administrator role required")
			}
			return next(c)
		}
	}
}

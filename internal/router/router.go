package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/auth"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/config"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	reservationHandler *handler.ReservationHandler,
	menuHandler *handler.MenuHandler,
	orderHandler *handler.OrderHandler,
	chatHandler *handler.ChatHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	api.GET("/menu", menuHandler.List)
	api.GET("/menu/:id", menuHandler.Get)

	// Reservation creation and availability accept guests; a bearer
	// token, when present, attaches ownership.
	api.GET("/reservations/availability", reservationHandler.Availability, optionalAuth(jwtService))
	api.POST("/reservations", reservationHandler.Create, optionalAuth(jwtService))

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}), resolveIdentity())

	secured.GET("/me", func(c echo.Context) error {
		identity := handler.IdentityFrom(c)
		return c.JSON(http.StatusOK, echo.Map{"id": identity.ID, "role": identity.Role})
	})

	// Reservation routes
	secured.GET("/reservations", reservationHandler.List)
	secured.GET("/reservations/:id", reservationHandler.Get)
	secured.PUT("/reservations/:id", reservationHandler.Reschedule)
	secured.DELETE("/reservations/:id", reservationHandler.Cancel)

	// Order routes
	secured.POST("/orders", orderHandler.Checkout)
	secured.GET("/orders", orderHandler.ListMine)
	secured.GET("/orders/:id", orderHandler.Get)

	// Chat routes
	secured.POST("/chat/messages", chatHandler.Send)
	secured.GET("/chat/messages", chatHandler.History)

	// Staff routes
	admin := secured.Group("/admin", requireAdmin())
	admin.PUT("/reservations/:id/status", reservationHandler.UpdateStatus)
	admin.POST("/menu", menuHandler.Create)
	admin.PUT("/menu/:id", menuHandler.Update)
	admin.PUT("/menu/:id/availability", menuHandler.SetAvailability)
	admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	admin.GET("/chat/conversations", chatHandler.Conversations)
	admin.GET("/chat/:userId/messages", chatHandler.UserHistory)
	admin.POST("/chat/:userId/messages", chatHandler.Reply)
	admin.PUT("/chat/:userId/read", chatHandler.MarkRead)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/errors"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/repository"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/service"
)

// MenuHandler handles catalog endpoints.
type MenuHandler struct {
	menuService service.MenuService
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(menuService service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// MenuItemRequest represents a catalog item payload.
type MenuItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required"`
	Price       string `json:"price" validate:"required"`
	ImageURL    string `json:"image_url"`
	Available   bool   `json:"available"`
}

// AvailabilityRequest toggles whether an item can be ordered.
type AvailabilityRequest struct {
	Available bool `json:"available"`
}

func (r *MenuItemRequest) toInput() (service.MenuItemInput, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return service.MenuItemInput{}, err
	}
	return service.MenuItemInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       price,
		ImageURL:    r.ImageURL,
		Available:   r.Available,
	}, nil
}

// List godoc
// @Summary List menu items
// @Tags menu
// @Produce json
// @Param category query string false "Filter by category"
// @Param available query bool false "Only available items"
// @Success 200 {array} model.MenuItem
// @Router /menu [get]
func (h *MenuHandler) List(c echo.Context) error {
	filter := repository.MenuFilter{
		Category:      c.QueryParam("category"),
		OnlyAvailable: c.QueryParam("available") == "true",
	}

	items, err := h.menuService.List(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Get one menu item
// @Tags menu
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} model.MenuItem
// @Failure 404 {object} errors.ErrorResponse
// @Router /menu/{id} [get]
func (h *MenuHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid menu item id",
			Code:  "INVALID_UUID",
		})
	}

	item, err := h.menuService.GetByID(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, item)
}

// Create godoc
// @Summary Create a menu item (staff)
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MenuItemRequest true "Menu item"
// @Success 201 {object} model.MenuItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/menu [post]
func (h *MenuHandler) Create(c echo.Context) error {
	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	input, err := req.toInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid price",
			Code:  "INVALID_PRICE",
		})
	}

	item, err := h.menuService.Create(c.Request().Context(), IdentityFrom(c), input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, item)
}

// Update godoc
// @Summary Update a menu item (staff)
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Param request body MenuItemRequest true "Menu item"
// @Success 200 {object} model.MenuItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/menu/{id} [put]
func (h *MenuHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid menu item id",
			Code:  "INVALID_UUID",
		})
	}

	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	input, err := req.toInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid price",
			Code:  "INVALID_PRICE",
		})
	}

	item, err := h.menuService.Update(c.Request().Context(), IdentityFrom(c), id, input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, item)
}

// SetAvailability godoc
// @Summary Toggle a menu item's availability (staff)
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Param request body AvailabilityRequest true "Availability"
// @Success 200 {object} model.MenuItem
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/menu/{id}/availability [put]
func (h *MenuHandler) SetAvailability(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid menu item id",
			Code:  "INVALID_UUID",
		})
	}

	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	item, err := h.menuService.SetAvailability(c.Request().Context(), IdentityFrom(c), id, req.Available)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, item)
}

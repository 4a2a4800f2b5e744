package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/errors"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CheckoutRequest represents a cart checkout.
type CheckoutRequest struct {
	Items []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CheckoutItemRequest is one cart line.
type CheckoutItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

// OrderStatusRequest changes an order's status.
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Checkout godoc
// @Summary Place an order from the cart
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckoutRequest true "Cart"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Checkout(c echo.Context) error {
	var req CheckoutRequest
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

	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid menu_item_id",
				Code:  "INVALID_UUID",
			})
		}
		items = append(items, service.CheckoutItem{MenuItemID: id, Quantity: item.Quantity})
	}

	order, err := h.orderService.Checkout(c.Request().Context(), IdentityFrom(c), items)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, order)
}

// ListMine godoc
// @Summary List the caller's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Order
// @Router /orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	orders, err := h.orderService.ListMine(c.Request().Context(), IdentityFrom(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, orders)
}

// Get godoc
// @Summary Get one order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid order id",
			Code:  "INVALID_UUID",
		})
	}

	order, err := h.orderService.GetByID(c.Request().Context(), IdentityFrom(c), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary Update an order's status (staff)
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body OrderStatusRequest true "New status"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid order id",
			Code:  "INVALID_UUID",
		})
	}

	var req OrderStatusRequest
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

	order, err := h.orderService.UpdateStatus(c.Request().Context(), IdentityFrom(c), id, model.OrderStatus(req.Status))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, order)
}

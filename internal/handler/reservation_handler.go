package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/errors"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/service"
)

// ReservationHandler handles reservation endpoints.
type ReservationHandler struct {
	reservationService service.ReservationService
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(reservationService service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// CreateReservationRequest represents a reservation request.
type CreateReservationRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	PartySize int    `json:"party_size" validate:"required,min=1"`
	Message   string `json:"message"`
}

// RescheduleRequest moves a reservation to a new slot.
type RescheduleRequest struct {
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	PartySize int    `json:"party_size" validate:"required,min=1"`
}

// UpdateStatusRequest changes a reservation's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

// Create godoc
// @Summary Request a table reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body CreateReservationRequest true "Reservation data"
// @Success 201 {object} model.Reservation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	var req CreateReservationRequest
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

	reservation, err := h.reservationService.Create(c.Request().Context(), IdentityFrom(c), service.CreateReservationInput{
		Name:      req.Name,
		Email:     req.Email,
		Date:      req.Date,
		Time:      req.Time,
		PartySize: req.PartySize,
		Message:   req.Message,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, reservation)
}

// List godoc
// @Summary List reservations (own, or all for staff)
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param page query int false "Page, 1-based"
// @Param per_page query int false "Page size"
// @Success 200 {object} service.ReservationPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	input := service.ListReservationsInput{
		Status: model.ReservationStatus(c.QueryParam("status")),
		Date:   c.QueryParam("date"),
	}
	input.Page, _ = atoiParam(c.QueryParam("page"))
	input.PerPage, _ = atoiParam(c.QueryParam("per_page"))

	page, err := h.reservationService.List(c.Request().Context(), IdentityFrom(c), input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary Get one reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} model.Reservation
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid reservation id",
			Code:  "INVALID_UUID",
		})
	}

	reservation, err := h.reservationService.GetByID(c.Request().Context(), IdentityFrom(c), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, reservation)
}

// UpdateStatus godoc
// @Summary Update a reservation's status (staff)
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} model.Reservation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/reservations/{id}/status [put]
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid reservation id",
			Code:  "INVALID_UUID",
		})
	}

	var req UpdateStatusRequest
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

	reservation, err := h.reservationService.UpdateStatus(c.Request().Context(), IdentityFrom(c), id,
		model.ReservationStatus(req.Status), req.Note)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, reservation)
}

// Reschedule godoc
// @Summary Move a reservation to a new slot
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body RescheduleRequest true "New slot"
// @Success 200 {object} model.Reservation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Reschedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid reservation id",
			Code:  "INVALID_UUID",
		})
	}

	var req RescheduleRequest
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

	reservation, err := h.reservationService.Reschedule(c.Request().Context(), IdentityFrom(c), id, service.RescheduleInput{
		Date:      req.Date,
		Time:      req.Time,
		PartySize: req.PartySize,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, reservation)
}

// Cancel godoc
// @Summary Cancel a reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} model.Reservation
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid reservation id",
			Code:  "INVALID_UUID",
		})
	}

	reservation, err := h.reservationService.Cancel(c.Request().Context(), IdentityFrom(c), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, reservation)
}

// Availability godoc
// @Summary Check seat availability for a slot
// @Tags reservations
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param time query string true "Time (HH:MM)"
// @Success 200 {object} service.Availability
// @Failure 400 {object} errors.ErrorResponse
// @Router /reservations/availability [get]
func (h *ReservationHandler) Availability(c echo.Context) error {
	avail, err := h.reservationService.CheckAvailability(c.Request().Context(),
		c.QueryParam("date"), c.QueryParam("time"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, avail)
}

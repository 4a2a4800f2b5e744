package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/errors"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/service"
)

// ChatHandler handles support chat endpoints.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatMessageRequest carries one message body.
type ChatMessageRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// Send godoc
// @Summary Send a support message
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChatMessageRequest true "Message"
// @Success 201 {object} model.ChatMessage
// @Failure 400 {object} errors.ErrorResponse
// @Router /chat/messages [post]
func (h *ChatHandler) Send(c echo.Context) error {
	var req ChatMessageRequest
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

	message, err := h.chatService.Send(c.Request().Context(), IdentityFrom(c), req.Body)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, message)
}

// History godoc
// @Summary Get the caller's conversation history
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max messages"
// @Success 200 {array} model.ChatMessage
// @Router /chat/messages [get]
func (h *ChatHandler) History(c echo.Context) error {
	identity := IdentityFrom(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
			Error: "authentication required",
			Code:  "FORBIDDEN",
		})
	}
	limit, _ := atoiParam(c.QueryParam("limit"))

	messages, err := h.chatService.History(c.Request().Context(), identity, identity.ID, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, messages)
}

// Conversations godoc
// @Summary List active conversations (staff)
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/chat/conversations [get]
func (h *ChatHandler) Conversations(c echo.Context) error {
	ids, err := h.chatService.Conversations(c.Request().Context(), IdentityFrom(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ids)
}

// UserHistory godoc
// @Summary Get a customer's conversation history (staff)
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Customer ID"
// @Param limit query int false "Max messages"
// @Success 200 {array} model.ChatMessage
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/chat/{userId}/messages [get]
func (h *ChatHandler) UserHistory(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_UUID",
		})
	}
	limit, _ := atoiParam(c.QueryParam("limit"))

	messages, err := h.chatService.History(c.Request().Context(), IdentityFrom(c), userID, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, messages)
}

// Reply godoc
// @Summary Reply in a customer's conversation (staff)
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Customer ID"
// @Param request body ChatMessageRequest true "Message"
// @Success 201 {object} model.ChatMessage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/chat/{userId}/messages [post]
func (h *ChatHandler) Reply(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_UUID",
		})
	}

	var req ChatMessageRequest
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

	message, err := h.chatService.Reply(c.Request().Context(), IdentityFrom(c), userID, req.Body)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, message)
}

// MarkRead godoc
// @Summary Mark a conversation read (staff)
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Customer ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/chat/{userId}/read [put]
func (h *ChatHandler) MarkRead(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.chatService.MarkRead(c.Request().Context(), IdentityFrom(c), userID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "conversation marked read"})
}

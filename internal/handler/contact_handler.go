package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"inkwell/internal/errors"
	"inkwell/internal/service"
)

// ContactHandler handles contact form endpoints.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ContactRequest represents a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// Submit godoc
// @Summary Submit a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Message"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.contactService.Submit(c.Request().Context(), req.Name, req.Email, req.Message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to send message",
			Code:  "CONTACT_FAILED",
		})
	}
	return c.JSON(http.StatusCreated, map[string]string{
		"message": "contact message sent successfully",
	})
}

// List godoc
// @Summary List contact messages, newest first
// @Tags contact
// @Produce json
// @Success 200 {array} model.ContactMessage
// @Failure 500 {object} errors.ErrorResponse
// @Router /contact [get]
func (h *ContactHandler) List(c echo.Context) error {
	msgs, err := h.contactService.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to list messages",
			Code:  "CONTACT_LIST_FAILED",
		})
	}
	return c.JSON(http.StatusOK, msgs)
}

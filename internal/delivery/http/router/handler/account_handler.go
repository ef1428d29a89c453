// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"enroll/internal/delivery/http/response"
	domainerrors "enroll/internal/domain/errors"
	"enroll/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input *usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		// An unparseable body carries no usable fields.
		return response.BadRequest(c, domainerrors.ErrMissingFields.Message())
	}

	output, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, output.Token, output.UserID, output.Email)
}

// Login is a stub; session verification is not implemented in this service.
func (h *AccountHandler) Login(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

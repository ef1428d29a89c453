package handler

import (
	"net/http"

	"enroll/internal/domain/repository"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	accounts repository.AccountRepository
}

// NewHealthHandler is the constructor for HealthHandler, injected by Fx.
func NewHealthHandler(accounts repository.AccountRepository) *HealthHandler {
	return &HealthHandler{accounts: accounts}
}

// Check returns the service status and the current account count.
func (h *HealthHandler) Check(c echo.Context) error {
	count, err := h.accounts.Count(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"accounts": count,
	})
}

// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"enroll/internal/delivery/http/middleware"
	"enroll/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler      *handler.AccountHandler
	HealthHandler       *handler.HealthHandler
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler      *handler.AccountHandler
	healthHandler       *handler.HealthHandler
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:      params.AccountHandler,
		healthHandler:       params.HealthHandler,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Process)

	e.GET("/health", r.healthHandler.Check)

	// Registration API. Login mirrors the original boundary: referenced by
	// clients but intentionally unimplemented.
	e.POST("/register", r.accountHandler.Register)
	e.GET("/login", r.accountHandler.Login)
}

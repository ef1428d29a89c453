// Package response defines the wire format of the registration API. The
// shapes here are a compatibility contract with existing clients.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// User is the public view of an account. The password hash is never part of
// any response.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Registered is the success payload of a registration.
type Registered struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// errorBody is the payload of every failed request.
type errorBody struct {
	Error string `json:"error"`
}

// Created writes the 201 registration response.
func Created(c echo.Context, token, userID, email string) error {
	return c.JSON(http.StatusCreated, Registered{
		Token: token,
		User:  User{ID: userID, Email: email},
	})
}

// Error writes an error response with the given status and message.
func Error(c echo.Context, statusCode int, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, errorBody{Error: message})
}

// BadRequest writes a 400 error response.
func BadRequest(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, message)
}

// InternalServerError writes a 500 error response.
func InternalServerError(c echo.Context, message string) error {
	return Error(c, http.StatusInternalServerError, message)
}

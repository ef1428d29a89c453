// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import "context"

// RegisterInput defines the data required to register a new account. The
// plaintext password lives only for the duration of one Register call.
type RegisterInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterOutput is the credential issued for a successful registration.
// It is returned to the caller and never stored.
type RegisterOutput struct {
	Token  string
	UserID string
	Email  string
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
}

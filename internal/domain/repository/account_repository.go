// Package repository defines the persistence contracts of the domain layer.
package repository

import (
	"context"

	"enroll/internal/domain/entity"

	"github.com/pkg/errors"
)

// Sentinel errors returned by AccountRepository implementations.
var (
	// ErrAccountNotFound is returned when no account matches the lookup key.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateEmail is returned by Insert when the email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// AccountRepository is the single source of truth for registered accounts.
// Insert must perform its uniqueness check and the insertion as one atomic
// step: two concurrent inserts for the same email must never both succeed.
type AccountRepository interface {
	// FindByEmail looks up an account by its exact email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByID looks up an account by its identifier.
	FindByID(ctx context.Context, id string) (*entity.Account, error)

	// Insert stores a new account, failing with ErrDuplicateEmail if an
	// account with the same email already exists.
	Insert(ctx context.Context, account *entity.Account) error

	// Count reports the number of registered accounts.
	Count(ctx context.Context) (int, error)
}

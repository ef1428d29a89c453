// Package memory provides process-lifetime, in-memory persistence. It is the
// reference store for the registration service; a database-backed
// implementation can replace it behind the same repository interface.
package memory

import (
	"context"
	"sync"

	"enroll/internal/domain/entity"
	"enroll/internal/domain/repository"
)

// accountRepository keeps accounts in two maps so both lookup keys stay O(1).
// The mutex makes the existence-check-then-insert in Insert atomic: two
// concurrent inserts for the same email can never both succeed.
type accountRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*entity.Account
	byID    map[string]*entity.Account
}

// NewAccountRepository is the constructor for the in-memory account repository.
func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{
		byEmail: make(map[string]*entity.Account),
		byID:    make(map[string]*entity.Account),
	}
}

// FindByEmail looks up an account by its exact email. Emails are compared as
// provided, no normalization.
func (repo *accountRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	account, ok := repo.byEmail[email]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return clone(account), nil
}

// FindByID looks up an account by its identifier.
func (repo *accountRepository) FindByID(_ context.Context, id string) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	account, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return clone(account), nil
}

// Insert stores a new account. The duplicate check and the insertion happen
// under one lock, so exactly one of any set of concurrent inserts for the
// same email succeeds.
func (repo *accountRepository) Insert(_ context.Context, account *entity.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.byEmail[account.Email]; exists {
		return repository.ErrDuplicateEmail
	}

	stored := clone(account)
	repo.byEmail[stored.Email] = stored
	repo.byID[stored.ID] = stored

	return nil
}

// Count reports the number of registered accounts.
func (repo *accountRepository) Count(_ context.Context) (int, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return len(repo.byID), nil
}

// clone keeps callers from sharing a reference with the stored record.
func clone(account *entity.Account) *entity.Account {
	copied := *account
	return &copied
}

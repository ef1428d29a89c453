// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// Account is the registered identity record. The Email is the login
// identifier and is unique across all accounts; comparison is exact,
// no normalization is applied.
type Account struct {
	ID           string    // Opaque unique identifier, assigned at insertion and immutable afterwards.
	Email        string    // The account's email, unique across the directory.
	PasswordHash string    // Salted one-way hash of the password. Never the plaintext, never serialized outward.
	CreatedAt    time.Time // Timestamp of when this account was created.
}

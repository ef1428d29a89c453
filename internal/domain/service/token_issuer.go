package service

import (
	"context"

	"github.com/pkg/errors"
)

// ErrUpstreamUnavailable is returned when the chat backend rejects a call
// or cannot be reached.
var ErrUpstreamUnavailable = errors.New("chat backend unavailable")

// TokenIssuer is the contract against the downstream real-time chat backend.
// It syncs identities into the backend's user directory and mints bearer
// tokens redeemable against it.
type TokenIssuer interface {
	// UpsertIdentity creates or updates the user's identity in the chat
	// backend's directory. It must be called before a token for that
	// identity is handed out.
	UpsertIdentity(ctx context.Context, id, email, displayName string) error

	// MintToken returns a signed bearer token for the given user id.
	MintToken(ctx context.Context, id string) (string, error)
}

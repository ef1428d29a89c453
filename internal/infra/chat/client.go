// Package chat implements the TokenIssuer contract against the downstream
// real-time chat backend.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"enroll/config"
	"enroll/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	defaultTimeout = 5 * time.Second

	// serverTokenTTL bounds the lifetime of the server-side JWT used to
	// authenticate directory upserts.
	serverTokenTTL = time.Minute
)

// client talks to the chat backend's REST API and signs tokens with the
// backend's shared API secret.
type client struct {
	baseURL    string
	apiKey     string
	apiSecret  []byte
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient is the constructor for the chat-backend client.
func NewClient(cfg *config.Config, logger *slog.Logger) (service.TokenIssuer, error) {
	if cfg.Chat == nil || cfg.Chat.APISecret == "" {
		return nil, errors.New("chat api secret must be provided")
	}

	timeout := cfg.Chat.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		baseURL:    cfg.Chat.BaseURL,
		apiKey:     cfg.Chat.APIKey,
		apiSecret:  []byte(cfg.Chat.APISecret),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// upsertRequest is the wire form of a user-directory upsert.
type upsertRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UpsertIdentity creates or updates the user in the chat backend's directory.
// Any transport failure or non-2xx status maps to ErrUpstreamUnavailable;
// callers must not leak backend detail to clients.
func (c *client) UpsertIdentity(ctx context.Context, id, email, displayName string) error {
	payload, err := json.Marshal(upsertRequest{ID: id, Email: email, Name: displayName})
	if err != nil {
		return errors.Wrap(err, "marshal upsert request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build upsert request")
	}

	serverToken, err := c.mintServerToken()
	if err != nil {
		return errors.Wrap(err, "mint server token")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", serverToken)
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Chat backend upsert failed", slog.String("userID", id), slog.Any("error", err))

		return errors.Wrap(service.ErrUpstreamUnavailable, "upsert identity")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("Chat backend rejected upsert",
			slog.String("userID", id),
			slog.Int("status", resp.StatusCode))

		return errors.Wrap(service.ErrUpstreamUnavailable, fmt.Sprintf("upsert identity: status %d", resp.StatusCode))
	}

	return nil
}

// MintToken returns a user token for the chat backend: an HS256 JWT carrying
// only the user_id claim, signed with the shared API secret. The backend
// resolves the identity from that claim; no expiry is set on user tokens.
func (c *client) MintToken(_ context.Context, id string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": id,
	})

	signed, err := token.SignedString(c.apiSecret)
	if err != nil {
		return "", errors.Wrap(service.ErrUpstreamUnavailable, "sign user token")
	}

	return signed, nil
}

// mintServerToken signs a short-lived server-scoped JWT for directory calls.
func (c *client) mintServerToken() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"server": true,
		"iat":    now.Unix(),
		"exp":    now.Add(serverTokenTTL).Unix(),
	})

	return token.SignedString(c.apiSecret)
}

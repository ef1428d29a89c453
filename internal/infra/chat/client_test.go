package chat

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"enroll/config"
	"enroll/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Chat = &config.ChatConfig{
		BaseURL:   baseURL,
		APIKey:    "test-key",
		APISecret: "test-secret",
		Timeout:   time.Second,
	}

	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient_RequiresSecret(t *testing.T) {
	_, err := NewClient(&config.Config{}, testLogger())
	assert.Error(t, err)

	cfg := &config.Config{Chat: &config.ChatConfig{APIKey: "k"}}
	_, err = NewClient(cfg, testLogger())
	assert.Error(t, err)
}

func TestClient_UpsertIdentity(t *testing.T) {
	var gotPath, gotAuth, gotAPIKey string
	var gotBody upsertRequest

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("X-Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer backend.Close()

	issuer, err := NewClient(testConfig(backend.URL), testLogger())
	require.NoError(t, err)

	err = issuer.UpsertIdentity(context.Background(), "user-1", "a@x.com", "a@x.com")
	require.NoError(t, err)

	assert.Equal(t, "POST /users", gotPath)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, upsertRequest{ID: "user-1", Email: "a@x.com", Name: "a@x.com"}, gotBody)

	// The server token must verify against the shared secret and be
	// server-scoped.
	claims := parseClaims(t, gotAuth)
	assert.Equal(t, true, claims["server"])
}

func TestClient_UpsertIdentity_UpstreamError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	issuer, err := NewClient(testConfig(backend.URL), testLogger())
	require.NoError(t, err)

	err = issuer.UpsertIdentity(context.Background(), "user-1", "a@x.com", "a@x.com")
	assert.ErrorIs(t, err, service.ErrUpstreamUnavailable)
}

func TestClient_UpsertIdentity_Unreachable(t *testing.T) {
	issuer, err := NewClient(testConfig("http://127.0.0.1:1"), testLogger())
	require.NoError(t, err)

	err = issuer.UpsertIdentity(context.Background(), "user-1", "a@x.com", "a@x.com")
	assert.ErrorIs(t, err, service.ErrUpstreamUnavailable)
}

func TestClient_MintToken(t *testing.T) {
	issuer, err := NewClient(testConfig("http://localhost:3030"), testLogger())
	require.NoError(t, err)

	token, err := issuer.MintToken(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := parseClaims(t, token)
	assert.Equal(t, "user-1", claims["user_id"])

	other, err := issuer.MintToken(context.Background(), "user-2")
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func parseClaims(t *testing.T, tokenString string) jwt.MapClaims {
	t.Helper()

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)

	return claims
}

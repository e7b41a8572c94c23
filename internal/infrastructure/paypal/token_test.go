package paypal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/forye/checkout-gateway/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(config.PayPalConfig{
		ClientID:    "client-id",
		SecretKey:   "secret-key",
		WebhookID:   "WH-1",
		BaseURL:     baseURL,
		BrandName:   "Acme Store",
		Locale:      "en-US",
		ReturnURL:   "https://merchant.example/return",
		CancelURL:   "https://merchant.example/cancel",
		ConnTimeout: 5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAccessToken(t *testing.T) {
	t.Run("cached token issues no token request", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Write([]byte(`{"access_token":"TOKEN-A","expires_in":3600}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		client.tokens.token = "CACHED"
		client.tokens.expiresAt = time.Now().Add(time.Hour)

		token, err := client.accessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "CACHED", token)
		assert.EqualValues(t, 0, calls.Load())
	})

	t.Run("expired token triggers exactly one exchange", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, "/v1/oauth2/token", r.URL.Path)

			username, password, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client-id", username)
			assert.Equal(t, "secret-key", password)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

			w.Write([]byte(`{"access_token":"TOKEN-A","expires_in":3600}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		client.tokens.token = "STALE"
		client.tokens.expiresAt = time.Now().Add(-time.Minute)

		token, err := client.accessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "TOKEN-A", token)
		assert.EqualValues(t, 1, calls.Load())

		// Second call rides the fresh cache.
		token, err = client.accessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "TOKEN-A", token)
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("expiry watermark sits before the real expiry", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"access_token":"TOKEN-A","expires_in":3600}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		before := time.Now()

		_, err := client.accessToken(context.Background())
		require.NoError(t, err)

		wantLow := before.Add((3600 - tokenExpiryMarginSeconds - 5) * time.Second)
		wantHigh := before.Add((3600 - tokenExpiryMarginSeconds + 5) * time.Second)
		assert.True(t, client.tokens.expiresAt.After(wantLow))
		assert.True(t, client.tokens.expiresAt.Before(wantHigh))
	})

	t.Run("failed refresh keeps the stale token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		client.tokens.token = "STALE"
		client.tokens.expiresAt = time.Now().Add(-time.Minute)

		token, err := client.accessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "STALE", token)
	})

	t.Run("failed refresh without a fallback is an auth error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		_, err := client.accessToken(context.Background())
		assert.ErrorIs(t, err, ErrTokenUnavailable)
	})

	t.Run("empty access_token is treated as a failed refresh", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"expires_in":3600}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		_, err := client.accessToken(context.Background())
		assert.ErrorIs(t, err, ErrTokenUnavailable)
	})
}

package paypal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// tokenExpiryMarginSeconds is subtracted from the provider's expires_in so a
// token is refreshed ten minutes before it actually expires.
const tokenExpiryMarginSeconds = 600

// tokenCache holds the single cached bearer token and its expiry watermark.
// The mutex is held across the refresh round trip, which serializes
// concurrent refreshes (single flight) and makes the token/expiry pair
// replacement atomic for readers.
type tokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// accessToken returns the cached bearer token, refreshing it via a
// client-credentials exchange when absent or past the watermark. A failed
// exchange leaves the cache untouched: the previous token is returned and
// callers hit an auth failure downstream, with the next call past the
// watermark triggering a fresh exchange.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.tokens.mu.Lock()
	defer c.tokens.mu.Unlock()

	if c.tokens.token != "" && time.Now().Before(c.tokens.expiresAt) {
		return c.tokens.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"),
	)
	if err != nil {
		return "", fmt.Errorf("error creating token request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.SecretKey))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.staleToken(fmt.Errorf("token exchange failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return c.staleToken(&APIError{StatusCode: resp.StatusCode, Body: string(body)})
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return c.staleToken(fmt.Errorf("error decoding token response: %w", err))
	}
	if tr.AccessToken == "" {
		return c.staleToken(fmt.Errorf("token response missing access_token: %w", ErrMalformedResponse))
	}

	c.tokens.token = tr.AccessToken
	c.tokens.expiresAt = time.Now().Add(time.Duration(tr.ExpiresIn-tokenExpiryMarginSeconds) * time.Second)

	return c.tokens.token, nil
}

// staleToken is the failed-refresh path. Callers must hold tokens.mu.
func (c *Client) staleToken(cause error) (string, error) {
	if c.tokens.token != "" {
		c.logger.Warn("token refresh failed, reusing previous token", "error", cause)
		return c.tokens.token, nil
	}
	return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, cause)
}

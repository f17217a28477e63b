package zoom

import (
	"context"
	"fmt"
	"time"

	"github.com/skillsenselab/meetscribe/internal/apperr"
	"github.com/skillsenselab/meetscribe/internal/httpx"
)

// tokenResponse is the OAuth token endpoint payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a valid bearer token, performing the account-credentials
// exchange on first use and again after expiry. The cached token is replaced
// wholesale, never partially updated.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	resp, err := httpx.Post[tokenResponse](c.auth, ctx, "/token", httpx.WithBody(httpx.FormBody{
		"grant_type":    "account_credentials",
		"account_id":    c.cfg.AccountID,
		"client_id":     c.cfg.ClientID,
		"client_secret": c.cfg.ClientSecret,
	}))
	if err != nil {
		return "", apperr.AuthFailed(err)
	}
	if resp.Data.AccessToken == "" {
		return "", apperr.AuthFailed(fmt.Errorf("token endpoint returned no access_token (HTTP %d)", resp.StatusCode))
	}

	c.token = resp.Data.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(resp.Data.ExpiresIn)*time.Second - tokenExpirySkew)
	c.log.Debug("access token refreshed", map[string]any{"expires_in": resp.Data.ExpiresIn})

	return c.token, nil
}

// bearer returns an auth config carrying a valid token.
func (c *Client) bearer(ctx context.Context) (*httpx.AuthConfig, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	return httpx.BearerAuth(token), nil
}

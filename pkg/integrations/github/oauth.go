package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultClientID is the OAuth App Client ID for starctl.
// This is public and safe to commit - only the Client Secret must be kept private.
// The Device Flow doesn't require a secret, only the Client ID.
//
// To use your own OAuth App, set GITHUB_CLIENT_ID or [auth] client_id.
const DefaultClientID = "Ov23liyPM58WU6hMeP7E"

// DefaultScopes covers starring public repositories and reading the
// profile. Starring private repositories needs "repo".
const DefaultScopes = "public_repo read:user"

const (
	defaultWebURL = "https://github.com"

	// GitHub rejects polls faster than this many seconds.
	minPollInterval = 5
	slowDownStep    = 5
)

// Device flow error codes returned while polling.
const (
	oauthPending  = "authorization_pending"
	oauthSlowDown = "slow_down"
)

// OAuthError is an error payload from the OAuth endpoints, such as
// expired_token or access_denied.
type OAuthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *OAuthError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// OAuthClient runs the GitHub device authorization flow.
type OAuthClient struct {
	config     OAuthConfig
	httpClient *http.Client
	// unit scales the server's poll interval; tests shrink it.
	unit time.Duration
}

// NewOAuthClient creates a new OAuth client.
func NewOAuthClient(config OAuthConfig) *OAuthClient {
	if config.Scopes == "" {
		config.Scopes = DefaultScopes
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultWebURL
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	return &OAuthClient{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		unit:       time.Second,
	}
}

// DeviceCodeResponse contains the response from requesting a device code.
type DeviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// RequestDeviceCode initiates the device authorization flow.
// The user must visit the VerificationURI and enter the UserCode.
func (c *OAuthClient) RequestDeviceCode(ctx context.Context) (*DeviceCodeResponse, error) {
	var result DeviceCodeResponse
	err := c.post(ctx, "/login/device/code", url.Values{
		"client_id": {c.config.ClientID},
		"scope":     {c.config.Scopes},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PollForToken polls GitHub for the access token after user authorization.
// It waits interval seconds between polls (at least five) and backs off
// further on slow_down. It returns when the user authorizes, when GitHub
// reports a terminal error (expired_token, access_denied), or when ctx ends.
func (c *OAuthClient) PollForToken(ctx context.Context, deviceCode string, interval int) (*OAuthToken, error) {
	interval = max(interval, minPollInterval)

	timer := time.NewTimer(time.Duration(interval) * c.unit)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		token, err := c.checkDeviceToken(ctx, deviceCode)
		var oerr *OAuthError
		switch {
		case err == nil:
			return token, nil
		case errors.As(err, &oerr) && oerr.Code == oauthPending:
		case errors.As(err, &oerr) && oerr.Code == oauthSlowDown:
			interval += slowDownStep
		default:
			return nil, err
		}
		timer.Reset(time.Duration(interval) * c.unit)
	}
}

func (c *OAuthClient) checkDeviceToken(ctx context.Context, deviceCode string) (*OAuthToken, error) {
	var token OAuthToken
	err := c.post(ctx, "/login/oauth/access_token", url.Values{
		"client_id":   {c.config.ClientID},
		"device_code": {deviceCode},
		"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
	}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// post sends a form to the OAuth endpoint and decodes the JSON reply into
// v. GitHub reports OAuth failures as 200 responses with an "error" field,
// which post returns as *OAuthError.
func (c *OAuthClient) post(ctx context.Context, path string, form url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oauth %s: status %d", path, resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	var oerr OAuthError
	if json.Unmarshal(raw, &oerr) == nil && oerr.Code != "" {
		return &oerr
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Package rest talks to a Firebase-style identity REST backend
// (identitytoolkit accounts:* endpoints) and adapts its wire errors to the
// auth package's provider-error vocabulary.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JelipeElGuapo/safebuzz/internal/auth"
)

type Client struct {
	name    string
	baseURL *url.URL
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid identity base url %q: %w", baseURL, err)
	}
	return &Client{name: "identity-provider", baseURL: u, apiKey: apiKey, http: httpClient}, nil
}

type accountResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*auth.Account, error) {
	var resp accountResponse
	err := c.post(ctx, "/v1/accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &auth.Account{
		ID:          resp.LocalID,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		Token:       resp.IDToken,
	}, nil
}

func (c *Client) CreateAccount(ctx context.Context, email, password string, profile auth.Profile) (*auth.Account, error) {
	var resp accountResponse
	err := c.post(ctx, "/v1/accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"displayName":       profile.Name,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	name := resp.DisplayName
	if name == "" {
		name = profile.Name
	}

	return &auth.Account{
		ID:          resp.LocalID,
		Email:       resp.Email,
		DisplayName: name,
		Token:       resp.IDToken,
	}, nil
}

// SignOut is local-only: the backend issues stateless tokens, so there is
// nothing to revoke server-side.
func (c *Client) SignOut(ctx context.Context) error {
	return nil
}

func (c *Client) SignInMethods(ctx context.Context, email string) ([]string, error) {
	var resp struct {
		SigninMethods []string `json:"signinMethods"`
		Registered    bool     `json:"registered"`
	}
	err := c.post(ctx, "/v1/accounts:createAuthUri", map[string]any{
		"identifier":  email,
		"continueUri": "http://localhost",
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.SigninMethods) == 0 && resp.Registered {
		return []string{"password"}, nil
	}
	return resp.SigninMethods, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	rel := &url.URL{Path: path, RawQuery: "key=" + url.QueryEscape(c.apiKey)}
	u := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var wire errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
			return fmt.Errorf("%s returned status %d", c.name, resp.StatusCode)
		}
		return wireError(wire.Error.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}

// Wire codes the backend reports, mapped onto the stable auth vocabulary.
var wireCodes = map[string]string{
	"EMAIL_NOT_FOUND":                auth.CodeUserNotFound,
	"INVALID_PASSWORD":               auth.CodeWrongPassword,
	"INVALID_LOGIN_CREDENTIALS":      auth.CodeInvalidCredential,
	"EMAIL_EXISTS":                   auth.CodeEmailInUse,
	"WEAK_PASSWORD":                  auth.CodeWeakPassword,
	"INVALID_EMAIL":                  auth.CodeInvalidEmail,
	"MISSING_PASSWORD":               auth.CodeMissingPassword,
	"MISSING_EMAIL":                  auth.CodeMissingEmail,
	"USER_DISABLED":                  auth.CodeUserDisabled,
	"OPERATION_NOT_ALLOWED":          auth.CodeOperationNotAllowed,
	"TOO_MANY_ATTEMPTS_TRY_LATER":    auth.CodeTooManyRequests,
	"CREDENTIAL_TOO_OLD_LOGIN_AGAIN": auth.CodeRecentLoginRequired,
}

func wireError(message string) error {
	// Messages sometimes carry a detail suffix: "WEAK_PASSWORD : Password
	// should be at least 6 characters".
	code := message
	if i := strings.Index(message, " :"); i >= 0 {
		code = message[:i]
	}
	code = strings.TrimSpace(code)

	if mapped, ok := wireCodes[code]; ok {
		return &auth.ProviderError{Code: mapped, Message: message}
	}
	return &auth.ProviderError{Code: code, Message: message}
}

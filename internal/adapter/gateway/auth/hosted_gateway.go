// Package auth implements output.AuthGateway.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
)

// HostedGateway implements AuthGateway for a GoTrue-compatible hosted auth API
type HostedGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHostedGateway creates a client for the auth API at baseURL
func NewHostedGateway(baseURL, apiKey string, timeout time.Duration) *HostedGateway {
	return &HostedGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SignIn runs the password grant
func (g *HostedGateway) SignIn(ctx context.Context, email, password string) (*output.AuthSession, error) {
	var resp tokenResponse
	err := g.call(ctx, "/auth/v1/token?grant_type=password", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &output.AuthSession{
		UserID:      resp.User.ID,
		Email:       resp.User.Email,
		Name:        resp.User.Metadata.Name,
		AccessToken: resp.AccessToken,
	}, nil
}

// SignUp registers an account with the profile stored as user metadata
func (g *HostedGateway) SignUp(ctx context.Context, email, password string, profile output.Profile) (*output.PendingVerification, error) {
	var resp signUpResponse
	err := g.call(ctx, "/auth/v1/signup", credentials{Email: email, Password: password, Data: &profile}, &resp)
	if err != nil {
		return nil, err
	}

	// Depending on project settings the API returns the user or a session
	u := resp.userResponse
	if resp.User != nil {
		u = *resp.User
	}
	return &output.PendingVerification{UserID: u.ID, Email: u.Email}, nil
}

// ResetPassword requests a recovery mail
func (g *HostedGateway) ResetPassword(ctx context.Context, email, redirectURL string) error {
	path := "/auth/v1/recover"
	if redirectURL != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectURL)
	}
	return g.call(ctx, path, credentials{Email: email}, nil)
}

// call POSTs body as JSON and decodes a 2xx response into out
func (g *HostedGateway) call(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("apikey", g.apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &output.AuthError{Code: "request_failed", Message: "Unable to reach the authentication service. Please try again."}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return parseError(httpResp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseError maps the provider's error bodies onto AuthError. Older servers
// send {error, error_description}, newer ones {error_code, msg}.
func parseError(status int, data []byte) *output.AuthError {
	var body errorResponse
	_ = json.Unmarshal(data, &body)

	authErr := &output.AuthError{
		Code: firstNonEmpty(body.ErrorCode, body.Error),
		Message: firstNonEmpty(
			body.ErrorDescription,
			body.Msg,
			body.Message,
		),
	}
	if authErr.Code == "" {
		authErr.Code = fmt.Sprintf("http_%d", status)
	}
	if authErr.Message == "" {
		authErr.Message = fmt.Sprintf("Authentication failed (status %d)", status)
	}
	return authErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Hosted auth API request/response types
type credentials struct {
	Email    string          `json:"email"`
	Password string          `json:"password,omitempty"`
	Data     *output.Profile `json:"data,omitempty"`
}

type userResponse struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata output.Profile `json:"user_metadata"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        userResponse `json:"user"`
}

type signUpResponse struct {
	userResponse
	User *userResponse `json:"user,omitempty"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

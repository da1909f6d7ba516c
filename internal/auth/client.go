package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"atelier/internal/domain"
)

// Client forwards sign-in and sign-up requests to the Supabase auth API.
// This service never sees password hashes or sessions beyond relaying them.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Credentials is an email+password pair.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required, validation.Length(6, 256)),
	)
}

// Session is the relevant subset of the auth service's session payload.
type Session struct {
	AccessToken  string          `json:"access_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	RefreshToken string          `json:"refresh_token"`
	User         json.RawMessage `json:"user"`
}

type errorResponse struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

// SignIn exchanges credentials for a session via the password grant.
func (c *Client) SignIn(ctx context.Context, creds *Credentials) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	return c.post(ctx, "/auth/v1/token?grant_type=password", creds)
}

// SignUp registers a new user. Depending on the project's email-confirmation
// setting the session may or may not carry tokens.
func (c *Client) SignUp(ctx context.Context, creds *Credentials) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	return c.post(ctx, "/auth/v1/signup", creds)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*Session, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("auth service is not configured")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		_ = json.Unmarshal(body, &errResp)
		msg := errResp.Message
		if msg == "" {
			msg = errResp.ErrorDescription
		}
		if msg == "" {
			msg = fmt.Sprintf("auth service returned status %d", resp.StatusCode)
		}
		return nil, &domain.UnauthorizedError{Message: msg}
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	return &session, nil
}

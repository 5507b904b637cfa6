// Package apiclient implements the authflow capability boundaries over the
// platform's HTTP API: the identity provider adapter, the support-message
// store, and a thin client for the transactional-email dispatcher.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/funfans/funfans-api/internal/authflow"
)

// Client talks to the platform API. It implements authflow.Provider and
// authflow.SupportStore.
type Client struct {
	baseURL    string
	httpClient *http.Client
	bearer     string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetBearer installs the token used on authenticated calls, e.g. after
// restoring a persisted session.
func (c *Client) SetBearer(token string) { c.bearer = token }

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type signInEnvelope struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn exchanges credentials for a session. Server failure text is
// returned raw so the flow machine can match the known signatures.
func (c *Client) SignIn(ctx context.Context, email, password string) (*authflow.Session, error) {
	body, err := c.post(ctx, "/v1/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	}, false)
	if err != nil {
		return nil, err
	}
	var env signInEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode signin response: %w", err)
	}
	c.bearer = env.AccessToken
	return &authflow.Session{
		Identity:     authflow.Identity{ID: env.User.ID, Email: env.User.Email},
		Bearer:       env.AccessToken,
		RefreshToken: env.RefreshToken,
	}, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) error {
	_, err := c.post(ctx, "/v1/auth/signup", map[string]string{
		"email":    email,
		"password": password,
	}, false)
	return err
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	_, err := c.post(ctx, "/v1/auth/reset-password", map[string]string{
		"email": email,
	}, false)
	return err
}

// Insert persists one support message for the authenticated user. The server
// derives the user from the bearer token; userID is accepted for the
// SupportStore contract but not sent.
func (c *Client) Insert(ctx context.Context, _ string, message string) error {
	_, err := c.post(ctx, "/v1/support-messages", map[string]string{
		"message": message,
	}, true)
	return err
}

// post sends a JSON body and returns the response body. Transport failures
// are classified as network errors; non-2xx responses become plain errors
// carrying the server's message.
func (c *Client) post(ctx context.Context, path string, payload interface{}, authed bool) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &authflow.FlowError{Kind: authflow.KindNetwork, Message: "Ocorreu um erro. Tente novamente."}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &authflow.FlowError{Kind: authflow.KindNetwork, Message: "Ocorreu um erro. Tente novamente."}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env errorEnvelope
		if json.Unmarshal(body, &env) == nil && env.Error != "" {
			return nil, fmt.Errorf("%s", env.Error)
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

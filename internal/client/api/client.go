// Package api provides a thin HTTP client for the Authgate server. It mirrors
// the server's response envelope and exposes typed calls for the auth
// endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// User is the outward user projection as returned by the server. It never
// carries credential material.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `json:"isActive"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type authData struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// APIError is a failure reported by the server, carrying its message and,
// for validation failures, the individual violations.
type APIError struct {
	StatusCode int
	Message    string
	Violations []string
}

func (e *APIError) Error() string {
	if len(e.Violations) > 0 {
		return e.Message + ": " + strings.Join(e.Violations, "; ")
	}
	return e.Message
}

// Client talks to one Authgate server.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Register creates an account and returns the new user with a session token.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, string, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	data, err := c.do(ctx, http.MethodPost, "/register", body, "")
	if err != nil {
		return nil, "", err
	}

	var out authData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, "", fmt.Errorf("decoding response: %w", err)
	}
	return out.User, out.Token, nil
}

// Login authenticates and returns the user with a session token.
func (c *Client) Login(ctx context.Context, username, password string) (*User, string, error) {
	body := map[string]string{"username": username, "password": password}
	data, err := c.do(ctx, http.MethodPost, "/login", body, "")
	if err != nil {
		return nil, "", err
	}

	var out authData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, "", fmt.Errorf("decoding response: %w", err)
	}
	return out.User, out.Token, nil
}

// Profile fetches the profile of the token's owner.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	data, err := c.do(ctx, http.MethodGet, "/profile", nil, token)
	if err != nil {
		return nil, err
	}

	var out authData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return out.User, nil
}

// do performs one request and unwraps the response envelope. Failures
// reported by the server come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any, token string) (json.RawMessage, error) {
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	} else {
		reader = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg, Violations: env.Errors}
	}
	return env.Data, nil
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

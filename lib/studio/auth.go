// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package studio

import (
	"context"
	"fmt"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token and returns an
// authenticated Session. Bad credentials come back as an *APIError
// with status 401; because no token was attached to the request, the
// unauthorized hook does not fire.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	env, err := c.doRequest(ctx, "", http.MethodPost, "/auth/login", nil, loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := decodeData(env, "/auth/login", &payload); err != nil {
		return nil, err
	}
	if payload.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return c.WithToken(payload.Token), nil
}

// Session is an authenticated handle on the content API. It shares the
// parent Client's transport; only the bearer token is added.
type Session struct {
	client *Client
	token  string
}

// WithToken wraps a previously issued bearer token (for example one
// restored from the session file) without a new login round trip.
// Validity is not checked here; call Me to verify.
func (c *Client) WithToken(token string) *Session {
	return &Session{client: c, token: token}
}

// Token returns the bearer token, for persistence.
func (s *Session) Token() string {
	return s.token
}

// Me fetches the identity behind the session's token. This is the
// validity probe: a stored token that no longer works surfaces here as
// an unauthorized *APIError.
func (s *Session) Me(ctx context.Context) (*User, error) {
	env, err := s.client.doRequest(ctx, s.token, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := decodeData(env, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

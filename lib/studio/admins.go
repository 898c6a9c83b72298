// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package studio

import (
	"context"
	"net/http"
	"net/url"
)

// Admins lists every administrator account. Requires a SUPER_ADMIN
// token; the backend rejects plain admins.
func (s *Session) Admins(ctx context.Context) ([]Admin, error) {
	env, err := s.client.doRequest(ctx, s.token, http.MethodGet, "/users/admins", nil, nil)
	if err != nil {
		return nil, err
	}
	var admins []Admin
	if err := decodeData(env, "/users/admins", &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

// CreateAdmin provisions a new administrator account. Unlike the
// content endpoints this one speaks JSON.
func (s *Session) CreateAdmin(ctx context.Context, params CreateAdminParams) error {
	_, err := s.client.doRequest(ctx, s.token, http.MethodPost, "/users/create-admin", nil, params)
	return err
}

// UpdateAdmin edits an administrator account. When params.Password is
// blank the key is absent from the JSON payload and the backend keeps
// the current password.
func (s *Session) UpdateAdmin(ctx context.Context, id string, params UpdateAdminParams) error {
	path := "/users/" + url.PathEscape(id)
	_, err := s.client.doRequest(ctx, s.token, http.MethodPatch, path, nil, params)
	return err
}

// DeleteAdmin removes an administrator account.
func (s *Session) DeleteAdmin(ctx context.Context, id string) error {
	path := "/users/" + url.PathEscape(id)
	_, err := s.client.doRequest(ctx, s.token, http.MethodDelete, path, nil, nil)
	return err
}

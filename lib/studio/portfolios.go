// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package studio

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Projects lists every portfolio project. The endpoint is public.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	env, err := c.doRequest(ctx, "", http.MethodGet, "/portfolios", nil, nil)
	if err != nil {
		return nil, err
	}
	var projects []Project
	if err := decodeData(env, "/portfolios", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func projectFields(params ProjectParams) map[string]string {
	return map[string]string{
		"title":        params.Title,
		"client":       params.Client,
		"projectType":  params.ProjectType,
		"description":  params.Description,
		"liveUrl":      params.LiveURL,
		"technologies": strings.Join(params.Technologies, ","),
	}
}

// CreateProject adds a portfolio project. Like blogs, the endpoint is
// multipart-only, with the showcase image in a part named "file".
func (s *Session) CreateProject(ctx context.Context, params ProjectParams) error {
	_, err := s.client.doMultipart(ctx, s.token, http.MethodPost, "/portfolios", projectFields(params), params.Image)
	return err
}

// UpdateProject rewrites an existing project's fields.
func (s *Session) UpdateProject(ctx context.Context, id string, params ProjectParams) error {
	path := "/portfolios/" + url.PathEscape(id)
	_, err := s.client.doMultipart(ctx, s.token, http.MethodPatch, path, projectFields(params), params.Image)
	return err
}

// DeleteProject removes a portfolio project.
func (s *Session) DeleteProject(ctx context.Context, id string) error {
	path := "/portfolios/" + url.PathEscape(id)
	_, err := s.client.doRequest(ctx, s.token, http.MethodDelete, path, nil, nil)
	return err
}

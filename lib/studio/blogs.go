// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package studio

import (
	"context"
	"net/http"
	"net/url"
)

// Blogs lists every published blog. The endpoint is public.
func (c *Client) Blogs(ctx context.Context) ([]Blog, error) {
	env, err := c.doRequest(ctx, "", http.MethodGet, "/blogs", nil, nil)
	if err != nil {
		return nil, err
	}
	var blogs []Blog
	if err := decodeData(env, "/blogs", &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// BlogBySlug fetches a single blog by its URL slug.
func (c *Client) BlogBySlug(ctx context.Context, slug string) (*Blog, error) {
	path := "/blogs/" + url.PathEscape(slug)
	env, err := c.doRequest(ctx, "", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var blog Blog
	if err := decodeData(env, path, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func blogFields(params BlogParams) map[string]string {
	return map[string]string{
		"title":    params.Title,
		"author":   params.Author,
		"category": params.Category,
		"content":  params.Content,
	}
}

// CreateBlog publishes a new blog. The endpoint only accepts
// multipart/form-data, with the optional cover image in a part
// named "file".
func (s *Session) CreateBlog(ctx context.Context, params BlogParams) error {
	_, err := s.client.doMultipart(ctx, s.token, http.MethodPost, "/blogs", blogFields(params), params.Cover)
	return err
}

// UpdateBlog rewrites an existing blog's fields. A nil Cover leaves
// the stored cover image unchanged.
func (s *Session) UpdateBlog(ctx context.Context, id string, params BlogParams) error {
	path := "/blogs/" + url.PathEscape(id)
	_, err := s.client.doMultipart(ctx, s.token, http.MethodPatch, path, blogFields(params), params.Cover)
	return err
}

// DeleteBlog removes a blog. Deleting an already-deleted record comes
// back as a not-found *APIError; it is never silently swallowed.
func (s *Session) DeleteBlog(ctx context.Context, id string) error {
	path := "/blogs/" + url.PathEscape(id)
	_, err := s.client.doRequest(ctx, s.token, http.MethodDelete, path, nil, nil)
	return err
}

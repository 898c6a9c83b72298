// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package studio

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Contacts fetches one page of contact-form messages. Pages are
// 1-based. Requesting a page past the end of the collection is not an
// error: the backend returns an empty data array with the real total
// still in meta.total.
func (s *Session) Contacts(ctx context.Context, page, perPage int) (*ContactPage, error) {
	query := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(perPage)},
	}
	env, err := s.client.doRequest(ctx, s.token, http.MethodGet, "/contacts", query, nil)
	if err != nil {
		return nil, err
	}
	result := &ContactPage{Page: page, PerPage: perPage}
	if err := decodeData(env, "/contacts", &result.Contacts); err != nil {
		return nil, err
	}
	if env.Meta != nil {
		result.Total = env.Meta.Total
	} else {
		result.Total = len(result.Contacts)
	}
	return result, nil
}

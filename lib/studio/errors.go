// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package studio

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a response the content API rejected: either a non-2xx
// status, or a 2xx body whose envelope carries success=false. Message
// is the backend's human-readable explanation when the envelope
// provided one.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Message is the "message" field from the error envelope, or
	// empty when the body was not a recognizable envelope.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsUnauthorized reports whether err is an API rejection with status
// 401. The session store uses this to distinguish an expired token
// from a transient network failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is an API rejection with status 404,
// such as deleting a record that another session already removed.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

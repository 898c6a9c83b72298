// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

// Package studio is the typed client for the Fathomline content API:
// the REST backend that serves the agency site's blogs, portfolio
// projects, admin accounts, and contact-form messages.
//
// Every response from the backend is wrapped in a uniform envelope:
//
//	{"success": true,  "data": ..., "meta": {...}}
//	{"success": false, "message": "..."}
//
// The client strips the envelope and hands callers plain typed values
// or an *APIError. Public reads hang off Client; anything requiring a
// bearer token hangs off Session, obtained from Login or WithToken.
package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds every request when the caller does not supply
// its own http.Client. A hung backend must not wedge the admin console.
const DefaultTimeout = 15 * time.Second

// ClientConfig holds the configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the content API root, e.g. "https://api.fathomline.dev".
	// Required.
	BaseURL string

	// HTTPClient is the underlying HTTP client. If nil, a client with
	// DefaultTimeout is used.
	HTTPClient *http.Client

	// Logger receives request-level debug logs. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client talks to the content API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mutex          sync.Mutex
	onUnauthorized func()
}

// NewClient creates a content API client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// SetUnauthorizedHook registers a callback invoked whenever a request
// carrying a bearer token is rejected with 401. The session store uses
// this to flip to the expired state the moment any screen's request
// reveals a dead token. Unauthenticated requests (login itself) never
// trigger the hook.
func (c *Client) SetUnauthorizedHook(hook func()) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.onUnauthorized = hook
}

func (c *Client) notifyUnauthorized() {
	c.mutex.Lock()
	hook := c.onUnauthorized
	c.mutex.Unlock()
	if hook != nil {
		hook()
	}
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *envelopeMeta   `json:"meta"`
}

type envelopeMeta struct {
	Total int `json:"total"`
}

// doRequest performs a JSON request and returns the decoded envelope.
// token may be empty for public endpoints. The returned error is an
// *APIError for backend rejections and a wrapped transport error for
// everything below HTTP.
func (c *Client) doRequest(ctx context.Context, token, method, path string, query url.Values, payload any) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s payload: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := c.newRequest(ctx, token, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	return c.execute(request, token, method, path)
}

// doMultipart performs a multipart/form-data request: one part per
// text field, plus an optional file part named "file". The blogs and
// portfolio endpoints only accept this encoding; doRequest and
// doMultipart are deliberately separate so a caller can never mix the
// two on one request.
func (c *Client) doMultipart(ctx context.Context, token, method, path string, fields map[string]string, file *FileAttachment) (*envelope, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("encode %s %s field %q: %w", method, path, name, err)
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile("file", file.Name)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s file part: %w", method, path, err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return nil, fmt.Errorf("read attachment %q: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize %s %s body: %w", method, path, err)
	}

	request, err := c.newRequest(ctx, token, method, path, nil, &buffer)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return c.execute(request, token, method, path)
}

func (c *Client) newRequest(ctx context.Context, token, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	request, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	return request, nil
}

func (c *Client) execute(request *http.Request, token, method, path string) (*envelope, error) {
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(responseBody, &env)

	if response.StatusCode < 200 || response.StatusCode > 299 || (decodeErr == nil && !env.Success) {
		apiErr := &APIError{StatusCode: response.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.Message
		}
		c.logger.Debug("api request rejected",
			"method", method, "path", path,
			"status", response.StatusCode, "message", apiErr.Message)
		if token != "" && response.StatusCode == http.StatusUnauthorized {
			c.notifyUnauthorized()
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s %s response: %w", method, path, decodeErr)
	}
	return &env, nil
}

// decodeData unmarshals the envelope's data field into out.
func decodeData(env *envelope, path string, out any) error {
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

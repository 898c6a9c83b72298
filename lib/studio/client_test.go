// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package studio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, body); err != nil {
		t.Fatalf("write response: %v", err)
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestLoginReturnsSession(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode login body: %v", err)
		}
		if body["email"] != "ops@fathomline.dev" || body["password"] != "hunter2" {
			t.Errorf("unexpected credentials: %v", body)
		}
		writeJSON(t, w, http.StatusOK, `{"success":true,"data":{"token":"tok-123"}}`)
	}))

	session, err := client.Login(context.Background(), "ops@fathomline.dev", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token() != "tok-123" {
		t.Errorf("token = %q, want tok-123", session.Token())
	}
}

func TestLoginBadCredentials(t *testing.T) {
	hookFired := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, `{"success":false,"message":"Invalid credentials"}`)
	}))
	client.SetUnauthorizedHook(func() { hookFired = true })

	_, err := client.Login(context.Background(), "ops@fathomline.dev", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Errorf("message = %q", apiErr.Message)
	}
	// A failed login is not an expired session: the request carried no
	// token, so the unauthorized hook must stay quiet.
	if hookFired {
		t.Error("unauthorized hook fired on a login failure")
	}
}

func TestUnauthorizedHookFiresForAuthenticatedRequest(t *testing.T) {
	hookCount := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, `{"success":false,"message":"jwt expired"}`)
	}))
	client.SetUnauthorizedHook(func() { hookCount++ })

	session := client.WithToken("stale-token")
	if _, err := session.Me(context.Background()); !IsUnauthorized(err) {
		t.Fatalf("Me error = %v, want unauthorized", err)
	}
	if hookCount != 1 {
		t.Errorf("hook fired %d times, want 1", hookCount)
	}
}

func TestMeDecodesUser(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		writeJSON(t, w, http.StatusOK,
			`{"success":true,"data":{"_id":"u1","name":"Nadia","email":"nadia@fathomline.dev","role":"SUPER_ADMIN"}}`)
	}))

	user, err := client.WithToken("tok-123").Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.ID != "u1" || user.Role != RoleSuperAdmin {
		t.Errorf("user = %+v", user)
	}
}

func TestEnvelopeFailureOnSuccessStatus(t *testing.T) {
	// The backend sometimes reports failure inside a 200. The client
	// must still surface it as a rejection.
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, `{"success":false,"message":"validation failed"}`)
	}))

	_, err := client.Blogs(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Message != "validation failed" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestCreateBlogSendsMultipart(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/blogs" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart body: %v", err)
		}
		for field, want := range map[string]string{
			"title":    "Shipping the redesign",
			"author":   "Nadia",
			"category": "Engineering",
			"content":  "# Hello\n",
		} {
			if got := r.FormValue(field); got != want {
				t.Errorf("field %s = %q, want %q", field, got, want)
			}
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "cover.png" {
			t.Errorf("filename = %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "png-bytes" {
			t.Errorf("file content = %q", content)
		}
		writeJSON(t, w, http.StatusCreated, `{"success":true,"data":{"_id":"b1"}}`)
	}))

	err := client.WithToken("tok").CreateBlog(context.Background(), BlogParams{
		Title:    "Shipping the redesign",
		Author:   "Nadia",
		Category: "Engineering",
		Content:  "# Hello\n",
		Cover:    &FileAttachment{Name: "cover.png", Reader: strings.NewReader("png-bytes")},
	})
	if err != nil {
		t.Fatalf("CreateBlog: %v", err)
	}
}

func TestUpdateBlogWithoutCoverOmitsFilePart(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/blogs/b1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart body: %v", err)
		}
		if _, _, err := r.FormFile("file"); err == nil {
			t.Error("file part present on a coverless update")
		}
		writeJSON(t, w, http.StatusOK, `{"success":true,"data":{"_id":"b1"}}`)
	}))

	err := client.WithToken("tok").UpdateBlog(context.Background(), "b1", BlogParams{
		Title: "Edited", Author: "Nadia", Category: "Engineering", Content: "body",
	})
	if err != nil {
		t.Fatalf("UpdateBlog: %v", err)
	}
}

func TestUpdateAdminOmitsBlankPassword(t *testing.T) {
	var rawBody []byte
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawBody, _ = io.ReadAll(r.Body)
		writeJSON(t, w, http.StatusOK, `{"success":true,"data":{"_id":"u2"}}`)
	}))
	session := client.WithToken("tok")

	err := session.UpdateAdmin(context.Background(), "u2", UpdateAdminParams{
		Name:  "Rui",
		Email: "rui@fathomline.dev",
	})
	if err != nil {
		t.Fatalf("UpdateAdmin: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if _, present := payload["password"]; present {
		t.Errorf("blank password must be omitted, payload = %s", rawBody)
	}

	err = session.UpdateAdmin(context.Background(), "u2", UpdateAdminParams{
		Name: "Rui", Email: "rui@fathomline.dev", Password: "new-secret",
	})
	if err != nil {
		t.Fatalf("UpdateAdmin with password: %v", err)
	}
	payload = nil
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["password"] != "new-secret" {
		t.Errorf("password missing from payload = %s", rawBody)
	}
}

func TestContactsPastEndIsEmptyNotError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "9" || r.URL.Query().Get("limit") != "15" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		writeJSON(t, w, http.StatusOK, `{"success":true,"data":[],"meta":{"total":17}}`)
	}))

	page, err := client.WithToken("tok").Contacts(context.Background(), 9, 15)
	if err != nil {
		t.Fatalf("Contacts: %v", err)
	}
	if len(page.Contacts) != 0 {
		t.Errorf("contacts = %d, want 0", len(page.Contacts))
	}
	if page.Total != 17 {
		t.Errorf("total = %d, want 17", page.Total)
	}
}

func TestDeleteMissingRecordIsNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, `{"success":false,"message":"Blog not found"}`)
	}))

	err := client.WithToken("tok").DeleteBlog(context.Background(), "gone")
	if !IsNotFound(err) {
		t.Fatalf("error = %v, want not-found", err)
	}
}

func TestNetworkErrorIsNotAPIError(t *testing.T) {
	client, err := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Blogs(context.Background())
	if err == nil {
		t.Fatal("expected a transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure decoded as *APIError: %v", err)
	}
}

// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package studio

import (
	"io"
	"time"
)

// Role is the access level of an authenticated user. The content API
// only issues tokens to the two admin roles; public visitors never
// authenticate.
type Role string

const (
	// RoleAdmin can manage content (blogs, portfolio, messages).
	RoleAdmin Role = "ADMIN"

	// RoleSuperAdmin can additionally manage other admin accounts.
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// User is the identity returned by the /auth/me endpoint.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Blog is a published article. Content is markdown; CoverImage is the
// URL the backend assigned to the uploaded cover file, if any.
type Blog struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Author     string    `json:"author"`
	Category   string    `json:"category"`
	Content    string    `json:"content"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Project is a portfolio entry. Technologies is an array on the wire;
// the admin form edits it as a comma-separated string.
type Project struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Client       string    `json:"client"`
	ProjectType  string    `json:"projectType"`
	Description  string    `json:"description"`
	LiveURL      string    `json:"liveUrl"`
	Technologies []string  `json:"technologies"`
	Image        string    `json:"image"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Admin is an administrator account as listed by /users/admins.
type Admin struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contact is a message submitted through the public contact form.
// Contacts are read-only from the admin side.
type Contact struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactPage is one page of contact messages plus the collection
// total the backend reports in meta.total. A page past the end of the
// collection is valid and comes back with an empty Contacts slice.
type ContactPage struct {
	Contacts []Contact
	Total    int
	Page     int
	PerPage  int
}

// FileAttachment is a file to upload alongside a multipart mutation.
// The reader is consumed exactly once, when the request body is built.
type FileAttachment struct {
	// Name is the client-side filename, used for the multipart part.
	Name string

	// Reader supplies the file content.
	Reader io.Reader
}

// BlogParams carries the writable fields of a blog for create and
// update. All text fields are required by the backend; Cover is
// optional and, when nil, leaves the existing cover image untouched
// on update.
type BlogParams struct {
	Title    string
	Author   string
	Category string
	Content  string
	Cover    *FileAttachment
}

// ProjectParams carries the writable fields of a portfolio project.
type ProjectParams struct {
	Title        string
	Client       string
	ProjectType  string
	Description  string
	LiveURL      string
	Technologies []string
	Image        *FileAttachment
}

// CreateAdminParams creates a new administrator account. Password is
// required here, unlike on update.
type CreateAdminParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateAdminParams updates an existing administrator. A blank
// Password omits the key from the payload entirely, which the backend
// interprets as "keep the current password". This is a distinct type
// from CreateAdminParams precisely so the omission rule cannot leak
// into account creation.
type UpdateAdminParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fathomline/studioctl/lib/session"
	"github.com/fathomline/studioctl/lib/studio"
	"github.com/fathomline/studioctl/lib/tui"
)

// CollectionDeps bundles what the concrete collections need: the API
// client for public reads, the session store for authenticated calls,
// and the page window for paginated screens.
type CollectionDeps struct {
	Client   *studio.Client
	Store    *session.Store
	PageSize int
	Theme    tui.Theme
}

// DefaultCollections returns the tab set for a user of the given
// role. The admins tab only exists for SUPER_ADMIN; the backend would
// reject a plain admin anyway, so the console does not dangle the
// screen in front of them.
func DefaultCollections(deps CollectionDeps, role studio.Role) []Collection {
	collections := []Collection{
		&BlogCollection{deps: deps},
		&PortfolioCollection{deps: deps},
	}
	if role == studio.RoleSuperAdmin {
		collections = append(collections, &AdminCollection{deps: deps})
	}
	return append(collections, &ContactCollection{deps: deps})
}

func (d CollectionDeps) session() (*studio.Session, error) {
	apiSession := d.Store.Session()
	if apiSession == nil {
		return nil, fmt.Errorf("not authenticated")
	}
	return apiSession, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("2006-01-02")
}

// BlogCollection adapts the blog articles.
type BlogCollection struct {
	deps CollectionDeps
}

func (c *BlogCollection) Name() string { return "Blogs" }
func (c *BlogCollection) PageSize() int { return 0 }

func (c *BlogCollection) Columns() []Column {
	return []Column{
		{Title: "Title", Weight: 4},
		{Title: "Category", Weight: 2},
		{Title: "Author", Weight: 2},
		{Title: "Published", Weight: 1},
	}
}

func (c *BlogCollection) Load(ctx context.Context, _ int) (Page, error) {
	blogs, err := c.deps.Client.Blogs(ctx)
	if err != nil {
		return Page{}, err
	}
	page := Page{TotalCount: len(blogs)}
	for _, blog := range blogs {
		page.Rows = append(page.Rows, Row{
			ID:     blog.ID,
			Cells:  []string{blog.Title, blog.Category, blog.Author, formatDate(blog.CreatedAt)},
			Record: blog,
		})
	}
	return page, nil
}

func (c *BlogCollection) Fields() []Field {
	return []Field{
		{Name: "title", Label: "Title", Kind: FieldText, Required: true},
		{Name: "author", Label: "Author", Kind: FieldText, Required: true},
		{Name: "category", Label: "Category", Kind: FieldText, Required: true},
		{Name: "content", Label: "Content", Kind: FieldMultiline, Required: true},
		{Name: "cover", Label: "Cover image path", Kind: FieldFile},
	}
}

func (c *BlogCollection) Seed(row Row) map[string]string {
	blog, ok := row.Record.(studio.Blog)
	if !ok {
		return nil
	}
	return map[string]string{
		"title":    blog.Title,
		"author":   blog.Author,
		"category": blog.Category,
		"content":  blog.Content,
	}
}

func blogParams(values map[string]string, attachment *studio.FileAttachment) studio.BlogParams {
	return studio.BlogParams{
		Title:    values["title"],
		Author:   values["author"],
		Category: values["category"],
		Content:  values["content"],
		Cover:    attachment,
	}
}

func (c *BlogCollection) Create(ctx context.Context, values map[string]string, attachment *studio.FileAttachment) error {
	apiSession, err := c.deps.session()
	if err != nil {
		return err
	}
	return apiSession.CreateBlog(ctx, blogParams(values, attachment))
}

func (c *BlogCollection) Update(ctx context.Context, id string, values map[string]string, attachment *studio.FileAttachment) error {
	apiSession, err := c.deps.session()
	if err != nil {
		return err
	}
	return apiSession.UpdateBlog(ctx, id, blogParams(values, attachment))
}

func (c *BlogCollection) Delete(ctx context.Context, id string) error {
	apiSession, err := c.deps.session()
	if err != nil {
		return err
	}
	return apiSession.DeleteBlog(ctx, id)
}

func (c *BlogCollection) Preview(row Row, width int) string {
	blog, ok := row.Record.(studio.Blog)
	if !ok {
		return ""
	}
	theme := c.deps.Theme
	header := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(blog.Title)
	meta := lipgloss.NewStyle().Foreground(theme.FaintText).Render(
		fmt.Sprintf("%s · %s · %s · /%s", blog.Author, blog.Category, formatDate(blog.CreatedAt), blog.Slug))
	return header + "\n" + meta + "\n\n" + renderMarkdown(blog.Content, width)
}

// PortfolioCollection adapts the portfolio projects.
type PortfolioCollection struct {
	deps CollectionDeps
}

func (c *PortfolioCollection) Name() string { return "Portfolio" }
func (c *PortfolioCollection) PageSize() int { return 0 }

func (c *PortfolioCollection) Columns() []Column {
	return []Column{
		{Title: "Title", Weight: 3},
		{Title: "Client", Weight: 2},
		{Title: "Type", Weight: 2},
		{Title: "Technologies", Weight: 3},
	}
}

func (c *PortfolioCollection) Load(ctx context.Context, _ int) (Page, error) {
	projects, err := c.deps.Client.Projects(ctx)
	if err != nil {
		return Page{}, err
	}
	page := Page{TotalCount: len(projects)}
	for _, project := range projects {
		page.Rows = append(page.Rows, Row{
			ID: project.ID,
			Cells: []string{
				project.Title,
				project.Client,
				project.ProjectType,
				strings.Join(project.Technologies, ", "),
			},
			Record: project,
		})
	}
	return page, nil
}

func (c *PortfolioCollection) Fields() []Field {
	return []Field{
		{Name: "title", Label: "Title", Kind: FieldText, Required: true},
		{Name: "client", Label: "Client", Kind: FieldText, Required: true},
		{Name: "projectType", Label: "Project type", Kind: FieldText, Required: true},
		{Name: "description", Label: "Description", Kind: FieldMultiline, Required: true},
		{Name: "liveUrl", Label: "Live URL", Kind: FieldText},
		{Name: "technologies", Label: "Technologies (comma-separated)", Kind: FieldText},
		{Name: "image", Label: "Showcase image path", Kind: FieldFile},
	}
}

func (c *PortfolioCollection) Seed(row Row) map[string]string {
	project, ok := row.Record.(studio.Project)
	if !ok {
		return nil
	}
	return map[string]string{
		"title":        project.Title,
		"client":       project.Client,
		"projectType":  project.ProjectType,
		"description":  project.Description,
		"liveUrl":      project.LiveURL,
		"technologies": strings.Join(project.Technologies, ", "),
	}
}

func projectParams(values map[string]string, attachment *studio.FileAttachment) studio.ProjectParams {
	var technologies []string
	for _, entry := range strings.Split(values["technologies"], ",") {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			technologies = append(technologies, trimmed)
		}
	}
	return studio.ProjectParams{
		Title:        values["title"],
		Client:       values["client"],
		ProjectType:  values["projectType"],
		Description:  values["description"],
		LiveURL:      values["liveUrl"],
		Technologies: technologies,
		Image:        attachment,
	}
}

func (c *PortfolioCollection) Create(ctx context.Context, values map[string]string, attachment *studio.FileAttachment) error {
	apiSession, err := c.deps.session()
	if err != nil {
		return err
	}
	return apiSession.CreateProject(ctx, projectParams(values, attachment))
}

func (c *PortfolioCollection) Update(ctx context.Context, id string, values map[string]string, attachment *studio.FileAttachment) error {
	apiSession, err := c.deps.session()
	if err != nil {
		return err
	}
	return apiSession.UpdateProject(ctx, id, projectParams(values, attachment))
}

func (c *PortfolioCollection) Delete(ctx context.Context, id string) error {
	apiSession, err := c.deps.session()
	if err != nil {
		return err
	}
	return apiSession.DeleteProject(ctx, id)
}

func (c *PortfolioCollection) Preview(row Row, width int) string {
	project, ok := row.Record.(studio.Project)
	if !ok {
		return ""
	}
	theme := c.deps.Theme
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(project.Title))
	b.WriteString("\n")
	b.WriteString(label.Render("Client: ") + project.Client + "\n")
	b.WriteString(label.Render("Type: ") + project.ProjectType + "\n")
	if project.LiveURL != "" {
		b.WriteString(label.Render("Live: ") + project.LiveURL + "\n")
	}
	if len(project.Technologies) > 0 {
		b.WriteString(label.Render("Stack: ") + strings.Join(project.Technologies, ", ") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(project.Description))
	return b.String()
}

// AdminCollection manages administrator accounts. Only constructed
// for SUPER_ADMIN sessions.
type AdminCollection struct {
	deps CollectionDeps
}

func (c *AdminCollection) Name() string { return "Admins" }
func (c *AdminCollection) PageSize() int { return 0 }

func (c *AdminCollection) Columns() []Column {
	return []Column{
		{Title: "Name", Weight: 2},
		{Title: "Email", Weight: 3},
		{Title: "Role", Weight: 1},
		{Title: "Created", Weight: 1},
	}
}

func (c *AdminCollection) Load(ctx context.Context, _ int) (Page, error) {
	apiSession, err := c.deps.session()
	if err != nil {
		return Page{}, err
	}
	admins, err := apiSession.Admins(ctx)
	if err != nil {
		return Page{}, err
	}
	page := Page{TotalCount: len(admins)}
	for _, admin := range admins {
		page.Rows = append(page.Rows, Row{
			ID:     admin.ID,
			Cells:  []string{admin.Name, admin.Email, string(admin.Role), formatDate(admin.CreatedAt)},
			Record: admin,
		})
	}
	return page, nil
}

func (c *AdminCollection) Fields() []Field {
	return []Field{
		{Name: "name", Label: "Name", Kind: FieldText, Required: true},
		{Name: "email", Label: "Email", Kind: FieldText, Required: true},
		{Name: "password", Label: "Password", Kind: FieldSecret, Required: true, KeepCurrentWhenBlank: true},
	}
}

func (c *AdminCollection) Seed(row Row) map[string]string {
	admin, ok := row.Record.(studio.Admin)
	if !ok {
		return nil
	}
	// Password intentionally absent: a blank password field on edit
	// means "keep the current one".
	return map[string]string{
		"name":  admin.Name,
		"email": admin.Email,
	}
}

func (c *AdminCollection) Create(ctx context.Context, values map[string]string, _ *studio.FileAttachment) error {
	apiSession, err := c.deps.session()
	if err != nil {
		return err
	}
	return apiSession.CreateAdmin(ctx, studio.CreateAdminParams{
		Name:     values["name"],
		Email:    values["email"],
		Password: values["password"],
	})
}

func (c *AdminCollection) Update(ctx context.Context, id string, values map[string]string, _ *studio.FileAttachment) error {
	apiSession, err := c.deps.session()
	if err != nil {
		return err
	}
	// A blank password leaves UpdateAdminParams.Password empty, and
	// omitempty keeps the key out of the payload entirely.
	return apiSession.UpdateAdmin(ctx, id, studio.UpdateAdminParams{
		Name:     values["name"],
		Email:    values["email"],
		Password: values["password"],
	})
}

func (c *AdminCollection) Delete(ctx context.Context, id string) error {
	apiSession, err := c.deps.session()
	if err != nil {
		return err
	}
	return apiSession.DeleteAdmin(ctx, id)
}

func (c *AdminCollection) Preview(Row, int) string { return "" }

// ContactCollection is the read-only, server-paginated messages
// screen.
type ContactCollection struct {
	deps CollectionDeps
}

func (c *ContactCollection) Name() string { return "Messages" }

func (c *ContactCollection) PageSize() int {
	if c.deps.PageSize > 0 {
		return c.deps.PageSize
	}
	return 15
}

func (c *ContactCollection) Columns() []Column {
	return []Column{
		{Title: "Date", Weight: 1},
		{Title: "Name", Weight: 2},
		{Title: "Email", Weight: 2},
		{Title: "Subject", Weight: 3},
	}
}

func (c *ContactCollection) Load(ctx context.Context, page int) (Page, error) {
	apiSession, err := c.deps.session()
	if err != nil {
		return Page{}, err
	}
	contacts, err := apiSession.Contacts(ctx, page, c.PageSize())
	if err != nil {
		return Page{}, err
	}
	result := Page{TotalCount: contacts.Total}
	for _, contact := range contacts.Contacts {
		result.Rows = append(result.Rows, Row{
			ID:     contact.ID,
			Cells:  []string{formatDate(contact.CreatedAt), contact.Name, contact.Email, contact.Subject},
			Record: contact,
		})
	}
	return result, nil
}

func (c *ContactCollection) Fields() []Field { return nil }
func (c *ContactCollection) Seed(Row) map[string]string { return nil }

func (c *ContactCollection) Create(context.Context, map[string]string, *studio.FileAttachment) error {
	return fmt.Errorf("messages are read-only")
}

func (c *ContactCollection) Update(context.Context, string, map[string]string, *studio.FileAttachment) error {
	return fmt.Errorf("messages are read-only")
}

func (c *ContactCollection) Delete(context.Context, string) error {
	return fmt.Errorf("messages are read-only")
}

func (c *ContactCollection) Preview(row Row, width int) string {
	contact, ok := row.Record.(studio.Contact)
	if !ok {
		return ""
	}
	theme := c.deps.Theme
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(contact.Subject))
	b.WriteString("\n")
	b.WriteString(label.Render("From: ") + fmt.Sprintf("%s <%s>", contact.Name, contact.Email) + "\n")
	b.WriteString(label.Render("Date: ") + formatDate(contact.CreatedAt) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(contact.Message))
	return b.String()
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the web server: the
// public site, the admin dashboard, login, and the token-guarded JSON API.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"emberpress/internal/cache"
	"emberpress/internal/models"
	"emberpress/internal/render"
	"emberpress/internal/slug"
	"emberpress/internal/storage"
	"emberpress/internal/store"
)

// Admin groups all admin dashboard HTTP handlers and their dependencies.
// The dashboard talks to the stores directly; it sits behind the session
// gate, not behind the API token. media, storageClient and pageCache may
// all be nil when the corresponding backend is not configured.
type Admin struct {
	renderer      *render.Renderer
	posts         *store.PostStore
	categories    *store.CategoryStore
	media         *store.MediaStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
	siteURL       string
	env           string
	totpEnabled   bool
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(
	renderer *render.Renderer,
	posts *store.PostStore,
	categories *store.CategoryStore,
	media *store.MediaStore,
	storageClient *storage.Client,
	pageCache *cache.PageCache,
	siteURL, env string,
	totpEnabled bool,
) *Admin {
	return &Admin{
		renderer:      renderer,
		posts:         posts,
		categories:    categories,
		media:         media,
		storageClient: storageClient,
		pageCache:     pageCache,
		siteURL:       siteURL,
		env:           env,
		totpEnabled:   totpEnabled,
	}
}

// dashboardRecentPosts is how many posts the dashboard lists.
const dashboardRecentPosts = 5

// invalidatePages clears the full-page cache after a content mutation.
func (a *Admin) invalidatePages(ctx context.Context) {
	if a.pageCache == nil {
		return
	}
	a.pageCache.InvalidateAll(ctx)
}

// Dashboard renders the admin dashboard with post and category counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.ListAll()
	if err != nil {
		slog.Error("dashboard post listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	categories, err := a.categories.List()
	if err != nil {
		slog.Error("dashboard category listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var published, drafts int
	for i := range posts {
		if posts[i].IsPublished() {
			published++
		} else {
			drafts++
		}
	}

	recent := posts
	if len(recent) > dashboardRecentPosts {
		recent = recent[:dashboardRecentPosts]
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"publishedCount": published,
			"draftCount":     drafts,
			"categoryCount":  len(categories),
			"recentPosts":    recent,
		},
	})
}

// Settings renders the read-only settings page.
func (a *Admin) Settings(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "settings", &render.PageData{
		Title:   "Settings",
		Section: "settings",
		Data: map[string]any{
			"siteURL":      a.siteURL,
			"env":          a.env,
			"cacheEnabled": a.pageCache != nil,
			"totpEnabled":  a.totpEnabled,
		},
	})
}

// ---- Posts ----

// PostsList renders the post management table, drafts included.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.ListAll()
	if err != nil {
		slog.Error("list posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	a.renderer.Page(w, r, "posts", &render.PageData{
		Title:   "Posts",
		Section: "posts",
		Data:    map[string]any{"posts": posts},
	})
}

// renderPostForm renders the post form, optionally with an error flash and
// the submitted values preserved.
func (a *Admin) renderPostForm(w http.ResponseWriter, r *http.Request, title, action string, post *models.Post, errMsg string) {
	categories, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var flashes []render.Flash
	if errMsg != "" {
		flashes = []render.Flash{{Type: "error", Message: errMsg}}
		w.WriteHeader(http.StatusUnprocessableEntity)
	}

	var tagsValue string
	if post != nil {
		tagsValue = strings.Join(post.Tags, ", ")
	}

	a.renderer.Page(w, r, "post_form", &render.PageData{
		Title:   title,
		Section: "posts",
		Flashes: flashes,
		Data: map[string]any{
			"post":       post,
			"categories": categories,
			"action":     action,
			"tagsValue":  tagsValue,
		},
	})
}

// PostNew renders the empty post form.
func (a *Admin) PostNew(w http.ResponseWriter, r *http.Request) {
	a.renderPostForm(w, r, "New post", "/admin/posts", nil, "")
}

// postForm collects the post fields from a submitted form.
type postForm struct {
	input models.PostInput
}

// parsePostForm reads the post fields out of a submitted form. The slug is
// generated from the title when left blank.
func parsePostForm(r *http.Request) postForm {
	title := strings.TrimSpace(r.FormValue("title"))
	slugVal := strings.TrimSpace(r.FormValue("slug"))
	if slugVal == "" {
		slugVal = slug.Generate(title)
	}

	status := models.PostStatus(r.FormValue("status"))
	if status != models.PostStatusPublished {
		status = models.PostStatusDraft
	}

	in := models.PostInput{
		Slug:             slugVal,
		Title:            title,
		Content:          r.FormValue("content"),
		SEOTitle:         optStr(r.FormValue("seo_title")),
		MetaDescription:  optStr(r.FormValue("meta_description")),
		Excerpt:          optStr(r.FormValue("excerpt")),
		FeaturedImageURL: optStr(r.FormValue("featured_image_url")),
		Tags:             parseTags(r.FormValue("tags")),
		Status:           status,
	}
	if id, err := uuid.Parse(r.FormValue("category_id")); err == nil {
		in.CategoryID = &id
	}
	return postForm{input: in}
}

// validate returns the first validation error message, or "".
func (f postForm) validate() string {
	in := f.input
	if msg := validatePost(in.Title, in.Slug, in.Content); msg != "" {
		return msg
	}
	if msg := validateSEO(deref(in.Excerpt), deref(in.MetaDescription)); msg != "" {
		return msg
	}
	return validateTags(in.Tags)
}

// asPost rebuilds a transient Post so a rejected form re-renders with the
// submitted values instead of losing them.
func (f postForm) asPost() *models.Post {
	in := f.input
	return &models.Post{
		Slug:             in.Slug,
		Title:            in.Title,
		SEOTitle:         in.SEOTitle,
		MetaDescription:  in.MetaDescription,
		Content:          in.Content,
		Excerpt:          in.Excerpt,
		FeaturedImageURL: in.FeaturedImageURL,
		CategoryID:       in.CategoryID,
		Tags:             in.Tags,
		Status:           in.Status,
	}
}

// asPatch converts the form into a full patch. HTML forms always submit
// every field, so every field is marked as supplied.
func (f postForm) asPatch() models.PostPatch {
	in := f.input
	return models.PostPatch{
		Slug:             models.Some(in.Slug),
		Title:            models.Some(in.Title),
		SEOTitle:         models.Some(in.SEOTitle),
		MetaDescription:  models.Some(in.MetaDescription),
		Content:          models.Some(in.Content),
		Excerpt:          models.Some(in.Excerpt),
		FeaturedImageURL: models.Some(in.FeaturedImageURL),
		CategoryID:       models.Some(in.CategoryID),
		Tags:             models.Some(in.Tags),
		Status:           models.Some(in.Status),
	}
}

// PostCreate handles the new-post form submission.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	form := parsePostForm(r)
	if msg := form.validate(); msg != "" {
		a.renderPostForm(w, r, "New post", "/admin/posts", form.asPost(), msg)
		return
	}

	created, err := a.posts.Create(form.input)
	if err != nil {
		if store.IsConflict(err) {
			a.renderPostForm(w, r, "New post", "/admin/posts", form.asPost(),
				"That slug is already in use by another post.")
			return
		}
		slog.Error("create post failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("post created", "id", created.ID, "slug", created.Slug, "status", created.Status)
	a.invalidatePages(r.Context())
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostEdit renders the edit form for an existing post.
func (a *Admin) PostEdit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	post, err := a.posts.FindByID(id)
	if err != nil {
		slog.Error("find post failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}

	a.renderPostForm(w, r, "Edit post", "/admin/posts/"+id.String(), post, "")
}

// PostUpdate handles the edit form submission.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	action := "/admin/posts/" + id.String()
	form := parsePostForm(r)
	if msg := form.validate(); msg != "" {
		p := form.asPost()
		p.ID = id
		a.renderPostForm(w, r, "Edit post", action, p, msg)
		return
	}

	updated, err := a.posts.Update(id, form.asPatch())
	if err != nil {
		switch {
		case store.IsNotFound(err):
			http.NotFound(w, r)
		case store.IsConflict(err):
			p := form.asPost()
			p.ID = id
			a.renderPostForm(w, r, "Edit post", action, p,
				"That slug is already in use by another post.")
		default:
			slog.Error("update post failed", "error", err, "id", id)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	slog.Info("post updated", "id", updated.ID, "slug", updated.Slug, "status", updated.Status)
	a.invalidatePages(r.Context())
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostDelete removes a post.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.posts.Delete(id); err != nil {
		slog.Error("delete post failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("post deleted", "id", id)
	a.invalidatePages(r.Context())
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// ---- Categories ----

// CategoriesList renders the category management table.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	a.renderer.Page(w, r, "categories", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data:    map[string]any{"categories": categories},
	})
}

// renderCategoryForm renders the category form, optionally with an error
// flash.
func (a *Admin) renderCategoryForm(w http.ResponseWriter, r *http.Request, title, action string, category *models.Category, errMsg string) {
	var flashes []render.Flash
	if errMsg != "" {
		flashes = []render.Flash{{Type: "error", Message: errMsg}}
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	a.renderer.Page(w, r, "category_form", &render.PageData{
		Title:   title,
		Section: "categories",
		Flashes: flashes,
		Data: map[string]any{
			"category": category,
			"action":   action,
		},
	})
}

// CategoryNew renders the empty category form.
func (a *Admin) CategoryNew(w http.ResponseWriter, r *http.Request) {
	a.renderCategoryForm(w, r, "New category", "/admin/categories", nil, "")
}

// parseCategoryForm reads the category fields out of a submitted form.
// The slug is generated from the name when left blank.
func parseCategoryForm(r *http.Request) models.CategoryInput {
	name := strings.TrimSpace(r.FormValue("name"))
	slugVal := strings.TrimSpace(r.FormValue("slug"))
	if slugVal == "" {
		slugVal = slug.Generate(name)
	}
	return models.CategoryInput{
		Slug:            slugVal,
		Name:            name,
		Description:     optStr(r.FormValue("description")),
		MetaTitle:       optStr(r.FormValue("meta_title")),
		MetaDescription: optStr(r.FormValue("meta_description")),
	}
}

// categoryFromInput rebuilds a transient Category for form re-rendering.
func categoryFromInput(in models.CategoryInput) *models.Category {
	return &models.Category{
		Slug:            in.Slug,
		Name:            in.Name,
		Description:     in.Description,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
	}
}

// CategoryCreate handles the new-category form submission.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	in := parseCategoryForm(r)
	if msg := validateCategory(in.Name, in.Slug); msg != "" {
		a.renderCategoryForm(w, r, "New category", "/admin/categories", categoryFromInput(in), msg)
		return
	}
	if msg := validateSEO("", deref(in.MetaDescription)); msg != "" {
		a.renderCategoryForm(w, r, "New category", "/admin/categories", categoryFromInput(in), msg)
		return
	}

	created, err := a.categories.Create(in)
	if err != nil {
		if store.IsConflict(err) {
			a.renderCategoryForm(w, r, "New category", "/admin/categories", categoryFromInput(in),
				"That slug is already in use by another category.")
			return
		}
		slog.Error("create category failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("category created", "id", created.ID, "slug", created.Slug)
	a.invalidatePages(r.Context())
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryEdit renders the edit form for an existing category.
func (a *Admin) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	category, err := a.categories.FindByID(id)
	if err != nil {
		slog.Error("find category failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if category == nil {
		http.NotFound(w, r)
		return
	}

	a.renderCategoryForm(w, r, "Edit category", "/admin/categories/"+id.String(), category, "")
}

// CategoryUpdate handles the edit form submission.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	action := "/admin/categories/" + id.String()
	in := parseCategoryForm(r)
	if msg := validateCategory(in.Name, in.Slug); msg != "" {
		c := categoryFromInput(in)
		c.ID = id
		a.renderCategoryForm(w, r, "Edit category", action, c, msg)
		return
	}

	patch := models.CategoryPatch{
		Slug:            models.Some(in.Slug),
		Name:            models.Some(in.Name),
		Description:     models.Some(in.Description),
		MetaTitle:       models.Some(in.MetaTitle),
		MetaDescription: models.Some(in.MetaDescription),
	}

	updated, err := a.categories.Update(id, patch)
	if err != nil {
		switch {
		case store.IsNotFound(err):
			http.NotFound(w, r)
		case store.IsConflict(err):
			c := categoryFromInput(in)
			c.ID = id
			a.renderCategoryForm(w, r, "Edit category", action, c,
				"That slug is already in use by another category.")
		default:
			slog.Error("update category failed", "error", err, "id", id)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	slog.Info("category updated", "id", updated.ID, "slug", updated.Slug)
	a.invalidatePages(r.Context())
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryDelete removes a category. Posts referencing it keep their
// dangling reference and render without a category.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.categories.Delete(id); err != nil {
		slog.Error("delete category failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("category deleted", "id", id)
	a.invalidatePages(r.Context())
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// ---- small form helpers ----

// optStr converts an empty form value to nil, anything else to a pointer.
func optStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// deref returns the string behind p, or "" for nil.
func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// parseTags splits a comma-separated tag field, trimming whitespace and
// dropping empties. Returns nil when no tags remain.
func parseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

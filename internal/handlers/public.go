// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"emberpress/internal/cache"
	"emberpress/internal/markdown"
	"emberpress/internal/models"
	"emberpress/internal/render"
	"emberpress/internal/store"
)

// Public groups handlers for the public-facing site: the marketing
// homepage, the blog, and the sitemap. Only published posts are ever
// visible here. Rendered pages go through the Valkey page cache when one
// is configured; pageCache may be nil.
type Public struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
	pageCache  *cache.PageCache
	siteURL    string
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, posts *store.PostStore, categories *store.CategoryStore, pageCache *cache.PageCache, siteURL string) *Public {
	return &Public{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		pageCache:  pageCache,
		siteURL:    siteURL,
	}
}

// homeRecentPosts is how many posts the homepage teaser shows.
const homeRecentPosts = 3

// serveCached writes a cache hit and reports whether it did.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if p.pageCache == nil {
		return false
	}
	cached, ok := p.pageCache.Get(r.Context(), key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(cached)
	return true
}

// serveAndCache writes rendered HTML and stores it under key when a cache
// is configured.
func (p *Public) serveAndCache(w http.ResponseWriter, r *http.Request, key string, html []byte) {
	if p.pageCache != nil {
		p.pageCache.Set(r.Context(), key, html)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// Home renders the marketing homepage with a teaser of recent posts.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	if p.serveCached(w, r, cache.HomeKey()) {
		return
	}

	recent, _, err := p.posts.ListPublished(homeRecentPosts, "")
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := p.renderer.PublicHTML("home", &render.PublicData{
		Title:           "You Can Just Generate Things — AI Video Generation",
		MetaDescription: "Turn your assets into finished AI-generated videos. Drop your files, approve the storyboard, and publish.",
		Canonical:       p.siteURL + "/",
		SiteURL:         p.siteURL,
		Data:            map[string]any{"recentPosts": recent},
	})
	if err != nil {
		slog.Error("render home failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.serveAndCache(w, r, cache.HomeKey(), html)
}

// BlogIndex renders the paginated blog listing. Only the first page is
// cached; cursor continuations are served straight from the store.
func (p *Public) BlogIndex(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")

	if cursor == "" && p.serveCached(w, r, cache.BlogIndexKey()) {
		return
	}

	posts, nextCursor, err := p.posts.ListPublished(store.DefaultListLimit, cursor)
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	categories, err := p.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := p.renderer.PublicHTML("blog", &render.PublicData{
		Title:           "Blog — YCJGT",
		MetaDescription: "AI video generation, social commerce, and the creator economy.",
		Canonical:       p.siteURL + "/blog",
		SiteURL:         p.siteURL,
		Data: map[string]any{
			"posts":      posts,
			"categories": categories,
			"nextCursor": nextCursor,
		},
	})
	if err != nil {
		slog.Error("render blog index failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if cursor == "" {
		p.serveAndCache(w, r, cache.BlogIndexKey(), html)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// BlogPost renders a single published post. Drafts 404 here no matter how
// direct the link is.
func (p *Public) BlogPost(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	if p.serveCached(w, r, cache.PostKey(slugParam)) {
		return
	}

	post, err := p.posts.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find post by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil || !post.IsPublished() {
		http.NotFound(w, r)
		return
	}

	contentHTML, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Error("markdown render failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	title := post.Title
	if post.SEOTitle != nil && *post.SEOTitle != "" {
		title = *post.SEOTitle
	}
	var metaDesc string
	if post.MetaDescription != nil {
		metaDesc = *post.MetaDescription
	} else if post.Excerpt != nil {
		metaDesc = *post.Excerpt
	}
	var ogImage string
	if post.FeaturedImageURL != nil {
		ogImage = *post.FeaturedImageURL
	}

	html, err := p.renderer.PublicHTML("blog_post", &render.PublicData{
		Title:           title,
		MetaDescription: metaDesc,
		Canonical:       p.siteURL + "/blog/" + post.Slug,
		SiteURL:         p.siteURL,
		OGImage:         ogImage,
		OGType:          "article",
		Data: map[string]any{
			"post":        post,
			"contentHTML": contentHTML,
		},
	})
	if err != nil {
		slog.Error("render post failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.serveAndCache(w, r, cache.PostKey(slugParam), html)
}

// BlogCategory renders the archive of published posts in one category.
// An unknown category slug is a 404; a known category with no posts is an
// empty archive page.
func (p *Public) BlogCategory(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	if p.serveCached(w, r, cache.CategoryKey(slugParam)) {
		return
	}

	category, err := p.categories.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find category by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if category == nil {
		http.NotFound(w, r)
		return
	}

	posts, _, err := p.posts.ListByCategory(category.ID)
	if err != nil {
		slog.Error("list posts by category failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	title := category.Name + " — YCJGT Blog"
	if category.MetaTitle != nil && *category.MetaTitle != "" {
		title = *category.MetaTitle
	}
	var metaDesc string
	if category.MetaDescription != nil {
		metaDesc = *category.MetaDescription
	} else if category.Description != nil {
		metaDesc = *category.Description
	}

	html, err := p.renderer.PublicHTML("blog_category", &render.PublicData{
		Title:           title,
		MetaDescription: metaDesc,
		Canonical:       p.siteURL + "/blog/category/" + category.Slug,
		SiteURL:         p.siteURL,
		Data: map[string]any{
			"category": category,
			"posts":    posts,
		},
	})
	if err != nil {
		slog.Error("render category failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.serveAndCache(w, r, cache.CategoryKey(slugParam), html)
}

// Sitemap serves the XML sitemap: the homepage, the blog index, every
// category, and every published post with its last modification time.
func (p *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	if p.pageCache != nil {
		if cached, ok := p.pageCache.Get(r.Context(), cache.SitemapKey()); ok {
			w.Header().Set("Content-Type", "application/xml; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	postSlugs, err := p.posts.ListPublishedSlugs()
	if err != nil {
		slog.Error("list published slugs failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	catSlugs, err := p.categories.ListSlugs()
	if err != nil {
		slog.Error("list category slugs failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	xml := buildSitemap(p.siteURL, postSlugs, catSlugs, time.Now())

	if p.pageCache != nil {
		p.pageCache.Set(r.Context(), cache.SitemapKey(), xml)
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(xml)
}

// buildSitemap assembles the sitemap XML. Slugs are URL-safe by
// construction, so no escaping is needed beyond the fixed markup.
func buildSitemap(siteURL string, posts []models.PostSlug, categories []models.CategorySlug, now time.Time) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")

	writeURL := func(loc, lastmod, changefreq, priority string) {
		b.WriteString("  <url>\n")
		b.WriteString("    <loc>" + loc + "</loc>\n")
		if lastmod != "" {
			b.WriteString("    <lastmod>" + lastmod + "</lastmod>\n")
		}
		b.WriteString("    <changefreq>" + changefreq + "</changefreq>\n")
		b.WriteString("    <priority>" + priority + "</priority>\n")
		b.WriteString("  </url>\n")
	}

	today := now.UTC().Format("2006-01-02")
	writeURL(siteURL+"/", today, "weekly", "1.0")
	writeURL(siteURL+"/blog", today, "daily", "0.8")
	for _, c := range categories {
		writeURL(siteURL+"/blog/category/"+c.Slug, "", "weekly", "0.6")
	}
	for _, p := range posts {
		writeURL(siteURL+"/blog/"+p.Slug, p.UpdatedAt.UTC().Format("2006-01-02"), "monthly", "0.7")
	}

	b.WriteString("</urlset>\n")
	return []byte(b.String())
}

// RobotsTxt allows everything except the admin area and points crawlers
// at the sitemap.
func (p *Public) RobotsTxt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("User-agent: *\nDisallow: /admin\n\nSitemap: " + p.siteURL + "/sitemap.xml\n"))
}

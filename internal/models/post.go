// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is a blog post. CategoryID is a weak reference: it may point to a
// category that no longer exists, and read paths must tolerate that.
//
// PublishedAt is set the first time the post transitions into published
// status and is never cleared afterwards, even if the post is reverted to
// draft and published again.
type Post struct {
	ID               uuid.UUID  `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	SEOTitle         *string    `json:"seoTitle,omitempty"`
	MetaDescription  *string    `json:"metaDescription,omitempty"`
	Content          string     `json:"content"`
	Excerpt          *string    `json:"excerpt,omitempty"`
	FeaturedImageURL *string    `json:"featuredImageUrl,omitempty"`
	CategoryID       *uuid.UUID `json:"categoryId,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	Status           PostStatus `json:"status"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	// Category is the resolved category record, populated by store reads
	// that join. Nil when unset or dangling.
	Category *Category `json:"category,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostInput carries the fields accepted when creating a post.
type PostInput struct {
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	SEOTitle         *string    `json:"seoTitle,omitempty"`
	MetaDescription  *string    `json:"metaDescription,omitempty"`
	Content          string     `json:"content"`
	Excerpt          *string    `json:"excerpt,omitempty"`
	FeaturedImageURL *string    `json:"featuredImageUrl,omitempty"`
	CategoryID       *uuid.UUID `json:"categoryId,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	Status           PostStatus `json:"status"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
}

// PostPatch is a partial update. Unset fields are left untouched; pointer
// fields supplied as nil clear the stored value. Supplying Status as
// published on a post that was not published back-fills PublishedAt unless
// an explicit PublishedAt is part of the same patch.
type PostPatch struct {
	Slug             Optional[string]      `json:"slug"`
	Title            Optional[string]      `json:"title"`
	SEOTitle         Optional[*string]     `json:"seoTitle"`
	MetaDescription  Optional[*string]     `json:"metaDescription"`
	Content          Optional[string]      `json:"content"`
	Excerpt          Optional[*string]     `json:"excerpt"`
	FeaturedImageURL Optional[*string]     `json:"featuredImageUrl"`
	CategoryID       Optional[*uuid.UUID]  `json:"categoryId"`
	Tags             Optional[[]string]    `json:"tags"`
	Status           Optional[PostStatus]  `json:"status"`
	PublishedAt      Optional[*time.Time]  `json:"publishedAt"`
}

// PostSlug is the (slug, updatedAt) projection used for sitemap enumeration
// of published posts.
type PostSlug struct {
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updatedAt"`
}

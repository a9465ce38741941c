// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups blog posts under a public URL segment. Posts hold a weak
// reference to at most one category; deleting a category leaves those
// references dangling.
type Category struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	MetaTitle       *string   `json:"metaTitle,omitempty"`
	MetaDescription *string   `json:"metaDescription,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CategoryInput carries the fields accepted when creating a category.
type CategoryInput struct {
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	MetaTitle       *string `json:"metaTitle,omitempty"`
	MetaDescription *string `json:"metaDescription,omitempty"`
}

// CategoryPatch is a partial update. Unset fields are left untouched;
// pointer fields supplied as nil clear the stored value.
type CategoryPatch struct {
	Slug            Optional[string]  `json:"slug"`
	Name            Optional[string]  `json:"name"`
	Description     Optional[*string] `json:"description"`
	MetaTitle       Optional[*string] `json:"metaTitle"`
	MetaDescription Optional[*string] `json:"metaDescription"`
}

// CategorySlug is the lightweight projection used for sitemap enumeration.
type CategorySlug struct {
	Slug string `json:"slug"`
}

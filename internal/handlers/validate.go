package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for post and category form fields.
const (
	maxTitleLen    = 300
	maxSlugLen     = 300
	maxContentLen  = 100_000
	maxExcerptLen  = 1_000
	maxMetaDescLen = 500
	maxNameLen     = 200
	maxTags        = 20
)

// validatePost checks post form inputs and returns the first error found.
func validatePost(title, slug, content string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateSEO checks optional SEO metadata fields shared by posts and
// categories.
func validateSEO(excerpt, metaDesc string) string {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(metaDesc) > maxMetaDescLen {
		return "Meta description is too long (max 500 characters)."
	}
	return ""
}

// validateCategory checks category form inputs and returns the first error found.
func validateCategory(name, slug string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	return ""
}

// validateTags rejects absurd tag lists; individual tags reuse the name limit.
func validateTags(tags []string) string {
	if len(tags) > maxTags {
		return "Too many tags (max 20)."
	}
	for _, t := range tags {
		if utf8.RuneCountInString(t) > maxNameLen {
			return "A tag is too long (max 200 characters)."
		}
	}
	return ""
}

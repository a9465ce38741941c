// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"emberpress/internal/models"
)

// DefaultListLimit is the page size for published listings when the caller
// does not supply one.
const DefaultListLimit = 20

// PostStore manages blog posts in the database. Reads resolve the post's
// category through a left join; a dangling category reference simply yields
// a nil Category.
type PostStore struct {
	db *sql.DB
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postSelect = `
	SELECT p.id, p.slug, p.title, p.seo_title, p.meta_description, p.content,
	       p.excerpt, p.featured_image_url, p.category_id, p.tags, p.status,
	       p.published_at, p.created_at, p.updated_at,
	       c.id, c.slug, c.name, c.description, c.meta_title, c.meta_description,
	       c.created_at, c.updated_at
	FROM posts p
	LEFT JOIN categories c ON c.id = p.category_id`

// scanPost scans a joined post row, materializing the category when present.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var tags []byte
	var catID uuid.NullUUID
	var catSlug, catName sql.NullString
	var catDesc, catMetaTitle, catMetaDesc sql.NullString
	var catCreated, catUpdated sql.NullTime

	err := scanner.Scan(
		&p.ID, &p.Slug, &p.Title, &p.SEOTitle, &p.MetaDescription, &p.Content,
		&p.Excerpt, &p.FeaturedImageURL, &p.CategoryID, &tags, &p.Status,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&catID, &catSlug, &catName, &catDesc, &catMetaTitle, &catMetaDesc,
		&catCreated, &catUpdated,
	)
	if err != nil {
		return nil, err
	}

	if tags != nil {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}

	if catID.Valid {
		cat := &models.Category{
			ID:        catID.UUID,
			Slug:      catSlug.String,
			Name:      catName.String,
			CreatedAt: catCreated.Time,
			UpdatedAt: catUpdated.Time,
		}
		if catDesc.Valid {
			cat.Description = &catDesc.String
		}
		if catMetaTitle.Valid {
			cat.MetaTitle = &catMetaTitle.String
		}
		if catMetaDesc.Valid {
			cat.MetaDescription = &catMetaDesc.String
		}
		p.Category = cat
	}

	return &p, nil
}

// encodeTags serializes a tag list for the jsonb column. Nil stays NULL so
// "no tags supplied" round-trips as nil.
func encodeTags(tags []string) (any, error) {
	if tags == nil {
		return nil, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return b, nil
}

// FindBySlug retrieves a post by slug with its category resolved. Returns
// nil if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.slug = $1`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// FindByID retrieves a post by ID with its category resolved. Returns nil
// if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// collectPosts drains joined rows into a slice.
func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()
	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ListPublished returns up to limit published posts ordered by publish
// recency descending, each with its category resolved. The returned cursor
// is opaque; pass it back to fetch the next page, empty means no more.
// A malformed cursor restarts from the most recent post.
func (s *PostStore) ListPublished(limit int, cursor string) ([]models.Post, string, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var rows *sql.Rows
	var err error
	if after, afterID, ok := parseCursor(cursor); ok {
		rows, err = s.db.Query(postSelect+`
			WHERE p.status = 'published' AND (p.published_at, p.id) < ($1, $2)
			ORDER BY p.published_at DESC, p.id DESC
			LIMIT $3`, after, afterID, limit)
	} else {
		rows, err = s.db.Query(postSelect+`
			WHERE p.status = 'published'
			ORDER BY p.published_at DESC, p.id DESC
			LIMIT $1`, limit)
	}
	if err != nil {
		return nil, "", fmt.Errorf("list published posts: %w", err)
	}

	items, err := collectPosts(rows)
	if err != nil {
		return nil, "", err
	}

	var next string
	if len(items) == limit {
		last := items[len(items)-1]
		if last.PublishedAt != nil {
			next = encodeCursor(*last.PublishedAt, last.ID)
		}
	}
	return items, next, nil
}

// ListByCategory returns all published posts referencing the category,
// ordered by publish recency descending, together with the category record
// itself. The category may be nil even when posts is empty — callers must
// check both.
func (s *PostStore) ListByCategory(categoryID uuid.UUID) ([]models.Post, *models.Category, error) {
	rows, err := s.db.Query(postSelect+`
		WHERE p.category_id = $1 AND p.status = 'published'
		ORDER BY p.published_at DESC, p.id DESC`, categoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("list posts by category: %w", err)
	}

	items, err := collectPosts(rows)
	if err != nil {
		return nil, nil, err
	}

	var category *models.Category
	if len(items) > 0 {
		category = items[0].Category
	} else {
		row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, categoryID)
		category, err = scanCategory(row)
		if err == sql.ErrNoRows {
			category = nil
		} else if err != nil {
			return nil, nil, fmt.Errorf("find category for listing: %w", err)
		}
	}
	return items, category, nil
}

// ListAll returns every post regardless of status, most recently created
// first, each with its category resolved. Drafts have no publish timestamp,
// so the admin view orders by insertion recency instead.
func (s *PostStore) ListAll() ([]models.Post, error) {
	rows, err := s.db.Query(postSelect + ` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all posts: %w", err)
	}
	return collectPosts(rows)
}

// ListPublishedSlugs returns (slug, updatedAt) for every published post.
// Used for sitemap generation.
func (s *PostStore) ListPublishedSlugs() ([]models.PostSlug, error) {
	rows, err := s.db.Query(`
		SELECT slug, updated_at FROM posts
		WHERE status = 'published'
		ORDER BY published_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list published slugs: %w", err)
	}
	defer rows.Close()

	var items []models.PostSlug
	for rows.Next() {
		var ps models.PostSlug
		if err := rows.Scan(&ps.Slug, &ps.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post slug: %w", err)
		}
		items = append(items, ps)
	}
	return items, rows.Err()
}

// slugTaken reports whether a post other than excludeID already uses slug.
func (s *PostStore) slugTaken(slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID == nil {
		err = s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	} else {
		err = s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`, slug, *excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new post and returns it with its category resolved.
// Fails with ConflictError if the slug is already in use. A post created as
// published gets its publish timestamp stamped to the creation time unless
// an explicit one is supplied; drafts leave it unset.
func (s *PostStore) Create(in models.PostInput) (*models.Post, error) {
	taken, err := s.slugTaken(in.Slug, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &ConflictError{Slug: in.Slug}
	}

	publishedAt := in.PublishedAt
	if in.Status == models.PostStatusPublished && publishedAt == nil {
		now := time.Now()
		publishedAt = &now
	}

	tags, err := encodeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	err = s.db.QueryRow(`
		INSERT INTO posts (slug, title, seo_title, meta_description, content,
		                   excerpt, featured_image_url, category_id, tags,
		                   status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		in.Slug, in.Title, in.SEOTitle, in.MetaDescription, in.Content,
		in.Excerpt, in.FeaturedImageURL, in.CategoryID, tags,
		in.Status, publishedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Slug: in.Slug}
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	return s.FindByID(id)
}

// Update applies a partial patch to an existing post. Fails with
// NotFoundError if the id is unknown and ConflictError if the slug is being
// changed to one used by a different post. updated_at is restamped on every
// update. Transitioning into published status back-fills published_at with
// the current time unless the same patch supplies one explicitly; a post
// that is already published keeps its original publish timestamp.
func (s *PostStore) Update(id uuid.UUID, patch models.PostPatch) (*models.Post, error) {
	existing, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &NotFoundError{Entity: "post", ID: id}
	}

	if patch.Slug.Valid && patch.Slug.Value != existing.Slug {
		taken, err := s.slugTaken(patch.Slug.Value, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &ConflictError{Slug: patch.Slug.Value}
		}
	}

	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Slug.Valid {
		set("slug", patch.Slug.Value)
	}
	if patch.Title.Valid {
		set("title", patch.Title.Value)
	}
	if patch.SEOTitle.Valid {
		set("seo_title", patch.SEOTitle.Value)
	}
	if patch.MetaDescription.Valid {
		set("meta_description", patch.MetaDescription.Value)
	}
	if patch.Content.Valid {
		set("content", patch.Content.Value)
	}
	if patch.Excerpt.Valid {
		set("excerpt", patch.Excerpt.Value)
	}
	if patch.FeaturedImageURL.Valid {
		set("featured_image_url", patch.FeaturedImageURL.Value)
	}
	if patch.CategoryID.Valid {
		set("category_id", patch.CategoryID.Value)
	}
	if patch.Tags.Valid {
		tags, err := encodeTags(patch.Tags.Value)
		if err != nil {
			return nil, err
		}
		set("tags", tags)
	}
	if patch.Status.Valid {
		set("status", patch.Status.Value)
	}
	if patch.PublishedAt.Valid {
		set("published_at", patch.PublishedAt.Value)
	} else if patch.Status.Valid &&
		patch.Status.Value == models.PostStatusPublished &&
		existing.Status != models.PostStatusPublished {
		// First transition into published: stamp the publish time.
		set("published_at", time.Now())
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE posts SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args),
	)

	if _, err := s.db.Exec(query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Slug: patch.Slug.Value}
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	return s.FindByID(id)
}

// Delete removes a post by ID. No existence check.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// encodeCursor packs a publish timestamp and id into an opaque page cursor.
func encodeCursor(t time.Time, id uuid.UUID) string {
	return strconv.FormatInt(t.UnixMicro(), 10) + "_" + id.String()
}

// parseCursor unpacks a page cursor. ok is false for empty or malformed input.
func parseCursor(cursor string) (time.Time, uuid.UUID, bool) {
	if cursor == "" {
		return time.Time{}, uuid.Nil, false
	}
	sep := strings.IndexByte(cursor, '_')
	if sep < 1 {
		return time.Time{}, uuid.Nil, false
	}
	micros, err := strconv.ParseInt(cursor[:sep], 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, false
	}
	id, err := uuid.Parse(cursor[sep+1:])
	if err != nil {
		return time.Time{}, uuid.Nil, false
	}
	return time.UnixMicro(micros), id, true
}

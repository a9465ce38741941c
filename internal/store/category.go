// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"emberpress/internal/models"
)

// CategoryStore manages blog categories in the database. It is the leaf
// store: it has no knowledge of posts, and deleting a category never touches
// the posts that reference it.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, slug, name, description, meta_title, meta_description, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Slug, &c.Name, &c.Description,
		&c.MetaTitle, &c.MetaDescription, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories in insertion order.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a category by its slug. Returns nil if not found;
// not-found is a normal outcome, not an error.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// ListSlugs returns the slug of every category, for sitemap enumeration.
func (s *CategoryStore) ListSlugs() ([]models.CategorySlug, error) {
	rows, err := s.db.Query(`SELECT slug FROM categories ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list category slugs: %w", err)
	}
	defer rows.Close()

	var items []models.CategorySlug
	for rows.Next() {
		var cs models.CategorySlug
		if err := rows.Scan(&cs.Slug); err != nil {
			return nil, fmt.Errorf("scan category slug: %w", err)
		}
		items = append(items, cs)
	}
	return items, rows.Err()
}

// slugTaken reports whether a category other than excludeID already uses slug.
func (s *CategoryStore) slugTaken(slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID == nil {
		err = s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1)`, slug).Scan(&exists)
	} else {
		err = s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`, slug, *excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new category and returns it. Fails with ConflictError if
// the slug is already in use.
func (s *CategoryStore) Create(in models.CategoryInput) (*models.Category, error) {
	taken, err := s.slugTaken(in.Slug, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &ConflictError{Slug: in.Slug}
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (slug, name, description, meta_title, meta_description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		in.Slug, in.Name, in.Description, in.MetaTitle, in.MetaDescription,
	)
	result, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Slug: in.Slug}
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update applies a partial patch to an existing category. Fails with
// NotFoundError if the id is unknown and ConflictError if the slug is being
// changed to one used by a different category. Omitted fields are untouched.
func (s *CategoryStore) Update(id uuid.UUID, patch models.CategoryPatch) (*models.Category, error) {
	existing, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &NotFoundError{Entity: "category", ID: id}
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
	if patch.Name.Valid {
		set("name", patch.Name.Value)
	}
	if patch.Description.Valid {
		set("description", patch.Description.Value)
	}
	if patch.MetaTitle.Valid {
		set("meta_title", patch.MetaTitle.Value)
	}
	if patch.MetaDescription.Valid {
		set("meta_description", patch.MetaDescription.Value)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE categories SET %s WHERE id = $%d RETURNING `+categoryColumns,
		strings.Join(sets, ", "), len(args),
	)

	result, err := scanCategory(s.db.QueryRow(query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Slug: patch.Slug.Value}
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return result, nil
}

// Delete removes a category by ID. Deletion is unconditional: no existence
// check, and posts referencing the category keep their dangling reference.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"starbiz/internal/models"
)

// ItemFilter narrows item listings. Zero values match everything.
type ItemFilter struct {
	Category  string
	Published *bool
}

// ItemStore handles content_items rows: the courses, books, or packs of a
// single vertical.
type ItemStore struct {
	db *sql.DB
}

// NewItemStore creates a new ItemStore with the given database connection.
func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

const itemColumns = `id, kind, title, slug, description, cover_url, category,
	is_published, published_at, created_at`

func scanItem(scanner interface{ Scan(...any) error }) (*models.ContentItem, error) {
	c := &models.ContentItem{}
	err := scanner.Scan(
		&c.ID, &c.Kind, &c.Title, &c.Slug, &c.Description, &c.CoverURL, &c.Category,
		&c.IsPublished, &c.PublishedAt, &c.CreatedAt,
	)
	return c, err
}

// List returns items matching the filter, newest first.
func (s *ItemStore) List(ctx context.Context, f ItemFilter) ([]models.ContentItem, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Published != nil {
		args = append(args, *f.Published)
		where = append(where, fmt.Sprintf("is_published = $%d", len(args)))
	}

	query := `SELECT ` + itemColumns + ` FROM content_items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		c, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves an item by its UUID. Returns nil if not found.
func (s *ItemStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	c, err := scanItem(s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM content_items WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item by id: %w", err)
	}
	return c, nil
}

// Create inserts a new item and returns it with the generated ID.
func (s *ItemStore) Create(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error) {
	result, err := scanItem(s.db.QueryRowContext(ctx, `
		INSERT INTO content_items (kind, title, slug, description, cover_url, category,
		                           is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+itemColumns,
		c.Kind, c.Title, c.Slug, c.Description, c.CoverURL, c.Category,
		c.IsPublished, c.PublishedAt,
	))
	if err != nil {
		if isUniqueViolation(err, "content_items_slug_key") {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create item: %w", err)
	}
	return result, nil
}

// Update writes every editable field of an existing item.
func (s *ItemStore) Update(ctx context.Context, c *models.ContentItem) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE content_items SET
			title = $1, slug = $2, description = $3, cover_url = $4,
			category = $5, is_published = $6, published_at = $7
		WHERE id = $8
	`, c.Title, c.Slug, c.Description, c.CoverURL,
		c.Category, c.IsPublished, c.PublishedAt, c.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "content_items_slug_key") {
			return ErrSlugTaken
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete removes an item. Units, materials, and notifications cascade.
func (s *ItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

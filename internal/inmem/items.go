// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"starbiz/internal/models"
	"starbiz/internal/store"
)

// ItemStore is the in-memory content_items table.
type ItemStore struct{ db *DB }

// NewItemStore returns the item table of db.
func NewItemStore(db *DB) *ItemStore { return &ItemStore{db: db} }

// List returns the items matching f, newest first.
func (s *ItemStore) List(_ context.Context, f store.ItemFilter) ([]models.ContentItem, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("items.list"); err != nil {
		return nil, err
	}

	var out []models.ContentItem
	for _, c := range s.db.items {
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if f.Published != nil && c.IsPublished != *f.Published {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// FindByID returns the item, or nil when it does not exist.
func (s *ItemStore) FindByID(_ context.Context, id uuid.UUID) (*models.ContentItem, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("items.find"); err != nil {
		return nil, err
	}
	return clone(s.db.items[id]), nil
}

func (s *ItemStore) slugTaken(slug string, except uuid.UUID) bool {
	for _, c := range s.db.items {
		if c.Slug == slug && c.ID != except {
			return true
		}
	}
	return false
}

// Create inserts c with a fresh id and timestamps.
func (s *ItemStore) Create(_ context.Context, c *models.ContentItem) (*models.ContentItem, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("items.create"); err != nil {
		return nil, err
	}
	if s.slugTaken(c.Slug, uuid.Nil) {
		return nil, store.ErrSlugTaken
	}

	row := *c
	row.ID = uuid.New()
	row.CreatedAt = time.Now()
	row.UnitCount = 0
	s.db.items[row.ID] = &row
	return clone(&row), nil
}

// Update replaces the stored item with c.
func (s *ItemStore) Update(_ context.Context, c *models.ContentItem) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("items.update"); err != nil {
		return err
	}
	row, ok := s.db.items[c.ID]
	if !ok {
		return nil
	}
	if s.slugTaken(c.Slug, c.ID) {
		return store.ErrSlugTaken
	}
	row.Title = c.Title
	row.Slug = c.Slug
	row.Description = c.Description
	row.CoverURL = c.CoverURL
	row.Category = c.Category
	row.IsPublished = c.IsPublished
	row.PublishedAt = c.PublishedAt
	return nil
}

// Delete removes the item and cascades to its units, materials, and
// notifications.
func (s *ItemStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("items.delete"); err != nil {
		return err
	}
	delete(s.db.items, id)
	for uid, u := range s.db.units {
		if u.ContentID == id {
			s.db.dropUnit(uid)
		}
	}
	kept := s.db.notifications[:0]
	for _, n := range s.db.notifications {
		if n.ContentID != id {
			kept = append(kept, n)
		}
	}
	s.db.notifications = kept
	return nil
}

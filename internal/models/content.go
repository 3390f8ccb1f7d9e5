// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemKind names the top-level publishable unit of a vertical.
type ItemKind string

const (
	ItemKindCourse ItemKind = "course"
	ItemKindBook   ItemKind = "book"
	ItemKindPack   ItemKind = "pack"
)

// ContentItem is a course, book, or audio pack. Every save writes all
// fields back; PublishedAt is stamped on the first publish and kept after.
type ContentItem struct {
	ID          uuid.UUID  `json:"id"`
	Kind        ItemKind   `json:"kind"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	CoverURL    *string    `json:"cover_url"`
	Category    string     `json:"category"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`

	// Virtual field populated by list queries.
	UnitCount int `json:"unit_count"`
}

// Publish flips the item to published, stamping PublishedAt the first time.
func (c *ContentItem) Publish(now time.Time) {
	c.IsPublished = true
	if c.PublishedAt == nil {
		c.PublishedAt = &now
	}
}

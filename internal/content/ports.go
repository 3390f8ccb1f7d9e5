// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"io"

	"github.com/google/uuid"

	"starbiz/internal/models"
	"starbiz/internal/store"
)

// ItemStore persists content items. Lookups return (nil, nil) when the row
// does not exist.
type ItemStore interface {
	List(ctx context.Context, f store.ItemFilter) ([]models.ContentItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)
	Create(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error)
	Update(ctx context.Context, c *models.ContentItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UnitStore persists child units and owns their positions.
type UnitStore interface {
	Create(ctx context.Context, u *models.Unit) (*models.Unit, error)
	Update(ctx context.Context, u *models.Unit) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	ListByContent(ctx context.Context, contentID uuid.UUID) ([]models.Unit, error)
	ListSiblings(ctx context.Context, u *models.Unit) ([]models.Unit, error)
	Subtree(ctx context.Context, id uuid.UUID) ([]models.Unit, error)
	CountByContent(ctx context.Context) (map[uuid.UUID]int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Swap(ctx context.Context, a, b uuid.UUID) error
}

// MaterialStore persists unit materials.
type MaterialStore interface {
	Create(ctx context.Context, m *models.Material) (*models.Material, error)
	Update(ctx context.Context, m *models.Material) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Material, error)
	ListByUnit(ctx context.Context, unitID uuid.UUID) ([]models.Material, error)
	ListBySubtree(ctx context.Context, unitID uuid.UUID) ([]models.Material, error)
	ListByContent(ctx context.Context, contentID uuid.UUID) ([]models.Material, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Blobs is the object storage of a vertical.
type Blobs interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
	Owns(url string) bool
}

// Notifier fans a newly published item out to the vertical's audience.
// It never fails the caller.
type Notifier interface {
	NotifyAudience(ctx context.Context, item *models.ContentItem)
}

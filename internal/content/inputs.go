// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"github.com/google/uuid"

	"starbiz/internal/media"
	"starbiz/internal/models"
)

// ItemInput carries the editable fields of a content item.
type ItemInput struct {
	Title       string  `json:"title" validate:"required,max=300"`
	Slug        string  `json:"slug" validate:"omitempty,max=300"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Category    string  `json:"category" validate:"required"`
	IsPublished bool    `json:"is_published"`
}

// UnitInput carries the fields of a child unit. Kind and ParentID are only
// read on create.
type UnitInput struct {
	Kind            models.UnitKind  `json:"kind" validate:"required"`
	ParentID        *uuid.UUID       `json:"parent_id"`
	Title           string           `json:"title" validate:"required,max=300"`
	Description     *string          `json:"description" validate:"omitempty,max=5000"`
	Body            *string          `json:"body"`
	DurationSeconds *int             `json:"duration_seconds" validate:"omitempty,min=0"`
	Criteria        *models.Criteria `json:"criteria"`
}

// MaterialInput carries the fields of a material.
type MaterialInput struct {
	Type        models.MaterialType `json:"type" validate:"required,oneof=pdf image video audio link"`
	Title       string              `json:"title" validate:"required,max=300"`
	ExternalURL string              `json:"external_url" validate:"omitempty,url"`
}

// FileDelta is the three-way change to a stored file: replace it with New,
// clear it, or keep it (both zero).
type FileDelta struct {
	New   *media.Upload
	Clear bool
}

// Keep reports whether the delta leaves the file untouched.
func (d FileDelta) Keep() bool {
	return d.New == nil && !d.Clear
}

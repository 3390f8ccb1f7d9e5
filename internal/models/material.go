// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// MaterialType is the kind of supplementary resource attached to a unit.
type MaterialType string

const (
	MaterialTypePDF   MaterialType = "pdf"
	MaterialTypeImage MaterialType = "image"
	MaterialTypeVideo MaterialType = "video"
	MaterialTypeAudio MaterialType = "audio"
	MaterialTypeLink  MaterialType = "link"
)

// Valid reports whether t is one of the known material types.
func (t MaterialType) Valid() bool {
	switch t {
	case MaterialTypePDF, MaterialTypeImage, MaterialTypeVideo, MaterialTypeAudio, MaterialTypeLink:
		return true
	}
	return false
}

// IsLink reports whether materials of type t carry an external URL
// instead of a stored file.
func (t MaterialType) IsLink() bool {
	return t == MaterialTypeLink
}

// Material is a file or link attached to exactly one unit. Exactly one of
// FileURL and ExternalURL is set: ExternalURL for links, FileURL otherwise.
type Material struct {
	ID          uuid.UUID    `json:"id"`
	UnitID      uuid.UUID    `json:"unit_id"`
	Type        MaterialType `json:"type"`
	Title       string       `json:"title"`
	FileURL     *string      `json:"file_url"`
	ExternalURL *string      `json:"external_url"`
	CreatedAt   time.Time    `json:"created_at"`
}

// IsLink reports whether the material points to an external resource.
func (m *Material) IsLink() bool {
	return m.Type.IsLink()
}

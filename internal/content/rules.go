// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"slices"

	"starbiz/internal/models"
	"starbiz/internal/storage"
)

// Rules describes the content shape of one vertical.
type Rules struct {
	Vertical   string
	ItemKind   models.ItemKind
	Categories []string
	Units      []UnitPolicy
}

// UnitPolicy describes one unit kind of a vertical.
type UnitPolicy struct {
	Kind models.UnitKind
	// ParentKind is the kind of the required parent unit. Empty means the
	// unit hangs directly off the item.
	ParentKind   models.UnitKind
	File         models.FileField
	FileRequired bool
	Criteria     bool // exam criteria required
	Numbered     bool // carries a 1-based number that follows its position
	Materials    bool
	Body         bool // accepts a Markdown body
}

// HasCategory reports whether c is valid for the vertical.
func (r Rules) HasCategory(c string) bool {
	return slices.Contains(r.Categories, c)
}

// Policy returns the policy for a unit kind.
func (r Rules) Policy(kind models.UnitKind) (UnitPolicy, bool) {
	for _, p := range r.Units {
		if p.Kind == kind {
			return p, true
		}
	}
	return UnitPolicy{}, false
}

// folderFor maps a unit file field to its bucket folder.
func folderFor(f models.FileField) string {
	if f == models.FileFieldAudio {
		return storage.FolderAudios
	}
	return storage.FolderVideos
}

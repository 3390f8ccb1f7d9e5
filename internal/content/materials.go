// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"starbiz/internal/media"
	"starbiz/internal/models"
	"starbiz/internal/storage"
)

// ListMaterials returns the materials of a unit.
func (c *Collection) ListMaterials(ctx context.Context, unitID uuid.UUID) ([]models.Material, error) {
	if _, err := c.loadUnit(ctx, unitID); err != nil {
		return nil, err
	}
	items, err := c.deps.Materials.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, persistErr("list materials", err)
	}
	return items, nil
}

// validateMaterial checks the source rule: links carry an external URL and
// no file, every other type carries a file and no external URL.
func validateMaterial(in *MaterialInput, hasFile bool) error {
	in.Title = strings.TrimSpace(in.Title)
	in.ExternalURL = strings.TrimSpace(in.ExternalURL)

	errs := fieldErrors(checkStruct(in))
	if in.Type.IsLink() {
		if in.ExternalURL == "" {
			errs.add("external_url", "is required for links")
		}
		if hasFile {
			errs.add("file", "is not accepted for links")
		}
	} else if in.Type.Valid() {
		if in.ExternalURL != "" {
			errs.add("external_url", "is only accepted for links")
		}
		if !hasFile {
			errs.add("file", "a "+string(in.Type)+" file is required")
		}
	}
	return errs.err()
}

// AddMaterial attaches a file or link to a unit. The file is uploaded
// first; if the insert then fails the new blob is deleted.
func (c *Collection) AddMaterial(ctx context.Context, unitID uuid.UUID, in MaterialInput, file *media.Upload) (*models.Material, error) {
	unit, err := c.loadUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if p, _ := c.rules.Policy(unit.Kind); !p.Materials {
		return nil, newValidationError("unit_id", string(unit.Kind)+" units do not accept materials")
	}
	if err := validateMaterial(&in, file != nil); err != nil {
		return nil, err
	}

	m := &models.Material{UnitID: unitID, Type: in.Type, Title: in.Title}
	if m.IsLink() {
		m.ExternalURL = strPtr(in.ExternalURL)
	} else {
		policy, _ := media.ForMaterial(in.Type)
		f, err := inspect("file", file, policy)
		if err != nil {
			return nil, err
		}
		url, err := c.upload(ctx, storage.FolderMaterials, unitID.String(), f)
		if err != nil {
			return nil, err
		}
		m.FileURL = &url
	}

	created, err := c.deps.Materials.Create(ctx, m)
	if err != nil {
		c.discard(ctx, m.FileURL)
		return nil, persistErr("create material", err)
	}
	return created, nil
}

// UpdateMaterial changes a material's type, title, or source. Switching
// between file types needs a new file since the stored one was checked
// against the old type.
func (c *Collection) UpdateMaterial(ctx context.Context, id uuid.UUID, in MaterialInput, file FileDelta) (*models.Material, error) {
	current, err := c.deps.Materials.FindByID(ctx, id)
	if err != nil {
		return nil, persistErr("load material", err)
	}
	if current == nil {
		return nil, ErrNotFound
	}

	keepsFile := file.Keep() && current.FileURL != nil && current.Type == in.Type
	if err := validateMaterial(&in, file.New != nil || keepsFile); err != nil {
		return nil, err
	}

	updated := *current
	updated.Type = in.Type
	updated.Title = in.Title

	var stale *string
	if updated.IsLink() {
		updated.ExternalURL = strPtr(in.ExternalURL)
		updated.FileURL = nil
		stale = current.FileURL
	} else {
		updated.ExternalURL = nil
		if file.New != nil {
			policy, _ := media.ForMaterial(in.Type)
			f, err := inspect("file", file.New, policy)
			if err != nil {
				return nil, err
			}
			url, err := c.upload(ctx, storage.FolderMaterials, current.UnitID.String(), f)
			if err != nil {
				return nil, err
			}
			updated.FileURL = &url
			stale = current.FileURL
		}
	}

	if err := c.deps.Materials.Update(ctx, &updated); err != nil {
		if file.New != nil {
			c.discard(ctx, updated.FileURL)
		}
		return nil, persistErr("update material", err)
	}

	c.discard(ctx, stale)
	return &updated, nil
}

// DeleteMaterial removes a material and then its owned blob.
func (c *Collection) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	current, err := c.deps.Materials.FindByID(ctx, id)
	if err != nil {
		return persistErr("load material", err)
	}
	if current == nil {
		return ErrNotFound
	}
	if err := c.deps.Materials.Delete(ctx, id); err != nil {
		return persistErr("delete material", err)
	}
	c.discard(ctx, current.FileURL)
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"starbiz/internal/media"
	"starbiz/internal/models"
)

// Collection manages the ordered child units of items and their materials.
type Collection struct {
	workflow
}

// NewCollection creates a Collection for one vertical.
func NewCollection(rules Rules, deps Deps) *Collection {
	return &Collection{workflow{rules: rules, deps: deps}}
}

func (c *Collection) loadUnit(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	u, err := c.deps.Units.FindByID(ctx, id)
	if err != nil {
		return nil, persistErr("load unit", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (c *Collection) policyFor(kind models.UnitKind) (UnitPolicy, error) {
	p, ok := c.rules.Policy(kind)
	if !ok {
		return UnitPolicy{}, newValidationError("kind", "is not valid for "+c.rules.Vertical)
	}
	return p, nil
}

// ListUnits returns every unit of an item ordered by scope and position.
func (c *Collection) ListUnits(ctx context.Context, itemID uuid.UUID) ([]models.Unit, error) {
	item, err := c.deps.Items.FindByID(ctx, itemID)
	if err != nil {
		return nil, persistErr("load item", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	units, err := c.deps.Units.ListByContent(ctx, itemID)
	if err != nil {
		return nil, persistErr("list units", err)
	}
	return units, nil
}

// GetUnit returns one unit.
func (c *Collection) GetUnit(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	return c.loadUnit(ctx, id)
}

// validateUnit checks the input against the kind's policy. fileAfter
// reports whether the unit will hold a file once the request is applied.
func (c *Collection) validateUnit(in *UnitInput, p UnitPolicy, fileAfter bool) error {
	in.Title = strings.TrimSpace(in.Title)

	errs := fieldErrors(checkStruct(in))
	if p.FileRequired && !fileAfter {
		errs.add("file", "a "+string(p.File)+" file is required")
	}
	if p.Criteria {
		if in.Criteria == nil {
			errs.add("criteria", requiredText)
		} else if err := in.Criteria.Validate(); err != nil {
			errs.add("criteria", err.Error())
		}
	} else if in.Criteria != nil {
		errs.add("criteria", "is not accepted for "+string(p.Kind))
	}
	if !p.Body && in.Body != nil {
		errs.add("body", "is not accepted for "+string(p.Kind))
	}
	return errs.err()
}

// CreateChild appends a unit to its sibling set. Units that carry a file
// are created in two phases: the row is inserted to obtain its id, the file
// is uploaded under that id, and the row is updated with the URL. If the
// upload fails the row stays without a file and the caller receives it
// together with the StorageError.
func (c *Collection) CreateChild(ctx context.Context, itemID uuid.UUID, in UnitInput, file *media.Upload) (*models.Unit, error) {
	p, err := c.policyFor(in.Kind)
	if err != nil {
		return nil, err
	}
	if file != nil && p.File == models.FileFieldNone {
		return nil, newValidationError("file", "is not accepted for "+string(p.Kind))
	}
	if err := c.validateUnit(&in, p, file != nil); err != nil {
		return nil, err
	}

	item, err := c.deps.Items.FindByID(ctx, itemID)
	if err != nil {
		return nil, persistErr("load item", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}

	if err := c.checkParent(ctx, itemID, in.ParentID, p); err != nil {
		return nil, err
	}

	var f *media.File
	if file != nil {
		policy, _ := media.ForField(p.File)
		if f, err = inspect("file", file, policy); err != nil {
			return nil, err
		}
	}

	u := &models.Unit{
		ContentID:       itemID,
		ParentID:        in.ParentID,
		Kind:            p.Kind,
		Title:           in.Title,
		Description:     in.Description,
		Body:            in.Body,
		DurationSeconds: in.DurationSeconds,
		Criteria:        in.Criteria,
	}
	if p.Numbered {
		u.Number = new(int)
	}

	created, err := c.deps.Units.Create(ctx, u)
	if err != nil {
		return nil, persistErr("create unit", err)
	}
	slog.Info("unit created", "vertical", c.rules.Vertical, "id", created.ID, "kind", created.Kind)

	if f == nil {
		return created, nil
	}

	url, err := c.upload(ctx, folderFor(p.File), created.ID.String(), f)
	if err != nil {
		return created, err
	}
	created.SetFileURL(p.File, &url)
	if err := c.deps.Units.Update(ctx, created); err != nil {
		c.discard(ctx, &url)
		created.SetFileURL(p.File, nil)
		return created, persistErr("attach unit file", err)
	}
	return created, nil
}

// checkParent enforces the parent kind of the policy: the parent must be
// a unit of the same item with the expected kind, or absent for top-level
// kinds.
func (c *Collection) checkParent(ctx context.Context, itemID uuid.UUID, parentID *uuid.UUID, p UnitPolicy) error {
	if p.ParentKind == "" {
		if parentID != nil {
			return newValidationError("parent_id", "must be empty for "+string(p.Kind))
		}
		return nil
	}
	if parentID == nil {
		return newValidationError("parent_id", "a "+string(p.ParentKind)+" is required")
	}
	parent, err := c.deps.Units.FindByID(ctx, *parentID)
	if err != nil {
		return persistErr("load parent unit", err)
	}
	if parent == nil || parent.ContentID != itemID || parent.Kind != p.ParentKind {
		return newValidationError("parent_id", "must be a "+string(p.ParentKind)+" of this item")
	}
	return nil
}

// UpdateChild applies the input and file delta to a unit. Kind and parent
// are fixed at creation.
func (c *Collection) UpdateChild(ctx context.Context, id uuid.UUID, in UnitInput, file FileDelta) (*models.Unit, error) {
	current, err := c.loadUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := c.policyFor(current.Kind)
	if err != nil {
		return nil, err
	}
	in.Kind = current.Kind

	if !file.Keep() && p.File == models.FileFieldNone {
		return nil, newValidationError("file", "is not accepted for "+string(p.Kind))
	}
	fileAfter := file.New != nil || (!file.Clear && current.FileURL(p.File) != nil)
	if err := c.validateUnit(&in, p, fileAfter); err != nil {
		return nil, err
	}

	next, stale := current.FileURL(p.File), (*string)(nil)
	if p.File != models.FileFieldNone {
		policy, _ := media.ForField(p.File)
		next, stale, err = c.replaceFile(ctx, "file", folderFor(p.File), id.String(),
			current.FileURL(p.File), file, policy)
		if err != nil {
			return nil, err
		}
	}

	updated := *current
	updated.Title = in.Title
	updated.Description = in.Description
	updated.Body = in.Body
	updated.DurationSeconds = in.DurationSeconds
	updated.Criteria = in.Criteria
	updated.SetFileURL(p.File, next)

	if err := c.deps.Units.Update(ctx, &updated); err != nil {
		if file.New != nil {
			c.discard(ctx, next)
		}
		return nil, persistErr("update unit", err)
	}

	c.discard(ctx, stale)
	return &updated, nil
}

// DeleteChild deletes a unit with its descendants and materials in one
// record store call, closes the gap in its sibling set, and then deletes
// every owned blob the removed rows referenced. Each blob delete is
// independent; failures are logged and do not stop the rest.
func (c *Collection) DeleteChild(ctx context.Context, id uuid.UUID) error {
	if _, err := c.loadUnit(ctx, id); err != nil {
		return err
	}
	subtree, err := c.deps.Units.Subtree(ctx, id)
	if err != nil {
		return persistErr("list unit subtree", err)
	}
	materials, err := c.deps.Materials.ListBySubtree(ctx, id)
	if err != nil {
		return persistErr("list unit materials", err)
	}

	if err := c.deps.Units.Delete(ctx, id); err != nil {
		return persistErr("delete unit", err)
	}

	for _, u := range subtree {
		for _, url := range u.FileURLs() {
			c.discard(ctx, &url)
		}
	}
	for _, m := range materials {
		c.discard(ctx, m.FileURL)
	}

	slog.Info("unit deleted", "vertical", c.rules.Vertical, "id", id,
		"descendants", len(subtree)-1, "materials", len(materials))
	return nil
}

// Move swaps a unit with its neighbour in dir and returns the sibling set
// in its new order. Moving past either end is a no-op. The swap is a single
// atomic store operation.
func (c *Collection) Move(ctx context.Context, id uuid.UUID, dir Direction) ([]models.Unit, error) {
	current, err := c.loadUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	siblings, err := c.deps.Units.ListSiblings(ctx, current)
	if err != nil {
		return nil, persistErr("list siblings", err)
	}

	i := -1
	for k := range siblings {
		if siblings[k].ID == id {
			i = k
			break
		}
	}
	j, ok := SwapAdjacent(len(siblings), i, dir)
	if !ok {
		return siblings, nil
	}

	if err := c.deps.Units.Swap(ctx, siblings[i].ID, siblings[j].ID); err != nil {
		return nil, persistErr("swap units", err)
	}

	SwapPositions(&siblings[i], &siblings[j])
	siblings[i], siblings[j] = siblings[j], siblings[i]
	return siblings, nil
}

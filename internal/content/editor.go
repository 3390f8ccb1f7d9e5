// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content implements the publishing workflow of a vertical: item
// create/update/delete with cover handling, the ordered child units and
// their materials, and the publish-triggered audience fan-out.
package content

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"starbiz/internal/media"
	"starbiz/internal/models"
	"starbiz/internal/slug"
	"starbiz/internal/storage"
	"starbiz/internal/store"
)

// Editor creates, updates, and deletes the content items of a vertical.
type Editor struct {
	workflow
}

// NewEditor creates an Editor for one vertical.
func NewEditor(rules Rules, deps Deps) *Editor {
	return &Editor{workflow{rules: rules, deps: deps}}
}

// List returns the items matching f with their unit counts.
func (e *Editor) List(ctx context.Context, f store.ItemFilter) ([]models.ContentItem, error) {
	items, err := e.deps.Items.List(ctx, f)
	if err != nil {
		return nil, persistErr("list items", err)
	}
	counts, err := e.deps.Units.CountByContent(ctx)
	if err != nil {
		return nil, persistErr("count units", err)
	}
	for i := range items {
		items[i].UnitCount = counts[items[i].ID]
	}
	return items, nil
}

// Get returns one item with its unit count.
func (e *Editor) Get(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	item, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	units, err := e.deps.Units.ListByContent(ctx, id)
	if err != nil {
		return nil, persistErr("list units", err)
	}
	item.UnitCount = len(units)
	return item, nil
}

func (e *Editor) load(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	item, err := e.deps.Items.FindByID(ctx, id)
	if err != nil {
		return nil, persistErr("load item", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

func (e *Editor) validateItem(in *ItemInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Category = strings.TrimSpace(in.Category)

	errs := fieldErrors(checkStruct(in))
	if in.Category != "" && !e.rules.HasCategory(in.Category) {
		errs.add("category", "must be one of "+strings.Join(e.rules.Categories, ", "))
	}
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Title)
	} else {
		in.Slug = slug.Generate(in.Slug)
	}
	if in.Title != "" && in.Slug == "" {
		errs.add("slug", "cannot be derived from the title")
	}
	return errs.err()
}

// Create validates the input, uploads the cover (if any) under a temporary
// owner, inserts the item, and notifies the audience when it is created
// already published. A failed cover upload aborts before any insert.
func (e *Editor) Create(ctx context.Context, in ItemInput, cover *media.Upload) (*models.ContentItem, error) {
	if err := e.validateItem(&in); err != nil {
		return nil, err
	}

	var coverURL *string
	if cover != nil {
		f, err := inspect("cover", cover, media.Cover)
		if err != nil {
			return nil, err
		}
		url, err := e.upload(ctx, storage.FolderThumbnails, storage.TempOwner(), f)
		if err != nil {
			return nil, err
		}
		coverURL = &url
	}

	item := &models.ContentItem{
		Kind:        e.rules.ItemKind,
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		CoverURL:    coverURL,
		Category:    in.Category,
	}
	if in.IsPublished {
		item.Publish(e.now())
	}

	created, err := e.deps.Items.Create(ctx, item)
	if err != nil {
		e.discard(ctx, coverURL)
		if errors.Is(err, store.ErrSlugTaken) {
			return nil, newValidationError("slug", "is already in use")
		}
		return nil, persistErr("create item", err)
	}

	slog.Info("item created", "vertical", e.rules.Vertical, "id", created.ID, "published", created.IsPublished)

	if created.IsPublished {
		e.notify(ctx, created)
	}
	return created, nil
}

// Update applies the input and cover delta to an existing item. The
// replacement cover is uploaded before the save and the previous one is
// deleted only after it. The audience is notified when this request flips
// the item from unpublished to published, judged against the row loaded at
// the start of the request.
func (e *Editor) Update(ctx context.Context, id uuid.UUID, in ItemInput, cover FileDelta) (*models.ContentItem, error) {
	if err := e.validateItem(&in); err != nil {
		return nil, err
	}

	current, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	wasPublished := current.IsPublished

	coverURL, stale, err := e.replaceFile(ctx, "cover", storage.FolderThumbnails, id.String(),
		current.CoverURL, cover, media.Cover)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Title = in.Title
	updated.Slug = in.Slug
	updated.Description = in.Description
	updated.Category = in.Category
	updated.CoverURL = coverURL
	if in.IsPublished {
		updated.Publish(e.now())
	} else {
		updated.IsPublished = false
	}

	if err := e.deps.Items.Update(ctx, &updated); err != nil {
		if cover.New != nil {
			e.discard(ctx, coverURL)
		}
		if errors.Is(err, store.ErrSlugTaken) {
			return nil, newValidationError("slug", "is already in use")
		}
		return nil, persistErr("update item", err)
	}

	e.discard(ctx, stale)

	if !wasPublished && updated.IsPublished {
		e.notify(ctx, &updated)
	}
	return &updated, nil
}

// Delete removes an item with its units and materials, then deletes every
// owned blob they referenced. Blob deletes are independent and best-effort.
func (e *Editor) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := e.load(ctx, id)
	if err != nil {
		return err
	}
	units, err := e.deps.Units.ListByContent(ctx, id)
	if err != nil {
		return persistErr("list units", err)
	}
	materials, err := e.deps.Materials.ListByContent(ctx, id)
	if err != nil {
		return persistErr("list materials", err)
	}

	if err := e.deps.Items.Delete(ctx, id); err != nil {
		return persistErr("delete item", err)
	}

	e.discard(ctx, item.CoverURL)
	for _, u := range units {
		for _, url := range u.FileURLs() {
			e.discard(ctx, &url)
		}
	}
	for _, m := range materials {
		e.discard(ctx, m.FileURL)
	}

	slog.Info("item deleted", "vertical", e.rules.Vertical, "id", id,
		"units", len(units), "materials", len(materials))
	return nil
}

// notify runs the fan-out detached from the request so a client that goes
// away does not cut it short.
func (e *Editor) notify(ctx context.Context, item *models.ContentItem) {
	if e.deps.Notifier == nil {
		return
	}
	e.deps.Notifier.NotifyAudience(context.WithoutCancel(ctx), item)
}

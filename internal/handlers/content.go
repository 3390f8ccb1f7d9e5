// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"starbiz/internal/cache"
	"starbiz/internal/content"
	"starbiz/internal/markdown"
	"starbiz/internal/models"
	"starbiz/internal/store"
	"starbiz/internal/vertical"
)

// Content serves the item, unit, and material endpoints of every vertical
// under /api/{vertical}.
type Content struct {
	verticals *vertical.Registry
	stats     *cache.StatsCache
}

// NewContent creates the content handler group.
func NewContent(verticals *vertical.Registry, stats *cache.StatsCache) *Content {
	return &Content{verticals: verticals, stats: stats}
}

type backendKey struct{}

// Vertical resolves the {vertical} URL parameter and answers 404 for an
// unknown vertical.
func (h *Content) Vertical(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, ok := h.verticals.Get(chi.URLParam(r, "vertical"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown vertical")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), backendKey{}, b)))
	})
}

func backendOf(r *http.Request) *vertical.Backend {
	return r.Context().Value(backendKey{}).(*vertical.Backend)
}

// mutation returns a context that survives the client going away, so a
// save that has started always runs to completion.
func mutation(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (h *Content) changed(ctx context.Context, b *vertical.Backend) {
	h.stats.Invalidate(ctx, b.Def.Key)
}

// unitView is a unit as returned by the API, with its Markdown body
// rendered to HTML.
type unitView struct {
	models.Unit
	BodyHTML *string `json:"body_html"`
}

func viewUnit(u *models.Unit) *unitView {
	if u == nil {
		return nil
	}
	return &unitView{Unit: *u, BodyHTML: markdown.Body(u.Body)}
}

func viewUnits(units []models.Unit) []unitView {
	out := make([]unitView, 0, len(units))
	for i := range units {
		out = append(out, *viewUnit(&units[i]))
	}
	return out
}

// ---------- Items ----------

// ListItems handles GET /items?category=&published=.
func (h *Content) ListItems(w http.ResponseWriter, r *http.Request) {
	b := backendOf(r)
	f := store.ItemFilter{Category: r.URL.Query().Get("category")}
	if v := r.URL.Query().Get("published"); v != "" {
		p, err := strconv.ParseBool(v)
		if err != nil {
			invalid(w, "published", "must be true or false")
			return
		}
		f.Published = &p
	}

	items, err := b.Editor.List(r.Context(), f)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetItem handles GET /items/{id}.
func (h *Content) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := backendOf(r).Editor.Get(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /items with the optional "cover" file.
func (h *Content) CreateItem(w http.ResponseWriter, r *http.Request) {
	b := backendOf(r)
	f, err := parseForm(w, r)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	defer f.Close()

	in, err := itemInput(f)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	cover, err := f.file("cover")
	if err != nil {
		invalid(w, "cover", "could not be read")
		return
	}

	ctx := mutation(r)
	item, err := b.Editor.Create(ctx, in, cover)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.changed(ctx, b)
	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /items/{id}. A new "cover" replaces the current
// one; clear_cover=true removes it.
func (h *Content) UpdateItem(w http.ResponseWriter, r *http.Request) {
	b := backendOf(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f, err := parseForm(w, r)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	defer f.Close()

	in, err := itemInput(f)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	cover, fe := f.delta("cover", "clear_cover")
	if fe != nil {
		invalid(w, fe.Field, fe.Error)
		return
	}

	ctx := mutation(r)
	item, err := b.Editor.Update(ctx, id, in, cover)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.changed(ctx, b)
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /items/{id}.
func (h *Content) DeleteItem(w http.ResponseWriter, r *http.Request) {
	b := backendOf(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ctx := mutation(r)
	if err := b.Editor.Delete(ctx, id); err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.changed(ctx, b)
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Units ----------

// ListUnits handles GET /items/{id}/units.
func (h *Content) ListUnits(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	units, err := backendOf(r).Collection.ListUnits(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewUnits(units))
}

// GetUnit handles GET /units/{id}.
func (h *Content) GetUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := backendOf(r).Collection.GetUnit(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewUnit(u))
}

// CreateUnit handles POST /items/{id}/units with the optional "file" part.
// When the row was created but its file could not be stored, the response
// is 502 and carries the created unit.
func (h *Content) CreateUnit(w http.ResponseWriter, r *http.Request) {
	b := backendOf(r)
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f, err := parseForm(w, r)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	defer f.Close()

	in, err := unitInput(f)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	file, err := f.file("file")
	if err != nil {
		invalid(w, "file", "could not be read")
		return
	}

	ctx := mutation(r)
	u, err := b.Collection.CreateChild(ctx, itemID, in, file)
	if u != nil {
		h.changed(ctx, b)
	}
	if err != nil {
		body := errorBodyOf(err)
		if u != nil {
			body.Unit = viewUnit(u)
		}
		writeJSON(w, statusOf(err), body)
		return
	}
	writeJSON(w, http.StatusCreated, viewUnit(u))
}

// UpdateUnit handles PUT /units/{id}. A new "file" replaces the current
// one; clear_file=true removes it.
func (h *Content) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	b := backendOf(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f, err := parseForm(w, r)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	defer f.Close()

	in, err := unitInput(f)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	file, fe := f.delta("file", "clear_file")
	if fe != nil {
		invalid(w, fe.Field, fe.Error)
		return
	}

	ctx := mutation(r)
	u, err := b.Collection.UpdateChild(ctx, id, in, file)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.changed(ctx, b)
	writeJSON(w, http.StatusOK, viewUnit(u))
}

// DeleteUnit handles DELETE /units/{id}.
func (h *Content) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	b := backendOf(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ctx := mutation(r)
	if err := b.Collection.DeleteChild(ctx, id); err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.changed(ctx, b)
	w.WriteHeader(http.StatusNoContent)
}

// MoveUnit handles POST /units/{id}/move with direction=up|down and
// returns the sibling set in its new order.
func (h *Content) MoveUnit(w http.ResponseWriter, r *http.Request) {
	b := backendOf(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	dir, err := content.ParseDirection(r.FormValue("direction"))
	if err != nil {
		invalid(w, "direction", "must be up or down")
		return
	}

	siblings, err := b.Collection.Move(mutation(r), id, dir)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewUnits(siblings))
}

// ---------- Materials ----------

// ListMaterials handles GET /units/{id}/materials.
func (h *Content) ListMaterials(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	list, err := backendOf(r).Collection.ListMaterials(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	if list == nil {
		list = []models.Material{}
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateMaterial handles POST /units/{id}/materials.
func (h *Content) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	b := backendOf(r)
	unitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f, err := parseForm(w, r)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	defer f.Close()

	file, err := f.file("file")
	if err != nil {
		invalid(w, "file", "could not be read")
		return
	}

	ctx := mutation(r)
	m, err := b.Collection.AddMaterial(ctx, unitID, materialInput(f), file)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.changed(ctx, b)
	writeJSON(w, http.StatusCreated, m)
}

// UpdateMaterial handles PUT /materials/{id}.
func (h *Content) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	b := backendOf(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f, err := parseForm(w, r)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	defer f.Close()

	file, fe := f.delta("file", "clear_file")
	if fe != nil {
		invalid(w, fe.Field, fe.Error)
		return
	}

	ctx := mutation(r)
	m, err := b.Collection.UpdateMaterial(ctx, id, materialInput(f), file)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.changed(ctx, b)
	writeJSON(w, http.StatusOK, m)
}

// DeleteMaterial handles DELETE /materials/{id}.
func (h *Content) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	b := backendOf(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ctx := mutation(r)
	if err := b.Collection.DeleteMaterial(ctx, id); err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.changed(ctx, b)
	w.WriteHeader(http.StatusNoContent)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"starbiz/internal/models"
	"starbiz/internal/store"
)

// UnitStore is the in-memory units table.
type UnitStore struct{ db *DB }

// NewUnitStore returns the unit table of db.
func NewUnitStore(db *DB) *UnitStore { return &UnitStore{db: db} }

// siblings returns pointers to the rows sharing u's scope, by position.
func (db *DB) siblings(u *models.Unit) []*models.Unit {
	var out []*models.Unit
	for _, o := range db.units {
		if o.SameScope(u) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

// dropUnit deletes a unit, its descendants, and their materials without
// compacting. Callers hold mu.
func (db *DB) dropUnit(id uuid.UUID) {
	for cid, c := range db.units {
		if c.ParentID != nil && *c.ParentID == id {
			db.dropUnit(cid)
		}
	}
	for mid, m := range db.materials {
		if m.UnitID == id {
			delete(db.materials, mid)
		}
	}
	delete(db.units, id)
}

// Create appends u at the end of its sibling scope.
func (s *UnitStore) Create(_ context.Context, u *models.Unit) (*models.Unit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("units.create"); err != nil {
		return nil, err
	}

	row := *u
	row.ID = uuid.New()
	row.OrderIndex = len(s.db.siblings(&row))
	if row.Number != nil {
		n := row.OrderIndex + 1
		row.Number = &n
	}
	row.Criteria = clone(u.Criteria)
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	s.db.units[row.ID] = &row
	return clone(&row), nil
}

// Update replaces the stored unit's fields, keeping its position.
func (s *UnitStore) Update(_ context.Context, u *models.Unit) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("units.update"); err != nil {
		return err
	}
	row, ok := s.db.units[u.ID]
	if !ok {
		return nil
	}
	row.Title = u.Title
	row.Description = u.Description
	row.Body = u.Body
	row.VideoURL = u.VideoURL
	row.AudioURL = u.AudioURL
	row.DurationSeconds = u.DurationSeconds
	row.Criteria = clone(u.Criteria)
	row.UpdatedAt = time.Now()
	return nil
}

// FindByID returns the unit, or nil when it does not exist.
func (s *UnitStore) FindByID(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("units.find"); err != nil {
		return nil, err
	}
	return clone(s.db.units[id]), nil
}

// ListByContent returns an item's units ordered by parent, kind, then
// position.
func (s *UnitStore) ListByContent(_ context.Context, contentID uuid.UUID) ([]models.Unit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("units.list"); err != nil {
		return nil, err
	}
	var out []models.Unit
	for _, u := range s.db.units {
		if u.ContentID == contentID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := parentKey(out[i]), parentKey(out[j])
		if pi != pj {
			return pi < pj
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].OrderIndex < out[j].OrderIndex
	})
	return out, nil
}

// parentKey sorts top-level units first.
func parentKey(u models.Unit) string {
	if u.ParentID == nil {
		return ""
	}
	return u.ParentID.String()
}

// ListSiblings returns the units sharing u's scope, by position.
func (s *UnitStore) ListSiblings(_ context.Context, u *models.Unit) ([]models.Unit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("units.siblings"); err != nil {
		return nil, err
	}
	var out []models.Unit
	for _, o := range s.db.siblings(u) {
		out = append(out, *o)
	}
	return out, nil
}

// Subtree returns a unit and all its descendants.
func (s *UnitStore) Subtree(_ context.Context, id uuid.UUID) ([]models.Unit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("units.subtree"); err != nil {
		return nil, err
	}
	return s.db.subtree(id), nil
}

func (db *DB) subtree(id uuid.UUID) []models.Unit {
	root, ok := db.units[id]
	if !ok {
		return nil
	}
	out := []models.Unit{*root}
	for cid, c := range db.units {
		if c.ParentID != nil && *c.ParentID == id {
			out = append(out, db.subtree(cid)...)
		}
	}
	return out
}

// CountByContent counts units per item.
func (s *UnitStore) CountByContent(_ context.Context) (map[uuid.UUID]int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("units.count"); err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int)
	for _, u := range s.db.units {
		counts[u.ContentID]++
	}
	return counts, nil
}

// Delete removes the unit subtree and compacts the remaining siblings.
func (s *UnitStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("units.delete"); err != nil {
		return err
	}
	row, ok := s.db.units[id]
	if !ok {
		return nil
	}
	gone := *row
	s.db.dropUnit(id)
	for _, o := range s.db.siblings(&gone) {
		if o.OrderIndex > gone.OrderIndex {
			o.OrderIndex--
			if o.Number != nil {
				n := *o.Number - 1
				o.Number = &n
			}
		}
	}
	return nil
}

// Swap exchanges the positions of two siblings.
func (s *UnitStore) Swap(_ context.Context, a, b uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("units.swap"); err != nil {
		return err
	}
	x, okx := s.db.units[a]
	y, oky := s.db.units[b]
	if !okx || !oky {
		return fmt.Errorf("swap units: missing row")
	}
	if !x.SameScope(y) {
		return store.ErrNotSiblings
	}
	x.OrderIndex, y.OrderIndex = y.OrderIndex, x.OrderIndex
	x.Number, y.Number = y.Number, x.Number
	return nil
}

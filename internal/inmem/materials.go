// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inmem

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"starbiz/internal/models"
)

// errMaterialSource mirrors the materials_one_source check constraint.
var errMaterialSource = errors.New("materials_one_source: exactly one of file_url and external_url must be set")

// MaterialStore is the in-memory materials table.
type MaterialStore struct{ db *DB }

// NewMaterialStore returns the material table of db.
func NewMaterialStore(db *DB) *MaterialStore { return &MaterialStore{db: db} }

func checkSource(m *models.Material) error {
	if (m.FileURL == nil) == (m.ExternalURL == nil) {
		return errMaterialSource
	}
	if m.IsLink() != (m.ExternalURL != nil) {
		return errMaterialSource
	}
	return nil
}

// Create inserts m after checking its source matches its type.
func (s *MaterialStore) Create(_ context.Context, m *models.Material) (*models.Material, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("materials.create"); err != nil {
		return nil, err
	}
	if err := checkSource(m); err != nil {
		return nil, err
	}
	row := *m
	row.ID = uuid.New()
	row.CreatedAt = time.Now()
	s.db.materials[row.ID] = &row
	return clone(&row), nil
}

// Update replaces the stored material with m.
func (s *MaterialStore) Update(_ context.Context, m *models.Material) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("materials.update"); err != nil {
		return err
	}
	if err := checkSource(m); err != nil {
		return err
	}
	row, ok := s.db.materials[m.ID]
	if !ok {
		return nil
	}
	row.Type = m.Type
	row.Title = m.Title
	row.FileURL = m.FileURL
	row.ExternalURL = m.ExternalURL
	return nil
}

// FindByID returns the material, or nil when it does not exist.
func (s *MaterialStore) FindByID(_ context.Context, id uuid.UUID) (*models.Material, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("materials.find"); err != nil {
		return nil, err
	}
	return clone(s.db.materials[id]), nil
}

func (s *MaterialStore) collect(keep func(*models.Material) bool) []models.Material {
	var out []models.Material
	for _, m := range s.db.materials {
		if keep(m) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// ListByUnit returns the materials attached directly to a unit.
func (s *MaterialStore) ListByUnit(_ context.Context, unitID uuid.UUID) ([]models.Material, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("materials.list"); err != nil {
		return nil, err
	}
	return s.collect(func(m *models.Material) bool { return m.UnitID == unitID }), nil
}

// ListBySubtree returns the materials of a unit and its descendants.
func (s *MaterialStore) ListBySubtree(_ context.Context, unitID uuid.UUID) ([]models.Material, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("materials.subtree"); err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]bool)
	for _, u := range s.db.subtree(unitID) {
		ids[u.ID] = true
	}
	return s.collect(func(m *models.Material) bool { return ids[m.UnitID] }), nil
}

// ListByContent returns every material under an item.
func (s *MaterialStore) ListByContent(_ context.Context, contentID uuid.UUID) ([]models.Material, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("materials.content"); err != nil {
		return nil, err
	}
	return s.collect(func(m *models.Material) bool {
		u, ok := s.db.units[m.UnitID]
		return ok && u.ContentID == contentID
	}), nil
}

// Delete removes a material.
func (s *MaterialStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("materials.delete"); err != nil {
		return err
	}
	delete(s.db.materials, id)
	return nil
}

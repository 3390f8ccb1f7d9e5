// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"starbiz/internal/models"
)

// MaterialStore handles the files and links attached to units.
type MaterialStore struct {
	db *sql.DB
}

// NewMaterialStore creates a new MaterialStore with the given database connection.
func NewMaterialStore(db *sql.DB) *MaterialStore {
	return &MaterialStore{db: db}
}

const materialColumns = `id, unit_id, type, title, file_url, external_url, created_at`

func scanMaterial(scanner interface{ Scan(...any) error }) (*models.Material, error) {
	m := &models.Material{}
	err := scanner.Scan(&m.ID, &m.UnitID, &m.Type, &m.Title, &m.FileURL, &m.ExternalURL, &m.CreatedAt)
	return m, err
}

func scanMaterials(rows *sql.Rows) ([]models.Material, error) {
	defer rows.Close()
	var items []models.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Create inserts a material and returns it with the generated ID.
func (s *MaterialStore) Create(ctx context.Context, m *models.Material) (*models.Material, error) {
	result, err := scanMaterial(s.db.QueryRowContext(ctx, `
		INSERT INTO materials (unit_id, type, title, file_url, external_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+materialColumns,
		m.UnitID, m.Type, m.Title, m.FileURL, m.ExternalURL,
	))
	if err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}
	return result, nil
}

// Update writes every editable field of a material.
func (s *MaterialStore) Update(ctx context.Context, m *models.Material) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE materials SET type = $1, title = $2, file_url = $3, external_url = $4
		WHERE id = $5
	`, m.Type, m.Title, m.FileURL, m.ExternalURL, m.ID)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

// FindByID retrieves a material by its UUID. Returns nil if not found.
func (s *MaterialStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	m, err := scanMaterial(s.db.QueryRowContext(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find material by id: %w", err)
	}
	return m, nil
}

// ListByUnit returns the materials of one unit, oldest first.
func (s *MaterialStore) ListByUnit(ctx context.Context, unitID uuid.UUID) ([]models.Material, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE unit_id = $1 ORDER BY created_at`, unitID)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return scanMaterials(rows)
}

// ListBySubtree returns the materials of a unit and all of its descendants.
func (s *MaterialStore) ListBySubtree(ctx context.Context, unitID uuid.UUID) ([]models.Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH RECURSIVE tree AS (
			SELECT id FROM units WHERE id = $1
			UNION ALL
			SELECT u.id FROM units u JOIN tree t ON u.parent_id = t.id
		)
		SELECT `+materialColumns+` FROM materials
		WHERE unit_id IN (SELECT id FROM tree)
		ORDER BY created_at
	`, unitID)
	if err != nil {
		return nil, fmt.Errorf("list subtree materials: %w", err)
	}
	return scanMaterials(rows)
}

// ListByContent returns every material under an item.
func (s *MaterialStore) ListByContent(ctx context.Context, contentID uuid.UUID) ([]models.Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.unit_id, m.type, m.title, m.file_url, m.external_url, m.created_at
		FROM materials m
		JOIN units u ON u.id = m.unit_id
		WHERE u.content_id = $1
		ORDER BY m.created_at
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list item materials: %w", err)
	}
	return scanMaterials(rows)
}

// Delete removes a material.
func (s *MaterialStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}

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

// UnitStore handles the ordered child units of content items.
type UnitStore struct {
	db *sql.DB
}

// NewUnitStore creates a new UnitStore with the given database connection.
func NewUnitStore(db *sql.DB) *UnitStore {
	return &UnitStore{db: db}
}

const unitColumns = `id, content_id, parent_id, kind, title, description, body,
	order_index, number, video_url, audio_url, duration_seconds, criteria,
	created_at, updated_at`

// siblingScope matches the sibling set of ($1 content, $2 parent, $3 kind).
const siblingScope = `content_id = $1 AND parent_id IS NOT DISTINCT FROM $2 AND kind = $3`

func scanUnit(scanner interface{ Scan(...any) error }) (*models.Unit, error) {
	u := &models.Unit{}
	err := scanner.Scan(
		&u.ID, &u.ContentID, &u.ParentID, &u.Kind, &u.Title, &u.Description, &u.Body,
		&u.OrderIndex, &u.Number, &u.VideoURL, &u.AudioURL, &u.DurationSeconds, &u.Criteria,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func scanUnits(rows *sql.Rows) ([]models.Unit, error) {
	defer rows.Close()
	var units []models.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, *u)
	}
	return units, rows.Err()
}

// criteriaArg converts optional criteria to a driver argument.
func criteriaArg(c *models.Criteria) any {
	if c == nil {
		return nil
	}
	return *c
}

// lockScope takes a transaction-scoped advisory lock on a sibling set.
// Create, Delete and Swap take it first, so positions in one set are
// assigned, compacted and exchanged one writer at a time.
func lockScope(ctx context.Context, tx *sql.Tx, contentID uuid.UUID, parentID *uuid.UUID, kind models.UnitKind) error {
	parent := "-"
	if parentID != nil {
		parent = parentID.String()
	}
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`,
		contentID.String()+"/"+parent+"/"+string(kind))
	if err != nil {
		return fmt.Errorf("lock sibling scope: %w", err)
	}
	return nil
}

// Create inserts a unit at the end of its sibling set: order_index is the
// number of existing siblings. A non-nil Number is replaced with the unit's
// 1-based position.
func (s *UnitStore) Create(ctx context.Context, u *models.Unit) (*models.Unit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create unit: %w", err)
	}
	defer tx.Rollback()

	if err := lockScope(ctx, tx, u.ContentID, u.ParentID, u.Kind); err != nil {
		return nil, err
	}

	result, err := scanUnit(tx.QueryRowContext(ctx, `
		WITH pos AS (
			SELECT COUNT(*)::int AS n FROM units WHERE `+siblingScope+`
		)
		INSERT INTO units (content_id, parent_id, kind, title, description, body,
		                   order_index, number, video_url, audio_url, duration_seconds, criteria)
		SELECT $1::uuid, $2::uuid, $3::text, $4::text, $5::text, $6::text,
		       pos.n, CASE WHEN $7::bool THEN pos.n + 1 END,
		       $8::text, $9::text, $10::int, $11::jsonb
		FROM pos
		RETURNING `+unitColumns,
		u.ContentID, u.ParentID, u.Kind, u.Title, u.Description, u.Body,
		u.Number != nil, u.VideoURL, u.AudioURL, u.DurationSeconds, criteriaArg(u.Criteria),
	))
	if err != nil {
		return nil, fmt.Errorf("create unit: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create unit: %w", err)
	}
	return result, nil
}

// Update writes the editable fields of a unit. Position fields are owned
// by Create, Swap, and Delete.
func (s *UnitStore) Update(ctx context.Context, u *models.Unit) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE units SET
			title = $1, description = $2, body = $3, video_url = $4, audio_url = $5,
			duration_seconds = $6, criteria = $7, updated_at = NOW()
		WHERE id = $8
	`, u.Title, u.Description, u.Body, u.VideoURL, u.AudioURL,
		u.DurationSeconds, criteriaArg(u.Criteria), u.ID,
	)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	return nil
}

// FindByID retrieves a unit by its UUID. Returns nil if not found.
func (s *UnitStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	u, err := scanUnit(s.db.QueryRowContext(ctx,
		`SELECT `+unitColumns+` FROM units WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find unit by id: %w", err)
	}
	return u, nil
}

// ListByContent returns every unit of an item ordered by scope and position.
func (s *UnitStore) ListByContent(ctx context.Context, contentID uuid.UUID) ([]models.Unit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+unitColumns+` FROM units
		WHERE content_id = $1
		ORDER BY parent_id NULLS FIRST, kind, order_index
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return scanUnits(rows)
}

// ListSiblings returns the sibling set of u (u included) by position.
func (s *UnitStore) ListSiblings(ctx context.Context, u *models.Unit) ([]models.Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+unitColumns+` FROM units WHERE `+siblingScope+` ORDER BY order_index`,
		u.ContentID, u.ParentID, u.Kind)
	if err != nil {
		return nil, fmt.Errorf("list sibling units: %w", err)
	}
	return scanUnits(rows)
}

// Subtree returns the unit and all of its descendants.
func (s *UnitStore) Subtree(ctx context.Context, id uuid.UUID) ([]models.Unit, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH RECURSIVE tree AS (
			SELECT * FROM units WHERE id = $1
			UNION ALL
			SELECT u.* FROM units u JOIN tree t ON u.parent_id = t.id
		)
		SELECT `+unitColumns+` FROM tree
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list unit subtree: %w", err)
	}
	return scanUnits(rows)
}

// CountByContent returns the number of units per item.
func (s *UnitStore) CountByContent(ctx context.Context) (map[uuid.UUID]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT content_id, COUNT(*) FROM units GROUP BY content_id`)
	if err != nil {
		return nil, fmt.Errorf("count units: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan unit count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// Delete removes a unit (descendants and materials cascade) and closes the
// gap it leaves so the remaining siblings keep positions 0..n-1.
func (s *UnitStore) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete unit: %w", err)
	}
	defer tx.Rollback()

	var (
		contentID uuid.UUID
		parentID  *uuid.UUID
		kind      models.UnitKind
		index     int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT content_id, parent_id, kind FROM units WHERE id = $1`, id,
	).Scan(&contentID, &parentID, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find unit scope: %w", err)
	}
	if err := lockScope(ctx, tx, contentID, parentID, kind); err != nil {
		return err
	}

	// The scope of a unit never changes, but its position may have moved
	// before the lock was granted.
	err = tx.QueryRowContext(ctx,
		`SELECT order_index FROM units WHERE id = $1 FOR UPDATE`, id,
	).Scan(&index)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lock unit: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE units SET
			order_index = order_index - 1,
			number = number - 1,
			updated_at = NOW()
		WHERE `+siblingScope+` AND order_index > $4
	`, contentID, parentID, kind, index); err != nil {
		return fmt.Errorf("compact siblings: %w", err)
	}

	return tx.Commit()
}

// Swap exchanges the order_index and number of two sibling units in one
// transaction, under the scope lock of the first unit. Both rows are then
// locked so a pair spanning two scopes is still rejected.
func (s *UnitStore) Swap(ctx context.Context, a, b uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin swap: %w", err)
	}
	defer tx.Rollback()

	var (
		contentID uuid.UUID
		parentID  *uuid.UUID
		kind      models.UnitKind
	)
	err = tx.QueryRowContext(ctx,
		`SELECT content_id, parent_id, kind FROM units WHERE id = $1`, a,
	).Scan(&contentID, &parentID, &kind)
	if err != nil {
		return fmt.Errorf("find swap scope: %w", err)
	}
	if err := lockScope(ctx, tx, contentID, parentID, kind); err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT `+unitColumns+` FROM units
		WHERE id IN ($1, $2)
		ORDER BY id
		FOR UPDATE
	`, a, b)
	if err != nil {
		return fmt.Errorf("lock swap units: %w", err)
	}
	locked, err := scanUnits(rows)
	if err != nil {
		return err
	}
	if len(locked) != 2 {
		return fmt.Errorf("swap units: expected 2 rows, got %d", len(locked))
	}
	x, y := locked[0], locked[1]
	if !x.SameScope(&y) {
		return ErrNotSiblings
	}

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE units SET order_index = $1, number = $2, updated_at = NOW() WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("prepare swap: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, y.OrderIndex, y.Number, x.ID); err != nil {
		return fmt.Errorf("swap unit %s: %w", x.ID, err)
	}
	if _, err := stmt.ExecContext(ctx, x.OrderIndex, x.Number, y.ID); err != nil {
		return fmt.Errorf("swap unit %s: %w", y.ID, err)
	}

	return tx.Commit()
}

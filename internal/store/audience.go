// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// AudienceStore reads the end-users of a vertical.
type AudienceStore struct {
	db *sql.DB
}

// NewAudienceStore creates a new AudienceStore with the given database connection.
func NewAudienceStore(db *sql.DB) *AudienceStore {
	return &AudienceStore{db: db}
}

// ListIDs returns the id of every audience member.
func (s *AudienceStore) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM audience_members ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list audience: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan audience id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

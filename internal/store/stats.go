// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"starbiz/internal/models"
)

// StatsStore computes dashboard counts for one vertical.
type StatsStore struct {
	db *sql.DB
}

// NewStatsStore creates a new StatsStore with the given database connection.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Stats returns the row counts shown on the dashboard.
func (s *StatsStore) Stats(ctx context.Context) (*models.Stats, error) {
	st := &models.Stats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM content_items),
			(SELECT COUNT(*) FROM content_items WHERE is_published),
			(SELECT COUNT(*) FROM units),
			(SELECT COUNT(*) FROM materials),
			(SELECT COUNT(*) FROM audience_members),
			(SELECT COUNT(*) FROM notifications)
	`).Scan(&st.Items, &st.Published, &st.Units, &st.Materials, &st.Audience, &st.Notifications)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return st, nil
}

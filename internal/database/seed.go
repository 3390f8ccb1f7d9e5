// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// seedAudience are the development audience members inserted into an empty
// vertical database so publish fan-out has recipients.
var seedAudience = []string{"Lucía Fernández", "Mateo García", "Valentina Ruiz"}

// Seed populates an empty database with development audience members.
// It is a no-op once any audience member exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audience_members").Scan(&count); err != nil {
		return fmt.Errorf("seed check audience: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for _, name := range seedAudience {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO audience_members (display_name) VALUES ($1)`, name,
		); err != nil {
			return fmt.Errorf("seed insert audience: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with audience members", "count", len(seedAudience))
	return nil
}

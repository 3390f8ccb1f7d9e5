// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"

	"starbiz/internal/database"
	"starbiz/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
func testDSN() string {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "starbiz")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "starbiz_test")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Connect(ctx, testDSN())
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// createTestItem inserts an item with a unique slug and removes it (and its
// cascade) when the test ends.
func createTestItem(t *testing.T, db *sql.DB) *models.ContentItem {
	t.Helper()
	s := NewItemStore(db)
	item, err := s.Create(context.Background(), &models.ContentItem{
		Kind:     models.ItemKindCourse,
		Title:    "Test item",
		Slug:     "test-item-" + uuid.NewString(),
		Category: "finanzas",
	})
	if err != nil {
		t.Fatalf("create test item: %v", err)
	}
	t.Cleanup(func() { s.Delete(context.Background(), item.ID) })
	return item
}

func ptr[T any](v T) *T { return &v }

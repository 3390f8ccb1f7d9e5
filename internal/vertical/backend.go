// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package vertical

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"starbiz/internal/config"
	"starbiz/internal/content"
	"starbiz/internal/database"
	"starbiz/internal/metrics"
	"starbiz/internal/models"
	"starbiz/internal/notify"
	"starbiz/internal/storage"
	"starbiz/internal/store"
)

// StatsSource computes the dashboard counts of a vertical.
type StatsSource interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

// Stores groups the record store ports a backend runs against.
type Stores struct {
	Items     content.ItemStore
	Units     content.UnitStore
	Materials content.MaterialStore
	Audience  notify.Audience
	Outbox    notify.Outbox
	Stats     StatsSource
}

// Backend is one vertical's isolated database, bucket, and the workflows
// wired on top of them.
type Backend struct {
	Def        Definition
	Editor     *content.Editor
	Collection *content.Collection
	Fanout     *notify.Fanout
	Stats      StatsSource

	// StorageEnabled is false when the vertical has no bucket configured.
	StorageEnabled bool

	db *sql.DB
}

// New wires the workflows of a vertical. blobs may be nil when object
// storage is not configured.
func New(def Definition, s Stores, blobs content.Blobs, m *metrics.Metrics) *Backend {
	fan := notify.New(def.Key, def.Notice, s.Audience, s.Outbox, m)
	deps := content.Deps{
		Items:     s.Items,
		Units:     s.Units,
		Materials: s.Materials,
		Blobs:     blobs,
		Notifier:  fan,
		Metrics:   m,
	}
	return &Backend{
		Def:            def,
		Editor:         content.NewEditor(def.Rules, deps),
		Collection:     content.NewCollection(def.Rules, deps),
		Fanout:         fan,
		Stats:          s.Stats,
		StorageEnabled: blobs != nil,
	}
}

// PostgresStores returns the record stores of one vertical database.
func PostgresStores(db *sql.DB) Stores {
	return Stores{
		Items:     store.NewItemStore(db),
		Units:     store.NewUnitStore(db),
		Materials: store.NewMaterialStore(db),
		Audience:  store.NewAudienceStore(db),
		Outbox:    store.NewNotificationStore(db),
		Stats:     store.NewStatsStore(db),
	}
}

// Open connects to a vertical's database, applies migrations, seeds a demo
// audience in development, and creates its bucket client. A vertical
// without storage settings still opens; file uploads then fail.
func Open(ctx context.Context, cfg config.Vertical, dev bool, m *metrics.Metrics) (*Backend, error) {
	def, ok := Lookup(cfg.Key)
	if !ok {
		return nil, fmt.Errorf("open vertical: unknown key %q", cfg.Key)
	}

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open vertical %s: %w", cfg.Key, err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open vertical %s: %w", cfg.Key, err)
	}
	if dev {
		if err := database.Seed(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("open vertical %s: %w", cfg.Key, err)
		}
	}

	client, err := storage.New(storage.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open vertical %s: %w", cfg.Key, err)
	}

	// A typed nil *storage.Client must not reach the Blobs interface.
	var blobs content.Blobs
	if client != nil {
		blobs = client
		slog.Info("object storage connected", "vertical", cfg.Key, "bucket", client.Bucket())
	} else {
		slog.Warn("object storage not configured, uploads disabled", "vertical", cfg.Key)
	}

	b := New(def, PostgresStores(db), blobs, m)
	b.db = db
	slog.Info("vertical ready", "vertical", cfg.Key, "storage", b.StorageEnabled)
	return b, nil
}

// Close releases the vertical's database pool.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Ping checks the vertical's database.
func (b *Backend) Ping(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	return b.db.PingContext(ctx)
}

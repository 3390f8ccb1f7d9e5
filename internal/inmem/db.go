// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package inmem provides in-memory versions of the record stores and the
// object storage of a vertical. They follow the same contracts as the
// PostgreSQL and S3 implementations (not-found is (nil, nil), deletes
// cascade, sibling positions stay dense) and back the workflow and handler
// tests.
package inmem

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"starbiz/internal/models"
)

// DB holds every table of one vertical behind a single lock.
type DB struct {
	mu            sync.RWMutex
	items         map[uuid.UUID]*models.ContentItem
	units         map[uuid.UUID]*models.Unit
	materials     map[uuid.UUID]*models.Material
	audience      []models.AudienceMember
	notifications []models.Notification

	faults map[string]error
	calls  map[string]int
}

// Open returns an empty database.
func Open() *DB {
	return &DB{
		items:     make(map[uuid.UUID]*models.ContentItem),
		units:     make(map[uuid.UUID]*models.Unit),
		materials: make(map[uuid.UUID]*models.Material),
		faults:    make(map[string]error),
		calls:     make(map[string]int),
	}
}

// Fail makes every later call of op (e.g. "items.update") return err.
// A nil err clears the fault.
func (db *DB) Fail(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err == nil {
		delete(db.faults, op)
		return
	}
	db.faults[op] = err
}

// Calls returns how many times op was invoked.
func (db *DB) Calls(op string) int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.calls[op]
}

// enter records a call and returns its injected fault. Callers hold mu.
func (db *DB) enter(op string) error {
	db.calls[op]++
	return db.faults[op]
}

// AddAudience inserts n audience members and returns their ids.
func (db *DB) AddAudience(names ...string) []uuid.UUID {
	db.mu.Lock()
	defer db.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		m := models.AudienceMember{ID: uuid.New(), DisplayName: name, CreatedAt: time.Now()}
		db.audience = append(db.audience, m)
		ids = append(ids, m.ID)
	}
	return ids
}

// Notifications returns a copy of the notification rows.
func (db *DB) Notifications() []models.Notification {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]models.Notification(nil), db.notifications...)
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inmem

import (
	"context"
	"time"

	"github.com/google/uuid"

	"starbiz/internal/models"
)

// AudienceStore is the in-memory audience_members table.
type AudienceStore struct{ db *DB }

// NewAudienceStore returns the audience table of db.
func NewAudienceStore(db *DB) *AudienceStore { return &AudienceStore{db: db} }

// ListIDs returns every audience member id.
func (s *AudienceStore) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("audience.list"); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(s.db.audience))
	for _, m := range s.db.audience {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// NotificationStore is the in-memory notifications table with the
// (recipient, content, type) outbox key.
type NotificationStore struct{ db *DB }

// NewNotificationStore returns the notification table of db.
func NewNotificationStore(db *DB) *NotificationStore { return &NotificationStore{db: db} }

// InsertBatch adds rows, skipping (recipient, content, type) triples
// already present, and returns how many were inserted.
func (s *NotificationStore) InsertBatch(_ context.Context, rows []models.Notification) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("notifications.insert"); err != nil {
		return 0, err
	}

	type key struct {
		r, c uuid.UUID
		t    string
	}
	seen := make(map[key]bool, len(s.db.notifications))
	for _, n := range s.db.notifications {
		seen[key{n.RecipientID, n.ContentID, n.Type}] = true
	}

	written := 0
	for _, n := range rows {
		k := key{n.RecipientID, n.ContentID, n.Type}
		if seen[k] {
			continue
		}
		seen[k] = true
		n.ID = uuid.New()
		n.CreatedAt = time.Now()
		s.db.notifications = append(s.db.notifications, n)
		written++
	}
	return written, nil
}

// CountByContent counts the notifications queued for an item.
func (s *NotificationStore) CountByContent(_ context.Context, contentID uuid.UUID) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("notifications.count"); err != nil {
		return 0, err
	}
	n := 0
	for _, row := range s.db.notifications {
		if row.ContentID == contentID {
			n++
		}
	}
	return n, nil
}

// StatsStore computes dashboard counts over db.
type StatsStore struct{ db *DB }

// NewStatsStore returns the stats view of db.
func NewStatsStore(db *DB) *StatsStore { return &StatsStore{db: db} }

// Stats tallies items by kind and status plus unit and material totals.
func (s *StatsStore) Stats(_ context.Context) (*models.Stats, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.enter("stats"); err != nil {
		return nil, err
	}
	st := &models.Stats{
		Items:         len(s.db.items),
		Units:         len(s.db.units),
		Materials:     len(s.db.materials),
		Audience:      len(s.db.audience),
		Notifications: len(s.db.notifications),
	}
	for _, c := range s.db.items {
		if c.IsPublished {
			st.Published++
		}
	}
	return st, nil
}

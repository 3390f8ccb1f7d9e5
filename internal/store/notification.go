// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"starbiz/internal/models"
)

// notificationChunk bounds the rows per INSERT (6 parameters each).
const notificationChunk = 500

// NotificationStore writes the notification outbox.
type NotificationStore struct {
	db *sql.DB
}

// NewNotificationStore creates a new NotificationStore with the given database connection.
func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// InsertBatch inserts rows in chunks. Rows whose (recipient, content, type)
// key already exists are skipped. Returns the number of rows written.
func (s *NotificationStore) InsertBatch(ctx context.Context, rows []models.Notification) (int, error) {
	written := 0
	for start := 0; start < len(rows); start += notificationChunk {
		end := min(start+notificationChunk, len(rows))
		n, err := s.insertChunk(ctx, rows[start:end])
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

func (s *NotificationStore) insertChunk(ctx context.Context, rows []models.Notification) (int, error) {
	var (
		b    strings.Builder
		args = make([]any, 0, len(rows)*6)
	)
	b.WriteString(`INSERT INTO notifications (recipient_id, content_id, type, title, message, data) VALUES `)
	for i, n := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * 6
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5, base+6)
		data := n.Data
		if len(data) == 0 {
			data = []byte("{}")
		}
		args = append(args, n.RecipientID, n.ContentID, n.Type, n.Title, n.Message, string(data))
	}
	b.WriteString(` ON CONFLICT (recipient_id, content_id, type) DO NOTHING`)

	res, err := s.db.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("insert notifications: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("notifications rows affected: %w", err)
	}
	return int(affected), nil
}

// CountByContent returns how many notifications reference an item.
func (s *NotificationStore) CountByContent(ctx context.Context, contentID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE content_id = $1`, contentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return n, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify fans a newly published item out to every audience member
// of its vertical as one notification row each.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"starbiz/internal/metrics"
	"starbiz/internal/models"
)

// Template shapes the notification rows of one vertical.
type Template struct {
	Type    string // e.g. "new_course"
	Title   string
	Message string // fmt format with one %s for the item title
	DataKey string // key of the item id in the data payload, e.g. "course_id"
}

// Audience lists the recipients of a vertical.
type Audience interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Outbox stores notification rows, skipping rows whose
// (recipient, content, type) key already exists.
type Outbox interface {
	InsertBatch(ctx context.Context, rows []models.Notification) (int, error)
}

// NotificationError reports a failed fan-out. It is logged, never shown to
// the editor.
type NotificationError struct {
	ContentID uuid.UUID
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify audience of %s: %v", e.ContentID, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// Fanout sends publish notifications for one vertical.
type Fanout struct {
	vertical string
	tmpl     Template
	audience Audience
	outbox   Outbox
	metrics  *metrics.Metrics
}

// New creates a Fanout. m may be nil.
func New(vertical string, tmpl Template, audience Audience, outbox Outbox, m *metrics.Metrics) *Fanout {
	return &Fanout{vertical: vertical, tmpl: tmpl, audience: audience, outbox: outbox, metrics: m}
}

// Build returns one row per recipient with identical title and message.
func (f *Fanout) Build(item *models.ContentItem, recipients []uuid.UUID) ([]models.Notification, error) {
	data, err := json.Marshal(map[string]string{f.tmpl.DataKey: item.ID.String()})
	if err != nil {
		return nil, fmt.Errorf("marshal notification data: %w", err)
	}
	message := fmt.Sprintf(f.tmpl.Message, item.Title)

	rows := make([]models.Notification, 0, len(recipients))
	for _, r := range recipients {
		rows = append(rows, models.Notification{
			RecipientID: r,
			ContentID:   item.ID,
			Type:        f.tmpl.Type,
			Title:       f.tmpl.Title,
			Message:     message,
			Data:        data,
		})
	}
	return rows, nil
}

// Send reads the whole audience and inserts its rows. It returns the number
// of rows written; rows already present for the item are skipped.
func (f *Fanout) Send(ctx context.Context, item *models.ContentItem) (int, error) {
	recipients, err := f.audience.ListIDs(ctx)
	if err != nil {
		return 0, &NotificationError{ContentID: item.ID, Err: err}
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	rows, err := f.Build(item, recipients)
	if err != nil {
		return 0, &NotificationError{ContentID: item.ID, Err: err}
	}

	written, err := f.outbox.InsertBatch(ctx, rows)
	if err != nil {
		f.metrics.RecordNotifications(f.vertical, "failed", len(rows)-written)
		f.metrics.RecordNotifications(f.vertical, "inserted", written)
		return written, &NotificationError{ContentID: item.ID, Err: err}
	}
	f.metrics.RecordNotifications(f.vertical, "inserted", written)
	f.metrics.RecordNotifications(f.vertical, "skipped", len(rows)-written)
	return written, nil
}

// NotifyAudience runs Send and logs the outcome. Failures never reach the
// caller.
func (f *Fanout) NotifyAudience(ctx context.Context, item *models.ContentItem) {
	written, err := f.Send(ctx, item)
	if err != nil {
		slog.Error("notification fan-out failed",
			"vertical", f.vertical, "content_id", item.ID, "written", written, "error", err)
		return
	}
	slog.Info("audience notified", "vertical", f.vertical, "content_id", item.ID, "rows", written)
}

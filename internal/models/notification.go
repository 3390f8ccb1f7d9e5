// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AudienceMember is an end-user of a vertical (student, parent, reader,
// listener). The admin service only reads these rows.
type AudienceMember struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notification is a write-once row telling one audience member about new
// content. ContentID together with RecipientID and Type is the outbox key.
type Notification struct {
	ID          uuid.UUID       `json:"id"`
	RecipientID uuid.UUID       `json:"recipient_id"`
	ContentID   uuid.UUID       `json:"content_id"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Stats holds the per-vertical counts shown on the dashboard.
type Stats struct {
	Items         int `json:"items"`
	Published     int `json:"published"`
	Units         int `json:"units"`
	Materials     int `json:"materials"`
	Audience      int `json:"audience"`
	Notifications int `json:"notifications"`
}

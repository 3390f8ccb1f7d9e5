// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"starbiz/internal/inmem"
	"starbiz/internal/models"
)

var courseTemplate = Template{
	Type:    "new_course",
	Title:   "¡Nuevo curso disponible!",
	Message: "Ya puedes empezar «%s».",
	DataKey: "course_id",
}

func setup(t *testing.T, members int) (*inmem.DB, *Fanout, *models.ContentItem) {
	t.Helper()
	db := inmem.Open()
	names := make([]string, members)
	for i := range names {
		names[i] = "student"
	}
	db.AddAudience(names...)
	f := New("junior", courseTemplate, inmem.NewAudienceStore(db), inmem.NewNotificationStore(db), nil)
	item := &models.ContentItem{ID: uuid.New(), Title: "Ahorro Basico"}
	return db, f, item
}

func TestSendOneRowPerRecipient(t *testing.T) {
	db, f, item := setup(t, 3)

	n, err := f.Send(context.Background(), item)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n != 3 {
		t.Errorf("written = %d, want 3", n)
	}

	rows := db.Notifications()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	recipients := map[uuid.UUID]bool{}
	for _, r := range rows {
		recipients[r.RecipientID] = true
		if r.ContentID != item.ID || r.Type != "new_course" {
			t.Errorf("row = %+v", r)
		}
		if r.Message != "Ya puedes empezar «Ahorro Basico»." {
			t.Errorf("message = %q", r.Message)
		}
		var data map[string]string
		if err := json.Unmarshal(r.Data, &data); err != nil || data["course_id"] != item.ID.String() {
			t.Errorf("data = %s (%v)", r.Data, err)
		}
	}
	if len(recipients) != 3 {
		t.Errorf("distinct recipients = %d, want 3", len(recipients))
	}
}

func TestSendTwiceIsAbsorbedByOutboxKey(t *testing.T) {
	db, f, item := setup(t, 2)
	ctx := context.Background()

	if _, err := f.Send(ctx, item); err != nil {
		t.Fatalf("first Send: %v", err)
	}
	n, err := f.Send(ctx, item)
	if err != nil {
		t.Fatalf("second Send: %v", err)
	}
	if n != 0 {
		t.Errorf("second Send wrote %d, want 0", n)
	}
	if got := len(db.Notifications()); got != 2 {
		t.Errorf("rows = %d, want 2", got)
	}
}

func TestSendEmptyAudience(t *testing.T) {
	db, f, item := setup(t, 0)
	n, err := f.Send(context.Background(), item)
	if err != nil || n != 0 {
		t.Errorf("Send = %d, %v; want 0, nil", n, err)
	}
	if db.Calls("notifications.insert") != 0 {
		t.Error("no insert expected for an empty audience")
	}
}

func TestSendErrorsAreNotificationErrors(t *testing.T) {
	db, f, item := setup(t, 2)
	boom := errors.New("connection reset")
	db.Fail("notifications.insert", boom)

	_, err := f.Send(context.Background(), item)
	var nerr *NotificationError
	if !errors.As(err, &nerr) {
		t.Fatalf("Send error = %T %v, want *NotificationError", err, err)
	}
	if !errors.Is(err, boom) || nerr.ContentID != item.ID {
		t.Errorf("NotificationError = %+v", nerr)
	}

	// NotifyAudience swallows the failure.
	f.NotifyAudience(context.Background(), item)
}

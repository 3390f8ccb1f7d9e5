// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"
	"time"
)

func TestContentItemPublish(t *testing.T) {
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	c := &ContentItem{Title: "Ahorro Basico"}
	c.Publish(first)
	if !c.IsPublished {
		t.Fatal("expected IsPublished=true after Publish")
	}
	if c.PublishedAt == nil || !c.PublishedAt.Equal(first) {
		t.Fatalf("PublishedAt = %v, want %v", c.PublishedAt, first)
	}

	// Unpublish and publish again: the first timestamp survives.
	c.IsPublished = false
	c.Publish(later)
	if !c.PublishedAt.Equal(first) {
		t.Errorf("PublishedAt = %v, want original %v", c.PublishedAt, first)
	}
}

func TestItemKindConstants(t *testing.T) {
	tests := []struct {
		kind ItemKind
		want string
	}{
		{ItemKindCourse, "course"},
		{ItemKindBook, "book"},
		{ItemKindPack, "pack"},
	}
	for _, tt := range tests {
		if string(tt.kind) != tt.want {
			t.Errorf("ItemKind = %q, want %q", tt.kind, tt.want)
		}
	}
}

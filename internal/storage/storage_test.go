// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1767225600123)

	tests := []struct {
		name   string
		folder string
		owner  string
		ext    string
		want   string
	}{
		{"plain ext", FolderThumbnails, "abc", "jpg", "thumbnails/abc/1767225600123.jpg"},
		{"dotted ext", FolderVideos, "u1", ".mp4", "videos/u1/1767225600123.mp4"},
		{"double dot", FolderAudios, "u2", "..mp3", "audios/u2/1767225600123.mp3"},
		{"uppercase ext", FolderMaterials, "m", "PDF", "materials/m/1767225600123.pdf"},
		{"no ext", FolderMaterials, "m", "", "materials/m/1767225600123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ObjectKey(tt.folder, tt.owner, at, tt.ext)
			if got != tt.want {
				t.Errorf("ObjectKey = %q, want %q", got, tt.want)
			}
			// Deterministic for identical inputs.
			if again := ObjectKey(tt.folder, tt.owner, at, tt.ext); again != got {
				t.Errorf("ObjectKey not deterministic: %q vs %q", got, again)
			}
		})
	}
}

func TestTempOwner(t *testing.T) {
	a, b := TempOwner(), TempOwner()
	if !strings.HasPrefix(a, "tmp-") {
		t.Errorf("TempOwner() = %q, want tmp- prefix", a)
	}
	if a == b {
		t.Error("TempOwner should not repeat")
	}
}

func TestNewWithoutConfig(t *testing.T) {
	c, err := New(Options{Bucket: "starbiz-junior"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Error("expected nil client when endpoint and credentials are empty")
	}
}

func TestOwnershipPathStyle(t *testing.T) {
	c := newClient(nil, "https://fsn1.storage.example", "starbiz-junior", "")

	tests := []struct {
		name    string
		url     string
		owned   bool
		wantKey string
	}{
		{"own object", "https://fsn1.storage.example/starbiz-junior/thumbnails/x/1.jpg", true, "thumbnails/x/1.jpg"},
		{"query stripped", "https://fsn1.storage.example/starbiz-junior/videos/x/1.mp4?v=2", true, "videos/x/1.mp4"},
		{"other bucket", "https://fsn1.storage.example/starbiz-senior/videos/x/1.mp4", false, ""},
		{"external host", "https://youtube.com/watch?v=abc", false, ""},
		{"bucket root only", "https://fsn1.storage.example/starbiz-junior/", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Owns(tt.url); got != tt.owned {
				t.Errorf("Owns(%q) = %v, want %v", tt.url, got, tt.owned)
			}
			key, ok := c.KeyFromURL(tt.url)
			if tt.wantKey == "" {
				if ok {
					t.Errorf("KeyFromURL(%q) = %q, want no key", tt.url, key)
				}
				return
			}
			if !ok || key != tt.wantKey {
				t.Errorf("KeyFromURL(%q) = %q, %v; want %q", tt.url, key, ok, tt.wantKey)
			}
		})
	}
}

func TestOwnershipPublicURL(t *testing.T) {
	c := newClient(nil, "https://fsn1.storage.example", "starbiz-ideas", "https://cdn.starbiz.example/ideas/")

	url := c.FileURL("audios/a/1.mp3")
	if url != "https://cdn.starbiz.example/ideas/audios/a/1.mp3" {
		t.Fatalf("FileURL = %q", url)
	}
	if !c.Owns(url) {
		t.Errorf("Owns(%q) = false, want true", url)
	}
	if c.Owns("https://fsn1.storage.example/starbiz-ideas/audios/a/1.mp3") {
		t.Error("path-style URL should not match when a public URL is configured")
	}
}

func TestDeleteNotOwned(t *testing.T) {
	c := newClient(nil, "https://fsn1.storage.example", "starbiz-audio", "")
	err := c.Delete(context.Background(), "https://example.com/track.mp3")
	if !errors.Is(err, ErrNotOwned) {
		t.Errorf("Delete external URL: got %v, want ErrNotOwned", err)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// UnitKind distinguishes the ordered children of a content item. All kinds
// share the units table.
type UnitKind string

const (
	UnitKindModule  UnitKind = "module"
	UnitKindLesson  UnitKind = "lesson"
	UnitKindExam    UnitKind = "exam"
	UnitKindChapter UnitKind = "chapter"
	UnitKindIdea    UnitKind = "idea"
	UnitKindAudio   UnitKind = "audio"
)

// FileField names which storage-backed column a unit kind uses.
type FileField string

const (
	FileFieldNone  FileField = ""
	FileFieldVideo FileField = "video"
	FileFieldAudio FileField = "audio"
)

// Unit is a ChildUnit: a module, lesson, exam, chapter, idea or audio track.
// Siblings share (ContentID, ParentID, Kind) and their OrderIndex values
// form the permutation 0..n-1.
type Unit struct {
	ID              uuid.UUID  `json:"id"`
	ContentID       uuid.UUID  `json:"content_id"`
	ParentID        *uuid.UUID `json:"parent_id"`
	Kind            UnitKind   `json:"kind"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	Body            *string    `json:"body"`
	OrderIndex      int        `json:"order_index"`
	Number          *int       `json:"number"`
	VideoURL        *string    `json:"video_url"`
	AudioURL        *string    `json:"audio_url"`
	DurationSeconds *int       `json:"duration_seconds"`
	Criteria        *Criteria  `json:"criteria"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FileURL returns the URL stored in the given file field.
func (u *Unit) FileURL(field FileField) *string {
	switch field {
	case FileFieldVideo:
		return u.VideoURL
	case FileFieldAudio:
		return u.AudioURL
	default:
		return nil
	}
}

// SetFileURL stores url in the given file field. No-op for FileFieldNone.
func (u *Unit) SetFileURL(field FileField, url *string) {
	switch field {
	case FileFieldVideo:
		u.VideoURL = url
	case FileFieldAudio:
		u.AudioURL = url
	}
}

// FileURLs returns every non-nil file URL on the unit.
func (u *Unit) FileURLs() []string {
	var urls []string
	if u.VideoURL != nil {
		urls = append(urls, *u.VideoURL)
	}
	if u.AudioURL != nil {
		urls = append(urls, *u.AudioURL)
	}
	return urls
}

// SameScope reports whether two units are siblings.
func (u *Unit) SameScope(o *Unit) bool {
	if u.ContentID != o.ContentID || u.Kind != o.Kind {
		return false
	}
	if u.ParentID == nil || o.ParentID == nil {
		return u.ParentID == nil && o.ParentID == nil
	}
	return *u.ParentID == *o.ParentID
}

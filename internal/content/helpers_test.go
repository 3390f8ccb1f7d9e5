// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"starbiz/internal/inmem"
	"starbiz/internal/media"
	"starbiz/internal/models"
)

const bucketBase = "https://s3.test/starbiz-junior"

var juniorRules = Rules{
	Vertical:   "junior",
	ItemKind:   models.ItemKindCourse,
	Categories: []string{"finanzas", "emprendimiento"},
	Units: []UnitPolicy{
		{Kind: models.UnitKindModule},
		{Kind: models.UnitKindLesson, ParentKind: models.UnitKindModule, File: models.FileFieldVideo, FileRequired: true, Materials: true},
		{Kind: models.UnitKindExam, Criteria: true, Numbered: true},
	},
}

var ideasRules = Rules{
	Vertical:   "ideas",
	ItemKind:   models.ItemKindBook,
	Categories: []string{"finanzas"},
	Units: []UnitPolicy{
		{Kind: models.UnitKindChapter},
		{Kind: models.UnitKindIdea, ParentKind: models.UnitKindChapter, File: models.FileFieldAudio, Body: true, Materials: true},
	},
}

// recordingNotifier counts fan-out attempts.
type recordingNotifier struct {
	mu    sync.Mutex
	items []uuid.UUID
}

func (n *recordingNotifier) NotifyAudience(_ context.Context, item *models.ContentItem) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item.ID)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}

type env struct {
	db       *inmem.DB
	blobs    *inmem.Blobs
	notifier *recordingNotifier
	editor   *Editor
	coll     *Collection
}

func newEnv(t *testing.T, rules Rules) *env {
	t.Helper()
	db := inmem.Open()
	blobs := inmem.NewBlobs(bucketBase)
	n := &recordingNotifier{}
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	deps := Deps{
		Items:     inmem.NewItemStore(db),
		Units:     inmem.NewUnitStore(db),
		Materials: inmem.NewMaterialStore(db),
		Blobs:     blobs,
		Notifier:  n,
		Now: func() time.Time {
			clock = clock.Add(time.Millisecond)
			return clock
		},
	}
	return &env{
		db:       db,
		blobs:    blobs,
		notifier: n,
		editor:   NewEditor(rules, deps),
		coll:     NewCollection(rules, deps),
	}
}

func pngUpload(t *testing.T) *media.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return bytesUpload("cover.png", buf.Bytes())
}

func mp4Upload() *media.Upload {
	data := append([]byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2"), make([]byte, 64)...)
	return bytesUpload("clase.mp4", data)
}

func mp3Upload() *media.Upload {
	data := append([]byte("ID3\x03\x00\x00\x00\x00\x00\x0a"), make([]byte, 64)...)
	return bytesUpload("idea.mp3", data)
}

func pdfUpload() *media.Upload {
	return bytesUpload("guia.pdf", []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n"))
}

func bytesUpload(name string, data []byte) *media.Upload {
	return &media.Upload{Filename: name, Size: int64(len(data)), Body: bytes.NewReader(data)}
}

func ptr[T any](v T) *T { return &v }

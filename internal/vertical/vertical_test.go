// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package vertical

import (
	"context"
	"errors"
	"testing"

	"starbiz/internal/config"
	"starbiz/internal/content"
	"starbiz/internal/inmem"
	"starbiz/internal/models"
)

func TestDefinitionsCoverConfiguredVerticals(t *testing.T) {
	for _, key := range config.Verticals {
		d, ok := Lookup(key)
		if !ok {
			t.Fatalf("no definition for %q", key)
		}
		if d.Key != key || d.Rules.Vertical != key {
			t.Errorf("%s: mismatched keys %q/%q", key, d.Key, d.Rules.Vertical)
		}
		if !d.Rules.HasCategory("finanzas") {
			t.Errorf("%s: finanzas must be a valid category", key)
		}
		if d.Notice.Type == "" || d.Notice.DataKey == "" || d.Notice.Message == "" {
			t.Errorf("%s: incomplete notice template %+v", key, d.Notice)
		}
		for _, p := range d.Rules.Units {
			if p.ParentKind != "" {
				if _, ok := d.Rules.Policy(p.ParentKind); !ok {
					t.Errorf("%s: %s has unknown parent kind %s", key, p.Kind, p.ParentKind)
				}
			}
			if p.FileRequired && p.File == models.FileFieldNone {
				t.Errorf("%s: %s requires a file but has no file field", key, p.Kind)
			}
		}
	}
	if _, ok := Lookup("adults"); ok {
		t.Error("unexpected definition")
	}
}

func TestVerticalShapes(t *testing.T) {
	tests := []struct {
		key      string
		kind     models.ItemKind
		notice   string
		material models.UnitKind
	}{
		{"junior", models.ItemKindCourse, "new_course", models.UnitKindLesson},
		{"senior", models.ItemKindCourse, "new_course", models.UnitKindLesson},
		{"ideas", models.ItemKindBook, "new_book", models.UnitKindIdea},
		{"audio", models.ItemKindPack, "new_pack", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			d, _ := Lookup(tt.key)
			if d.Rules.ItemKind != tt.kind {
				t.Errorf("ItemKind = %q, want %q", d.Rules.ItemKind, tt.kind)
			}
			if d.Notice.Type != tt.notice {
				t.Errorf("notice = %q, want %q", d.Notice.Type, tt.notice)
			}
			for _, p := range d.Rules.Units {
				if p.Materials != (p.Kind == tt.material) {
					t.Errorf("%s: Materials = %v", p.Kind, p.Materials)
				}
			}
		})
	}
}

func inmemBackend(t *testing.T, key string, withBlobs bool) (*Backend, *inmem.DB) {
	t.Helper()
	def, _ := Lookup(key)
	db := inmem.Open()
	stores := Stores{
		Items:     inmem.NewItemStore(db),
		Units:     inmem.NewUnitStore(db),
		Materials: inmem.NewMaterialStore(db),
		Audience:  inmem.NewAudienceStore(db),
		Outbox:    inmem.NewNotificationStore(db),
		Stats:     inmem.NewStatsStore(db),
	}
	var blobs content.Blobs
	if withBlobs {
		blobs = inmem.NewBlobs("https://s3.test/starbiz-" + key)
	}
	return New(def, stores, blobs, nil), db
}

// Publishing a junior course with three students writes three new_course rows.
func TestBackendPublishFanout(t *testing.T) {
	b, db := inmemBackend(t, "junior", true)
	db.AddAudience("Ana", "Luis", "Sofía")
	ctx := context.Background()

	item, err := b.Editor.Create(ctx, content.ItemInput{Title: "Ahorro Basico", Category: "finanzas"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Slug != "ahorro-basico" || item.CoverURL != nil || len(db.Notifications()) != 0 {
		t.Fatalf("unexpected create result %+v / %d rows", item, len(db.Notifications()))
	}

	if _, err := b.Editor.Update(ctx, item.ID, content.ItemInput{
		Title: "Ahorro Basico", Category: "finanzas", IsPublished: true,
	}, content.FileDelta{}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	rows := db.Notifications()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for _, r := range rows {
		if r.Type != "new_course" {
			t.Errorf("type = %q", r.Type)
		}
	}

	st, err := b.Stats.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Items != 1 || st.Published != 1 || st.Audience != 3 || st.Notifications != 3 {
		t.Errorf("stats = %+v", st)
	}
}

func TestBackendWithoutStorage(t *testing.T) {
	b, _ := inmemBackend(t, "audio", false)
	if b.StorageEnabled {
		t.Error("StorageEnabled should be false")
	}

	ctx := context.Background()
	pack, err := b.Editor.Create(ctx, content.ItemInput{Title: "Hábitos", Category: "habitos"}, nil)
	if err != nil {
		t.Fatalf("Create without a file should work: %v", err)
	}

	_, err = b.Collection.CreateChild(ctx, pack.ID, content.UnitInput{Kind: models.UnitKindAudio, Title: "Pista 1"}, nil)
	var verr *content.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("audio without a file: error = %v, want ValidationError", err)
	}
}

func TestRegistry(t *testing.T) {
	junior, _ := inmemBackend(t, "junior", false)
	ideas, _ := inmemBackend(t, "ideas", false)
	r := NewRegistry(junior, ideas)

	if b, ok := r.Get("ideas"); !ok || b != ideas {
		t.Error("Get(ideas) failed")
	}
	if _, ok := r.Get("senior"); ok {
		t.Error("senior was not registered")
	}
	all := r.All()
	if len(all) != 2 || all[0] != junior || all[1] != ideas {
		t.Errorf("All = %v", all)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestOpenUnknownVertical(t *testing.T) {
	if _, err := Open(context.Background(), config.Vertical{Key: "adults"}, true, nil); err == nil {
		t.Error("expected error for unknown vertical")
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package vertical binds each product vertical (junior, senior, ideas,
// audio) to its content rules, notification template, and isolated
// database and bucket.
package vertical

import (
	"starbiz/internal/content"
	"starbiz/internal/models"
	"starbiz/internal/notify"
)

// Definition is the static shape of a vertical.
type Definition struct {
	Key    string
	Label  string
	Rules  content.Rules
	Notice notify.Template
}

var definitions = map[string]Definition{
	"junior": {
		Key:   "junior",
		Label: "Starbiz Junior",
		Rules: content.Rules{
			Vertical:   "junior",
			ItemKind:   models.ItemKindCourse,
			Categories: []string{"finanzas", "emprendimiento", "ahorro", "valores"},
			Units: []content.UnitPolicy{
				{Kind: models.UnitKindModule},
				{Kind: models.UnitKindLesson, ParentKind: models.UnitKindModule, File: models.FileFieldVideo, FileRequired: true, Materials: true},
				{Kind: models.UnitKindExam, Criteria: true, Numbered: true},
			},
		},
		Notice: notify.Template{
			Type:    "new_course",
			Title:   "¡Nuevo curso disponible!",
			Message: "Ya puedes empezar el curso \"%s\".",
			DataKey: "course_id",
		},
	},
	"senior": {
		Key:   "senior",
		Label: "Starbiz Senior",
		Rules: content.Rules{
			Vertical:   "senior",
			ItemKind:   models.ItemKindCourse,
			Categories: []string{"finanzas", "inversion", "jubilacion", "familia"},
			Units: []content.UnitPolicy{
				{Kind: models.UnitKindLesson, File: models.FileFieldVideo, FileRequired: true, Materials: true},
			},
		},
		Notice: notify.Template{
			Type:    "new_course",
			Title:   "Nuevo curso para padres",
			Message: "Publicamos el curso \"%s\".",
			DataKey: "course_id",
		},
	},
	"ideas": {
		Key:   "ideas",
		Label: "Starbiz Ideas",
		Rules: content.Rules{
			Vertical:   "ideas",
			ItemKind:   models.ItemKindBook,
			Categories: []string{"finanzas", "negocios", "liderazgo", "desarrollo-personal"},
			Units: []content.UnitPolicy{
				{Kind: models.UnitKindChapter},
				{Kind: models.UnitKindIdea, ParentKind: models.UnitKindChapter, File: models.FileFieldAudio, Materials: true, Body: true},
			},
		},
		Notice: notify.Template{
			Type:    "new_book",
			Title:   "Nuevo libro",
			Message: "Descubre las ideas clave de \"%s\".",
			DataKey: "book_id",
		},
	},
	"audio": {
		Key:   "audio",
		Label: "Starbiz Audio",
		Rules: content.Rules{
			Vertical:   "audio",
			ItemKind:   models.ItemKindPack,
			Categories: []string{"finanzas", "motivacion", "habitos", "negocios"},
			Units: []content.UnitPolicy{
				{Kind: models.UnitKindAudio, File: models.FileFieldAudio, FileRequired: true},
			},
		},
		Notice: notify.Template{
			Type:    "new_pack",
			Title:   "Nuevo pack de audios",
			Message: "Escucha el nuevo pack \"%s\".",
			DataKey: "pack_id",
		},
	},
}

// Lookup returns the definition of a vertical.
func Lookup(key string) (Definition, bool) {
	d, ok := definitions[key]
	return d, ok
}

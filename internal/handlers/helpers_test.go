// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"starbiz/internal/content"
	"starbiz/internal/inmem"
	"starbiz/internal/vertical"
)

// api is a content API over in-memory verticals: junior with a bucket and
// audio without one.
type api struct {
	router http.Handler
	junior *inmem.DB
	blobs  *inmem.Blobs
	ideas  *inmem.DB
}

func backend(t *testing.T, key string, blobs content.Blobs) (*vertical.Backend, *inmem.DB) {
	t.Helper()
	def, ok := vertical.Lookup(key)
	if !ok {
		t.Fatalf("unknown vertical %q", key)
	}
	db := inmem.Open()
	return vertical.New(def, vertical.Stores{
		Items:     inmem.NewItemStore(db),
		Units:     inmem.NewUnitStore(db),
		Materials: inmem.NewMaterialStore(db),
		Audience:  inmem.NewAudienceStore(db),
		Outbox:    inmem.NewNotificationStore(db),
		Stats:     inmem.NewStatsStore(db),
	}, blobs, nil), db
}

func newAPI(t *testing.T) *api {
	t.Helper()
	blobs := inmem.NewBlobs("https://s3.test/starbiz-junior")
	junior, jdb := backend(t, "junior", blobs)
	ideas, idb := backend(t, "ideas", inmem.NewBlobs("https://s3.test/starbiz-ideas"))
	audio, _ := backend(t, "audio", nil)

	reg := vertical.NewRegistry(junior, ideas, audio)
	c := NewContent(reg, nil)
	d := NewDashboard(reg, nil)

	r := chi.NewRouter()
	r.Get("/api/dashboard", d.Show)
	r.Route("/api/{vertical}", func(r chi.Router) {
		r.Use(c.Vertical)
		r.Get("/items", c.ListItems)
		r.Post("/items", c.CreateItem)
		r.Get("/items/{id}", c.GetItem)
		r.Put("/items/{id}", c.UpdateItem)
		r.Delete("/items/{id}", c.DeleteItem)
		r.Get("/items/{id}/units", c.ListUnits)
		r.Post("/items/{id}/units", c.CreateUnit)
		r.Get("/units/{id}", c.GetUnit)
		r.Put("/units/{id}", c.UpdateUnit)
		r.Delete("/units/{id}", c.DeleteUnit)
		r.Post("/units/{id}/move", c.MoveUnit)
		r.Get("/units/{id}/materials", c.ListMaterials)
		r.Post("/units/{id}/materials", c.CreateMaterial)
		r.Put("/materials/{id}", c.UpdateMaterial)
		r.Delete("/materials/{id}", c.DeleteMaterial)
	})

	return &api{router: r, junior: jdb, blobs: blobs, ideas: idb}
}

// part is one file of a multipart request.
type part struct {
	field, filename string
	data            []byte
}

// multipartRequest builds a multipart/form-data request.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(f.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (a *api) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

var mp4Bytes = append([]byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2"), make([]byte, 64)...)

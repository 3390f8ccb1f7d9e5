// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"starbiz/internal/content"
	"starbiz/internal/media"
	"starbiz/internal/models"
)

const (
	// maxRequestBody is the largest accepted request: one video plus the
	// form fields around it.
	maxRequestBody = 1<<30 + 10<<20

	// multipartMemory is how much of a multipart body is kept in memory
	// before parts spill to temporary files.
	multipartMemory = 32 << 20
)

// errBadBody marks a request body that could not be parsed as a form.
var errBadBody = errors.New("invalid request body")

// form is a parsed create/update request. Close releases uploaded parts.
type form struct {
	r     *http.Request
	files []multipart.File
}

// parseForm reads a multipart or urlencoded body, capped at maxRequestBody.
func parseForm(w http.ResponseWriter, r *http.Request) (*form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}
	return &form{r: r}, nil
}

func (f *form) Close() {
	for _, file := range f.files {
		file.Close()
	}
	if f.r.MultipartForm != nil {
		f.r.MultipartForm.RemoveAll()
	}
}

func (f *form) value(key string) string {
	return strings.TrimSpace(f.r.FormValue(key))
}

// file returns the uploaded part for key, or nil when none was sent.
func (f *form) file(key string) (*media.Upload, error) {
	if f.r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := f.r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.files = append(f.files, file)
	// Browsers send an empty, unnamed part when no file was picked.
	if header.Size == 0 && header.Filename == "" {
		return nil, nil
	}
	var body io.ReadSeeker = file
	return &media.Upload{Filename: header.Filename, Size: header.Size, Body: body}, nil
}

// delta combines the file part key with its clear_<name> flag.
func (f *form) delta(key, clearKey string) (content.FileDelta, *content.FieldError) {
	up, err := f.file(key)
	if err != nil {
		return content.FileDelta{}, &content.FieldError{Field: key, Error: "could not be read"}
	}
	drop, ferr := f.flag(clearKey)
	if ferr != nil {
		return content.FileDelta{}, ferr
	}
	if up != nil && drop {
		return content.FileDelta{}, &content.FieldError{Field: clearKey, Error: "cannot be combined with a new file"}
	}
	return content.FileDelta{New: up, Clear: drop}, nil
}

func (f *form) flag(key string) (bool, *content.FieldError) {
	v := f.value(key)
	switch strings.ToLower(v) {
	case "":
		return false, nil
	case "on":
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &content.FieldError{Field: key, Error: "must be true or false"}
	}
	return b, nil
}

// optional returns nil for an absent or blank field.
func (f *form) optional(key string) *string {
	v := f.value(key)
	if v == "" {
		return nil
	}
	return &v
}

// text is like optional but keeps surrounding whitespace, for Markdown.
func (f *form) text(key string) *string {
	v := f.r.FormValue(key)
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func (f *form) integer(key string) (*int, *content.FieldError) {
	v := f.value(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, &content.FieldError{Field: key, Error: "must be a whole number"}
	}
	return &n, nil
}

func (f *form) id(key string) (*uuid.UUID, *content.FieldError) {
	v := f.value(key)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, &content.FieldError{Field: key, Error: "must be a UUID"}
	}
	return &id, nil
}

// criteria decodes the exam criteria JSON, e.g. {"type":"min_score","score":70}.
func (f *form) criteria(key string) (*models.Criteria, *content.FieldError) {
	v := f.value(key)
	if v == "" {
		return nil, nil
	}
	var c models.Criteria
	if err := json.Unmarshal([]byte(v), &c); err != nil {
		return nil, &content.FieldError{Field: key, Error: err.Error()}
	}
	return &c, nil
}

// fieldErrs collects parse failures into one ValidationError.
type fieldErrs []content.FieldError

func (e *fieldErrs) check(fe *content.FieldError) {
	if fe != nil {
		*e = append(*e, *fe)
	}
}

func (e fieldErrs) err() error {
	if len(e) == 0 {
		return nil
	}
	return &content.ValidationError{Fields: e}
}

func itemInput(f *form) (content.ItemInput, error) {
	var errs fieldErrs
	published, fe := f.flag("is_published")
	errs.check(fe)
	return content.ItemInput{
		Title:       f.value("title"),
		Slug:        f.value("slug"),
		Description: f.optional("description"),
		Category:    f.value("category"),
		IsPublished: published,
	}, errs.err()
}

func unitInput(f *form) (content.UnitInput, error) {
	var errs fieldErrs
	parent, fe := f.id("parent_id")
	errs.check(fe)
	duration, fe := f.integer("duration_seconds")
	errs.check(fe)
	criteria, fe := f.criteria("criteria")
	errs.check(fe)
	return content.UnitInput{
		Kind:            models.UnitKind(f.value("kind")),
		ParentID:        parent,
		Title:           f.value("title"),
		Description:     f.optional("description"),
		Body:            f.text("body"),
		DurationSeconds: duration,
		Criteria:        criteria,
	}, errs.err()
}

func materialInput(f *form) content.MaterialInput {
	return content.MaterialInput{
		Type:        models.MaterialType(f.value("type")),
		Title:       f.value("title"),
		ExternalURL: f.value("external_url"),
	}
}

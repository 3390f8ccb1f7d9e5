// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media inspects uploaded files before they reach object storage.
// Content types are sniffed from the bytes, never trusted from the client,
// and checked against a per-field policy (size cap, allowed types, image
// dimensions).
package media

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // register WebP decoder

	"starbiz/internal/models"
)

// maxImagePixels caps the number of pixels to prevent memory bombs.
// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
const maxImagePixels = 100_000_000

// Upload errors. Callers match them with errors.Is.
var (
	ErrEmpty    = errors.New("media: file is empty")
	ErrTooLarge = errors.New("media: file too large")
	ErrType     = errors.New("media: file type not allowed")
	ErrImage    = errors.New("media: invalid image")
)

// Policy describes what a file field accepts.
type Policy struct {
	Name    string
	MaxSize int64
	// Types lists accepted MIME types. An entry ending in "/" matches any
	// subtype (e.g. "video/").
	Types []string
	Image bool // decode the header and enforce the pixel cap
}

// Field policies.
var (
	Cover = Policy{
		Name:    "cover",
		MaxSize: 5 << 20,
		Types:   []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		Image:   true,
	}
	Video = Policy{
		Name:    "video",
		MaxSize: 1 << 30,
		Types:   []string{"video/"},
	}
	Audio = Policy{
		Name:    "audio",
		MaxSize: 200 << 20,
		Types:   []string{"audio/"},
	}
	PDF = Policy{
		Name:    "pdf",
		MaxSize: 50 << 20,
		Types:   []string{"application/pdf"},
	}
	Picture = Policy{
		Name:    "image",
		MaxSize: 10 << 20,
		Types:   []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		Image:   true,
	}
)

// ForMaterial returns the policy for a material type. Links carry no file.
func ForMaterial(t models.MaterialType) (Policy, bool) {
	switch t {
	case models.MaterialTypePDF:
		return PDF, true
	case models.MaterialTypeImage:
		return Picture, true
	case models.MaterialTypeVideo:
		return Video, true
	case models.MaterialTypeAudio:
		return Audio, true
	}
	return Policy{}, false
}

// ForField returns the policy for a unit file field.
func ForField(f models.FileField) (Policy, bool) {
	switch f {
	case models.FileFieldVideo:
		return Video, true
	case models.FileFieldAudio:
		return Audio, true
	}
	return Policy{}, false
}

// Upload is a raw file as received from a client.
type Upload struct {
	Filename string
	Size     int64
	Body     io.ReadSeeker
}

// File is an upload that passed a policy check. Body is positioned at the
// start of the content.
type File struct {
	Filename    string
	ContentType string
	Ext         string
	Size        int64
	Body        io.ReadSeeker
}

// Inspect sniffs the upload and checks it against the policy.
func Inspect(u *Upload, p Policy) (*File, error) {
	if u == nil || u.Body == nil || u.Size == 0 {
		return nil, ErrEmpty
	}
	if p.MaxSize > 0 && u.Size > p.MaxSize {
		return nil, fmt.Errorf("%w: %s is limited to %d MB", ErrTooLarge, p.Name, p.MaxSize>>20)
	}

	mt, err := mimetype.DetectReader(u.Body)
	if err != nil {
		return nil, fmt.Errorf("detect type: %w", err)
	}
	if _, err := u.Body.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	contentType := baseType(mt.String())
	if !p.allows(mt) {
		return nil, fmt.Errorf("%w: %q for %s", ErrType, contentType, p.Name)
	}

	if p.Image {
		cfg, _, err := image.DecodeConfig(u.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImage, err)
		}
		if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxImagePixels {
			return nil, fmt.Errorf("%w: %dx%d exceeds the pixel limit", ErrImage, cfg.Width, cfg.Height)
		}
		if _, err := u.Body.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind upload: %w", err)
		}
	}

	ext := mt.Extension()
	if ext == "" {
		ext = filepath.Ext(u.Filename)
	}

	return &File{
		Filename:    u.Filename,
		ContentType: contentType,
		Ext:         strings.TrimPrefix(strings.ToLower(ext), "."),
		Size:        u.Size,
		Body:        u.Body,
	}, nil
}

// allows walks the detected type and its parents so aliases such as
// audio/x-m4a still match an "audio/" rule.
func (p Policy) allows(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		ct := baseType(m.String())
		for _, t := range p.Types {
			if strings.HasSuffix(t, "/") {
				if strings.HasPrefix(ct, t) {
					return true
				}
			} else if m.Is(t) {
				return true
			}
		}
	}
	return false
}

func baseType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

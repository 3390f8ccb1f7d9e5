// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inmem

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrNotOwned mirrors storage.ErrNotOwned.
var ErrNotOwned = errors.New("inmem: url is not owned by this bucket")

// Blobs is an in-memory bucket. URLs are Base + "/" + key.
type Blobs struct {
	Base string

	mu      sync.Mutex
	objects map[string][]byte
	uploads []string
	deletes []string

	FailUpload error
	FailDelete error
}

// NewBlobs returns an empty bucket served under base.
func NewBlobs(base string) *Blobs {
	return &Blobs{Base: strings.TrimRight(base, "/"), objects: make(map[string][]byte)}
}

// Upload stores body under key and returns its public URL.
func (b *Blobs) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads = append(b.uploads, key)
	if b.FailUpload != nil {
		return "", b.FailUpload
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	b.objects[key] = data
	return b.Base + "/" + key, nil
}

// Delete removes the object behind url. Foreign URLs return ErrNotOwned.
func (b *Blobs) Delete(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.owns(url) {
		return ErrNotOwned
	}
	b.deletes = append(b.deletes, url)
	if b.FailDelete != nil {
		return b.FailDelete
	}
	delete(b.objects, strings.TrimPrefix(url, b.Base+"/"))
	return nil
}

// Owns reports whether url points into this store.
func (b *Blobs) Owns(url string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owns(url)
}

func (b *Blobs) owns(url string) bool {
	return strings.HasPrefix(url, b.Base+"/")
}

// Has reports whether an object is stored under the URL.
func (b *Blobs) Has(url string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[strings.TrimPrefix(url, b.Base+"/")]
	return ok && b.owns(url)
}

// Uploads returns the keys of every upload attempt.
func (b *Blobs) Uploads() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.uploads...)
}

// Deletes returns the URLs of every delete attempt on owned objects.
func (b *Blobs) Deletes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deletes...)
}

// Len returns the number of stored objects.
func (b *Blobs) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"starbiz/internal/media"
	"starbiz/internal/metrics"
	"starbiz/internal/storage"
)

// Deps are the backends one vertical's workflows run against. Blobs and
// Notifier may be nil.
type Deps struct {
	Items     ItemStore
	Units     UnitStore
	Materials MaterialStore
	Blobs     Blobs
	Notifier  Notifier
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

type workflow struct {
	rules Rules
	deps  Deps
}

func (w *workflow) now() time.Time {
	if w.deps.Now != nil {
		return w.deps.Now()
	}
	return time.Now()
}

// inspect checks an upload against a policy, reporting failures against
// the named form field.
func inspect(field string, u *media.Upload, p media.Policy) (*media.File, error) {
	f, err := media.Inspect(u, p)
	if err != nil {
		return nil, &UploadError{Field: field, Err: err}
	}
	return f, nil
}

// upload stores f under {folder}/{owner}/{millis}.{ext} and returns its URL.
// Failures and empty URLs become a StorageError.
func (w *workflow) upload(ctx context.Context, folder, owner string, f *media.File) (string, error) {
	if w.deps.Blobs == nil {
		return "", &StorageError{Op: "upload", Err: ErrStorageDisabled}
	}

	key := storage.ObjectKey(folder, owner, w.now(), f.Ext)
	start := time.Now()
	url, err := w.deps.Blobs.Upload(ctx, key, f.ContentType, f.Body, f.Size)
	if err == nil && url == "" {
		err = errors.New("upload returned no url")
	}
	w.deps.Metrics.RecordUpload(w.rules.Vertical, folder, f.Size, time.Since(start), err)
	if err != nil {
		slog.Error("blob upload failed", "vertical", w.rules.Vertical, "key", key, "error", err)
		return "", &StorageError{Op: "upload", Err: err}
	}
	return url, nil
}

// discard deletes an owned blob. Failures are logged and counted, never
// returned: an orphaned blob is acceptable, a failed save is not.
func (w *workflow) discard(ctx context.Context, url *string) {
	if url == nil || *url == "" || w.deps.Blobs == nil || !w.deps.Blobs.Owns(*url) {
		return
	}
	err := w.deps.Blobs.Delete(ctx, *url)
	w.deps.Metrics.RecordBlobDelete(w.rules.Vertical, err)
	if err != nil {
		slog.Warn("blob delete failed", "vertical", w.rules.Vertical, "url", *url, "error", err)
	}
}

// replaceFile resolves a FileDelta against the current URL. It uploads a
// replacement before anything is deleted and returns the URL to persist
// plus the previous URL to discard once the save has committed.
func (w *workflow) replaceFile(
	ctx context.Context, field, folder, owner string,
	current *string, delta FileDelta, p media.Policy,
) (next, stale *string, err error) {
	switch {
	case delta.New != nil:
		f, err := inspect(field, delta.New, p)
		if err != nil {
			return nil, nil, err
		}
		url, err := w.upload(ctx, folder, owner, f)
		if err != nil {
			return nil, nil, err
		}
		return &url, current, nil
	case delta.Clear:
		return nil, current, nil
	default:
		return current, nil, nil
	}
}

func strPtr(s string) *string { return &s }

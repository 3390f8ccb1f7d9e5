// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Folders used inside each vertical's bucket.
const (
	FolderThumbnails = "thumbnails"
	FolderVideos     = "videos"
	FolderAudios     = "audios"
	FolderMaterials  = "materials"
)

// ObjectKey builds the object path {folder}/{owner}/{unixMillis}.{ext}.
// The same inputs always yield the same key.
func ObjectKey(folder, owner string, at time.Time, ext string) string {
	ext = strings.TrimLeft(strings.TrimSpace(ext), ".")
	if ext == "" {
		return fmt.Sprintf("%s/%s/%d", folder, owner, at.UnixMilli())
	}
	return fmt.Sprintf("%s/%s/%d.%s", folder, owner, at.UnixMilli(), strings.ToLower(ext))
}

// TempOwner returns a placeholder owner id for uploads that happen before
// the owning row exists.
func TempOwner() string {
	return "tmp-" + uuid.NewString()
}

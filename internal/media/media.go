// Copyright (c) 2026 SOYO. All rights reserved.

// Package media handles image uploads: validation, storage, and the avatar
// and story-cover lifecycles.
//
// # Architecture
//
// A single [Backend] interface abstracts where bytes live. The backend is
// chosen once at startup from configuration (local disk for development,
// S3-compatible object storage for production) and injected; no code path
// ever switches backends per request.
package media

import (
	"fmt"
	"time"
)

// MaxUploadBytes caps every image upload at 5MB.
const MaxUploadBytes = 5 << 20

// allowedTypes maps accepted MIME types (as sniffed from content, never
// trusted from headers) to the file extension used in storage keys.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectKind namespaces storage keys by what the image is for.
type ObjectKind string

const (
	KindAvatar ObjectKind = "avatar"
	KindCover  ObjectKind = "cover"
)

// buildKey constructs a collision-free storage key.
//
// The nanosecond timestamp makes consecutive uploads by the same user
// distinct, which matters because object deletion of the previous image is
// best-effort and may lag.
func buildKey(kind ObjectKind, userID, extension string) string {
	return fmt.Sprintf("%s_%s_%d%s", kind, userID, time.Now().UnixNano(), extension)
}

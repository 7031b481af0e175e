// Copyright (c) 2026 SOYO. All rights reserved.

package media

import "context"

// Backend is the storage contract behind every image the platform serves.
//
// # Implementations
//   - [LocalBackend]: files on the API host's disk, for development.
//   - [S3Backend]: an S3-compatible bucket, for production.
type Backend interface {
	// Store writes the object and returns the public URL it is served from.
	Store(ctx context.Context, key, contentType string, data []byte) (url string, err error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

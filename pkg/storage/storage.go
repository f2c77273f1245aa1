package storage

import "context"

// ObjectStore is the remote blob store the sync engine uploads photo and
// audio payloads to. Implementations must return a stable public URL for
// every successful upload.
type ObjectStore interface {
	// Upload writes bytes under path and returns the public URL.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// PublicURL returns the public URL an already-uploaded object is served from.
	PublicURL(path string) string
}

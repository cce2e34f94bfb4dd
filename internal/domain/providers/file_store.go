package providers

import "context"

// FileStore defines the interface for profile-photo object storage
type FileStore interface {
	// Upload stores a blob under the given key and returns its public URL
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

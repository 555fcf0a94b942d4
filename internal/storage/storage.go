// Package storage persists uploaded images and resolves them to public URLs.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ImageStore saves image bytes under a generated key.
type ImageStore interface {
	Save(ctx context.Context, prefix string, data []byte, contentType, ext string) (string, error)
	Delete(ctx context.Context, key string) error
	// URL resolves a key to an absolute location; an empty key yields "".
	URL(key string) string
}

// NewKey builds an object key like "recipes/images/<uuid>.png".
func NewKey(prefix, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(prefix, fmt.Sprintf("%s%s", uuid.NewString(), ext))
}

// validKey rejects keys that could escape the storage root.
func validKey(key string) error {
	clean := path.Clean("/" + key)
	if key == "" || clean != "/"+key || strings.Contains(key, "..") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

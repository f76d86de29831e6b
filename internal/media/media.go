// Package media uploads post images to Cloudinary and removes abandoned
// assets best-effort in the background.
package media

import (
	"context"
	"io"
	"strings"

	"inkwell/internal/errors"
)

// MaxImageBytes is the upload size ceiling, enforced before any network call.
const MaxImageBytes = 5 << 20 // 5 MiB

// AttachmentRef is a stable reference to a stored image: the delivery URL plus
// the store-side public id needed to delete it later.
type AttachmentRef struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Store defines media storage operations. Remove is asynchronous and
// best-effort: a failed delete is logged, never surfaced, because it must not
// block the user action that triggered it.
type Store interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (*AttachmentRef, error)
	Remove(publicID string)
	DeliveryURL(publicID string) (string, error)
}

// ValidateUpload rejects non-image content types and oversized payloads.
func ValidateUpload(size int64, contentType string) error {
	if !strings.HasPrefix(contentType, "image/") {
		return errors.ErrNotAnImage
	}
	if size > MaxImageBytes {
		return errors.ErrImageTooLarge
	}
	return nil
}

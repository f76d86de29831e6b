package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"inkwell/internal/errors"
)

const (
	uploadFolder  = "blogs"
	uploadTimeout = 30 * time.Second
	removeTimeout = 10 * time.Second
)

// CloudinaryStore stores images in Cloudinary. Deletions are queued onto a
// background worker so a slow or unreachable media host never delays the
// request that triggered the cleanup.
type CloudinaryStore struct {
	cld     *cloudinary.Cloudinary
	removes chan string
}

// Ensure CloudinaryStore implements Store
var _ Store = (*CloudinaryStore)(nil)

// NewCloudinaryStore creates a store from a CLOUDINARY_URL-style URL and
// starts the cleanup worker.
func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}

	s := &CloudinaryStore{
		cld:     cld,
		removes: make(chan string, 100),
	}
	go s.removeWorker(context.Background())
	return s, nil
}

// Upload validates and uploads an image, returning its attachment reference.
func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (*AttachmentRef, error) {
	if err := ValidateUpload(size, contentType); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: uploadFolder})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrUploadFailed, err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("%w: %s", errors.ErrUploadFailed, res.Error.Message)
	}

	return &AttachmentRef{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Remove queues deletion of a no-longer-referenced asset. When the queue is
// full the delete runs inline, still best-effort.
func (s *CloudinaryStore) Remove(publicID string) {
	if publicID == "" {
		return
	}
	select {
	case s.removes <- publicID:
	default:
		s.destroy(context.Background(), publicID)
	}
}

// DeliveryURL derives the delivery URL for a bare public id. Used to
// normalize legacy records that stored only the id.
func (s *CloudinaryStore) DeliveryURL(publicID string) (string, error) {
	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("build image url: %w", err)
	}
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("build image url: %w", err)
	}
	return url, nil
}

// removeWorker drains queued deletions.
func (s *CloudinaryStore) removeWorker(ctx context.Context) {
	for {
		select {
		case publicID, ok := <-s.removes:
			if !ok {
				return
			}
			s.destroy(ctx, publicID)
		case <-ctx.Done():
			return
		}
	}
}

// destroy deletes one asset, logging failures instead of propagating them.
func (s *CloudinaryStore) destroy(ctx context.Context, publicID string) {
	ctx, cancel := context.WithTimeout(ctx, removeTimeout)
	defer cancel()

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		log.Printf("media: delete %s: %v", publicID, err)
		return
	}
	if res.Result != "ok" && res.Result != "not found" {
		log.Printf("media: delete %s: %s", publicID, res.Result)
	}
}

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inkwell/internal/cache"
	"inkwell/internal/errors"
	"inkwell/internal/media"
	"inkwell/internal/model"
	"inkwell/internal/repository"
)

const postCacheTTL = 1 * time.Minute

// PostInput carries the fields for creating a post. All are required.
type PostInput struct {
	Title       string
	Description string
	Content     string
	Category    string
}

// PostPatch carries a partial update: empty fields are left untouched.
type PostPatch struct {
	Title       string
	Description string
	Content     string
	Category    string
}

// ImageUpload is an in-flight image from a multipart request.
type ImageUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

// PostService orchestrates the post lifecycle: creation, edits and deletion,
// with ownership enforcement and image sequencing against the media store.
type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, in PostInput, image *ImageUpload) (*model.Post, error)
	UpdatePost(ctx context.Context, actingUserID, postID uuid.UUID, patch PostPatch, image *ImageUpload, removeImage bool) (*model.Post, error)
	DeletePost(ctx context.Context, actingUserID, postID uuid.UUID) error
	GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error)
	ListPosts(ctx context.Context, filter repository.PostFilter) ([]model.Post, error)
	ImageURL(publicID string) (string, error)
}

type postService struct {
	postRepo repository.PostRepository
	media    media.Store
	cache    *cache.Client
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, mediaStore media.Store, cache *cache.Client) PostService {
	return &postService{
		postRepo: postRepo,
		media:    mediaStore,
		cache:    cache,
	}
}

// CreatePost validates the fields, uploads the image first when one is
// supplied, and persists the post. A failed insert removes the fresh upload so
// neither an orphan post nor a dangling asset survives the failure.
func (s *postService) CreatePost(ctx context.Context, authorID uuid.UUID, in PostInput, image *ImageUpload) (*model.Post, error) {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Content) == "" ||
		strings.TrimSpace(in.Category) == "" {
		return nil, errors.ErrMissingFields
	}

	post := &model.Post{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Category:    in.Category,
		AuthorID:    authorID,
	}

	if image != nil {
		ref, err := s.media.Upload(ctx, image.Reader, image.Size, image.ContentType)
		if err != nil {
			return nil, err
		}
		post.ImageURL = ref.URL
		post.ImagePublicID = ref.PublicID
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if post.ImagePublicID != "" {
			s.media.Remove(post.ImagePublicID)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	created, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return post, nil
	}
	return created, nil
}

// UpdatePost applies a partial update after the ownership check. Image
// precedence: a new upload wins over the remove flag; absent both, the image
// stays. Replaced or cleared assets are scheduled for removal only after the
// row is saved.
func (s *postService) UpdatePost(ctx context.Context, actingUserID, postID uuid.UUID, patch PostPatch, image *ImageUpload, removeImage bool) (*model.Post, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actingUserID {
		return nil, errors.ErrNotPostOwner
	}

	if patch.Title != "" {
		post.Title = patch.Title
	}
	if patch.Description != "" {
		post.Description = patch.Description
	}
	if patch.Content != "" {
		post.Content = patch.Content
	}
	if patch.Category != "" {
		post.Category = patch.Category
	}

	oldPublicID := ""
	switch {
	case image != nil:
		ref, err := s.media.Upload(ctx, image.Reader, image.Size, image.ContentType)
		if err != nil {
			return nil, err
		}
		oldPublicID = post.ImagePublicID
		post.ImageURL = ref.URL
		post.ImagePublicID = ref.PublicID
	case removeImage:
		oldPublicID = post.ImagePublicID
		post.ImageURL = ""
		post.ImagePublicID = ""
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if oldPublicID != "" {
		s.media.Remove(oldPublicID)
	}
	s.invalidate(ctx, postID)

	return post, nil
}

// DeletePost removes the post after the ownership check and schedules removal
// of its attached image.
func (s *postService) DeletePost(ctx context.Context, actingUserID, postID uuid.UUID) error {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actingUserID {
		return errors.ErrNotPostOwner
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if post.ImagePublicID != "" {
		s.media.Remove(post.ImagePublicID)
	}
	s.invalidate(ctx, postID)
	return nil
}

// GetPost reads a post through the cache, normalizing its image reference.
func (s *postService) GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	key := postCacheKey(id)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		if cached := decodePost(data); cached != nil {
			return cached, nil
		}
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}
	s.normalizeImage(post)

	if data := encodePost(post); data != nil {
		_ = s.cache.Set(ctx, key, data, postCacheTTL)
	}
	return post, nil
}

// ListPosts returns posts matching the filter, newest first.
func (s *postService) ListPosts(ctx context.Context, filter repository.PostFilter) ([]model.Post, error) {
	posts, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	for i := range posts {
		s.normalizeImage(&posts[i])
	}
	return posts, nil
}

// ImageURL resolves a bare image public id to its delivery URL.
func (s *postService) ImageURL(publicID string) (string, error) {
	return s.media.DeliveryURL(publicID)
}

func (s *postService) findPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}

// normalizeImage derives the delivery URL for legacy records that stored only
// the bare public id.
func (s *postService) normalizeImage(post *model.Post) {
	if post.ImagePublicID != "" && post.ImageURL == "" {
		if url, err := s.media.DeliveryURL(post.ImagePublicID); err == nil {
			post.ImageURL = url
		}
	}
}

func (s *postService) invalidate(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, postCacheKey(id))
}

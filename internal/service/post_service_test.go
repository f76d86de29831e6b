package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"inkwell/internal/errors"
	"inkwell/internal/media"
	"inkwell/internal/model"
	"inkwell/internal/repository"
)

// MockPostRepository is a mock implementation of PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Save(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, filter repository.PostFilter) ([]model.Post, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockMediaStore is a mock implementation of media.Store.
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (*media.AttachmentRef, error) {
	args := m.Called(ctx, r, size, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.AttachmentRef), args.Error(1)
}

func (m *MockMediaStore) Remove(publicID string) {
	m.Called(publicID)
}

func (m *MockMediaStore) DeliveryURL(publicID string) (string, error) {
	args := m.Called(publicID)
	return args.String(0), args.Error(1)
}

func validInput() PostInput {
	return PostInput{
		Title:       "A Title",
		Description: "A description",
		Content:     "Some content",
		Category:    "Tech",
	}
}

func testImage() *ImageUpload {
	return &ImageUpload{
		Reader:      strings.NewReader("fake-image-bytes"),
		Size:        16,
		ContentType: "image/png",
	}
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input PostInput
	}{
		{"missing title", PostInput{Description: "d", Content: "c", Category: "x"}},
		{"missing description", PostInput{Title: "t", Content: "c", Category: "x"}},
		{"missing content", PostInput{Title: "t", Description: "d", Category: "x"}},
		{"missing category", PostInput{Title: "t", Description: "d", Content: "c"}},
		{"whitespace only title", PostInput{Title: "   ", Description: "d", Content: "c", Category: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			mockMedia := new(MockMediaStore)

			service := NewPostService(mockRepo, mockMedia, nil)
			post, err := service.CreatePost(context.Background(), uuid.New(), tt.input, nil)

			assert.ErrorIs(t, err, errors.ErrMissingFields)
			assert.Nil(t, post)
			mockRepo.AssertNotCalled(t, "Create")
			mockMedia.AssertNotCalled(t, "Upload")
		})
	}
}

func TestPostService_CreatePost(t *testing.T) {
	authorID := uuid.New()

	t.Run("success without image", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
		mockRepo.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
			Return(&model.Post{Title: "A Title", AuthorID: authorID}, nil)

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.CreatePost(context.Background(), authorID, validInput(), nil)

		assert.NoError(t, err)
		assert.NotNil(t, post)
		assert.Equal(t, authorID, post.AuthorID)
		mockMedia.AssertNotCalled(t, "Upload")
		mockRepo.AssertExpectations(t)
	})

	t.Run("image uploads before the post is persisted", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		ref := &media.AttachmentRef{URL: "https://cdn/img.png", PublicID: "blogs/abc"}
		mockMedia.On("Upload", mock.Anything, mock.Anything, int64(16), "image/png").Return(ref, nil)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
			// By the time the insert runs, the post must already carry the ref.
			return p.ImagePublicID == "blogs/abc" && p.ImageURL == "https://cdn/img.png"
		})).Return(nil)
		mockRepo.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
			Return(&model.Post{ImageURL: ref.URL, ImagePublicID: ref.PublicID}, nil)

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.CreatePost(context.Background(), authorID, validInput(), testImage())

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn/img.png", post.ImageURL)
		mockRepo.AssertExpectations(t)
		mockMedia.AssertExpectations(t)
	})

	t.Run("upload failure aborts creation", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		mockMedia.On("Upload", mock.Anything, mock.Anything, int64(16), "image/png").
			Return(nil, errors.ErrUploadFailed)

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.CreatePost(context.Background(), authorID, validInput(), testImage())

		assert.ErrorIs(t, err, errors.ErrUploadFailed)
		assert.Nil(t, post)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("persist failure removes the fresh upload", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		ref := &media.AttachmentRef{URL: "https://cdn/img.png", PublicID: "blogs/abc"}
		mockMedia.On("Upload", mock.Anything, mock.Anything, int64(16), "image/png").Return(ref, nil)
		mockMedia.On("Remove", "blogs/abc").Return()
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(gorm.ErrInvalidDB)

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.CreatePost(context.Background(), authorID, validInput(), testImage())

		assert.Error(t, err)
		assert.Nil(t, post)
		mockMedia.AssertCalled(t, "Remove", "blogs/abc")
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	ownerID := uuid.New()
	postID := uuid.New()

	existing := func() *model.Post {
		return &model.Post{
			ID:            postID,
			Title:         "Old Title",
			Description:   "Old description",
			Content:       "Old content",
			Category:      "Food",
			ImageURL:      "https://cdn/old.png",
			ImagePublicID: "blogs/old",
			AuthorID:      ownerID,
		}
	}

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		mockRepo.On("FindByID", mock.Anything, postID).Return(nil, gorm.ErrRecordNotFound)

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.UpdatePost(context.Background(), ownerID, postID, PostPatch{Title: "New"}, nil, false)

		assert.ErrorIs(t, err, errors.ErrPostNotFound)
		assert.Nil(t, post)
	})

	t.Run("non-owner is forbidden and nothing is saved", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		mockRepo.On("FindByID", mock.Anything, postID).Return(existing(), nil)

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.UpdatePost(context.Background(), uuid.New(), postID, PostPatch{Title: "Hijack"}, nil, false)

		assert.ErrorIs(t, err, errors.ErrNotPostOwner)
		assert.Nil(t, post)
		mockRepo.AssertNotCalled(t, "Save")
		mockMedia.AssertNotCalled(t, "Upload")
	})

	t.Run("partial update changes only supplied fields", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		mockRepo.On("FindByID", mock.Anything, postID).Return(existing(), nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.UpdatePost(context.Background(), ownerID, postID, PostPatch{Title: "New Title"}, nil, false)

		assert.NoError(t, err)
		assert.Equal(t, "New Title", post.Title)
		assert.Equal(t, "Old description", post.Description)
		assert.Equal(t, "Old content", post.Content)
		assert.Equal(t, "Food", post.Category)
		assert.Equal(t, "https://cdn/old.png", post.ImageURL)
		mockMedia.AssertNotCalled(t, "Remove")
	})

	t.Run("new image replaces and schedules deletion of the old one", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		ref := &media.AttachmentRef{URL: "https://cdn/new.png", PublicID: "blogs/new"}
		mockRepo.On("FindByID", mock.Anything, postID).Return(existing(), nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
		mockMedia.On("Upload", mock.Anything, mock.Anything, int64(16), "image/png").Return(ref, nil)
		mockMedia.On("Remove", "blogs/old").Return()

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.UpdatePost(context.Background(), ownerID, postID, PostPatch{}, testImage(), false)

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn/new.png", post.ImageURL)
		assert.Equal(t, "blogs/new", post.ImagePublicID)
		mockMedia.AssertCalled(t, "Remove", "blogs/old")
	})

	t.Run("remove flag clears the image and schedules deletion", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		mockRepo.On("FindByID", mock.Anything, postID).Return(existing(), nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
		mockMedia.On("Remove", "blogs/old").Return()

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.UpdatePost(context.Background(), ownerID, postID, PostPatch{}, nil, true)

		assert.NoError(t, err)
		assert.Empty(t, post.ImageURL)
		assert.Empty(t, post.ImagePublicID)
		mockMedia.AssertCalled(t, "Remove", "blogs/old")
	})

	t.Run("new image wins over the remove flag", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		ref := &media.AttachmentRef{URL: "https://cdn/new.png", PublicID: "blogs/new"}
		mockRepo.On("FindByID", mock.Anything, postID).Return(existing(), nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
		mockMedia.On("Upload", mock.Anything, mock.Anything, int64(16), "image/png").Return(ref, nil)
		mockMedia.On("Remove", "blogs/old").Return()

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.UpdatePost(context.Background(), ownerID, postID, PostPatch{}, testImage(), true)

		assert.NoError(t, err)
		assert.Equal(t, "blogs/new", post.ImagePublicID)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	ownerID := uuid.New()
	postID := uuid.New()

	t.Run("non-owner is forbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		mockRepo.On("FindByID", mock.Anything, postID).Return(&model.Post{ID: postID, AuthorID: ownerID}, nil)

		service := NewPostService(mockRepo, mockMedia, nil)
		err := service.DeletePost(context.Background(), uuid.New(), postID)

		assert.ErrorIs(t, err, errors.ErrNotPostOwner)
		mockRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("delete schedules removal of the attached image", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		mockRepo.On("FindByID", mock.Anything, postID).Return(&model.Post{
			ID:            postID,
			AuthorID:      ownerID,
			ImagePublicID: "blogs/gone",
		}, nil)
		mockRepo.On("Delete", mock.Anything, postID).Return(nil)
		mockMedia.On("Remove", "blogs/gone").Return()

		service := NewPostService(mockRepo, mockMedia, nil)
		err := service.DeletePost(context.Background(), ownerID, postID)

		assert.NoError(t, err)
		mockMedia.AssertCalled(t, "Remove", "blogs/gone")
	})
}

func TestPostService_Normalization(t *testing.T) {
	t.Run("legacy bare-id records get a derived URL on read", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		id := uuid.New()
		mockRepo.On("FindByID", mock.Anything, id).Return(&model.Post{
			ID:            id,
			ImagePublicID: "blogs/legacy",
		}, nil)
		mockMedia.On("DeliveryURL", "blogs/legacy").Return("https://cdn/blogs/legacy", nil)

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.GetPost(context.Background(), id)

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn/blogs/legacy", post.ImageURL)
	})

	t.Run("structured records are untouched", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockMedia := new(MockMediaStore)
		id := uuid.New()
		mockRepo.On("FindByID", mock.Anything, id).Return(&model.Post{
			ID:            id,
			ImageURL:      "https://cdn/already.png",
			ImagePublicID: "blogs/already",
		}, nil)

		service := NewPostService(mockRepo, mockMedia, nil)
		post, err := service.GetPost(context.Background(), id)

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn/already.png", post.ImageURL)
		mockMedia.AssertNotCalled(t, "DeliveryURL")
	})
}

func TestPostService_ListPosts(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockMedia := new(MockMediaStore)
	filter := repository.PostFilter{Search: "atlas", Category: "travel"}
	mockRepo.On("List", mock.Anything, filter).Return([]model.Post{
		{Title: "Hiking the High Atlas", Category: "Travel"},
	}, nil)

	service := NewPostService(mockRepo, mockMedia, nil)
	posts, err := service.ListPosts(context.Background(), filter)

	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	mockRepo.AssertExpectations(t)
}

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inkwell/internal/cache"
	"inkwell/internal/errors"
	"inkwell/internal/model"
	"inkwell/internal/repository"
)

// EngagementService manages the like toggle and comments on posts.
type EngagementService interface {
	ToggleLike(ctx context.Context, actingUserID, postID uuid.UUID) (liked bool, likeCount int64, err error)
	AddComment(ctx context.Context, actingUserID uuid.UUID, actingUserName string, postID uuid.UUID, text string) (*model.Comment, error)
	DeleteComment(ctx context.Context, actingUserID, postID, commentID uuid.UUID) error
}

type engagementService struct {
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	cache       *cache.Client
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	cache *cache.Client,
) EngagementService {
	return &engagementService{
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		cache:       cache,
	}
}

// ToggleLike flips the acting user's membership in the post's like set.
// Applying it twice returns the set to its original state.
func (s *engagementService) ToggleLike(ctx context.Context, actingUserID, postID uuid.UUID) (bool, int64, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return false, 0, err
	}

	liked, count, err := s.likeRepo.Toggle(ctx, postID, actingUserID)
	if err != nil {
		return false, 0, fmt.Errorf("toggle like: %w", err)
	}
	s.invalidate(ctx, postID)
	return liked, count, nil
}

// AddComment appends a comment with the author's name captured at write time.
func (s *engagementService) AddComment(ctx context.Context, actingUserID uuid.UUID, actingUserName string, postID uuid.UUID, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.ErrEmptyComment
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:         uuid.New(),
		PostID:     postID,
		UserID:     actingUserID,
		AuthorName: actingUserName,
		Text:       text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	s.invalidate(ctx, postID)
	return comment, nil
}

// DeleteComment removes a comment; only its author may do so.
func (s *engagementService) DeleteComment(ctx context.Context, actingUserID, postID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrCommentNotFound
		}
		return fmt.Errorf("find comment: %w", err)
	}
	if comment.PostID != postID {
		return errors.ErrCommentNotFound
	}
	if comment.UserID != actingUserID {
		return errors.ErrNotCommentOwner
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	s.invalidate(ctx, postID)
	return nil
}

func (s *engagementService) requirePost(ctx context.Context, postID uuid.UUID) error {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("check post: %w", err)
	}
	if !exists {
		return errors.ErrPostNotFound
	}
	return nil
}

func (s *engagementService) invalidate(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, postCacheKey(id))
}

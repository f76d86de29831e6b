package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/internal/model"
)

// LikeRepository defines like-set persistence operations.
type LikeRepository interface {
	// Toggle flips the user's membership in the post's like set and returns
	// the resulting membership and count.
	Toggle(ctx context.Context, postID, userID uuid.UUID) (liked bool, count int64, err error)
	Count(ctx context.Context, postID uuid.UUID) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle runs delete-then-insert inside one transaction. The composite primary
// key on (post_id, user_id) makes a concurrent duplicate insert a no-op, so
// two racing toggles from the same user cannot double-count, and toggles from
// different users never overwrite each other.
func (r *likeRepository) Toggle(ctx context.Context, postID, userID uuid.UUID) (liked bool, count int64, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&model.Like{PostID: postID, UserID: userID})
			if ins.Error != nil {
				return ins.Error
			}
			liked = true
		}
		return tx.Model(&model.Like{}).Where("post_id = ?", postID).Count(&count).Error
	})
	return liked, count, err
}

// Count returns the number of likes on a post.
func (r *likeRepository) Count(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// CommentRepository defines comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create appends a new comment.
func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// FindByID finds a comment by ID.
func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a comment.
func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{}).Error
}

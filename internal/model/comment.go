package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a comment on a post. AuthorName is denormalized at write time so
// reads never join against users.
type Comment struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	PostID     uuid.UUID `json:"post_id" gorm:"type:char(36);not null;index"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:char(36);not null"`
	AuthorName string    `json:"author_name" gorm:"size:255;not null"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

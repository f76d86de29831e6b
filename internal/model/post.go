package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a published blog post. The image reference is stored as the
// structured pair (delivery URL, media store public id); historical records may
// carry only the public id and get their URL derived on read.
type Post struct {
	ID            uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title         string    `json:"title" gorm:"size:255;not null"`
	Description   string    `json:"description" gorm:"size:1024;not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	Category      string    `json:"category" gorm:"size:100;not null;index"`
	ImageURL      string    `json:"image_url,omitempty" gorm:"size:512"`
	ImagePublicID string    `json:"-" gorm:"size:255"`
	AuthorID      uuid.UUID `json:"author_id" gorm:"type:char(36);not null;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Author   User      `json:"author" gorm:"foreignKey:AuthorID"`
	Likes    []Like    `json:"likes" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Comments []Comment `json:"comments" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// LikeCount returns the number of users currently liking the post.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// LikedBy reports whether the given user is in the post's like set.
func (p *Post) LikedBy(userID uuid.UUID) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Like records one user liking one post. The composite primary key gives the
// like set its no-duplicates guarantee at the schema level.
type Like struct {
	PostID    uuid.UUID `json:"post_id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

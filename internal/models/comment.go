package models

import "time"

// Comment represents a comment on a post (PostgreSQL).
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"size:64;index"`
	AuthorID  string    `json:"author_id" gorm:"size:128;index"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

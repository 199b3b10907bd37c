package models

import "time"

// Notification types produced by user interactions.
const (
	NotificationTypeLike          = "like"
	NotificationTypeComment       = "comment"
	NotificationTypeHeartReaction = "heart_reaction"
)

// Notification represents a recipient-facing interaction record (PostgreSQL),
// distinct from the push message derived from it.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"` // like, comment, heart_reaction
	SenderID    string    `json:"sender_id" gorm:"size:128;index"`
	RecipientID string    `json:"recipient_id" gorm:"size:128;index"`
	PostID      string    `json:"post_id"` // deep-link target for the client
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// SendPushRequest is the body of the standalone push-send endpoint.
type SendPushRequest struct {
	RecipientID string            `json:"recipient_id" validate:"required"`
	Message     string            `json:"message" validate:"required,max=500"`
	Type        string            `json:"type" validate:"required,oneof=like comment heart_reaction"`
	Metadata    map[string]string `json:"metadata"`
}

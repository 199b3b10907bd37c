package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage represents a message in a group support room (MongoDB).
// Real-time fan-out to room members is handled outside this service; the
// backend stores messages and awards participation points.
type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomID    string             `bson:"room_id" json:"room_id"`
	SenderID  string             `bson:"sender_id" json:"sender_id"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type SendChatMessageRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

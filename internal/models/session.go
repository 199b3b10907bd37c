package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeditationSession records a completed guided session with mood tracking (MongoDB).
type MeditationSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Kind        string             `bson:"kind" json:"kind"` // breathing, body_scan, guided
	DurationSec int                `bson:"duration_sec" json:"duration_sec"`
	MoodBefore  int                `bson:"mood_before" json:"mood_before"`
	MoodAfter   int                `bson:"mood_after" json:"mood_after"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

type CompleteSessionRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=breathing body_scan guided"`
	DurationSec int    `json:"duration_sec" validate:"required,min=1,max=7200"`
	MoodBefore  int    `json:"mood_before" validate:"required,min=1,max=5"`
	MoodAfter   int    `json:"mood_after" validate:"required,min=1,max=5"`
}

package models

import "time"

// ProfileStats holds the per-action counters shown on a user's profile.
type ProfileStats struct {
	PostsCount         int `bson:"posts_count" json:"posts_count"`
	CommentsCount      int `bson:"comments_count" json:"comments_count"`
	LikesGivenCount    int `bson:"likes_given_count" json:"likes_given_count"`
	LikesReceivedCount int `bson:"likes_received_count" json:"likes_received_count"`
}

// Profile represents a user's gamification and push-preference document (MongoDB).
// The document id is the auth provider uid. Points never go below zero and
// Level is always derived from Points via the level thresholds.
type Profile struct {
	ID          string       `bson:"_id" json:"id"`
	DisplayName string       `bson:"display_name" json:"display_name"`
	Points      int          `bson:"points" json:"points"`
	Level       int          `bson:"level" json:"level"`
	Stats       ProfileStats `bson:"stats" json:"stats"`
	PushToken   string       `bson:"push_token,omitempty" json:"-"` // opaque FCM registration token, never exposed
	PushEnabled bool         `bson:"push_enabled" json:"push_enabled"`
	CreatedAt   time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at" json:"updated_at"`
}

type BootstrapProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
}

type RegisterPushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

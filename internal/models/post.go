package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a feed post (MongoDB). LikedBy and HeartedBy are maintained
// with set semantics so a user can appear at most once in each.
type Post struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID      string             `bson:"author_id" json:"author_id"`
	Content       string             `bson:"content" json:"content"`
	LikedBy       []string           `bson:"liked_by" json:"-"`
	HeartedBy     []string           `bson:"hearted_by" json:"-"`
	LikesCount    int                `bson:"likes_count" json:"likes_count"`
	CommentsCount int                `bson:"comments_count" json:"comments_count"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

type CreatePostRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

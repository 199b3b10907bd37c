package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/mindnest/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	AddLike(ctx context.Context, postID, userID string) (bool, error)
	RemoveLike(ctx context.Context, postID, userID string) (bool, error)
	AddHeart(ctx context.Context, postID, userID string) (bool, error)
	RemoveHeart(ctx context.Context, postID, userID string) (bool, error)
	IncrementCommentsCount(ctx context.Context, postID string) error
	DecrementCommentsCount(ctx context.Context, postID string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("post not found")
		}
		return nil, err
	}
	return &post, nil
}

// GetAllPosts retrieves all posts from MongoDB with pagination
func (r *MongoPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// addToSet appends userID to the named set field and bumps the paired counter
// in one request; the filter excludes documents already holding userID so the
// set and the counter can never drift. Returns false when already present.
func (r *MongoPostRepository) addToSet(ctx context.Context, postID, userID, field, counter string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return false, fmt.Errorf("invalid post ID format: %w", err)
	}
	update := bson.M{"$addToSet": bson.M{field: userID}}
	if counter != "" {
		update["$inc"] = bson.M{counter: 1}
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID, field: bson.M{"$ne": userID}}, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount != 0, nil
}

func (r *MongoPostRepository) pullFromSet(ctx context.Context, postID, userID, field, counter string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return false, fmt.Errorf("invalid post ID format: %w", err)
	}
	update := bson.M{"$pull": bson.M{field: userID}}
	if counter != "" {
		update["$inc"] = bson.M{counter: -1}
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID, field: userID}, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount != 0, nil
}

// AddLike records userID in the post's like set. Returns false when already liked.
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID string) (bool, error) {
	return r.addToSet(ctx, postID, userID, "liked_by", "likes_count")
}

// RemoveLike removes userID from the post's like set. Returns false when no like existed.
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	return r.pullFromSet(ctx, postID, userID, "liked_by", "likes_count")
}

// AddHeart records userID in the post's heart-reaction set.
func (r *MongoPostRepository) AddHeart(ctx context.Context, postID, userID string) (bool, error) {
	return r.addToSet(ctx, postID, userID, "hearted_by", "")
}

// RemoveHeart removes userID from the post's heart-reaction set.
func (r *MongoPostRepository) RemoveHeart(ctx context.Context, postID, userID string) (bool, error) {
	return r.pullFromSet(ctx, postID, userID, "hearted_by", "")
}

// IncrementCommentsCount increments the comments count of a post
func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, postID string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"comments_count": 1}})
	return err
}

// DecrementCommentsCount decrements the comments count of a post
func (r *MongoPostRepository) DecrementCommentsCount(ctx context.Context, postID string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"comments_count": -1}})
	return err
}

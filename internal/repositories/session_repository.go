package repositories

import (
	"context"
	"time"

	"github.com/mindnest/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepository defines the interface for meditation session storage
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.MeditationSession) error
	GetByUserID(ctx context.Context, userID string, limit int64) ([]models.MeditationSession, error)
}

// MongoSessionRepository implements SessionRepository for MongoDB
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoSessionRepository
func NewMongoSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{collection: db.Collection("sessions")}
}

// CreateSession stores a completed meditation session
func (r *MongoSessionRepository) CreateSession(ctx context.Context, session *models.MeditationSession) error {
	session.ID = primitive.NewObjectID()
	session.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

// GetByUserID returns a user's recent sessions, newest first
func (r *MongoSessionRepository) GetByUserID(ctx context.Context, userID string, limit int64) ([]models.MeditationSession, error) {
	var sessions []models.MeditationSession
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/mindnest/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrProfileNotFound indicates the user has no profile document.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
	ApplyPointsDelta(ctx context.Context, userID string, points, level int, statsField string, statsDelta int) error
	SavePushToken(ctx context.Context, userID, token string) error
	ClearPushToken(ctx context.Context, userID string) error
	SetPushEnabled(ctx context.Context, userID string, enabled bool) error
}

// MongoProfileRepository implements ProfileRepository for MongoDB.
type MongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new MongoProfileRepository.
func NewMongoProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{collection: db.Collection("profiles")}
}

// GetProfile retrieves a profile by user ID.
func (r *MongoProfileRepository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// CreateProfile inserts the profile document created at first sign-in.
// Inserting an existing user ID is an error; callers check GetProfile first.
func (r *MongoProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, profile)
	return err
}

// ApplyPointsDelta persists a ledger step as one request: points and level are
// set absolutely, the stats counter moves via $inc. Concurrent actions on the
// same profile resolve last-write-wins on points/level while counter
// increments always accumulate.
func (r *MongoProfileRepository) ApplyPointsDelta(ctx context.Context, userID string, points, level int, statsField string, statsDelta int) error {
	update := bson.M{
		"$set": bson.M{
			"points":     points,
			"level":      level,
			"updated_at": time.Now(),
		},
	}
	if statsField != "" && statsDelta != 0 {
		update["$inc"] = bson.M{"stats." + statsField: statsDelta}
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SavePushToken stores a registration token and enables push in one request.
func (r *MongoProfileRepository) SavePushToken(ctx context.Context, userID, token string) error {
	update := bson.M{
		"$set": bson.M{
			"push_token":   token,
			"push_enabled": true,
			"updated_at":   time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ClearPushToken removes the registration token and disables push in one
// request, used both for explicit opt-out and invalid-token self-healing.
func (r *MongoProfileRepository) ClearPushToken(ctx context.Context, userID string) error {
	update := bson.M{
		"$unset": bson.M{"push_token": ""},
		"$set": bson.M{
			"push_enabled": false,
			"updated_at":   time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SetPushEnabled toggles push delivery without touching the stored token.
func (r *MongoProfileRepository) SetPushEnabled(ctx context.Context, userID string, enabled bool) error {
	update := bson.M{
		"$set": bson.M{
			"push_enabled": enabled,
			"updated_at":   time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}

package mongo

import (
	"context"
	"errors"
	"time"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profileCollectionName = "client_profiles"

// mongoProfileRepository implements repository.ProfileRepository.
// Profiles are keyed by the owning user's id.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new client profile repository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// GetByUserID retrieves the profile for a given user.
func (r *mongoProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.ClientProfile, error) {
	var profile domain.ClientProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert creates the profile on first write and replaces the
// measurement fields on subsequent writes.
func (r *mongoProfileRepository) Upsert(ctx context.Context, profile *domain.ClientProfile) error {
	if profile.UserID == primitive.NilObjectID {
		return errors.New("profile requires a user ID")
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"height":            profile.Height,
			"weight":            profile.Weight,
			"neck":              profile.Neck,
			"waist":             profile.Waist,
			"hip":               profile.Hip,
			"bodyfatPercentage": profile.BodyfatPercentage,
			"bmi":               profile.BMI,
			"goals":             profile.Goals,
			"injuries":          profile.Injuries,
			"medicalNotes":      profile.MedicalNotes,
			"updatedAt":         now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": profile.UserID}, update, options.Update().SetUpsert(true))
	return err
}

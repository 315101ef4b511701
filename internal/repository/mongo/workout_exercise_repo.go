package mongo

import (
	"context"
	"errors"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutExerciseCollectionName = "workout_exercises"

// mongoWorkoutExerciseRepository implements
// repository.WorkoutExerciseRepository.
type mongoWorkoutExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutExerciseRepository creates a new prescription
// repository.
func NewMongoWorkoutExerciseRepository(db *mongo.Database) repository.WorkoutExerciseRepository {
	return &mongoWorkoutExerciseRepository{
		collection: db.Collection(workoutExerciseCollectionName),
	}
}

// Create inserts a new prescription.
func (r *mongoWorkoutExerciseRepository) Create(ctx context.Context, we *domain.WorkoutExercise) (primitive.ObjectID, error) {
	if we.SessionID == primitive.NilObjectID || we.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout exercise requires sessionId and exerciseId")
	}

	we.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, we)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout exercise ID")
	}
	return insertedID, nil
}

// GetByID retrieves a prescription by id.
func (r *mongoWorkoutExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutExercise, error) {
	var we domain.WorkoutExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&we)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &we, nil
}

// GetBySessionID retrieves the prescriptions of a session in insertion
// order.
func (r *mongoWorkoutExerciseRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prescriptions []domain.WorkoutExercise
	if err = cursor.All(ctx, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// Update rewrites the "done" fields recorded during or after
// execution. The planned prescription itself stays fixed.
func (r *mongoWorkoutExerciseRepository) Update(ctx context.Context, we *domain.WorkoutExercise) error {
	if we.ID == primitive.NilObjectID {
		return errors.New("workout exercise ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"setsDone":   we.SetsDone,
			"repsDone":   we.RepsDone,
			"weightUsed": we.WeightUsed,
			"timeSpent":  we.TimeSpent,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": we.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteBySessionID removes every prescription of a session.
func (r *mongoWorkoutExerciseRepository) DeleteBySessionID(ctx context.Context, sessionID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"sessionId": sessionID})
	return err
}

// EnsureWorkoutExerciseIndexes creates necessary indexes for the
// workout_exercises collection.
func EnsureWorkoutExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "sessionId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "exerciseId", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

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

// mongoTaxonomyRepository implements repository.TaxonomyRepository for
// one classification table. The same implementation serves all six
// kinds; each instance is bound to its own collection.
type mongoTaxonomyRepository struct {
	collection *mongo.Collection
}

// NewMongoTaxonomyRepository creates a repository for the given
// classification kind.
func NewMongoTaxonomyRepository(db *mongo.Database, kind domain.TaxonomyKind) repository.TaxonomyRepository {
	return &mongoTaxonomyRepository{
		collection: db.Collection(string(kind)),
	}
}

// Create inserts a new classification item.
func (r *mongoTaxonomyRepository) Create(ctx context.Context, item *domain.TaxonomyItem) (primitive.ObjectID, error) {
	if item.Name == "" {
		return primitive.NilObjectID, errors.New("taxonomy item name is required")
	}

	item.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted taxonomy ID")
	}
	return insertedID, nil
}

// GetByID retrieves a classification item by id.
func (r *mongoTaxonomyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TaxonomyItem, error) {
	var item domain.TaxonomyItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetByName retrieves a classification item by exact name.
func (r *mongoTaxonomyRepository) GetByName(ctx context.Context, name string) (*domain.TaxonomyItem, error) {
	var item domain.TaxonomyItem
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// List retrieves classification items sorted by name.
func (r *mongoTaxonomyRepository) List(ctx context.Context, skip, limit int) ([]domain.TaxonomyItem, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []domain.TaxonomyItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of items in the table.
func (r *mongoTaxonomyRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// Update rewrites a classification item.
func (r *mongoTaxonomyRepository) Update(ctx context.Context, item *domain.TaxonomyItem) error {
	if item.ID == primitive.NilObjectID {
		return errors.New("taxonomy item ID is required for update")
	}
	if item.Name == "" {
		return errors.New("taxonomy item name cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"name":          item.Name,
			"displacement":  item.Displacement,
			"metabolicType": item.MetabolicType,
			"updatedAt":     time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": item.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a classification item by id.
func (r *mongoTaxonomyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTaxonomyIndexes creates the unique name index every
// classification collection needs.
func EnsureTaxonomyIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

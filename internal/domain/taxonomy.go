package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaxonomyKind identifies one of the six exercise classification
// tables. Each kind maps to its own collection.
type TaxonomyKind string

const (
	KindCategory        TaxonomyKind = "exercise_categories"
	KindMovementType    TaxonomyKind = "movement_types"
	KindMuscleGroup     TaxonomyKind = "muscle_groups"
	KindEquipment       TaxonomyKind = "equipment"
	KindPosition        TaxonomyKind = "positions"
	KindContractionType TaxonomyKind = "contraction_types"
)

// TaxonomyKinds lists every classification table in a fixed order,
// used for routing and seeding.
var TaxonomyKinds = []TaxonomyKind{
	KindCategory,
	KindMovementType,
	KindMuscleGroup,
	KindEquipment,
	KindPosition,
	KindContractionType,
}

// TaxonomyItem is one row of a classification table. Name is unique
// within its kind. Displacement and MetabolicType are only meaningful
// for exercise categories and stay empty elsewhere.
type TaxonomyItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Displacement  bool               `bson:"displacement,omitempty" json:"displacement,omitempty"`
	MetabolicType string             `bson:"metabolicType,omitempty" json:"metabolicType,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

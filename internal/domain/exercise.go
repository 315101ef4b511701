package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a named movement in the catalogue, tagged with up to six
// independent classification attributes. CoachID is nil for seeded
// catalogue rows that no coach owns.
type Exercise struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	NameKey     string              `bson:"nameKey" json:"-"` // normalized, see ExerciseNameKey
	ShortName   string              `bson:"shortName,omitempty" json:"shortName,omitempty"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	CoachID     *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"`

	CategoryID        *primitive.ObjectID `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	MovementTypeID    *primitive.ObjectID `bson:"movementTypeId,omitempty" json:"movementTypeId,omitempty"`
	MuscleGroupID     *primitive.ObjectID `bson:"muscleGroupId,omitempty" json:"muscleGroupId,omitempty"`
	EquipmentID       *primitive.ObjectID `bson:"equipmentId,omitempty" json:"equipmentId,omitempty"`
	PositionID        *primitive.ObjectID `bson:"positionId,omitempty" json:"positionId,omitempty"`
	ContractionTypeID *primitive.ObjectID `bson:"contractionTypeId,omitempty" json:"contractionTypeId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether coachID owns this exercise. Unowned
// catalogue rows belong to nobody.
func (e *Exercise) OwnedBy(coachID primitive.ObjectID) bool {
	return e.CoachID != nil && *e.CoachID == coachID
}

// ExerciseNameKey normalizes an exercise name into the key used by
// plan-template rules: lowercased, spaces replaced with underscores.
// "Bench Press" -> "bench_press".
func ExerciseNameKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

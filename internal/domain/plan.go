package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanGoal is the training objective of a plan.
type PlanGoal string

const (
	GoalMuscleGain     PlanGoal = "muscle_gain"
	GoalWeightLoss     PlanGoal = "weight_loss"
	GoalStrength       PlanGoal = "strength"
	GoalEndurance      PlanGoal = "endurance"
	GoalGeneralFitness PlanGoal = "general_fitness"
)

// PlanLevel is the experience level a plan targets.
type PlanLevel string

const (
	LevelBeginner     PlanLevel = "beginner"
	LevelIntermediate PlanLevel = "intermediate"
	LevelAdvanced     PlanLevel = "advanced"
)

// WorkoutFocus is the training emphasis of a single day.
type WorkoutFocus string

const (
	FocusPush      WorkoutFocus = "push"
	FocusPull      WorkoutFocus = "pull"
	FocusLegs      WorkoutFocus = "legs"
	FocusFullBody  WorkoutFocus = "full_body"
	FocusUpperBody WorkoutFocus = "upper_body"
	FocusLowerBody WorkoutFocus = "lower_body"
	FocusCardio    WorkoutFocus = "cardio"
	FocusRest      WorkoutFocus = "rest"
)

// Label returns a human-readable form of the focus for session notes:
// "full_body" -> "Full Body".
func (f WorkoutFocus) Label() string {
	parts := strings.Split(string(f), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// Plan is a coach-authored multi-week workout program.
type Plan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Goal          PlanGoal           `bson:"goal" json:"goal"`
	Level         PlanLevel          `bson:"level" json:"level"`
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"`
	DurationWeeks int                `bson:"durationWeeks" json:"durationWeeks"`
	IsPublic      bool               `bson:"isPublic" json:"isPublic"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutSession is one dated training day inside a Plan.
type WorkoutSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID    primitive.ObjectID `bson:"planId" json:"planId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date      time.Time          `bson:"date" json:"date"`
	Completed bool               `bson:"completed" json:"completed"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// WorkoutExercise is a single prescription inside a session: the
// planned sets/reps/weight/rest, plus the mutable "done" fields
// recorded during or after execution. Planning fields are free-form
// strings so ranges like "8-12" or "AMRAP 15" fit.
type WorkoutExercise struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID       primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	ExerciseID      primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	SetsPlanned     int                `bson:"setsPlanned" json:"setsPlanned"`
	RepsPlanned     string             `bson:"repsPlanned" json:"repsPlanned"`
	WeightPlanned   string             `bson:"weightPlanned,omitempty" json:"weightPlanned,omitempty"`
	RestBetweenSets string             `bson:"restBetweenSets,omitempty" json:"restBetweenSets,omitempty"`

	SetsDone   int    `bson:"setsDone,omitempty" json:"setsDone,omitempty"`
	RepsDone   []int  `bson:"repsDone,omitempty" json:"repsDone,omitempty"`
	WeightUsed string `bson:"weightUsed,omitempty" json:"weightUsed,omitempty"`
	TimeSpent  string `bson:"timeSpent,omitempty" json:"timeSpent,omitempty"`
}

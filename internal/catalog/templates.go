// Package catalog holds the static set of plan templates the
// generator can expand. The catalog is initialized once at startup,
// never mutated, and safe for unsynchronized concurrent reads.
package catalog

import (
	"fmt"

	"fitcoach/coaching-api/internal/domain"
)

// PlanTemplate is a declarative weekly program: duration, workouts per
// week, a cyclic 7-slot focus rotation (one slot per day of the week,
// REST included) and a mapping from focus-category keyword to an
// ordered list of candidate exercise-name keys.
type PlanTemplate struct {
	Key             string
	Name            string
	Description     string
	Goal            domain.PlanGoal
	Level           domain.PlanLevel
	DurationWeeks   int
	WorkoutsPerWeek int
	FocusRotation   []domain.WorkoutFocus
	ExerciseRules   map[string][]string
}

// Summary is the enumerable view of a template.
type Summary struct {
	Key             string                `json:"template_key"`
	Name            string                `json:"name"`
	Description     string                `json:"description"`
	Goal            domain.PlanGoal       `json:"goal"`
	Level           domain.PlanLevel      `json:"level"`
	DurationWeeks   int                   `json:"duration_weeks"`
	WorkoutsPerWeek int                   `json:"workouts_per_week"`
	FocusRotation   []domain.WorkoutFocus `json:"focus_rotation"`
}

// NotFoundError reports an unknown template key. The key is carried so
// callers can surface it to the client.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Key)
}

var beginnerFullBody = PlanTemplate{
	Key:             "beginner_full_body",
	Name:            "Beginner Full Body",
	Description:     "Full body workout 3x per week for beginners",
	Goal:            domain.GoalGeneralFitness,
	Level:           domain.LevelBeginner,
	DurationWeeks:   4,
	WorkoutsPerWeek: 3,
	FocusRotation: []domain.WorkoutFocus{
		domain.FocusFullBody,
		domain.FocusRest,
		domain.FocusFullBody,
		domain.FocusRest,
		domain.FocusFullBody,
		domain.FocusRest,
		domain.FocusRest,
	},
	ExerciseRules: map[string][]string{
		"compound":  {"squat", "bench_press", "deadlift", "overhead_press", "pull_up"},
		"accessory": {"bicep_curl", "tricep_extension", "calf_raise", "plank"},
	},
}

var pplIntermediate = PlanTemplate{
	Key:             "ppl_intermediate",
	Name:            "Push Pull Legs Intermediate",
	Description:     "6-day PPL split for intermediate lifters",
	Goal:            domain.GoalMuscleGain,
	Level:           domain.LevelIntermediate,
	DurationWeeks:   8,
	WorkoutsPerWeek: 6,
	FocusRotation: []domain.WorkoutFocus{
		domain.FocusPush,
		domain.FocusPull,
		domain.FocusLegs,
		domain.FocusPush,
		domain.FocusPull,
		domain.FocusLegs,
		domain.FocusRest,
	},
	ExerciseRules: map[string][]string{
		"push": {"bench_press", "overhead_press", "dumbbell_press", "dips", "push_up"},
		"pull": {"pull_up", "deadlift", "barbell_row", "lat_pulldown", "face_pull"},
		"legs": {"squat", "leg_press", "lunges", "calf_raise", "leg_curl"},
	},
}

var upperLowerAdvanced = PlanTemplate{
	Key:             "upper_lower_advanced",
	Name:            "Upper Lower Advanced",
	Description:     "4-day upper/lower split for advanced athletes",
	Goal:            domain.GoalStrength,
	Level:           domain.LevelAdvanced,
	DurationWeeks:   12,
	WorkoutsPerWeek: 4,
	FocusRotation: []domain.WorkoutFocus{
		domain.FocusUpperBody,
		domain.FocusLowerBody,
		domain.FocusRest,
		domain.FocusUpperBody,
		domain.FocusLowerBody,
		domain.FocusRest,
		domain.FocusRest,
	},
	ExerciseRules: map[string][]string{
		"upper": {"bench_press", "overhead_press", "barbell_row", "pull_up", "dips"},
		"lower": {"squat", "deadlift", "leg_press", "lunges", "calf_raise"},
	},
}

// templateOrder fixes the enumeration order of List.
var templateOrder = []string{
	beginnerFullBody.Key,
	pplIntermediate.Key,
	upperLowerAdvanced.Key,
}

var templates = map[string]*PlanTemplate{
	beginnerFullBody.Key:   &beginnerFullBody,
	pplIntermediate.Key:    &pplIntermediate,
	upperLowerAdvanced.Key: &upperLowerAdvanced,
}

// Get resolves a template by key. Fails with *NotFoundError for
// unknown keys.
func Get(key string) (*PlanTemplate, error) {
	tpl, ok := templates[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	return tpl, nil
}

// List returns summaries of every template in a stable order. The
// slice is freshly built on each call; callers may keep or modify it.
func List() []Summary {
	summaries := make([]Summary, 0, len(templateOrder))
	for _, key := range templateOrder {
		tpl := templates[key]
		summaries = append(summaries, Summary{
			Key:             tpl.Key,
			Name:            tpl.Name,
			Description:     tpl.Description,
			Goal:            tpl.Goal,
			Level:           tpl.Level,
			DurationWeeks:   tpl.DurationWeeks,
			WorkoutsPerWeek: tpl.WorkoutsPerWeek,
			FocusRotation:   append([]domain.WorkoutFocus(nil), tpl.FocusRotation...),
		})
	}
	return summaries
}

package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"fitcoach/coaching-api/internal/catalog"
	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/policy"
	"fitcoach/coaching-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeneratedPlan is the result of expanding a template: the stored plan
// plus how many sessions were written.
type GeneratedPlan struct {
	Plan         *domain.Plan
	SessionCount int
}

// PlanGeneratorService expands a declarative plan template into a
// stored plan with dated sessions and concrete prescriptions.
type PlanGeneratorService interface {
	Generate(ctx context.Context, actor policy.Actor, templateKey, customName string) (*GeneratedPlan, error)
	AvailableTemplates() []catalog.Summary
}

type planGenerator struct {
	planRepo     repository.PlanRepository
	sessionRepo  repository.SessionRepository
	weRepo       repository.WorkoutExerciseRepository
	exerciseRepo repository.ExerciseRepository
	tx           repository.TxManager
	rng          *rand.Rand
	now          func() time.Time
}

// NewPlanGenerator creates a new instance of planGenerator. rng drives
// accessory-exercise sampling; pass nil for a time-seeded source.
func NewPlanGenerator(
	planRepo repository.PlanRepository,
	sessionRepo repository.SessionRepository,
	weRepo repository.WorkoutExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	tx repository.TxManager,
	rng *rand.Rand,
) PlanGeneratorService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &planGenerator{
		planRepo:     planRepo,
		sessionRepo:  sessionRepo,
		weRepo:       weRepo,
		exerciseRepo: exerciseRepo,
		tx:           tx,
		rng:          rng,
		now:          time.Now,
	}
}

// AvailableTemplates lists every template the generator can expand.
func (g *planGenerator) AvailableTemplates() []catalog.Summary {
	return catalog.List()
}

// prescription is one selected exercise with its planned parameters.
type prescription struct {
	exerciseID primitive.ObjectID
	sets       int
	reps       string
	weight     string
	rest       string
}

// Generate expands the named template into a plan owned by the actor,
// with one dated session per non-rest slot of the rotation and the
// actor as the assigned client. Everything is written in a single
// transaction: an unknown template or any storage failure leaves no
// partial plan behind.
func (g *planGenerator) Generate(ctx context.Context, actor policy.Actor, templateKey, customName string) (*GeneratedPlan, error) {
	if !policy.CanCreatePlan(actor) {
		return nil, ErrPermissionDenied
	}

	tpl, err := catalog.Get(templateKey)
	if err != nil {
		return nil, err
	}

	name := tpl.Name
	if customName != "" {
		name = customName
	}

	plan := &domain.Plan{
		Name:          name,
		Description:   tpl.Description,
		Goal:          tpl.Goal,
		Level:         tpl.Level,
		CoachID:       actor.ID,
		DurationWeeks: tpl.DurationWeeks,
	}

	sessionCount := 0
	err = g.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		planID, err := g.planRepo.Create(txCtx, plan)
		if err != nil {
			return err
		}
		plan.ID = planID

		exercises, err := g.exerciseRepo.ListAll(txCtx)
		if err != nil {
			return err
		}
		byKey := make(map[string]*domain.Exercise, len(exercises))
		for i := range exercises {
			byKey[exercises[i].NameKey] = &exercises[i]
		}

		startDate := g.now().UTC().Truncate(24 * time.Hour)
		totalDays := tpl.DurationWeeks * 7

		for dayIndex := 0; dayIndex < totalDays; dayIndex++ {
			focus := tpl.FocusRotation[dayIndex%len(tpl.FocusRotation)]
			if focus == domain.FocusRest {
				continue
			}

			week := dayIndex/7 + 1
			dayOfWeek := dayIndex%7 + 1
			session := &domain.WorkoutSession{
				PlanID:   planID,
				ClientID: actor.ID,
				Date:     startDate.AddDate(0, 0, dayIndex),
				Notes:    fmt.Sprintf("Week %d, Day %d - %s", week, dayOfWeek, focus.Label()),
			}
			sessionID, err := g.sessionRepo.Create(txCtx, session)
			if err != nil {
				return err
			}

			for _, p := range g.selectExercisesForFocus(focus, tpl, week, byKey, exercises) {
				we := &domain.WorkoutExercise{
					SessionID:       sessionID,
					ExerciseID:      p.exerciseID,
					SetsPlanned:     p.sets,
					RepsPlanned:     p.reps,
					WeightPlanned:   p.weight,
					RestBetweenSets: p.rest,
				}
				if _, err := g.weRepo.Create(txCtx, we); err != nil {
					return err
				}
			}
			sessionCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &GeneratedPlan{Plan: plan, SessionCount: sessionCount}, nil
}

// selectExercisesForFocus picks the day's prescriptions. Candidate
// keys that have no match in the catalogue are skipped without error;
// a focus with no matches at all falls back to the first catalogue
// entries. week is reserved for progression rules and currently
// unused.
func (g *planGenerator) selectExercisesForFocus(
	focus domain.WorkoutFocus,
	tpl *catalog.PlanTemplate,
	week int,
	byKey map[string]*domain.Exercise,
	all []domain.Exercise,
) []prescription {
	_ = week

	var selected []prescription
	pick := func(keys []string, n int, sets int, reps, weight, rest string) {
		if n > len(keys) {
			n = len(keys)
		}
		for _, key := range keys[:n] {
			ex, ok := byKey[key]
			if !ok {
				continue
			}
			selected = append(selected, prescription{
				exerciseID: ex.ID,
				sets:       sets,
				reps:       reps,
				weight:     weight,
				rest:       rest,
			})
		}
	}

	switch focus {
	case domain.FocusFullBody:
		compoundReps := "6-10"
		if tpl.Level == domain.LevelBeginner {
			compoundReps = "8-12"
		}
		pick([]string{"squat", "bench_press", "deadlift", "overhead_press"}, 3, 3, compoundReps, "moderate", "90s")

		accessories := []string{"bicep_curl", "tricep_extension", "calf_raise"}
		sampleN := 2
		if sampleN > len(accessories) {
			sampleN = len(accessories)
		}
		sampled := make([]string, 0, sampleN)
		for _, idx := range g.rng.Perm(len(accessories))[:sampleN] {
			sampled = append(sampled, accessories[idx])
		}
		pick(sampled, len(sampled), 2, "10-15", "light", "60s")

	case domain.FocusPush:
		reps := "6-8"
		if tpl.Goal == domain.GoalMuscleGain {
			reps = "8-12"
		}
		pick([]string{"bench_press", "overhead_press", "dumbbell_press", "dips"}, 4, g.splitSets(tpl), reps, "moderate", "90s")

	case domain.FocusPull:
		reps := "5-8"
		if tpl.Goal == domain.GoalMuscleGain {
			reps = "8-12"
		}
		pick([]string{"pull_up", "deadlift", "barbell_row", "lat_pulldown"}, 4, g.splitSets(tpl), reps, "moderate", "90s")

	case domain.FocusLegs:
		reps := "8-12"
		if tpl.Goal == domain.GoalWeightLoss {
			reps = "10-15"
		}
		pick([]string{"squat", "leg_press", "lunges", "calf_raise"}, 4, g.splitSets(tpl), reps, "moderate", "90s")

	case domain.FocusUpperBody:
		pick([]string{"bench_press", "overhead_press", "barbell_row", "pull_up"}, 4, 4, "6-10", "heavy", "120s")

	case domain.FocusLowerBody:
		pick([]string{"squat", "deadlift", "leg_press", "lunges"}, 4, 4, "5-8", "heavy", "120s")
	}

	// Generic fallback: nothing matched this focus but the catalogue
	// is not empty.
	if len(selected) == 0 && len(all) > 0 {
		n := 3
		if n > len(all) {
			n = len(all)
		}
		for i := 0; i < n; i++ {
			selected = append(selected, prescription{
				exerciseID: all[i].ID,
				sets:       3,
				reps:       "8-12",
				weight:     "moderate",
				rest:       "60s",
			})
		}
	}

	return selected
}

// splitSets is the per-day volume for push/pull/legs splits.
func (g *planGenerator) splitSets(tpl *catalog.PlanTemplate) int {
	if tpl.Level == domain.LevelAdvanced {
		return 4
	}
	return 3
}

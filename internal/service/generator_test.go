package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"fitcoach/coaching-api/internal/catalog"
	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var generatorStart = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

type generatorFixture struct {
	gen       *planGenerator
	plans     *fakePlanRepo
	sessions  *fakeSessionRepo
	workouts  *fakeWorkoutExerciseRepo
	exercises *fakeExerciseRepo
	tx        *fakeTx
}

func newGeneratorFixture(seedCatalogue bool) *generatorFixture {
	f := &generatorFixture{
		plans:     &fakePlanRepo{},
		sessions:  &fakeSessionRepo{},
		workouts:  &fakeWorkoutExerciseRepo{},
		exercises: &fakeExerciseRepo{},
	}
	f.tx = &fakeTx{plans: f.plans, sessions: f.sessions, workouts: f.workouts}
	if seedCatalogue {
		for _, name := range []string{
			"Squat", "Bench Press", "Deadlift", "Overhead Press",
			"Pull Up", "Bicep Curl", "Tricep Extension", "Calf Raise",
			"Dumbbell Press", "Dips", "Barbell Row", "Lat Pulldown",
			"Leg Press", "Lunges",
		} {
			f.exercises.add(name)
		}
	}
	gen := NewPlanGenerator(
		f.plans, f.sessions, f.workouts, f.exercises, f.tx,
		rand.New(rand.NewSource(1)),
	).(*planGenerator)
	gen.now = func() time.Time {
		// Mid-afternoon on purpose: session dates must still land on
		// the day boundary.
		return generatorStart.Add(15 * time.Hour)
	}
	f.gen = gen
	return f
}

func coachActor() policy.Actor {
	return policy.Actor{ID: primitive.NewObjectID(), RoleID: domain.RoleCoach}
}

func TestGenerateBeginnerFullBody(t *testing.T) {
	f := newGeneratorFixture(true)
	actor := coachActor()

	result, err := f.gen.Generate(context.Background(), actor, "beginner_full_body", "")
	require.NoError(t, err)
	require.NotNil(t, result)

	// 3 training days per week over 4 weeks.
	assert.Equal(t, 12, result.SessionCount)
	assert.Len(t, f.sessions.sessions, 12)
	require.Len(t, f.plans.plans, 1)
	assert.Equal(t, 1, f.tx.calls)

	plan := f.plans.plans[0]
	assert.Equal(t, "Beginner Full Body", plan.Name)
	assert.Equal(t, domain.GoalGeneralFitness, plan.Goal)
	assert.Equal(t, domain.LevelBeginner, plan.Level)
	assert.Equal(t, 4, plan.DurationWeeks)
	assert.Equal(t, actor.ID, plan.CoachID)
	assert.Equal(t, plan.ID, result.Plan.ID)

	first := f.sessions.sessions[0]
	assert.Equal(t, "Week 1, Day 1 - Full Body", first.Notes)
	assert.Equal(t, actor.ID, first.ClientID)
	assert.Equal(t, generatorStart, first.Date)

	last := f.sessions.sessions[len(f.sessions.sessions)-1]
	assert.Equal(t, "Week 4, Day 5 - Full Body", last.Notes)

	end := generatorStart.AddDate(0, 0, 4*7-1)
	prev := first.Date.AddDate(0, 0, -1)
	for _, s := range f.sessions.sessions {
		assert.Equal(t, plan.ID, s.PlanID)
		assert.True(t, s.Date.After(prev), "dates must be strictly increasing")
		assert.False(t, s.Date.Before(generatorStart))
		assert.False(t, s.Date.After(end))
		prev = s.Date
	}
}

func TestGenerateFullBodyPrescriptions(t *testing.T) {
	f := newGeneratorFixture(true)

	_, err := f.gen.Generate(context.Background(), coachActor(), "beginner_full_body", "")
	require.NoError(t, err)

	accessoryKeys := map[primitive.ObjectID]bool{}
	compoundKeys := map[primitive.ObjectID]bool{}
	for _, ex := range f.exercises.exercises {
		switch ex.NameKey {
		case "squat", "bench_press", "deadlift":
			compoundKeys[ex.ID] = true
		case "bicep_curl", "tricep_extension", "calf_raise":
			accessoryKeys[ex.ID] = true
		}
	}

	for _, s := range f.sessions.sessions {
		prescriptions, err := f.workouts.GetBySessionID(context.Background(), s.ID)
		require.NoError(t, err)
		// 3 compounds then 2 sampled accessories.
		require.Len(t, prescriptions, 5)

		for _, we := range prescriptions[:3] {
			assert.True(t, compoundKeys[we.ExerciseID])
			assert.Equal(t, 3, we.SetsPlanned)
			assert.Equal(t, "8-12", we.RepsPlanned)
			assert.Equal(t, "moderate", we.WeightPlanned)
			assert.Equal(t, "90s", we.RestBetweenSets)
		}
		for _, we := range prescriptions[3:] {
			assert.True(t, accessoryKeys[we.ExerciseID])
			assert.Equal(t, 2, we.SetsPlanned)
			assert.Equal(t, "10-15", we.RepsPlanned)
			assert.Equal(t, "light", we.WeightPlanned)
			assert.Equal(t, "60s", we.RestBetweenSets)
		}
		assert.NotEqual(t, prescriptions[3].ExerciseID, prescriptions[4].ExerciseID)
	}
}

func TestGeneratePPLIntermediate(t *testing.T) {
	f := newGeneratorFixture(true)

	result, err := f.gen.Generate(context.Background(), coachActor(), "ppl_intermediate", "")
	require.NoError(t, err)

	// 6 training days per week over 8 weeks.
	assert.Equal(t, 48, result.SessionCount)
	require.Len(t, f.sessions.sessions, 48)
	assert.Equal(t, "Week 1, Day 1 - Push", f.sessions.sessions[0].Notes)
	assert.Equal(t, "Week 1, Day 2 - Pull", f.sessions.sessions[1].Notes)
	assert.Equal(t, "Week 1, Day 3 - Legs", f.sessions.sessions[2].Notes)

	for _, s := range f.sessions.sessions {
		prescriptions, err := f.workouts.GetBySessionID(context.Background(), s.ID)
		require.NoError(t, err)
		require.Len(t, prescriptions, 4)
		for _, we := range prescriptions {
			// Intermediate split volume, muscle-gain rep range on
			// every focus of this template.
			assert.Equal(t, 3, we.SetsPlanned)
			assert.Equal(t, "8-12", we.RepsPlanned)
			assert.Equal(t, "moderate", we.WeightPlanned)
			assert.Equal(t, "90s", we.RestBetweenSets)
		}
	}
}

func TestGenerateUpperLowerAdvanced(t *testing.T) {
	f := newGeneratorFixture(true)

	result, err := f.gen.Generate(context.Background(), coachActor(), "upper_lower_advanced", "")
	require.NoError(t, err)

	// 4 training days per week over 12 weeks.
	assert.Equal(t, 48, result.SessionCount)
	require.Len(t, f.sessions.sessions, 48)
	assert.Equal(t, "Week 1, Day 1 - Upper Body", f.sessions.sessions[0].Notes)
	assert.Equal(t, "Week 1, Day 2 - Lower Body", f.sessions.sessions[1].Notes)

	upperReps := map[string]bool{}
	for i, s := range f.sessions.sessions {
		prescriptions, err := f.workouts.GetBySessionID(context.Background(), s.ID)
		require.NoError(t, err)
		require.Len(t, prescriptions, 4)

		wantReps := "6-10"
		if i%2 == 1 {
			wantReps = "5-8"
		}
		for _, we := range prescriptions {
			assert.Equal(t, 4, we.SetsPlanned)
			assert.Equal(t, wantReps, we.RepsPlanned)
			assert.Equal(t, "heavy", we.WeightPlanned)
			assert.Equal(t, "120s", we.RestBetweenSets)
			upperReps[we.RepsPlanned] = true
		}
	}
	assert.Len(t, upperReps, 2)
}

func TestGenerateUnknownTemplate(t *testing.T) {
	f := newGeneratorFixture(true)

	result, err := f.gen.Generate(context.Background(), coachActor(), "nonsense", "")
	require.Error(t, err)
	assert.Nil(t, result)

	var notFound *catalog.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nonsense", notFound.Key)

	// Nothing written, no transaction started.
	assert.Empty(t, f.plans.plans)
	assert.Empty(t, f.sessions.sessions)
	assert.Empty(t, f.workouts.items)
	assert.Equal(t, 0, f.tx.calls)
}

func TestGenerateRequiresCoachOrAdmin(t *testing.T) {
	f := newGeneratorFixture(true)
	client := policy.Actor{ID: primitive.NewObjectID(), RoleID: domain.RoleClient}

	_, err := f.gen.Generate(context.Background(), client, "beginner_full_body", "")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Empty(t, f.plans.plans)
}

func TestGenerateCustomName(t *testing.T) {
	f := newGeneratorFixture(true)

	result, err := f.gen.Generate(context.Background(), coachActor(), "ppl_intermediate", "Summer Shred")
	require.NoError(t, err)
	assert.Equal(t, "Summer Shred", result.Plan.Name)
	assert.Equal(t, "Summer Shred", f.plans.plans[0].Name)
}

func TestGenerateEmptyCatalogue(t *testing.T) {
	f := newGeneratorFixture(false)

	result, err := f.gen.Generate(context.Background(), coachActor(), "beginner_full_body", "")
	require.NoError(t, err)

	// Sessions still exist; there is just nothing to prescribe.
	assert.Equal(t, 12, result.SessionCount)
	assert.Len(t, f.sessions.sessions, 12)
	assert.Empty(t, f.workouts.items)
}

func TestGeneratePartialCatalogue(t *testing.T) {
	f := newGeneratorFixture(false)
	squat := f.exercises.add("Squat")

	_, err := f.gen.Generate(context.Background(), coachActor(), "beginner_full_body", "")
	require.NoError(t, err)

	// One matched compound, no matched accessories, no fallback since
	// the focus selection is non-empty.
	for _, s := range f.sessions.sessions {
		prescriptions, err := f.workouts.GetBySessionID(context.Background(), s.ID)
		require.NoError(t, err)
		require.Len(t, prescriptions, 1)
		assert.Equal(t, squat.ID, prescriptions[0].ExerciseID)
	}
}

func TestGenerateFallbackSelection(t *testing.T) {
	f := newGeneratorFixture(false)
	// Catalogue with no recognizable names: every focus falls back to
	// the first entries.
	a := f.exercises.add("Kettlebell Flow")
	b := f.exercises.add("Sled Drag")

	_, err := f.gen.Generate(context.Background(), coachActor(), "upper_lower_advanced", "")
	require.NoError(t, err)

	for _, s := range f.sessions.sessions {
		prescriptions, err := f.workouts.GetBySessionID(context.Background(), s.ID)
		require.NoError(t, err)
		require.Len(t, prescriptions, 2)
		assert.Equal(t, a.ID, prescriptions[0].ExerciseID)
		assert.Equal(t, b.ID, prescriptions[1].ExerciseID)
		for _, we := range prescriptions {
			assert.Equal(t, 3, we.SetsPlanned)
			assert.Equal(t, "8-12", we.RepsPlanned)
			assert.Equal(t, "moderate", we.WeightPlanned)
			assert.Equal(t, "60s", we.RestBetweenSets)
		}
	}
}

func TestGenerateTwicePlansAreIndependent(t *testing.T) {
	f := newGeneratorFixture(true)
	actor := coachActor()

	first, err := f.gen.Generate(context.Background(), actor, "beginner_full_body", "")
	require.NoError(t, err)
	second, err := f.gen.Generate(context.Background(), actor, "beginner_full_body", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.Plan.ID, second.Plan.ID)
	assert.Len(t, f.plans.plans, 2)
	assert.Len(t, f.sessions.sessions, 24)
}

func TestAvailableTemplates(t *testing.T) {
	f := newGeneratorFixture(false)

	summaries := f.gen.AvailableTemplates()
	require.Len(t, summaries, 3)
	assert.Equal(t, "beginner_full_body", summaries[0].Key)
}

// flakySessionRepo fails Create once the collection holds failAfter
// sessions, simulating a storage error partway through generation.
type flakySessionRepo struct {
	*fakeSessionRepo
	failAfter int
}

func (r *flakySessionRepo) Create(ctx context.Context, s *domain.WorkoutSession) (primitive.ObjectID, error) {
	if len(r.sessions) >= r.failAfter {
		return primitive.NilObjectID, assert.AnError
	}
	return r.fakeSessionRepo.Create(ctx, s)
}

func TestGenerateRollsBackOnWriteFailure(t *testing.T) {
	plans := &fakePlanRepo{}
	sessions := &flakySessionRepo{fakeSessionRepo: &fakeSessionRepo{}, failAfter: 5}
	workouts := &fakeWorkoutExerciseRepo{}
	exercises := &fakeExerciseRepo{}
	for _, name := range []string{
		"Squat", "Bench Press", "Deadlift",
		"Bicep Curl", "Tricep Extension", "Calf Raise",
	} {
		exercises.add(name)
	}
	tx := &fakeTx{plans: plans, sessions: sessions.fakeSessionRepo, workouts: workouts}
	gen := NewPlanGenerator(plans, sessions, workouts, exercises, tx, rand.New(rand.NewSource(1))).(*planGenerator)
	gen.now = func() time.Time { return generatorStart }

	_, err := gen.Generate(context.Background(), coachActor(), "beginner_full_body", "")
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, tx.calls)

	// The abort wipes the plan and the five sessions written before
	// the failing insert, along with their prescriptions.
	assert.Empty(t, plans.plans)
	assert.Empty(t, sessions.sessions)
	assert.Empty(t, workouts.items)
}

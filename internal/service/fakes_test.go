package service

import (
	"context"
	"strings"
	"time"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Maps plus insertion-order slices stand
// in for collections; behavior mirrors the mongo implementations
// closely enough for service-level tests.

// fakeTx counts transactions and, when wired to the repos below,
// mirrors an abort: a callback error restores every snapshotted
// collection to its pre-transaction state.
type fakeTx struct {
	calls int

	plans    *fakePlanRepo
	sessions *fakeSessionRepo
	workouts *fakeWorkoutExerciseRepo
}

func (t *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++

	var plans []*domain.Plan
	var sessions []*domain.WorkoutSession
	var workouts []*domain.WorkoutExercise
	if t.plans != nil {
		plans = append(plans, t.plans.plans...)
	}
	if t.sessions != nil {
		sessions = append(sessions, t.sessions.sessions...)
	}
	if t.workouts != nil {
		workouts = append(workouts, t.workouts.items...)
	}

	err := fn(ctx)
	if err != nil {
		if t.plans != nil {
			t.plans.plans = plans
		}
		if t.sessions != nil {
			t.sessions.sessions = sessions
		}
		if t.workouts != nil {
			t.workouts.items = workouts
		}
	}
	return err
}

// --- plans ---

type fakePlanRepo struct {
	plans []*domain.Plan
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	stored := *plan
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	r.plans = append(r.plans, &stored)
	return stored.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) List(_ context.Context, filter repository.PlanFilter, skip, limit int) ([]domain.Plan, error) {
	var out []domain.Plan
	for _, p := range r.plans {
		if filter.CoachID != nil && p.CoachID != *filter.CoachID {
			continue
		}
		if filter.IsPublic != nil && p.IsPublic != *filter.IsPublic {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePlanRepo) Update(_ context.Context, plan *domain.Plan) error {
	for i, p := range r.plans {
		if p.ID == plan.ID {
			cp := *plan
			r.plans[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakePlanRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, p := range r.plans {
		if p.ID == id {
			r.plans = append(r.plans[:i], r.plans[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- sessions ---

type fakeSessionRepo struct {
	sessions []*domain.WorkoutSession
}

func (r *fakeSessionRepo) Create(_ context.Context, s *domain.WorkoutSession) (primitive.ObjectID, error) {
	stored := *s
	stored.ID = primitive.NewObjectID()
	r.sessions = append(r.sessions, &stored)
	return stored.ID, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	for _, s := range r.sessions {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID, skip, limit int) ([]domain.WorkoutSession, error) {
	var out []domain.WorkoutSession
	for _, s := range r.sessions {
		if s.PlanID == planID {
			out = append(out, *s)
		}
	}
	if skip > len(out) {
		skip = len(out)
	}
	out = out[skip:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSessionRepo) CountByPlanID(_ context.Context, planID primitive.ObjectID) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.PlanID == planID {
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *domain.WorkoutSession) error {
	for i, have := range r.sessions {
		if have.ID == s.ID {
			cp := *s
			r.sessions[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeSessionRepo) DeleteByPlanID(_ context.Context, planID primitive.ObjectID) error {
	kept := r.sessions[:0]
	for _, s := range r.sessions {
		if s.PlanID != planID {
			kept = append(kept, s)
		}
	}
	r.sessions = kept
	return nil
}

// --- workout exercises ---

type fakeWorkoutExerciseRepo struct {
	items []*domain.WorkoutExercise
}

func (r *fakeWorkoutExerciseRepo) Create(_ context.Context, we *domain.WorkoutExercise) (primitive.ObjectID, error) {
	stored := *we
	stored.ID = primitive.NewObjectID()
	r.items = append(r.items, &stored)
	return stored.ID, nil
}

func (r *fakeWorkoutExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutExercise, error) {
	for _, we := range r.items {
		if we.ID == id {
			cp := *we
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutExerciseRepo) GetBySessionID(_ context.Context, sessionID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	var out []domain.WorkoutExercise
	for _, we := range r.items {
		if we.SessionID == sessionID {
			out = append(out, *we)
		}
	}
	return out, nil
}

func (r *fakeWorkoutExerciseRepo) Update(_ context.Context, we *domain.WorkoutExercise) error {
	for i, have := range r.items {
		if have.ID == we.ID {
			cp := *we
			r.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeWorkoutExerciseRepo) DeleteBySessionID(_ context.Context, sessionID primitive.ObjectID) error {
	kept := r.items[:0]
	for _, we := range r.items {
		if we.SessionID != sessionID {
			kept = append(kept, we)
		}
	}
	r.items = kept
	return nil
}

// --- exercises ---

type fakeExerciseRepo struct {
	exercises []*domain.Exercise
}

func (r *fakeExerciseRepo) add(name string) *domain.Exercise {
	ex := &domain.Exercise{
		ID:      primitive.NewObjectID(),
		Name:    name,
		NameKey: domain.ExerciseNameKey(name),
	}
	r.exercises = append(r.exercises, ex)
	return ex
}

func (r *fakeExerciseRepo) Create(_ context.Context, ex *domain.Exercise) (primitive.ObjectID, error) {
	stored := *ex
	stored.ID = primitive.NewObjectID()
	stored.NameKey = domain.ExerciseNameKey(ex.Name)
	r.exercises = append(r.exercises, &stored)
	return stored.ID, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	for _, ex := range r.exercises {
		if ex.ID == id {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) List(_ context.Context, filter repository.ExerciseFilter, skip, limit int) ([]domain.Exercise, error) {
	return r.ListAll(context.Background())
}

func (r *fakeExerciseRepo) Count(_ context.Context, filter repository.ExerciseFilter) (int64, error) {
	return int64(len(r.exercises)), nil
}

func (r *fakeExerciseRepo) ListAll(_ context.Context) ([]domain.Exercise, error) {
	out := make([]domain.Exercise, 0, len(r.exercises))
	for _, ex := range r.exercises {
		out = append(out, *ex)
	}
	return out, nil
}

func (r *fakeExerciseRepo) Search(_ context.Context, query string, skip, limit int) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, ex := range r.exercises {
		if strings.Contains(strings.ToLower(ex.Name), strings.ToLower(query)) {
			out = append(out, *ex)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, ex *domain.Exercise) error {
	for i, have := range r.exercises {
		if have.ID == ex.ID {
			cp := *ex
			r.exercises[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, ex := range r.exercises {
		if ex.ID == id {
			r.exercises = append(r.exercises[:i], r.exercises[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- users ---

type fakeUserRepo struct {
	users []*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	for _, have := range r.users {
		if have.Email == u.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	stored := *u
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	r.users = append(r.users, &stored)
	return stored.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter, skip, limit int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if filter.RoleID != nil && u.RoleID != *filter.RoleID {
			continue
		}
		if filter.CoachID != nil && (u.CoachID == nil || *u.CoachID != *filter.CoachID) {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context, filter repository.UserFilter) (int64, error) {
	users, _ := r.List(context.Background(), filter, 0, 0)
	return int64(len(users)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	for i, have := range r.users {
		if have.ID == u.ID {
			cp := *u
			r.users[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeUserRepo) Search(_ context.Context, query string, skip, limit int) ([]domain.User, error) {
	var out []domain.User
	q := strings.ToLower(query)
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetClientsByCoachID(_ context.Context, coachID primitive.ObjectID, skip, limit int) ([]domain.User, error) {
	role := domain.RoleClient
	return r.List(context.Background(), repository.UserFilter{RoleID: &role, CoachID: &coachID}, skip, limit)
}

func (r *fakeUserRepo) GetPendingCoaches(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.RoleID == domain.RoleCoach && !u.IsApproved {
			out = append(out, *u)
		}
	}
	return out, nil
}

// --- client profiles ---

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]*domain.ClientProfile
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.ClientProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *domain.ClientProfile) error {
	if r.profiles == nil {
		r.profiles = map[primitive.ObjectID]*domain.ClientProfile{}
	}
	cp := *profile
	r.profiles[profile.UserID] = &cp
	return nil
}

// --- taxonomies ---

type fakeTaxonomyRepo struct {
	items []*domain.TaxonomyItem
}

func (r *fakeTaxonomyRepo) add(name string) *domain.TaxonomyItem {
	item := &domain.TaxonomyItem{ID: primitive.NewObjectID(), Name: name}
	r.items = append(r.items, item)
	return item
}

func (r *fakeTaxonomyRepo) Create(_ context.Context, item *domain.TaxonomyItem) (primitive.ObjectID, error) {
	for _, have := range r.items {
		if have.Name == item.Name {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	stored := *item
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	r.items = append(r.items, &stored)
	return stored.ID, nil
}

func (r *fakeTaxonomyRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TaxonomyItem, error) {
	for _, item := range r.items {
		if item.ID == id {
			cp := *item
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTaxonomyRepo) GetByName(_ context.Context, name string) (*domain.TaxonomyItem, error) {
	for _, item := range r.items {
		if item.Name == name {
			cp := *item
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTaxonomyRepo) List(_ context.Context, skip, limit int) ([]domain.TaxonomyItem, error) {
	out := make([]domain.TaxonomyItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, *item)
	}
	if skip > len(out) {
		skip = len(out)
	}
	out = out[skip:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTaxonomyRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *fakeTaxonomyRepo) Update(_ context.Context, item *domain.TaxonomyItem) error {
	for i, have := range r.items {
		if have.ID == item.ID {
			cp := *item
			r.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeTaxonomyRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

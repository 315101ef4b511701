package repository

import (
	"context"

	"fitcoach/coaching-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate unique field")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxManager runs a function inside a transactional scope. Every
// repository call made with the context passed to fn joins the same
// transaction; the whole scope commits once on success and rolls back
// entirely on error.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserFilter narrows user listings.
type UserFilter struct {
	RoleID  *domain.Role
	CoachID *primitive.ObjectID
}

// UserRepository defines data access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter, skip, limit int) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Search(ctx context.Context, query string, skip, limit int) ([]domain.User, error)
	GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID, skip, limit int) ([]domain.User, error)
	GetPendingCoaches(ctx context.Context) ([]domain.User, error)
}

// ProfileRepository defines data access for client profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.ClientProfile, error)
	Upsert(ctx context.Context, profile *domain.ClientProfile) error
}

// ExerciseFilter narrows exercise listings.
type ExerciseFilter struct {
	CoachID       *primitive.ObjectID
	CategoryID    *primitive.ObjectID
	MuscleGroupID *primitive.ObjectID
	EquipmentID   *primitive.ObjectID
}

// ExerciseRepository defines data access for the exercise catalogue.
// ListAll returns every exercise in stable id order; the plan
// generator depends on that ordering for its fallback rule.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter, skip, limit int) ([]domain.Exercise, error)
	Count(ctx context.Context, filter ExerciseFilter) (int64, error)
	ListAll(ctx context.Context) ([]domain.Exercise, error)
	Search(ctx context.Context, query string, skip, limit int) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TaxonomyRepository defines data access for one classification
// table. Implementations are bound to a single TaxonomyKind.
type TaxonomyRepository interface {
	Create(ctx context.Context, item *domain.TaxonomyItem) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TaxonomyItem, error)
	GetByName(ctx context.Context, name string) (*domain.TaxonomyItem, error)
	List(ctx context.Context, skip, limit int) ([]domain.TaxonomyItem, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, item *domain.TaxonomyItem) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlanFilter narrows plan listings.
type PlanFilter struct {
	CoachID  *primitive.ObjectID
	IsPublic *bool
}

// PlanRepository defines data access for workout plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	List(ctx context.Context, filter PlanFilter, skip, limit int) ([]domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SessionRepository defines data access for workout sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID, skip, limit int) ([]domain.WorkoutSession, error)
	CountByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, session *domain.WorkoutSession) error
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error
}

// WorkoutExerciseRepository defines data access for per-session
// exercise prescriptions.
type WorkoutExerciseRepository interface {
	Create(ctx context.Context, we *domain.WorkoutExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutExercise, error)
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.WorkoutExercise, error)
	Update(ctx context.Context, we *domain.WorkoutExercise) error
	DeleteBySessionID(ctx context.Context, sessionID primitive.ObjectID) error
}

// MediaRepository defines data access for exercise media metadata.
type MediaRepository interface {
	Create(ctx context.Context, upload *domain.MediaUpload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MediaUpload, error)
	GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.MediaUpload, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

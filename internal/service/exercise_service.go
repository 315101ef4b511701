package service

import (
	"context"
	"errors"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/policy"
	"fitcoach/coaching-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseNameTaken    = errors.New("exercise with this name already exists")
	ErrExerciseAccessDenied = errors.New("exercise does not belong to this coach")
	ErrValidationFailed     = errors.New("validation failed")
)

// ExerciseInput carries the writable exercise fields. Taxonomy
// references arrive as hex ids and are validated against their tables.
type ExerciseInput struct {
	Name              string
	ShortName         string
	Description       string
	CategoryID        *string
	MovementTypeID    *string
	MuscleGroupID     *string
	EquipmentID       *string
	PositionID        *string
	ContractionTypeID *string
}

// ExerciseService manages the exercise catalogue.
type ExerciseService interface {
	CreateExercise(ctx context.Context, actor policy.Actor, input ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, id string) (*domain.Exercise, error)
	ListExercises(ctx context.Context, filter repository.ExerciseFilter, skip, limit int) ([]domain.Exercise, int64, error)
	SearchExercises(ctx context.Context, query string, skip, limit int) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, actor policy.Actor, id string, input ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, actor policy.Actor, id string) error
}

type exerciseService struct {
	exerciseRepo  repository.ExerciseRepository
	taxonomyRepos map[domain.TaxonomyKind]repository.TaxonomyRepository
}

// NewExerciseService creates a new instance of exerciseService. The
// taxonomy repositories are used to validate classification ids on
// create and update.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, taxonomyRepos map[domain.TaxonomyKind]repository.TaxonomyRepository) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo, taxonomyRepos: taxonomyRepos}
}

func (s *exerciseService) CreateExercise(ctx context.Context, actor policy.Actor, input ExerciseInput) (*domain.Exercise, error) {
	if !policy.IsCoachOrAdmin(actor) {
		return nil, ErrPermissionDenied
	}
	if input.Name == "" {
		return nil, ErrValidationFailed
	}

	exercise := &domain.Exercise{
		Name:        input.Name,
		ShortName:   input.ShortName,
		Description: input.Description,
	}
	// Admin-created exercises go into the shared catalogue unowned.
	if actor.RoleID == domain.RoleCoach {
		coachID := actor.ID
		exercise.CoachID = &coachID
	}

	if err := s.applyTaxonomyRefs(ctx, exercise, input); err != nil {
		return nil, err
	}

	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseNameTaken
		}
		return nil, err
	}
	exercise.ID = id
	return exercise, nil
}

func (s *exerciseService) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context, filter repository.ExerciseFilter, skip, limit int) ([]domain.Exercise, int64, error) {
	exercises, err := s.exerciseRepo.List(ctx, filter, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.exerciseRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return exercises, total, nil
}

func (s *exerciseService) SearchExercises(ctx context.Context, query string, skip, limit int) ([]domain.Exercise, error) {
	if query == "" {
		return []domain.Exercise{}, nil
	}
	return s.exerciseRepo.Search(ctx, query, skip, limit)
}

func (s *exerciseService) UpdateExercise(ctx context.Context, actor policy.Actor, id string, input ExerciseInput) (*domain.Exercise, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if !policy.CanMutateExercise(actor, exercise.CoachID) {
		return nil, ErrExerciseAccessDenied
	}

	if input.Name != "" {
		exercise.Name = input.Name
	}
	exercise.ShortName = input.ShortName
	exercise.Description = input.Description
	if err := s.applyTaxonomyRefs(ctx, exercise, input); err != nil {
		return nil, err
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseNameTaken
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, actor policy.Actor, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if !policy.CanMutateExercise(actor, exercise.CoachID) {
		return ErrExerciseAccessDenied
	}

	return s.exerciseRepo.Delete(ctx, oid)
}

// applyTaxonomyRefs resolves and validates the classification ids on
// input, writing them onto the exercise. An empty string clears the
// reference.
func (s *exerciseService) applyTaxonomyRefs(ctx context.Context, exercise *domain.Exercise, input ExerciseInput) error {
	refs := []struct {
		kind domain.TaxonomyKind
		in   *string
		out  **primitive.ObjectID
	}{
		{domain.KindCategory, input.CategoryID, &exercise.CategoryID},
		{domain.KindMovementType, input.MovementTypeID, &exercise.MovementTypeID},
		{domain.KindMuscleGroup, input.MuscleGroupID, &exercise.MuscleGroupID},
		{domain.KindEquipment, input.EquipmentID, &exercise.EquipmentID},
		{domain.KindPosition, input.PositionID, &exercise.PositionID},
		{domain.KindContractionType, input.ContractionTypeID, &exercise.ContractionTypeID},
	}
	for _, ref := range refs {
		if ref.in == nil {
			continue
		}
		if *ref.in == "" {
			*ref.out = nil
			continue
		}
		oid, err := parseObjectID(*ref.in)
		if err != nil {
			return err
		}
		repo, ok := s.taxonomyRepos[ref.kind]
		if !ok {
			return ErrUnknownTaxonomy
		}
		if _, err := repo.GetByID(ctx, oid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTaxonomyNotFound
			}
			return err
		}
		*ref.out = &oid
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"time"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/policy"
	"fitcoach/coaching-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound            = errors.New("plan not found")
	ErrPlanAccessDenied        = errors.New("plan does not belong to this coach")
	ErrSessionNotFound         = errors.New("workout session not found")
	ErrWorkoutExerciseNotFound = errors.New("workout exercise not found")
)

// PlanInput carries the writable plan fields.
type PlanInput struct {
	Name          string
	Description   string
	Goal          domain.PlanGoal
	Level         domain.PlanLevel
	DurationWeeks int
	IsPublic      bool
}

// SessionInput carries the writable session fields for manual
// creation and scheduling updates.
type SessionInput struct {
	Date      *time.Time
	Completed *bool
	Notes     *string
}

// CreateSessionInput carries the fields for adding a session to an
// existing plan by hand, outside the generator. ClientID defaults to
// the actor when empty.
type CreateSessionInput struct {
	PlanID   string
	ClientID string
	Date     time.Time
	Notes    string
}

// WorkoutResultInput carries the "done" fields a client records
// against a prescription after training.
type WorkoutResultInput struct {
	SetsDone   *int
	RepsDone   []int
	WeightUsed *string
	TimeSpent  *string
}

// PlanService manages workout plans, their sessions and the exercise
// prescriptions inside each session.
type PlanService interface {
	CreatePlan(ctx context.Context, actor policy.Actor, input PlanInput) (*domain.Plan, error)
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
	ListPlans(ctx context.Context, actor policy.Actor, skip, limit int) ([]domain.Plan, error)
	UpdatePlan(ctx context.Context, actor policy.Actor, id string, input PlanInput) (*domain.Plan, error)
	DeletePlan(ctx context.Context, actor policy.Actor, id string) error

	ListMyPlans(ctx context.Context, actor policy.Actor, skip, limit int) ([]domain.Plan, error)
	ListPublicPlans(ctx context.Context, skip, limit int) ([]domain.Plan, error)

	CreateSession(ctx context.Context, actor policy.Actor, input CreateSessionInput) (*domain.WorkoutSession, error)
	GetPlanSessions(ctx context.Context, planID string, skip, limit int) ([]domain.WorkoutSession, int64, error)
	GetSession(ctx context.Context, actor policy.Actor, sessionID string) (*domain.WorkoutSession, []domain.WorkoutExercise, error)
	UpdateSession(ctx context.Context, actor policy.Actor, sessionID string, input SessionInput) (*domain.WorkoutSession, error)
	RecordWorkoutResult(ctx context.Context, actor policy.Actor, workoutExerciseID string, input WorkoutResultInput) (*domain.WorkoutExercise, error)
}

type planService struct {
	planRepo    repository.PlanRepository
	sessionRepo repository.SessionRepository
	weRepo      repository.WorkoutExerciseRepository
	tx          repository.TxManager
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, sessionRepo repository.SessionRepository, weRepo repository.WorkoutExerciseRepository, tx repository.TxManager) PlanService {
	return &planService{planRepo: planRepo, sessionRepo: sessionRepo, weRepo: weRepo, tx: tx}
}

func (s *planService) CreatePlan(ctx context.Context, actor policy.Actor, input PlanInput) (*domain.Plan, error) {
	if !policy.CanCreatePlan(actor) {
		return nil, ErrPermissionDenied
	}
	if input.Name == "" || input.DurationWeeks <= 0 {
		return nil, ErrValidationFailed
	}

	plan := &domain.Plan{
		Name:          input.Name,
		Description:   input.Description,
		Goal:          input.Goal,
		Level:         input.Level,
		CoachID:       actor.ID,
		DurationWeeks: input.DurationWeeks,
		IsPublic:      input.IsPublic,
	}
	id, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

// GetPlan returns a plan by id. Plan reads are open: the visibility
// flag drives listing, not single-plan retrieval.
func (s *planService) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// ListPlans returns the actor's own plans for coaches, every plan for
// admins, and public plans for clients.
func (s *planService) ListPlans(ctx context.Context, actor policy.Actor, skip, limit int) ([]domain.Plan, error) {
	filter := repository.PlanFilter{}
	switch {
	case policy.IsAdmin(actor):
		// no filter
	case actor.RoleID == domain.RoleCoach:
		coachID := actor.ID
		filter.CoachID = &coachID
	default:
		public := true
		filter.IsPublic = &public
	}
	return s.planRepo.List(ctx, filter, skip, limit)
}

// ListMyPlans returns the plans authored by the actor, regardless of
// visibility.
func (s *planService) ListMyPlans(ctx context.Context, actor policy.Actor, skip, limit int) ([]domain.Plan, error) {
	coachID := actor.ID
	return s.planRepo.List(ctx, repository.PlanFilter{CoachID: &coachID}, skip, limit)
}

// ListPublicPlans returns the shared plan library visible to everyone.
func (s *planService) ListPublicPlans(ctx context.Context, skip, limit int) ([]domain.Plan, error) {
	public := true
	return s.planRepo.List(ctx, repository.PlanFilter{IsPublic: &public}, skip, limit)
}

func (s *planService) UpdatePlan(ctx context.Context, actor policy.Actor, id string, input PlanInput) (*domain.Plan, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if !policy.CanMutatePlan(actor, plan.CoachID) {
		return nil, ErrPlanAccessDenied
	}

	if input.Name != "" {
		plan.Name = input.Name
	}
	plan.Description = input.Description
	if input.Goal != "" {
		plan.Goal = input.Goal
	}
	if input.Level != "" {
		plan.Level = input.Level
	}
	if input.DurationWeeks > 0 {
		plan.DurationWeeks = input.DurationWeeks
	}
	plan.IsPublic = input.IsPublic

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeletePlan removes a plan together with its sessions and their
// prescriptions in one transaction.
func (s *planService) DeletePlan(ctx context.Context, actor policy.Actor, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	plan, err := s.planRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	if !policy.CanMutatePlan(actor, plan.CoachID) {
		return ErrPlanAccessDenied
	}

	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		sessions, err := s.sessionRepo.GetByPlanID(txCtx, oid, 0, 0)
		if err != nil {
			return err
		}
		for i := range sessions {
			if err := s.weRepo.DeleteBySessionID(txCtx, sessions[i].ID); err != nil {
				return err
			}
		}
		if err := s.sessionRepo.DeleteByPlanID(txCtx, oid); err != nil {
			return err
		}
		return s.planRepo.Delete(txCtx, oid)
	})
}

// CreateSession adds a session to a plan by hand. Only the plan's
// author may schedule sessions on it.
func (s *planService) CreateSession(ctx context.Context, actor policy.Actor, input CreateSessionInput) (*domain.WorkoutSession, error) {
	oid, err := parseObjectID(input.PlanID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !policy.CanMutatePlan(actor, plan.CoachID) {
		return nil, ErrPlanAccessDenied
	}
	if input.Date.IsZero() {
		return nil, ErrValidationFailed
	}

	clientID := actor.ID
	if input.ClientID != "" {
		clientID, err = parseObjectID(input.ClientID)
		if err != nil {
			return nil, err
		}
	}

	session := &domain.WorkoutSession{
		PlanID:   oid,
		ClientID: clientID,
		Date:     input.Date,
		Notes:    input.Notes,
	}
	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = id
	return session, nil
}

func (s *planService) GetPlanSessions(ctx context.Context, planID string, skip, limit int) ([]domain.WorkoutSession, int64, error) {
	oid, err := parseObjectID(planID)
	if err != nil {
		return nil, 0, err
	}
	if _, err := s.planRepo.GetByID(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, ErrPlanNotFound
		}
		return nil, 0, err
	}

	sessions, err := s.sessionRepo.GetByPlanID(ctx, oid, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.sessionRepo.CountByPlanID(ctx, oid)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (s *planService) GetSession(ctx context.Context, actor policy.Actor, sessionID string) (*domain.WorkoutSession, []domain.WorkoutExercise, error) {
	oid, err := parseObjectID(sessionID)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, err
	}

	plan, err := s.planRepo.GetByID(ctx, session.PlanID)
	if err != nil {
		return nil, nil, err
	}
	if !policy.CanMutateSession(actor, session.ClientID, plan.CoachID) {
		return nil, nil, ErrPermissionDenied
	}

	exercises, err := s.weRepo.GetBySessionID(ctx, oid)
	if err != nil {
		return nil, nil, err
	}
	return session, exercises, nil
}

func (s *planService) UpdateSession(ctx context.Context, actor policy.Actor, sessionID string, input SessionInput) (*domain.WorkoutSession, error) {
	oid, err := parseObjectID(sessionID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	plan, err := s.planRepo.GetByID(ctx, session.PlanID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateSession(actor, session.ClientID, plan.CoachID) {
		return nil, ErrPermissionDenied
	}

	if input.Date != nil {
		session.Date = *input.Date
	}
	if input.Completed != nil {
		session.Completed = *input.Completed
	}
	if input.Notes != nil {
		session.Notes = *input.Notes
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RecordWorkoutResult writes the done-fields on one prescription. The
// planned fields are immutable once generated.
func (s *planService) RecordWorkoutResult(ctx context.Context, actor policy.Actor, workoutExerciseID string, input WorkoutResultInput) (*domain.WorkoutExercise, error) {
	oid, err := parseObjectID(workoutExerciseID)
	if err != nil {
		return nil, err
	}
	we, err := s.weRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutExerciseNotFound
		}
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, we.SessionID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, session.PlanID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateSession(actor, session.ClientID, plan.CoachID) {
		return nil, ErrPermissionDenied
	}

	if input.SetsDone != nil {
		we.SetsDone = *input.SetsDone
	}
	if input.RepsDone != nil {
		we.RepsDone = input.RepsDone
	}
	if input.WeightUsed != nil {
		we.WeightUsed = *input.WeightUsed
	}
	if input.TimeSpent != nil {
		we.TimeSpent = *input.TimeSpent
	}

	if err := s.weRepo.Update(ctx, we); err != nil {
		return nil, err
	}
	return we, nil
}

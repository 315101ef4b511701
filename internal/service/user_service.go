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
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("client profile not found")
	ErrEmailTaken      = errors.New("email is already in use")
)

// UserUpdate carries the mutable user fields. Nil pointers leave the
// current value untouched.
type UserUpdate struct {
	Name    *string
	Email   *string
	CoachID *string
}

// ProfileUpdate carries the measurable fields of a client profile.
type ProfileUpdate struct {
	Height            *int
	Weight            *int
	Neck              *int
	Waist             *int
	Hip               *int
	BodyfatPercentage *int
	BMI               *int
	Goals             *string
	Injuries          *string
	MedicalNotes      *string
}

// UserService manages user accounts and client profiles.
type UserService interface {
	GetUser(ctx context.Context, actor policy.Actor, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, actor policy.Actor, roleID *domain.Role, skip, limit int) ([]domain.User, int64, error)
	SearchUsers(ctx context.Context, actor policy.Actor, query string, skip, limit int) ([]domain.User, error)
	UpdateUser(ctx context.Context, actor policy.Actor, userID string, update UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, actor policy.Actor, userID string) error
	GetCoachClients(ctx context.Context, actor policy.Actor, coachID string, skip, limit int) ([]domain.User, error)
	GetProfile(ctx context.Context, actor policy.Actor, userID string) (*domain.ClientProfile, error)
	UpdateProfile(ctx context.Context, actor policy.Actor, userID string, update ProfileUpdate) (*domain.ClientProfile, error)
}

type userService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) UserService {
	return &userService{userRepo: userRepo, profileRepo: profileRepo}
}

func (s *userService) GetUser(ctx context.Context, actor policy.Actor, userID string) (*domain.User, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !policy.CanReadUser(actor, user.ID, user.CoachID) {
		return nil, ErrPermissionDenied
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, actor policy.Actor, roleID *domain.Role, skip, limit int) ([]domain.User, int64, error) {
	if !policy.IsAdmin(actor) {
		return nil, 0, ErrPermissionDenied
	}

	filter := repository.UserFilter{RoleID: roleID}
	users, err := s.userRepo.List(ctx, filter, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, total, nil
}

func (s *userService) SearchUsers(ctx context.Context, actor policy.Actor, query string, skip, limit int) ([]domain.User, error) {
	if !policy.CanSearchUsers(actor) {
		return nil, ErrPermissionDenied
	}
	if query == "" {
		return []domain.User{}, nil
	}

	users, err := s.userRepo.Search(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor policy.Actor, userID string, update UserUpdate) (*domain.User, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !policy.CanUpdateUser(actor, user.ID) {
		return nil, ErrPermissionDenied
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.CoachID != nil {
		if *update.CoachID == "" {
			user.CoachID = nil
		} else {
			coachOID, err := parseObjectID(*update.CoachID)
			if err != nil {
				return nil, err
			}
			coach, err := s.userRepo.GetByID(ctx, coachOID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrCoachNotFound
				}
				return nil, err
			}
			if coach.RoleID != domain.RoleCoach {
				return nil, ErrNotACoach
			}
			user.CoachID = &coachOID
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor policy.Actor, userID string) error {
	oid, err := parseObjectID(userID)
	if err != nil {
		return err
	}

	if !policy.IsAdmin(actor) {
		return ErrPermissionDenied
	}

	if _, err := s.userRepo.GetByID(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// GetCoachClients returns all clients assigned to the given coach.
// Coaches can only list their own clients; admins can list anyone's.
func (s *userService) GetCoachClients(ctx context.Context, actor policy.Actor, coachID string, skip, limit int) ([]domain.User, error) {
	oid, err := parseObjectID(coachID)
	if err != nil {
		return nil, err
	}

	if !policy.IsAdmin(actor) && actor.ID != oid {
		return nil, ErrPermissionDenied
	}

	clients, err := s.userRepo.GetClientsByCoachID(ctx, oid, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

func (s *userService) GetProfile(ctx context.Context, actor policy.Actor, userID string) (*domain.ClientProfile, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !policy.CanAccessProfile(actor, user.ID, user.CoachID) {
		return nil, ErrPermissionDenied
	}

	profile, err := s.profileRepo.GetByUserID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfile upserts the client profile. Only the client themselves
// or an admin may write it.
func (s *userService) UpdateProfile(ctx context.Context, actor policy.Actor, userID string, update ProfileUpdate) (*domain.ClientProfile, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !policy.CanUpdateUser(actor, user.ID) {
		return nil, ErrPermissionDenied
	}

	profile, err := s.profileRepo.GetByUserID(ctx, oid)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		profile = &domain.ClientProfile{UserID: oid, CreatedAt: time.Now().UTC()}
	}

	if update.Height != nil {
		profile.Height = *update.Height
	}
	if update.Weight != nil {
		profile.Weight = *update.Weight
	}
	if update.Neck != nil {
		profile.Neck = *update.Neck
	}
	if update.Waist != nil {
		profile.Waist = *update.Waist
	}
	if update.Hip != nil {
		profile.Hip = *update.Hip
	}
	if update.BodyfatPercentage != nil {
		profile.BodyfatPercentage = *update.BodyfatPercentage
	}
	if update.BMI != nil {
		profile.BMI = *update.BMI
	}
	if update.Goals != nil {
		profile.Goals = *update.Goals
	}
	if update.Injuries != nil {
		profile.Injuries = *update.Injuries
	}
	if update.MedicalNotes != nil {
		profile.MedicalNotes = *update.MedicalNotes
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

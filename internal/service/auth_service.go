package service

import (
	"context"
	"errors"
	"time"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrCoachNotApproved     = errors.New("coach account is pending approval")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrCoachNotFound        = errors.New("coach not found")
	ErrNotACoach            = errors.New("user is not a coach")
	ErrAlreadyApproved      = errors.New("coach is already approved")
)

// AuthService handles registration, login, token issuance and the
// coach approval gate.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, roleID domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	IssueToken(user *domain.User) (string, error)
	GetPendingCoaches(ctx context.Context) ([]domain.User, error)
	ApproveCoach(ctx context.Context, adminID, coachID string) (*domain.User, error)
	GetJWTSecret() string
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new user registration. Coach registrations are
// created unapproved and stay locked out of login until an admin
// approves them.
func (s *authService) Register(ctx context.Context, name, email, password string, roleID domain.Role) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, errors.New("name, email and password cannot be empty")
	}
	if !roleID.Valid() {
		return nil, errors.New("invalid role")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		RoleID:       roleID,
		IsApproved:   true,
	}
	if roleID == domain.RoleCoach {
		now := time.Now().UTC()
		user.IsApproved = false
		user.ApprovalRequestedAt = &now
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID

	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials and issues a JWT. Correct credentials on
// an unapproved coach account still fail, with ErrCoachNotApproved so
// the handler can answer 403 instead of 401.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	if !user.CanAuthenticate() {
		return "", nil, ErrCoachNotApproved
	}

	token, err = s.IssueToken(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// GetPendingCoaches lists coach accounts awaiting approval.
func (s *authService) GetPendingCoaches(ctx context.Context) ([]domain.User, error) {
	coaches, err := s.userRepo.GetPendingCoaches(ctx)
	if err != nil {
		return nil, err
	}
	for i := range coaches {
		coaches[i].PasswordHash = ""
	}
	return coaches, nil
}

// ApproveCoach flips is_approved on a pending coach account and
// records who approved it and when. The admin check happens at the
// route level; this validates the target.
func (s *authService) ApproveCoach(ctx context.Context, adminID, coachID string) (*domain.User, error) {
	adminOID, err := parseObjectID(adminID)
	if err != nil {
		return nil, err
	}
	coachOID, err := parseObjectID(coachID)
	if err != nil {
		return nil, ErrCoachNotFound
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
	if coach.IsApproved {
		return nil, ErrAlreadyApproved
	}

	now := time.Now().UTC()
	coach.IsApproved = true
	coach.ApprovedAt = &now
	coach.ApprovedBy = &adminOID

	if err := s.userRepo.Update(ctx, coach); err != nil {
		return nil, err
	}

	coach.PasswordHash = ""
	return coach, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	RoleID domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed JWT for the given user.
func (s *authService) IssueToken(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "coaching-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication.
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}

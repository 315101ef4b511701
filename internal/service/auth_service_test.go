package service

import (
	"context"
	"testing"
	"time"

	"fitcoach/coaching-api/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

func newAuthFixture() (AuthService, *fakeUserRepo) {
	repo := &fakeUserRepo{}
	return NewAuthService(repo, testJWTSecret, time.Hour), repo
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterClient(t *testing.T) {
	svc, repo := newAuthFixture()

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123", domain.RoleClient)
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.True(t, user.IsApproved)
	assert.Nil(t, user.ApprovalRequestedAt)
	assert.Empty(t, user.PasswordHash, "hash must not leak out of the service")

	stored, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestRegisterCoachStartsUnapproved(t *testing.T) {
	svc, repo := newAuthFixture()

	user, err := svc.Register(context.Background(), "Bob", "bob@example.com", "password123", domain.RoleCoach)
	require.NoError(t, err)
	assert.False(t, user.IsApproved)
	require.NotNil(t, user.ApprovalRequestedAt)

	stored, err := repo.GetByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.False(t, stored.IsApproved)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123", domain.RoleClient)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other Alice", "alice@example.com", "password456", domain.RoleClient)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "", "alice@example.com", "password123", domain.RoleClient)
	assert.Error(t, err)

	_, err = svc.Register(context.Background(), "Alice", "alice@example.com", "password123", domain.Role(9))
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc, repo := newAuthFixture()
	repo.users = append(repo.users, &domain.User{
		ID:           primitive.NewObjectID(),
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: mustHash(t, "password123"),
		RoleID:       domain.RoleClient,
		IsApproved:   true,
	})

	token, user, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, user.PasswordHash)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleClient, claims.RoleID)
	assert.Equal(t, "coaching-api", claims.Issuer)
}

func TestLoginFailures(t *testing.T) {
	svc, repo := newAuthFixture()
	repo.users = append(repo.users, &domain.User{
		ID:           primitive.NewObjectID(),
		Email:        "alice@example.com",
		PasswordHash: mustHash(t, "password123"),
		RoleID:       domain.RoleClient,
		IsApproved:   true,
	})

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLoginPendingCoachRejected(t *testing.T) {
	svc, repo := newAuthFixture()
	repo.users = append(repo.users, &domain.User{
		ID:           primitive.NewObjectID(),
		Email:        "coach@example.com",
		PasswordHash: mustHash(t, "password123"),
		RoleID:       domain.RoleCoach,
		IsApproved:   false,
	})

	// Correct password, still locked out until approval.
	_, _, err := svc.Login(context.Background(), "coach@example.com", "password123")
	assert.ErrorIs(t, err, ErrCoachNotApproved)
}

func TestApproveCoach(t *testing.T) {
	svc, repo := newAuthFixture()
	adminID := primitive.NewObjectID()
	coach := &domain.User{
		ID:         primitive.NewObjectID(),
		Email:      "coach@example.com",
		RoleID:     domain.RoleCoach,
		IsApproved: false,
	}
	repo.users = append(repo.users, coach)

	approved, err := svc.ApproveCoach(context.Background(), adminID.Hex(), coach.ID.Hex())
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, adminID, *approved.ApprovedBy)

	stored, err := repo.GetByID(context.Background(), coach.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsApproved)
}

func TestApproveCoachErrors(t *testing.T) {
	svc, repo := newAuthFixture()
	adminID := primitive.NewObjectID().Hex()

	client := &domain.User{ID: primitive.NewObjectID(), RoleID: domain.RoleClient, IsApproved: true}
	approvedCoach := &domain.User{ID: primitive.NewObjectID(), RoleID: domain.RoleCoach, IsApproved: true}
	repo.users = append(repo.users, client, approvedCoach)

	_, err := svc.ApproveCoach(context.Background(), adminID, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrCoachNotFound)

	_, err = svc.ApproveCoach(context.Background(), adminID, "not-an-id")
	assert.ErrorIs(t, err, ErrCoachNotFound)

	_, err = svc.ApproveCoach(context.Background(), adminID, client.ID.Hex())
	assert.ErrorIs(t, err, ErrNotACoach)

	_, err = svc.ApproveCoach(context.Background(), adminID, approvedCoach.ID.Hex())
	assert.ErrorIs(t, err, ErrAlreadyApproved)
}

func TestGetPendingCoaches(t *testing.T) {
	svc, repo := newAuthFixture()
	repo.users = append(repo.users,
		&domain.User{ID: primitive.NewObjectID(), RoleID: domain.RoleCoach, IsApproved: false, PasswordHash: "h"},
		&domain.User{ID: primitive.NewObjectID(), RoleID: domain.RoleCoach, IsApproved: true},
		&domain.User{ID: primitive.NewObjectID(), RoleID: domain.RoleClient, IsApproved: true},
	)

	pending, err := svc.GetPendingCoaches(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Empty(t, pending[0].PasswordHash)
}

func TestNewAuthServicePanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() {
		NewAuthService(&fakeUserRepo{}, "", time.Hour)
	})
}

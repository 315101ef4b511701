package service

import (
	"context"
	"testing"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userFixture struct {
	svc      UserService
	users    *fakeUserRepo
	profiles *fakeProfileRepo
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:    &fakeUserRepo{},
		profiles: &fakeProfileRepo{},
	}
	f.svc = NewUserService(f.users, f.profiles)
	return f
}

func (f *userFixture) seedUser(role domain.Role, coachID *primitive.ObjectID) *domain.User {
	u := &domain.User{
		ID:           primitive.NewObjectID(),
		Name:         "Someone",
		Email:        primitive.NewObjectID().Hex() + "@example.com",
		PasswordHash: "hash",
		RoleID:       role,
		CoachID:      coachID,
		IsApproved:   true,
	}
	f.users.users = append(f.users.users, u)
	return u
}

func asActor(u *domain.User) policy.Actor {
	return policy.Actor{ID: u.ID, RoleID: u.RoleID}
}

func TestGetUserAccess(t *testing.T) {
	f := newUserFixture()
	coach := f.seedUser(domain.RoleCoach, nil)
	client := f.seedUser(domain.RoleClient, &coach.ID)
	admin := f.seedUser(domain.RoleAdmin, nil)
	otherClient := f.seedUser(domain.RoleClient, nil)

	got, err := f.svc.GetUser(context.Background(), asActor(client), client.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)

	// Assigned coach and admin may read; an unrelated client may not.
	_, err = f.svc.GetUser(context.Background(), asActor(coach), client.ID.Hex())
	assert.NoError(t, err)
	_, err = f.svc.GetUser(context.Background(), asActor(admin), client.ID.Hex())
	assert.NoError(t, err)
	_, err = f.svc.GetUser(context.Background(), asActor(otherClient), client.ID.Hex())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.svc.GetUser(context.Background(), asActor(admin), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.svc.GetUser(context.Background(), asActor(admin), "nope")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestListUsersAdminOnly(t *testing.T) {
	f := newUserFixture()
	admin := f.seedUser(domain.RoleAdmin, nil)
	coach := f.seedUser(domain.RoleCoach, nil)
	f.seedUser(domain.RoleClient, nil)
	f.seedUser(domain.RoleClient, nil)

	users, total, err := f.svc.ListUsers(context.Background(), asActor(admin), nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, users, 4)
	assert.Equal(t, int64(4), total)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}

	role := domain.RoleClient
	clients, total, err := f.svc.ListUsers(context.Background(), asActor(admin), &role, 0, 0)
	require.NoError(t, err)
	assert.Len(t, clients, 2)
	assert.Equal(t, int64(2), total)

	_, _, err = f.svc.ListUsers(context.Background(), asActor(coach), nil, 0, 0)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestSearchUsers(t *testing.T) {
	f := newUserFixture()
	coach := f.seedUser(domain.RoleCoach, nil)
	target := f.seedUser(domain.RoleClient, nil)
	target.Name = "Findable Fred"
	client := f.seedUser(domain.RoleClient, nil)

	results, err := f.svc.SearchUsers(context.Background(), asActor(coach), "findable", 0, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, target.ID, results[0].ID)

	empty, err := f.svc.SearchUsers(context.Background(), asActor(coach), "", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.svc.SearchUsers(context.Background(), asActor(client), "fred", 0, 10)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateUserCoachAssignment(t *testing.T) {
	f := newUserFixture()
	coach := f.seedUser(domain.RoleCoach, nil)
	client := f.seedUser(domain.RoleClient, nil)
	otherClient := f.seedUser(domain.RoleClient, nil)

	coachHex := coach.ID.Hex()
	updated, err := f.svc.UpdateUser(context.Background(), asActor(client), client.ID.Hex(), UserUpdate{CoachID: &coachHex})
	require.NoError(t, err)
	require.NotNil(t, updated.CoachID)
	assert.Equal(t, coach.ID, *updated.CoachID)

	// Empty string detaches the coach.
	empty := ""
	updated, err = f.svc.UpdateUser(context.Background(), asActor(client), client.ID.Hex(), UserUpdate{CoachID: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.CoachID)

	// Assigning a non-coach is rejected.
	notCoach := otherClient.ID.Hex()
	_, err = f.svc.UpdateUser(context.Background(), asActor(client), client.ID.Hex(), UserUpdate{CoachID: &notCoach})
	assert.ErrorIs(t, err, ErrNotACoach)

	missing := primitive.NewObjectID().Hex()
	_, err = f.svc.UpdateUser(context.Background(), asActor(client), client.ID.Hex(), UserUpdate{CoachID: &missing})
	assert.ErrorIs(t, err, ErrCoachNotFound)

	// Only the user themselves or an admin may update.
	name := "Renamed"
	_, err = f.svc.UpdateUser(context.Background(), asActor(otherClient), client.ID.Hex(), UserUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDeleteUserAdminOnly(t *testing.T) {
	f := newUserFixture()
	admin := f.seedUser(domain.RoleAdmin, nil)
	client := f.seedUser(domain.RoleClient, nil)

	// Self-deletion is not enough; only admins delete accounts.
	err := f.svc.DeleteUser(context.Background(), asActor(client), client.ID.Hex())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, f.svc.DeleteUser(context.Background(), asActor(admin), client.ID.Hex()))
	assert.Len(t, f.users.users, 1)

	err = f.svc.DeleteUser(context.Background(), asActor(admin), client.ID.Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetCoachClients(t *testing.T) {
	f := newUserFixture()
	coach := f.seedUser(domain.RoleCoach, nil)
	otherCoach := f.seedUser(domain.RoleCoach, nil)
	admin := f.seedUser(domain.RoleAdmin, nil)
	f.seedUser(domain.RoleClient, &coach.ID)
	f.seedUser(domain.RoleClient, &coach.ID)
	f.seedUser(domain.RoleClient, &otherCoach.ID)

	clients, err := f.svc.GetCoachClients(context.Background(), asActor(coach), coach.ID.Hex(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, clients, 2)

	// A coach cannot list someone else's roster; an admin can.
	_, err = f.svc.GetCoachClients(context.Background(), asActor(coach), otherCoach.ID.Hex(), 0, 0)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	clients, err = f.svc.GetCoachClients(context.Background(), asActor(admin), otherCoach.ID.Hex(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestProfileLifecycle(t *testing.T) {
	f := newUserFixture()
	coach := f.seedUser(domain.RoleCoach, nil)
	client := f.seedUser(domain.RoleClient, &coach.ID)

	_, err := f.svc.GetProfile(context.Background(), asActor(client), client.ID.Hex())
	assert.ErrorIs(t, err, ErrProfileNotFound)

	height := 182
	weight := 84
	goals := "strength"
	created, err := f.svc.UpdateProfile(context.Background(), asActor(client), client.ID.Hex(), ProfileUpdate{
		Height: &height,
		Weight: &weight,
		Goals:  &goals,
	})
	require.NoError(t, err)
	assert.Equal(t, client.ID, created.UserID)
	assert.Equal(t, 182, created.Height)
	assert.False(t, created.CreatedAt.IsZero())

	// Partial update keeps earlier fields.
	bodyfat := 18
	updated, err := f.svc.UpdateProfile(context.Background(), asActor(client), client.ID.Hex(), ProfileUpdate{
		BodyfatPercentage: &bodyfat,
	})
	require.NoError(t, err)
	assert.Equal(t, 182, updated.Height)
	assert.Equal(t, 18, updated.BodyfatPercentage)
	assert.Equal(t, "strength", updated.Goals)

	// Assigned coach can read but not write.
	got, err := f.svc.GetProfile(context.Background(), asActor(coach), client.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 84, got.Weight)

	_, err = f.svc.UpdateProfile(context.Background(), asActor(coach), client.ID.Hex(), ProfileUpdate{Height: &height})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

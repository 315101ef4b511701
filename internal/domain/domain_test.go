package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExerciseNameKey(t *testing.T) {
	cases := map[string]string{
		"Bench Press":    "bench_press",
		"  Squat ":       "squat",
		"overhead press": "overhead_press",
		"Plank":          "plank",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExerciseNameKey(in), in)
	}
}

func TestWorkoutFocusLabel(t *testing.T) {
	assert.Equal(t, "Full Body", FocusFullBody.Label())
	assert.Equal(t, "Upper Body", FocusUpperBody.Label())
	assert.Equal(t, "Push", FocusPush.Label())
	assert.Equal(t, "Rest", FocusRest.Label())
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, Role(1).Valid())
	assert.True(t, Role(3).Valid())
	assert.False(t, Role(0).Valid())
	assert.False(t, Role(4).Valid())

	assert.Equal(t, "admin", RoleAdmin.String())
	assert.Equal(t, "coach", RoleCoach.String())
	assert.Equal(t, "client", RoleClient.String())
}

func TestCanAuthenticate(t *testing.T) {
	approvedCoach := User{RoleID: RoleCoach, IsApproved: true}
	pendingCoach := User{RoleID: RoleCoach, IsApproved: false}
	client := User{RoleID: RoleClient}
	admin := User{RoleID: RoleAdmin, IsApproved: true}

	assert.True(t, approvedCoach.CanAuthenticate())
	assert.False(t, pendingCoach.CanAuthenticate())
	assert.True(t, client.CanAuthenticate(), "clients never need approval")
	assert.True(t, admin.CanAuthenticate())
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/policy"
	"fitcoach/coaching-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeMediaRepo struct {
	uploads []*domain.MediaUpload
}

func (r *fakeMediaRepo) Create(_ context.Context, upload *domain.MediaUpload) (primitive.ObjectID, error) {
	stored := *upload
	stored.ID = primitive.NewObjectID()
	r.uploads = append(r.uploads, &stored)
	return stored.ID, nil
}

func (r *fakeMediaRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MediaUpload, error) {
	for _, u := range r.uploads {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMediaRepo) GetByExerciseID(_ context.Context, exerciseID primitive.ObjectID) ([]domain.MediaUpload, error) {
	var out []domain.MediaUpload
	for _, u := range r.uploads {
		if u.ExerciseID == exerciseID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeMediaRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, u := range r.uploads {
		if u.ID == id {
			r.uploads = append(r.uploads[:i], r.uploads[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeFileStorage struct {
	deleted []string
	fail    bool
}

func (s *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	if s.fail {
		return "", assert.AnError
	}
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if s.fail {
		return "", assert.AnError
	}
	return "https://storage.test/download/" + objectKey, nil
}

func (s *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	if s.fail {
		return assert.AnError
	}
	s.deleted = append(s.deleted, objectKey)
	return nil
}

type mediaFixture struct {
	svc       MediaService
	media     *fakeMediaRepo
	exercises *fakeExerciseRepo
	files     *fakeFileStorage
}

func newMediaFixture() *mediaFixture {
	f := &mediaFixture{
		media:     &fakeMediaRepo{},
		exercises: &fakeExerciseRepo{},
		files:     &fakeFileStorage{},
	}
	f.svc = NewMediaService(f.media, f.exercises, f.files)
	return f
}

func TestRequestUpload(t *testing.T) {
	f := newMediaFixture()
	coach := coachActor()
	ex := f.exercises.add("Squat")
	ex.CoachID = &coach.ID

	url, media, err := f.svc.RequestUpload(context.Background(), coach, ex.ID.Hex(), "demo.mp4", "video/mp4", 1024)
	require.NoError(t, err)
	assert.Contains(t, url, "https://storage.test/upload/exercises/"+ex.ID.Hex()+"/")
	assert.True(t, strings.HasSuffix(media.S3ObjectKey, ".mp4"))
	assert.Equal(t, coach.ID, media.CoachID)
	assert.Equal(t, ex.ID, media.ExerciseID)
	assert.Equal(t, int64(1024), media.Size)
	assert.Len(t, f.media.uploads, 1)
}

func TestRequestUploadAccess(t *testing.T) {
	f := newMediaFixture()
	owner := coachActor()
	other := coachActor()
	ex := f.exercises.add("Squat")
	ex.CoachID = &owner.ID

	_, _, err := f.svc.RequestUpload(context.Background(), other, ex.ID.Hex(), "demo.mp4", "video/mp4", 1)
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)

	_, _, err = f.svc.RequestUpload(context.Background(), owner, primitive.NewObjectID().Hex(), "demo.mp4", "video/mp4", 1)
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	_, _, err = f.svc.RequestUpload(context.Background(), owner, ex.ID.Hex(), "", "video/mp4", 1)
	assert.ErrorIs(t, err, ErrValidationFailed)

	// No metadata is written when the storage backend fails.
	f.files.fail = true
	_, _, err = f.svc.RequestUpload(context.Background(), owner, ex.ID.Hex(), "demo.mp4", "video/mp4", 1)
	assert.ErrorIs(t, err, ErrStorageFailed)
	assert.Empty(t, f.media.uploads)
}

func TestListExerciseMedia(t *testing.T) {
	f := newMediaFixture()
	coach := coachActor()
	ex := f.exercises.add("Squat")
	ex.CoachID = &coach.ID

	_, _, err := f.svc.RequestUpload(context.Background(), coach, ex.ID.Hex(), "front.mp4", "video/mp4", 1)
	require.NoError(t, err)
	_, _, err = f.svc.RequestUpload(context.Background(), coach, ex.ID.Hex(), "side.jpg", "image/jpeg", 1)
	require.NoError(t, err)

	links, err := f.svc.ListExerciseMedia(context.Background(), ex.ID.Hex())
	require.NoError(t, err)
	require.Len(t, links, 2)
	for _, link := range links {
		assert.Contains(t, link.DownloadURL, "https://storage.test/download/")
		assert.Equal(t, ex.ID, link.Media.ExerciseID)
	}

	_, err = f.svc.ListExerciseMedia(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestDeleteMedia(t *testing.T) {
	f := newMediaFixture()
	owner := coachActor()
	other := coachActor()
	admin := policy.Actor{ID: primitive.NewObjectID(), RoleID: domain.RoleAdmin}
	ex := f.exercises.add("Squat")
	ex.CoachID = &owner.ID

	_, media, err := f.svc.RequestUpload(context.Background(), owner, ex.ID.Hex(), "demo.mp4", "video/mp4", 1)
	require.NoError(t, err)

	err = f.svc.DeleteMedia(context.Background(), other, media.ID.Hex())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, f.svc.DeleteMedia(context.Background(), owner, media.ID.Hex()))
	assert.Empty(t, f.media.uploads)
	require.Len(t, f.files.deleted, 1)
	assert.Equal(t, media.S3ObjectKey, f.files.deleted[0])

	err = f.svc.DeleteMedia(context.Background(), admin, media.ID.Hex())
	assert.ErrorIs(t, err, ErrMediaNotFound)
}

func TestDeleteMediaStorageFailureKeepsRecord(t *testing.T) {
	f := newMediaFixture()
	owner := coachActor()
	ex := f.exercises.add("Squat")
	ex.CoachID = &owner.ID

	_, media, err := f.svc.RequestUpload(context.Background(), owner, ex.ID.Hex(), "demo.mp4", "video/mp4", 1)
	require.NoError(t, err)

	f.files.fail = true
	err = f.svc.DeleteMedia(context.Background(), owner, media.ID.Hex())
	assert.ErrorIs(t, err, ErrStorageFailed)
	assert.Len(t, f.media.uploads, 1)
}

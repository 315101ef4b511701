package service

import (
	"context"
	"errors"
	"path/filepath"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/policy"
	"fitcoach/coaching-api/internal/repository"
	"fitcoach/coaching-api/internal/storage"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrMediaNotFound = errors.New("media upload not found")
	ErrStorageFailed = errors.New("object storage operation failed")
)

// MediaLink pairs stored media metadata with a presigned download URL.
type MediaLink struct {
	Media       *domain.MediaUpload
	DownloadURL string
}

// MediaService manages demonstration files attached to exercises. The
// server only brokers presigned URLs; bytes flow directly between the
// client and object storage.
type MediaService interface {
	RequestUpload(ctx context.Context, actor policy.Actor, exerciseID, fileName, contentType string, size int64) (uploadURL string, media *domain.MediaUpload, err error)
	ListExerciseMedia(ctx context.Context, exerciseID string) ([]MediaLink, error)
	DeleteMedia(ctx context.Context, actor policy.Actor, mediaID string) error
}

type mediaService struct {
	mediaRepo    repository.MediaRepository
	exerciseRepo repository.ExerciseRepository
	files        storage.FileStorage
}

// NewMediaService creates a new instance of mediaService.
func NewMediaService(mediaRepo repository.MediaRepository, exerciseRepo repository.ExerciseRepository, files storage.FileStorage) MediaService {
	return &mediaService{mediaRepo: mediaRepo, exerciseRepo: exerciseRepo, files: files}
}

// RequestUpload records upload metadata and returns a presigned PUT
// URL. Only whoever may mutate the exercise may attach media to it.
func (s *mediaService) RequestUpload(ctx context.Context, actor policy.Actor, exerciseID, fileName, contentType string, size int64) (string, *domain.MediaUpload, error) {
	oid, err := parseObjectID(exerciseID)
	if err != nil {
		return "", nil, err
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrExerciseNotFound
		}
		return "", nil, err
	}
	if !policy.CanMutateExercise(actor, exercise.CoachID) {
		return "", nil, ErrExerciseAccessDenied
	}
	if fileName == "" || contentType == "" {
		return "", nil, ErrValidationFailed
	}

	objectKey := "exercises/" + oid.Hex() + "/" + uuid.NewString() + filepath.Ext(fileName)

	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", nil, ErrStorageFailed
	}

	media := &domain.MediaUpload{
		ExerciseID:  oid,
		CoachID:     actor.ID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
	}
	mediaID, err := s.mediaRepo.Create(ctx, media)
	if err != nil {
		return "", nil, err
	}
	media.ID = mediaID

	return uploadURL, media, nil
}

// ListExerciseMedia returns the media attached to an exercise with
// fresh download links. Any authenticated user may view.
func (s *mediaService) ListExerciseMedia(ctx context.Context, exerciseID string) ([]MediaLink, error) {
	oid, err := parseObjectID(exerciseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.exerciseRepo.GetByID(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	uploads, err := s.mediaRepo.GetByExerciseID(ctx, oid)
	if err != nil {
		return nil, err
	}

	links := make([]MediaLink, 0, len(uploads))
	for i := range uploads {
		url, err := s.files.GeneratePresignedDownloadURL(ctx, uploads[i].S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, ErrStorageFailed
		}
		links = append(links, MediaLink{Media: &uploads[i], DownloadURL: url})
	}
	return links, nil
}

// DeleteMedia removes the stored object first, then the metadata, so
// a failure never orphans bytes in the bucket without a record.
func (s *mediaService) DeleteMedia(ctx context.Context, actor policy.Actor, mediaID string) error {
	oid, err := parseObjectID(mediaID)
	if err != nil {
		return err
	}

	media, err := s.mediaRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	if !policy.IsAdmin(actor) && media.CoachID != actor.ID {
		return ErrPermissionDenied
	}

	if err := s.files.DeleteObject(ctx, media.S3ObjectKey); err != nil {
		return ErrStorageFailed
	}
	return s.mediaRepo.Delete(ctx, oid)
}

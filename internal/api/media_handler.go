package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
)

// MediaHandler holds the media service dependency.
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// --- Request/Response Structs ---

type UploadRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,min=1"`
}

type UploadResponse struct {
	UploadURL string        `json:"upload_url"`
	Media     MediaResponse `json:"media"`
}

type MediaResponse struct {
	ID          string    `json:"id"`
	ExerciseID  string    `json:"exercise_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	DownloadURL string    `json:"download_url,omitempty"`
}

// --- Handler Methods ---

// RequestUpload godoc
// @Summary Request a presigned upload URL for exercise media (owner coach or admin)
// @Description The caller PUTs the file bytes directly to the returned URL with the declared Content-Type.
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param upload body UploadRequest true "File metadata"
// @Success 201 {object} UploadResponse
// @Router /exercises/{id}/media [post]
func (h *MediaHandler) RequestUpload(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	uploadURL, media, err := h.mediaService.RequestUpload(c.Request.Context(), actor, c.Param("id"), req.FileName, req.ContentType, req.Size)
	if err != nil {
		h.mapMediaError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{
		UploadURL: uploadURL,
		Media:     mapMediaToResponse(media, ""),
	})
}

// ListExerciseMedia godoc
// @Summary List an exercise's media with fresh download links
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {array} MediaResponse
// @Router /exercises/{id}/media [get]
func (h *MediaHandler) ListExerciseMedia(c *gin.Context) {
	links, err := h.mediaService.ListExerciseMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapMediaError(c, err)
		return
	}

	resp := make([]MediaResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, mapMediaToResponse(link.Media, link.DownloadURL))
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteMedia godoc
// @Summary Delete a media upload and its stored object
// @Tags Media
// @Security BearerAuth
// @Param id path string true "Media ID"
// @Success 204 "Deleted"
// @Router /media/{id} [delete]
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.mediaService.DeleteMedia(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.mapMediaError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func mapMediaToResponse(media *domain.MediaUpload, downloadURL string) MediaResponse {
	return MediaResponse{
		ID:          media.ID.Hex(),
		ExerciseID:  media.ExerciseID.Hex(),
		FileName:    media.FileName,
		ContentType: media.ContentType,
		Size:        media.Size,
		UploadedAt:  media.UploadedAt,
		DownloadURL: downloadURL,
	}
}

// mapMediaError translates media service errors to HTTP statuses.
func (h *MediaHandler) mapMediaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMediaNotFound), errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseAccessDenied), errors.Is(err, service.ErrPermissionDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrStorageFailed):
		abortWithError(c, http.StatusBadGateway, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

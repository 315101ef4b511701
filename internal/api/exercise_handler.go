package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/repository"
	"fitcoach/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request/Response Structs ---

type ExerciseRequest struct {
	Name              string  `json:"name" binding:"required"`
	ShortName         string  `json:"short_name,omitempty"`
	Description       string  `json:"description,omitempty"`
	CategoryID        *string `json:"category_id,omitempty"`
	MovementTypeID    *string `json:"movement_type_id,omitempty"`
	MuscleGroupID     *string `json:"muscle_group_id,omitempty"`
	EquipmentID       *string `json:"equipment_id,omitempty"`
	PositionID        *string `json:"position_id,omitempty"`
	ContractionTypeID *string `json:"contraction_type_id,omitempty"`
}

type ExerciseListResponse struct {
	Exercises []domain.Exercise `json:"exercises"`
	Total     int64             `json:"total"`
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create an exercise (coach/admin)
// @Description Coach-created exercises are owned by the coach; admin-created ones go into the shared catalogue unowned.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise definition"
// @Success 201 {object} domain.Exercise
// @Failure 409 {object} gin.H "Name already exists"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), actor, exerciseInputFromRequest(req))
	if err != nil {
		h.mapExerciseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// GetExercise godoc
// @Summary Get an exercise by id
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} domain.Exercise
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// ListExercises godoc
// @Summary List exercises with optional taxonomy filters
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param coach_id query string false "Filter by owning coach"
// @Param category_id query string false "Filter by category"
// @Param muscle_group_id query string false "Filter by muscle group"
// @Param equipment_id query string false "Filter by equipment"
// @Success 200 {object} ExerciseListResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	var filter repository.ExerciseFilter
	for query, dst := range map[string]**primitive.ObjectID{
		"coach_id":        &filter.CoachID,
		"category_id":     &filter.CategoryID,
		"muscle_group_id": &filter.MuscleGroupID,
		"equipment_id":    &filter.EquipmentID,
	} {
		raw := c.Query(query)
		if raw == "" {
			continue
		}
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid %s", query))
			return
		}
		*dst = &oid
	}

	skip, limit := paginationParams(c)
	exercises, total, err := h.exerciseService.ListExercises(c.Request.Context(), filter, skip, limit)
	if err != nil {
		h.mapExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExerciseListResponse{Exercises: exercises, Total: total})
}

// SearchExercises godoc
// @Summary Search exercises by name
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Success 200 {array} domain.Exercise
// @Router /exercises/search [get]
func (h *ExerciseHandler) SearchExercises(c *gin.Context) {
	skip, limit := paginationParams(c)
	exercises, err := h.exerciseService.SearchExercises(c.Request.Context(), c.Query("q"), skip, limit)
	if err != nil {
		h.mapExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// UpdateExercise godoc
// @Summary Update an exercise (owner coach or admin)
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Fields to update"
// @Success 200 {object} domain.Exercise
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), actor, c.Param("id"), exerciseInputFromRequest(req))
	if err != nil {
		h.mapExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise godoc
// @Summary Delete an exercise (owner coach or admin)
// @Tags Exercises
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 204 "Deleted"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.mapExerciseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func exerciseInputFromRequest(req ExerciseRequest) service.ExerciseInput {
	return service.ExerciseInput{
		Name:              req.Name,
		ShortName:         req.ShortName,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		MovementTypeID:    req.MovementTypeID,
		MuscleGroupID:     req.MuscleGroupID,
		EquipmentID:       req.EquipmentID,
		PositionID:        req.PositionID,
		ContractionTypeID: req.ContractionTypeID,
	}
}

// mapExerciseError translates exercise service errors to HTTP statuses.
func (h *ExerciseHandler) mapExerciseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrExerciseNotFound), errors.Is(err, service.ErrTaxonomyNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseAccessDenied), errors.Is(err, service.ErrPermissionDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrExerciseNameTaken):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

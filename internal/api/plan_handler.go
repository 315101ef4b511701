package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitcoach/coaching-api/internal/catalog"
	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler holds the plan and generator service dependencies.
type PlanHandler struct {
	planService service.PlanService
	generator   service.PlanGeneratorService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, generator service.PlanGeneratorService) *PlanHandler {
	return &PlanHandler{planService: planService, generator: generator}
}

// --- Request/Response Structs ---

type PlanRequest struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description,omitempty"`
	Goal          domain.PlanGoal  `json:"goal" binding:"required,oneof=muscle_gain weight_loss strength endurance general_fitness"`
	Level         domain.PlanLevel `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	DurationWeeks int              `json:"duration_weeks" binding:"required,min=1"`
	IsPublic      bool             `json:"is_public,omitempty"`
}

type UpdatePlanRequest struct {
	Name          string           `json:"name,omitempty"`
	Description   string           `json:"description,omitempty"`
	Goal          domain.PlanGoal  `json:"goal,omitempty" binding:"omitempty,oneof=muscle_gain weight_loss strength endurance general_fitness"`
	Level         domain.PlanLevel `json:"level,omitempty" binding:"omitempty,oneof=beginner intermediate advanced"`
	DurationWeeks int              `json:"duration_weeks,omitempty" binding:"omitempty,min=1"`
	IsPublic      bool             `json:"is_public,omitempty"`
}

type GeneratePlanRequest struct {
	TemplateKey string `json:"template_name" binding:"required"`
	CustomName  string `json:"custom_name,omitempty"`
}

type GeneratePlanResponse struct {
	PlanID        string `json:"plan_id"`
	Name          string `json:"name"`
	DurationWeeks int    `json:"duration_weeks"`
	WorkoutsCount int    `json:"workouts_count"`
}

type SessionListResponse struct {
	Sessions []domain.WorkoutSession `json:"sessions"`
	Total    int64                   `json:"total"`
}

type SessionDetailResponse struct {
	Session   domain.WorkoutSession    `json:"session"`
	Exercises []domain.WorkoutExercise `json:"exercises"`
}

type CreateSessionRequest struct {
	PlanID   string    `json:"plan_id" binding:"required"`
	ClientID string    `json:"client_id,omitempty"`
	Date     time.Time `json:"date" binding:"required"`
	Notes    string    `json:"notes,omitempty"`
}

type UpdateSessionRequest struct {
	Date      *time.Time `json:"date,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

type WorkoutResultRequest struct {
	SetsDone   *int    `json:"sets_done,omitempty"`
	RepsDone   []int   `json:"reps_done,omitempty"`
	WeightUsed *string `json:"weight_used,omitempty"`
	TimeSpent  *string `json:"time_spent,omitempty"`
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Create a custom plan (coach/admin)
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body PlanRequest true "Plan definition"
// @Success 201 {object} domain.Plan
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), actor, service.PlanInput{
		Name:          req.Name,
		Description:   req.Description,
		Goal:          req.Goal,
		Level:         req.Level,
		DurationWeeks: req.DurationWeeks,
		IsPublic:      req.IsPublic,
	})
	if err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// AvailableTemplates godoc
// @Summary List the plan templates the generator can expand
// @Tags Plans
// @Produce json
// @Success 200 {array} catalog.Summary
// @Router /plans/templates/available [get]
func (h *PlanHandler) AvailableTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, h.generator.AvailableTemplates())
}

// GeneratePlan godoc
// @Summary Generate a full plan from a template (coach/admin)
// @Description Expands the template into a stored plan with dated sessions and exercise prescriptions, atomically.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GeneratePlanRequest true "Template key and optional custom name"
// @Success 201 {object} GeneratePlanResponse
// @Failure 400 {object} gin.H "Unknown template"
// @Router /plans/generate-from-template [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), actor, req.TemplateKey, req.CustomName)
	if err != nil {
		var notFound *catalog.NotFoundError
		switch {
		case errors.As(err, &notFound):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPermissionDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Plan generation failed")
		}
		return
	}

	c.JSON(http.StatusCreated, GeneratePlanResponse{
		PlanID:        result.Plan.ID.Hex(),
		Name:          result.Plan.Name,
		DurationWeeks: result.Plan.DurationWeeks,
		WorkoutsCount: result.SessionCount,
	})
}

// GetPlan godoc
// @Summary Get a plan by id
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} domain.Plan
// @Router /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.planService.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ListPlans godoc
// @Summary List plans visible to the caller
// @Description Coaches see their own plans, admins see everything, clients see public plans.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Plan
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	skip, limit := paginationParams(c)
	plans, err := h.planService.ListPlans(c.Request.Context(), actor, skip, limit)
	if err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// ListMyPlans godoc
// @Summary List the caller's own authored plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Plan
// @Router /plans/my-plans [get]
func (h *PlanHandler) ListMyPlans(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	skip, limit := paginationParams(c)
	plans, err := h.planService.ListMyPlans(c.Request.Context(), actor, skip, limit)
	if err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// ListPublicPlans godoc
// @Summary List the shared public plan library
// @Tags Plans
// @Produce json
// @Success 200 {array} domain.Plan
// @Router /plans/public [get]
func (h *PlanHandler) ListPublicPlans(c *gin.Context) {
	skip, limit := paginationParams(c)
	plans, err := h.planService.ListPublicPlans(c.Request.Context(), skip, limit)
	if err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// UpdatePlan godoc
// @Summary Update a plan (authoring coach only)
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param plan body UpdatePlanRequest true "Fields to update"
// @Success 200 {object} domain.Plan
// @Failure 403 {object} gin.H "Not the plan's author"
// @Router /plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), actor, c.Param("id"), service.PlanInput{
		Name:          req.Name,
		Description:   req.Description,
		Goal:          req.Goal,
		Level:         req.Level,
		DurationWeeks: req.DurationWeeks,
		IsPublic:      req.IsPublic,
	})
	if err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan godoc
// @Summary Delete a plan with all its sessions (authoring coach only)
// @Tags Plans
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 204 "Deleted"
// @Router /plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPlanSessions godoc
// @Summary List the dated sessions of a plan
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} SessionListResponse
// @Router /plans/{id}/sessions [get]
func (h *PlanHandler) GetPlanSessions(c *gin.Context) {
	skip, limit := paginationParams(c)
	sessions, total, err := h.planService.GetPlanSessions(c.Request.Context(), c.Param("id"), skip, limit)
	if err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionListResponse{Sessions: sessions, Total: total})
}

// CreateSession godoc
// @Summary Add a session to a plan by hand (authoring coach only)
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body CreateSessionRequest true "Session definition"
// @Success 201 {object} domain.WorkoutSession
// @Failure 403 {object} gin.H "Not the plan's author"
// @Router /sessions [post]
func (h *PlanHandler) CreateSession(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.planService.CreateSession(c.Request.Context(), actor, service.CreateSessionInput{
		PlanID:   req.PlanID,
		ClientID: req.ClientID,
		Date:     req.Date,
		Notes:    req.Notes,
	})
	if err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession godoc
// @Summary Get a session with its exercise prescriptions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionDetailResponse
// @Router /sessions/{id} [get]
func (h *PlanHandler) GetSession(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	session, exercises, err := h.planService.GetSession(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionDetailResponse{Session: *session, Exercises: exercises})
}

// UpdateSession godoc
// @Summary Update a session's schedule, completion or notes
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param session body UpdateSessionRequest true "Fields to update"
// @Success 200 {object} domain.WorkoutSession
// @Router /sessions/{id} [put]
func (h *PlanHandler) UpdateSession(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.planService.UpdateSession(c.Request.Context(), actor, c.Param("id"), service.SessionInput{
		Date:      req.Date,
		Completed: req.Completed,
		Notes:     req.Notes,
	})
	if err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// RecordWorkoutResult godoc
// @Summary Record the performed sets/reps/weight on a prescription
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout exercise ID"
// @Param result body WorkoutResultRequest true "Executed values"
// @Success 200 {object} domain.WorkoutExercise
// @Router /workout-exercises/{id}/result [put]
func (h *PlanHandler) RecordWorkoutResult(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req WorkoutResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	we, err := h.planService.RecordWorkoutResult(c.Request.Context(), actor, c.Param("id"), service.WorkoutResultInput{
		SetsDone:   req.SetsDone,
		RepsDone:   req.RepsDone,
		WeightUsed: req.WeightUsed,
		TimeSpent:  req.TimeSpent,
	})
	if err != nil {
		h.mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, we)
}

// mapPlanError translates plan service errors to HTTP statuses.
func (h *PlanHandler) mapPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrWorkoutExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied), errors.Is(err, service.ErrPermissionDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler holds the user service dependency.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// --- Request/Response Structs ---

type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty" binding:"omitempty,email"`
	CoachID *string `json:"coach_id,omitempty"`
}

type UpdateProfileRequest struct {
	Height            *int    `json:"height,omitempty"`
	Weight            *int    `json:"weight,omitempty"`
	Neck              *int    `json:"neck,omitempty"`
	Waist             *int    `json:"waist,omitempty"`
	Hip               *int    `json:"hip,omitempty"`
	BodyfatPercentage *int    `json:"bodyfatPercentage,omitempty"`
	BMI               *int    `json:"bmi,omitempty"`
	Goals             *string `json:"goals,omitempty"`
	Injuries          *string `json:"injuries,omitempty"`
	MedicalNotes      *string `json:"medicalNotes,omitempty"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
}

// paginationParams reads skip/limit query values with sane bounds.
func paginationParams(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return skip, limit
}

// --- Handler Methods ---

// GetMe godoc
// @Summary Get the authenticated user's own account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), actor, actor.ID.Hex())
	if err != nil {
		h.mapUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// GetUser godoc
// @Summary Get a user by id
// @Description Visible to the user themselves, admins, and the coach the user is assigned to.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 403 {object} gin.H "Permission denied"
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.mapUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// ListUsers godoc
// @Summary List users (admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param role_id query int false "Filter by role id"
// @Success 200 {object} UserListResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var roleFilter *domain.Role
	if raw := c.Query("role_id"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "role_id must be an integer")
			return
		}
		role := domain.Role(n)
		if !role.Valid() {
			abortWithError(c, http.StatusBadRequest, "unknown role_id")
			return
		}
		roleFilter = &role
	}

	skip, limit := paginationParams(c)
	users, total, err := h.userService.ListUsers(c.Request.Context(), actor, roleFilter, skip, limit)
	if err != nil {
		h.mapUserError(c, err)
		return
	}

	resp := UserListResponse{Users: make([]UserResponse, 0, len(users)), Total: total}
	for i := range users {
		resp.Users = append(resp.Users, MapUserToResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// SearchUsers godoc
// @Summary Search users by name or email (coach/admin)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Success 200 {array} UserResponse
// @Router /users/search [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	skip, limit := paginationParams(c)
	users, err := h.userService.SearchUsers(c.Request.Context(), actor, c.Query("q"), skip, limit)
	if err != nil {
		h.mapUserError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, MapUserToResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateUser godoc
// @Summary Update a user account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Fields to update"
// @Success 200 {object} UserResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), actor, c.Param("id"), service.UserUpdate{
		Name:    req.Name,
		Email:   req.Email,
		CoachID: req.CoachID,
	})
	if err != nil {
		h.mapUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// DeleteUser godoc
// @Summary Delete a user account (admin only)
// @Tags Users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "Deleted"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.mapUserError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCoachClients godoc
// @Summary List the clients assigned to a coach
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coach user ID"
// @Success 200 {array} UserResponse
// @Router /coaches/{id}/clients [get]
func (h *UserHandler) GetCoachClients(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	skip, limit := paginationParams(c)
	clients, err := h.userService.GetCoachClients(c.Request.Context(), actor, c.Param("id"), skip, limit)
	if err != nil {
		h.mapUserError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, MapUserToResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetProfile godoc
// @Summary Get a client's measurement profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} domain.ClientProfile
// @Router /users/{id}/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.mapUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Create or update a client's measurement profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} domain.ClientProfile
// @Router /users/{id}/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), actor, c.Param("id"), service.ProfileUpdate{
		Height:            req.Height,
		Weight:            req.Weight,
		Neck:              req.Neck,
		Waist:             req.Waist,
		Hip:               req.Hip,
		BodyfatPercentage: req.BodyfatPercentage,
		BMI:               req.BMI,
		Goals:             req.Goals,
		Injuries:          req.Injuries,
		MedicalNotes:      req.MedicalNotes,
	})
	if err != nil {
		h.mapUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// mapUserError translates user service errors to HTTP statuses.
func (h *UserHandler) mapUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrProfileNotFound), errors.Is(err, service.ErrCoachNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrNotACoach):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

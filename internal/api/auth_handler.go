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

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	RoleID   domain.Role `json:"role_id" binding:"required,oneof=2 3"` // coach or client; admins are seeded
}

// UserResponse excludes sensitive info like the password hash.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	RoleID     domain.Role `json:"role_id"`
	Role       string      `json:"role"`
	CoachID    *string     `json:"coach_id,omitempty"`
	IsApproved bool        `json:"is_approved"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user (Coach or Client)
// @Description Creates a new user account. Coach accounts start unapproved and cannot log in until an admin approves them.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.RoleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrHashingFailed):
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		default:
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token. An unapproved coach gets 403 even with correct credentials.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 403 {object} gin.H "Forbidden (coach pending approval)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthenticationFailed):
			abortWithError(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrCoachNotApproved):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrTokenGeneration):
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// RefreshToken godoc
// @Summary Refresh the authentication token
// @Description Issues a new JWT for the already-authenticated caller, extending the session without re-sending credentials.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "New token"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	token, err := h.authService.IssueToken(&domain.User{ID: actor.ID, RoleID: actor.RoleID})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetPendingCoaches godoc
// @Summary List coach accounts awaiting approval
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /admin/coaches/pending [get]
func (h *AuthHandler) GetPendingCoaches(c *gin.Context) {
	coaches, err := h.authService.GetPendingCoaches(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve pending coaches")
		return
	}

	resp := make([]UserResponse, 0, len(coaches))
	for i := range coaches {
		resp = append(resp, MapUserToResponse(&coaches[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// ApproveCoach godoc
// @Summary Approve a pending coach account
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coach user ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Not a coach or already approved"
// @Failure 404 {object} gin.H "Coach not found"
// @Router /admin/coaches/{id}/approve [post]
func (h *AuthHandler) ApproveCoach(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	coach, err := h.authService.ApproveCoach(c.Request.Context(), actor.ID.Hex(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCoachNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotACoach), errors.Is(err, service.ErrAlreadyApproved):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to approve coach")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(coach))
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}

	resp := UserResponse{
		ID:         user.ID.Hex(),
		Name:       user.Name,
		Email:      user.Email,
		RoleID:     user.RoleID,
		Role:       user.RoleID.String(),
		IsApproved: user.IsApproved,
		CreatedAt:  user.CreatedAt,
	}
	if user.CoachID != nil {
		coachID := user.CoachID.Hex()
		resp.CoachID = &coachID
	}
	return resp
}

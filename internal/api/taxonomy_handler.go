package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
)

// TaxonomyHandler serves all six exercise classification tables
// through one set of handlers; the table is chosen by the :kind route
// parameter (exercise_categories, movement_types, muscle_groups,
// equipment, positions, contraction_types).
type TaxonomyHandler struct {
	taxonomyService service.TaxonomyService
}

// NewTaxonomyHandler creates a new TaxonomyHandler.
func NewTaxonomyHandler(taxonomyService service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService}
}

// --- Request/Response Structs ---

type TaxonomyRequest struct {
	Name          string `json:"name" binding:"required"`
	Displacement  bool   `json:"displacement,omitempty"`
	MetabolicType string `json:"metabolicType,omitempty"`
}

type TaxonomyListResponse struct {
	Items []domain.TaxonomyItem `json:"items"`
	Total int64                 `json:"total"`
}

// kindFromParam validates the :kind route parameter.
func kindFromParam(c *gin.Context) (domain.TaxonomyKind, bool) {
	kind := domain.TaxonomyKind(c.Param("kind"))
	for _, known := range domain.TaxonomyKinds {
		if kind == known {
			return kind, true
		}
	}
	abortWithError(c, http.StatusNotFound, fmt.Sprintf("unknown taxonomy %q", c.Param("kind")))
	return "", false
}

// --- Handler Methods ---

// Create godoc
// @Summary Create a classification item (coach/admin)
// @Tags Taxonomies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Taxonomy kind"
// @Param item body TaxonomyRequest true "Item definition"
// @Success 201 {object} domain.TaxonomyItem
// @Failure 409 {object} gin.H "Name already exists"
// @Router /taxonomies/{kind} [post]
func (h *TaxonomyHandler) Create(c *gin.Context) {
	kind, ok := kindFromParam(c)
	if !ok {
		return
	}
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	item, err := h.taxonomyService.Create(c.Request.Context(), actor, kind, service.TaxonomyInput{
		Name:          req.Name,
		Displacement:  req.Displacement,
		MetabolicType: req.MetabolicType,
	})
	if err != nil {
		h.mapTaxonomyError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Get godoc
// @Summary Get a classification item by id
// @Tags Taxonomies
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Taxonomy kind"
// @Param id path string true "Item ID"
// @Success 200 {object} domain.TaxonomyItem
// @Router /taxonomies/{kind}/{id} [get]
func (h *TaxonomyHandler) Get(c *gin.Context) {
	kind, ok := kindFromParam(c)
	if !ok {
		return
	}

	item, err := h.taxonomyService.Get(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		h.mapTaxonomyError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// List godoc
// @Summary List classification items
// @Tags Taxonomies
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Taxonomy kind"
// @Success 200 {object} TaxonomyListResponse
// @Router /taxonomies/{kind} [get]
func (h *TaxonomyHandler) List(c *gin.Context) {
	kind, ok := kindFromParam(c)
	if !ok {
		return
	}

	skip, limit := paginationParams(c)
	items, total, err := h.taxonomyService.List(c.Request.Context(), kind, skip, limit)
	if err != nil {
		h.mapTaxonomyError(c, err)
		return
	}
	c.JSON(http.StatusOK, TaxonomyListResponse{Items: items, Total: total})
}

// Update godoc
// @Summary Update a classification item (coach/admin)
// @Tags Taxonomies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Taxonomy kind"
// @Param id path string true "Item ID"
// @Param item body TaxonomyRequest true "Fields to update"
// @Success 200 {object} domain.TaxonomyItem
// @Router /taxonomies/{kind}/{id} [put]
func (h *TaxonomyHandler) Update(c *gin.Context) {
	kind, ok := kindFromParam(c)
	if !ok {
		return
	}
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	item, err := h.taxonomyService.Update(c.Request.Context(), actor, kind, c.Param("id"), service.TaxonomyInput{
		Name:          req.Name,
		Displacement:  req.Displacement,
		MetabolicType: req.MetabolicType,
	})
	if err != nil {
		h.mapTaxonomyError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Delete a classification item (coach/admin)
// @Tags Taxonomies
// @Security BearerAuth
// @Param kind path string true "Taxonomy kind"
// @Param id path string true "Item ID"
// @Success 204 "Deleted"
// @Router /taxonomies/{kind}/{id} [delete]
func (h *TaxonomyHandler) Delete(c *gin.Context) {
	kind, ok := kindFromParam(c)
	if !ok {
		return
	}
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.taxonomyService.Delete(c.Request.Context(), actor, kind, c.Param("id")); err != nil {
		h.mapTaxonomyError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// mapTaxonomyError translates taxonomy service errors to HTTP statuses.
func (h *TaxonomyHandler) mapTaxonomyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTaxonomyNotFound), errors.Is(err, service.ErrUnknownTaxonomy):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrTaxonomyNameTaken):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

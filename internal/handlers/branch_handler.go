package handlers

import (
	"net/http"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BranchHandler struct {
	branchService *services.BranchService
}

func NewBranchHandler(db *gorm.DB) *BranchHandler {
	branchService := services.NewBranchService(
		repository.NewBranchRepository(db),
		repository.NewMunicipalityRepository(db),
	)
	return &BranchHandler{
		branchService: branchService,
	}
}

// CreateBranch godoc
// @Summary Create a branch
// @Tags branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BranchRequest true "Branch data"
// @Success 201 {object} models.Branch
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/branches [post]
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var req models.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	branch, err := h.branchService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create branch")
		return
	}

	c.JSON(http.StatusCreated, branch)
}

// GetBranch godoc
// @Summary Get a branch by ID
// @Tags branches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Branch ID"
// @Success 200 {object} models.Branch
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/branches/{id} [get]
func (h *BranchHandler) GetBranch(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	branch, err := h.branchService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get branch")
		return
	}

	c.JSON(http.StatusOK, branch)
}

// UpdateBranch godoc
// @Summary Update a branch
// @Tags branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Branch ID"
// @Param request body models.BranchRequest true "Branch data"
// @Success 200 {object} models.Branch
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/branches/{id} [put]
func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	branch, err := h.branchService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update branch")
		return
	}

	c.JSON(http.StatusOK, branch)
}

// DeleteBranch godoc
// @Summary Delete a branch
// @Tags branches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Branch ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/branches/{id} [delete]
func (h *BranchHandler) DeleteBranch(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.branchService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete branch")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Branch deleted successfully"})
}

// ListBranches godoc
// @Summary List branches
// @Tags branches
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 20, max: 100)"
// @Param search query string false "Search by name"
// @Param municipality_id query int false "Filter by municipality"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/branches [get]
func (h *BranchHandler) ListBranches(c *gin.Context) {
	page, pageSize := paginationFromQuery(c)

	municipalityID, ok := parseOptionalUintQuery(c, "municipality_id")
	if !ok {
		return
	}
	var municipality uint
	if municipalityID != nil {
		municipality = *municipalityID
	}

	items, total, err := h.branchService.List(c.Request.Context(), page, pageSize, c.Query("search"), municipality)
	if err != nil {
		respondError(c, err, "Failed to list branches")
		return
	}

	c.JSON(http.StatusOK, listResponse(items, total, page, pageSize))
}

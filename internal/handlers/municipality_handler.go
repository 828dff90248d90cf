package handlers

import (
	"net/http"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MunicipalityHandler struct {
	municipalityService *services.MunicipalityService
}

func NewMunicipalityHandler(db *gorm.DB) *MunicipalityHandler {
	municipalityService := services.NewMunicipalityService(repository.NewMunicipalityRepository(db))
	return &MunicipalityHandler{
		municipalityService: municipalityService,
	}
}

// CreateMunicipality godoc
// @Summary Create a municipality
// @Tags municipalities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.MunicipalityRequest true "Municipality data"
// @Success 201 {object} models.Municipality
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/municipalities [post]
func (h *MunicipalityHandler) CreateMunicipality(c *gin.Context) {
	var req models.MunicipalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	municipality, err := h.municipalityService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create municipality")
		return
	}

	c.JSON(http.StatusCreated, municipality)
}

// GetMunicipality godoc
// @Summary Get a municipality by ID
// @Tags municipalities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Municipality ID"
// @Success 200 {object} models.Municipality
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/municipalities/{id} [get]
func (h *MunicipalityHandler) GetMunicipality(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	municipality, err := h.municipalityService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get municipality")
		return
	}

	c.JSON(http.StatusOK, municipality)
}

// UpdateMunicipality godoc
// @Summary Update a municipality
// @Tags municipalities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Municipality ID"
// @Param request body models.MunicipalityRequest true "Municipality data"
// @Success 200 {object} models.Municipality
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/municipalities/{id} [put]
func (h *MunicipalityHandler) UpdateMunicipality(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.MunicipalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	municipality, err := h.municipalityService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update municipality")
		return
	}

	c.JSON(http.StatusOK, municipality)
}

// DeleteMunicipality godoc
// @Summary Delete a municipality
// @Tags municipalities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Municipality ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/municipalities/{id} [delete]
func (h *MunicipalityHandler) DeleteMunicipality(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.municipalityService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete municipality")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Municipality deleted successfully"})
}

// ListMunicipalities godoc
// @Summary List municipalities
// @Tags municipalities
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 20, max: 100)"
// @Param search query string false "Search by name"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/municipalities [get]
func (h *MunicipalityHandler) ListMunicipalities(c *gin.Context) {
	page, pageSize := paginationFromQuery(c)

	items, total, err := h.municipalityService.List(c.Request.Context(), page, pageSize, c.Query("search"))
	if err != nil {
		respondError(c, err, "Failed to list municipalities")
		return
	}

	c.JSON(http.StatusOK, listResponse(items, total, page, pageSize))
}

package handlers

import (
	"net/http"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SupplierHandler struct {
	supplierService *services.SupplierService
}

func NewSupplierHandler(db *gorm.DB) *SupplierHandler {
	supplierService := services.NewSupplierService(repository.NewSupplierRepository(db))
	return &SupplierHandler{
		supplierService: supplierService,
	}
}

// CreateSupplier godoc
// @Summary Create a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SupplierRequest true "Supplier data"
// @Success 201 {object} models.Supplier
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/suppliers [post]
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req models.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create supplier")
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// GetSupplier godoc
// @Summary Get a supplier by ID
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Success 200 {object} models.Supplier
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/suppliers/{id} [get]
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	supplier, err := h.supplierService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get supplier")
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// UpdateSupplier godoc
// @Summary Update a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Param request body models.SupplierRequest true "Supplier data"
// @Success 200 {object} models.Supplier
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/suppliers/{id} [put]
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update supplier")
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier godoc
// @Summary Delete a supplier
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/suppliers/{id} [delete]
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.supplierService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete supplier")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}

// ListSuppliers godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 20, max: 100)"
// @Param search query string false "Search by name"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/suppliers [get]
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	page, pageSize := paginationFromQuery(c)

	items, total, err := h.supplierService.List(c.Request.Context(), page, pageSize, c.Query("search"))
	if err != nil {
		respondError(c, err, "Failed to list suppliers")
		return
	}

	c.JSON(http.StatusOK, listResponse(items, total, page, pageSize))
}

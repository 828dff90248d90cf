package handlers

import (
	"net/http"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PriceTierHandler struct {
	priceTierService *services.PriceTierService
}

func NewPriceTierHandler(db *gorm.DB) *PriceTierHandler {
	return &PriceTierHandler{
		priceTierService: services.NewPriceTierService(
			repository.NewPriceTierRepository(db),
			repository.NewProductRepository(db),
		),
	}
}

// ListPriceTiers godoc
// @Summary List the volume price tiers of a product
// @Tags price-tiers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {array} models.PriceTier
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id}/price-tiers [get]
func (h *PriceTierHandler) ListPriceTiers(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tiers, err := h.priceTierService.List(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "Failed to list price tiers")
		return
	}

	c.JSON(http.StatusOK, tiers)
}

// CreatePriceTier godoc
// @Summary Add a volume price tier to a product
// @Tags price-tiers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body models.PriceTierRequest true "Tier data"
// @Success 201 {object} models.PriceTier
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "A tier with this min_quantity exists"
// @Router /api/v1/products/{id}/price-tiers [post]
func (h *PriceTierHandler) CreatePriceTier(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.PriceTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	tier, err := h.priceTierService.Create(c.Request.Context(), productID, &req)
	if err != nil {
		respondError(c, err, "Failed to create price tier")
		return
	}

	c.JSON(http.StatusCreated, tier)
}

// UpdatePriceTier godoc
// @Summary Update a volume price tier
// @Tags price-tiers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param tierId path int true "Tier ID"
// @Param request body models.PriceTierRequest true "Tier data"
// @Success 200 {object} models.PriceTier
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/products/{id}/price-tiers/{tierId} [put]
func (h *PriceTierHandler) UpdatePriceTier(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tierID, ok := parseIDParam(c, "tierId")
	if !ok {
		return
	}

	var req models.PriceTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	tier, err := h.priceTierService.Update(c.Request.Context(), productID, tierID, &req)
	if err != nil {
		respondError(c, err, "Failed to update price tier")
		return
	}

	c.JSON(http.StatusOK, tier)
}

// DeletePriceTier godoc
// @Summary Delete a volume price tier
// @Tags price-tiers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param tierId path int true "Tier ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id}/price-tiers/{tierId} [delete]
func (h *PriceTierHandler) DeletePriceTier(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tierID, ok := parseIDParam(c, "tierId")
	if !ok {
		return
	}

	if err := h.priceTierService.Delete(c.Request.Context(), productID, tierID); err != nil {
		respondError(c, err, "Failed to delete price tier")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Price tier deleted successfully"})
}

// GetVolumePrice godoc
// @Summary Unit price for a quantity
// @Description Picks the tier with the greatest min_quantity not above the quantity, falling back to the base price
// @Tags price-tiers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param quantity query int false "Units (default: 1)"
// @Success 200 {object} models.VolumePriceResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id}/volume-price [get]
func (h *PriceTierHandler) GetVolumePrice(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	quantity, ok := parseQuantityQuery(c)
	if !ok {
		return
	}

	price, err := h.priceTierService.VolumePrice(c.Request.Context(), productID, quantity)
	if err != nil {
		respondError(c, err, "Failed to get volume price")
		return
	}

	c.JSON(http.StatusOK, price)
}

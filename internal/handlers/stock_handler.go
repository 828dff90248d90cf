package handlers

import (
	"net/http"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StockHandler struct {
	stockService *services.StockService
}

func NewStockHandler(db *gorm.DB) *StockHandler {
	return &StockHandler{
		stockService: services.NewStockService(
			repository.NewStockRepository(db),
			repository.NewProductRepository(db),
			repository.NewBranchRepository(db),
		),
	}
}

// SetStock godoc
// @Summary Set the on-hand quantity of a product at a branch
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SetStockRequest true "Stock level"
// @Success 200 {object} models.Stock
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/stock [put]
func (h *StockHandler) SetStock(c *gin.Context) {
	var req models.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	stock, err := h.stockService.Set(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to set stock")
		return
	}

	c.JSON(http.StatusOK, stock)
}

// AdjustStock godoc
// @Summary Move the on-hand quantity of a product at a branch
// @Description Applies delta atomically; the quantity can never go below zero
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AdjustStockRequest true "Stock movement"
// @Success 200 {object} models.Stock
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/stock/adjust [post]
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var req models.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	stock, err := h.stockService.Adjust(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to adjust stock")
		return
	}

	c.JSON(http.StatusOK, stock)
}

// ListBranchStock godoc
// @Summary List stock levels at a branch
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Param id path int true "Branch ID"
// @Param low query bool false "Only rows at or below their minimum"
// @Success 200 {array} models.Stock
// @Router /api/v1/branches/{id}/stock [get]
func (h *StockHandler) ListBranchStock(c *gin.Context) {
	branchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stock, err := h.stockService.ListByBranch(c.Request.Context(), branchID, c.Query("low") == "true")
	if err != nil {
		respondError(c, err, "Failed to list stock")
		return
	}

	c.JSON(http.StatusOK, stock)
}

// ListProductStock godoc
// @Summary List stock levels of a product across branches
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {array} models.Stock
// @Router /api/v1/products/{id}/stock [get]
func (h *StockHandler) ListProductStock(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stock, err := h.stockService.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "Failed to list stock")
		return
	}

	c.JSON(http.StatusOK, stock)
}

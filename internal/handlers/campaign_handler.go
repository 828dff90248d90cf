package handlers

import (
	"net/http"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
	saleLogService  *services.SaleLogService
}

func NewCampaignHandler(db *gorm.DB) *CampaignHandler {
	productRepo := repository.NewProductRepository(db)
	branchService := services.NewBranchService(
		repository.NewBranchRepository(db),
		repository.NewMunicipalityRepository(db),
	)

	campaignService := services.NewCampaignService(
		repository.NewCampaignRepository(db),
		repository.NewCampaignProductRepository(db),
		productRepo,
		branchService,
	)
	return &CampaignHandler{
		campaignService: campaignService,
		saleLogService:  services.NewSaleLogService(repository.NewSaleLogRepository(db), nil),
	}
}

// CreateCampaign godoc
// @Summary Create a new campaign
// @Description Creates a campaign with an optional set of branches. An empty branch set opens it to every branch.
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCampaignRequest true "Create campaign request"
// @Success 201 {object} models.CampaignResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns [post]
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.campaignService.CreateCampaign(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create campaign")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetCampaigns godoc
// @Summary List campaigns
// @Description List campaigns with their derived status
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 20, max: 100)"
// @Param search query string false "Search by name"
// @Param status query string false "inactive, upcoming, active or finished"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	page, pageSize := paginationFromQuery(c)

	campaigns, total, err := h.campaignService.ListCampaigns(c.Request.Context(), page, pageSize, c.Query("search"), c.Query("status"))
	if err != nil {
		respondError(c, err, "Failed to get campaigns")
		return
	}

	c.JSON(http.StatusOK, listResponse(campaigns, total, page, pageSize))
}

// GetCampaignByID godoc
// @Summary Get campaign by ID
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 200 {object} models.CampaignResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id} [get]
func (h *CampaignHandler) GetCampaignByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaignService.GetCampaign(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get campaign")
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// UpdateCampaign godoc
// @Summary Update a campaign
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Param request body models.UpdateCampaignRequest true "Update campaign request"
// @Success 200 {object} models.CampaignResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id} [put]
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	campaign, err := h.campaignService.UpdateCampaign(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update campaign")
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// ActivateCampaign godoc
// @Summary Switch a campaign on
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 200 {object} models.CampaignResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/activate [post]
func (h *CampaignHandler) ActivateCampaign(c *gin.Context) {
	h.setActive(c, true)
}

// DeactivateCampaign godoc
// @Summary Switch a campaign off
// @Description A deactivated campaign never applies, even inside its date window
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 200 {object} models.CampaignResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/deactivate [post]
func (h *CampaignHandler) DeactivateCampaign(c *gin.Context) {
	h.setActive(c, false)
}

func (h *CampaignHandler) setActive(c *gin.Context, active bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaignService.SetCampaignActive(c.Request.Context(), id, active)
	if err != nil {
		respondError(c, err, "Failed to update campaign status")
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// DeleteCampaign godoc
// @Summary Delete a campaign
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id} [delete]
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.campaignService.DeleteCampaign(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete campaign")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted successfully"})
}

// SetCampaignBranches godoc
// @Summary Replace the branches a campaign applies to
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Param request body models.SetCampaignBranchesRequest true "Branch ids (empty for all branches)"
// @Success 200 {object} models.CampaignResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/branches [put]
func (h *CampaignHandler) SetCampaignBranches(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.SetCampaignBranchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	campaign, err := h.campaignService.SetCampaignBranches(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to set campaign branches")
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// AddCampaignProduct godoc
// @Summary Add a product offer to a campaign
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Param request body models.CampaignProductRequest true "Product offer"
// @Success 201 {object} models.CampaignProductResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "Product already in campaign"
// @Router /api/v1/campaigns/{id}/products [post]
func (h *CampaignHandler) AddCampaignProduct(c *gin.Context) {
	campaignID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CampaignProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	product, err := h.campaignService.AddProduct(c.Request.Context(), campaignID, &req)
	if err != nil {
		respondError(c, err, "Failed to add campaign product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateCampaignProduct godoc
// @Summary Update a product offer in a campaign
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Param productId path int true "Campaign product ID"
// @Param request body models.CampaignProductRequest true "Product offer"
// @Success 200 {object} models.CampaignProductResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/products/{productId} [put]
func (h *CampaignHandler) UpdateCampaignProduct(c *gin.Context) {
	campaignID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	campaignProductID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	var req models.CampaignProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	product, err := h.campaignService.UpdateProduct(c.Request.Context(), campaignID, campaignProductID, &req)
	if err != nil {
		respondError(c, err, "Failed to update campaign product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// RemoveCampaignProduct godoc
// @Summary Remove a product offer from a campaign
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Param productId path int true "Campaign product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/products/{productId} [delete]
func (h *CampaignHandler) RemoveCampaignProduct(c *gin.Context) {
	campaignID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	campaignProductID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	if err := h.campaignService.RemoveProduct(c.Request.Context(), campaignID, campaignProductID); err != nil {
		respondError(c, err, "Failed to remove campaign product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign product removed successfully"})
}

// SetBranchOverride godoc
// @Summary Override a product offer's discount value at one branch
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Param productId path int true "Campaign product ID"
// @Param branchId path int true "Branch ID"
// @Param request body models.BranchOverrideRequest true "Override value"
// @Success 200 {object} models.CampaignProductResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/products/{productId}/branches/{branchId} [put]
func (h *CampaignHandler) SetBranchOverride(c *gin.Context) {
	campaignID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	campaignProductID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	branchID, ok := parseIDParam(c, "branchId")
	if !ok {
		return
	}

	var req models.BranchOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	product, err := h.campaignService.SetBranchOverride(c.Request.Context(), campaignID, campaignProductID, branchID, &req)
	if err != nil {
		respondError(c, err, "Failed to set branch override")
		return
	}

	c.JSON(http.StatusOK, product)
}

// RemoveBranchOverride godoc
// @Summary Remove a branch override
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Param productId path int true "Campaign product ID"
// @Param branchId path int true "Branch ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/products/{productId}/branches/{branchId} [delete]
func (h *CampaignHandler) RemoveBranchOverride(c *gin.Context) {
	campaignID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	campaignProductID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	branchID, ok := parseIDParam(c, "branchId")
	if !ok {
		return
	}

	if err := h.campaignService.RemoveBranchOverride(c.Request.Context(), campaignID, campaignProductID, branchID); err != nil {
		respondError(c, err, "Failed to remove branch override")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Branch override removed successfully"})
}

// GetCampaignSaleLogs godoc
// @Summary List recorded sales of a campaign
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 20, max: 100)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/sales [get]
func (h *CampaignHandler) GetCampaignSaleLogs(c *gin.Context) {
	campaignID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := paginationFromQuery(c)

	logs, total, err := h.saleLogService.ListByCampaign(c.Request.Context(), campaignID, page, pageSize)
	if err != nil {
		respondError(c, err, "Failed to get sale logs")
		return
	}

	c.JSON(http.StatusOK, listResponse(logs, total, page, pageSize))
}

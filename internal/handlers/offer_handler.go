package handlers

import (
	"context"
	"net/http"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/pricing"

	"github.com/gin-gonic/gin"
)

// OfferResolver prices products and records sales against offer quotas
type OfferResolver interface {
	ResolveOffer(ctx context.Context, productID uint, branchID *uint, quantity int) (*pricing.Result, error)
	ConsumeOffer(ctx context.Context, campaignProductID uint, quantity int, consumedBy *uint) error
}

type OfferHandler struct {
	offerService OfferResolver
}

func NewOfferHandler(offerService OfferResolver) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

// GetOffer godoc
// @Summary Resolve the current offer for a product
// @Description Picks the highest priority live campaign covering the branch that still has quota, and prices the product under it
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param branch_id query int false "Branch where the sale happens"
// @Param quantity query int false "Units the customer intends to buy (default: 1)"
// @Success 200 {object} pricing.Result
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/products/{id}/offer [get]
func (h *OfferHandler) GetOffer(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	branchID, ok := parseOptionalUintQuery(c, "branch_id")
	if !ok {
		return
	}
	quantity, ok := parseQuantityQuery(c)
	if !ok {
		return
	}

	result, err := h.offerService.ResolveOffer(c.Request.Context(), productID, branchID, quantity)
	if err != nil {
		respondError(c, err, "Failed to resolve offer")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ConsumeOffer godoc
// @Summary Record a sale against an offer quota
// @Description Atomically adds quantity to the sold counter of a campaign product. Fails with offer_sold_out when the quota cannot cover it.
// @Tags offers
// @Accept json
// @Security BearerAuth
// @Param id path int true "Campaign product ID"
// @Param request body models.ConsumeOfferRequest false "Units sold (default: 1)"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "code: offer_sold_out"
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaign-products/{id}/consume [post]
func (h *OfferHandler) ConsumeOffer(c *gin.Context) {
	campaignProductID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ConsumeOfferRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
			return
		}
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.offerService.ConsumeOffer(c.Request.Context(), campaignProductID, req.Quantity, currentUserID(c)); err != nil {
		respondError(c, err, "Failed to consume offer")
		return
	}

	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/pricing"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProductWithOffer is a product together with the offer that applies to it right now
type ProductWithOffer struct {
	*models.Product
	Offer *pricing.Result `json:"offer"`
}

type ProductHandler struct {
	productService *services.ProductService
	offerService   OfferResolver
}

func NewProductHandler(db *gorm.DB, offerService OfferResolver) *ProductHandler {
	productService := services.NewProductService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewSupplierRepository(db),
	)
	return &ProductHandler{
		productService: productService,
		offerService:   offerService,
	}
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ProductRequest true "Product data"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "SKU already exists"
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	product, err := h.productService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProduct godoc
// @Summary Get a product with its current offer
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param branch_id query int false "Branch used to resolve the offer"
// @Success 200 {object} ProductWithOffer
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	branchID, ok := parseOptionalUintQuery(c, "branch_id")
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get product")
		return
	}

	offer, err := h.offerService.ResolveOffer(c.Request.Context(), id, branchID, 1)
	if err != nil {
		respondError(c, err, "Failed to resolve offer")
		return
	}

	c.JSON(http.StatusOK, ProductWithOffer{Product: product, Offer: offer})
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body models.ProductRequest true "Product data"
// @Success 200 {object} models.Product
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 20, max: 100)"
// @Param search query string false "Search by SKU or name"
// @Param category_id query int false "Filter by category"
// @Param supplier_id query int false "Filter by supplier"
// @Param active query bool false "Only active products"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, pageSize := paginationFromQuery(c)

	filter := repository.ProductFilter{
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active") == "true",
	}
	categoryID, ok := parseOptionalUintQuery(c, "category_id")
	if !ok {
		return
	}
	if categoryID != nil {
		filter.CategoryID = *categoryID
	}
	supplierID, ok := parseOptionalUintQuery(c, "supplier_id")
	if !ok {
		return
	}
	if supplierID != nil {
		filter.SupplierID = *supplierID
	}

	items, total, err := h.productService.List(c.Request.Context(), page, pageSize, filter)
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, listResponse(items, total, page, pageSize))
}

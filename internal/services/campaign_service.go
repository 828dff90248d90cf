package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/pricing"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type CampaignService struct {
	campaignRepo        *repository.CampaignRepository
	campaignProductRepo *repository.CampaignProductRepository
	productRepo         *repository.ProductRepository
	branchService       *BranchService
	now                 func() time.Time
}

func NewCampaignService(
	campaignRepo *repository.CampaignRepository,
	campaignProductRepo *repository.CampaignProductRepository,
	productRepo *repository.ProductRepository,
	branchService *BranchService,
) *CampaignService {
	return &CampaignService{
		campaignRepo:        campaignRepo,
		campaignProductRepo: campaignProductRepo,
		productRepo:         productRepo,
		branchService:       branchService,
		now:                 time.Now,
	}
}

// CreateCampaign creates a campaign and its branch assignments
func (s *CampaignService) CreateCampaign(ctx context.Context, req *models.CreateCampaignRequest) (*models.CampaignResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("name", "must not be empty")
	}
	if err := validateWindow(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	branchIDs := uniqueIDs(req.BranchIDs)
	if len(branchIDs) > 0 {
		if err := s.branchService.EnsureExist(ctx, branchIDs); err != nil {
			return nil, err
		}
	}

	campaign := &models.Campaign{
		Name:        name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsActive:    true,
		Priority:    req.Priority,
	}
	if req.IsActive != nil {
		campaign.IsActive = *req.IsActive
	}
	for _, branchID := range branchIDs {
		campaign.Branches = append(campaign.Branches, models.CampaignBranch{BranchID: branchID})
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return s.GetCampaign(ctx, campaign.ID)
}

// GetCampaign retrieves a campaign with its products and branches
func (s *CampaignService) GetCampaign(ctx context.Context, id uint) (*models.CampaignResponse, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "campaign")
	}
	return s.toResponse(campaign), nil
}

// UpdateCampaign replaces the campaign's name, description, window and priority
func (s *CampaignService) UpdateCampaign(ctx context.Context, id uint, req *models.UpdateCampaignRequest) (*models.CampaignResponse, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "campaign")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("name", "must not be empty")
	}
	if err := validateWindow(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	campaign.Name = name
	campaign.Description = req.Description
	campaign.StartDate = req.StartDate
	campaign.EndDate = req.EndDate
	campaign.Priority = req.Priority
	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	return s.GetCampaign(ctx, id)
}

// SetCampaignActive switches a campaign on or off
func (s *CampaignService) SetCampaignActive(ctx context.Context, id uint, active bool) (*models.CampaignResponse, error) {
	affected, err := s.campaignRepo.SetActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("campaign %w", ErrNotFound)
	}
	return s.GetCampaign(ctx, id)
}

// DeleteCampaign soft deletes a campaign
func (s *CampaignService) DeleteCampaign(ctx context.Context, id uint) error {
	affected, err := s.campaignRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("campaign %w", ErrNotFound)
	}
	return nil
}

// ListCampaigns returns a page of campaigns, optionally filtered by derived status
func (s *CampaignService) ListCampaigns(ctx context.Context, page, pageSize int, search, status string) ([]models.CampaignResponse, int64, error) {
	switch status {
	case "", models.CampaignStatusInactive, models.CampaignStatusUpcoming, models.CampaignStatusActive, models.CampaignStatusFinished:
	default:
		return nil, 0, NewValidationError("status", "must be one of inactive, upcoming, active, finished")
	}

	campaigns, total, err := s.campaignRepo.GetAll(ctx, page, pageSize, search, status, s.now())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	responses := make([]models.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		responses = append(responses, *s.toResponse(&campaigns[i]))
	}
	return responses, total, nil
}

// SetCampaignBranches replaces the branches a campaign applies to. An empty
// set opens the campaign to every branch.
func (s *CampaignService) SetCampaignBranches(ctx context.Context, id uint, req *models.SetCampaignBranchesRequest) (*models.CampaignResponse, error) {
	if _, err := s.campaignRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, "campaign")
	}
	branchIDs := uniqueIDs(req.BranchIDs)
	if len(branchIDs) > 0 {
		if err := s.branchService.EnsureExist(ctx, branchIDs); err != nil {
			return nil, err
		}
	}
	if err := s.campaignRepo.ReplaceBranches(ctx, id, branchIDs); err != nil {
		return nil, fmt.Errorf("failed to assign branches: %w", err)
	}
	return s.GetCampaign(ctx, id)
}

// AddProduct attaches a product rule to a campaign
func (s *CampaignService) AddProduct(ctx context.Context, campaignID uint, req *models.CampaignProductRequest) (*models.CampaignProductResponse, error) {
	if _, err := s.campaignRepo.GetByID(ctx, campaignID); err != nil {
		return nil, notFound(err, "campaign")
	}
	if err := validateRule(req.DiscountType, req.DiscountValue, req.MaxQuantity, 0); err != nil {
		return nil, err
	}
	if err := s.checkProduct(ctx, campaignID, req.ProductID, 0); err != nil {
		return nil, err
	}

	cp := &models.CampaignProduct{
		CampaignID:    campaignID,
		ProductID:     req.ProductID,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MaxQuantity:   req.MaxQuantity,
	}
	if err := s.campaignProductRepo.Create(ctx, cp); err != nil {
		return nil, fmt.Errorf("failed to add product to campaign: %w", err)
	}
	return toProductResponse(cp), nil
}

// UpdateProduct changes a product rule. The sold counter is kept and a new
// quota may not fall below it.
func (s *CampaignService) UpdateProduct(ctx context.Context, campaignID, campaignProductID uint, req *models.CampaignProductRequest) (*models.CampaignProductResponse, error) {
	cp, err := s.campaignProductRepo.GetByCampaignAndID(ctx, campaignID, campaignProductID)
	if err != nil {
		return nil, notFound(err, "campaign product")
	}
	if err := validateRule(req.DiscountType, req.DiscountValue, req.MaxQuantity, cp.SoldQuantity); err != nil {
		return nil, err
	}
	if req.DiscountType == models.DiscountTypePercentage {
		for _, o := range cp.BranchOverrides {
			if o.DiscountValueOverride.GreaterThan(hundred) {
				return nil, NewValidationError("discount_type", "branch %d overrides the value with %s, above 100 percent", o.BranchID, o.DiscountValueOverride.String())
			}
		}
	}
	if err := s.checkProduct(ctx, campaignID, req.ProductID, cp.ID); err != nil {
		return nil, err
	}

	cp.ProductID = req.ProductID
	cp.DiscountType = req.DiscountType
	cp.DiscountValue = req.DiscountValue
	cp.MaxQuantity = req.MaxQuantity
	if err := s.campaignProductRepo.Update(ctx, cp); err != nil {
		return nil, fmt.Errorf("failed to update campaign product: %w", err)
	}
	return toProductResponse(cp), nil
}

// RemoveProduct soft deletes a product rule
func (s *CampaignService) RemoveProduct(ctx context.Context, campaignID, campaignProductID uint) error {
	if _, err := s.campaignProductRepo.GetByCampaignAndID(ctx, campaignID, campaignProductID); err != nil {
		return notFound(err, "campaign product")
	}
	return s.campaignProductRepo.Delete(ctx, campaignProductID)
}

// SetBranchOverride sets the discount value a product rule uses at one branch
func (s *CampaignService) SetBranchOverride(ctx context.Context, campaignID, campaignProductID, branchID uint, req *models.BranchOverrideRequest) (*models.CampaignProductResponse, error) {
	cp, err := s.campaignProductRepo.GetByCampaignAndID(ctx, campaignID, campaignProductID)
	if err != nil {
		return nil, notFound(err, "campaign product")
	}
	if err := validateDiscountValue("discount_value_override", cp.DiscountType, req.DiscountValueOverride); err != nil {
		return nil, err
	}
	if err := s.branchService.EnsureExist(ctx, []uint{branchID}); err != nil {
		return nil, err
	}

	override := &models.CampaignProductBranch{
		CampaignProductID:     cp.ID,
		BranchID:              branchID,
		DiscountValueOverride: req.DiscountValueOverride,
	}
	if err := s.campaignProductRepo.UpsertOverride(ctx, override); err != nil {
		return nil, fmt.Errorf("failed to set branch override: %w", err)
	}

	cp, err = s.campaignProductRepo.GetByID(ctx, cp.ID)
	if err != nil {
		return nil, notFound(err, "campaign product")
	}
	return toProductResponse(cp), nil
}

// RemoveBranchOverride drops the override of a product rule at one branch
func (s *CampaignService) RemoveBranchOverride(ctx context.Context, campaignID, campaignProductID, branchID uint) error {
	if _, err := s.campaignProductRepo.GetByCampaignAndID(ctx, campaignID, campaignProductID); err != nil {
		return notFound(err, "campaign product")
	}
	affected, err := s.campaignProductRepo.DeleteOverride(ctx, campaignProductID, branchID)
	if err != nil {
		return fmt.Errorf("failed to remove branch override: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("branch override %w", ErrNotFound)
	}
	return nil
}

func (s *CampaignService) checkProduct(ctx context.Context, campaignID, productID, excludeID uint) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if isNotFound(err) {
			return NewValidationError("product_id", "product %d does not exist", productID)
		}
		return err
	}
	exists, err := s.campaignProductRepo.CheckProductExists(ctx, campaignID, productID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check campaign product: %w", err)
	}
	if exists {
		return conflictf("product %d is already part of campaign %d", productID, campaignID)
	}
	return nil
}

// validateWindow requires the campaign to end strictly after it starts
func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return NewValidationError("start_date", "start_date and end_date are required")
	}
	if !end.After(start) {
		return NewValidationError("end_date", "must be after start_date")
	}
	return nil
}

// validateRule checks a product rule before it is stored
func validateRule(discountType string, value decimal.Decimal, maxQuantity *int, sold int) error {
	if !pricing.DiscountType(discountType).Valid() {
		return NewValidationError("discount_type", "must be percentage or fixed_price")
	}
	if err := validateDiscountValue("discount_value", discountType, value); err != nil {
		return err
	}
	if maxQuantity != nil {
		if *maxQuantity < 1 {
			return NewValidationError("max_quantity", "must be at least 1 or null for unlimited")
		}
		if *maxQuantity < sold {
			return NewValidationError("max_quantity", "%d units were already sold", sold)
		}
	}
	return nil
}

// validateDiscountValue checks a discount value against the rule's discount type
func validateDiscountValue(field, discountType string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return NewValidationError(field, "must be greater than zero")
	}
	if discountType == models.DiscountTypePercentage && value.GreaterThan(hundred) {
		return NewValidationError(field, "a percentage cannot exceed 100")
	}
	if !value.Equal(value.Round(2)) {
		return NewValidationError(field, "must have at most two decimal places")
	}
	return nil
}

func (s *CampaignService) toResponse(campaign *models.Campaign) *models.CampaignResponse {
	branchIDs := make([]uint, 0, len(campaign.Branches))
	for _, b := range campaign.Branches {
		branchIDs = append(branchIDs, b.BranchID)
	}
	products := make([]models.CampaignProductResponse, 0, len(campaign.Products))
	for i := range campaign.Products {
		products = append(products, *toProductResponse(&campaign.Products[i]))
	}

	return &models.CampaignResponse{
		ID:          campaign.ID,
		Name:        campaign.Name,
		Description: campaign.Description,
		StartDate:   campaign.StartDate,
		EndDate:     campaign.EndDate,
		IsActive:    campaign.IsActive,
		Priority:    campaign.Priority,
		Status:      campaign.StatusAt(s.now()),
		BranchIDs:   branchIDs,
		Products:    products,
		CreatedAt:   campaign.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   campaign.UpdatedAt.Format(time.RFC3339),
	}
}

func toProductResponse(cp *models.CampaignProduct) *models.CampaignProductResponse {
	overrides := make([]models.BranchOverrideResponse, 0, len(cp.BranchOverrides))
	for _, o := range cp.BranchOverrides {
		overrides = append(overrides, models.BranchOverrideResponse{
			BranchID:              o.BranchID,
			DiscountValueOverride: o.DiscountValueOverride,
		})
	}
	return &models.CampaignProductResponse{
		ID:              cp.ID,
		CampaignID:      cp.CampaignID,
		ProductID:       cp.ProductID,
		DiscountType:    cp.DiscountType,
		DiscountValue:   cp.DiscountValue,
		MaxQuantity:     cp.MaxQuantity,
		SoldQuantity:    cp.SoldQuantity,
		RemainingStock:  toRule(cp).Remaining(),
		BranchOverrides: overrides,
	}
}

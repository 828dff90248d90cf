package services

import (
	"context"
	"fmt"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"

	"github.com/shopspring/decimal"
)

type PriceTierService struct {
	tierRepo    *repository.PriceTierRepository
	productRepo *repository.ProductRepository
}

func NewPriceTierService(tierRepo *repository.PriceTierRepository, productRepo *repository.ProductRepository) *PriceTierService {
	return &PriceTierService{
		tierRepo:    tierRepo,
		productRepo: productRepo,
	}
}

// List returns the tiers of a product
func (s *PriceTierService) List(ctx context.Context, productID uint) ([]models.PriceTier, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, notFound(err, "product")
	}
	return s.tierRepo.GetByProduct(ctx, productID)
}

// Create adds a tier to a product
func (s *PriceTierService) Create(ctx context.Context, productID uint, req *models.PriceTierRequest) (*models.PriceTier, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, notFound(err, "product")
	}
	tier := &models.PriceTier{ProductID: productID}
	if err := s.apply(ctx, tier, req); err != nil {
		return nil, err
	}
	if err := s.tierRepo.Create(ctx, tier); err != nil {
		return nil, fmt.Errorf("failed to create price tier: %w", err)
	}
	return tier, nil
}

// Update replaces a tier's minimum quantity and unit price
func (s *PriceTierService) Update(ctx context.Context, productID, tierID uint, req *models.PriceTierRequest) (*models.PriceTier, error) {
	tier, err := s.get(ctx, productID, tierID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, tier, req); err != nil {
		return nil, err
	}
	if err := s.tierRepo.Update(ctx, tier); err != nil {
		return nil, fmt.Errorf("failed to update price tier: %w", err)
	}
	return tier, nil
}

// Delete removes a tier
func (s *PriceTierService) Delete(ctx context.Context, productID, tierID uint) error {
	if _, err := s.get(ctx, productID, tierID); err != nil {
		return err
	}
	return s.tierRepo.Delete(ctx, tierID)
}

// VolumePrice returns the unit price that applies when buying quantity units
func (s *PriceTierService) VolumePrice(ctx context.Context, productID uint, quantity int) (*models.VolumePriceResponse, error) {
	if quantity < 1 {
		return nil, NewValidationError("quantity", "must be at least 1")
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	tiers, err := s.tierRepo.GetByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load price tiers: %w", err)
	}
	return volumePrice(product, tiers, quantity), nil
}

// volumePrice picks the tier with the greatest minimum quantity not above
// quantity, falling back to the base price
func volumePrice(product *models.Product, tiers []models.PriceTier, quantity int) *models.VolumePriceResponse {
	resp := &models.VolumePriceResponse{
		ProductID:   product.ID,
		Quantity:    quantity,
		UnitPrice:   product.BasePrice,
		BasePrice:   product.BasePrice,
		MinQuantity: 1,
	}
	var best *models.PriceTier
	for i := range tiers {
		t := &tiers[i]
		if t.MinQuantity > quantity {
			continue
		}
		if best == nil || t.MinQuantity > best.MinQuantity {
			best = t
		}
	}
	if best != nil {
		id := best.ID
		resp.TierID = &id
		resp.UnitPrice = best.UnitPrice
		resp.MinQuantity = best.MinQuantity
	}
	resp.Total = resp.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	return resp
}

func (s *PriceTierService) get(ctx context.Context, productID, tierID uint) (*models.PriceTier, error) {
	tier, err := s.tierRepo.GetByID(ctx, tierID)
	if err != nil {
		return nil, notFound(err, "price tier")
	}
	if tier.ProductID != productID {
		return nil, fmt.Errorf("price tier %w", ErrNotFound)
	}
	return tier, nil
}

func (s *PriceTierService) apply(ctx context.Context, tier *models.PriceTier, req *models.PriceTierRequest) error {
	if req.MinQuantity < 1 {
		return NewValidationError("min_quantity", "must be at least 1")
	}
	if !req.UnitPrice.IsPositive() {
		return NewValidationError("unit_price", "must be greater than zero")
	}
	exists, err := s.tierRepo.CheckMinQuantityExists(ctx, tier.ProductID, req.MinQuantity, tier.ID)
	if err != nil {
		return fmt.Errorf("failed to check price tier: %w", err)
	}
	if exists {
		return conflictf("product already has a tier starting at %d units", req.MinQuantity)
	}
	tier.MinQuantity = req.MinQuantity
	tier.UnitPrice = req.UnitPrice
	return nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/onegreenvn/retail-backoffice-services/internal/metrics"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/pricing"

	"github.com/sirupsen/logrus"
)

// ProductFinder loads catalog products
type ProductFinder interface {
	GetByID(ctx context.Context, id uint) (*models.Product, error)
}

// LiveCampaignFinder loads the campaigns that may price a product at an instant
type LiveCampaignFinder interface {
	FindLiveForProduct(ctx context.Context, productID uint, now time.Time) ([]models.Campaign, error)
}

// QuotaStore reads campaign products and moves their sold counters
type QuotaStore interface {
	GetByID(ctx context.Context, id uint) (*models.CampaignProduct, error)
	IncrementSoldQuantity(ctx context.Context, id uint, quantity int) (bool, error)
}

// EventPublisher delivers JSON messages to a queue
type EventPublisher interface {
	PublishJSON(ctx context.Context, queueName string, message interface{}) error
}

type OfferService struct {
	products  ProductFinder
	campaigns LiveCampaignFinder
	quotas    QuotaStore
	publisher EventPublisher
	queueName string
	now       func() time.Time
}

func NewOfferService(products ProductFinder, campaigns LiveCampaignFinder, quotas QuotaStore) *OfferService {
	return &OfferService{
		products:  products,
		campaigns: campaigns,
		quotas:    quotas,
		now:       time.Now,
	}
}

// SetPublisher enables offer_consumed events on the given queue
func (s *OfferService) SetPublisher(publisher EventPublisher, queueName string) {
	s.publisher = publisher
	s.queueName = queueName
}

// SetClock replaces the time source used for resolution
func (s *OfferService) SetClock(now func() time.Time) {
	s.now = now
}

// ResolveOffer prices a product at an optional branch right now. quantity is
// the number of units the caller intends to buy; values below 1 mean 1.
func (s *OfferService) ResolveOffer(ctx context.Context, productID uint, branchID *uint, quantity int) (result *pricing.Result, err error) {
	start := time.Now()
	defer func() {
		label := "no_offer"
		switch {
		case err != nil:
			label = "error"
		case result.HasActiveCampaign:
			label = "offer"
		}
		metrics.RecordOfferResolveDuration(label, time.Since(start).Seconds())
	}()

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}

	now := s.now()
	live, err := s.campaigns.FindLiveForProduct(ctx, productID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaigns: %w", err)
	}

	res := pricing.Resolve(pricing.Request{
		ProductID: product.ID,
		BasePrice: product.BasePrice,
		BranchID:  branchID,
		Now:       now,
		Quantity:  quantity,
	}, toCandidates(live, productID))
	return &res, nil
}

// ConsumeOffer records quantity units sold under a campaign product's quota.
// The check and the increment happen in one conditional update, so
// concurrent sales can never push the counter past max_quantity.
func (s *OfferService) ConsumeOffer(ctx context.Context, campaignProductID uint, quantity int, consumedBy *uint) error {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return NewValidationError("quantity", "must be at least 1")
	}

	cp, err := s.quotas.GetByID(ctx, campaignProductID)
	if err != nil {
		if isNotFound(err) {
			metrics.RecordOfferConsume("not_found")
		} else {
			metrics.RecordOfferConsume("error")
		}
		return notFound(err, "campaign product")
	}

	ok, err := s.quotas.IncrementSoldQuantity(ctx, campaignProductID, quantity)
	if err != nil {
		metrics.RecordOfferConsume("error")
		return fmt.Errorf("failed to consume offer: %w", err)
	}
	if !ok {
		metrics.RecordOfferConsume("sold_out")
		return ErrQuotaExceeded
	}
	metrics.RecordOfferConsume("success")

	s.publishConsumed(ctx, cp, quantity, consumedBy)
	return nil
}

func (s *OfferService) publishConsumed(ctx context.Context, cp *models.CampaignProduct, quantity int, consumedBy *uint) {
	if s.publisher == nil {
		return
	}
	event := models.OfferConsumedEvent{
		Type:              models.EventOfferConsumed,
		CampaignID:        cp.CampaignID,
		CampaignProductID: cp.ID,
		ProductID:         cp.ProductID,
		Quantity:          quantity,
		ConsumedBy:        consumedBy,
		ConsumedAt:        s.now().UTC(),
	}
	// The counter is already committed; a lost event only affects the sale log
	if err := s.publisher.PublishJSON(ctx, s.queueName, event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"campaign_product_id": cp.ID,
			"quantity":            quantity,
		}).Warn("Failed to publish offer_consumed event")
	}
}

// toCandidates turns loaded campaigns into engine input, keeping only the
// rule that targets productID
func toCandidates(campaigns []models.Campaign, productID uint) []pricing.Campaign {
	out := make([]pricing.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		var rule *models.CampaignProduct
		for i := range c.Products {
			if c.Products[i].ProductID == productID {
				rule = &c.Products[i]
				break
			}
		}
		if rule == nil {
			continue
		}

		branchIDs := make([]uint, 0, len(c.Branches))
		for _, b := range c.Branches {
			branchIDs = append(branchIDs, b.BranchID)
		}

		out = append(out, pricing.Campaign{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			StartDate:   c.StartDate,
			EndDate:     c.EndDate,
			IsActive:    c.IsActive,
			Priority:    c.Priority,
			BranchIDs:   branchIDs,
			Rule:        toRule(rule),
		})
	}
	return out
}

func toRule(cp *models.CampaignProduct) pricing.ProductRule {
	overrides := make([]pricing.BranchOverride, 0, len(cp.BranchOverrides))
	for _, o := range cp.BranchOverrides {
		overrides = append(overrides, pricing.BranchOverride{
			BranchID:      o.BranchID,
			DiscountValue: o.DiscountValueOverride,
		})
	}
	return pricing.ProductRule{
		CampaignProductID: cp.ID,
		ProductID:         cp.ProductID,
		DiscountType:      pricing.DiscountType(cp.DiscountType),
		DiscountValue:     cp.DiscountValue,
		MaxQuantity:       cp.MaxQuantity,
		SoldQuantity:      cp.SoldQuantity,
		Overrides:         overrides,
	}
}


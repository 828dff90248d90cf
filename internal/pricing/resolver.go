package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Request describes one resolution.
type Request struct {
	ProductID uint
	BasePrice decimal.Decimal
	BranchID  *uint
	Now       time.Time
	Quantity  int // defaults to 1
}

// CampaignInfo is the campaign summary embedded in a Result.
type CampaignInfo struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Priority    int       `json:"priority"`
}

// Result is the outcome of a resolution. When no campaign applies every offer
// field is nil and FinalPrice equals OriginalPrice.
type Result struct {
	ProductID          uint             `json:"product_id"`
	HasActiveCampaign  bool             `json:"has_active_campaign"`
	Campaign           *CampaignInfo    `json:"campaign"`
	CampaignProductID  *uint            `json:"campaign_product_id"`
	BranchID           *uint            `json:"branch_id"`
	DiscountType       *DiscountType    `json:"discount_type"`
	DiscountValue      *decimal.Decimal `json:"discount_value"`
	OriginalPrice      decimal.Decimal  `json:"original_price"`
	OfferPrice         *decimal.Decimal `json:"offer_price"`
	FinalPrice         decimal.Decimal  `json:"final_price"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount"`
	DiscountPercentage *string          `json:"discount_percentage"`
	HasStock           bool             `json:"has_stock"`
	RemainingStock     *int             `json:"remaining_stock"`
}

// Breakdown is the arithmetic part of an offer.
type Breakdown struct {
	OfferPrice         decimal.Decimal
	DiscountAmount     decimal.Decimal
	DiscountPercentage string
}

// Compute prices basePrice under a discount. Amounts are rounded to cents,
// half away from zero. The percentage is always derived from the amount, so
// for fixed prices it reflects the effective reduction.
func Compute(basePrice decimal.Decimal, discountType DiscountType, value decimal.Decimal) Breakdown {
	var offer decimal.Decimal
	switch discountType {
	case DiscountFixedPrice:
		offer = value
	default:
		offer = basePrice.Sub(basePrice.Mul(value).Div(hundred))
	}
	offer = offer.Round(2)

	amount := basePrice.Sub(offer).Round(2)
	pct := decimal.Zero
	if !basePrice.IsZero() {
		pct = amount.Div(basePrice).Mul(hundred)
	}

	return Breakdown{
		OfferPrice:         offer,
		DiscountAmount:     amount,
		DiscountPercentage: pct.StringFixed(2),
	}
}

// Resolve picks the applicable campaign among candidates and prices the
// product. It has no side effects; identical inputs give identical results.
func Resolve(req Request, candidates []Campaign) Result {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	result := Result{
		ProductID:     req.ProductID,
		OriginalPrice: req.BasePrice,
		FinalPrice:    req.BasePrice,
	}

	chosen, ok := Select(candidates, req.BranchID, req.Now, quantity)
	if !ok {
		return result
	}

	rule := chosen.Rule
	value := rule.DiscountFor(req.BranchID)
	breakdown := Compute(req.BasePrice, rule.DiscountType, value)

	discountType := rule.DiscountType
	campaignProductID := rule.CampaignProductID
	pct := breakdown.DiscountPercentage
	offer := breakdown.OfferPrice
	amount := breakdown.DiscountAmount

	result.HasActiveCampaign = true
	result.Campaign = &CampaignInfo{
		ID:          chosen.ID,
		Name:        chosen.Name,
		Description: chosen.Description,
		StartDate:   chosen.StartDate,
		EndDate:     chosen.EndDate,
		Priority:    chosen.Priority,
	}
	result.CampaignProductID = &campaignProductID
	if req.BranchID != nil {
		branchID := *req.BranchID
		result.BranchID = &branchID
	}
	result.DiscountType = &discountType
	result.DiscountValue = &value
	result.OfferPrice = &offer
	result.FinalPrice = offer
	result.DiscountAmount = &amount
	result.DiscountPercentage = &pct
	result.HasStock = true
	result.RemainingStock = rule.Remaining()

	return result
}

// Package pricing resolves the effective selling price of a product from the
// promotional campaigns that are live at a given instant.
//
// Everything in this package works on plain values fetched up front by the
// caller. Nothing here touches the database or reads the wall clock.
package pricing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType says how DiscountValue is interpreted.
type DiscountType string

const (
	// DiscountPercentage takes DiscountValue percent off the base price (0 < v <= 100).
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixedPrice sells the product at exactly DiscountValue.
	DiscountFixedPrice DiscountType = "fixed_price"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixedPrice
}

// BranchOverride replaces a rule's discount value for one branch.
type BranchOverride struct {
	BranchID      uint
	DiscountValue decimal.Decimal
}

// ProductRule is one product's discount configuration inside a campaign.
type ProductRule struct {
	CampaignProductID uint
	ProductID         uint
	DiscountType      DiscountType
	DiscountValue     decimal.Decimal
	MaxQuantity       *int // nil means unlimited
	SoldQuantity      int
	Overrides         []BranchOverride
}

// Remaining returns the units still sellable under the rule, or nil when the
// rule has no quota.
func (r ProductRule) Remaining() *int {
	if r.MaxQuantity == nil {
		return nil
	}
	remaining := *r.MaxQuantity - r.SoldQuantity
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// Available reports whether quantity units can still be sold under the rule.
func (r ProductRule) Available(quantity int) bool {
	remaining := r.Remaining()
	if remaining == nil {
		return true
	}
	return *remaining >= quantity
}

// DiscountFor returns the discount value that applies at branchID. Only the
// value is overridden per branch; the discount type never changes.
func (r ProductRule) DiscountFor(branchID *uint) decimal.Decimal {
	if branchID != nil {
		for _, o := range r.Overrides {
			if o.BranchID == *branchID {
				return o.DiscountValue
			}
		}
	}
	return r.DiscountValue
}

// Campaign is a candidate campaign carrying the single rule that targets the
// product being priced.
type Campaign struct {
	ID          uint
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	IsActive    bool
	Priority    int
	BranchIDs   []uint // empty means every branch
	Rule        ProductRule
}

// Live reports whether the campaign is switched on and now falls inside its
// date window. Both bounds are inclusive.
func (c Campaign) Live(now time.Time) bool {
	return c.IsActive && !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// AppliesTo reports whether the campaign covers branchID. A campaign without
// branch assignments is open to every branch, including an unspecified one.
func (c Campaign) AppliesTo(branchID *uint) bool {
	if len(c.BranchIDs) == 0 {
		return true
	}
	if branchID == nil {
		return false
	}
	for _, id := range c.BranchIDs {
		if id == *branchID {
			return true
		}
	}
	return false
}

// Ordered returns a copy of campaigns sorted by priority (highest first), then
// by start date (latest first), then by id.
func Ordered(campaigns []Campaign) []Campaign {
	out := make([]Campaign, len(campaigns))
	copy(out, campaigns)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return a.ID < b.ID
	})
	return out
}

// Select returns the first campaign in priority order that is live at now,
// covers branchID and still has quota for quantity units.
func Select(campaigns []Campaign, branchID *uint, now time.Time, quantity int) (Campaign, bool) {
	for _, c := range Ordered(campaigns) {
		if !c.Live(now) || !c.AppliesTo(branchID) {
			continue
		}
		if !c.Rule.Available(quantity) {
			continue
		}
		return c, true
	}
	return Campaign{}, false
}

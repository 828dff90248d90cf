package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 11, 28, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }

func campaign(id uint, priority int, rule ProductRule) Campaign {
	return Campaign{
		ID:        id,
		Name:      "campaign",
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		IsActive:  true,
		Priority:  priority,
		Rule:      rule,
	}
}

func percentRule(id uint, value string) ProductRule {
	return ProductRule{
		CampaignProductID: id,
		ProductID:         1,
		DiscountType:      DiscountPercentage,
		DiscountValue:     dec(value),
	}
}

func request(branchID *uint) Request {
	return Request{ProductID: 1, BasePrice: dec("200.00"), BranchID: branchID, Now: now}
}

func TestResolve_HighestPriorityWins(t *testing.T) {
	low := campaign(1, 5, percentRule(11, "10"))
	high := campaign(2, 10, percentRule(22, "25"))

	for _, order := range [][]Campaign{{low, high}, {high, low}} {
		res := Resolve(request(nil), order)
		require.True(t, res.HasActiveCampaign)
		assert.Equal(t, uint(2), res.Campaign.ID)
		assert.Equal(t, uint(22), *res.CampaignProductID)
	}
}

func TestResolve_EqualPriorityIsDeterministic(t *testing.T) {
	older := campaign(1, 3, percentRule(11, "10"))
	newer := campaign(2, 3, percentRule(22, "20"))
	newer.StartDate = older.StartDate.Add(time.Hour)
	twin := campaign(3, 3, percentRule(33, "30"))
	twin.StartDate = newer.StartDate

	for _, order := range [][]Campaign{{older, newer, twin}, {twin, older, newer}, {newer, twin, older}} {
		res := Resolve(request(nil), order)
		require.True(t, res.HasActiveCampaign)
		assert.Equal(t, uint(2), res.Campaign.ID, "latest start then lowest id")
	}
}

func TestResolve_DateBoundsAreInclusive(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		end    time.Time
		expect bool
	}{
		{"starts now", now, now.Add(time.Hour), true},
		{"ends now", now.Add(-time.Hour), now, true},
		{"starts one tick later", now.Add(time.Nanosecond), now.Add(time.Hour), false},
		{"ended one tick earlier", now.Add(-time.Hour), now.Add(-time.Nanosecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := campaign(1, 1, percentRule(11, "10"))
			c.StartDate = tt.start
			c.EndDate = tt.end
			res := Resolve(request(nil), []Campaign{c})
			assert.Equal(t, tt.expect, res.HasActiveCampaign)
		})
	}
}

func TestResolve_InactiveCampaignInsideWindowIsIgnored(t *testing.T) {
	c := campaign(1, 1, percentRule(11, "10"))
	c.IsActive = false

	res := Resolve(request(nil), []Campaign{c})
	assert.False(t, res.HasActiveCampaign)
}

func TestResolve_OpenCampaignAppliesToEveryBranch(t *testing.T) {
	c := campaign(1, 1, percentRule(11, "10"))

	for _, branch := range []*uint{nil, uintPtr(1), uintPtr(99)} {
		res := Resolve(request(branch), []Campaign{c})
		assert.True(t, res.HasActiveCampaign)
	}
}

func TestResolve_RestrictedCampaign(t *testing.T) {
	c := campaign(1, 1, percentRule(11, "10"))
	c.BranchIDs = []uint{4, 7}

	assert.True(t, Resolve(request(uintPtr(7)), []Campaign{c}).HasActiveCampaign)
	assert.False(t, Resolve(request(uintPtr(5)), []Campaign{c}).HasActiveCampaign)
	assert.False(t, Resolve(request(nil), []Campaign{c}).HasActiveCampaign, "no branch given")
}

func TestResolve_BranchMismatchFallsThrough(t *testing.T) {
	restricted := campaign(1, 10, percentRule(11, "50"))
	restricted.BranchIDs = []uint{4}
	open := campaign(2, 1, percentRule(22, "10"))

	res := Resolve(request(uintPtr(9)), []Campaign{restricted, open})
	require.True(t, res.HasActiveCampaign)
	assert.Equal(t, uint(2), res.Campaign.ID)
}

func TestResolve_BranchOverrideReplacesValueOnly(t *testing.T) {
	rule := percentRule(11, "10")
	rule.Overrides = []BranchOverride{{BranchID: 3, DiscountValue: dec("30")}}
	c := campaign(1, 1, rule)

	res := Resolve(request(uintPtr(3)), []Campaign{c})
	require.True(t, res.HasActiveCampaign)
	assert.Equal(t, DiscountPercentage, *res.DiscountType)
	assert.True(t, dec("30").Equal(*res.DiscountValue))
	assert.True(t, dec("140").Equal(res.FinalPrice))
	assert.Equal(t, uint(3), *res.BranchID)

	other := Resolve(request(uintPtr(8)), []Campaign{c})
	assert.True(t, dec("10").Equal(*other.DiscountValue))
	assert.True(t, dec("180").Equal(other.FinalPrice))
}

func TestResolve_FixedPriceOverride(t *testing.T) {
	rule := ProductRule{
		CampaignProductID: 11,
		DiscountType:      DiscountFixedPrice,
		DiscountValue:     dec("179.00"),
		Overrides:         []BranchOverride{{BranchID: 2, DiscountValue: dec("150.00")}},
	}

	res := Resolve(request(uintPtr(2)), []Campaign{campaign(1, 1, rule)})
	require.True(t, res.HasActiveCampaign)
	assert.Equal(t, DiscountFixedPrice, *res.DiscountType)
	assert.True(t, dec("150").Equal(*res.OfferPrice))
	assert.Equal(t, "25.00", *res.DiscountPercentage)
}

func TestResolve_ExhaustedCampaignFallsThrough(t *testing.T) {
	exhausted := percentRule(11, "50")
	exhausted.MaxQuantity = intPtr(10)
	exhausted.SoldQuantity = 10
	limited := percentRule(22, "20")
	limited.MaxQuantity = intPtr(5)
	limited.SoldQuantity = 2

	res := Resolve(request(nil), []Campaign{campaign(1, 10, exhausted), campaign(2, 5, limited)})
	require.True(t, res.HasActiveCampaign)
	assert.Equal(t, uint(2), res.Campaign.ID)
	require.NotNil(t, res.RemainingStock)
	assert.Equal(t, 3, *res.RemainingStock)
	assert.True(t, res.HasStock)
}

func TestResolve_OversoldCounterCountsAsExhausted(t *testing.T) {
	rule := percentRule(11, "50")
	rule.MaxQuantity = intPtr(3)
	rule.SoldQuantity = 5

	assert.Equal(t, 0, *rule.Remaining())
	assert.False(t, Resolve(request(nil), []Campaign{campaign(1, 1, rule)}).HasActiveCampaign)
}

func TestResolve_UnlimitedQuota(t *testing.T) {
	rule := percentRule(11, "10")
	rule.SoldQuantity = 1_000_000

	res := Resolve(request(nil), []Campaign{campaign(1, 1, rule)})
	require.True(t, res.HasActiveCampaign)
	assert.True(t, res.HasStock)
	assert.Nil(t, res.RemainingStock)
}

func TestResolve_QuantityAgainstRemaining(t *testing.T) {
	rule := percentRule(11, "10")
	rule.MaxQuantity = intPtr(5)
	rule.SoldQuantity = 3

	req := request(nil)
	req.Quantity = 2
	assert.True(t, Resolve(req, []Campaign{campaign(1, 1, rule)}).HasActiveCampaign)

	req.Quantity = 3
	assert.False(t, Resolve(req, []Campaign{campaign(1, 1, rule)}).HasActiveCampaign)
}

func TestResolve_PriceArithmetic(t *testing.T) {
	pct := Resolve(request(nil), []Campaign{campaign(1, 1, percentRule(11, "25.00"))})
	require.True(t, pct.HasActiveCampaign)
	assert.True(t, dec("150.00").Equal(*pct.OfferPrice))
	assert.True(t, dec("150.00").Equal(pct.FinalPrice))
	assert.True(t, dec("50.00").Equal(*pct.DiscountAmount))
	assert.Equal(t, "25.00", *pct.DiscountPercentage)

	fixed := Resolve(request(nil), []Campaign{campaign(1, 1, ProductRule{
		CampaignProductID: 11,
		DiscountType:      DiscountFixedPrice,
		DiscountValue:     dec("179.00"),
	})})
	require.True(t, fixed.HasActiveCampaign)
	assert.True(t, dec("179.00").Equal(*fixed.OfferPrice))
	assert.True(t, dec("21.00").Equal(*fixed.DiscountAmount))
	assert.Equal(t, "10.50", *fixed.DiscountPercentage)
}

func TestCompute_RoundsToCents(t *testing.T) {
	b := Compute(dec("19.99"), DiscountPercentage, dec("15"))
	// 19.99 * 0.85 = 16.9915
	assert.Equal(t, "16.99", b.OfferPrice.StringFixed(2))
	assert.Equal(t, "3.00", b.DiscountAmount.StringFixed(2))

	b = Compute(dec("10.10"), DiscountPercentage, dec("50"))
	// 5.05 exactly
	assert.Equal(t, "5.05", b.OfferPrice.StringFixed(2))

	b = Compute(dec("0.25"), DiscountPercentage, dec("50"))
	// 0.125 rounds half up
	assert.Equal(t, "0.13", b.OfferPrice.StringFixed(2))
}

func TestResolve_NoCampaigns(t *testing.T) {
	res := Resolve(request(uintPtr(4)), nil)

	assert.False(t, res.HasActiveCampaign)
	assert.Nil(t, res.Campaign)
	assert.Nil(t, res.OfferPrice)
	assert.Nil(t, res.DiscountType)
	assert.Nil(t, res.BranchID)
	assert.False(t, res.HasStock)
	assert.True(t, dec("200.00").Equal(res.FinalPrice))
	assert.True(t, dec("200.00").Equal(res.OriginalPrice))
}

func TestResolve_IsRepeatable(t *testing.T) {
	rule := percentRule(11, "25")
	rule.MaxQuantity = intPtr(4)
	rule.SoldQuantity = 1
	rule.Overrides = []BranchOverride{{BranchID: 2, DiscountValue: dec("5")}}
	candidates := []Campaign{campaign(2, 1, percentRule(22, "1")), campaign(1, 9, rule)}

	first := Resolve(request(uintPtr(2)), candidates)
	second := Resolve(request(uintPtr(2)), candidates)

	assert.Equal(t, first, second)
	assert.Equal(t, uint(2), candidates[0].ID, "input order untouched")
	assert.Equal(t, 1, candidates[1].Rule.SoldQuantity)
}

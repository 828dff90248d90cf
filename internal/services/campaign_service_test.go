package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Field
}

func TestValidateWindow(t *testing.T) {
	start := time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, validateWindow(start, start.Add(time.Second)))
	assert.Equal(t, "end_date", fieldOf(t, validateWindow(start, start)))
	assert.Equal(t, "end_date", fieldOf(t, validateWindow(start, start.Add(-time.Hour))))
	assert.Equal(t, "start_date", fieldOf(t, validateWindow(time.Time{}, start)))
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name         string
		discountType string
		value        string
		max          *int
		sold         int
		field        string
	}{
		{"valid percentage", models.DiscountTypePercentage, "25", nil, 0, ""},
		{"full percentage", models.DiscountTypePercentage, "100", intPtr(1), 0, ""},
		{"valid fixed price", models.DiscountTypeFixedPrice, "179.99", nil, 0, ""},
		{"unknown type", "bogo", "10", nil, 0, "discount_type"},
		{"zero value", models.DiscountTypePercentage, "0", nil, 0, "discount_value"},
		{"negative value", models.DiscountTypeFixedPrice, "-1", nil, 0, "discount_value"},
		{"percentage over 100", models.DiscountTypePercentage, "100.01", nil, 0, "discount_value"},
		{"fixed price over 100", models.DiscountTypeFixedPrice, "150", nil, 0, ""},
		{"three decimals", models.DiscountTypeFixedPrice, "9.999", nil, 0, "discount_value"},
		{"trailing zeros", models.DiscountTypeFixedPrice, "9.9900", nil, 0, ""},
		{"zero quota", models.DiscountTypePercentage, "10", intPtr(0), 0, "max_quantity"},
		{"quota below sold", models.DiscountTypePercentage, "10", intPtr(4), 5, "max_quantity"},
		{"quota equals sold", models.DiscountTypePercentage, "10", intPtr(5), 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRule(tt.discountType, d(tt.value), tt.max, tt.sold)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.field, fieldOf(t, err))
		})
	}
}

func TestValidateDiscountValue_UsesGivenField(t *testing.T) {
	err := validateDiscountValue("discount_value_override", models.DiscountTypePercentage, d("120"))
	assert.Equal(t, "discount_value_override", fieldOf(t, err))
}

func TestToResponse_DerivesStatusAndRemaining(t *testing.T) {
	now := time.Date(2025, 11, 28, 12, 0, 0, 0, time.UTC)
	s := &CampaignService{now: func() time.Time { return now }}

	campaign := &models.Campaign{
		ID:        1,
		Name:      "Black Friday",
		StartDate: now.Add(time.Hour),
		EndDate:   now.Add(48 * time.Hour),
		IsActive:  true,
		Branches:  []models.CampaignBranch{{BranchID: 4}, {BranchID: 7}},
		Products: []models.CampaignProduct{{
			ID:            11,
			ProductID:     3,
			DiscountType:  models.DiscountTypePercentage,
			DiscountValue: d("10"),
			MaxQuantity:   intPtr(8),
			SoldQuantity:  3,
			BranchOverrides: []models.CampaignProductBranch{
				{BranchID: 4, DiscountValueOverride: d("15")},
			},
		}},
	}

	resp := s.toResponse(campaign)
	assert.Equal(t, models.CampaignStatusUpcoming, resp.Status)
	assert.Equal(t, []uint{4, 7}, resp.BranchIDs)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, 5, *resp.Products[0].RemainingStock)
	require.Len(t, resp.Products[0].BranchOverrides, 1)
	assert.Equal(t, uint(4), resp.Products[0].BranchOverrides[0].BranchID)

	campaign.IsActive = false
	assert.Equal(t, models.CampaignStatusInactive, s.toResponse(campaign).Status)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, uniqueIDs([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, uniqueIDs(nil))
}

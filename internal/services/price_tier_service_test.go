package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

func TestVolumePrice(t *testing.T) {
	product := &models.Product{ID: 5, BasePrice: d("10.00")}
	tiers := []models.PriceTier{
		{ID: 2, ProductID: 5, MinQuantity: 12, UnitPrice: d("8.50")},
		{ID: 1, ProductID: 5, MinQuantity: 6, UnitPrice: d("9.25")},
	}

	tests := []struct {
		quantity int
		tierID   *uint
		unit     string
		total    string
	}{
		{1, nil, "10.00", "10.00"},
		{5, nil, "10.00", "50.00"},
		{6, uintPtr(1), "9.25", "55.50"},
		{11, uintPtr(1), "9.25", "101.75"},
		{12, uintPtr(2), "8.50", "102.00"},
		{100, uintPtr(2), "8.50", "850.00"},
	}

	for _, tt := range tests {
		res := volumePrice(product, tiers, tt.quantity)
		assert.Equal(t, tt.unit, res.UnitPrice.StringFixed(2), "quantity %d", tt.quantity)
		assert.Equal(t, tt.total, res.Total.StringFixed(2), "quantity %d", tt.quantity)
		if tt.tierID == nil {
			assert.Nil(t, res.TierID)
			assert.Equal(t, 1, res.MinQuantity)
		} else {
			require.NotNil(t, res.TierID)
			assert.Equal(t, *tt.tierID, *res.TierID)
		}
		assert.Equal(t, "10.00", res.BasePrice.StringFixed(2))
	}
}

func uintPtr(v uint) *uint { return &v }

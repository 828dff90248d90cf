package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onegreenvn/retail-backoffice-services/internal/config"
)

func TestValidateAndNormalizePagination(t *testing.T) {
	tests := []struct {
		name             string
		page, pageSize   int
		wantPage, wantPS int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative", -3, -1, 1, 20},
		{"clamped", 2, 1000, 2, 100},
		{"untouched", 4, 50, 4, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize := ValidateAndNormalizePagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPS, pageSize)
		})
	}
}

func TestCalculatePaginationInfo(t *testing.T) {
	info := CalculatePaginationInfo(45, 2, 20)
	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.True(t, info.HasPrevious)

	exact := CalculatePaginationInfo(40, 2, 20)
	assert.Equal(t, 2, exact.TotalPages)
	assert.False(t, exact.HasNext)

	empty := CalculatePaginationInfo(0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrevious)
}

func TestCalculateOffset(t *testing.T) {
	assert.Equal(t, 0, CalculateOffset(1, 20))
	assert.Equal(t, 40, CalculateOffset(3, 20))
}

func TestStringToUint(t *testing.T) {
	v, err := StringToUint("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), v)

	v, err = StringToUint("")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = StringToUint("-1")
	assert.Error(t, err)

	_, err = StringToUint("4294967296")
	assert.Error(t, err, "exceeds 32 bits")
}

func TestInitSentry_DisabledWithoutDSN(t *testing.T) {
	enabled, err := InitSentry(&config.SentryConfig{})
	require.NoError(t, err)
	assert.False(t, enabled)
}

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

const incrementSQL = `UPDATE "campaign_products" SET "sold_quantity"=sold_quantity \+ \$1 WHERE .*id = \$2 AND \(max_quantity IS NULL OR sold_quantity \+ \$3 <= max_quantity\)`

func TestIncrementSoldQuantity_SingleConditionalUpdate(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewCampaignProductRepository(db)

	mock.ExpectExec(incrementSQL).
		WithArgs(2, 7, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.IncrementSoldQuantity(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementSoldQuantity_NoRowMeansQuotaExhausted(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewCampaignProductRepository(db)

	mock.ExpectExec(incrementSQL).
		WithArgs(1, 7, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.IncrementSoldQuantity(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementSoldQuantity_PropagatesErrors(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewCampaignProductRepository(db)

	mock.ExpectExec(incrementSQL).WillReturnError(errors.New("connection reset"))

	ok, err := repo.IncrementSoldQuantity(context.Background(), 7, 1)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestStockAdjust_GuardsAgainstNegativeQuantity(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewStockRepository(db)

	mock.ExpectExec(`UPDATE "stocks" SET "quantity"=quantity \+ \$1 WHERE .*quantity \+ \$4 >= 0`).
		WithArgs(-5, 1, 2, -5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Adjust(context.Background(), 1, 2, -5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_CampaignSales(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	repo := NewReportRepository(sqlx.NewDb(sqlDB, "postgres"))

	rows := sqlmock.NewRows([]string{
		"campaign_product_id", "product_id", "sku", "product_name", "discount_type",
		"discount_value", "base_price", "max_quantity", "sold_quantity", "override_count",
	}).
		AddRow(int64(3), int64(10), "LAC-0001", "Leche", "percentage", "25.00", "28.50", int64(100), int64(40), int64(2)).
		AddRow(int64(4), int64(11), "PAN-0002", "Pan", "fixed_price", "19.90", "24.00", nil, int64(7), int64(0))

	mock.ExpectQuery(`FROM campaign_products cp`).WithArgs(5).WillReturnRows(rows)

	result, err := repo.CampaignSales(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "LAC-0001", result[0].SKU)
	assert.Equal(t, "25.00", result[0].DiscountValue.StringFixed(2))
	require.NotNil(t, result[0].MaxQuantity)
	assert.Equal(t, 100, *result[0].MaxQuantity)
	assert.Equal(t, 2, result[0].OverrideCount)

	assert.Nil(t, result[1].MaxQuantity)
	assert.Equal(t, 7, result[1].SoldQuantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

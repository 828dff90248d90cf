package excel

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"
)

type fakeCampaigns struct{ campaign *models.Campaign }

func (f fakeCampaigns) GetByID(ctx context.Context, id uint) (*models.Campaign, error) {
	if f.campaign == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.campaign, nil
}

type fakeReports struct{ rows []models.CampaignSalesRow }

func (f fakeReports) CampaignSales(ctx context.Context, campaignID uint) ([]models.CampaignSalesRow, error) {
	return f.rows, nil
}

func TestExportCampaignSales(t *testing.T) {
	max := 10
	dir := t.TempDir()
	svc := NewExcelService(
		fakeCampaigns{campaign: &models.Campaign{ID: 3, Name: "Black Friday"}},
		fakeReports{rows: []models.CampaignSalesRow{
			{
				CampaignProductID: 7,
				ProductID:         12,
				SKU:               "SKU-12",
				ProductName:       "Coffee beans",
				DiscountType:      models.DiscountTypePercentage,
				DiscountValue:     decimal.RequireFromString("25"),
				BasePrice:         decimal.RequireFromString("200"),
				MaxQuantity:       &max,
				SoldQuantity:      10,
				OverrideCount:     1,
			},
		}},
		dir,
	)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	res, err := svc.ExportCampaignSales(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "campaign_sales_3_1700000000.xlsx", res.Filename)

	f, err := excelize.OpenFile(filepath.Join(dir, res.Filename))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, salesColumns, rows[0])
	assert.Equal(t, "SKU-12", rows[1][2])
	assert.Equal(t, "150.00", rows[1][7])
	assert.Equal(t, "0", rows[1][10])
}

func TestExportCampaignSales_UnknownCampaign(t *testing.T) {
	svc := NewExcelService(fakeCampaigns{}, fakeReports{}, t.TempDir())

	_, err := svc.ExportCampaignSales(context.Background(), 99)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestFilePath(t *testing.T) {
	svc := &Service{exportsDir: "/tmp/exports"}

	p, err := svc.FilePath("campaign_sales_1_1.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/exports/campaign_sales_1_1.xlsx", p)

	for _, bad := range []string{"../secret", "a/b.xlsx", "."} {
		_, err := svc.FilePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestColumnToLetter(t *testing.T) {
	assert.Equal(t, "A", columnToLetter(1))
	assert.Equal(t, "Z", columnToLetter(26))
	assert.Equal(t, "AA", columnToLetter(27))
}

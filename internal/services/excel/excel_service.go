package excel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/pricing"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// CampaignLoader loads a campaign header
type CampaignLoader interface {
	GetByID(ctx context.Context, id uint) (*models.Campaign, error)
}

// SalesReporter returns the per-product sales rows of a campaign
type SalesReporter interface {
	CampaignSales(ctx context.Context, campaignID uint) ([]models.CampaignSalesRow, error)
}

// Service handles Excel exports of campaign sales
type Service struct {
	campaigns  CampaignLoader
	reports    SalesReporter
	exportsDir string
	now        func() time.Time
}

// NewExcelService creates a new Excel service instance
func NewExcelService(campaigns CampaignLoader, reports SalesReporter, exportsDir string) *Service {
	// Create exports directory if it doesn't exist
	if _, err := os.Stat(exportsDir); os.IsNotExist(err) {
		if err := os.MkdirAll(exportsDir, 0755); err != nil {
			logrus.Warnf("Failed to create exports directory %s: %v", exportsDir, err)
		}
	}

	return &Service{
		campaigns:  campaigns,
		reports:    reports,
		exportsDir: exportsDir,
		now:        time.Now,
	}
}

// ExportResult contains the result of an export operation
type ExportResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

var salesColumns = []string{
	"campaign_product_id", "product_id", "sku", "product_name",
	"discount_type", "discount_value", "base_price", "offer_price",
	"max_quantity", "sold_quantity", "remaining", "branch_overrides",
}

// ExportCampaignSales writes the sales report of one campaign to an .xlsx file
func (s *Service) ExportCampaignSales(ctx context.Context, campaignID uint) (*ExportResult, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("campaign %w", services.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	rows, err := s.reports.CampaignSales(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign sales: %w", err)
	}

	filename := fmt.Sprintf("campaign_sales_%d_%d.xlsx", campaignID, s.now().Unix())
	filePath := filepath.Join(s.exportsDir, filename)

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sales"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	f.SetActiveSheet(0)

	for i, col := range salesColumns {
		f.SetCellValue(sheet, columnToLetter(i+1)+"1", col)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFFF00"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", columnToLetter(len(salesColumns))+"1", headerStyle)
	}

	soldOutStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"D9D9D9"}, // Gray
			Pattern: 1,
		},
	})

	for i, col := range salesColumns {
		letter := columnToLetter(i + 1)
		width := 15.0
		switch col {
		case "product_name":
			width = 35.0
		case "sku", "discount_type":
			width = 20.0
		}
		f.SetColWidth(sheet, letter, letter, width)
	}

	totalSold := 0
	for j, row := range rows {
		rowNum := j + 2
		rule := pricing.ProductRule{
			DiscountType:  pricing.DiscountType(row.DiscountType),
			DiscountValue: row.DiscountValue,
			MaxQuantity:   row.MaxQuantity,
			SoldQuantity:  row.SoldQuantity,
		}
		breakdown := pricing.Compute(row.BasePrice, rule.DiscountType, rule.DiscountValue)

		values := []interface{}{
			row.CampaignProductID,
			row.ProductID,
			row.SKU,
			row.ProductName,
			row.DiscountType,
			row.DiscountValue.StringFixed(2),
			row.BasePrice.StringFixed(2),
			breakdown.OfferPrice.StringFixed(2),
			quantityCell(row.MaxQuantity),
			row.SoldQuantity,
			quantityCell(rule.Remaining()),
			row.OverrideCount,
		}
		for i, v := range values {
			f.SetCellValue(sheet, columnToLetter(i+1)+strconv.Itoa(rowNum), v)
		}

		if remaining := rule.Remaining(); remaining != nil && *remaining == 0 {
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", columnToLetter(len(salesColumns)), rowNum), soldOutStyle)
		}
		totalSold += row.SoldQuantity
	}

	if len(rows) == 0 {
		f.SetCellValue(sheet, "A2", "no products in this campaign")
	}

	if err := f.SaveAs(filePath); err != nil {
		return nil, fmt.Errorf("failed to save Excel file: %w", err)
	}

	return &ExportResult{
		Success:  true,
		Message:  fmt.Sprintf("Exported campaign %q with %d products and %d units sold", campaign.Name, len(rows), totalSold),
		Filename: filename,
	}, nil
}

// FilePath resolves an export filename inside the exports directory
func (s *Service) FilePath(filename string) (string, error) {
	clean := filepath.Base(filename)
	if clean != filename || clean == "." || clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return filepath.Join(s.exportsDir, clean), nil
}

func quantityCell(v *int) interface{} {
	if v == nil {
		return "unlimited"
	}
	return *v
}

// Helper function to convert column number to Excel column letter
func columnToLetter(col int) string {
	var result string
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

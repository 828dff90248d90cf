package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/services/excel"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// ExcelHandler handles HTTP requests related to Excel operations
type ExcelHandler struct {
	excelService *excel.Service
	basePath     string
}

// NewExcelHandler creates a new ExcelHandler instance
func NewExcelHandler(db *gorm.DB, reportDB *sqlx.DB, exportsDir, basePath string) *ExcelHandler {
	return &ExcelHandler{
		excelService: excel.NewExcelService(
			repository.NewCampaignRepository(db),
			repository.NewReportRepository(reportDB),
			exportsDir,
		),
		basePath: basePath,
	}
}

// ExportCampaignSales godoc
// @Summary Export campaign sales to Excel
// @Description Builds an .xlsx with the quota usage of every product in the campaign and redirects to its download URL
// @Tags excel
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 302 {string} string "Redirect to download URL"
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/sales/export [get]
func (h *ExcelHandler) ExportCampaignSales(c *gin.Context) {
	campaignID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.excelService.ExportCampaignSales(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, err, "Failed to export campaign sales")
		return
	}

	// Redirect to the download URL
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/exports/%s", h.basePath, result.Filename))
}

// DownloadExcelFile godoc
// @Summary Download Excel file
// @Description Download a previously exported Excel file
// @Tags excel
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param filename path string true "Excel filename"
// @Success 200 {file} binary "Excel file"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/exports/{filename} [get]
func (h *ExcelHandler) DownloadExcelFile(c *gin.Context) {
	filename := c.Param("filename")
	filePath, err := h.excelService.FilePath(filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename", "details": err.Error()})
		return
	}

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	// Set headers for file download
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Header("Cache-Control", "must-revalidate")
	c.Header("Pragma", "public")

	c.File(filePath)
}

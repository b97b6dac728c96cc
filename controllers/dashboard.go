// controllers/dashboard.go - Recap aggregates and export
package controllers

import (
	"fmt"
	"net/http"
	"time"

	"pkm-management-api/config"
	"pkm-management-api/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type recapRow struct {
	Year         int    `gorm:"column:year" json:"year"`
	Abbreviation string `gorm:"column:abbreviation" json:"abbreviation"`
	Status       string `gorm:"column:status" json:"status"`
	AdvisorSt    string `gorm:"column:advisor_status" json:"advisor_status"`
	AdminSt      string `gorm:"column:admin_status" json:"admin_status"`
	Count        int64  `gorm:"column:count" json:"count"`
}

func loadRecapRows(calendarID string) ([]recapRow, error) {
	var rows []recapRow
	query := config.DB.Table("proposals").
		Joins("JOIN academic_calendars ON academic_calendars.calendar_id = proposals.calendar_id").
		Joins("JOIN grant_types ON grant_types.grant_type_id = proposals.grant_type_id").
		Select("academic_calendars.year AS year, grant_types.abbreviation AS abbreviation," +
			" proposals.status AS status, proposals.advisor_status AS advisor_status," +
			" proposals.admin_status AS admin_status, COUNT(*) AS count").
		Where("proposals.delete_at IS NULL").
		Group("academic_calendars.year, grant_types.abbreviation, proposals.status, proposals.advisor_status, proposals.admin_status").
		Order("academic_calendars.year DESC, grant_types.abbreviation ASC")
	if calendarID != "" {
		query = query.Where("proposals.calendar_id = ?", calendarID)
	}
	err := query.Scan(&rows).Error
	return rows, err
}

// GetDashboardStats returns proposal counts grouped by year, grant type and
// derived status.
func GetDashboardStats(c *gin.Context) {
	rows, err := loadRecapRows(c.Query("calendar_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recap"})
		return
	}

	type statRow struct {
		Year          int    `json:"year"`
		Abbreviation  string `json:"abbreviation"`
		OverallStatus string `json:"overall_status"`
		Count         int64  `json:"count"`
	}
	merged := make(map[statRow]int64)
	for _, r := range rows {
		key := statRow{
			Year:          r.Year,
			Abbreviation:  r.Abbreviation,
			OverallStatus: models.DeriveOverallStatus(r.Status, r.AdvisorSt, r.AdminSt),
		}
		merged[key] += r.Count
	}
	stats := make([]statRow, 0, len(merged))
	for key, count := range merged {
		key.Count = count
		stats = append(stats, key)
	}

	var totalProposals int64
	config.DB.Model(&models.Proposal{}).Where("delete_at IS NULL").Count(&totalProposals)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"stats":           stats,
		"total_proposals": totalProposals,
	})
}

// ExportRecap streams the recap as an Excel workbook for staff.
func ExportRecap(c *gin.Context) {
	rows, err := loadRecapRows(c.Query("calendar_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recap"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Recap"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Year", "Grant Type", "Overall Status", "Proposals"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	line := 2
	for _, r := range rows {
		overall := models.DeriveOverallStatus(r.Status, r.AdvisorSt, r.AdminSt)
		f.SetCellValue(sheet, fmt.Sprintf("A%d", line), r.Year)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", line), r.Abbreviation)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", line), overall)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", line), r.Count)
		line++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate workbook"})
		return
	}

	filename := fmt.Sprintf("pkm-recap-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

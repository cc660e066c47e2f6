package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"libris/services"
)

// ReportController serves the read-only aggregations.
type ReportController struct {
	reportService services.ReportService
}

func NewReportController(reportService services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// Reports handles GET /reports (admin): overdue loans, popularity rankings
// and the active-user ranking.
func (ctl *ReportController) Reports(c *gin.Context) {
	report, err := ctl.reportService.LibraryReport()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Dashboard handles GET /: library stats and recently added books.
func (ctl *ReportController) Dashboard(c *gin.Context) {
	dashboard, err := ctl.reportService.LibraryDashboard()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dompetku/dompetku-api/middleware"
	"github.com/dompetku/dompetku-api/services"
	"github.com/dompetku/dompetku-api/utils"
)

type ReportHandler struct {
	Reports      *services.ReportService
	Transactions *services.TransactionService
}

func NewReportHandler(reports *services.ReportService, transactions *services.TransactionService) *ReportHandler {
	return &ReportHandler{Reports: reports, Transactions: transactions}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)

	dashboard, err := h.Reports.Dashboard(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *ReportHandler) Yearly(c *gin.Context) {
	userID := middleware.GetUserID(c)

	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tahun tidak valid"})
			return
		}
		year = parsed
	}

	report, err := h.Reports.Yearly(c.Request.Context(), userID, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportCSV streams the filtered transaction set as a CSV download.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetUserID(c)

	filter := filterFromQuery(c)
	filter.Page = 1
	filter.Limit = 100000

	page, err := h.Transactions.List(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	filename := fmt.Sprintf("laporan-keuangan-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", services.ExportCSV(page.Transactions))
}

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/laborbook/internal/domain/models"
	"github.com/mamadbah2/laborbook/internal/service/reporting"
)

// ReportHandler serves the monthly report endpoints.
type ReportHandler struct {
	reporting *reporting.Service
	logger    *zap.Logger
}

// NewReportHandler constructs the report HTTP adapter.
func NewReportHandler(reportingSvc *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reporting: reportingSvc, logger: logger}
}

// Monthly returns the report rows as JSON, one entry per laborer including
// those without recorded hours.
func (h *ReportHandler) Monthly(c *gin.Context) {
	category, year, month, ok := h.parseParams(c)
	if !ok {
		return
	}

	rows, err := h.reporting.BuildMonthlyReport(c.Request.Context(), category, year, month)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category, "year": year, "month": int(month), "rows": rows})
}

// MonthlyCSV streams the report as a CSV attachment named
// {category}-{yyyy-MM}.csv.
func (h *ReportHandler) MonthlyCSV(c *gin.Context) {
	category, year, month, ok := h.parseParams(c)
	if !ok {
		return
	}

	rows, err := h.reporting.BuildMonthlyReport(c.Request.Context(), category, year, month)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename := reporting.FileName(category, year, month)
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.reporting.WriteCSV(c.Writer, rows); err != nil {
		h.logger.Error("failed streaming csv", zap.Error(err))
	}
}

func (h *ReportHandler) parseParams(c *gin.Context) (models.Category, int, time.Month, bool) {
	category := models.Category(c.Query("category"))

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return "", 0, 0, false
	}

	monthNum, err := strconv.Atoi(c.Query("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month, expected 1-12"})
		return "", 0, 0, false
	}

	return category, year, time.Month(monthNum), true
}

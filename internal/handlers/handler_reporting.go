package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medantrix/hms_accounting_app/internal/core/services"
	"github.com/medantrix/hms_accounting_app/internal/middleware"

	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
)

type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: reportingService,
	}
}

// trialBalance godoc
// @Summary Trial balance for a financial year
// @Description Aggregates per-account debit and credit totals over the POSTED entries of a financial year
// @Tags reports
// @Produce  json
// @Param   financialYearID path string true "Financial Year ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 404 {object} map[string]string "Financial year not found"
// @Router /reports/trial-balance/{financialYearID} [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	financialYearID := c.Param("financialYearID")

	resp, err := h.reportingService.TrialBalance(c.Request.Context(), financialYearID)
	if err != nil {
		if errors.Is(err, services.ErrFinancialYearNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Financial year not found"})
			return
		}
		logger.Error("Failed to build trial balance", slog.String("error", err.Error()),
			slog.String("financial_year_id", financialYearID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build trial balance"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerReportingRoutes registers report routes.
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance/:financialYearID", h.trialBalance)
	}
}

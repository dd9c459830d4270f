package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/medantrix/hms_accounting_app/internal/middleware"

	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
)

type financialYearHandler struct {
	yearService portssvc.FinancialYearSvcFacade
}

func newFinancialYearHandler(yearService portssvc.FinancialYearSvcFacade) *financialYearHandler {
	return &financialYearHandler{
		yearService: yearService,
	}
}

// createFinancialYear godoc
// @Summary Create a financial year
// @Description Creates a financial year in ACTIVE status; the end date must fall after the start date
// @Tags financial-years
// @Accept  json
// @Produce  json
// @Param   year body dto.CreateFinancialYearRequest true "Financial year window"
// @Success 201 {object} dto.FinancialYearResponse
// @Failure 400 {object} map[string]string "Invalid request or inverted window"
// @Router /financial-years [post]
func (h *financialYearHandler) createFinancialYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFinancialYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	year, err := h.yearService.CreateFinancialYear(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating financial year", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create financial year", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create financial year"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToFinancialYearResponse(year))
}

// getFinancialYear godoc
// @Summary Get a financial year
// @Tags financial-years
// @Produce  json
// @Param   financialYearID path string true "Financial Year ID"
// @Success 200 {object} dto.FinancialYearResponse
// @Failure 404 {object} map[string]string "Financial year not found"
// @Router /financial-years/{financialYearID} [get]
func (h *financialYearHandler) getFinancialYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	financialYearID := c.Param("financialYearID")

	year, err := h.yearService.GetFinancialYearByID(c.Request.Context(), financialYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Financial year not found"})
			return
		}
		logger.Error("Failed to get financial year", slog.String("error", err.Error()),
			slog.String("financial_year_id", financialYearID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve financial year"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFinancialYearResponse(year))
}

// listFinancialYears godoc
// @Summary List financial years
// @Tags financial-years
// @Produce  json
// @Success 200 {array} dto.FinancialYearResponse
// @Router /financial-years [get]
func (h *financialYearHandler) listFinancialYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	years, err := h.yearService.ListFinancialYears(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list financial years", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list financial years"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFinancialYearResponses(years))
}

// closeFinancialYear godoc
// @Summary Close a financial year
// @Description Transitions the year from ACTIVE to CLOSED. Closing is terminal and blocks all further postings and reversals within the year.
// @Tags financial-years
// @Produce  json
// @Param   financialYearID path string true "Financial Year ID"
// @Success 200 {object} dto.FinancialYearResponse
// @Failure 404 {object} map[string]string "Financial year not found"
// @Failure 409 {object} map[string]string "Financial year already closed"
// @Router /financial-years/{financialYearID}/close [post]
func (h *financialYearHandler) closeFinancialYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	financialYearID := c.Param("financialYearID")

	closerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	year, err := h.yearService.CloseFinancialYear(c.Request.Context(), financialYearID, closerUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Financial year not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to close financial year", slog.String("error", err.Error()),
				slog.String("financial_year_id", financialYearID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close financial year"})
		}
		return
	}

	logger.Info("Financial year closed", slog.String("financial_year_id", financialYearID))
	c.JSON(http.StatusOK, dto.ToFinancialYearResponse(year))
}

// registerFinancialYearRoutes registers financial year routes.
func registerFinancialYearRoutes(group *gin.RouterGroup, yearService portssvc.FinancialYearSvcFacade) {
	h := newFinancialYearHandler(yearService)

	years := group.Group("/financial-years")
	{
		years.POST("", h.createFinancialYear)
		years.GET("", h.listFinancialYears)
		years.GET("/:financialYearID", h.getFinancialYear)
		years.POST("/:financialYearID/close", h.closeFinancialYear)
	}
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/medantrix/hms_accounting_app/internal/middleware"

	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
)

// journalHandler handles HTTP requests for the journal entry engine.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// createEntry godoc
// @Summary Create a DRAFT journal entry
// @Description Validates and persists a balanced journal entry in DRAFT status with a freshly minted entry number
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Journal entry with items"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid request or unbalanced items"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Financial year or account gate rejected the entry"
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, actorUserID)
	if err != nil {
		h.respondJournalError(c, logger, err, "Failed to create journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a DRAFT journal entry
// @Description Patches the header of a DRAFT entry; a non-null items array replaces the items wholesale
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   journalEntryID path string true "Journal Entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "Fields to patch"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid request or unbalanced items"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is no longer a draft"
// @Router /journal-entries/{journalEntryID} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalEntryID := c.Param("journalEntryID")

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.UpdateEntry(c.Request.Context(), journalEntryID, req, actorUserID)
	if err != nil {
		h.respondJournalError(c, logger, err, "Failed to update journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// postEntry godoc
// @Summary Post a DRAFT journal entry
// @Description Transitions the entry to POSTED and applies signed balance deltas to the affected accounts
// @Tags journal-entries
// @Produce  json
// @Param   journalEntryID path string true "Journal Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not in DRAFT status"
// @Failure 422 {object} map[string]string "Financial year or account gate rejected the posting"
// @Router /journal-entries/{journalEntryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalEntryID := c.Param("journalEntryID")

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), journalEntryID, actorUserID)
	if err != nil {
		h.respondJournalError(c, logger, err, "Failed to post journal entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("journal_entry_id", journalEntryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a POSTED journal entry
// @Description Creates and posts the mirror-image entry, marks the original REVERSED and links the two
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   journalEntryID path string true "Journal Entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest true "Reversal reason"
// @Success 200 {object} dto.ReverseJournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not in POSTED status"
// @Failure 422 {object} map[string]string "Reason missing or financial year closed"
// @Router /journal-entries/{journalEntryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalEntryID := c.Param("journalEntryID")

	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	original, reversal, err := h.journalService.ReverseEntry(c.Request.Context(), journalEntryID, req.Reason, actorUserID)
	if err != nil {
		h.respondJournalError(c, logger, err, "Failed to reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed",
		slog.String("journal_entry_id", journalEntryID),
		slog.String("reversal_entry_id", reversal.JournalEntryID))
	c.JSON(http.StatusOK, dto.ReverseJournalEntryResponse{
		OriginalEntry: dto.ToJournalEntryResponse(original),
		ReversalEntry: dto.ToJournalEntryResponse(reversal),
	})
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its items, enriched with account codes and names
// @Tags journal-entries
// @Produce  json
// @Param   journalEntryID path string true "Journal Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /journal-entries/{journalEntryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalEntryID := c.Param("journalEntryID")

	resp, err := h.journalService.GetEntryByID(c.Request.Context(), journalEntryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
			return
		}
		logger.Error("Failed to get journal entry", slog.String("error", err.Error()),
			slog.String("journal_entry_id", journalEntryID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a filtered, paginated listing of journal entries without their items
// @Tags journal-entries
// @Produce  json
// @Param   financialYearID query string false "Filter by financial year"
// @Param   status query string false "Filter by status (DRAFT, POSTED, REVERSED)"
// @Param   accountID query string false "Filter by account appearing in entry items"
// @Param   page query int false "Page number"
// @Param   limit query int false "Page size"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for listEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list journal entries"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondJournalError maps journal engine errors onto HTTP statuses:
// malformed input is 400, missing resources 404, state machine violations
// 409, and posting policy rejections 422.
func (h *journalHandler) respondJournalError(c *gin.Context, logger *slog.Logger, err error, logMsg string) {
	switch {
	case errors.Is(err, services.ErrInvalidStateTransition),
		errors.Is(err, services.ErrEntryNotEditable),
		errors.Is(err, services.ErrInvalidReversalTarget):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrFinancialYearClosed),
		errors.Is(err, services.ErrDateOutsideFinancialYear),
		errors.Is(err, services.ErrFinancialYearNotFound),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrInactiveAccount),
		errors.Is(err, services.ErrReasonRequired):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
	default:
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// registerJournalRoutes registers journal entry routes.
func registerJournalRoutes(group *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := group.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:journalEntryID", h.getEntry)
		entries.PUT("/:journalEntryID", h.updateEntry)
		entries.POST("/:journalEntryID/post", h.postEntry)
		entries.POST("/:journalEntryID/reverse", h.reverseEntry)
	}
}

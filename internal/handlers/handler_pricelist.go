package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/medantrix/hms_accounting_app/internal/middleware"
	"github.com/shopspring/decimal"

	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
)

// priceListHandler handles HTTP requests for the price catalogs. The
// SERVICE/PACKAGE variant is dispatched once here; everything below the
// handler works with the concrete variant.
type priceListHandler struct {
	priceListService portssvc.PriceListSvcFacade
}

func newPriceListHandler(priceListService portssvc.PriceListSvcFacade) *priceListHandler {
	return &priceListHandler{
		priceListService: priceListService,
	}
}

// createPriceList godoc
// @Summary Create a price list entry
// @Description Creates a priced service or package; the type field selects which payload applies
// @Tags price-lists
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreatePriceListRequest true "Tagged price list payload"
// @Success 201 {object} dto.ServicePriceResponse
// @Failure 400 {object} map[string]string "Invalid request or payload missing for the selected type"
// @Failure 409 {object} map[string]string "Code already exists in the active catalog"
// @Failure 422 {object} map[string]string "Referenced department, tax code or component missing"
// @Router /price-lists [post]
func (h *priceListHandler) createPriceList(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePriceListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createPriceList", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	switch req.Type {
	case dto.PriceListTypeService:
		if req.Service == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "service payload is required for type SERVICE"})
			return
		}
		price, err := h.priceListService.CreateServicePrice(c.Request.Context(), *req.Service, creatorUserID)
		if err != nil {
			h.respondPriceListError(c, logger, err, "Failed to create service price")
			return
		}
		c.JSON(http.StatusCreated, dto.ToServicePriceResponse(price))
	case dto.PriceListTypePackage:
		if req.Package == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "package payload is required for type PACKAGE"})
			return
		}
		price, err := h.priceListService.CreatePackagePrice(c.Request.Context(), *req.Package, creatorUserID)
		if err != nil {
			h.respondPriceListError(c, logger, err, "Failed to create package price")
			return
		}
		c.JSON(http.StatusCreated, dto.ToPackagePriceResponse(price))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown price list type"})
	}
}

// getServicePrice godoc
// @Summary Get a priced service
// @Tags price-lists
// @Produce  json
// @Param   servicePriceID path string true "Service Price ID"
// @Success 200 {object} dto.ServicePriceResponse
// @Failure 404 {object} map[string]string "Service price not found"
// @Router /price-lists/services/{servicePriceID} [get]
func (h *priceListHandler) getServicePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	servicePriceID := c.Param("servicePriceID")

	price, err := h.priceListService.GetServicePriceByID(c.Request.Context(), servicePriceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service price not found"})
			return
		}
		logger.Error("Failed to get service price", slog.String("error", err.Error()),
			slog.String("service_price_id", servicePriceID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve service price"})
		return
	}

	c.JSON(http.StatusOK, dto.ToServicePriceResponse(price))
}

// listServicePrices godoc
// @Summary List priced services
// @Tags price-lists
// @Produce  json
// @Param   page query int false "Page number"
// @Param   limit query int false "Page size"
// @Param   activeOnly query bool false "Only active entries"
// @Success 200 {object} dto.ListServicePricesResponse
// @Router /price-lists/services [get]
func (h *priceListHandler) listServicePrices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPriceListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.priceListService.ListServicePrices(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list service prices", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list service prices"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateServicePrice godoc
// @Summary Update a priced service
// @Tags price-lists
// @Accept  json
// @Produce  json
// @Param   servicePriceID path string true "Service Price ID"
// @Param   entry body dto.UpdateServicePriceRequest true "Fields to patch"
// @Success 200 {object} dto.ServicePriceResponse
// @Failure 404 {object} map[string]string "Service price not found"
// @Failure 409 {object} map[string]string "Service code already exists"
// @Router /price-lists/services/{servicePriceID} [put]
func (h *priceListHandler) updateServicePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	servicePriceID := c.Param("servicePriceID")

	var req dto.UpdateServicePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	price, err := h.priceListService.UpdateServicePrice(c.Request.Context(), servicePriceID, req, updaterUserID)
	if err != nil {
		h.respondPriceListError(c, logger, err, "Failed to update service price")
		return
	}

	c.JSON(http.StatusOK, dto.ToServicePriceResponse(price))
}

// deactivateServicePrice godoc
// @Summary Deactivate a priced service
// @Tags price-lists
// @Produce  json
// @Param   servicePriceID path string true "Service Price ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Service price not found"
// @Router /price-lists/services/{servicePriceID} [delete]
func (h *priceListHandler) deactivateServicePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	servicePriceID := c.Param("servicePriceID")

	deactivatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.priceListService.DeactivateServicePrice(c.Request.Context(), servicePriceID, deactivatorUserID); err != nil {
		h.respondPriceListError(c, logger, err, "Failed to deactivate service price")
		return
	}

	c.Status(http.StatusNoContent)
}

// quoteServicePrice godoc
// @Summary Quote a priced service
// @Description Computes the discounted taxable amount and intra-state GST breakdown for a quantity of one priced service
// @Tags price-lists
// @Produce  json
// @Param   servicePriceID path string true "Service Price ID"
// @Param   quantity query int false "Quantity (default 1)"
// @Param   discountPercent query number false "Discount percent 0..100 (default 0)"
// @Success 200 {object} accounting.GSTQuote
// @Failure 400 {object} map[string]string "Invalid quantity or discount"
// @Failure 404 {object} map[string]string "Service price not found"
// @Router /price-lists/services/{servicePriceID}/quote [get]
func (h *priceListHandler) quoteServicePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	servicePriceID := c.Param("servicePriceID")

	quantity := 1
	if raw := c.Query("quantity"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be an integer"})
			return
		}
		quantity = parsed
	}

	discountPercent := decimal.Zero
	if raw := c.Query("discountPercent"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "discountPercent must be a number"})
			return
		}
		discountPercent = parsed
	}

	quote, err := h.priceListService.QuoteServicePrice(c.Request.Context(), servicePriceID, quantity, discountPercent)
	if err != nil {
		h.respondPriceListError(c, logger, err, "Failed to quote service price")
		return
	}

	c.JSON(http.StatusOK, quote)
}

// getPackagePrice godoc
// @Summary Get a priced package with its components
// @Tags price-lists
// @Produce  json
// @Param   packagePriceID path string true "Package Price ID"
// @Success 200 {object} dto.PackagePriceResponse
// @Failure 404 {object} map[string]string "Package price not found"
// @Router /price-lists/packages/{packagePriceID} [get]
func (h *priceListHandler) getPackagePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	packagePriceID := c.Param("packagePriceID")

	price, err := h.priceListService.GetPackagePriceByID(c.Request.Context(), packagePriceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package price not found"})
			return
		}
		logger.Error("Failed to get package price", slog.String("error", err.Error()),
			slog.String("package_price_id", packagePriceID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve package price"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPackagePriceResponse(price))
}

// listPackagePrices godoc
// @Summary List priced packages
// @Tags price-lists
// @Produce  json
// @Param   page query int false "Page number"
// @Param   limit query int false "Page size"
// @Param   activeOnly query bool false "Only active entries"
// @Success 200 {object} dto.ListPackagePricesResponse
// @Router /price-lists/packages [get]
func (h *priceListHandler) listPackagePrices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPriceListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.priceListService.ListPackagePrices(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list package prices", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list package prices"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updatePackagePrice godoc
// @Summary Update a priced package
// @Description Patches the package header; a non-null items array replaces the composition wholesale
// @Tags price-lists
// @Accept  json
// @Produce  json
// @Param   packagePriceID path string true "Package Price ID"
// @Param   entry body dto.UpdatePackagePriceRequest true "Fields to patch"
// @Success 200 {object} dto.PackagePriceResponse
// @Failure 404 {object} map[string]string "Package price not found"
// @Failure 409 {object} map[string]string "Package code already exists"
// @Router /price-lists/packages/{packagePriceID} [put]
func (h *priceListHandler) updatePackagePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	packagePriceID := c.Param("packagePriceID")

	var req dto.UpdatePackagePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	price, err := h.priceListService.UpdatePackagePrice(c.Request.Context(), packagePriceID, req, updaterUserID)
	if err != nil {
		h.respondPriceListError(c, logger, err, "Failed to update package price")
		return
	}

	c.JSON(http.StatusOK, dto.ToPackagePriceResponse(price))
}

// deactivatePackagePrice godoc
// @Summary Deactivate a priced package
// @Tags price-lists
// @Produce  json
// @Param   packagePriceID path string true "Package Price ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Package price not found"
// @Router /price-lists/packages/{packagePriceID} [delete]
func (h *priceListHandler) deactivatePackagePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	packagePriceID := c.Param("packagePriceID")

	deactivatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.priceListService.DeactivatePackagePrice(c.Request.Context(), packagePriceID, deactivatorUserID); err != nil {
		h.respondPriceListError(c, logger, err, "Failed to deactivate package price")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondPriceListError maps catalog errors onto HTTP statuses.
func (h *priceListHandler) respondPriceListError(c *gin.Context, logger *slog.Logger, err error, logMsg string) {
	switch {
	case errors.Is(err, services.ErrDuplicateCode), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDepartmentNotFound),
		errors.Is(err, services.ErrHsnSacCodeNotFound):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Price list entry not found"})
	default:
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// registerPriceListRoutes registers price catalog routes.
func registerPriceListRoutes(group *gin.RouterGroup, priceListService portssvc.PriceListSvcFacade) {
	h := newPriceListHandler(priceListService)

	priceLists := group.Group("/price-lists")
	{
		priceLists.POST("", h.createPriceList)

		priceLists.GET("/services", h.listServicePrices)
		priceLists.GET("/services/:servicePriceID", h.getServicePrice)
		priceLists.GET("/services/:servicePriceID/quote", h.quoteServicePrice)
		priceLists.PUT("/services/:servicePriceID", h.updateServicePrice)
		priceLists.DELETE("/services/:servicePriceID", h.deactivateServicePrice)

		priceLists.GET("/packages", h.listPackagePrices)
		priceLists.GET("/packages/:packagePriceID", h.getPackagePrice)
		priceLists.PUT("/packages/:packagePriceID", h.updatePackagePrice)
		priceLists.DELETE("/packages/:packagePriceID", h.deactivatePackagePrice)
	}
}

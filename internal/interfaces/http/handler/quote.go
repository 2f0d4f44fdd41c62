package handler

import (
	"strings"

	"github.com/dafenarts/backend/internal/application/quote"
	"github.com/dafenarts/backend/internal/domain/pricing"
	"github.com/gin-gonic/gin"
)

// QuoteHandler serves the pricing and country-catalog endpoints
type QuoteHandler struct {
	BaseHandler
	quotes *quote.Service
}

// NewQuoteHandler creates a QuoteHandler
func NewQuoteHandler(quotes *quote.Service) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// ListCountries returns every configured destination profile
func (h *QuoteHandler) ListCountries(c *gin.Context) {
	h.Success(c, h.quotes.Countries())
}

// GetCountry returns one destination profile by code
func (h *QuoteHandler) GetCountry(c *gin.Context) {
	code := pricing.CountryCode(strings.ToUpper(c.Param("code")))
	country, err := h.quotes.Country(code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, country)
}

// UpdateCountry replaces one destination profile
func (h *QuoteHandler) UpdateCountry(c *gin.Context) {
	var profile pricing.CountryProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		h.BindError(c, err)
		return
	}
	profile.Code = pricing.CountryCode(strings.ToUpper(c.Param("code")))
	if err := h.quotes.UpdateCountry(profile); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// ListPresets returns the canvas size presets
func (h *QuoteHandler) ListPresets(c *gin.Context) {
	h.Success(c, h.quotes.Presets())
}

// GetDefaults returns the configured default parameter set
func (h *QuoteHandler) GetDefaults(c *gin.Context) {
	h.Success(c, h.quotes.Defaults())
}

// UnitCosts computes the per-unit cost breakdown
func (h *QuoteHandler) UnitCosts(c *gin.Context) {
	var req quote.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	costs, err := h.quotes.UnitCosts(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, costs)
}

// SuggestedPrice computes the margin-driven price
func (h *QuoteHandler) SuggestedPrice(c *gin.Context) {
	var req quote.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	res, err := h.quotes.SuggestedPrice(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// Profit analyzes a concrete price against a destination
func (h *QuoteHandler) Profit(c *gin.Context) {
	var req quote.ProfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	res, err := h.quotes.Profit(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// StrategyKPI computes the volume and acquisition budget road map
func (h *QuoteHandler) StrategyKPI(c *gin.Context) {
	var req quote.KPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	res, err := h.quotes.StrategyKPI(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// DepositRisk measures deposit coverage of the production outlay
func (h *QuoteHandler) DepositRisk(c *gin.Context) {
	var req quote.DepositRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	res, err := h.quotes.DepositRisk(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// GlobalProfitIndex ranks every destination by profit at one price
func (h *QuoteHandler) GlobalProfitIndex(c *gin.Context) {
	var req quote.GlobalIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	res, err := h.quotes.GlobalProfitIndex(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

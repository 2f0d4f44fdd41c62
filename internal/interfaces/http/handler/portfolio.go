package handler

import (
	appportfolio "github.com/dafenarts/backend/internal/application/portfolio"
	"github.com/dafenarts/backend/internal/domain/pricing"
	"github.com/gin-gonic/gin"
)

// PortfolioHandler serves the aggregated portfolio views
type PortfolioHandler struct {
	BaseHandler
	portfolio *appportfolio.Service
}

// NewPortfolioHandler creates a PortfolioHandler
func NewPortfolioHandler(portfolio *appportfolio.Service) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio}
}

// financialsQuery carries the manual spend and parameter overrides as
// query parameters so the statement endpoints stay GETs.
type financialsQuery struct {
	AdSpendCNY    float64  `form:"ad_spend_cny" binding:"min=0"`
	DeductionsUSD float64  `form:"deductions_usd" binding:"min=0"`
	ExchangeRate  *float64 `form:"exchange_rate" binding:"omitempty,gt=0"`
	Salary        *float64 `form:"salary" binding:"omitempty,min=0"`
	Rent          *float64 `form:"rent" binding:"omitempty,min=0"`
	IsFOB         bool     `form:"is_fob"`
	IsCIP         bool     `form:"is_cip"`
	IsDDP         bool     `form:"is_ddp"`
}

func (q financialsQuery) toRequest() appportfolio.FinancialsRequest {
	return appportfolio.FinancialsRequest{
		Params: pricing.RawInput{
			ExchangeRate: q.ExchangeRate,
			Salary:       q.Salary,
			Rent:         q.Rent,
			IsFOB:        q.IsFOB,
			IsCIP:        q.IsCIP,
			IsDDP:        q.IsDDP,
		},
		AdSpendCNY:    q.AdSpendCNY,
		DeductionsUSD: q.DeductionsUSD,
	}
}

// Stats returns the bucketed order statistics
func (h *PortfolioHandler) Stats(c *gin.Context) {
	stats, err := h.portfolio.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Financials returns the period statement
func (h *PortfolioHandler) Financials(c *gin.Context) {
	var q financialsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	f, err := h.portfolio.Financials(c.Request.Context(), q.toRequest())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, f)
}

// Health returns the cashflow health score with its statement
func (h *PortfolioHandler) Health(c *gin.Context) {
	var q financialsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	res, err := h.portfolio.Health(c.Request.Context(), q.toRequest())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// Package router wires the HTTP handlers onto the versioned API surface.
package router

import (
	"github.com/dafenarts/backend/internal/interfaces/http/handler"
	"github.com/dafenarts/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	System    *handler.SystemHandler
	Quote     *handler.QuoteHandler
	Order     *handler.OrderHandler
	Payment   *handler.PaymentHandler
	Portfolio *handler.PortfolioHandler
}

// Setup registers all routes on the engine under /api/v1
func Setup(engine *gin.Engine, h Handlers) {
	api := engine.Group("/api/v1")

	api.GET("/system/health", h.System.Health)

	api.GET("/countries", h.Quote.ListCountries)
	api.GET("/countries/:code", h.Quote.GetCountry)
	api.PUT("/countries/:code", h.Quote.UpdateCountry)
	api.GET("/presets", h.Quote.ListPresets)
	api.GET("/defaults", h.Quote.GetDefaults)

	quotes := api.Group("/quotes")
	{
		quotes.POST("/unit-costs", h.Quote.UnitCosts)
		quotes.POST("/price", h.Quote.SuggestedPrice)
		quotes.POST("/profit", h.Quote.Profit)
		quotes.POST("/kpi", h.Quote.StrategyKPI)
		quotes.POST("/deposit-risk", h.Quote.DepositRisk)
		quotes.POST("/global-index", h.Quote.GlobalProfitIndex)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", h.Order.Create)
		orders.GET("", h.Order.List)
		orders.GET("/export", h.Order.ExportCSV)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id", h.Order.Update)
		orders.DELETE("/:id", h.Order.Delete)
		orders.POST("/:id/ship", h.Order.Ship)
		orders.POST("/:id/deliver", h.Order.Deliver)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.POST("/:id/status", h.Order.SetStatus)

		orders.GET("/:id/payments", h.Payment.ListForOrder)
		orders.POST("/:id/payments", h.Payment.Add)
		orders.POST("/:id/payments/refund", h.Payment.Refund)
		orders.POST("/:id/payments/settle", h.Payment.MarkPaid)
		orders.DELETE("/:id/payments/:paymentId", h.Payment.Remove)
	}

	payments := api.Group("/payments")
	{
		payments.GET("/stats", h.Payment.Stats)
		payments.GET("/pending", h.Payment.Pending)
		payments.GET("/overdue", h.Payment.Overdue)
		payments.GET("/export", h.Payment.ExportCSV)
	}

	portfolio := api.Group("/portfolio")
	{
		portfolio.GET("/stats", h.Portfolio.Stats)
		portfolio.GET("/financials", h.Portfolio.Financials)
		portfolio.GET("/health", h.Portfolio.Health)
	}
}

// NewEngine builds a gin engine with the standard middleware chain
func NewEngine(mw ...gin.HandlerFunc) *gin.Engine {
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(mw...)
	return engine
}

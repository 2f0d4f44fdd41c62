package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafenarts/backend/internal/application/ledger"
	appportfolio "github.com/dafenarts/backend/internal/application/portfolio"
	"github.com/dafenarts/backend/internal/application/quote"
	"github.com/dafenarts/backend/internal/domain/order"
	"github.com/dafenarts/backend/internal/domain/pricing"
	"github.com/dafenarts/backend/internal/infrastructure/persistence"
	"github.com/dafenarts/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type alwaysUp struct{}

func (alwaysUp) Ping() error { return nil }

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&order.Order{}))

	log := zap.NewNop()
	repo := persistence.NewGormOrderRepository(db)
	engine := pricing.NewEngine(pricing.NewCatalog(), pricing.StandardDefaults())

	orders := ledger.NewOrderService(repo, engine, log)
	payments := ledger.NewPaymentService(orders, log)
	quotes := quote.NewService(engine, orders, log)
	portfolio := appportfolio.NewService(repo, engine, orders, log)

	e := NewEngine()
	Setup(e, Handlers{
		System:    handler.NewSystemHandler(alwaysUp{}, "test"),
		Quote:     handler.NewQuoteHandler(quotes),
		Order:     handler.NewOrderHandler(orders),
		Payment:   handler.NewPaymentHandler(payments, orders),
		Portfolio: handler.NewPortfolioHandler(portfolio),
	})
	return e
}

func doJSON(t *testing.T, e *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthAndCatalog(t *testing.T) {
	e := setupTestServer(t)

	w := doJSON(t, e, http.MethodGet, "/api/v1/system/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = doJSON(t, e, http.MethodGet, "/api/v1/countries", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, e, http.MethodGet, "/api/v1/countries/usa", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "United States")

	w = doJSON(t, e, http.MethodGet, "/api/v1/countries/XXX", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_QuoteFlow(t *testing.T) {
	e := setupTestServer(t)

	w := doJSON(t, e, http.MethodPost, "/api/v1/quotes/price", gin.H{"country": "USA"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "price_usd")

	w = doJSON(t, e, http.MethodPost, "/api/v1/quotes/profit", gin.H{
		"country": "DEU", "price_usd": 180, "is_ddp": true,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("conflicting terms rejected", func(t *testing.T) {
		w := doJSON(t, e, http.MethodPost, "/api/v1/quotes/profit", gin.H{
			"country": "USA", "price_usd": 180,
			"params": gin.H{"is_fob": true, "is_cip": true},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_OrderLifecycle(t *testing.T) {
	e := setupTestServer(t)

	w := doJSON(t, e, http.MethodPost, "/api/v1/orders", gin.H{
		"client_name": "Harbor Gallery", "country": "USA",
		"quantity": 10, "price_usd": 125, "initial_deposit_usd": 375,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "unshipped_paid", created.Data.Status)
	orderID := created.Data.ID

	w = doJSON(t, e, http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/ship", orderID), gin.H{"notes": "DHL"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shipped_unpaid")

	w = doJSON(t, e, http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/payments/settle", orderID), gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "completed")

	w = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/v1/orders/%s/payments", orderID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("unknown payment type rejected", func(t *testing.T) {
		w := doJSON(t, e, http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/payments", orderID), gin.H{
			"amount_usd": 50, "type": "tip",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "type")
	})

	t.Run("cancelled order rejects mutation", func(t *testing.T) {
		w := doJSON(t, e, http.MethodPost, "/api/v1/orders", gin.H{
			"client_name": "Walked Away", "country": "USA", "quantity": 1, "price_usd": 100,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var res struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

		w = doJSON(t, e, http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/cancel", res.Data.ID), gin.H{"reason": "ghosted"})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, e, http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/ship", res.Data.ID), gin.H{})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("list with meta", func(t *testing.T) {
		w := doJSON(t, e, http.MethodGet, "/api/v1/orders?page=1&page_size=10", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total"`)
	})

	t.Run("csv export", func(t *testing.T) {
		w := doJSON(t, e, http.MethodGet, "/api/v1/orders/export", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "orders-")
		assert.Contains(t, w.Body.String(), "order_number")
	})
}

func TestRouter_Portfolio(t *testing.T) {
	e := setupTestServer(t)

	w := doJSON(t, e, http.MethodPost, "/api/v1/orders", gin.H{
		"client_name": "Harbor Gallery", "country": "USA",
		"quantity": 10, "price_usd": 125, "initial_deposit_usd": 1250,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, e, http.MethodGet, "/api/v1/portfolio/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "unshipped_paid")

	w = doJSON(t, e, http.MethodGet, "/api/v1/portfolio/financials?ad_spend_cny=2000", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "final_profit_cny")

	w = doJSON(t, e, http.MethodGet, "/api/v1/portfolio/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "score")
}

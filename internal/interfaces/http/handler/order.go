package handler

import (
	"fmt"
	"time"

	"github.com/dafenarts/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves the order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orders *ledger.OrderService
}

// NewOrderHandler creates an OrderHandler
func NewOrderHandler(orders *ledger.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create opens a new order against the current parameter set
func (h *OrderHandler) Create(c *gin.Context) {
	var req ledger.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, o)
}

// List returns a filtered page of orders
func (h *OrderHandler) List(c *gin.Context) {
	var req ledger.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	orders, total, err := h.orders.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// Get fetches one order
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	o, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Update applies client and commercial-term changes
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ledger.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.orders.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Delete removes an order
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Ship marks an order shipped
func (h *OrderHandler) Ship(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ledger.ShipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.orders.Ship(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Deliver upgrades a shipped order to delivered
func (h *OrderHandler) Deliver(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	o, err := h.orders.Deliver(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Cancel moves an order into the terminal cancelled state
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ledger.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.orders.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// SetStatus applies an operator status override
func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ledger.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.orders.SetStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// ExportCSV streams the whole order book as a CSV attachment
func (h *OrderHandler) ExportCSV(c *gin.Context) {
	data, err := h.orders.ExportOrdersCSV(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filename := fmt.Sprintf("orders-%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "text/csv", data)
}

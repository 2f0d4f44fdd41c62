package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dafenarts/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// PaymentHandler serves the payment ledger endpoints
type PaymentHandler struct {
	BaseHandler
	payments *ledger.PaymentService
	orders   *ledger.OrderService
}

// NewPaymentHandler creates a PaymentHandler
func NewPaymentHandler(payments *ledger.PaymentService, orders *ledger.OrderService) *PaymentHandler {
	return &PaymentHandler{payments: payments, orders: orders}
}

// ListForOrder returns one order's payment ledger
func (h *PaymentHandler) ListForOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	o, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o.Payments)
}

// Add appends a ledger entry to an order
func (h *PaymentHandler) Add(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ledger.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.payments.AddPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, o)
}

// Refund records money returned to the client
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ledger.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.payments.Refund(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, o)
}

// MarkPaid settles an order's outstanding balance
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ledger.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.payments.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Remove deletes one ledger entry
func (h *PaymentHandler) Remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	o, err := h.payments.RemovePayment(c.Request.Context(), id, c.Param("paymentId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Stats summarizes receipts across the whole order book
func (h *PaymentHandler) Stats(c *gin.Context) {
	stats, err := h.payments.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Pending returns orders with an open balance
func (h *PaymentHandler) Pending(c *gin.Context) {
	orders, err := h.payments.Pending(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Overdue returns pending orders older than the "days" query parameter
func (h *PaymentHandler) Overdue(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	orders, err := h.payments.Overdue(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// ExportCSV streams every ledger entry as a CSV attachment
func (h *PaymentHandler) ExportCSV(c *gin.Context) {
	data, err := h.payments.ExportPaymentsCSV(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filename := fmt.Sprintf("payments-%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "text/csv", data)
}

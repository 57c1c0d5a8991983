package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appbilling "github.com/wms/backend/internal/application/billing"
	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// BillingHandler handles cost rate, cost calculation, storage ledger and
// invoice endpoints
type BillingHandler struct {
	BaseHandler
	rateService    *appbilling.CostRateService
	costService    *appbilling.CostAggregationService
	ledgerService  *appbilling.StorageLedgerService
	invoiceService *appbilling.InvoiceService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(
	rateService *appbilling.CostRateService,
	costService *appbilling.CostAggregationService,
	ledgerService *appbilling.StorageLedgerService,
	invoiceService *appbilling.InvoiceService,
) *BillingHandler {
	return &BillingHandler{
		rateService:    rateService,
		costService:    costService,
		ledgerService:  ledgerService,
		invoiceService: invoiceService,
	}
}

// resolveBillingPeriod picks the billing period from query parameters.
// "date" (YYYY-MM-DD) selects the period containing that date; "year" and
// "month" select the period starting on the 16th of that month. With neither
// present the current period is used. Returns false after writing an error
// response when the parameters are malformed.
func (h *BillingHandler) resolveBillingPeriod(c *gin.Context) (billing.BillingPeriod, bool) {
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.ParseInLocation(time.DateOnly, dateStr, time.UTC)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return billing.BillingPeriod{}, false
		}
		return billing.BillingPeriodContaining(date), true
	}

	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr != "" || monthStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			h.BadRequest(c, "Invalid year")
			return billing.BillingPeriod{}, false
		}
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			h.BadRequest(c, "Invalid month, expected 1-12")
			return billing.BillingPeriod{}, false
		}
		return billing.BillingPeriodStarting(year, time.Month(month), time.UTC), true
	}

	return billing.BillingPeriodContaining(time.Now().UTC()), true
}

// ===================== Cost rates =====================

// CreateRate handles POST /api/v1/rates
func (h *BillingHandler) CreateRate(c *gin.Context) {
	var req appbilling.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rate, err := h.rateService.CreateRate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rate)
}

// GetRate handles GET /api/v1/rates/:id
func (h *BillingHandler) GetRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid rate ID")
		return
	}

	rate, err := h.rateService.GetRate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}

// UpdateRate handles PUT /api/v1/rates/:id
func (h *BillingHandler) UpdateRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid rate ID")
		return
	}

	var req appbilling.UpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rate, err := h.rateService.UpdateRate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}

// DeleteRate handles DELETE /api/v1/rates/:id
func (h *BillingHandler) DeleteRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid rate ID")
		return
	}

	if err := h.rateService.DeleteRate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListWarehouseRates handles GET /api/v1/warehouses/:id/rates
func (h *BillingHandler) ListWarehouseRates(c *gin.Context) {
	warehouseID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	card, err := h.rateService.ListRatesForWarehouse(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// ===================== Cost calculations =====================

// GetStorageCosts handles GET /api/v1/warehouses/:id/costs/storage
func (h *BillingHandler) GetStorageCosts(c *gin.Context) {
	warehouseID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	period, ok := h.resolveBillingPeriod(c)
	if !ok {
		return
	}

	items, err := h.costService.CalculateStorageCosts(c.Request.Context(), warehouseID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, periodCostsPayload(period, items))
}

// GetTransactionCosts handles GET /api/v1/warehouses/:id/costs/transactions
func (h *BillingHandler) GetTransactionCosts(c *gin.Context) {
	warehouseID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	period, ok := h.resolveBillingPeriod(c)
	if !ok {
		return
	}

	items, err := h.costService.CalculateTransactionCosts(c.Request.Context(), warehouseID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, periodCostsPayload(period, items))
}

// GetAllCosts handles GET /api/v1/warehouses/:id/costs
func (h *BillingHandler) GetAllCosts(c *gin.Context) {
	warehouseID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	period, ok := h.resolveBillingPeriod(c)
	if !ok {
		return
	}

	items, err := h.costService.CalculateAllCosts(c.Request.Context(), warehouseID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, periodCostsPayload(period, items))
}

// GetCostSummary handles GET /api/v1/warehouses/:id/costs/summary
func (h *BillingHandler) GetCostSummary(c *gin.Context) {
	warehouseID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	period, ok := h.resolveBillingPeriod(c)
	if !ok {
		return
	}

	summaries, err := h.costService.GetCalculatedCostsSummary(c.Request.Context(), warehouseID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"period_start": period.Start,
		"period_end":   period.End,
		"period_label": period.Label(),
		"summary":      summaries,
	})
}

func periodCostsPayload(period billing.BillingPeriod, items []billing.CostLineItem) gin.H {
	return gin.H{
		"period_start": period.Start,
		"period_end":   period.End,
		"period_label": period.Label(),
		"line_items":   items,
	}
}

// ===================== Storage ledger =====================

// GenerateLedger handles POST /api/v1/warehouses/:id/ledger/generate
func (h *BillingHandler) GenerateLedger(c *gin.Context) {
	warehouseID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	period, ok := h.resolveBillingPeriod(c)
	if !ok {
		return
	}

	written, err := h.ledgerService.GenerateForPeriod(c.Request.Context(), warehouseID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"period_label":    period.Label(),
		"entries_written": written,
	})
}

// GetLedger handles GET /api/v1/warehouses/:id/ledger
func (h *BillingHandler) GetLedger(c *gin.Context) {
	warehouseID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	period, ok := h.resolveBillingPeriod(c)
	if !ok {
		return
	}

	entries, err := h.ledgerService.GetLedgerForPeriod(c.Request.Context(), warehouseID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"period_label": period.Label(),
		"entries":      entries,
	})
}

// ===================== Invoices =====================

// GenerateInvoice handles POST /api/v1/warehouses/:id/invoices
func (h *BillingHandler) GenerateInvoice(c *gin.Context) {
	warehouseID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	period, ok := h.resolveBillingPeriod(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GenerateInvoice(c.Request.Context(), warehouseID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// ListInvoices handles GET /api/v1/invoices
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filters := make(map[string]any)
	if warehouseID := c.Query("warehouse_id"); warehouseID != "" {
		filters["warehouse_id"] = warehouseID
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}

	filter := buildFilter(req, filters)
	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// GetInvoice handles GET /api/v1/invoices/:id
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// FinalizeInvoice handles POST /api/v1/invoices/:id/finalize
func (h *BillingHandler) FinalizeInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.FinalizeInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// PayInvoice handles POST /api/v1/invoices/:id/pay
func (h *BillingHandler) PayInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// ReconcileInvoice handles GET /api/v1/invoices/:id/reconciliation
func (h *BillingHandler) ReconcileInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	report, err := h.invoiceService.ReconcileInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// VoidInvoice handles POST /api/v1/invoices/:id/void
func (h *BillingHandler) VoidInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.VoidInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}
